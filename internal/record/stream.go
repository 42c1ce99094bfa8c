package record

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/bnema/waygesture/internal/input"
)

// MaxFrameSize bounds a single encoded event.
const MaxFrameSize = 4096

// ErrFrameTooLarge is returned for frames larger than MaxFrameSize.
var ErrFrameTooLarge = errors.New("frame too large")

// Writer appends frames to an io.Writer.
type Writer struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// NewWriter creates a writer stamping frames with time.Now.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, now: time.Now}
}

// WriteEvent records a raw event.
func (w *Writer) WriteEvent(ev *input.Event) error {
	return w.WriteFrame(FrameFromEvent(ev, w.now()))
}

// WriteFrame writes one length-prefixed frame.
func (w *Writer) WriteFrame(f *Frame) error {
	data := f.Marshal()
	if len(data) > MaxFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(data))
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	// Write length prefix (4 bytes, big-endian)
	var lengthBuf [4]byte
	binary.BigEndian.PutUint32(lengthBuf[:], uint32(len(data)))
	if _, err := w.w.Write(lengthBuf[:]); err != nil {
		return fmt.Errorf("failed to write length: %w", err)
	}
	if _, err := w.w.Write(data); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	// Force flush if the writer supports it
	if flusher, ok := w.w.(interface{ Flush() error }); ok {
		if err := flusher.Flush(); err != nil {
			return fmt.Errorf("failed to flush: %w", err)
		}
	}
	return nil
}

// Reader reads frames written by Writer.
type Reader struct {
	r io.Reader
}

// NewReader creates a reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Next returns the next frame, or io.EOF at a clean end of stream.
func (r *Reader) Next() (*Frame, error) {
	var lengthBuf [4]byte
	if _, err := io.ReadFull(r.r, lengthBuf[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read length: %w", err)
	}

	length := binary.BigEndian.Uint32(lengthBuf[:])
	if length > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, length)
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r.r, data); err != nil {
		return nil, fmt.Errorf("failed to read frame: %w", err)
	}
	return Unmarshal(data)
}

// ReadAll reads every remaining frame.
func (r *Reader) ReadAll() ([]*Frame, error) {
	var frames []*Frame
	for {
		f, err := r.Next()
		if err == io.EOF {
			return frames, nil
		}
		if err != nil {
			return frames, err
		}
		frames = append(frames, f)
	}
}
