package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bnema/waygesture/internal/logger"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// ProgramConfig holds configuration for running a UI program
type ProgramConfig struct {
	// Time to wait for the program to exit after cancellation
	QuitTimeout time.Duration
	// Logger output goes here while the program owns the terminal.
	// Empty drops it.
	LogFile string
	Logger  *log.Logger
}

// DefaultProgramConfig returns default configuration
func DefaultProgramConfig() ProgramConfig {
	return ProgramConfig{
		QuitTimeout: 2 * time.Second,
	}
}

// ProgramOptions returns the bubbletea options every pad runs with.
func ProgramOptions() []tea.ProgramOption {
	return []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// ProgramRunner manages the lifecycle of a Bubble Tea program
type ProgramRunner struct {
	config  ProgramConfig
	program *tea.Program
	logger  *log.Logger
	done    chan struct{} // Signals when the program has exited
}

// NewProgramRunner creates a new program runner
func NewProgramRunner(config ProgramConfig) *ProgramRunner {
	if config.QuitTimeout <= 0 {
		config.QuitTimeout = DefaultProgramConfig().QuitTimeout
	}
	return &ProgramRunner{
		config: config,
		logger: logger.Or(config.Logger),
		done:   make(chan struct{}),
	}
}

// Run starts the UI program with the given model and blocks until it exits
// or ctx is cancelled
func (r *ProgramRunner) Run(ctx context.Context, model tea.Model, extra ...tea.ProgramOption) error {
	// Ensure done channel is closed when we exit
	defer close(r.done)

	opts := append(ProgramOptions(), extra...)
	var out io.Writer = io.Discard
	if r.config.LogFile != "" {
		f, err := os.OpenFile(r.config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	r.logger.SetOutput(out)
	defer r.logger.SetOutput(os.Stderr)

	r.program = tea.NewProgram(model, opts...)

	// Run in a goroutine to handle context cancellation
	errCh := make(chan error, 1)
	go func() {
		_, err := r.program.Run()
		errCh <- err
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		r.program.Quit()

		select {
		case err := <-errCh:
			return err
		case <-time.After(r.config.QuitTimeout):
			// Force kill the program if it's not responding
			r.logger.Warn("UI did not quit in time, killing it")
			r.program.Kill()
			<-errCh
			return nil
		}
	}
}

// Send sends a message to the running program
func (r *ProgramRunner) Send(msg tea.Msg) {
	if r.program != nil {
		r.program.Send(msg)
	}
}

// Done returns a channel that's closed when the program exits
func (r *ProgramRunner) Done() <-chan struct{} {
	return r.done
}
