// Package web bridges browser pointer events to gesture recognition over
// websockets. Every connection gets its own tracker.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/bnema/waygesture/internal/config"
	"github.com/bnema/waygesture/internal/gesture"
	"github.com/bnema/waygesture/internal/input"
	"github.com/bnema/waygesture/internal/logger"
	"github.com/bnema/waygesture/internal/tracker"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// MaxMessageSize bounds one inbound websocket message.
const MaxMessageSize = 32 << 10

const writeWait = 5 * time.Second

// Bridge serves the websocket endpoint.
type Bridge struct {
	registry    *gesture.Registry
	options     map[string]gesture.Options
	dedupWindow time.Duration
	listeners   []gesture.Listener
	logger      *log.Logger

	upgrader websocket.Upgrader
	router   *gin.Engine

	mu    sync.Mutex
	conns int
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithListener adds a listener to every connection's emitter.
func WithListener(l gesture.Listener) Option {
	return func(b *Bridge) {
		b.listeners = append(b.listeners, l)
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(b *Bridge) {
		b.logger = logger.Or(l)
	}
}

// New creates a bridge using the gesture settings of cfg.
func New(cfg *config.Config, opts ...Option) *Bridge {
	b := &Bridge{
		registry:    cfg.Registry(),
		options:     cfg.GestureOptions(),
		dedupWindow: cfg.DedupWindow(),
		logger:      logger.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The bridge is meant for local pages
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(b)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), b.requestLogger())
	router.GET("/healthz", b.health)
	router.GET("/ws", b.serveWS)
	b.router = router
	return b
}

// Handler returns the HTTP handler of the bridge.
func (b *Bridge) Handler() http.Handler {
	return b.router
}

// Connections returns the number of open websocket connections.
func (b *Bridge) Connections() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conns
}

// ListenAndServe serves on addr until ctx is cancelled.
func (b *Bridge) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return b.Serve(ctx, l)
}

// Serve serves on l until ctx is cancelled.
func (b *Bridge) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{Handler: b.router}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	b.logger.Info("Websocket bridge listening", "address", l.Addr().String())
	if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (b *Bridge) requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		b.logger.Debug("HTTP request",
			"method", ctx.Request.Method,
			"path", ctx.Request.URL.Path,
			"status", ctx.Writer.Status(),
			"duration", time.Since(start))
	}
}

func (b *Bridge) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"connections": b.Connections(),
	})
}

func (b *Bridge) serveWS(ctx *gin.Context) {
	if !ctx.IsWebsocket() {
		ctx.AbortWithStatus(http.StatusBadRequest)
		return
	}
	conn, err := b.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		b.logger.Warn("Websocket upgrade failed", "error", err)
		return
	}

	s, err := b.newSession(conn)
	if err != nil {
		b.logger.Error("Failed to create gesture session", "error", err)
		_ = conn.Close()
		return
	}

	b.mu.Lock()
	b.conns++
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		b.conns--
		b.mu.Unlock()
	}()

	s.run()
}

// session is one websocket connection with its own tracker. Reads,
// tracking and writes all happen on the connection's goroutine.
type session struct {
	conn    *websocket.Conn
	tracker *tracker.Tracker
	logger  *log.Logger
	targets map[string]*target
	origin  time.Time
	now     time.Time
}

// target is a page element named by the browser.
type target struct {
	name string
}

func (t *target) TargetID() string { return t.name }

func (b *Bridge) newSession(conn *websocket.Conn) (*session, error) {
	s := &session{
		conn:    conn,
		logger:  b.logger.With("remote", conn.RemoteAddr().String()),
		targets: make(map[string]*target),
		origin:  time.Now(),
	}

	emitter := gesture.NewEmitter(s.logger)
	emitter.Listen(s.send)
	for _, l := range b.listeners {
		emitter.Listen(l)
	}
	dispatcher, err := b.registry.Build(&gesture.Context{
		Emitter: emitter,
		Logger:  s.logger,
		Options: b.options,
	})
	if err != nil {
		return nil, err
	}
	s.tracker = tracker.New(dispatcher,
		tracker.WithClock(func() time.Time { return s.now }),
		tracker.WithDedupWindow(b.dedupWindow),
		tracker.WithLogger(s.logger))
	return s, nil
}

func (s *session) run() {
	defer s.conn.Close()
	s.conn.SetReadLimit(MaxMessageSize)
	s.logger.Debug("Websocket connected")

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("Websocket closed", "error", err)
			}
			s.logger.Debug("Websocket disconnected")
			return
		}

		var msg rawMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Warn("Skipping malformed message", "error", err)
			continue
		}
		s.handle(&msg)
	}
}

func (s *session) handle(msg *rawMessage) {
	s.now = time.Now()
	if msg.TimeStamp > 0 {
		s.now = s.origin.Add(time.Duration(msg.TimeStamp * float64(time.Millisecond)))
	}
	ev := msg.event(s.target(msg.Target), s.now)

	if ev.Type == input.TypeClick {
		// Platform clicks never count, the synthetic click already did.
		if !gesture.AllowActivation(ev) {
			s.write(&gestureMessage{Type: input.TypeClick, Target: msg.Target, Suppressed: true})
		}
		return
	}
	s.tracker.Handle(ev)
}

func (s *session) target(name string) *target {
	t, ok := s.targets[name]
	if !ok {
		t = &target{name: name}
		s.targets[name] = t
	}
	return t
}

func (s *session) send(tag input.Tag, ev *gesture.Event) {
	name := ""
	if t, ok := tag.(input.Identifier); ok {
		name = t.TargetID()
	}
	s.write(newGestureMessage(name, ev))
}

func (s *session) write(msg *gestureMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("Failed to encode gesture", "error", err)
		return
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.logger.Debug("Failed to send gesture", "event", msg.Type, "error", err)
	}
}
