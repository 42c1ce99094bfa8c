// Package server serves gesture pads over SSH, one pad with its own tracker
// per session.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/bnema/waygesture/internal/config"
	"github.com/bnema/waygesture/internal/logger"
	"github.com/bnema/waygesture/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bm "github.com/charmbracelet/wish/bubbletea"
	gossh "golang.org/x/crypto/ssh"
)

// ErrAlreadyStarted is returned by Start on a running server
var ErrAlreadyStarted = errors.New("server already started")

// Server handles incoming pad sessions over SSH
type Server struct {
	cfg    *config.Config
	pad    ui.PadOptions
	logger *log.Logger

	sshServer *ssh.Server
	listener  net.Listener

	// Active sessions
	mu       sync.Mutex
	sessions map[string]*sessionInfo // sessionID -> session

	// Lifecycle
	stopOnce sync.Once
	wg       sync.WaitGroup

	// Event handlers
	OnSessionStarted func(addr, fingerprint string)
	OnSessionEnded   func(addr string)
}

type sessionInfo struct {
	addr        string
	user        string
	fingerprint string
	started     time.Time
}

// New creates a server. Every session pad starts from pad.
func New(cfg *config.Config, pad ui.PadOptions, l *log.Logger) *Server {
	return &Server{
		cfg:      cfg,
		pad:      pad,
		logger:   logger.Or(l),
		sessions: make(map[string]*sessionInfo),
	}
}

// Start begins listening for SSH connections
func (s *Server) Start(ctx context.Context) error {
	if s.sshServer != nil {
		return ErrAlreadyStarted
	}

	addr := net.JoinHostPort(s.cfg.Server.BindAddress, fmt.Sprintf("%d", s.cfg.Server.Port))
	server, err := wish.NewServer(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(s.cfg.Server.HostKeyPath),
		wish.WithPublicKeyAuth(s.publicKeyAuth),
		wish.WithMiddleware(
			bm.Middleware(s.teaHandler),
			activeterm.Middleware(),
			s.sessionLimit(),
			s.loggingMiddleware(),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create SSH server: %w", err)
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.sshServer = server
	s.listener = listener

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.logger.Info("SSH server listening", "address", listener.Addr().String())
		if err := server.Serve(listener); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("SSH server error", "error", err)
		}
	}()

	// Handle context cancellation
	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Addr returns the listening address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop shuts down the SSH server
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		if s.sshServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.sshServer.Shutdown(ctx); err != nil {
				s.logger.Debug("SSH shutdown did not complete", "error", err)
				_ = s.sshServer.Close()
			}
		}
		s.wg.Wait()
	})
}

// Sessions returns the number of active sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// authorize decides whether a key fingerprint may open sessions.
func (s *Server) authorize(fingerprint string) bool {
	if s.cfg.IsWhitelisted(fingerprint) {
		return true
	}
	// If not whitelist-only, accept all keys
	return !s.cfg.Server.WhitelistOnly
}

// publicKeyAuth handles SSH public key authentication
func (s *Server) publicKeyAuth(ctx ssh.Context, key ssh.PublicKey) bool {
	// Convert Wish SSH public key to golang.org/x/crypto/ssh public key
	goKey, ok := key.(gossh.PublicKey)
	if !ok {
		parsed, err := gossh.ParsePublicKey(key.Marshal())
		if err != nil {
			s.logger.Error("Failed to parse public key", "error", err)
			return false
		}
		goKey = parsed
	}

	fingerprint := gossh.FingerprintSHA256(goKey)
	addr := ctx.RemoteAddr().String()
	if s.authorize(fingerprint) {
		s.logger.Info("SSH key accepted", "addr", addr, "user", ctx.User(), "key", fingerprint)
		return true
	}
	s.logger.Warn("SSH key denied", "addr", addr, "user", ctx.User(), "key", fingerprint)
	return false
}

// loggingMiddleware provides custom logging using our internal logger
func (s *Server) loggingMiddleware() wish.Middleware {
	return func(h ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			start := time.Now()
			s.logger.Debug("SSH session started", "user", sess.User(), "addr", sess.RemoteAddr())

			h(sess)

			s.logger.Debug("SSH session ended", "addr", sess.RemoteAddr(), "duration", time.Since(start))
		}
	}
}

// sessionLimit rejects sessions beyond server.max_sessions and keeps the
// session table
func (s *Server) sessionLimit() wish.Middleware {
	return func(h ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			id := sess.Context().SessionID()
			addr := sess.RemoteAddr().String()
			var fingerprint string
			if sess.PublicKey() != nil {
				fingerprint = gossh.FingerprintSHA256(sess.PublicKey())
			}

			if !s.admit(id, &sessionInfo{addr: addr, user: sess.User(), fingerprint: fingerprint, started: time.Now()}) {
				s.logger.Info("Rejecting session - max sessions reached", "addr", addr)
				wish.Fatalln(sess, "Server already has the maximum number of active sessions")
				return
			}
			defer s.release(id)

			h(sess)
		}
	}
}

func (s *Server) admit(id string, info *sessionInfo) bool {
	s.mu.Lock()
	limit := s.cfg.Server.MaxSessions
	if limit > 0 && len(s.sessions) >= limit {
		s.mu.Unlock()
		return false
	}
	s.sessions[id] = info
	s.mu.Unlock()

	if s.OnSessionStarted != nil {
		s.OnSessionStarted(info.addr, info.fingerprint)
	}
	return true
}

func (s *Server) release(id string) {
	s.mu.Lock()
	info, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok && s.OnSessionEnded != nil {
		s.OnSessionEnded(info.addr)
	}
}

// teaHandler gives every session its own pad
func (s *Server) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pad, err := s.newSessionPad(sess.User(), sess.Context().SessionID())
	if err != nil {
		s.logger.Error("Failed to create pad", "error", err)
		wish.Fatalln(sess, "Failed to create gesture pad")
		return nil, nil
	}
	return pad, ui.ProgramOptions()
}

func (s *Server) newSessionPad(user, id string) (*ui.PadModel, error) {
	opts := s.pad
	opts.Name = fmt.Sprintf("ssh:%s", user)
	opts.Title = fmt.Sprintf("WAYGESTURE PAD - %s", user)
	short := id
	if len(short) > 8 {
		short = short[:8]
	}
	opts.Logger = s.logger.With("session", short)
	return ui.NewPad(opts)
}
