package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/funny-combination/internal/score"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":2222").
	Address string

	// HostKeyPath is the path to the host key file. It is generated on
	// first start if missing.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Game tunes the game screen of every session.
	Game GameOptions

	// Seed fixes the sequence RNG of every session. 0 picks a time-based
	// seed per game.
	Seed int64
}

// SSHServer wraps a Wish SSH server. Every connection gets its own
// SessionModel and combo.Game; the score store is shared.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  score.Store
	prefs  Preferences
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig, store score.Store, prefs Preferences, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "combo-ssh",
		})
	}
	if store == nil {
		store = score.NewMemoryStore()
	}
	if prefs == nil {
		prefs = NewMemoryPreferences()
	}

	if cfg.HostKeyPath == "" {
		return nil, errors.New("ssh: host key path is required")
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		prefs:  prefs,
		logger: logger,
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(cfg.HostKeyPath)
	if err := os.MkdirAll(hostKeyDir, 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(cfg.HostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}
	if cfg.IdleTimeout > 0 {
		opts = append(opts, wish.WithIdleTimeout(cfg.IdleTimeout))
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	model := NewSessionModel(s.sessionOptions(sshSession.User(), pty.Window.Width, pty.Window.Height))
	closeWhenDone(sshSession.Context(), model.Close)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// sessionOptions builds the session for one SSH user.
func (s *SSHServer) sessionOptions(user string, width, height int) SessionOptions {
	return SessionOptions{
		Store:       s.store,
		Preferences: userPreferences{prefs: s.prefs, user: user},
		Game:        s.config.Game,
		Seed:        s.config.Seed,
		Logger:      s.logger.With("user", user),
		Width:       width,
		Height:      height,
	}
}

// closeWhenDone calls closeFn once ctx ends.
func closeWhenDone(ctx context.Context, closeFn func()) {
	go func() {
		<-ctx.Done()
		closeFn()
	}()
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until ctx is cancelled.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("ssh server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// userPreferences namespaces settings per SSH user.
type userPreferences struct {
	prefs Preferences
	user  string
}

func (u userPreferences) key(k string) string {
	return "user:" + u.user + ":" + k
}

func (u userPreferences) Flag(ctx context.Context, k string) (bool, error) {
	return u.prefs.Flag(ctx, u.key(k))
}

func (u userPreferences) SetFlag(ctx context.Context, k string, v bool) error {
	return u.prefs.SetFlag(ctx, u.key(k), v)
}
