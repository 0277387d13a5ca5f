package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/frameforge/internal/playback"
	"github.com/vovakirdan/frameforge/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":2323").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.frameforge/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Store holds the traces offered to remote users.
	Store *storage.Store

	// NewBinding brings up the view binding of each remote session.
	NewBinding playback.BindingFactory

	// TraceID, when set, opens that trace directly instead of the picker.
	TraceID string

	// Scrubber configures the per-session scrubber. Remote sessions are
	// always read-only.
	Scrubber Options

	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":2323",
		IdleTimeout: 30 * time.Minute,
		Scrubber:    Options{TicksPerSecond: playback.TicksPerSecond},
	}
}

// SSHServer wraps a Wish SSH server serving the scrubber.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	if cfg.Store == nil {
		return nil, errors.New("ssh server: no trace store")
	}
	if cfg.NewBinding == nil {
		return nil, errors.New("ssh server: no binding factory")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "frameforge-ssh",
		})
	}
	cfg.Scrubber.ReadOnly = true

	srv := &SSHServer{
		config: cfg,
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".frameforge", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			srv.releaseMiddleware,
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
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

	model := NewSessionModel(s.config, pty.Window.Width, pty.Window.Height)

	// Released by releaseMiddleware once the program has stopped.
	sshSession.Context().SetValue(resourcesKey{}, model.res)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// releaseMiddleware closes the session's view binding. It sits inside the
// bubbletea middleware, which calls it only after the program has returned,
// so no Update can still be using the binding.
func (s *SSHServer) releaseMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		if res, ok := sshSession.Context().Value(resourcesKey{}).(*sessionResources); ok {
			if err := res.close(); err != nil {
				s.logger.Warn("cannot release session binding", "user", sshSession.User(), "error", err)
			}
		}
		next(sshSession)
	}
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

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
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

type resourcesKey struct{}

var errSessionEnded = errors.New("ssh session already ended")

// sessionResources owns the view binding of one remote session. It is
// shared by every copy of the session model.
type sessionResources struct {
	mu      sync.Mutex
	session *playback.Session
	ended   bool
}

// swap closes the current session and installs s. After end, s is closed
// right away instead.
func (r *sessionResources) swap(s *playback.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.session != nil {
		err = r.session.Close()
	}
	r.session = nil
	if r.ended {
		if s != nil {
			s.Close()
			return errSessionEnded
		}
		return err
	}
	r.session = s
	return err
}

// release closes the current session but keeps accepting new ones.
func (r *sessionResources) release() error {
	return r.swap(nil)
}

// close releases the session for good.
func (r *sessionResources) close() error {
	r.mu.Lock()
	r.ended = true
	r.mu.Unlock()
	return r.swap(nil)
}

// SessionModel manages the remote flow: picker -> scrubber -> picker.
type SessionModel struct {
	config    SSHServerConfig
	res       *sessionResources
	picker    PickerModel
	scrubber  *Model
	direct    bool // opened with a fixed trace; leaving the scrubber quits
	openError string
	width     int
	height    int
	quitting  bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(cfg SSHServerConfig, width, height int) SessionModel {
	m := SessionModel{
		config: cfg,
		res:    &sessionResources{},
		picker: NewPickerModel(cfg.Store, width, height),
		width:  width,
		height: height,
	}
	if cfg.TraceID != "" {
		m.direct = true
		m.open(cfg.TraceID)
	}
	return m
}

// open loads a stored trace into a fresh scrubber.
func (m *SessionModel) open(id string) {
	s, title, err := OpenTrace(m.config.Store, id, m.config.NewBinding)
	if err != nil {
		m.openError = err.Error()
		return
	}
	if err := m.res.swap(s); err != nil {
		m.openError = err.Error()
		return
	}

	opts := m.config.Scrubber
	opts.Title = title
	scrubber := NewModel(s, opts)
	scrubber.width, scrubber.height = m.width, m.height
	scrubber.help.Width = m.width
	m.scrubber = &scrubber
	m.openError = ""
}

// OpenTrace loads trace id (or a unique prefix of it) from store into a
// new session. Returns the session and a display title.
func OpenTrace(store *storage.Store, id string, newBinding playback.BindingFactory) (*playback.Session, string, error) {
	full, err := store.ResolveTraceID(id)
	if err != nil {
		return nil, "", err
	}
	if full == "" {
		return nil, "", fmt.Errorf("trace %q not found", id)
	}
	t, err := store.GetTrace(full)
	if err != nil {
		return nil, "", err
	}
	if t == nil {
		return nil, "", fmt.Errorf("trace %q not found", id)
	}
	tl, err := playback.FromTrace(t)
	if err != nil {
		return nil, "", err
	}
	s, err := playback.OpenSession(tl, newBinding)
	if err != nil {
		return nil, "", err
	}
	return s, fmt.Sprintf("%s (%s)", t.Name, t.Engine), nil
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	if m.scrubber != nil {
		return m.updateScrubber(msg)
	}
	if m.direct {
		// Direct trace failed to open; any key leaves.
		if _, ok := msg.(tea.KeyMsg); ok {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}
	return m.updatePicker(msg)
}

// updatePicker handles updates when the picker is shown.
func (m SessionModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	newPicker, cmd := m.picker.Update(msg)
	if p, ok := newPicker.(PickerModel); ok {
		m.picker = p
	}

	if m.picker.quitting {
		m.quitting = true
		return m, tea.Quit
	}

	if id := m.picker.Selected(); id != "" {
		m.picker = m.picker.clearSelection()
		m.open(id)
		return m, nil
	}

	return m, cmd
}

// updateScrubber handles updates when a trace is open.
func (m SessionModel) updateScrubber(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scrubber.Update(msg)
	if sm, ok := newModel.(Model); ok {
		m.scrubber = &sm
	}

	if m.scrubber.Quitting() {
		m.scrubber = nil
		//nolint:errcheck // Best-effort release, session continues
		m.res.release()
		if m.direct {
			m.quitting = true
			return m, tea.Quit
		}
		// Back to the picker; swallow the scrubber's quit.
		return m, nil
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	if m.scrubber != nil {
		return m.scrubber.View()
	}

	if m.openError != "" {
		return errorStyle.Render("cannot open trace: "+m.openError) + "\n\n" + m.picker.View()
	}
	return m.picker.View()
}
