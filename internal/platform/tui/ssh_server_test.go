package tui

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"

	"github.com/vovakirdan/frameforge/internal/playback"
	"github.com/vovakirdan/frameforge/internal/storage"
)

// testContext stores values; nothing else of ssh.Context is used.
type testContext struct {
	ssh.Context
	values map[any]any
}

func (c *testContext) Value(key any) any       { return c.values[key] }
func (c *testContext) SetValue(key, value any) { c.values[key] = value }
func (c *testContext) User() string            { return "tester" }

type testSession struct {
	ssh.Session
	ctx *testContext
}

func (s testSession) Context() ssh.Context { return s.ctx }
func (s testSession) User() string         { return "tester" }

func newTestSession() testSession {
	return testSession{ctx: &testContext{values: make(map[any]any)}}
}

func newTraceStore(t *testing.T, n int) (*storage.Store, string) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "traces.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	tl, save := testTimeline(t, n)
	id, err := store.SaveTrace(playback.ToTrace("run", "refsim", save, tl))
	if err != nil {
		t.Fatalf("SaveTrace: %v", err)
	}
	return store, id
}

func TestReleaseMiddlewareClosesAfterProgram(t *testing.T) {
	store, id := newTraceStore(t, 3)

	cfg := DefaultSSHServerConfig()
	cfg.Store = store
	cfg.NewBinding = newBinding
	cfg.TraceID = id

	model := NewSessionModel(cfg, 80, 24)
	if model.res.session == nil {
		t.Fatalf("trace not opened: %q", model.openError)
	}

	sess := newTestSession()
	sess.ctx.SetValue(resourcesKey{}, model.res)

	srv := &SSHServer{config: cfg, logger: log.New(io.Discard)}
	called := false
	handler := srv.releaseMiddleware(func(ssh.Session) {
		called = true
	})

	// Until the handler runs the binding stays usable.
	next, _ := model.Update(runes("m"))
	model = next.(SessionModel)
	if model.scrubber.Position() != 1 {
		t.Fatalf("position = %d, want 1", model.scrubber.Position())
	}

	handler(sess)
	if !called {
		t.Error("release middleware did not call the next handler")
	}
	if model.res.session != nil {
		t.Error("binding still held after the session ended")
	}

	// A session opened after the end is not kept alive.
	model.open(id)
	if model.res.session != nil {
		t.Error("ended session accepted a new binding")
	}
}

func TestReleaseMiddlewareWithoutResources(t *testing.T) {
	srv := &SSHServer{logger: log.New(io.Discard)}
	called := false
	srv.releaseMiddleware(func(ssh.Session) { called = true })(newTestSession())
	if !called {
		t.Error("next handler not called for a session without a program")
	}
}

func TestSessionOpenAfterEndReportsError(t *testing.T) {
	store, id := newTraceStore(t, 2)

	cfg := DefaultSSHServerConfig()
	cfg.Store = store
	cfg.NewBinding = newBinding

	sm := NewSessionModel(cfg, 80, 24)
	if err := sm.res.close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	sm.open(id)
	if sm.scrubber != nil {
		t.Error("scrubber opened on an ended session")
	}
	if sm.openError == "" {
		t.Error("failed open should leave an error")
	}
}
