package ipc

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/1broseidon/framebind/internal/attach"
	"github.com/1broseidon/framebind/internal/config"
	"github.com/1broseidon/framebind/internal/directory"
)

// startTestServer runs an IPC server on a private socket and returns a client
// connected to it.
func startTestServer(t *testing.T, store *directory.Store) (*Client, chan struct{}) {
	t.Helper()
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	// RELOAD reads the config from the home directory; keep it hermetic.
	t.Setenv("HOME", t.TempDir())

	registry := attach.NewRegistry(nil, nil)
	reloadChan := make(chan struct{}, 1)

	srv, err := NewServer(config.DefaultConfig(), registry, store, reloadChan)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(srv.Stop)

	return NewClient(), reloadChan
}

func TestPingAndStatus(t *testing.T) {
	store, err := directory.Open(filepath.Join(t.TempDir(), "directory.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	for _, name := range []string{"Ada Lovelace", "Grace Hopper"} {
		if _, err := store.Add(context.Background(), directory.Record{Name: name}); err != nil {
			t.Fatalf("add %q: %v", name, err)
		}
	}

	client, _ := startTestServer(t, store)

	if err := client.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}

	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !status.DaemonRunning {
		t.Fatalf("expected daemon_running to be reported")
	}
	if status.WindowCount != 0 || status.ConsumerCount != 0 {
		t.Fatalf("expected empty registry counts, got %d/%d",
			status.WindowCount, status.ConsumerCount)
	}
	if status.ContactCount != 2 {
		t.Fatalf("expected 2 contacts in status, got %d", status.ContactCount)
	}
}

func TestReloadNotifiesDaemon(t *testing.T) {
	client, reloadChan := startTestServer(t, nil)

	if err := client.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}

	select {
	case <-reloadChan:
	default:
		t.Fatalf("expected reload notification on the channel")
	}
}

func TestOpenAndListWindows(t *testing.T) {
	client, _ := startTestServer(t, nil)

	id, err := client.OpenWindow("editor", 0, 0, 0, 0)
	if err != nil {
		t.Fatalf("open window: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected a non-zero window ID")
	}

	data, err := client.ListWindows()
	if err != nil {
		t.Fatalf("list windows: %v", err)
	}
	if len(data.Windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(data.Windows))
	}
	w := data.Windows[0]
	if w.ID != id || w.Title != "editor" {
		t.Fatalf("unexpected window entry: %+v", w)
	}
	// No spawner is wired, so the window waits for a frame.
	if w.State != "waiting" {
		t.Fatalf("expected waiting state, got %q", w.State)
	}
	// Zero requested bounds defer to the configured defaults.
	if w.Width != 800 || w.Height != 600 {
		t.Fatalf("expected default bounds 800x600, got %dx%d", w.Width, w.Height)
	}

	if err := client.CloseWindow(id); err != nil {
		t.Fatalf("close window: %v", err)
	}
	data, err = client.ListWindows()
	if err != nil {
		t.Fatalf("list windows: %v", err)
	}
	if len(data.Windows) != 0 {
		t.Fatalf("expected no windows after close, got %d", len(data.Windows))
	}
}
