package daemon

import (
	"sync"
	"testing"

	"github.com/1broseidon/framebind/internal/attach"
	"github.com/1broseidon/framebind/internal/platform"
)

// fakeBackend simulates a window system where frames can vanish out from
// under the daemon.
type fakeBackend struct {
	mu       sync.Mutex
	tracked  map[platform.FrameID]bool // id -> window still exists
	registry *attach.Registry
	frames   map[platform.FrameID]*fakeFrame
	dropped  []platform.FrameID
}

type fakeFrame struct {
	mu     sync.Mutex
	window *attach.Window
}

func (f *fakeFrame) AttachWindow(w *attach.Window) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.window != nil {
		panic("fakeFrame: already hosting")
	}
	f.window = w
}

func (f *fakeFrame) AttachedWindow() *attach.Window {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.window
}

func (f *fakeFrame) DetachWindow() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.window = nil
}

func (f *fakeFrame) Destroy() {
	f.DetachWindow()
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		tracked: make(map[platform.FrameID]bool),
		frames:  make(map[platform.FrameID]*fakeFrame),
	}
}

func (b *fakeBackend) SpawnFrame(platform.Rect) error { return nil }

func (b *fakeBackend) TrackedFrames() []platform.FrameID {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]platform.FrameID, 0, len(b.tracked))
	for id := range b.tracked {
		ids = append(ids, id)
	}
	return ids
}

func (b *fakeBackend) FrameExists(id platform.FrameID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tracked[id]
}

func (b *fakeBackend) DropFrame(id platform.FrameID) {
	b.mu.Lock()
	frame := b.frames[id]
	delete(b.tracked, id)
	delete(b.frames, id)
	b.dropped = append(b.dropped, id)
	b.mu.Unlock()

	if frame != nil {
		b.registry.RemoveConsumer(frame, true)
	}
}

func (b *fakeBackend) EventLoop()  {}
func (b *fakeBackend) Disconnect() {}

// addFrame registers a live frame with both the backend and the registry.
func (b *fakeBackend) addFrame(id platform.FrameID) *fakeFrame {
	frame := &fakeFrame{}
	b.mu.Lock()
	b.tracked[id] = true
	b.frames[id] = frame
	b.mu.Unlock()
	b.registry.RegisterConsumer(frame)
	return frame
}

// vanish simulates the window system losing the frame without notifying us.
func (b *fakeBackend) vanish(id platform.FrameID) {
	b.mu.Lock()
	b.tracked[id] = false
	b.mu.Unlock()
}

func TestReconcileDropsOrphanedFrames(t *testing.T) {
	backend := newFakeBackend()
	registry := attach.NewRegistry(backend.SpawnFrame, nil)
	backend.registry = registry

	w := attach.NewWindow(1, "editor", platform.Rect{Width: 640, Height: 480})
	registry.RegisterWindow(w)
	backend.addFrame(100)

	if w.State() != attach.StateAttached {
		t.Fatalf("expected window attached before reconcile, got %q", w.State())
	}

	backend.vanish(100)

	rec := NewReconciler(ReconcilerConfig{CleanupOrphaned: true}, backend, registry)
	rec.ReconcileNow()

	if len(backend.dropped) != 1 || backend.dropped[0] != 100 {
		t.Fatalf("expected frame 100 dropped, got %v", backend.dropped)
	}
	if w.State() == attach.StateAttached {
		t.Fatalf("expected window detached after orphan cleanup")
	}
}

func TestReconcileKeepsLiveFrames(t *testing.T) {
	backend := newFakeBackend()
	registry := attach.NewRegistry(backend.SpawnFrame, nil)
	backend.registry = registry

	backend.addFrame(100)
	backend.addFrame(101)

	rec := NewReconciler(ReconcilerConfig{CleanupOrphaned: true}, backend, registry)
	rec.ReconcileNow()

	if len(backend.dropped) != 0 {
		t.Fatalf("expected no frames dropped, got %v", backend.dropped)
	}
}

func TestReconcileHonorsCleanupFlag(t *testing.T) {
	backend := newFakeBackend()
	registry := attach.NewRegistry(backend.SpawnFrame, nil)
	backend.registry = registry

	backend.addFrame(100)
	backend.vanish(100)

	rec := NewReconciler(ReconcilerConfig{CleanupOrphaned: false}, backend, registry)
	rec.ReconcileNow()

	if len(backend.dropped) != 0 {
		t.Fatalf("expected orphan to be reported but not dropped, got %v", backend.dropped)
	}
}
