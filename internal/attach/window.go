package attach

import (
	"sync"

	"github.com/1broseidon/framebind/internal/platform"
)

// WindowState describes a window's position in its attachment lifecycle.
type WindowState string

const (
	// StateWaiting means the window is registered but has no consumer yet,
	// either because none was free or because its consumer went away
	// transiently.
	StateWaiting WindowState = "waiting"
	// StateAttached means the window is paired with a consumer.
	StateAttached WindowState = "attached"
	// StateClosed means the window's last consumer shut down permanently and
	// no replacement has appeared.
	StateClosed WindowState = "closed"
)

// Window is a logical display surface announced by a host application. The
// host creates it before registration and disposes of it after removal; the
// registry owns only the attached-consumer reference, which it updates
// together with the consumer's own back-reference inside its critical
// section.
type Window struct {
	id       uint64
	title    string
	geometry platform.Rect

	mu        sync.Mutex
	consumer  Consumer
	iconified bool
	closed    bool
}

// NewWindow creates a window with the requested geometry. The ID is assigned
// by the caller and must be unique for the lifetime of the process.
func NewWindow(id uint64, title string, geometry platform.Rect) *Window {
	return &Window{id: id, title: title, geometry: geometry}
}

// ID returns the window's identity.
func (w *Window) ID() uint64 { return w.id }

// Title returns the host-supplied title.
func (w *Window) Title() string { return w.title }

// Geometry returns the requested size and position, used to size a newly
// spawned consumer.
func (w *Window) Geometry() platform.Rect { return w.geometry }

// AttachedConsumer returns the consumer currently hosting this window, or
// nil.
func (w *Window) AttachedConsumer() Consumer {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.consumer
}

// setConsumer updates the registry-owned attachment reference. Called only
// from inside the registry's critical section so both sides of the pairing
// change together.
func (w *Window) setConsumer(c Consumer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.consumer = c
	if c != nil {
		w.closed = false
	}
}

// OnConsumerDetached notifies the window that its consumer went away.
// finishing distinguishes permanent shutdown from a transient detach: a
// finished consumer will not be replaced by the platform on its own, so the
// window treats itself as closed until a new pairing revives it.
func (w *Window) OnConsumerDetached(finishing bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.iconified = false
	if finishing {
		w.closed = true
	}
}

// NoticeIconified records that the hosting consumer was iconified.
func (w *Window) NoticeIconified() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.iconified = true
}

// NoticeDeiconified records that the hosting consumer became visible again.
func (w *Window) NoticeDeiconified() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.iconified = false
}

// Iconified reports whether the window's consumer is currently iconified.
func (w *Window) Iconified() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.iconified
}

// State returns the window's current attachment state.
func (w *Window) State() WindowState {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch {
	case w.consumer != nil:
		return StateAttached
	case w.closed:
		return StateClosed
	default:
		return StateWaiting
	}
}
