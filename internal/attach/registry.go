// Package attach pairs windows with the consumers that present them.
//
// Windows (created by host applications) and consumers (created lazily by the
// window system) appear and disappear asynchronously and in arbitrary
// interleavings. The registry reconciles the two collections: every time a
// window is registered it takes the first free consumer or asks the platform
// to spawn one; every time a consumer is registered it takes the first free
// window. Removing a window destroys its consumer; removing a consumer leaves
// its window registered, eligible for a future pairing.
package attach

import (
	"log/slog"
	"sync"
)

// Registry reconciles registered windows with registered consumers. Each
// registry is independent; construct one per daemon and pass it explicitly.
// All operations are safe for concurrent use.
type Registry struct {
	mu        sync.Mutex
	windows   []*Window
	consumers []Consumer

	spawn  SpawnFunc
	logger *slog.Logger
}

// NewRegistry creates an empty registry. spawn is invoked, outside the
// registry's critical section, whenever a window registers and no free
// consumer exists; it may be nil, in which case such windows simply wait.
func NewRegistry(spawn SpawnFunc, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{spawn: spawn, logger: logger}
}

// RegisterWindow adds a window and pairs it with the first registered
// consumer that is not hosting one, in registration order. If every consumer
// is busy, exactly one spawn request sized to the window's geometry is
// issued. Registering a window that is already registered is a no-op:
// creation events may be redelivered, and a duplicate must never trigger a
// second spawn.
func (r *Registry) RegisterWindow(w *Window) {
	r.mu.Lock()

	for _, existing := range r.windows {
		if existing == w {
			r.mu.Unlock()
			return
		}
	}

	r.windows = append(r.windows, w)

	for _, c := range r.consumers {
		if c.AttachedWindow() == nil {
			r.pairLocked(w, c)
			r.mu.Unlock()
			r.logger.Debug("window attached to existing consumer", "window", w.ID())
			return
		}
	}

	bounds := w.Geometry()
	r.mu.Unlock()

	// The spawn may be slow; it must not run inside the critical section.
	// The new consumer re-enters through RegisterConsumer on its own.
	if r.spawn == nil {
		r.logger.Warn("no consumer free and no spawner configured", "window", w.ID())
		return
	}
	r.logger.Debug("requesting consumer spawn", "window", w.ID(),
		"width", bounds.Width, "height", bounds.Height)
	if err := r.spawn(bounds); err != nil {
		// The window stays registered and unpaired; no retry.
		r.logger.Error("consumer spawn request failed", "window", w.ID(), "error", err)
	}
}

// RegisterConsumer adds a consumer and pairs it with the first registered
// window that has no consumer, in registration order. If every window is
// attached (or none exist) the consumer stays idle; windows are never
// spawned. Registering the same consumer twice is a programming error and
// panics.
func (r *Registry) RegisterConsumer(c Consumer) {
	r.mu.Lock()

	for _, existing := range r.consumers {
		if existing == c {
			r.mu.Unlock()
			panic("attach: consumer registered twice")
		}
	}

	r.consumers = append(r.consumers, c)

	for _, w := range r.windows {
		if w.AttachedConsumer() == nil {
			r.pairLocked(w, c)
			r.mu.Unlock()
			r.logger.Debug("consumer attached to waiting window", "window", w.ID())
			return
		}
	}

	r.mu.Unlock()
	r.logger.Debug("consumer registered with no window to attach")
}

// RemoveConsumer removes a consumer that is going away. Its window, if any,
// is detached and notified; finishing tells the window whether the consumer
// shut down for good or only transiently. The window itself stays registered
// and will pair with the next free consumer.
func (r *Registry) RemoveConsumer(c Consumer, finishing bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if w := c.AttachedWindow(); w != nil {
		c.DetachWindow()
		w.setConsumer(nil)
		w.OnConsumerDetached(finishing)
		r.logger.Debug("window detached from removed consumer",
			"window", w.ID(), "finishing", finishing)
	}

	r.consumers = withoutConsumer(r.consumers, c)
}

// DetachWindow removes a window whose surface is gone. Its consumer, if any,
// has no further purpose and is removed and destroyed.
func (r *Registry) DetachWindow(w *Window) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c := w.AttachedConsumer(); c != nil {
		r.consumers = withoutConsumer(r.consumers, c)
		w.setConsumer(nil)
		c.Destroy()
		r.logger.Debug("consumer destroyed with its window", "window", w.ID())
	}

	r.windows = withoutWindow(r.windows, w)
}

// NoticeIconified forwards an iconification notification to the consumer's
// attached window, if any.
func (r *Registry) NoticeIconified(c Consumer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if w := c.AttachedWindow(); w != nil {
		w.NoticeIconified()
	}
}

// NoticeDeiconified forwards a deiconification notification to the consumer's
// attached window, if any.
func (r *Registry) NoticeDeiconified(c Consumer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if w := c.AttachedWindow(); w != nil {
		w.NoticeDeiconified()
	}
}

// CopyWindows returns an independent snapshot of the registered windows in
// registration order. Later registry mutations do not affect the returned
// slice, and vice versa.
func (r *Registry) CopyWindows() []*Window {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Window, len(r.windows))
	copy(out, r.windows)
	return out
}

// Counts returns the current number of registered windows and consumers.
func (r *Registry) Counts() (windows, consumers int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.windows), len(r.consumers)
}

// pairLocked establishes the mutual attachment between w and c. Both
// references change inside the same critical section so the relation is
// symmetric at every quiescent point. The caller must hold r.mu and have
// verified that c hosts nothing.
func (r *Registry) pairLocked(w *Window, c Consumer) {
	c.AttachWindow(w)
	w.setConsumer(c)
}

func withoutWindow(ws []*Window, w *Window) []*Window {
	for i, existing := range ws {
		if existing == w {
			return append(ws[:i], ws[i+1:]...)
		}
	}
	return ws
}

func withoutConsumer(cs []Consumer, c Consumer) []Consumer {
	for i, existing := range cs {
		if existing == c {
			return append(cs[:i], cs[i+1:]...)
		}
	}
	return cs
}
