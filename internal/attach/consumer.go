package attach

import "github.com/1broseidon/framebind/internal/platform"

// Consumer is any presentation container able to host exactly one window at a
// time. Concrete implementations (X11 frames, test fakes) are created by the
// platform layer, usually in response to a spawn request, and announce
// themselves to the registry once ready.
type Consumer interface {
	// AttachWindow accepts exclusive hosting of the window. Implementations
	// must panic if they are already hosting one; the registry never pairs a
	// busy consumer, so a double attach is a programming error.
	AttachWindow(w *Window)

	// AttachedWindow returns the currently hosted window, or nil.
	AttachedWindow() *Window

	// DetachWindow releases the current window, leaving the consumer alive
	// and hostable again.
	DetachWindow()

	// Destroy irreversibly disposes of the consumer.
	Destroy()
}

// SpawnFunc requests creation of one new consumer sized to bounds. The call
// is fire-and-forget: the registry never waits for the consumer, which later
// registers itself through RegisterConsumer. A spawn that never completes
// leaves its window unpaired; the registry does not retry.
type SpawnFunc func(bounds platform.Rect) error
