package x11

import (
	"sync"

	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/framebind/internal/attach"
)

// Frame is a top-level X11 window acting as the presentation container for
// one attached window. It stays unmapped while idle and appears when a window
// is attached.
type Frame struct {
	host *FrameHost
	xwin *xwindow.Window

	mu     sync.Mutex
	window *attach.Window
}

var _ attach.Consumer = (*Frame)(nil)

// WindowID returns the frame's X11 window ID.
func (f *Frame) WindowID() uint32 {
	return uint32(f.xwin.Id)
}

// AttachWindow accepts exclusive hosting of w: the frame takes the window's
// geometry and title and maps itself. Attaching to a frame that is already
// hosting is a programming error.
func (f *Frame) AttachWindow(w *attach.Window) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.window != nil {
		panic("x11: frame is already hosting a window")
	}
	f.window = w

	geo := w.Geometry()
	f.xwin.MoveResize(geo.X, geo.Y, geo.Width, geo.Height)

	title := f.host.titlePrefix + w.Title()
	if err := ewmh.WmNameSet(f.host.conn.XUtil, f.xwin.Id, title); err != nil {
		f.host.logger.Warn("failed to set frame title", "frame", f.xwin.Id, "error", err)
	}

	f.xwin.Map()
}

// AttachedWindow returns the hosted window, or nil.
func (f *Frame) AttachedWindow() *attach.Window {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.window
}

// DetachWindow releases the hosted window and hides the frame, leaving it
// alive and hostable again.
func (f *Frame) DetachWindow() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.window = nil
	f.xwin.Unmap()
}

// Destroy irreversibly disposes of the frame and its X11 window.
func (f *Frame) Destroy() {
	f.mu.Lock()
	f.window = nil
	f.mu.Unlock()

	f.host.forget(f.xwin.Id)
	f.xwin.Destroy()
}
