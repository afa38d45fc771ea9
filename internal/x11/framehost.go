package x11

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/framebind/internal/attach"
	"github.com/1broseidon/framebind/internal/platform"
)

// FrameHost creates and tracks X11 frames and routes their window-system
// events into the attachment registry. It implements platform.Backend.
type FrameHost struct {
	conn        *Connection
	registry    *attach.Registry
	class       string
	titlePrefix string
	logger      *slog.Logger

	mu     sync.Mutex
	frames map[xproto.Window]*Frame
}

var _ platform.Backend = (*FrameHost)(nil)

// FrameHostConfig carries the presentation settings for spawned frames.
type FrameHostConfig struct {
	Class       string
	TitlePrefix string
	Logger      *slog.Logger
}

// NewFrameHost creates a frame host on an existing X11 connection. Call
// SetRegistry before spawning frames.
func NewFrameHost(conn *Connection, cfg FrameHostConfig) *FrameHost {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &FrameHost{
		conn:        conn,
		class:       cfg.Class,
		titlePrefix: cfg.TitlePrefix,
		logger:      logger,
		frames:      make(map[xproto.Window]*Frame),
	}
}

// SetRegistry wires the attachment registry the host announces frames to.
func (h *FrameHost) SetRegistry(r *attach.Registry) {
	h.registry = r
}

// SpawnFrame requests creation of one new frame sized to bounds. Creation
// runs asynchronously; the frame registers itself as a consumer when ready,
// so the caller never blocks on the window system.
func (h *FrameHost) SpawnFrame(bounds platform.Rect) error {
	if h.registry == nil {
		return fmt.Errorf("frame host has no registry")
	}
	go h.createFrame(bounds)
	return nil
}

// createFrame builds the X11 window for a new frame and announces it to the
// registry, which pairs it with the first waiting window.
func (h *FrameHost) createFrame(bounds platform.Rect) {
	win, err := xwindow.Generate(h.conn.XUtil)
	if err != nil {
		h.logger.Error("failed to allocate frame window ID", "error", err)
		return
	}

	err = win.CreateChecked(h.conn.Root,
		bounds.X, bounds.Y, bounds.Width, bounds.Height,
		xproto.CwEventMask, xproto.EventMaskStructureNotify)
	if err != nil {
		h.logger.Error("failed to create frame window", "error", err)
		return
	}

	if err := icccm.WmClassSet(h.conn.XUtil, win.Id, &icccm.WmClass{
		Instance: "framebind",
		Class:    h.class,
	}); err != nil {
		h.logger.Warn("failed to set frame class", "frame", win.Id, "error", err)
	}

	frame := &Frame{host: h, xwin: win}

	h.mu.Lock()
	h.frames[win.Id] = frame
	h.mu.Unlock()

	h.listen(frame)
	h.logger.Info("frame created", "frame", win.Id,
		"width", bounds.Width, "height", bounds.Height)

	// The frame stays unmapped until a window is attached.
	h.registry.RegisterConsumer(frame)
}

// listen routes the frame's structure events into the registry: destruction
// removes the frame permanently, unmap/map become iconify notifications for
// the hosted window.
func (h *FrameHost) listen(frame *Frame) {
	xu := h.conn.XUtil
	id := frame.xwin.Id

	xevent.DestroyNotifyFun(func(_ *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		h.logger.Info("frame destroyed by window system", "frame", id)
		h.registry.RemoveConsumer(frame, true)
		h.forget(id)
	}).Connect(xu, id)

	xevent.UnmapNotifyFun(func(_ *xgbutil.XUtil, ev xevent.UnmapNotifyEvent) {
		h.registry.NoticeIconified(frame)
	}).Connect(xu, id)

	xevent.MapNotifyFun(func(_ *xgbutil.XUtil, ev xevent.MapNotifyEvent) {
		h.registry.NoticeDeiconified(frame)
	}).Connect(xu, id)
}

// forget stops tracking a frame and drops its event callbacks. Safe to call
// more than once.
func (h *FrameHost) forget(id xproto.Window) {
	h.mu.Lock()
	_, known := h.frames[id]
	delete(h.frames, id)
	h.mu.Unlock()

	if known {
		xevent.Detach(h.conn.XUtil, id)
	}
}

// TrackedFrames returns the IDs of every frame the host believes is alive.
func (h *FrameHost) TrackedFrames() []platform.FrameID {
	h.mu.Lock()
	defer h.mu.Unlock()

	ids := make([]platform.FrameID, 0, len(h.frames))
	for id := range h.frames {
		ids = append(ids, platform.FrameID(id))
	}
	return ids
}

// FrameExists reports whether the X server still knows the frame's window.
func (h *FrameHost) FrameExists(id platform.FrameID) bool {
	_, err := xproto.GetWindowAttributes(h.conn.XUtil.Conn(), xproto.Window(id)).Reply()
	return err == nil
}

// DropFrame removes a frame whose X11 window disappeared without a
// DestroyNotify reaching us (e.g. events lost across a window manager
// restart). The attached window, if any, is left waiting for a replacement.
func (h *FrameHost) DropFrame(id platform.FrameID) {
	h.mu.Lock()
	frame, ok := h.frames[xproto.Window(id)]
	h.mu.Unlock()
	if !ok {
		return
	}

	h.registry.RemoveConsumer(frame, true)
	h.forget(xproto.Window(id))
}

// EventLoop blocks processing X11 events.
func (h *FrameHost) EventLoop() {
	h.conn.EventLoop()
}

// Disconnect closes the X11 connection.
func (h *FrameHost) Disconnect() {
	h.conn.Close()
}
