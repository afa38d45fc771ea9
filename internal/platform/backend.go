package platform

// FrameID is a platform-neutral identifier for a presentation frame.
type FrameID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Empty reports whether the rectangle has no usable area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Backend abstracts frame operations across window systems. The daemon talks
// to the window system exclusively through this interface so the attachment
// machinery and the reconciler can be exercised against fakes.
type Backend interface {
	// SpawnFrame asks the window system to create one new frame sized to
	// bounds. Creation is asynchronous: the frame announces itself to the
	// attachment registry once it exists.
	SpawnFrame(bounds Rect) error

	// TrackedFrames returns the IDs of every frame the backend believes is
	// alive.
	TrackedFrames() []FrameID

	// FrameExists reports whether the window system still knows the frame.
	FrameExists(id FrameID) bool

	// DropFrame removes a frame the window system has lost, detaching it
	// from the registry.
	DropFrame(id FrameID)

	// EventLoop blocks processing window-system events.
	EventLoop()

	// Disconnect closes the window-system connection.
	Disconnect()
}
