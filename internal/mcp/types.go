package mcp

// OpenWindowInput is the input for the open_window tool.
type OpenWindowInput struct {
	Title  string `json:"title" jsonschema:"required,Title for the new window"`
	X      int    `json:"x,omitempty" jsonschema:"Requested X position"`
	Y      int    `json:"y,omitempty" jsonschema:"Requested Y position"`
	Width  int    `json:"width,omitempty" jsonschema:"Requested width (default: daemon's configured bounds)"`
	Height int    `json:"height,omitempty" jsonschema:"Requested height (default: daemon's configured bounds)"`
}

// OpenWindowOutput is the output for the open_window tool.
type OpenWindowOutput struct {
	ID uint64 `json:"id"`
}

// CloseWindowInput is the input for the close_window tool.
type CloseWindowInput struct {
	ID uint64 `json:"id" jsonschema:"required,ID of the window to close"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowSummary `json:"windows"`
}

// WindowSummary describes one window in list_windows output.
type WindowSummary struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	State     string `json:"state"`
	Iconified bool   `json:"iconified,omitempty"`
	FrameID   uint32 `json:"frame_id,omitempty"`
}

// DaemonStatusOutput is the output for the daemon_status tool.
type DaemonStatusOutput struct {
	WindowCount   int   `json:"window_count"`
	ConsumerCount int   `json:"consumer_count"`
	ContactCount  int   `json:"contact_count"`
	UptimeSeconds int64 `json:"uptime_seconds"`
}

// LookupDirectoryInput is the input for the lookup_directory tool.
type LookupDirectoryInput struct {
	Query         string `json:"query" jsonschema:"required,Substring to match against contact names and emails"`
	Limit         int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default: daemon's configured limit)"`
	ReachableOnly bool   `json:"reachable_only,omitempty" jsonschema:"Only return contacts with an email address or phone number"`
}

// LookupDirectoryOutput is the output for the lookup_directory tool.
type LookupDirectoryOutput struct {
	Entries []string `json:"entries"`
}
