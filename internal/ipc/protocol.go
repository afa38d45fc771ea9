package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandOpenWindow  CommandType = "OPEN_WINDOW"
	CommandCloseWindow CommandType = "CLOSE_WINDOW"
	CommandListWindows CommandType = "LIST_WINDOWS"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandLookup      CommandType = "LOOKUP"
	CommandReload      CommandType = "RELOAD"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// OpenWindowPayload represents the payload for OPEN_WINDOW. Zero width or
// height means "use the daemon's configured default bounds".
type OpenWindowPayload struct {
	Title  string `json:"title"`
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// OpenWindowData is returned by OPEN_WINDOW.
type OpenWindowData struct {
	ID uint64 `json:"id"`
}

// CloseWindowPayload represents the payload for CLOSE_WINDOW.
type CloseWindowPayload struct {
	ID uint64 `json:"id"`
}

// WindowInfo describes one registered window and its attachment state.
type WindowInfo struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	State     string `json:"state"` // waiting, attached, closed
	Iconified bool   `json:"iconified,omitempty"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	FrameID   uint32 `json:"frame_id,omitempty"` // 0 when unattached
}

// WindowsData is returned by LIST_WINDOWS.
type WindowsData struct {
	Windows []WindowInfo `json:"windows"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	WindowCount   int   `json:"window_count"`
	ConsumerCount int   `json:"consumer_count"`
	ContactCount  int   `json:"contact_count"` // 0 when the directory service is disabled
	UptimeSeconds int64 `json:"uptime_seconds"`
	DaemonRunning bool  `json:"daemon_running"`
}

// LookupPayload represents the payload for LOOKUP.
type LookupPayload struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
	// ReachableOnly drops records without an email address or phone number.
	ReachableOnly bool `json:"reachable_only,omitempty"`
}

// LookupData is returned by LOOKUP.
type LookupData struct {
	Entries []string `json:"entries"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
