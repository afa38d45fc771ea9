package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/framebind/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	// Connect to socket
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	// Set deadline
	conn.SetDeadline(time.Now().Add(c.timeout))

	// Marshal request
	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Send request
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	// Read response
	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Parse response
	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// Check for error response
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// OpenWindow asks the daemon to register a new window. Zero width/height
// defer to the daemon's configured default bounds.
func (c *Client) OpenWindow(title string, x, y, width, height int) (uint64, error) {
	payload, err := json.Marshal(OpenWindowPayload{
		Title: title, X: x, Y: y, Width: width, Height: height,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal open payload: %w", err)
	}

	resp, err := c.sendRequest(&Request{Command: CommandOpenWindow, Payload: payload})
	if err != nil {
		return 0, err
	}

	var data OpenWindowData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return 0, fmt.Errorf("failed to parse open response: %w", err)
	}
	return data.ID, nil
}

// CloseWindow asks the daemon to remove a window and destroy its frame.
func (c *Client) CloseWindow(id uint64) error {
	payload, err := json.Marshal(CloseWindowPayload{ID: id})
	if err != nil {
		return fmt.Errorf("failed to marshal close payload: %w", err)
	}

	_, err = c.sendRequest(&Request{Command: CommandCloseWindow, Payload: payload})
	return err
}

// ListWindows retrieves a snapshot of all registered windows.
func (c *Client) ListWindows() (*WindowsData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandListWindows})
	if err != nil {
		return nil, err
	}

	var data WindowsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse windows data: %w", err)
	}
	return &data, nil
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// Lookup runs a directory query on the daemon.
func (c *Client) Lookup(query string, limit int, reachableOnly bool) ([]string, error) {
	payload, err := json.Marshal(LookupPayload{
		Query: query, Limit: limit, ReachableOnly: reachableOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lookup payload: %w", err)
	}

	resp, err := c.sendRequest(&Request{Command: CommandLookup, Payload: payload})
	if err != nil {
		return nil, err
	}

	var data LookupData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse lookup data: %w", err)
	}
	return data.Entries, nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	_, err := c.sendRequest(&Request{Command: CommandReload})
	return err
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
