// Package mcp exposes framebind's window and directory operations as MCP
// tools over stdio, backed by the daemon's IPC socket.
package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/framebind/internal/ipc"
)

const (
	ServerName    = "framebind"
	ServerVersion = "0.1.0"
)

// Server is the MCP server bridging tools onto the framebind daemon.
type Server struct {
	mcpServer *mcpsdk.Server
	client    *ipc.Client
}

// NewServer creates a new MCP server. The daemon must be running; tool calls
// fail with a connection error otherwise.
func NewServer(client *ipc.Client) *Server {
	s := &Server{client: client}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_window",
		Description: "Register a new window with the framebind daemon. The daemon pairs it with a free presentation frame or spawns a new one sized to the requested geometry. Returns the window ID for future reference.",
	}, s.handleOpenWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a window by ID. Its presentation frame, if any, is destroyed; the window is forgotten.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List every registered window with its attachment state (waiting, attached, closed) and the X11 ID of its frame when attached.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "daemon_status",
		Description: "Report daemon uptime and the current window and frame counts.",
	}, s.handleDaemonStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "lookup_directory",
		Description: "Query the daemon's address-book directory. Matches the query against contact names and emails and returns formatted entries.",
	}, s.handleLookupDirectory)
}

func (s *Server) handleOpenWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenWindowInput) (*mcpsdk.CallToolResult, OpenWindowOutput, error) {
	id, err := s.client.OpenWindow(args.Title, args.X, args.Y, args.Width, args.Height)
	if err != nil {
		return nil, OpenWindowOutput{}, err
	}
	return nil, OpenWindowOutput{ID: id}, nil
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args CloseWindowInput) (*mcpsdk.CallToolResult, any, error) {
	if err := s.client.CloseWindow(args.ID); err != nil {
		return nil, nil, err
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: fmt.Sprintf("Closed window %d", args.ID)},
		},
	}, nil, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ struct{}) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.client.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}

	out := ListWindowsOutput{Windows: make([]WindowSummary, len(data.Windows))}
	for i, w := range data.Windows {
		out.Windows[i] = WindowSummary{
			ID:        w.ID,
			Title:     w.Title,
			State:     w.State,
			Iconified: w.Iconified,
			FrameID:   w.FrameID,
		}
	}
	return nil, out, nil
}

func (s *Server) handleDaemonStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ struct{}) (*mcpsdk.CallToolResult, DaemonStatusOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, DaemonStatusOutput{}, err
	}
	return nil, DaemonStatusOutput{
		WindowCount:   status.WindowCount,
		ConsumerCount: status.ConsumerCount,
		ContactCount:  status.ContactCount,
		UptimeSeconds: status.UptimeSeconds,
	}, nil
}

func (s *Server) handleLookupDirectory(_ context.Context, _ *mcpsdk.CallToolRequest, args LookupDirectoryInput) (*mcpsdk.CallToolResult, LookupDirectoryOutput, error) {
	entries, err := s.client.Lookup(args.Query, args.Limit, args.ReachableOnly)
	if err != nil {
		return nil, LookupDirectoryOutput{}, err
	}
	return nil, LookupDirectoryOutput{Entries: entries}, nil
}
