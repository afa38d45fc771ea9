package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/1broseidon/framebind/internal/attach"
	"github.com/1broseidon/framebind/internal/config"
	"github.com/1broseidon/framebind/internal/directory"
	"github.com/1broseidon/framebind/internal/platform"
	"github.com/1broseidon/framebind/internal/runtimepath"
)

// frameIdentifier is an optional interface for consumers that expose a
// window-system identity, used to enrich LIST_WINDOWS output.
type frameIdentifier interface {
	WindowID() uint32
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	cfg          *config.Config
	cfgMu        sync.RWMutex
	registry     *attach.Registry
	store        *directory.Store // nil when the directory service is disabled
	startTime    time.Time
	reloadChan   chan struct{}
	nextWindowID atomic.Uint64
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(cfg *config.Config, registry *attach.Registry, store *directory.Store, reloadChan chan struct{}) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		cfg:        cfg,
		registry:   registry,
		store:      store,
		startTime:  time.Now(),
		reloadChan: reloadChan,
	}, nil
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	// Accept connections
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	// Parse request
	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Handle command
	resp := s.handleCommand(req)

	// Send response
	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandOpenWindow:
		return s.handleOpenWindow(req.Payload)
	case CommandCloseWindow:
		return s.handleCloseWindow(req.Payload)
	case CommandListWindows:
		return s.handleListWindows()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandLookup:
		return s.handleLookup(req.Payload)
	case CommandReload:
		return s.handleReload()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// handleOpenWindow registers a new window on behalf of a host application.
// Registration pairs it with a free frame or triggers a frame spawn.
func (s *Server) handleOpenWindow(payload json.RawMessage) *Response {
	var req OpenWindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid open payload: %v", err))
	}

	bounds := platform.Rect{X: req.X, Y: req.Y, Width: req.Width, Height: req.Height}
	if bounds.Empty() {
		s.cfgMu.RLock()
		def := s.cfg.Frame.DefaultBounds
		s.cfgMu.RUnlock()
		bounds = platform.Rect{X: def.X, Y: def.Y, Width: def.Width, Height: def.Height}
	}

	id := s.nextWindowID.Add(1)
	window := attach.NewWindow(id, req.Title, bounds)

	log.Printf("IPC: Opening window %d (%q)", id, req.Title)
	s.registry.RegisterWindow(window)

	resp, _ := NewOKResponse(OpenWindowData{ID: id})
	return resp
}

// handleCloseWindow removes a window; its frame, if any, is destroyed.
func (s *Server) handleCloseWindow(payload json.RawMessage) *Response {
	var req CloseWindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid close payload: %v", err))
	}

	window := s.findWindow(req.ID)
	if window == nil {
		return NewErrorResponse(fmt.Sprintf("Unknown window: %d", req.ID))
	}

	log.Printf("IPC: Closing window %d", req.ID)
	s.registry.DetachWindow(window)

	resp, _ := NewOKResponse(nil)
	return resp
}

// handleListWindows returns a snapshot of all registered windows.
func (s *Server) handleListWindows() *Response {
	windows := s.registry.CopyWindows()

	infos := make([]WindowInfo, len(windows))
	for i, w := range windows {
		geo := w.Geometry()
		info := WindowInfo{
			ID:        w.ID(),
			Title:     w.Title(),
			State:     string(w.State()),
			Iconified: w.Iconified(),
			X:         geo.X,
			Y:         geo.Y,
			Width:     geo.Width,
			Height:    geo.Height,
		}
		if c := w.AttachedConsumer(); c != nil {
			if fid, ok := c.(frameIdentifier); ok {
				info.FrameID = fid.WindowID()
			}
		}
		infos[i] = info
	}

	resp, _ := NewOKResponse(WindowsData{Windows: infos})
	return resp
}

// handleGetStatus returns current daemon status
func (s *Server) handleGetStatus() *Response {
	windows, consumers := s.registry.Counts()

	status := StatusData{
		WindowCount:   windows,
		ConsumerCount: consumers,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	}

	if s.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		n, err := s.store.Count(ctx)
		if err != nil {
			log.Printf("IPC: failed to count contacts: %v", err)
		} else {
			status.ContactCount = n
		}
	}

	resp, _ := NewOKResponse(status)
	return resp
}

// handleLookup runs the directory query/filter/format pipeline.
func (s *Server) handleLookup(payload json.RawMessage) *Response {
	if s.store == nil {
		return NewErrorResponse("Directory service is not configured")
	}

	var req LookupPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid lookup payload: %v", err))
	}

	limit := req.Limit
	if limit <= 0 {
		s.cfgMu.RLock()
		limit = s.cfg.Directory.Limit
		s.cfgMu.RUnlock()
	}

	keep := directory.Any
	if req.ReachableOnly {
		keep = directory.Reachable
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entries, err := directory.Lookup(ctx, s.store, req.Query, limit, keep)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Lookup failed: %v", err))
	}

	resp, _ := NewOKResponse(LookupData{Entries: entries})
	return resp
}

// handleReload reloads the configuration
func (s *Server) handleReload() *Response {
	log.Println("IPC: Received RELOAD command")

	// Load new config
	newCfg, err := config.Load()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}

	// Update config atomically
	s.cfgMu.Lock()
	s.cfg = newCfg
	s.cfgMu.Unlock()

	// Notify the main daemon via channel (non-blocking)
	select {
	case s.reloadChan <- struct{}{}:
	default:
	}

	log.Println("IPC: Config reloaded successfully")

	resp, _ := NewOKResponse(nil)
	return resp
}

// findWindow locates a registered window by its ID.
func (s *Server) findWindow(id uint64) *attach.Window {
	for _, w := range s.registry.CopyWindows() {
		if w.ID() == id {
			return w
		}
	}
	return nil
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

// GetConfig returns the current config (thread-safe)
func (s *Server) GetConfig() *config.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// UpdateConfig updates the config (thread-safe)
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	s.cfg = cfg
}
