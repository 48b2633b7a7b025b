// Package server exposes a bridge adapter to MCP clients. Each tool
// answers one projector query or routes one action, so an agent can
// inspect the platform view of a tree the same way a screen reader would.
package server

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mj1618/a11y-bridge/internal/bridge"
	"github.com/mj1618/a11y-bridge/internal/platform/headless"
	"github.com/mj1618/a11y-bridge/internal/version"
)

// Config holds MCP server configuration.
type Config struct {
	Transport string
	Port      int
}

// Server wraps the MCP server around one adapter.
type Server struct {
	adapter  *bridge.Adapter
	recorder *headless.Recorder
	mcp      *mcpserver.MCPServer
}

// New creates a server for a. When rec is the adapter's notifier, the
// events tool drains the native events it recorded; rec may be nil.
func New(a *bridge.Adapter, rec *headless.Recorder) *Server {
	s := &Server{
		adapter:  a,
		recorder: rec,
		mcp:      mcpserver.NewMCPServer("a11y-bridge", version.Version),
	}
	s.registerTools()
	return s
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcpserver.MCPServer { return s.mcp }

// Serve starts the MCP server with the configured transport.
func (s *Server) Serve(cfg Config) error {
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}
