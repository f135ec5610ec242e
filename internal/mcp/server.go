// Package mcp exposes the outline engine as Model Context Protocol tools.
package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/project-outline/internal/engine"
)

// Server binds an Engine to an mcp-go server.
type Server struct {
	engine *engine.Engine
	mcp    *server.MCPServer
}

// NewServer creates an MCP server with every outline tool registered.
func NewServer(eng *engine.Engine, version string) (*Server, error) {
	if eng == nil {
		return nil, fmt.Errorf("engine is required")
	}

	mcpServer := server.NewMCPServer(
		"outline-mcp",
		version,
		server.WithToolCapabilities(true),
	)

	AddStructureTool(mcpServer, eng)
	AddExtractTool(mcpServer, eng)

	return &Server{engine: eng, mcp: mcpServer}, nil
}

// Serve runs the server on stdio until the client disconnects, ctx ends or
// the process receives SIGINT or SIGTERM.
func (s *Server) Serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)
	go func() {
		log.Printf("outline mcp: serving on stdio")
		done <- server.ServeStdio(s.mcp)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Printf("outline mcp: shutting down")
		return nil
	}
}

// Close releases the engine.
func (s *Server) Close() {
	s.engine.Close()
}
