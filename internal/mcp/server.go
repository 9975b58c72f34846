// ABOUTME: MCP server setup for the fitness record store.
// ABOUTME: Wraps MCP server with storage Repository and Scheduler access.
package mcp

import (
	"context"

	"github.com/harperreed/fitness/internal/scheduler"
	"github.com/harperreed/fitness/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	sched     *scheduler.Scheduler
}

// NewServer creates a new MCP server with the given storage.
func NewServer(repo storage.Repository, sched *scheduler.Scheduler) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "fitness",
			Version: "1.0.0",
		},
		nil,
	)

	if sched == nil {
		sched = scheduler.New()
	}

	s := &Server{
		mcpServer: mcpServer,
		repo:      repo,
		sched:     sched,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
