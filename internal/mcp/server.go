// ABOUTME: MCP server exposing bandwidth scores, history, alerts, and settings.
// ABOUTME: Wraps the MCP server with the repository, aggregator, and settings manager.
package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/harperreed/bandwidth/internal/metrics"
	"github.com/harperreed/bandwidth/internal/scoring"
	"github.com/harperreed/bandwidth/internal/settings"
	"github.com/harperreed/bandwidth/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Deps are the services the MCP server calls into.
type Deps struct {
	Repo       storage.Repository
	Aggregator *scoring.Aggregator
	Settings   *settings.Manager
	Clock      metrics.Clock
	Location   *time.Location
}

// Server wraps the MCP server with bandwidth services.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	agg       *scoring.Aggregator
	settings  *settings.Manager
	clock     metrics.Clock
	loc       *time.Location
}

// NewServer creates a new MCP server over d.
func NewServer(d Deps) (*Server, error) {
	if d.Repo == nil || d.Aggregator == nil || d.Settings == nil {
		return nil, errors.New("mcp server needs a repository, aggregator, and settings")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "bandwidth",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		repo:      d.Repo,
		agg:       d.Aggregator,
		settings:  d.Settings,
		clock:     d.Clock,
		loc:       d.Location,
	}
	if s.clock == nil {
		s.clock = metrics.SystemClock{}
	}
	if s.loc == nil {
		s.loc = time.Local
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
