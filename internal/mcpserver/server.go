// Package mcpserver exposes pulsetrace analyses as MCP (Model Context
// Protocol) tools over stdio.
package mcpserver

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/katalvlaran/pulsetrace/internal/config"
	"github.com/katalvlaran/pulsetrace/internal/logging"
)

// Server wraps the MCP SDK server with the pulsetrace tools.
type Server struct {
	server   *sdk.Server
	settings *config.Config
	log      *slog.Logger
}

// Config holds server configuration.
type Config struct {
	Name     string         // Server name (e.g., "pulsetrace")
	Version  string         // Server version
	Settings *config.Config // Analysis defaults; nil means config.Default()
	Logger   *slog.Logger
}

// NewServer creates a new MCP server with the pulsetrace tools registered.
func NewServer(cfg *Config) *Server {
	settings := cfg.Settings
	if settings == nil {
		settings = config.Default()
	}

	s := &Server{
		server: sdk.NewServer(&sdk.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		}, nil),
		settings: settings,
		log:      logging.OrDiscard(cfg.Logger),
	}
	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "pulsetrace_reduce",
		Description: "Read a detector trace and merge overlapping pulses by coherent summation",
	}, s.handleReduce)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "pulsetrace_energy",
		Description: "Total optical energy of a detector trace after coherent reduction",
	}, s.handleEnergy)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "pulsetrace_waveform",
		Description: "Sample the power waveform of a detector trace on a uniform time grid",
	}, s.handleWaveform)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "pulsetrace_topology",
		Description: "Summarize a simulator circuit description: nets, elements and connected components",
	}, s.handleTopology)
}

// Run serves over stdio until the client disconnects, the context is
// cancelled or the process is interrupted.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.log.Info("mcp server listening on stdio")
	return s.server.Run(ctx, &sdk.StdioTransport{})
}
