// Package mcp exposes AEF validation to agents over the Model Context
// Protocol: validate a log file, classify an entry type, and summarize a
// log, all on stdio transport.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/phuslu/log"

	"github.com/warmautomation/aef/internal/config"
)

// Config holds MCP server configuration.
type Config struct {
	ConfigPath string
}

// Server wraps the MCP SDK server with the AEF validation tools.
type Server struct {
	mcpServer *mcpsdk.Server
	cfg       *config.Config
	logger    log.Logger
}

// New creates an MCP server with the tool config loaded and all tools
// registered.
func New(cfg Config) (*Server, error) {
	toolCfg, err := config.Load(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:    toolCfg,
		logger: log.Logger{Context: log.NewContext(nil).Str("component", "mcp").Value()},
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "aef",
			Version: "0.1.0",
		},
		nil,
	)
	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport. Blocks until ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info().Msg("mcp server starting on stdio")
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// registerTools adds all AEF tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "aef_validate",
		Description: "Validate an AEF log file. Returns structural rejections, semantic errors, and warnings with rule ids and the entry ids involved.",
	}, s.handleValidate)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "aef_classify",
		Description: "Classify an entryType string as core, extension, or invalid without reading any file.",
	}, s.handleClassify)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "aef_stats",
		Description: "Summarize an AEF log file: entries, sessions, per-type counts, tool call/result counts, and time span.",
	}, s.handleStats)
}
