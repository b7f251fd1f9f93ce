package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ziadkadry99/contact-draft/internal/draft"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes draft generation tools.
type Server struct {
	factory   draft.Factory
	recipient string
	logger    *zap.Logger
	mcp       *server.MCPServer
}

// NewServer creates a new MCP server. Each tool call gets its own
// Orchestrator from factory; recipient is the default addressee.
func NewServer(factory draft.Factory, recipient string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recipient == "" {
		recipient = draft.DefaultRecipient
	}
	s := &Server{
		factory:   factory,
		recipient: recipient,
		logger:    logger,
	}

	s.mcp = server.NewMCPServer(
		"contactdraft",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(generateDraftTool, s.handleGenerateDraft)
	s.mcp.AddTool(previewPromptTool, s.handlePreviewPrompt)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
