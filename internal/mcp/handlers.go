package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/ziadkadry99/contact-draft/internal/draft"
)

// handleGenerateDraft runs one draft request and returns the draft text, or
// the user-facing failure message as a tool error.
func (s *Server) handleGenerateDraft(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idea, err := request.RequireString("idea")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: idea"), nil
	}
	recipient := s.recipientFor(request)

	capture := &draft.Capture{}
	orch, err := s.factory.New(capture.UI(), draft.WithRecipient(recipient))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("draft generation unavailable: %v", err)), nil
	}

	if err := orch.Generate(ctx, idea); err != nil {
		s.logger.Debug("generate_draft failed", zap.Error(err))
		return mcp.NewToolResultError(capture.LastError()), nil
	}

	return mcp.NewToolResultText(capture.Output), nil
}

// handlePreviewPrompt returns the request that generate_draft would send.
func (s *Server) handlePreviewPrompt(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idea, err := request.RequireString("idea")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: idea"), nil
	}
	if strings.TrimSpace(idea) == "" {
		return mcp.NewToolResultError(draft.MsgEmptyInput), nil
	}

	req := draft.BuildRequest(idea, s.recipientFor(request))

	var sb strings.Builder
	sb.WriteString("# System instruction\n\n")
	sb.WriteString(req.SystemInstruction)
	sb.WriteString("\n\n# User message\n\n")
	sb.WriteString(req.UserMessage)
	sb.WriteString("\n")
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) recipientFor(request mcp.CallToolRequest) string {
	if r := strings.TrimSpace(request.GetString("recipient", "")); r != "" {
		return r
	}
	return s.recipient
}
