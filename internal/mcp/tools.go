package mcp

import "github.com/mark3labs/mcp-go/mcp"

// generateDraftTool defines the generate_draft MCP tool.
var generateDraftTool = mcp.NewTool("generate_draft",
	mcp.WithDescription("Generate a short, polite outreach message draft from a brief idea. Returns plain text ready to send."),
	mcp.WithString("idea",
		mcp.Required(),
		mcp.Description("What the message should be about, in a few words"),
	),
	mcp.WithString("recipient",
		mcp.Description("Full name of the person the message is addressed to (defaults to the configured recipient)"),
	),
)

// previewPromptTool defines the preview_prompt MCP tool.
var previewPromptTool = mcp.NewTool("preview_prompt",
	mcp.WithDescription("Show the instructions that would be sent to the model for an idea, without calling it."),
	mcp.WithString("idea",
		mcp.Required(),
		mcp.Description("What the message should be about, in a few words"),
	),
	mcp.WithString("recipient",
		mcp.Description("Full name of the person the message is addressed to (defaults to the configured recipient)"),
	),
)
