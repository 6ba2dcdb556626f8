// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes an Obsidian vault as tools for LLM integration, via stdio or SSE
// transport. Each tool maps onto exactly one vault API operation.
package mcpserver

import (
	"context"
	"net/http"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/obsidian"
)

// Server wraps the MCP server with the Obsidian vault tools.
type Server struct {
	mcp   *server.MCPServer
	vault obsidian.Provider
}

// New creates a new MCP server with all vault tools registered. The vault
// client is constructed once by the caller and shared by every tool call.
func New(vault obsidian.Provider) *Server {
	s := &Server{vault: vault}

	s.mcp = server.NewMCPServer(
		"ansuz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("obsidian_list_files_in_vault",
		mcp.WithDescription("List all files and directories in the root directory of your Obsidian vault."),
	), s.listFilesInVault)

	s.mcp.AddTool(mcp.NewTool("obsidian_list_files_in_dir",
		mcp.WithDescription("List all files and directories that exist in a specific Obsidian directory. "+
			"Note that empty directories will not be returned."),
		mcp.WithString("dirpath", mcp.Required(), mcp.Description("Path to list files from (relative to your vault root)")),
	), s.listFilesInDir)

	s.mcp.AddTool(mcp.NewTool("obsidian_get_file_contents",
		mcp.WithDescription("Return the content of a single file in your vault."),
		mcp.WithString("filepath", mcp.Required(), mcp.Description("Path to the relevant file (relative to your vault root)")),
	), s.getFileContents)

	s.mcp.AddTool(mcp.NewTool("obsidian_batch_get_file_contents",
		mcp.WithDescription("Return the contents of multiple files in your vault, concatenated with headers."),
		mcp.WithArray("filepaths", mcp.Required(), mcp.Description("List of file paths to read"),
			mcp.Items(map[string]any{"type": "string"})),
	), s.batchGetFileContents)

	s.mcp.AddTool(mcp.NewTool("obsidian_simple_search",
		mcp.WithDescription("Simple search for documents matching a specified text query across all files in the vault. "+
			"Use this tool when you want to do a simple text search."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Text to search for in the vault")),
		mcp.WithNumber("context_length", mcp.DefaultNumber(defaultContextLength),
			mcp.Description("How much context to return around the matching string")),
	), s.simpleSearch)

	s.mcp.AddTool(mcp.NewTool("obsidian_complex_search",
		mcp.WithDescription("Complex search for documents using a JsonLogic query. Supports standard JsonLogic "+
			"operators plus 'glob' and 'regexp' for pattern matching. Results must be non-falsy. "+
			"See the ansuz://query-grammar resource for the accepted operators."),
		mcp.WithObject("query", mcp.Required(),
			mcp.Description(`JsonLogic query object. Example: {"glob": ["*.md", {"var": "path"}]} matches all markdown files`)),
	), s.complexSearch)

	s.mcp.AddTool(mcp.NewTool("obsidian_append_content",
		mcp.WithDescription("Append content to a new or existing file in the vault."),
		mcp.WithString("filepath", mcp.Required(), mcp.Description("Path to the relevant file (relative to your vault root)")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Content to append to the file")),
	), s.appendContent)

	s.mcp.AddTool(mcp.NewTool("obsidian_patch_content",
		mcp.WithDescription("Insert content into an existing note relative to a heading, block reference, or frontmatter field. "+
			"Fails if the target cannot be resolved."),
		mcp.WithString("filepath", mcp.Required(), mcp.Description("Path to the relevant file (relative to your vault root)")),
		mcp.WithString("operation", mcp.Required(), mcp.Enum("append", "prepend", "replace"),
			mcp.Description("Operation to perform")),
		mcp.WithString("target_type", mcp.Required(), mcp.Enum("heading", "block", "frontmatter"),
			mcp.Description("Type of target to patch")),
		mcp.WithString("target", mcp.Required(), mcp.Description("Target identifier (heading path, block reference, or frontmatter field)")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Content to insert")),
	), s.patchContent)

	s.mcp.AddTool(mcp.NewTool("obsidian_delete_file",
		mcp.WithDescription("Delete a file or directory from the vault. Irreversible; requires confirmation."),
		mcp.WithString("filepath", mcp.Required(), mcp.Description("Path to the file or directory to delete (relative to your vault root)")),
		mcp.WithBoolean("confirm", mcp.Required(), mcp.Description("Confirmation to delete the file (must be true)")),
	), s.deleteFile)

	s.mcp.AddTool(mcp.NewTool("obsidian_get_periodic_note",
		mcp.WithDescription("Get current periodic note for the specified period."),
		mcp.WithString("period", mcp.Required(), mcp.Enum("daily", "weekly", "monthly", "quarterly", "yearly"),
			mcp.Description("The period type")),
	), s.getPeriodicNote)

	s.mcp.AddTool(mcp.NewTool("obsidian_get_recent_periodic_notes",
		mcp.WithDescription("Get most recent periodic notes for the specified period type."),
		mcp.WithString("period", mcp.Required(), mcp.Enum("daily", "weekly", "monthly", "quarterly", "yearly"),
			mcp.Description("The period type")),
		mcp.WithNumber("limit", mcp.DefaultNumber(defaultRecentLimit), mcp.Min(1), mcp.Max(50),
			mcp.Description("Maximum number of notes to return")),
		mcp.WithBoolean("include_content", mcp.DefaultBool(false),
			mcp.Description("Whether to include note content")),
	), s.getRecentPeriodicNotes)

	s.mcp.AddTool(mcp.NewTool("obsidian_get_recent_changes",
		mcp.WithDescription("Get recently modified files in the vault."),
		mcp.WithNumber("limit", mcp.DefaultNumber(defaultChangesLimit), mcp.Min(1), mcp.Max(100),
			mcp.Description("Maximum number of files to return")),
		mcp.WithNumber("days", mcp.DefaultNumber(defaultChangesDays), mcp.Min(1),
			mcp.Description("Only include files modified within this many days")),
	), s.getRecentChanges)

	// Resource: JsonLogic query grammar for complex search.
	s.mcp.AddResource(
		mcp.NewResource("ansuz://query-grammar", "Complex Search Query Grammar",
			mcp.WithResourceDescription("Operators accepted by the obsidian_complex_search JsonLogic query."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readQueryGrammarResource,
	)

	return s
}

// ServeStdio serves MCP on stdin/stdout until the context is cancelled or
// stdin is closed.
func (s *Server) ServeStdio(ctx context.Context) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
}

// SSEHandler returns an http.Handler serving the SSE transport under
// basePath, suitable for mounting on a router.
func (s *Server) SSEHandler(basePath string) http.Handler {
	return server.NewSSEServer(s.mcp, server.WithStaticBasePath(basePath))
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) readQueryGrammarResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "ansuz://query-grammar",
			MIMEType: "text/markdown",
			Text:     QueryGrammar,
		},
	}, nil
}
