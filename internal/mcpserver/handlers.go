package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/ansuz/internal/obsidian"
)

// jsonText pretty-prints v as an MCP text result.
func jsonText(v any) *mcp.CallToolResult {
	out, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(out))
}

func (s *Server) listFilesInVault(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	files, err := s.vault.ListVault(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonText(files), nil
}

func (s *Server) listFilesInDir(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p := listDirParams{Dirpath: req.GetString("dirpath", "")}
	if err := p.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	files, err := s.vault.ListDir(ctx, p.Dirpath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonText(files), nil
}

func (s *Server) getFileContents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p := fileParams{Filepath: req.GetString("filepath", "")}
	if err := p.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := s.vault.GetFileContents(ctx, p.Filepath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(content), nil
}

func (s *Server) batchGetFileContents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p := batchFileParams{Filepaths: req.GetStringSlice("filepaths", nil)}
	if err := p.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := s.vault.GetBatchFileContents(ctx, p.Filepaths)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(content), nil
}

// searchHit mirrors the vault API's simple search hit, with match offsets
// grouped under match_position for the caller.
type searchHit struct {
	Filename string           `json:"filename"`
	Score    float64          `json:"score"`
	Matches  []searchHitMatch `json:"matches"`
}

type searchHitMatch struct {
	Context       string                 `json:"context"`
	MatchPosition obsidian.MatchPosition `json:"match_position"`
}

func (s *Server) simpleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p := simpleSearchParams{
		Query:         req.GetString("query", ""),
		ContextLength: req.GetInt("context_length", defaultContextLength),
	}
	if err := p.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.vault.Search(ctx, p.Query, p.ContextLength)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	formatted := make([]searchHit, len(results))
	for i, r := range results {
		matches := make([]searchHitMatch, len(r.Matches))
		for j, m := range r.Matches {
			matches[j] = searchHitMatch{Context: m.Context, MatchPosition: m.Match}
		}
		formatted[i] = searchHit{Filename: r.Filename, Score: r.Score, Matches: matches}
	}
	return jsonText(formatted), nil
}

func (s *Server) complexSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, _ := req.GetArguments()["query"].(map[string]any)
	p := complexSearchParams{Query: query}
	if err := p.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.vault.SearchJSON(ctx, p.Query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonText(results), nil
}

func (s *Server) appendContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p := appendParams{
		Filepath: req.GetString("filepath", ""),
		Content:  req.GetString("content", ""),
	}
	if err := p.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.vault.AppendContent(ctx, p.Filepath, p.Content); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Successfully appended content to %s", p.Filepath)), nil
}

func (s *Server) patchContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p := patchParams{
		Filepath:   req.GetString("filepath", ""),
		Operation:  req.GetString("operation", ""),
		TargetType: req.GetString("target_type", ""),
		Target:     req.GetString("target", ""),
		Content:    req.GetString("content", ""),
	}
	if err := p.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.vault.PatchContent(ctx, p.Filepath, p.Operation, p.TargetType, p.Target, p.Content); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Successfully patched content in %s", p.Filepath)), nil
}

func (s *Server) deleteFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p := deleteParams{
		Filepath: req.GetString("filepath", ""),
		Confirm:  req.GetBool("confirm", false),
	}
	if err := p.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.vault.DeleteFile(ctx, p.Filepath); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Successfully deleted %s", p.Filepath)), nil
}

func (s *Server) getPeriodicNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p := periodParams{Period: req.GetString("period", "")}
	if err := p.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := s.vault.GetPeriodicNote(ctx, p.Period)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(content), nil
}

func (s *Server) getRecentPeriodicNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p := recentPeriodicParams{
		Period:         req.GetString("period", ""),
		Limit:          req.GetInt("limit", defaultRecentLimit),
		IncludeContent: req.GetBool("include_content", false),
	}
	if err := p.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	notes, err := s.vault.GetRecentPeriodicNotes(ctx, p.Period, p.Limit, p.IncludeContent)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !p.IncludeContent {
		// The API is asked to omit bodies too; stripping here guarantees it
		// regardless of what the collaborator returns.
		for i := range notes {
			notes[i].Content = ""
		}
	}
	return jsonText(notes), nil
}

func (s *Server) getRecentChanges(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p := recentChangesParams{
		Limit: req.GetInt("limit", defaultChangesLimit),
		Days:  req.GetInt("days", defaultChangesDays),
	}
	if err := p.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	changes, err := s.vault.GetRecentChanges(ctx, p.Limit, p.Days)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonText(changes), nil
}
