// Package obsidian is a client for the Obsidian Local REST API plugin.
// It owns no state beyond the HTTP transport: every operation is one
// request against the vault API, which keeps storage, search, and note
// parsing on the Obsidian side.
package obsidian

import "context"

// Provider exposes the vault operations the tool layer depends on.
type Provider interface {
	// ListVault returns the files and directories in the vault root.
	ListVault(ctx context.Context) ([]string, error)
	// ListDir returns the files and directories under dir. The API omits
	// empty directories; nothing is filtered locally.
	ListDir(ctx context.Context, dir string) ([]string, error)
	// GetFileContents returns the raw Markdown content of a single file.
	GetFileContents(ctx context.Context, path string) (string, error)
	// GetBatchFileContents reads every path sequentially and concatenates
	// the results with a header per section. A failing path is rendered
	// inline as an error note; the batch itself never fails.
	GetBatchFileContents(ctx context.Context, paths []string) (string, error)
	// Search runs a simple text search with the given amount of
	// surrounding context per match.
	Search(ctx context.Context, query string, contextLength int) ([]SimpleSearchResult, error)
	// SearchJSON evaluates a JsonLogic query against every file and
	// returns the files for which it is truthy.
	SearchJSON(ctx context.Context, query map[string]any) ([]ComplexSearchResult, error)
	// AppendContent appends content to a file. Whether a missing file is
	// created is the plugin's documented behavior, not enforced here.
	AppendContent(ctx context.Context, path, content string) error
	// PatchContent inserts content relative to a heading, block reference,
	// or frontmatter field. The API resolves the target and fails when it
	// cannot.
	PatchContent(ctx context.Context, path, operation, targetType, target, content string) error
	// DeleteFile removes a file or directory. Irreversible.
	DeleteFile(ctx context.Context, path string) error
	// GetPeriodicNote returns the current note for the given period.
	GetPeriodicNote(ctx context.Context, period string) (string, error)
	// GetRecentPeriodicNotes returns up to limit most recent notes of the
	// given period type, optionally including their content.
	GetRecentPeriodicNotes(ctx context.Context, period string, limit int, includeContent bool) ([]PeriodicNote, error)
	// GetRecentChanges returns files modified within the last days days,
	// most recent first, truncated to limit.
	GetRecentChanges(ctx context.Context, limit, days int) ([]RecentChange, error)
}
