// Package testutil provides a fake Obsidian Local REST API for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// PeriodicNote is a fixture entry for the recent periodic notes endpoint.
type PeriodicNote struct {
	Path    string
	Date    string
	Content string
}

// PatchRecord captures the last PATCH request the fake received.
type PatchRecord struct {
	Path       string
	Operation  string
	TargetType string
	Target     string
	Content    string
}

// FakeVault is an in-memory stand-in for the Local REST API plugin. It
// implements just enough of the wire surface for the client and tool tests:
// vault CRUD, simple and JsonLogic search, periodic notes, and the
// Dataview recent-changes query.
type FakeVault struct {
	mu sync.Mutex

	// Files maps vault-relative paths to content.
	Files map[string]string
	// Recent maps a period to its recent-notes fixtures.
	Recent map[string][]PeriodicNote

	// APIKey, when set, is enforced as a Bearer token.
	APIKey string

	// Requests counts every request received. Validation tests use it to
	// prove rejected input never reached the network.
	Requests int
	// LastDQL holds the body of the last Dataview search request.
	LastDQL string
	// LastPatch holds the last PATCH request.
	LastPatch PatchRecord

	srv *httptest.Server
}

// NewFakeVault starts a fake vault API that is shut down with the test.
func NewFakeVault(t *testing.T) *FakeVault {
	t.Helper()
	f := &FakeVault{
		Files:  map[string]string{},
		Recent: map[string][]PeriodicNote{},
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

// URL returns the fake API's base URL.
func (f *FakeVault) URL() string {
	return f.srv.URL
}

func (f *FakeVault) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Requests++

	if f.APIKey != "" && r.Header.Get("Authorization") != "Bearer "+f.APIKey {
		writeError(w, http.StatusUnauthorized, "missing or invalid API key")
		return
	}

	switch {
	case r.URL.Path == "/search/simple/" && r.Method == http.MethodPost:
		f.handleSimpleSearch(w, r)
	case r.URL.Path == "/search/" && r.Method == http.MethodPost:
		f.handleSearch(w, r)
	case strings.HasPrefix(r.URL.Path, "/periodic/"):
		f.handlePeriodic(w, r)
	case strings.HasPrefix(r.URL.Path, "/vault/"):
		f.handleVault(w, r)
	default:
		writeError(w, http.StatusNotFound, "no such route: "+r.URL.Path)
	}
}

func (f *FakeVault) handleVault(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, "/vault/")

	// Trailing slash (or the root) means a directory listing.
	if r.Method == http.MethodGet && (rel == "" || strings.HasSuffix(rel, "/")) {
		f.listDir(w, rel)
		return
	}

	switch r.Method {
	case http.MethodGet:
		content, ok := f.Files[rel]
		if !ok {
			writeError(w, http.StatusNotFound, "File does not exist.")
			return
		}
		w.Header().Set("Content-Type", "text/markdown")
		_, _ = io.WriteString(w, content)
	case http.MethodPost:
		body, _ := io.ReadAll(r.Body)
		f.Files[rel] += string(body)
		w.WriteHeader(http.StatusNoContent)
	case http.MethodPatch:
		if _, ok := f.Files[rel]; !ok {
			writeError(w, http.StatusNotFound, "File does not exist.")
			return
		}
		body, _ := io.ReadAll(r.Body)
		f.LastPatch = PatchRecord{
			Path:       rel,
			Operation:  r.Header.Get("Operation"),
			TargetType: r.Header.Get("Target-Type"),
			Target:     r.Header.Get("Target"),
			Content:    string(body),
		}
		f.Files[rel] += string(body)
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		if _, ok := f.Files[rel]; !ok {
			writeError(w, http.StatusNotFound, "File does not exist.")
			return
		}
		delete(f.Files, rel)
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// listDir reports the immediate children of dir, like the plugin does.
// Subdirectories carry a trailing slash; empty directories cannot exist in
// a path-keyed map, matching the plugin's omission of them.
func (f *FakeVault) listDir(w http.ResponseWriter, dir string) {
	seen := map[string]bool{}
	var files []string
	for p := range f.Files {
		if dir != "" && !strings.HasPrefix(p, dir) {
			continue
		}
		rest := strings.TrimPrefix(p, dir)
		if i := strings.Index(rest, "/"); i >= 0 {
			rest = rest[:i+1]
		}
		if rest != "" && !seen[rest] {
			seen[rest] = true
			files = append(files, rest)
		}
	}
	sort.Strings(files)
	writeJSON(w, map[string]any{"files": files})
}

func (f *FakeVault) handleSimpleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	contextLength, _ := strconv.Atoi(r.URL.Query().Get("contextLength"))

	var results []map[string]any
	for p, content := range f.Files {
		idx := strings.Index(content, query)
		if query == "" || idx < 0 {
			continue
		}
		ctxStart := idx - contextLength
		if ctxStart < 0 {
			ctxStart = 0
		}
		ctxEnd := idx + len(query) + contextLength
		if ctxEnd > len(content) {
			ctxEnd = len(content)
		}
		results = append(results, map[string]any{
			"filename": p,
			"score":    1.0,
			"matches": []map[string]any{{
				"context": content[ctxStart:ctxEnd],
				"match":   map[string]int{"start": idx - ctxStart, "end": idx - ctxStart + len(query)},
			}},
		})
	}
	sortByFilename(results)
	writeJSON(w, results)
}

// handleSearch covers the two POST /search/ payloads the client sends: a
// JsonLogic query (only the glob-on-path form is evaluated here) and a
// Dataview DQL recent-changes query.
func (f *FakeVault) handleSearch(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	if strings.Contains(r.Header.Get("Content-Type"), "dataview.dql") {
		f.LastDQL = string(body)
		var results []map[string]any
		for p := range f.Files {
			results = append(results, map[string]any{
				"filename": p,
				"result":   map[string]any{"file.mtime": "2025-01-01T00:00:00"},
			})
		}
		sortByFilename(results)
		writeJSON(w, results)
		return
	}

	var query map[string]any
	if err := json.Unmarshal(body, &query); err != nil {
		writeError(w, http.StatusBadRequest, "bad query: "+err.Error())
		return
	}
	var results []map[string]any
	for p := range f.Files {
		if evalGlob(query, p) {
			results = append(results, map[string]any{"filename": p, "result": true})
		}
	}
	sortByFilename(results)
	writeJSON(w, results)
}

// evalGlob evaluates {"glob": [pattern, {"var": "path"}]} queries, the one
// JsonLogic form the tests exercise.
func evalGlob(query map[string]any, filePath string) bool {
	args, ok := query["glob"].([]any)
	if !ok || len(args) != 2 {
		return false
	}
	pattern, ok := args[0].(string)
	if !ok {
		return false
	}
	matched, err := path.Match(pattern, filePath)
	return err == nil && matched
}

func (f *FakeVault) handlePeriodic(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/periodic/")

	if period, ok := strings.CutSuffix(rest, "/recent"); ok {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		includeContent := r.URL.Query().Get("includeContent") == "true"
		notes := f.Recent[period]
		if limit > 0 && limit < len(notes) {
			notes = notes[:limit]
		}
		out := make([]map[string]any, len(notes))
		for i, n := range notes {
			entry := map[string]any{"path": n.Path, "date": n.Date}
			if includeContent {
				entry["content"] = n.Content
			}
			out[i] = entry
		}
		writeJSON(w, map[string]any{"notes": out})
		return
	}

	period := strings.TrimSuffix(rest, "/")
	content, ok := f.Files["periodic/"+period+".md"]
	if !ok {
		writeError(w, http.StatusNotFound, "Periodic note does not exist.")
		return
	}
	w.Header().Set("Content-Type", "text/markdown")
	_, _ = io.WriteString(w, content)
}

func sortByFilename(results []map[string]any) {
	sort.Slice(results, func(i, j int) bool {
		return results[i]["filename"].(string) < results[j]["filename"].(string)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"errorCode":%d,"message":%q}`, status*100, msg)
}
