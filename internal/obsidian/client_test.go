package obsidian

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/testutil"
)

func testClient(t *testing.T) (*Client, *testutil.FakeVault) {
	t.Helper()
	fake := testutil.NewFakeVault(t)
	c := NewClient(Config{
		BaseURL: fake.URL(),
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	})
	return c, fake
}

func TestListVault(t *testing.T) {
	c, fake := testClient(t)
	fake.Files["a.md"] = "alpha"
	fake.Files["docs/b.md"] = "beta"

	files, err := c.ListVault(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a.md", "docs/"}
	if len(files) != len(want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}

func TestListDir(t *testing.T) {
	c, fake := testClient(t)
	fake.Files["docs/b.md"] = "beta"
	fake.Files["docs/c.md"] = "gamma"
	fake.Files["a.md"] = "alpha"

	files, err := c.ListDir(context.Background(), "docs")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 || files[0] != "b.md" || files[1] != "c.md" {
		t.Errorf("files = %v, want [b.md c.md]", files)
	}
}

func TestGetFileContents(t *testing.T) {
	c, fake := testClient(t)
	fake.Files["note.md"] = "# Note\nbody"

	content, err := c.GetFileContents(context.Background(), "note.md")
	if err != nil {
		t.Fatal(err)
	}
	if content != "# Note\nbody" {
		t.Errorf("content = %q", content)
	}
}

func TestGetFileContentsNotFound(t *testing.T) {
	c, _ := testClient(t)

	_, err := c.GetFileContents(context.Background(), "missing.md")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	var apiErr *apperr.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 404 {
		t.Errorf("err = %v, want APIError with status 404", err)
	}
}

func TestAuthRejected(t *testing.T) {
	fake := testutil.NewFakeVault(t)
	fake.APIKey = "secret"
	c := NewClient(Config{BaseURL: fake.URL(), APIKey: "wrong", Timeout: 5 * time.Second})

	_, err := c.ListVault(context.Background())
	var apiErr *apperr.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 401 {
		t.Fatalf("err = %v, want APIError with status 401", err)
	}
}

func TestBatchPartialFailure(t *testing.T) {
	c, fake := testClient(t)
	fake.Files["a.md"] = "alpha"
	fake.Files["c.md"] = "gamma"

	out, err := c.GetBatchFileContents(context.Background(), []string{"a.md", "missing.md", "c.md"})
	if err != nil {
		t.Fatalf("batch must not fail on a partial error: %v", err)
	}
	if got := strings.Count(out, "\n---\n"); got != 3 {
		t.Errorf("section count = %d, want 3", got)
	}
	if !strings.Contains(out, "# a.md\n\nalpha") || !strings.Contains(out, "# c.md\n\ngamma") {
		t.Errorf("missing healthy sections in:\n%s", out)
	}
	if !strings.Contains(out, "# missing.md\n\nError reading file:") {
		t.Errorf("missing inline error section in:\n%s", out)
	}
}

func TestSearchOffsetsSliceMatch(t *testing.T) {
	c, fake := testClient(t)
	fake.Files["long.md"] = strings.Repeat("x", 200) + "the needle sits here" + strings.Repeat("y", 200)

	results, err := c.Search(context.Background(), "needle", 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].Filename != "long.md" {
		t.Errorf("filename = %q", results[0].Filename)
	}
	if len(results[0].Matches) != 1 {
		t.Fatalf("matches = %d, want 1", len(results[0].Matches))
	}
	m := results[0].Matches[0]
	if got := m.Context[m.Match.Start:m.Match.End]; got != "needle" {
		t.Errorf("context[start:end] = %q, want %q", got, "needle")
	}
}

func TestSearchJSONGlob(t *testing.T) {
	c, fake := testClient(t)
	fake.Files["a.md"] = "alpha"
	fake.Files["b.txt"] = "beta"

	results, err := c.SearchJSON(context.Background(), map[string]any{
		"glob": []any{"*.md", map[string]any{"var": "path"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Filename != "a.md" {
		t.Errorf("results = %+v, want only a.md", results)
	}
}

func TestAppendThenRead(t *testing.T) {
	c, fake := testClient(t)
	fake.Files["log.md"] = "first\n"

	if err := c.AppendContent(context.Background(), "log.md", "second\n"); err != nil {
		t.Fatal(err)
	}
	content, err := c.GetFileContents(context.Background(), "log.md")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(content, "second\n") {
		t.Errorf("content = %q, want appended suffix", content)
	}
}

func TestAppendCreatesMissingFile(t *testing.T) {
	c, _ := testClient(t)

	if err := c.AppendContent(context.Background(), "fresh.md", "hello"); err != nil {
		t.Fatal(err)
	}
	content, err := c.GetFileContents(context.Background(), "fresh.md")
	if err != nil {
		t.Fatal(err)
	}
	if content != "hello" {
		t.Errorf("content = %q, want %q", content, "hello")
	}
}

func TestPatchContentHeaders(t *testing.T) {
	c, fake := testClient(t)
	fake.Files["note.md"] = "# My Heading\n"

	err := c.PatchContent(context.Background(), "note.md", "append", "heading", "My Heading", "new line")
	if err != nil {
		t.Fatal(err)
	}
	p := fake.LastPatch
	if p.Operation != "append" || p.TargetType != "heading" {
		t.Errorf("patch headers = %+v", p)
	}
	if p.Target != "My%20Heading" {
		t.Errorf("target = %q, want URL-encoded My%%20Heading", p.Target)
	}
	if p.Content != "new line" {
		t.Errorf("content = %q", p.Content)
	}
}

func TestPatchContentMissingTargetFile(t *testing.T) {
	c, _ := testClient(t)

	err := c.PatchContent(context.Background(), "nope.md", "append", "heading", "H", "x")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteFile(t *testing.T) {
	c, fake := testClient(t)
	fake.Files["gone.md"] = "bye"

	if err := c.DeleteFile(context.Background(), "gone.md"); err != nil {
		t.Fatal(err)
	}
	if _, ok := fake.Files["gone.md"]; ok {
		t.Error("file still present after delete")
	}
}

func TestGetPeriodicNote(t *testing.T) {
	c, fake := testClient(t)
	fake.Files["periodic/daily.md"] = "today's plan"

	content, err := c.GetPeriodicNote(context.Background(), "daily")
	if err != nil {
		t.Fatal(err)
	}
	if content != "today's plan" {
		t.Errorf("content = %q", content)
	}
}

func TestGetRecentPeriodicNotes(t *testing.T) {
	c, fake := testClient(t)
	fake.Recent["weekly"] = []testutil.PeriodicNote{
		{Path: "weekly/2025-W10.md", Date: "2025-03-03", Content: "w10"},
		{Path: "weekly/2025-W09.md", Date: "2025-02-24", Content: "w09"},
		{Path: "weekly/2025-W08.md", Date: "2025-02-17", Content: "w08"},
	}

	notes, err := c.GetRecentPeriodicNotes(context.Background(), "weekly", 2, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 2 {
		t.Fatalf("notes = %d, want 2 (limit honored)", len(notes))
	}
	for _, n := range notes {
		if n.Content != "" {
			t.Errorf("note %s has content despite includeContent=false", n.Path)
		}
	}

	notes, err = c.GetRecentPeriodicNotes(context.Background(), "weekly", 1, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 1 || notes[0].Content != "w10" {
		t.Errorf("notes = %+v, want single note with content", notes)
	}
}

func TestGetRecentChangesDQL(t *testing.T) {
	c, fake := testClient(t)
	fake.Files["a.md"] = "alpha"

	changes, err := c.GetRecentChanges(context.Background(), 5, 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(changes) != 1 || changes[0].Filename != "a.md" {
		t.Errorf("changes = %+v", changes)
	}
	if !strings.Contains(fake.LastDQL, "dur(7 days)") {
		t.Errorf("DQL missing day filter: %q", fake.LastDQL)
	}
	if !strings.Contains(fake.LastDQL, "LIMIT 5") {
		t.Errorf("DQL missing limit: %q", fake.LastDQL)
	}
}

func TestVaultPathEscaping(t *testing.T) {
	if got := vaultPath("notes/my note.md"); got != "/vault/notes/my%20note.md" {
		t.Errorf("vaultPath = %q", got)
	}
	if got := vaultPath("plain.md"); got != "/vault/plain.md" {
		t.Errorf("vaultPath = %q", got)
	}
}
