package obsidian

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/starford/ansuz/internal/apperr"
)

const (
	contentTypeMarkdown  = "text/markdown"
	contentTypeJSONLogic = "application/vnd.olrapi.jsonlogic+json"
	contentTypeDQL       = "application/vnd.olrapi.dataview.dql+txt"
)

// Config describes the connection to the Local REST API plugin.
type Config struct {
	BaseURL string
	APIKey  string
	// InsecureSkipVerify disables TLS verification. The plugin serves a
	// self-signed certificate on its HTTPS port, so this is on by default.
	InsecureSkipVerify bool
	Timeout            time.Duration
}

// Client implements Provider against the Local REST API. It is safe for
// concurrent use; the underlying http.Client is shared across calls.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

var _ Provider = (*Client)(nil)

// NewClient creates a vault API client. No connection is made until the
// first operation.
func NewClient(cfg Config) *Client {
	transport := http.DefaultTransport
	if cfg.InsecureSkipVerify {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
	}
}

// vaultPath builds the /vault/ endpoint path for a vault-relative path,
// escaping each segment but preserving separators. The path itself is
// passed through verbatim otherwise.
func vaultPath(p string) string {
	segs := strings.Split(strings.TrimPrefix(p, "/"), "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return "/vault/" + strings.Join(segs, "/")
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("obsidian: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	return req, nil
}

// do executes the request and maps any non-2xx response onto an APIError
// carrying the status code and response body. No retries.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("obsidian: %s %s: %w", req.Method, req.URL.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &apperr.APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("obsidian: decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) getText(ctx context.Context, path string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", contentTypeMarkdown)
	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("obsidian: read %s: %w", path, err)
	}
	return string(data), nil
}

type fileListResponse struct {
	Files []string `json:"files"`
}

// ListVault returns the files and directories in the vault root.
func (c *Client) ListVault(ctx context.Context) ([]string, error) {
	var out fileListResponse
	if err := c.getJSON(ctx, "/vault/", nil, &out); err != nil {
		return nil, err
	}
	return out.Files, nil
}

// ListDir returns the files and directories under dir.
func (c *Client) ListDir(ctx context.Context, dir string) ([]string, error) {
	var out fileListResponse
	path := vaultPath(strings.TrimSuffix(dir, "/")) + "/"
	if err := c.getJSON(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Files, nil
}

// GetFileContents returns the raw Markdown content of a single file.
func (c *Client) GetFileContents(ctx context.Context, path string) (string, error) {
	return c.getText(ctx, vaultPath(path))
}

// GetBatchFileContents reads every path sequentially. Individual failures
// are rendered inline so one missing file never aborts the batch.
func (c *Client) GetBatchFileContents(ctx context.Context, paths []string) (string, error) {
	var b strings.Builder
	for _, p := range paths {
		b.WriteString("# " + p + "\n\n")
		content, err := c.GetFileContents(ctx, p)
		if err != nil {
			fmt.Fprintf(&b, "Error reading file: %v\n\n", err)
		} else {
			b.WriteString(content + "\n\n")
		}
		b.WriteString("---\n\n")
	}
	return b.String(), nil
}

// Search runs a simple text search across the vault.
func (c *Client) Search(ctx context.Context, query string, contextLength int) ([]SimpleSearchResult, error) {
	q := url.Values{
		"query":         {query},
		"contextLength": {strconv.Itoa(contextLength)},
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/search/simple/", q, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var out []SimpleSearchResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("obsidian: decode search results: %w", err)
	}
	return out, nil
}

// SearchJSON evaluates a JsonLogic query against every file in the vault.
func (c *Client) SearchJSON(ctx context.Context, query map[string]any) ([]ComplexSearchResult, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("obsidian: encode query: %w", err)
	}
	return c.postSearch(ctx, contentTypeJSONLogic, body)
}

func (c *Client) postSearch(ctx context.Context, contentType string, body []byte) ([]ComplexSearchResult, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/search/", nil, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var out []ComplexSearchResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("obsidian: decode search results: %w", err)
	}
	return out, nil
}

// AppendContent appends content to a file, creating it if the plugin does
// so for missing files.
func (c *Client) AppendContent(ctx context.Context, path, content string) error {
	req, err := c.newRequest(ctx, http.MethodPost, vaultPath(path), nil, strings.NewReader(content))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentTypeMarkdown)
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// PatchContent inserts content relative to a heading, block reference, or
// frontmatter field. Targets containing reserved characters are URL-encoded
// into the header.
func (c *Client) PatchContent(ctx context.Context, path, operation, targetType, target, content string) error {
	req, err := c.newRequest(ctx, http.MethodPatch, vaultPath(path), nil, strings.NewReader(content))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentTypeMarkdown)
	req.Header.Set("Operation", operation)
	req.Header.Set("Target-Type", targetType)
	req.Header.Set("Target", url.PathEscape(target))
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// DeleteFile removes a file or directory from the vault.
func (c *Client) DeleteFile(ctx context.Context, path string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, vaultPath(path), nil, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// GetPeriodicNote returns the current note for the given period.
func (c *Client) GetPeriodicNote(ctx context.Context, period string) (string, error) {
	return c.getText(ctx, "/periodic/"+url.PathEscape(period)+"/")
}

type periodicListResponse struct {
	Notes []PeriodicNote `json:"notes"`
}

// GetRecentPeriodicNotes returns up to limit most recent notes of the
// given period type.
func (c *Client) GetRecentPeriodicNotes(ctx context.Context, period string, limit int, includeContent bool) ([]PeriodicNote, error) {
	q := url.Values{
		"limit":          {strconv.Itoa(limit)},
		"includeContent": {strconv.FormatBool(includeContent)},
	}
	var out periodicListResponse
	if err := c.getJSON(ctx, "/periodic/"+url.PathEscape(period)+"/recent", q, &out); err != nil {
		return nil, err
	}
	return out.Notes, nil
}

// GetRecentChanges lists recently modified files. Filtering happens server
// side through a Dataview DQL query, so only matching rows come back.
func (c *Client) GetRecentChanges(ctx context.Context, limit, days int) ([]RecentChange, error) {
	dql := fmt.Sprintf("TABLE file.mtime\nWHERE file.mtime >= date(today) - dur(%d days)\nSORT file.mtime DESC\nLIMIT %d", days, limit)
	rows, err := c.postSearch(ctx, contentTypeDQL, []byte(dql))
	if err != nil {
		return nil, err
	}
	out := make([]RecentChange, len(rows))
	for i, r := range rows {
		out[i] = RecentChange{Filename: r.Filename, Result: r.Result}
	}
	return out, nil
}
