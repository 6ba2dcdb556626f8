package obsidian

// SimpleSearchResult is one file hit from a simple text search.
type SimpleSearchResult struct {
	Filename string        `json:"filename"`
	Score    float64       `json:"score"`
	Matches  []SearchMatch `json:"matches"`
}

// SearchMatch is a single match within a file. Start and end are character
// offsets into Context, not into the full file.
type SearchMatch struct {
	Context string        `json:"context"`
	Match   MatchPosition `json:"match"`
}

// MatchPosition locates matched text within its context string.
type MatchPosition struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ComplexSearchResult is one file for which a JsonLogic query evaluated
// truthy. Result carries whatever the query produced for that file.
type ComplexSearchResult struct {
	Filename string `json:"filename"`
	Result   any    `json:"result"`
}

// PeriodicNote is one entry from the recent periodic notes listing.
// Content is empty unless the listing was requested with content included.
type PeriodicNote struct {
	Path    string `json:"path"`
	Date    string `json:"date,omitempty"`
	Content string `json:"content,omitempty"`
}

// RecentChange is one row of the recent-changes Dataview query.
type RecentChange struct {
	Filename string `json:"filename"`
	Result   any    `json:"result"`
}
