// package store persists synced catalog content in SQLite. Each entity gets
// its own repository over a shared *sql.DB; the schema lives in embedded
// migrations under internal/shared/sql.
package store

import "strings"

// Category is a course category row. The row with id 1 is the seeded default
// top-level category.
type Category struct {
	ID       int64
	IDNumber string
	Name     string
	Parent   int64
}

// Course is a synced course row, keyed externally by IDNumber.
type Course struct {
	ID        int64
	IDNumber  string
	ShortName string
	FullName  string
	Summary   string
	Tags      []string
	Visible   bool
	Thumbnail string
	Category  int64
}

// Module is the single content activity inside a synced course.
type Module struct {
	ID                 int64
	Course             int64
	IDNumber           string
	Name               string
	Intro              string
	Content            string
	CompleteExternally bool
}

// SyncState is the single persisted row of watermark and last-run counters.
type SyncState struct {
	UpdatedSince   string
	LastRunID      string
	LastDownloaded int
	LastSucceeded  int
	LastFailed     int
}

// NormalizeHTML applies the store's canonical form for HTML text fields:
// CRLF collapsed to LF and surrounding whitespace trimmed. Writes apply it,
// and diffs compare against it, so round-tripped content never reads as
// changed.
func NormalizeHTML(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\r\n", "\n"))
}
