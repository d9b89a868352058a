// Package notes implements the note domain for Quadrant.
// It provides types, data access, and business logic for note upload,
// registration, usage tracking, and blob storage integration.
package notes

import (
	"time"

	"github.com/google/uuid"

	"github.com/quadrant-labs/quadrant/internal/engine"
)

// Note statuses. A note enters the system in the inbox, moves to review
// once a verdict exists, and becomes organized when a human validates or
// overrides that verdict.
const (
	StatusInbox     = "inbox"
	StatusReview    = "review"
	StatusOrganized = "organized"
)

// Note represents a registered note with its metadata, usage counters, and
// blob storage reference. Content itself lives in blob storage; the row
// carries everything the decision engine needs to derive usage features.
type Note struct {
	ID             uuid.UUID  `json:"id"`
	Filename       string     `json:"filename"`
	ContentType    string     `json:"content_type"`
	SizeBytes      int64      `json:"size_bytes"`
	StorageKey     string     `json:"storage_key"`
	Status         string     `json:"status"`
	WordCount      int        `json:"word_count"`
	AccessCount    int        `json:"access_count"`
	EditCount      int        `json:"edit_count"`
	UploadedAt     time.Time  `json:"uploaded_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	LastAccessedAt *time.Time `json:"last_accessed_at"`
}

// CreateCommand carries the data needed to upload and register a new note.
// Data holds the raw file bytes.
type CreateCommand struct {
	Data        []byte
	Filename    string
	ContentType string
}

// BatchResult reports the outcome of a single file within a batch upload.
// On success, Note is populated and Error is empty.
type BatchResult struct {
	Note     *Note  `json:"note,omitempty"`
	Filename string `json:"filename"`
	Error    string `json:"error,omitempty"`
}

// UsageStats derives the engine's usage view from the note's counters and
// timestamps. A note that has never been opened reports the unknown-age
// sentinel for its access recency.
func (n *Note) UsageStats(now time.Time) *engine.UsageStats {
	stats := &engine.UsageStats{
		AccessCount:     n.AccessCount,
		EditCount:       n.EditCount,
		DaysSinceAccess: engine.UnknownDays,
		DaysSinceEdit:   daysBetween(n.UpdatedAt, now),
	}

	if n.LastAccessedAt != nil {
		stats.DaysSinceAccess = daysBetween(*n.LastAccessedAt, now)
	}

	return stats
}

func daysBetween(from, to time.Time) int {
	d := int(to.Sub(from).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}
