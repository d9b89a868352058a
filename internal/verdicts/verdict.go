// Package verdicts implements the verdict domain for Quadrant.
// It provides types, data access, and business logic for storing, querying,
// validating, and overriding classification verdicts produced by the
// decision engine.
package verdicts

import (
	"time"

	"github.com/google/uuid"
)

// Verdict represents a stored classification verdict for a note.
// It mirrors the verdicts table schema with flattened engine metadata.
type Verdict struct {
	ID               uuid.UUID  `json:"id"`
	NoteID           uuid.UUID  `json:"note_id"`
	Category         string     `json:"category"`
	Confidence       float64    `json:"confidence"`
	Action           string     `json:"action"`
	Method           string     `json:"method"`
	ConflictDetected bool       `json:"conflict_detected"`
	RequiresReview   bool       `json:"requires_review"`
	Tags             []string   `json:"tags"`
	Keywords         []string   `json:"keywords"`
	Reasoning        string     `json:"reasoning"`
	ModelName        string     `json:"model_name"`
	ProviderName     string     `json:"provider_name"`
	ClassifiedAt     time.Time  `json:"classified_at"`
	ValidatedBy      *string    `json:"validated_by"`
	ValidatedAt      *time.Time `json:"validated_at"`
}

// ValidateCommand carries the data needed to validate a verdict.
// ValidatedBy identifies the human who confirmed the suggested category.
type ValidateCommand struct {
	ValidatedBy string `json:"validated_by"`
}

// OverrideCommand carries the data needed to manually override a verdict.
// Category and Reasoning overwrite the engine-produced values.
// UpdatedBy identifies the human who made the change (stored as validated_by).
type OverrideCommand struct {
	Category  string `json:"category"`
	Reasoning string `json:"reasoning"`
	UpdatedBy string `json:"updated_by"`
}
