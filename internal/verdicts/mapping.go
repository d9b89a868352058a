package verdicts

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/quadrant-labs/quadrant/pkg/repository"
)

const verdictColumns = `id, note_id, category, confidence, action, method,
	conflict_detected, requires_review, tags, keywords, reasoning,
	model_name, provider_name, classified_at, validated_by, validated_at`

var sortColumns = map[string]string{
	"category":      "category",
	"confidence":    "confidence",
	"action":        "action",
	"classified_at": "classified_at",
	"validated_at":  "validated_at",
}

const defaultOrder = "classified_at DESC"

func orderClause(sort string) string {
	desc := strings.HasPrefix(sort, "-")
	field := strings.TrimPrefix(sort, "-")

	col, ok := sortColumns[field]
	if !ok {
		return defaultOrder
	}
	if desc {
		return col + " DESC"
	}
	return col + " ASC"
}

// Filters contains optional filtering criteria for verdict queries.
// Nil fields are ignored. All fields use exact matching except
// RequiresReview, which is a flag.
type Filters struct {
	Category       *string    `json:"category,omitempty"`
	Action         *string    `json:"action,omitempty"`
	Method         *string    `json:"method,omitempty"`
	NoteID         *uuid.UUID `json:"note_id,omitempty"`
	RequiresReview *bool      `json:"requires_review,omitempty"`
	ValidatedBy    *string    `json:"validated_by,omitempty"`
}

func (f Filters) where(search *string) (string, []any) {
	var conditions []string
	var args []any

	add := func(cond string, val any) {
		args = append(args, val)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if f.Category != nil {
		add("category = $%d", *f.Category)
	}
	if f.Action != nil {
		add("action = $%d", *f.Action)
	}
	if f.Method != nil {
		add("method = $%d", *f.Method)
	}
	if f.NoteID != nil {
		add("note_id = $%d", *f.NoteID)
	}
	if f.RequiresReview != nil {
		add("requires_review = $%d", *f.RequiresReview)
	}
	if f.ValidatedBy != nil {
		add("validated_by = $%d", *f.ValidatedBy)
	}
	if search != nil && *search != "" {
		add("reasoning ILIKE '%%' || $%d || '%%'", *search)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if c := values.Get("category"); c != "" {
		f.Category = &c
	}

	if a := values.Get("action"); a != "" {
		f.Action = &a
	}

	if m := values.Get("method"); m != "" {
		f.Method = &m
	}

	if n := values.Get("note_id"); n != "" {
		if id, err := uuid.Parse(n); err == nil {
			f.NoteID = &id
		}
	}

	if rr := values.Get("requires_review"); rr != "" {
		v := rr == "true"
		f.RequiresReview = &v
	}

	if vb := values.Get("validated_by"); vb != "" {
		f.ValidatedBy = &vb
	}

	return f
}

func scanVerdict(s repository.Scanner) (Verdict, error) {
	var v Verdict
	var tagsRaw, keywordsRaw []byte

	err := s.Scan(
		&v.ID,
		&v.NoteID,
		&v.Category,
		&v.Confidence,
		&v.Action,
		&v.Method,
		&v.ConflictDetected,
		&v.RequiresReview,
		&tagsRaw,
		&keywordsRaw,
		&v.Reasoning,
		&v.ModelName,
		&v.ProviderName,
		&v.ClassifiedAt,
		&v.ValidatedBy,
		&v.ValidatedAt,
	)

	if err != nil {
		return v, err
	}

	if v.Tags, err = decodeStrings(tagsRaw, "tags"); err != nil {
		return v, err
	}
	if v.Keywords, err = decodeStrings(keywordsRaw, "keywords"); err != nil {
		return v, err
	}

	return v, nil
}

func decodeStrings(raw []byte, field string) ([]string, error) {
	out := []string{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", field, err)
		}
	}
	return out, nil
}
