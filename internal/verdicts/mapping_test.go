package verdicts

import (
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func strPtr(s string) *string { return &s }

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name string
		sort string
		want string
	}{
		{
			name: "ascending field",
			sort: "confidence",
			want: "confidence ASC",
		},
		{
			name: "descending field",
			sort: "-classified_at",
			want: "classified_at DESC",
		},
		{
			name: "unknown field falls back",
			sort: "reasoning",
			want: defaultOrder,
		},
		{
			name: "empty falls back",
			sort: "",
			want: defaultOrder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := orderClause(tt.sort); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFiltersWhere(t *testing.T) {
	review := true
	noteID := uuid.New()

	tests := []struct {
		name     string
		filters  Filters
		search   *string
		wantSQL  []string
		wantArgs int
	}{
		{
			name:     "no filters",
			filters:  Filters{},
			wantArgs: 0,
		},
		{
			name:     "review queue",
			filters:  Filters{RequiresReview: &review},
			wantSQL:  []string{"requires_review = $1"},
			wantArgs: 1,
		},
		{
			name: "category plus note scope numbered in order",
			filters: Filters{
				Category: strPtr("Projects"),
				NoteID:   &noteID,
			},
			search: strPtr("deadline"),
			wantSQL: []string{
				"category = $1",
				"note_id = $2",
				"reasoning ILIKE '%' || $3 || '%'",
			},
			wantArgs: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, args := tt.filters.where(tt.search)

			if len(args) != tt.wantArgs {
				t.Fatalf("args = %d, want %d", len(args), tt.wantArgs)
			}
			if tt.wantArgs == 0 {
				if clause != "" {
					t.Errorf("clause = %q, want empty", clause)
				}
				return
			}
			for _, fragment := range tt.wantSQL {
				if !strings.Contains(clause, fragment) {
					t.Errorf("clause %q missing %q", clause, fragment)
				}
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	noteID := uuid.New()

	values := url.Values{}
	values.Set("category", "Areas")
	values.Set("note_id", noteID.String())
	values.Set("requires_review", "true")

	f := FiltersFromQuery(values)

	if f.Category == nil || *f.Category != "Areas" {
		t.Errorf("category = %v, want Areas", f.Category)
	}
	if f.NoteID == nil || *f.NoteID != noteID {
		t.Errorf("note id = %v, want %s", f.NoteID, noteID)
	}
	if f.RequiresReview == nil || !*f.RequiresReview {
		t.Errorf("requires review = %v, want true", f.RequiresReview)
	}
}

func TestFiltersFromQueryInvalidNoteID(t *testing.T) {
	values := url.Values{}
	values.Set("note_id", "not-a-uuid")

	if f := FiltersFromQuery(values); f.NoteID != nil {
		t.Errorf("note id = %v, want nil for malformed input", f.NoteID)
	}
}

func TestDecodeStrings(t *testing.T) {
	tests := []struct {
		name    string
		raw     []byte
		want    []string
		wantErr bool
	}{
		{
			name: "values",
			raw:  []byte(`["plan", "sprint"]`),
			want: []string{"plan", "sprint"},
		},
		{
			name: "empty array",
			raw:  []byte(`[]`),
			want: []string{},
		},
		{
			name: "null column",
			raw:  nil,
			want: []string{},
		},
		{
			name:    "malformed",
			raw:     []byte(`{"not": "an array"}`),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeStrings(tt.raw, "tags")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}
