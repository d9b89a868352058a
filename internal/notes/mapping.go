package notes

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/quadrant-labs/quadrant/pkg/repository"
)

const noteColumns = `id, filename, content_type, size_bytes, storage_key, status,
	word_count, access_count, edit_count, uploaded_at, updated_at, last_accessed_at`

// sortColumns whitelists the sort fields exposed through the API and maps
// them to their column expressions.
var sortColumns = map[string]string{
	"filename":     "filename",
	"status":       "status",
	"size_bytes":   "size_bytes",
	"word_count":   "word_count",
	"access_count": "access_count",
	"uploaded_at":  "uploaded_at",
	"updated_at":   "updated_at",
}

const defaultOrder = "uploaded_at DESC"

// orderClause resolves a sort expression ("field" or "-field") against the
// whitelist, falling back to the default ordering for anything unknown.
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

// Filters contains optional filtering criteria for note queries.
// Nil fields are ignored. Status and ContentType use exact matching.
// Filename uses case-insensitive contains matching.
type Filters struct {
	Status      *string `json:"status,omitempty"`
	Filename    *string `json:"filename,omitempty"`
	ContentType *string `json:"content_type,omitempty"`
}

// where renders the filter and search conditions into a WHERE clause and its
// positional arguments, starting at $1.
func (f Filters) where(search *string) (string, []any) {
	var conditions []string
	var args []any

	add := func(cond string, val any) {
		args = append(args, val)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if f.Status != nil {
		add("status = $%d", *f.Status)
	}
	if f.ContentType != nil {
		add("content_type = $%d", *f.ContentType)
	}
	if f.Filename != nil {
		add("filename ILIKE '%%' || $%d || '%%'", *f.Filename)
	}
	if search != nil && *search != "" {
		add("filename ILIKE '%%' || $%d || '%%'", *search)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}

	if ct := values.Get("content_type"); ct != "" {
		f.ContentType = &ct
	}

	return f
}

func scanNote(s repository.Scanner) (Note, error) {
	var n Note
	err := s.Scan(
		&n.ID,
		&n.Filename,
		&n.ContentType,
		&n.SizeBytes,
		&n.StorageKey,
		&n.Status,
		&n.WordCount,
		&n.AccessCount,
		&n.EditCount,
		&n.UploadedAt,
		&n.UpdatedAt,
		&n.LastAccessedAt,
	)
	return n, err
}
