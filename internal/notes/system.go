package notes

import (
	"context"

	"github.com/google/uuid"

	"github.com/quadrant-labs/quadrant/pkg/pagination"
)

// System defines the public contract for note domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Note], error)

	Find(ctx context.Context, id uuid.UUID) (*Note, error)
	Content(ctx context.Context, id uuid.UUID) (*Note, string, error)
	Create(ctx context.Context, cmd CreateCommand) (*Note, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Related returns content snippets from notes matching any of the given
	// keywords, used by the classification workflow for context retrieval.
	Related(ctx context.Context, keywords []string, limit int) ([]string, error)
}
