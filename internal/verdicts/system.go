package verdicts

import (
	"context"

	"github.com/google/uuid"

	"github.com/quadrant-labs/quadrant/internal/engine"
	"github.com/quadrant-labs/quadrant/pkg/pagination"
)

// System defines the public contract for verdict domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Verdict], error)

	Find(ctx context.Context, id uuid.UUID) (*Verdict, error)
	FindByNote(ctx context.Context, noteID uuid.UUID) (*Verdict, error)
	Classify(ctx context.Context, noteID uuid.UUID) (*Verdict, error)
	Validate(ctx context.Context, id uuid.UUID, cmd ValidateCommand) (*Verdict, error)
	Override(ctx context.Context, id uuid.UUID, cmd OverrideCommand) (*Verdict, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ResolverStatistics reports conflict totals accumulated by the engine's
	// resolver since process start.
	ResolverStatistics() engine.ResolverStatistics
}
