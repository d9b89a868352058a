package workflow

import (
	"context"
	"log/slog"

	"github.com/quadrant-labs/quadrant/internal/engine"
)

// Retriever fetches snippets of related material for a keyword set. The
// concrete implementation is an external collaborator (the notes domain
// provides a postgres-backed one); retrieval failures degrade to an empty
// context rather than failing the run.
type Retriever interface {
	Related(ctx context.Context, keywords []string, limit int) ([]string, error)
}

// Runtime bundles the dependencies that workflow nodes require. It is
// constructed by higher-level composition code.
type Runtime struct {
	Pipeline  *engine.Pipeline
	Completer engine.Completer
	Retriever Retriever
	Config    engine.Config
	Logger    *slog.Logger
}
