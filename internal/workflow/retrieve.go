package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

const retrieveLimit = 5

// RetrieveNode returns a state node that fetches related material for the
// extracted keywords through the Retriever capability. Retrieval failures
// degrade to an empty context: classification proceeds on the note text
// alone rather than aborting the run.
func RetrieveNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		rs, err := extractRunState(s)
		if err != nil {
			return s, fmt.Errorf("retrieve: %w", err)
		}

		if rt.Retriever != nil && len(rs.Keywords) > 0 {
			snippets, err := rt.Retriever.Related(ctx, rs.Keywords, retrieveLimit)
			if err != nil {
				rt.Logger.Warn("context retrieval failed, continuing without", "error", err)
			} else {
				rs.RetrievedContext = strings.Join(snippets, "\n---\n")
			}
		}

		rt.Logger.InfoContext(
			ctx, "retrieve node complete",
			"file", rs.FileName,
			"context_bytes", len(rs.RetrievedContext),
		)

		s = s.Set(KeyRunState, *rs)
		return s, nil
	})
}
