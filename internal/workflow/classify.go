package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/quadrant-labs/quadrant/internal/prompts"
)

// ClassifyNode returns a state node that runs the decision pipeline over the
// note text, folding in retrieved context and any reflect hint from a prior
// pass. The pipeline guarantees a schema-valid verdict for every input, so
// the node only fails on missing run state.
func ClassifyNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(classifyFn(rt))
}

func classifyFn(rt *Runtime) func(context.Context, state.State) (state.State, error) {
	return func(ctx context.Context, s state.State) (state.State, error) {
		rs, err := extractRunState(s)
		if err != nil {
			return s, fmt.Errorf("classify: %w", err)
		}

		contextData := map[string]any{
			"filename": rs.FileName,
			"keywords": rs.Keywords,
		}
		if rs.RetrievedContext != "" {
			contextData["related_notes"] = rs.RetrievedContext
		}
		if rs.ReflectHint != "" {
			contextData["prior_attempt"] = rs.ReflectHint
		}

		verdict, err := rt.Pipeline.Classify(ctx, rs.FileContent, contextData, rs.Usage)
		if err != nil {
			return s, fmt.Errorf("classify: %w: %w", ErrClassifyFailed, err)
		}

		rs.Result = verdict
		rs.ConfidenceScore = verdict.Confidence
		rs.Reasoning = verdict.Reasoning

		rt.Logger.InfoContext(
			ctx, "classify node complete",
			"file", rs.FileName,
			"category", verdict.Category,
			"confidence", verdict.Confidence,
			"method", verdict.Method,
			"retry", rs.RetryCount,
		)

		s = s.Set(KeyRunState, *rs)
		return s, nil
	}
}

// ReflectNode returns a state node that increments the retry counter and
// records the prior verdict as a hint for the next classification pass.
// Retry accounting happens only here, on the reflect → classify transition.
func ReflectNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(reflectFn(rt))
}

func reflectFn(rt *Runtime) func(context.Context, state.State) (state.State, error) {
	return func(ctx context.Context, s state.State) (state.State, error) {
		rs, err := extractRunState(s)
		if err != nil {
			return s, fmt.Errorf("reflect: %w", err)
		}

		rs.RetryCount++
		if rs.Result != nil {
			hint := fmt.Sprintf(
				"previous pass classified as %s with confidence %.2f: %s",
				rs.Result.Category, rs.Result.Confidence, rs.Result.Reasoning,
			)
			if guidance, err := prompts.Instructions(prompts.StageReflect); err == nil {
				hint = guidance + "\n\n" + hint
			}
			rs.ReflectHint = hint
		}

		rt.Logger.InfoContext(
			ctx, "reflect node complete",
			"file", rs.FileName,
			"retry", rs.RetryCount,
		)

		s = s.Set(KeyRunState, *rs)
		return s, nil
	}
}
