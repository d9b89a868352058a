// Package workflow sequences the classification state machine:
// analyze → retrieve → classify → (reflect → classify)* → finalize.
// The validate step is the conditional edge out of classify; it routes to
// reflect while confidence is insufficient and the retry budget remains,
// and to finalize otherwise. Exhausting the retry budget is not an error:
// the last verdict is returned and its action recommendation steers
// low-confidence results to manual review.
package workflow

import (
	"context"
	"fmt"
	"time"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/quadrant-labs/quadrant/internal/engine"
)

// Execute runs the classification workflow for a single note. Each run gets
// its own state bag, so concurrent executions are independent.
func Execute(
	ctx context.Context,
	rt *Runtime,
	content string,
	filename string,
	usage *engine.UsageStats,
) (*Result, error) {
	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initialState := state.New(nil)
	initialState = initialState.Set(KeyRunState, RunState{
		FileContent: content,
		FileName:    filename,
		Usage:       usage,
	})

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	return extractResult(finalState)
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("quadrant-classify")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("analyze", AnalyzeNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("retrieve", RetrieveNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("classify", ClassifyNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("reflect", ReflectNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("finalize", FinalizeNode(rt)); err != nil {
		return nil, err
	}

	// analyze → retrieve → classify (unconditional)
	if err := graph.AddEdge("analyze", "retrieve", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("retrieve", "classify", nil); err != nil {
		return nil, err
	}

	// classify → reflect (while confidence is low and budget remains)
	shouldRetry := retryCondition(rt.Config)
	if err := graph.AddEdge("classify", "reflect", shouldRetry); err != nil {
		return nil, err
	}

	// classify → finalize (otherwise)
	if err := graph.AddEdge("classify", "finalize", state.Not(shouldRetry)); err != nil {
		return nil, err
	}

	// reflect → classify (loop)
	if err := graph.AddEdge("reflect", "classify", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("analyze"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("finalize"); err != nil {
		return nil, err
	}

	return graph, nil
}

// FinalizeNode returns the exit node. It exists so the graph has a single
// terminal state to stamp; the completed verdict is assembled from the run
// state by extractResult.
func FinalizeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		rs, err := extractRunState(s)
		if err != nil {
			return s, fmt.Errorf("finalize: %w", err)
		}

		if rs.Result == nil {
			return s, fmt.Errorf("%w: no classification result in run state", ErrFinalizeFailed)
		}

		rt.Logger.InfoContext(
			ctx, "workflow complete",
			"file", rs.FileName,
			"category", rs.Result.Category,
			"confidence", rs.Result.Confidence,
			"retries", rs.RetryCount,
		)

		return s, nil
	})
}

// retryCondition builds the validate decision: retry while the verdict's
// confidence is below the retry threshold and the retry budget has not been
// exhausted. A missing verdict never retries; finalize reports it instead.
func retryCondition(cfg engine.Config) func(state.State) bool {
	return func(s state.State) bool {
		rs, err := extractRunState(s)
		if err != nil || rs.Result == nil {
			return false
		}
		return rs.Result.Confidence < cfg.RetryThreshold && rs.RetryCount < cfg.MaxRetries
	}
}

func extractRunState(s state.State) (*RunState, error) {
	val, ok := s.Get(KeyRunState)
	if !ok {
		return nil, fmt.Errorf("missing %s in state", KeyRunState)
	}

	rs, ok := val.(RunState)
	if !ok {
		return nil, fmt.Errorf("%s is not RunState", KeyRunState)
	}

	return &rs, nil
}

func extractResult(s state.State) (*Result, error) {
	rs, err := extractRunState(s)
	if err != nil {
		return nil, err
	}

	if rs.Result == nil {
		return nil, fmt.Errorf("%w: workflow produced no verdict", ErrFinalizeFailed)
	}

	return &Result{
		FileName:    rs.FileName,
		Keywords:    rs.Keywords,
		RetryCount:  rs.RetryCount,
		Verdict:     rs.Result,
		CompletedAt: time.Now(),
	}, nil
}
