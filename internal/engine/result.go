// Package engine implements the hybrid classification decision engine for
// Quadrant. It combines a deterministic pattern-rule engine, a keyword
// classifier, and an LLM-backed classifier, arbitrates disagreement between
// them, and blends multiple confidence signals into a single auditable
// verdict. Every failure mode inside the engine degrades to a schema-valid
// Unclassified result; callers never see classifier internals as errors.
package engine

import (
	"context"
	"fmt"
	"strings"
)

// PARA categories assigned by the engine.
const (
	CategoryProjects  = "Projects"
	CategoryAreas     = "Areas"
	CategoryResources = "Resources"
	CategoryArchives  = "Archives"

	// CategoryUnclassified is the documented degradation target for every
	// classifier failure mode.
	CategoryUnclassified = "Unclassified"
)

// Classifier methods recorded on results.
const (
	MethodRule            = "rule"
	MethodKeyword         = "keyword"
	MethodAI              = "ai"
	MethodHybrid          = "hybrid"
	MethodValidationError = "validation_error"
)

// ClassificationResult is the immutable value produced by a single classifier
// invocation. Compared only by value; never mutated after construction.
type ClassificationResult struct {
	Category   string   `json:"category"`
	Confidence float64  `json:"confidence"`
	Method     string   `json:"method"`
	Reasoning  string   `json:"reasoning"`
	Tags       []string `json:"tags,omitempty"`
}

// Classifier is the shared capability implemented by the rule, keyword, and
// AI classifiers. Context is plumbed through because the AI variant suspends
// on a network call; the others ignore it.
type Classifier interface {
	Classify(ctx context.Context, text string, contextData map[string]any) (ClassificationResult, error)
}

// Unclassified builds the documented default result for a failed
// classification attempt, preserving the failure reason for observability.
func Unclassified(method, reason string) ClassificationResult {
	return ClassificationResult{
		Category:   CategoryUnclassified,
		Confidence: 0.0,
		Method:     method,
		Reasoning:  reason,
	}
}

// Validate checks a result against the required schema: non-empty category,
// confidence within [0,1], non-empty method. Invalid results degrade to
// Unclassified with confidence 0.0 rather than raising to the caller; the
// original defect is described in the returned reasoning.
func Validate(r ClassificationResult) ClassificationResult {
	if strings.TrimSpace(r.Category) == "" {
		return Unclassified(fallbackMethod(r.Method), "schema validation failed: missing category")
	}
	if r.Method == "" {
		r.Method = MethodAI
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return Unclassified(r.Method, fmt.Sprintf("schema validation failed: confidence %v outside [0,1]", r.Confidence))
	}
	return r
}

func fallbackMethod(method string) string {
	if method == "" {
		return MethodAI
	}
	return method
}

// Clamp bounds a confidence value to [0,1].
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
