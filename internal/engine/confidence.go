package engine

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
)

// Action recommendations derived from the final score.
const (
	ActionAutoApply    = "auto_apply"
	ActionSuggest      = "suggest"
	ActionManualReview = "manual_review"
)

// Adjustment types.
const (
	AdjustmentBoost   = "boost"
	AdjustmentPenalty = "penalty"
)

// Score thresholds for action recommendations.
const (
	autoApplyThreshold = 0.85
	suggestThreshold   = 0.60
)

// Adjustment records one additive term applied to the base score. The
// ordered adjustment list is the authoritative audit record: base score plus
// the sum of amounts, clamped to [0,1], always equals the final score.
type Adjustment struct {
	Type   string  `json:"type"`
	Reason string  `json:"reason"`
	Amount float64 `json:"amount"`
}

// ConfidenceDetails carries the audit breakdown of a scoring call.
type ConfidenceDetails struct {
	BaseScore   float64            `json:"base_score"`
	InputScores map[string]float64 `json:"input_scores"`
	Adjustments []Adjustment       `json:"adjustments"`
}

// ConfidenceResult is the final verdict of a scoring call.
type ConfidenceResult struct {
	Score   float64           `json:"score"`
	Action  string            `json:"action"`
	Reasons []string          `json:"reasons"`
	Details ConfidenceDetails `json:"details"`
}

// DefaultWeights is the fixed weight table over classifier sources.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		MethodRule:    0.25,
		MethodKeyword: 0.20,
		MethodAI:      0.40,
		"user":        0.15,
	}
}

// ConfidenceCalculator blends named classifier scores and extracted features
// into one final score and an action recommendation. It is stateless after
// construction and safe for concurrent use.
type ConfidenceCalculator struct {
	weights map[string]float64
}

// NewConfidenceCalculator creates a calculator. Nil weights install the
// default table. A weight sum outside [0.99, 1.01] indicates a configuration
// mistake and logs a warning, but is not fatal: the base score renormalizes
// over present sources regardless.
func NewConfidenceCalculator(weights map[string]float64, logger *slog.Logger) *ConfidenceCalculator {
	if weights == nil {
		weights = DefaultWeights()
	}

	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if sum < 0.99 || sum > 1.01 {
		logger.Warn("confidence weights do not sum to 1.0", "sum", sum)
	}

	return &ConfidenceCalculator{weights: weights}
}

// Calculate produces the final confidence verdict for the given named scores
// and optional features. The base score is a weighted average over only the
// known sources present in scores, renormalized by the weights actually used
// so missing sources do not bias toward zero. Adjustments apply additively
// in a fixed order, each individually recorded; the final score is clamped
// to [0,1].
func (c *ConfidenceCalculator) Calculate(scores map[string]float64, features *FileFeatures) ConfidenceResult {
	result := ConfidenceResult{
		Reasons: []string{},
		Details: ConfidenceDetails{
			InputScores: copyScores(scores),
			Adjustments: []Adjustment{},
		},
	}

	base, used := c.baseScore(scores, &result)
	result.Details.BaseScore = base

	if used == 0 {
		result.Score = 0.0
		result.Action = ActionManualReview
		result.Reasons = append(result.Reasons, "No valid scores provided")
		return result
	}

	score := base
	score = c.applyAgreement(scores, score, &result)
	score = c.applyFeatures(features, score, &result)

	result.Score = Clamp(score)
	result.Action = action(result.Score)
	result.Reasons = append(result.Reasons,
		fmt.Sprintf("final score %.2f, action %s", result.Score, result.Action))

	return result
}

func (c *ConfidenceCalculator) baseScore(scores map[string]float64, result *ConfidenceResult) (float64, int) {
	weighted := 0.0
	weightSum := 0.0
	used := 0

	for _, source := range sortedKeys(scores) {
		weight, known := c.weights[source]
		if !known {
			result.Reasons = append(result.Reasons,
				fmt.Sprintf("ignored unknown score source %q", source))
			continue
		}
		weighted += scores[source] * weight
		weightSum += weight
		used++
	}

	if used == 0 || weightSum == 0 {
		return 0.0, 0
	}

	base := weighted / weightSum
	result.Reasons = append(result.Reasons,
		fmt.Sprintf("base score %.2f from %d sources", base, used))
	return base, used
}

// applyAgreement applies the agreement boost or disagreement penalty over
// the qualifying set of scores (those >= 0.6). The spread is measured over
// that set only, so a single low straggler cannot convert agreement into
// disagreement.
func (c *ConfidenceCalculator) applyAgreement(scores map[string]float64, score float64, result *ConfidenceResult) float64 {
	high := []float64{}
	for _, source := range sortedKeys(scores) {
		if _, known := c.weights[source]; !known {
			continue
		}
		if scores[source] >= 0.6 {
			high = append(high, scores[source])
		}
	}
	if len(high) < 2 {
		return score
	}

	spread := maxOf(high) - minOf(high)
	switch {
	case spread <= 0.15:
		return c.adjust(score, result, Adjustment{
			Type:   AdjustmentBoost,
			Reason: "classifiers agree with high confidence",
			Amount: 0.15,
		})
	case spread > 0.30:
		return c.adjust(score, result, Adjustment{
			Type:   AdjustmentPenalty,
			Reason: "confident classifiers disagree",
			Amount: -0.20,
		})
	}
	return score
}

func (c *ConfidenceCalculator) applyFeatures(features *FileFeatures, score float64, result *ConfidenceResult) float64 {
	if features == nil {
		return score
	}

	if features.AccessFrequency >= 0.5 {
		score = c.adjust(score, result, Adjustment{
			Type:   AdjustmentBoost,
			Reason: "frequently accessed",
			Amount: 0.10,
		})
	}
	if features.DaysSinceEdit <= 7 {
		score = c.adjust(score, result, Adjustment{
			Type:   AdjustmentBoost,
			Reason: "recently edited",
			Amount: 0.05,
		})
	}
	// A zero text length still counts as low information.
	if features.TextLength < 50 {
		score = c.adjust(score, result, Adjustment{
			Type:   AdjustmentPenalty,
			Reason: "insufficient text for reliable classification",
			Amount: -0.10,
		})
	}
	return score
}

func (c *ConfidenceCalculator) adjust(score float64, result *ConfidenceResult, adj Adjustment) float64 {
	result.Details.Adjustments = append(result.Details.Adjustments, adj)
	result.Reasons = append(result.Reasons,
		fmt.Sprintf("%s %+.2f: %s", adj.Type, adj.Amount, adj.Reason))
	return score + adj.Amount
}

func action(score float64) string {
	switch {
	case score >= autoApplyThreshold:
		return ActionAutoApply
	case score >= suggestThreshold:
		return ActionSuggest
	default:
		return ActionManualReview
	}
}

func copyScores(scores map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(scores))
	for k, v := range scores {
		out[k] = v
	}
	return out
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func maxOf(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		m = math.Max(m, v)
	}
	return m
}

func minOf(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		m = math.Min(m, v)
	}
	return m
}
