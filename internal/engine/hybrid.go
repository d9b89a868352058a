package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// DefaultRuleThreshold is the minimum rule confidence that short-circuits
// the AI fallback.
const DefaultRuleThreshold = 0.8

// HybridClassifier routes classification through a synchronous rule fast
// path, falling back to the AI classifier when no rule matches confidently.
type HybridClassifier struct {
	rules     *RuleClassifier
	ai        Classifier
	threshold float64
	logger    *slog.Logger
}

// NewHybridClassifier creates a hybrid classifier. An out-of-range threshold
// is a programming mistake, not runtime data, so it fails construction.
func NewHybridClassifier(rules *RuleClassifier, ai Classifier, threshold float64, logger *slog.Logger) (*HybridClassifier, error) {
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("rule threshold %v outside [0,1]", threshold)
	}
	return &HybridClassifier{
		rules:     rules,
		ai:        ai,
		threshold: threshold,
		logger:    logger.With("system", "hybrid"),
	}, nil
}

// Classify implements Classifier. Blank text short-circuits to a
// validation_error result without invoking either classifier. A rule match
// at or above the threshold returns immediately with method "rule"; anything
// else falls through to the AI classifier. Rule-engine panics are logged and
// swallowed so a rule failure can never block the AI fallback.
func (c *HybridClassifier) Classify(ctx context.Context, text string, contextData map[string]any) (ClassificationResult, error) {
	if strings.TrimSpace(text) == "" {
		return Unclassified(MethodValidationError, "empty or blank text"), nil
	}

	if match, ok := c.evaluateRules(ctx, text, contextData); ok && match.Confidence >= c.threshold {
		return match, nil
	}

	result, err := c.ai.Classify(ctx, text, contextData)
	if err != nil {
		return Unclassified(MethodAI, fmt.Sprintf("ai classifier failed: %v", err)), nil
	}

	if result.Method == "" {
		result.Method = MethodAI
	}
	return Validate(result), nil
}

// evaluateRules runs the rule classifier with panic containment. ok is false
// when no rule matched or evaluation panicked; the fallback path handles both
// identically.
func (c *HybridClassifier) evaluateRules(ctx context.Context, text string, contextData map[string]any) (match ClassificationResult, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("rule evaluation failed, falling back to ai", "panic", r)
			ok = false
		}
	}()

	result, err := c.rules.Classify(ctx, text, contextData)
	if err != nil || result.Category == CategoryUnclassified {
		return result, false
	}
	return result, true
}
