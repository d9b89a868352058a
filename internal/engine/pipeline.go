package engine

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// ClassifyResult is the verdict the engine returns to its callers.
type ClassifyResult struct {
	Category         string           `json:"category"`
	Confidence       float64          `json:"confidence"`
	Action           string           `json:"action"`
	ConflictDetected bool             `json:"conflict_detected"`
	RequiresReview   bool             `json:"requires_review"`
	KeywordTags      []string         `json:"keyword_tags"`
	Reasoning        string           `json:"reasoning"`
	Method           string           `json:"method"`
	Resolution       Resolution       `json:"resolution"`
	Score            ConfidenceResult `json:"score"`
}

// Workflow retry defaults.
const (
	DefaultRetryThreshold = 0.6
	DefaultMaxRetries     = 2
)

// Config holds the engine's tunable thresholds. Zero values select the
// documented defaults during Finalize, so a retry budget of exactly 0 and a
// gap threshold of exactly 0 are not expressible through configuration; both
// are indistinguishable from unset.
type Config struct {
	RuleThreshold  float64 `toml:"rule_threshold"`
	GapThreshold   float64 `toml:"gap_threshold"`
	RetryThreshold float64 `toml:"retry_threshold"`
	MaxRetries     int     `toml:"max_retries"`
}

// Finalize applies defaults and validation. An out-of-range rule threshold
// or negative retry budget fails fast: both indicate programming mistakes.
func (c *Config) Finalize() error {
	if c.RuleThreshold == 0 {
		c.RuleThreshold = DefaultRuleThreshold
	}
	if c.GapThreshold == 0 {
		c.GapThreshold = DefaultGapThreshold
	}
	if c.RetryThreshold == 0 {
		c.RetryThreshold = DefaultRetryThreshold
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.RuleThreshold < 0 || c.RuleThreshold > 1 {
		return fmt.Errorf("rule_threshold %v outside [0,1]", c.RuleThreshold)
	}
	if c.RetryThreshold < 0 || c.RetryThreshold > 1 {
		return fmt.Errorf("retry_threshold %v outside [0,1]", c.RetryThreshold)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative")
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.RuleThreshold != 0 {
		c.RuleThreshold = overlay.RuleThreshold
	}
	if overlay.GapThreshold != 0 {
		c.GapThreshold = overlay.GapThreshold
	}
	if overlay.RetryThreshold != 0 {
		c.RetryThreshold = overlay.RetryThreshold
	}
	if overlay.MaxRetries != 0 {
		c.MaxRetries = overlay.MaxRetries
	}
}

// Pipeline composes the engine components into the single classify operation
// exposed to callers. Feature extraction and the two classifier paths run
// concurrently; conflict resolution and confidence blending are sequential.
// A Pipeline holds no request-scoped state and is safe for concurrent use.
type Pipeline struct {
	hybrid     *HybridClassifier
	keyword    *KeywordClassifier
	features   *FeatureExtractor
	resolver   *ConflictResolver
	confidence *ConfidenceCalculator
	logger     *slog.Logger
}

// NewPipeline wires the engine components from configuration. The completer
// is the injected LLM capability; it may be nil, in which case AI
// classification degrades to Unclassified per the engine contract. An empty
// systemPrompt installs the AI classifier's built-in prompt.
func NewPipeline(cfg *Config, completer Completer, systemPrompt string, logger *slog.Logger) (*Pipeline, error) {
	rules := NewRuleClassifier(NewRuleEngine(nil, logger))
	ai := NewAIClassifier(completer, systemPrompt)

	hybrid, err := NewHybridClassifier(rules, ai, cfg.RuleThreshold, logger)
	if err != nil {
		return nil, fmt.Errorf("hybrid classifier: %w", err)
	}

	return &Pipeline{
		hybrid:     hybrid,
		keyword:    NewKeywordClassifier(),
		features:   NewFeatureExtractor(logger),
		resolver:   NewConflictResolver(cfg.GapThreshold),
		confidence: NewConfidenceCalculator(nil, logger),
		logger:     logger.With("system", "engine"),
	}, nil
}

// Resolver exposes the pipeline's conflict resolver for statistics queries.
func (p *Pipeline) Resolver() *ConflictResolver {
	return p.resolver
}

// Classify runs the full decision pipeline over text. The returned error is
// only ever an infrastructure failure (context cancellation of the group
// itself); every classifier failure mode is folded into the verdict.
func (p *Pipeline) Classify(
	ctx context.Context,
	text string,
	contextData map[string]any,
	usage *UsageStats,
) (*ClassifyResult, error) {
	var (
		hybridResult  ClassificationResult
		keywordResult ClassificationResult
		features      FileFeatures
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(3)

	g.Go(func() error {
		var err error
		hybridResult, err = p.hybrid.Classify(gctx, text, contextData)
		return err
	})
	g.Go(func() error {
		var err error
		keywordResult, err = p.keyword.Classify(gctx, text, contextData)
		return err
	})
	g.Go(func() error {
		features = p.features.Extract(text, contextData, usage)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("classification pipeline: %w", err)
	}

	resolution := p.resolver.Resolve(hybridResult, keywordResult)

	scores := map[string]float64{}
	switch hybridResult.Method {
	case MethodRule:
		scores[MethodRule] = hybridResult.Confidence
	case MethodAI, MethodHybrid:
		scores[MethodAI] = hybridResult.Confidence
	}
	if keywordResult.Category != CategoryUnclassified {
		scores[MethodKeyword] = keywordResult.Confidence
	}

	verdict := p.confidence.Calculate(scores, &features)

	result := &ClassifyResult{
		Category:         resolution.FinalCategory,
		Confidence:       verdict.Score,
		Action:           verdict.Action,
		ConflictDetected: resolution.ConflictDetected,
		RequiresReview:   resolution.RequiresReview,
		KeywordTags:      keywordResult.Tags,
		Reasoning:        hybridResult.Reasoning,
		Method:           hybridResult.Method,
		Resolution:       resolution,
		Score:            verdict,
	}

	p.logger.Debug("classification complete",
		"category", result.Category,
		"confidence", result.Confidence,
		"method", result.Method,
		"conflict", result.ConflictDetected,
	)

	return result, nil
}
