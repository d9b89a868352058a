package engine

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
)

// Rule is a static pattern-matching rule evaluated against note text.
// Patterns are case-insensitive and compiled lazily on first evaluation;
// a malformed pattern is logged once and the rule is skipped thereafter.
type Rule struct {
	Name        string
	Pattern     string
	Category    string
	Confidence  float64
	Description string

	once     sync.Once
	compiled *regexp.Regexp
	bad      bool
}

func (r *Rule) compile(logger *slog.Logger) *regexp.Regexp {
	r.once.Do(func() {
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			logger.Warn("skipping malformed rule", "rule", r.Name, "error", err)
			r.bad = true
			return
		}
		r.compiled = re
	})
	if r.bad {
		return nil
	}
	return r.compiled
}

// RuleResult is the ephemeral output of a single Evaluate call.
type RuleResult struct {
	Category    string         `json:"category"`
	Confidence  float64        `json:"confidence"`
	MatchedRule string         `json:"matched_rule"`
	Details     map[string]any `json:"details,omitempty"`
}

// RuleEngine evaluates a fixed, read-only rule table against text. The table
// is loaded once at construction and never mutated, so an engine instance is
// safe for unlimited concurrent Evaluate calls.
type RuleEngine struct {
	rules  []*Rule
	logger *slog.Logger
}

// NewRuleEngine creates a rule engine over the given rules. A nil or empty
// slice installs the default PARA rule set.
func NewRuleEngine(rules []*Rule, logger *slog.Logger) *RuleEngine {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &RuleEngine{
		rules:  rules,
		logger: logger.With("system", "rules"),
	}
}

// Evaluate returns the highest-confidence rule match for text, or nil when
// text is empty or no rule matches. On equal confidence the rule encountered
// first in table order wins; the comparison is strictly greater-than, which
// makes first-match-wins the documented tie break. Metadata is carried into
// the result details for audit but does not influence matching.
func (e *RuleEngine) Evaluate(text string, metadata map[string]any) *RuleResult {
	if text == "" {
		return nil
	}

	var winner *Rule
	for _, rule := range e.rules {
		re := rule.compile(e.logger)
		if re == nil {
			continue
		}
		if !re.MatchString(text) {
			continue
		}
		if winner == nil || rule.Confidence > winner.Confidence {
			winner = rule
		}
	}

	if winner == nil {
		return nil
	}

	details := map[string]any{
		"description": winner.Description,
	}
	for k, v := range metadata {
		details[k] = v
	}

	return &RuleResult{
		Category:    winner.Category,
		Confidence:  Clamp(winner.Confidence),
		MatchedRule: winner.Name,
		Details:     details,
	}
}

// RuleClassifier adapts the rule engine to the Classifier capability shared
// with the keyword and AI classifiers. Text no rule matches degrades to the
// documented Unclassified result rather than an error.
type RuleClassifier struct {
	engine *RuleEngine
}

// NewRuleClassifier wraps a rule engine as a Classifier.
func NewRuleClassifier(engine *RuleEngine) *RuleClassifier {
	return &RuleClassifier{engine: engine}
}

// Classify implements Classifier. Evaluation is synchronous and never touches
// the network, so the context is ignored.
func (c *RuleClassifier) Classify(_ context.Context, text string, contextData map[string]any) (ClassificationResult, error) {
	match := c.engine.Evaluate(text, contextData)
	if match == nil {
		return Unclassified(MethodRule, "no rule matched"), nil
	}
	return ClassificationResult{
		Category:   match.Category,
		Confidence: Clamp(match.Confidence),
		Method:     MethodRule,
		Reasoning:  fmt.Sprintf("matched rule %s", match.MatchedRule),
	}, nil
}

// DefaultRules returns the built-in PARA rule table. Order matters: it is
// the tie-break order for equal-confidence matches.
func DefaultRules() []*Rule {
	return []*Rule{
		{
			Name:        "project_keyword",
			Pattern:     `\b(project|roadmap|milestone|sprint|launch|deliverable)\b`,
			Category:    CategoryProjects,
			Confidence:  0.85,
			Description: "explicit project vocabulary",
		},
		{
			Name:        "project_deadline",
			Pattern:     `\b(deadline|due date|due by|ship by)\b`,
			Category:    CategoryProjects,
			Confidence:  0.80,
			Description: "deadline language implies active project work",
		},
		{
			Name:        "area_responsibility",
			Pattern:     `\b(routine|habit|ongoing|maintenance|weekly review|health|finances?)\b`,
			Category:    CategoryAreas,
			Confidence:  0.75,
			Description: "sustained responsibility vocabulary",
		},
		{
			Name:        "resource_reference",
			Pattern:     `\b(reference|cheat ?sheet|tutorial|how[- ]to|article|documentation|bookmark)\b`,
			Category:    CategoryResources,
			Confidence:  0.75,
			Description: "reference material vocabulary",
		},
		{
			Name:        "archive_marker",
			Pattern:     `\b(archived?|completed|deprecated|obsolete|superseded|no longer)\b`,
			Category:    CategoryArchives,
			Confidence:  0.80,
			Description: "inactive or finished item vocabulary",
		},
	}
}
