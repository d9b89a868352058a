package engine

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRuleEngineEvaluate(t *testing.T) {
	e := NewRuleEngine(nil, testLogger())

	tests := []struct {
		name     string
		text     string
		wantNil  bool
		category string
		rule     string
	}{
		{
			name:    "empty text",
			text:    "",
			wantNil: true,
		},
		{
			name:    "no match",
			text:    "random thoughts about nothing in particular",
			wantNil: true,
		},
		{
			name:     "project vocabulary",
			text:     "This is a new project roadmap.",
			category: CategoryProjects,
			rule:     "project_keyword",
		},
		{
			name:     "archive marker",
			text:     "this effort is deprecated and no longer maintained",
			category: CategoryArchives,
			rule:     "archive_marker",
		},
		{
			name:     "case insensitive",
			text:     "DEADLINE is friday",
			category: CategoryProjects,
			rule:     "project_deadline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Evaluate(tt.text, nil)

			if tt.wantNil {
				if got != nil {
					t.Fatalf("expected nil, got %+v", got)
				}
				return
			}

			if got == nil {
				t.Fatal("expected match, got nil")
			}
			if got.Category != tt.category {
				t.Errorf("category = %s, want %s", got.Category, tt.category)
			}
			if got.MatchedRule != tt.rule {
				t.Errorf("rule = %s, want %s", got.MatchedRule, tt.rule)
			}
			if got.Confidence < 0 || got.Confidence > 1 {
				t.Errorf("confidence %v outside [0,1]", got.Confidence)
			}
		})
	}
}

func TestRuleEngineHighestConfidenceWins(t *testing.T) {
	e := NewRuleEngine(nil, testLogger())

	// Matches both project_keyword (0.85) and archive_marker (0.80).
	got := e.Evaluate("archived project notes", nil)
	if got == nil {
		t.Fatal("expected match")
	}
	if got.MatchedRule != "project_keyword" {
		t.Errorf("rule = %s, want project_keyword", got.MatchedRule)
	}
}

func TestRuleEngineTieBreakFirstWins(t *testing.T) {
	rules := []*Rule{
		{Name: "first", Pattern: `alpha`, Category: CategoryAreas, Confidence: 0.7},
		{Name: "second", Pattern: `beta`, Category: CategoryResources, Confidence: 0.7},
	}
	e := NewRuleEngine(rules, testLogger())

	got := e.Evaluate("alpha beta", nil)
	if got == nil {
		t.Fatal("expected match")
	}
	if got.MatchedRule != "first" {
		t.Errorf("rule = %s, want first on equal confidence", got.MatchedRule)
	}
}

func TestRuleEngineSkipsMalformedPattern(t *testing.T) {
	rules := []*Rule{
		{Name: "broken", Pattern: `([`, Category: CategoryProjects, Confidence: 0.9},
		{Name: "valid", Pattern: `notes`, Category: CategoryResources, Confidence: 0.6},
	}
	e := NewRuleEngine(rules, testLogger())

	got := e.Evaluate("meeting notes", nil)
	if got == nil {
		t.Fatal("expected match from valid rule")
	}
	if got.MatchedRule != "valid" {
		t.Errorf("rule = %s, want valid", got.MatchedRule)
	}
}

func TestRuleClassifier(t *testing.T) {
	var _ Classifier = (*RuleClassifier)(nil)

	c := NewRuleClassifier(NewRuleEngine(nil, testLogger()))

	t.Run("rule match", func(t *testing.T) {
		got, err := c.Classify(context.Background(), "This is a new project roadmap.", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Category != CategoryProjects {
			t.Errorf("category = %s, want Projects", got.Category)
		}
		if got.Method != MethodRule {
			t.Errorf("method = %s, want rule", got.Method)
		}
		if got.Confidence != 0.85 {
			t.Errorf("confidence = %v, want 0.85", got.Confidence)
		}
		if !strings.Contains(got.Reasoning, "project_keyword") {
			t.Errorf("reasoning %q should name the matched rule", got.Reasoning)
		}
	})

	t.Run("no match degrades", func(t *testing.T) {
		got, err := c.Classify(context.Background(), "random thoughts about nothing in particular", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Category != CategoryUnclassified {
			t.Errorf("category = %s, want Unclassified", got.Category)
		}
		if got.Method != MethodRule || got.Confidence != 0.0 {
			t.Errorf("unmatched text should degrade with method rule, got %+v", got)
		}
	})
}

func TestRuleEngineMetadataInDetails(t *testing.T) {
	e := NewRuleEngine(nil, testLogger())

	got := e.Evaluate("sprint planning", map[string]any{"filename": "plan.md"})
	if got == nil {
		t.Fatal("expected match")
	}
	if got.Details["filename"] != "plan.md" {
		t.Errorf("details missing metadata: %+v", got.Details)
	}
}
