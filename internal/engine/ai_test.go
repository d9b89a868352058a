package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// stubCompleter returns a canned response or error for every call.
type stubCompleter struct {
	response string
	err      error
	calls    int
}

func (s *stubCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	s.calls++
	return s.response, s.err
}

func TestAIClassify(t *testing.T) {
	tests := []struct {
		name       string
		completer  Completer
		category   string
		confidence float64
	}{
		{
			name:      "nil completer degrades",
			completer: nil,
			category:  CategoryUnclassified,
		},
		{
			name:      "transport error degrades",
			completer: &stubCompleter{err: errors.New("connection refused")},
			category:  CategoryUnclassified,
		},
		{
			name:      "malformed json degrades",
			completer: &stubCompleter{response: "I think this is a project!"},
			category:  CategoryUnclassified,
		},
		{
			name:      "missing confidence degrades",
			completer: &stubCompleter{response: `{"category": "Projects"}`},
			category:  CategoryUnclassified,
		},
		{
			name: "valid response",
			completer: &stubCompleter{
				response: `{"category": "Projects", "confidence": 0.82, "reasoning": "active work", "tags": ["planning"]}`,
			},
			category:   CategoryProjects,
			confidence: 0.82,
		},
		{
			name: "fenced response still parses",
			completer: &stubCompleter{
				response: "```json\n{\"category\": \"Areas\", \"confidence\": 0.7, \"reasoning\": \"ongoing\"}\n```",
			},
			category:   CategoryAreas,
			confidence: 0.7,
		},
		{
			name: "out of range confidence degrades",
			completer: &stubCompleter{
				response: `{"category": "Projects", "confidence": 1.4, "reasoning": "sure"}`,
			},
			category: CategoryUnclassified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewAIClassifier(tt.completer, "")

			got, err := c.Classify(context.Background(), "some note text", nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got.Category != tt.category {
				t.Errorf("category = %s, want %s", got.Category, tt.category)
			}
			if got.Method != MethodAI {
				t.Errorf("method = %s, want ai", got.Method)
			}
			if tt.category != CategoryUnclassified && got.Confidence != tt.confidence {
				t.Errorf("confidence = %v, want %v", got.Confidence, tt.confidence)
			}
			if tt.category == CategoryUnclassified {
				if got.Confidence != 0.0 {
					t.Errorf("degraded confidence = %v, want 0.0", got.Confidence)
				}
				if got.Reasoning == "" {
					t.Error("degraded result should carry failure reason")
				}
			}
		})
	}
}

func TestUserPromptIncludesContext(t *testing.T) {
	got := userPrompt("note body", map[string]any{"filename": "a.md"})

	if !strings.Contains(got, "note body") {
		t.Errorf("prompt missing note text: %q", got)
	}
	if !strings.Contains(got, `"filename": "a.md"`) {
		t.Errorf("prompt missing serialized context: %q", got)
	}
}
