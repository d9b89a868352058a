package engine

import (
	"context"
	"math"
	"reflect"
	"testing"
)

func TestKeywordClassify(t *testing.T) {
	c := NewKeywordClassifier()

	tests := []struct {
		name       string
		text       string
		category   string
		confidence float64
		tags       []string
	}{
		{
			name:       "empty text",
			text:       "   ",
			category:   CategoryUnclassified,
			confidence: 0.0,
		},
		{
			name:       "no lexicon hits",
			text:       "completely unrelated words here",
			category:   CategoryUnclassified,
			confidence: 0.0,
		},
		{
			name:       "single hit",
			text:       "a tutorial on sourdough",
			category:   CategoryResources,
			confidence: 0.45,
			tags:       []string{"tutorial"},
		},
		{
			name:       "multiple hits raise confidence",
			text:       "project sprint with a milestone and deadline",
			category:   CategoryProjects,
			confidence: 0.90,
			tags:       []string{"deadline", "milestone", "project", "sprint"},
		},
		{
			name:       "repeated words count once",
			text:       "archive archive archive",
			category:   CategoryArchives,
			confidence: 0.45,
			tags:       []string{"archive"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Classify(context.Background(), tt.text, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got.Category != tt.category {
				t.Errorf("category = %s, want %s", got.Category, tt.category)
			}
			if math.Abs(got.Confidence-tt.confidence) > 1e-9 {
				t.Errorf("confidence = %v, want %v", got.Confidence, tt.confidence)
			}
			if got.Method != MethodKeyword {
				t.Errorf("method = %s, want keyword", got.Method)
			}
			if tt.tags != nil && !reflect.DeepEqual(got.Tags, tt.tags) {
				t.Errorf("tags = %v, want %v", got.Tags, tt.tags)
			}
		})
	}
}

func TestKeywordConfidenceCapped(t *testing.T) {
	c := NewKeywordClassifier()

	// Six distinct hits would push 0.30 + 6*0.15 = 1.20 without the cap.
	got, err := c.Classify(context.Background(),
		"project roadmap milestone sprint deadline launch", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Confidence != 0.90 {
		t.Errorf("confidence = %v, want capped 0.90", got.Confidence)
	}
}
