package formatting

import (
	"errors"
	"testing"
)

type verdictPayload struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    verdictPayload
		wantErr bool
	}{
		{
			name:    "direct json",
			content: `{"category": "Projects", "confidence": 0.9}`,
			want:    verdictPayload{Category: "Projects", Confidence: 0.9},
		},
		{
			name:    "leading whitespace",
			content: "\n\t  {\"category\": \"Areas\", \"confidence\": 0.5}  ",
			want:    verdictPayload{Category: "Areas", Confidence: 0.5},
		},
		{
			name:    "json fence",
			content: "```json\n{\"category\": \"Resources\", \"confidence\": 0.7}\n```",
			want:    verdictPayload{Category: "Resources", Confidence: 0.7},
		},
		{
			name:    "bare fence",
			content: "```\n{\"category\": \"Archives\", \"confidence\": 0.6}\n```",
			want:    verdictPayload{Category: "Archives", Confidence: 0.6},
		},
		{
			name:    "fence inside prose",
			content: "Here is my answer:\n```json\n{\"category\": \"Projects\", \"confidence\": 0.8}\n```\nLet me know if that helps.",
			want:    verdictPayload{Category: "Projects", Confidence: 0.8},
		},
		{
			name:    "embedded object",
			content: `The note belongs in {"category": "Areas", "confidence": 0.65} based on its content.`,
			want:    verdictPayload{Category: "Areas", Confidence: 0.65},
		},
		{
			name:    "no json at all",
			content: "I cannot classify this note.",
			wantErr: true,
		},
		{
			name:    "malformed everywhere",
			content: "```json\n{broken\n```",
			wantErr: true,
		},
		{
			name:    "empty",
			content: "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse[verdictPayload](tt.content)
			if tt.wantErr {
				if !errors.Is(err, ErrParseFailed) {
					t.Fatalf("err = %v, want ErrParseFailed", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestOuterObject(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "plain object",
			content: `{"a": 1}`,
			want:    `{"a": 1}`,
		},
		{
			name:    "object in prose",
			content: `prefix {"a": 1} suffix`,
			want:    `{"a": 1}`,
		},
		{
			name:    "nested braces span",
			content: `{"a": {"b": 2}}`,
			want:    `{"a": {"b": 2}}`,
		},
		{
			name:    "no opening brace",
			content: `just text}`,
			want:    "",
		},
		{
			name:    "close before open",
			content: `} then {`,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outerObject(tt.content); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
