package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quadrant-labs/quadrant/pkg/formatting"
)

// Completer is the LLM capability the engine consumes from its environment.
// It is expected to return raw JSON or JSON embedded in prose; absence or
// failure of the capability degrades classification to Unclassified rather
// than raising to the caller.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error)
}

const classifySystemPrompt = `You are a PARA-method note organizer. Classify the note into exactly one
category:

- Projects: active work with a defined outcome and an end date
- Areas: ongoing responsibilities with a standard to maintain
- Resources: reference material kept for future use
- Archives: inactive items from the other three categories

Respond with a JSON object matching this exact structure:

{
  "category": "<Projects|Areas|Resources|Archives>",
  "confidence": 0.0,
  "reasoning": "<explanation>",
  "tags": ["<tag1>", "<tag2>"]
}

Field constraints:
- category: exactly one of the four PARA categories
- confidence: number between 0.0 and 1.0 reflecting classification certainty
- reasoning: brief explanation citing evidence from the note
- tags: up to five lowercase topic tags derived from the note

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Classify based only on the note text and the provided context`

const aiMaxTokens = 512

type aiResponse struct {
	Category   string   `json:"category"`
	Confidence *float64 `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
	Tags       []string `json:"tags"`
}

// AIClassifier classifies text through an injected LLM completion capability.
// Every failure mode (transport error, malformed JSON, missing fields,
// cancellation) resolves to the documented Unclassified result with
// method "ai" so callers can branch on method regardless of success.
type AIClassifier struct {
	completer Completer
	system    string
}

// NewAIClassifier creates an AI classifier over the given completion
// capability. An empty system prompt installs the default PARA prompt.
func NewAIClassifier(completer Completer, systemPrompt string) *AIClassifier {
	if systemPrompt == "" {
		systemPrompt = classifySystemPrompt
	}
	return &AIClassifier{
		completer: completer,
		system:    systemPrompt,
	}
}

// Classify implements Classifier. The returned error is always nil; failures
// are folded into the result per the engine's error handling contract.
func (c *AIClassifier) Classify(ctx context.Context, text string, contextData map[string]any) (ClassificationResult, error) {
	if c.completer == nil {
		return Unclassified(MethodAI, "no completion capability configured"), nil
	}

	raw, err := c.completer.Complete(ctx, c.system, userPrompt(text, contextData), aiMaxTokens)
	if err != nil {
		return Unclassified(MethodAI, fmt.Sprintf("completion failed: %v", err)), nil
	}

	parsed, err := formatting.Parse[aiResponse](raw)
	if err != nil {
		return Unclassified(MethodAI, fmt.Sprintf("unparseable response: %v", err)), nil
	}

	if parsed.Category == "" || parsed.Confidence == nil {
		return Unclassified(MethodAI, "response missing required fields"), nil
	}

	return Validate(ClassificationResult{
		Category:   parsed.Category,
		Confidence: *parsed.Confidence,
		Method:     MethodAI,
		Reasoning:  parsed.Reasoning,
		Tags:       parsed.Tags,
	}), nil
}

// userPrompt assembles the user message from the note text and optional
// context. Context values are JSON-serialized; values that cannot be
// serialized are string-coerced so a single odd value never aborts the call.
func userPrompt(text string, contextData map[string]any) string {
	var sb strings.Builder
	sb.WriteString("Note:\n\n")
	sb.WriteString(text)

	if len(contextData) > 0 {
		sb.WriteString("\n\nContext:\n\n")
		sb.WriteString(serializeContext(contextData))
	}

	return sb.String()
}

func serializeContext(contextData map[string]any) string {
	data, err := json.MarshalIndent(contextData, "", "  ")
	if err == nil {
		return string(data)
	}

	coerced := make(map[string]string, len(contextData))
	for k, v := range contextData {
		coerced[k] = fmt.Sprintf("%v", v)
	}
	data, err = json.MarshalIndent(coerced, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", contextData)
	}
	return string(data)
}
