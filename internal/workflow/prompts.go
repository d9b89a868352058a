package workflow

import (
	"fmt"
	"strings"

	"github.com/quadrant-labs/quadrant/internal/prompts"
)

// ComposePrompt builds a stage's system prompt from its instructions and
// response specification.
func ComposePrompt(stage prompts.Stage) (string, error) {
	instructions, err := prompts.Instructions(stage)
	if err != nil {
		return "", fmt.Errorf("load instructions for %s: %w", stage, err)
	}

	spec, err := prompts.Spec(stage)
	if err != nil {
		return "", fmt.Errorf("load spec for %s: %w", stage, err)
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	sb.WriteString(spec)

	return sb.String(), nil
}
