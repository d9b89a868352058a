// Package llm adapts the go-agents chat capability to the engine's Completer
// contract. The adapter is constructed once at process start and injected
// into the engine, so classifier code never reaches for a global client.
package llm

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// Completer issues chat completions through a go-agents agent. A fresh agent
// is created per call, matching how the provider client is designed to be
// used; the underlying HTTP transport is shared by the provider layer.
type Completer struct {
	cfg *gaconfig.AgentConfig
}

// New creates a Completer over the given agent configuration.
func New(cfg *gaconfig.AgentConfig) *Completer {
	return &Completer{cfg: cfg}
}

// Complete sends the composed system and user prompts to the chat model and
// returns the raw response content. The maxTokens argument is advisory: the
// agent's model configuration governs the provider-side limit.
func (c *Completer) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	a, err := agent.New(c.cfg)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	prompt := systemPrompt + "\n\n" + userPrompt
	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("chat call: %w", err)
	}

	return resp.Content(), nil
}
