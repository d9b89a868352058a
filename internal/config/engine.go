package config

import (
	"os"
	"strconv"

	"github.com/quadrant-labs/quadrant/internal/engine"
)

const (
	EnvEngineRuleThreshold  = "QUADRANT_ENGINE_RULE_THRESHOLD"
	EnvEngineGapThreshold   = "QUADRANT_ENGINE_GAP_THRESHOLD"
	EnvEngineRetryThreshold = "QUADRANT_ENGINE_RETRY_THRESHOLD"
	EnvEngineMaxRetries     = "QUADRANT_ENGINE_MAX_RETRIES"
)

// FinalizeEngine applies environment variable overrides to the engine config
// and finalizes it (defaults plus threshold validation).
func FinalizeEngine(c *engine.Config) error {
	if v := os.Getenv(EnvEngineRuleThreshold); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RuleThreshold = f
		}
	}
	if v := os.Getenv(EnvEngineGapThreshold); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.GapThreshold = f
		}
	}
	if v := os.Getenv(EnvEngineRetryThreshold); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RetryThreshold = f
		}
	}
	if v := os.Getenv(EnvEngineMaxRetries); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}

	return c.Finalize()
}
