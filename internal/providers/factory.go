package providers

import (
	"fmt"

	"github.com/cosduck/chanpilot/internal/config"
)

// NewFromConfig creates the agent-run provider from configuration.
func NewFromConfig(cfg *config.Config) (Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if cfg.Models.APIKey == "" {
		return nil, fmt.Errorf("model API key is not configured")
	}
	return NewOpenAIProvider("openai", cfg.Models.APIKey, cfg.Models.APIBase), nil
}
