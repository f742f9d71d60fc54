package llm

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/facultyportal/research-engine/pkg/apperrors"
	"github.com/facultyportal/research-engine/pkg/config"
)

// NewFromConfig creates the configured generation client. The provider name
// comes from config; everything else is injected so main owns construction
// and tests can substitute a mock.
func NewFromConfig(cfg *config.LLMConfig, logger *zap.Logger) (SQLGenerator, error) {
	clientCfg := &Config{
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		APIKey:  cfg.APIKey,
		Timeout: cfg.RequestTimeout,
	}

	switch cfg.Provider {
	case "openai":
		return NewClient(clientCfg, logger)
	case "anthropic":
		return NewAnthropicClient(clientCfg, logger)
	default:
		return nil, fmt.Errorf("unknown provider %q: %w", cfg.Provider, apperrors.ErrLLMNotConfigured)
	}
}
