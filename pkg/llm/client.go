package llm

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/facultyportal/research-engine/pkg/apperrors"
	sqlguard "github.com/facultyportal/research-engine/pkg/sql"
)

// Client reaches any OpenAI-compatible completion endpoint (Groq included,
// via its /openai/v1 base URL).
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// Config holds the settings for creating a generation client.
type Config struct {
	BaseURL string        // e.g. "https://api.groq.com/openai/v1"
	Model   string        // e.g. "openai/gpt-oss-120b"
	APIKey  string        // required; validated before any network call
	Timeout time.Duration // per-request deadline; 0 means no extra deadline
}

// NewClient creates an OpenAI-compatible generation client. A missing API
// key or endpoint is a configuration error surfaced immediately.
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required: %w", apperrors.ErrLLMNotConfigured)
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required: %w", apperrors.ErrLLMNotConfigured)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required: %w", apperrors.ErrLLMNotConfigured)
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	return &Client{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger.Named("llm"),
	}, nil
}

// GenerateSQL sends the policy preamble and instruction document as system
// and user turns at temperature zero, then normalizes the completion text.
// Errors are returned unwrapped of any retry logic; one call, one outcome.
func (c *Client) GenerateSQL(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.logger.Debug("generation request",
		zap.String("model", c.model),
		zap.Int("prompt_len", len(userPrompt)))

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		// Temperature is marshalled with omitempty, so a literal 0 would be
		// dropped and the endpoint would fall back to its default. The
		// smallest non-zero float survives marshalling and rounds to 0.
		Temperature: math.SmallestNonzeroFloat32,
	})
	if err != nil {
		c.logger.Error("generation request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", fmt.Errorf("completion call: %w: %w", apperrors.ErrGeneration, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response: %w", apperrors.ErrGeneration)
	}

	c.logger.Info("generation request completed",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return sqlguard.Normalize(resp.Choices[0].Message.Content), nil
}
