package openrouter

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/akolanti/FAQBot/internal/rag/llm"
	"github.com/akolanti/FAQBot/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const providerName = "openrouter"

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	Temperature float64
	HTTPClient  *http.Client
}

type llmClient struct {
	client      openai.Client
	modelName   string
	temperature float64
	logger      *logger_i.Logger
}

// NewClient builds an OpenAI-compatible chat completion client. OpenRouter is
// the default endpoint; any compatible base URL works.
func NewClient(cfg Config) (llm.Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter: API key is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("openrouter: model is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	logger := logger_i.NewLogger("llm_openrouter")
	logger.Info("OpenRouter client created", "model", cfg.Model, "baseURL", cfg.BaseURL)
	return &llmClient{
		client:      openai.NewClient(opts...),
		modelName:   cfg.Model,
		temperature: cfg.Temperature,
		logger:      logger,
	}, nil
}

func (c *llmClient) ModelName() string {
	return c.modelName
}

func (c *llmClient) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	log := c.logger.FromContext(ctx)

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.modelName),
		Messages: toParams(messages),
	}
	if c.temperature > 0 {
		params.Temperature = openai.Float(c.temperature)
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			log.Warn("oracle returned an error status", "status", apiErr.StatusCode)
			return "", &llm.CompletionError{Provider: providerName, StatusCode: apiErr.StatusCode, Err: err}
		}
		log.Warn("oracle call failed", "error", err)
		return "", &llm.CompletionError{Provider: providerName, Err: err}
	}

	if completion == nil || len(completion.Choices) == 0 {
		return "", &llm.CompletionError{Provider: providerName, Err: llm.ErrEmptyCompletion}
	}
	log.Debug("oracle answered", "finishReason", completion.Choices[0].FinishReason)
	return completion.Choices[0].Message.Content, nil
}

func toParams(messages []llm.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case llm.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
