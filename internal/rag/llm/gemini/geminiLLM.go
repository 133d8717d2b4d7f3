package gemini

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/akolanti/FAQBot/internal/config"
	"github.com/akolanti/FAQBot/internal/rag/llm"
	"github.com/akolanti/FAQBot/pkg/logger_i"
	"google.golang.org/genai"
)

const providerName = "gemini"

type llmClient struct {
	client      *genai.Client
	modelName   string
	temperature float32
}

var logger *logger_i.Logger
var geminiClient *llmClient
var once sync.Once

func GetGeminiClient(ctx context.Context, apikey string, modelName string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_gemini")
		newGeminiClient(ctx, apikey, modelName)
	})

	if geminiClient == nil {
		return nil
	}
	return &llmClient{client: geminiClient.client, modelName: geminiClient.modelName, temperature: geminiClient.temperature}
}

func newGeminiClient(ctx context.Context, apikey string, modelName string) {
	if modelName == "" {
		modelName = config.GeminiModelName
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
	}
	if c != nil {
		geminiClient = &llmClient{client: c, modelName: modelName, temperature: float32(config.ModelTemperature)}
		logger.Info("Gemini client created", "model", modelName)
		go closeClient(ctx, geminiClient)
	}
}

func (c *llmClient) ModelName() string {
	return c.modelName
}

// Complete maps system messages onto the system instruction and the rest onto
// user/model turns.
func (c *llmClient) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	if c.client == nil {
		return "", &llm.CompletionError{Provider: providerName, Err: errors.New("client closed")}
	}
	log := logger.FromContext(ctx)

	var system []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			system = append(system, m.Content)
		case llm.RoleAssistant:
			contents = append(contents, &genai.Content{Role: "model", Parts: []*genai.Part{{Text: m.Content}}})
		default:
			contents = append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{{Text: m.Content}}})
		}
	}

	temperature := c.temperature
	contentConfig := &genai.GenerateContentConfig{Temperature: &temperature}
	if len(system) > 0 {
		contentConfig.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: strings.Join(system, "\n\n")}},
		}
	}

	result, err := c.client.Models.GenerateContent(ctx, c.modelName, contents, contentConfig)
	if err != nil {
		log.Warn("Gemini call failed", "error", err)
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &llm.CompletionError{Provider: providerName, StatusCode: apiErr.Code, Err: err}
		}
		return "", &llm.CompletionError{Provider: providerName, Err: err}
	}
	text := result.Text()
	if text == "" {
		return "", &llm.CompletionError{Provider: providerName, Err: llm.ErrEmptyCompletion}
	}
	return text, nil
}

func closeClient(ctx context.Context, llm *llmClient) {
	<-ctx.Done()
	logger.Info("Closing Gemini client")
	llm.client = nil
	llm.modelName = ""
}
