package composer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/FAQBot/internal/config"
	"github.com/akolanti/FAQBot/internal/metrics"
	"github.com/akolanti/FAQBot/internal/rag/llm"
	"github.com/akolanti/FAQBot/pkg/logger_i"
)

// AnswerComposer produces the final reply text. Every failure comes back as a
// *llm.CompletionError.
type AnswerComposer interface {
	ComposeGrounded(ctx context.Context, query string, contextText string) (string, error)
	ComposeOpen(ctx context.Context, query string) (string, error)
}

type composer struct {
	provider       llm.Provider
	supportContact string
	timeout        time.Duration
	logger         *logger_i.Logger
}

type Option func(*composer)

func WithTimeout(d time.Duration) Option {
	return func(c *composer) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithSupportContact(contact string) Option {
	return func(c *composer) {
		if contact != "" {
			c.supportContact = contact
		}
	}
}

func New(provider llm.Provider, opts ...Option) AnswerComposer {
	c := &composer{
		provider:       provider,
		supportContact: config.DefaultSupportContact,
		timeout:        config.OracleTimeout,
		logger:         logger_i.NewLogger("composer"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FallbackAnswer is the sentence the oracle is told to return when the
// document does not contain the answer.
func FallbackAnswer(supportContact string) string {
	return "❗ Sorry, based on the current document, I don't know the answer. Please contact the admin or mail: " + supportContact
}

func (c *composer) ComposeGrounded(ctx context.Context, query string, contextText string) (string, error) {
	system := fmt.Sprintf(`You are a %s. Answer ONLY using the document below.
If the answer is not present, reply exactly:
"%s"
Never repeat the whole document back; answer only what was asked.
DOCUMENT:
%s`, config.AssistantName, FallbackAnswer(c.supportContact), contextText)

	return c.complete(ctx, "compose_grounded", system, query)
}

func (c *composer) ComposeOpen(ctx context.Context, query string) (string, error) {
	system := fmt.Sprintf("You are a %s. Answer the question helpfully and concisely.", config.AssistantName)
	return c.complete(ctx, "compose_open", system, query)
}

func (c *composer) complete(ctx context.Context, step string, system string, query string) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics(step, time.Since(start)) }()

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.provider.Complete(callCtx, []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: query},
	})
	if err != nil {
		c.logger.FromContext(ctx).Warn("Composition failed", "step", step, "error", err)
		return "", llm.AsCompletionError(c.provider.ModelName(), err)
	}
	return strings.TrimSpace(out), nil
}
