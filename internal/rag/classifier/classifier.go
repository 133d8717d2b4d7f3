package classifier

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/akolanti/FAQBot/internal/config"
	"github.com/akolanti/FAQBot/internal/metrics"
	"github.com/akolanti/FAQBot/internal/rag/llm"
	"github.com/akolanti/FAQBot/pkg/logger_i"
)

const (
	resultRelated   = "related"
	resultUnrelated = "unrelated"
	resultFailed    = "failed"
)

// RelatednessClassifier decides whether a question can be answered from a
// document. It never returns an error: any failure counts as unrelated.
type RelatednessClassifier interface {
	IsRelated(ctx context.Context, query string, documentText string) bool
}

type classifier struct {
	provider    llm.Provider
	timeout     time.Duration
	prefixLimit int
	logger      *logger_i.Logger
}

type Option func(*classifier)

func WithTimeout(d time.Duration) Option {
	return func(c *classifier) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithPrefixLimit caps how many characters of the document are sent.
func WithPrefixLimit(n int) Option {
	return func(c *classifier) {
		if n > 0 {
			c.prefixLimit = n
		}
	}
}

func New(provider llm.Provider, opts ...Option) RelatednessClassifier {
	c := &classifier{
		provider:    provider,
		timeout:     config.ClassifierTimeout,
		prefixLimit: config.ClassifierPrefixChars,
		logger:      logger_i.NewLogger("classifier"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *classifier) IsRelated(ctx context.Context, query string, documentText string) (related bool) {
	log := c.logger.FromContext(ctx)
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("classifier", time.Since(start)) }()

	defer func() {
		if r := recover(); r != nil {
			log.Warn("Classifier panicked, treating as unrelated", "panic", r)
			metrics.RecordClassifierDecision(resultFailed)
			related = false
		}
	}()

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.provider.Complete(callCtx, buildPrompt(query, prefix(documentText, c.prefixLimit)))
	if err != nil {
		log.Warn("Classifier call failed, treating as unrelated", "error", err)
		metrics.RecordClassifierDecision(resultFailed)
		return false
	}

	related = strings.Contains(strings.ToLower(out), "yes")
	if related {
		metrics.RecordClassifierDecision(resultRelated)
	} else {
		metrics.RecordClassifierDecision(resultUnrelated)
	}
	log.Debug("Classified", "related", related)
	return related
}

func buildPrompt(query string, documentText string) []llm.Message {
	return []llm.Message{
		{
			Role:    llm.RoleSystem,
			Content: "You decide whether a question can be answered from a document. Reply with exactly one word: yes or no.",
		},
		{
			Role:    llm.RoleUser,
			Content: fmt.Sprintf("Document:\n%s\n\nQuestion: %s\n\nIs this question related to the document? Answer yes or no.", documentText, query),
		},
	}
}

func prefix(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	return string([]rune(text)[:limit])
}
