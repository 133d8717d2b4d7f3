package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/FAQBot/internal/config"
	"github.com/akolanti/FAQBot/internal/domain/queryModel"
	"github.com/akolanti/FAQBot/internal/metrics"
	"github.com/akolanti/FAQBot/internal/rag/llm"
)

// HandleMessage answers one question. The interaction is recorded even when
// the oracle fails: the user then receives the generic failure text and no
// feedback buttons. Ledger failures are logged and never block the reply.
func (b *Bot) HandleMessage(ctx context.Context, event queryModel.Event) (queryModel.QueryEvent, error) {
	log := b.logger.FromContext(ctx)
	question := strings.TrimSpace(event.Text)
	result := queryModel.QueryEvent{User: event.User, TraceId: event.TraceId, Question: question, Timestamp: b.now()}
	if question == "" {
		log.Debug("Ignoring empty message")
		return result, nil
	}

	b.persist(ctx, "user_profile", func() error { return b.ledger.UpsertUserProfile(ctx, event.User) })

	answer, err := b.router.Route(ctx, question, b.corpus)
	if err != nil {
		var ce *llm.CompletionError
		if !errors.As(err, &ce) {
			log.Error("Routing failed with an unexpected error", "error", err)
		}
		result.Failed = true
		result.Answer = config.GenericFailureMessage
	} else {
		result.Answer = answer.Text
		result.Grounded = answer.Grounded
		if answer.Source != nil {
			result.SourceDocument = answer.Source.Name
		}
	}

	b.persist(ctx, "transcript", func() error {
		return b.ledger.AppendTranscript(ctx, event.User.Id, queryModel.RoleUser, question)
	})
	b.persist(ctx, "transcript", func() error {
		return b.ledger.AppendTranscript(ctx, event.User.Id, queryModel.RoleBot, result.Answer)
	})
	b.sessions.Record(event.User.Id, question, result.Answer)
	b.persist(ctx, "counters", func() error { return b.ledger.IncrementResponses(ctx) })
	if b.chatLog != nil {
		b.chatLog.Append(result.Timestamp, event.User.Id, question, result.Answer)
	}

	log.Info("Answered", "grounded", result.Grounded, "source", result.SourceDocument, "failed", result.Failed)

	replyCtx, cancel := replyContext(ctx)
	defer cancel()
	if _, err := b.transport.SendReply(replyCtx, event.ChatId, result.Answer, !result.Failed); err != nil {
		return result, fmt.Errorf("send reply: %w", err)
	}
	return result, nil
}

// persist runs one ledger write. A failure is logged and counted only.
func (b *Bot) persist(ctx context.Context, record string, write func() error) {
	start := time.Now()
	err := write()
	metrics.CaptureExecutionMetrics("ledger", time.Since(start))
	if err != nil {
		b.logger.FromContext(ctx).Warn("Ledger write failed", "record", record, "error", err)
		metrics.RecordLedgerFailure(record)
	}
}
