package bot

import (
	"context"
	"fmt"

	"github.com/akolanti/FAQBot/internal/config"
	"github.com/akolanti/FAQBot/internal/domain/queryModel"
	"github.com/akolanti/FAQBot/internal/metrics"
)

// HandleFeedback processes a satisfied/report button. The button press is
// always acknowledged so the client stops its spinner.
func (b *Bot) HandleFeedback(ctx context.Context, event queryModel.Event) error {
	log := b.logger.FromContext(ctx)
	defer func() {
		if event.CallbackId == "" {
			return
		}
		ackCtx, cancel := replyContext(ctx)
		defer cancel()
		if err := b.transport.AcknowledgeButton(ackCtx, event.CallbackId); err != nil {
			log.Warn("Could not acknowledge button", "error", err)
		}
	}()

	entry, found := b.sessions.Consume(event.User.Id)
	metrics.RecordFeedback(string(event.Action), found)

	switch event.Action {
	case queryModel.ActionSatisfied:
		if found {
			b.persist(ctx, "counters", func() error { return b.ledger.IncrementSatisfied(ctx) })
		}
		return b.closeFeedback(ctx, event, config.SatisfiedReply)

	case queryModel.ActionReport:
		if !found {
			log.Info("Report without a previous answer, ignoring")
			return nil
		}
		b.persist(ctx, "report", func() error {
			return b.ledger.AppendReport(ctx, event.User, entry.Question, entry.Answer)
		})
		return b.closeFeedback(ctx, event, config.ReportReply)

	default:
		log.Warn("Unknown feedback action", "action", event.Action)
		return nil
	}
}

func (b *Bot) closeFeedback(ctx context.Context, event queryModel.Event, reply string) error {
	replyCtx, cancel := replyContext(ctx)
	defer cancel()
	if event.MessageId != 0 {
		if err := b.transport.RemoveButtons(replyCtx, event.ChatId, event.MessageId); err != nil {
			b.logger.FromContext(ctx).Warn("Could not remove buttons", "error", err)
		}
	}
	if _, err := b.transport.SendReply(replyCtx, event.ChatId, reply, false); err != nil {
		return fmt.Errorf("send feedback reply: %w", err)
	}
	return nil
}
