package bot

import (
	"context"
	"time"

	"github.com/akolanti/FAQBot/internal/config"
	"github.com/akolanti/FAQBot/internal/domain/commonModels"
	"github.com/akolanti/FAQBot/internal/domain/queryModel"
	"github.com/akolanti/FAQBot/internal/rag"
	"github.com/akolanti/FAQBot/internal/transport"
	"github.com/akolanti/FAQBot/pkg/logger_i"
)

// ChatRecorder receives every answered interaction for the status page.
type ChatRecorder interface {
	Append(ts time.Time, userId int64, question string, answer string)
}

type Dependencies struct {
	Router    rag.Service
	Corpus    commonModels.Corpus
	Sessions  queryModel.SessionStore
	Ledger    queryModel.Ledger
	Transport transport.Transport
	ChatLog   ChatRecorder
}

// Bot turns inbound events into routed answers, ledger records and replies.
type Bot struct {
	router    rag.Service
	corpus    commonModels.Corpus
	sessions  queryModel.SessionStore
	ledger    queryModel.Ledger
	transport transport.Transport
	chatLog   ChatRecorder
	now       func() time.Time
	logger    *logger_i.Logger
}

func New(deps Dependencies) *Bot {
	return &Bot{
		router:    deps.Router,
		corpus:    deps.Corpus,
		sessions:  deps.Sessions,
		ledger:    deps.Ledger,
		transport: deps.Transport,
		chatLog:   deps.ChatLog,
		now:       time.Now,
		logger:    logger_i.NewLogger("bot"),
	}
}

// HandleEvent is the worker pool entry point. Errors are logged here; the
// worker has nobody to return them to.
func (b *Bot) HandleEvent(ctx context.Context, event queryModel.Event) {
	log := b.logger.FromContext(ctx)
	var err error
	switch event.Kind {
	case queryModel.EventMessage:
		_, err = b.HandleMessage(ctx, event)
	case queryModel.EventButton:
		err = b.HandleFeedback(ctx, event)
	case queryModel.EventCommand:
		err = b.HandleCommand(ctx, event)
	default:
		log.Warn("Unknown event kind", "kind", event.Kind)
		return
	}
	if err != nil {
		log.Error("Event handling failed", "kind", event.Kind, "error", err)
	}
}

func (b *Bot) HandleCommand(ctx context.Context, event queryModel.Event) error {
	if event.Command != queryModel.CommandStart {
		b.logger.FromContext(ctx).Debug("Ignoring command", "command", event.Command)
		return nil
	}
	replyCtx, cancel := replyContext(ctx)
	defer cancel()
	_, err := b.transport.SendReply(replyCtx, event.ChatId, config.WelcomeMessage, false)
	return err
}

// replyContext keeps the trace values of ctx but none of its cancellation,
// so an answer that took long to compose is still delivered.
func replyContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), config.ReplyTimeout)
}
