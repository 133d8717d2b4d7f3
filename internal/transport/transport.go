package transport

import (
	"context"

	"github.com/akolanti/FAQBot/internal/domain/queryModel"
)

// Transport is the outbound side of a chat channel.
type Transport interface {
	// SendReply posts text to the chat and returns the new message id. With
	// withFeedback the satisfied/report buttons are attached.
	SendReply(ctx context.Context, chatId int64, text string, withFeedback bool) (int64, error)
	RemoveButtons(ctx context.Context, chatId int64, messageId int64) error
	AcknowledgeButton(ctx context.Context, callbackId string) error
}

// SubmitFunc hands one inbound event to the queue.
type SubmitFunc func(ctx context.Context, event queryModel.Event) error

// Listener receives inbound events until ctx is cancelled or the connection
// fails.
type Listener interface {
	Listen(ctx context.Context, submit SubmitFunc) error
}
