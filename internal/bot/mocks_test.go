package bot

import (
	"context"
	"sync"

	"github.com/akolanti/FAQBot/internal/domain/commonModels"
	"github.com/akolanti/FAQBot/internal/rag"
)

type sentReply struct {
	ChatId       int64
	Text         string
	WithFeedback bool
}

// MockTransport records every outbound call
type MockTransport struct {
	OnSendReply func(ctx context.Context, chatId int64, text string, withFeedback bool) (int64, error)

	mu      sync.Mutex
	Replies []sentReply
	Removed []int64
	Acked   []string
}

func (m *MockTransport) SendReply(ctx context.Context, chatId int64, text string, withFeedback bool) (int64, error) {
	m.mu.Lock()
	m.Replies = append(m.Replies, sentReply{ChatId: chatId, Text: text, WithFeedback: withFeedback})
	m.mu.Unlock()
	if m.OnSendReply != nil {
		return m.OnSendReply(ctx, chatId, text, withFeedback)
	}
	return 100, nil
}

func (m *MockTransport) RemoveButtons(ctx context.Context, chatId int64, messageId int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Removed = append(m.Removed, messageId)
	return nil
}

func (m *MockTransport) AcknowledgeButton(ctx context.Context, callbackId string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Acked = append(m.Acked, callbackId)
	return nil
}

// MockRouter implements rag.Service
type MockRouter struct {
	OnRoute func(ctx context.Context, query string, corpus commonModels.Corpus) (rag.Answer, error)
}

func (m *MockRouter) Route(ctx context.Context, query string, corpus commonModels.Corpus) (rag.Answer, error) {
	if m.OnRoute != nil {
		return m.OnRoute(ctx, query, corpus)
	}
	return rag.Answer{Text: "mocked answer"}, nil
}
