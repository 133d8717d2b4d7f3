package rag_test

import (
	"context"
	"sync"

	"github.com/akolanti/FAQBot/internal/rag/llm"
)

// MockClassifier implements classifier.RelatednessClassifier and records the
// documents it was asked about.
type MockClassifier struct {
	OnIsRelated func(ctx context.Context, query string, documentText string) bool

	mu    sync.Mutex
	Calls []string
}

func (m *MockClassifier) IsRelated(ctx context.Context, query string, documentText string) bool {
	m.mu.Lock()
	m.Calls = append(m.Calls, documentText)
	m.mu.Unlock()
	if m.OnIsRelated != nil {
		return m.OnIsRelated(ctx, query, documentText)
	}
	return false
}

// MockComposer implements composer.AnswerComposer
type MockComposer struct {
	OnComposeGrounded func(ctx context.Context, query string, contextText string) (string, error)
	OnComposeOpen     func(ctx context.Context, query string) (string, error)

	GroundedContexts []string
	OpenCalls        int
}

func (m *MockComposer) ComposeGrounded(ctx context.Context, query string, contextText string) (string, error) {
	m.GroundedContexts = append(m.GroundedContexts, contextText)
	if m.OnComposeGrounded != nil {
		return m.OnComposeGrounded(ctx, query, contextText)
	}
	return "grounded: " + contextText, nil
}

func (m *MockComposer) ComposeOpen(ctx context.Context, query string) (string, error) {
	m.OpenCalls++
	if m.OnComposeOpen != nil {
		return m.OnComposeOpen(ctx, query)
	}
	return "open answer", nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnComplete func(ctx context.Context, messages []llm.Message) (string, error)
}

func (m *MockLLM) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	if m.OnComplete != nil {
		return m.OnComplete(ctx, messages)
	}
	return "mocked llm response", nil
}

func (m *MockLLM) ModelName() string { return "mock" }
