package llm

import (
	"context"
	"errors"
	"fmt"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Provider is the completion oracle: role-tagged messages in, text out.
type Provider interface {
	Complete(ctx context.Context, messages []Message) (string, error)
	ModelName() string
}

// CompletionError is the single error surfaced for any oracle failure.
type CompletionError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *CompletionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s completion failed (status %d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s completion failed: %v", e.Provider, e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

var ErrEmptyCompletion = errors.New("oracle returned no content")

// AsCompletionError wraps err unless it already is a *CompletionError.
func AsCompletionError(provider string, err error) error {
	if err == nil {
		return nil
	}
	var ce *CompletionError
	if errors.As(err, &ce) {
		return err
	}
	return &CompletionError{Provider: provider, Err: err}
}
