package queryModel

import (
	"context"
	"fmt"
	"time"
)

type EventKind string
type Role string
type FeedbackAction string

const (
	EventMessage EventKind = "Message"
	EventButton  EventKind = "Button"
	EventCommand EventKind = "Command"

	RoleUser Role = "user"
	RoleBot  Role = "bot"

	ActionSatisfied FeedbackAction = "satisfied"
	ActionReport    FeedbackAction = "report"

	CommandStart = "start"
)

type User struct {
	Id          int64  `json:"id"`
	DisplayName string `json:"display_name"`
	Handle      string `json:"handle"`
}

// Event is one inbound transport event.
type Event struct {
	Kind       EventKind      `json:"kind"`
	TraceId    string         `json:"trace_id"`
	User       User           `json:"user"`
	ChatId     int64          `json:"chat_id"`
	Text       string         `json:"text,omitempty"`
	Command    string         `json:"command,omitempty"`
	Action     FeedbackAction `json:"action,omitempty"`
	MessageId  int64          `json:"message_id,omitempty"`
	CallbackId string         `json:"callback_id,omitempty"`
	ReceivedAt time.Time      `json:"received_at"`
}

// QueryEvent is the outcome of routing one question.
type QueryEvent struct {
	User           User      `json:"user"`
	TraceId        string    `json:"trace_id"`
	Question       string    `json:"question"`
	Answer         string    `json:"answer"`
	Grounded       bool      `json:"grounded"`
	SourceDocument string    `json:"source_document,omitempty"`
	Failed         bool      `json:"failed"`
	Timestamp      time.Time `json:"timestamp"`
}

type SessionEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type UserProfile struct {
	UserId      int64     `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Handle      string    `json:"handle"`
	FirstSeen   time.Time `json:"first_seen"`
	LastSeen    time.Time `json:"last_seen"`
	QueryCount  int64     `json:"query_count"`
}

type Counters struct {
	Responses int64 `json:"responses"`
	Satisfied int64 `json:"satisfied"`
}

type TranscriptEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Role      Role      `json:"role"`
	Message   string    `json:"message"`
}

type ReportRecord struct {
	Timestamp time.Time `json:"timestamp"`
	User      User      `json:"user"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
}

// SessionStore remembers the last exchange per user for feedback actions.
type SessionStore interface {
	Record(userId int64, question string, answer string)
	Consume(userId int64) (SessionEntry, bool)
}

// Ledger is the durable record store. Every method is atomic on its own; no
// transaction spans two calls.
type Ledger interface {
	IncrementResponses(ctx context.Context) error
	IncrementSatisfied(ctx context.Context) error
	UpsertUserProfile(ctx context.Context, user User) error
	AppendTranscript(ctx context.Context, userId int64, role Role, message string) error
	AppendReport(ctx context.Context, user User, question string, answer string) error

	Counters(ctx context.Context) (Counters, error)
	Profile(ctx context.Context, userId int64) (UserProfile, bool, error)
	Transcript(ctx context.Context, userId int64) ([]TranscriptEntry, error)
	Reports(ctx context.Context) ([]ReportRecord, error)
	Close() error
}

// PersistenceError reports a failed ledger write or read.
type PersistenceError struct {
	Record string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Record, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// WrapPersistence returns nil for a nil err.
func WrapPersistence(record string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Record: record, Err: err}
}
