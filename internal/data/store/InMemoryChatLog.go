package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/akolanti/FAQBot/internal/config"
)

// InMemoryChatLog is a fixed size ring of the most recent interactions shown
// on the status page.
type InMemoryChatLog struct {
	mu      sync.RWMutex
	entries []string
	next    int
	full    bool
}

func InitInMemoryChatLog(capacity int) *InMemoryChatLog {
	if capacity <= 0 {
		capacity = config.ChatLogCapacity
	}
	return &InMemoryChatLog{entries: make([]string, capacity)}
}

func FormatChatLogEntry(ts time.Time, userId int64, question string, answer string) string {
	return fmt.Sprintf("[%s] %d: %s\n➡️ %s\n", ts.Format(time.DateTime), userId, question, answer)
}

func (l *InMemoryChatLog) Append(ts time.Time, userId int64, question string, answer string) {
	entry := FormatChatLogEntry(ts, userId, question, answer)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[l.next] = entry
	l.next = (l.next + 1) % len(l.entries)
	if l.next == 0 {
		l.full = true
	}
}

// Entries returns the log oldest first.
func (l *InMemoryChatLog) Entries() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.full {
		return append([]string(nil), l.entries[:l.next]...)
	}
	out := make([]string, 0, len(l.entries))
	out = append(out, l.entries[l.next:]...)
	return append(out, l.entries[:l.next]...)
}

func (l *InMemoryChatLog) Last() (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.full && l.next == 0 {
		return "", false
	}
	idx := (l.next - 1 + len(l.entries)) % len(l.entries)
	return l.entries[idx], true
}
