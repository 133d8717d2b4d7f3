package store

import (
	"sync"

	"github.com/akolanti/FAQBot/internal/domain/queryModel"
)

// InMemorySessionStore keeps the last question/answer per user for the
// lifetime of the process.
type InMemorySessionStore struct {
	sessionMutex *sync.RWMutex
	sessionMap   map[int64]queryModel.SessionEntry
}

func InitInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		sessionMutex: new(sync.RWMutex),
		sessionMap:   make(map[int64]queryModel.SessionEntry),
	}
}

func (store *InMemorySessionStore) Record(userId int64, question string, answer string) {
	store.sessionMutex.Lock()
	defer store.sessionMutex.Unlock()
	store.sessionMap[userId] = queryModel.SessionEntry{Question: question, Answer: answer}
}

// Consume reads without removing: a user may press both buttons.
func (store *InMemorySessionStore) Consume(userId int64) (queryModel.SessionEntry, bool) {
	store.sessionMutex.RLock()
	defer store.sessionMutex.RUnlock()
	result, found := store.sessionMap[userId]
	return result, found
}
