package store_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/akolanti/FAQBot/internal/config"
	"github.com/akolanti/FAQBot/internal/data/redisStore"
	"github.com/akolanti/FAQBot/internal/data/store"
	"github.com/akolanti/FAQBot/internal/domain/queryModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLedger(t *testing.T) *store.RedisLedger {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return store.NewRedisLedger(redisStore.NewTestStore(client), "test")
}

func newFileLedger(t *testing.T) *store.FileLedger {
	t.Helper()
	l, err := store.NewFileLedger(t.TempDir())
	require.NoError(t, err)
	return l
}

// ledgers runs fn against both backends.
func ledgers(t *testing.T, fn func(t *testing.T, l queryModel.Ledger)) {
	t.Run("file", func(t *testing.T) { fn(t, newFileLedger(t)) })
	t.Run("redis", func(t *testing.T) { fn(t, newRedisLedger(t)) })
}

func testCtx() context.Context {
	return context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
}

func TestLedger_ConcurrentIncrements(t *testing.T) {
	ledgers(t, func(t *testing.T, l queryModel.Ledger) {
		ctx := testCtx()
		const n = 50

		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, l.IncrementResponses(ctx))
				if i%2 == 0 {
					assert.NoError(t, l.IncrementSatisfied(ctx))
				}
			}()
		}
		wg.Wait()

		c, err := l.Counters(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(n), c.Responses)
		assert.Equal(t, int64(n/2), c.Satisfied)
	})
}

func TestLedger_ConcurrentUpsertsSameUser(t *testing.T) {
	ledgers(t, func(t *testing.T, l queryModel.Ledger) {
		ctx := testCtx()
		const n = 30

		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, l.UpsertUserProfile(ctx, queryModel.User{Id: 42, DisplayName: "Asha", Handle: "asha"}))
			}()
		}
		wg.Wait()

		p, found, err := l.Profile(ctx, 42)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, int64(n), p.QueryCount)
		assert.Equal(t, "Asha", p.DisplayName)
		assert.False(t, p.LastSeen.Before(p.FirstSeen))
	})
}

func TestLedger_ProfileUpdatesNameAndHandle(t *testing.T) {
	ledgers(t, func(t *testing.T, l queryModel.Ledger) {
		ctx := testCtx()
		require.NoError(t, l.UpsertUserProfile(ctx, queryModel.User{Id: 7, DisplayName: "Old|Name", Handle: "old"}))
		require.NoError(t, l.UpsertUserProfile(ctx, queryModel.User{Id: 8, DisplayName: "Other"}))
		require.NoError(t, l.UpsertUserProfile(ctx, queryModel.User{Id: 7, DisplayName: "New Name", Handle: "new"}))

		p, found, err := l.Profile(ctx, 7)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "New Name", p.DisplayName)
		assert.Equal(t, "new", p.Handle)
		assert.Equal(t, int64(2), p.QueryCount)

		_, found, err = l.Profile(ctx, 99)
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestLedger_TranscriptKeepsCallOrder(t *testing.T) {
	ledgers(t, func(t *testing.T, l queryModel.Ledger) {
		ctx := testCtx()
		msgs := []struct {
			role queryModel.Role
			text string
		}{
			{queryModel.RoleUser, "What is the leave policy?"},
			{queryModel.RoleBot, "20 days.\nAsk HR for details \\ forms."},
			{queryModel.RoleUser, "Thanks"},
		}
		for _, m := range msgs {
			require.NoError(t, l.AppendTranscript(ctx, 5, m.role, m.text))
		}
		require.NoError(t, l.AppendTranscript(ctx, 6, queryModel.RoleUser, "other user"))

		entries, err := l.Transcript(ctx, 5)
		require.NoError(t, err)
		require.Len(t, entries, len(msgs))
		for i, m := range msgs {
			assert.Equal(t, m.role, entries[i].Role)
			assert.Equal(t, m.text, entries[i].Message)
		}
	})
}

func TestLedger_ConcurrentTranscriptsPerUser(t *testing.T) {
	ledgers(t, func(t *testing.T, l queryModel.Ledger) {
		ctx := testCtx()
		var wg sync.WaitGroup
		for u := int64(1); u <= 4; u++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 20; i++ {
					assert.NoError(t, l.AppendTranscript(ctx, u, queryModel.RoleUser, fmt.Sprintf("msg-%d", i)))
				}
			}()
		}
		wg.Wait()

		for u := int64(1); u <= 4; u++ {
			entries, err := l.Transcript(ctx, u)
			require.NoError(t, err)
			require.Len(t, entries, 20)
			for i, e := range entries {
				assert.Equal(t, fmt.Sprintf("msg-%d", i), e.Message)
			}
		}
	})
}

func TestLedger_Reports(t *testing.T) {
	ledgers(t, func(t *testing.T, l queryModel.Ledger) {
		ctx := testCtx()
		user := queryModel.User{Id: 11, DisplayName: "Ravi", Handle: "ravi"}
		require.NoError(t, l.AppendReport(ctx, user, "Where is payroll?", "I don't know.\nContact HR"))
		require.NoError(t, l.AppendReport(ctx, user, "second", "answer"))

		reports, err := l.Reports(ctx)
		require.NoError(t, err)
		require.Len(t, reports, 2)
		assert.Equal(t, user, reports[0].User)
		assert.Equal(t, "Where is payroll?", reports[0].Question)
		assert.Equal(t, "I don't know.\nContact HR", reports[0].Answer)
		assert.Equal(t, "second", reports[1].Question)
	})
}

func TestFileLedger_Layout(t *testing.T) {
	dir := t.TempDir()
	l, err := store.NewFileLedger(dir)
	require.NoError(t, err)
	ctx := testCtx()

	require.NoError(t, l.IncrementResponses(ctx))
	require.NoError(t, l.IncrementResponses(ctx))
	require.NoError(t, l.IncrementSatisfied(ctx))
	require.NoError(t, l.AppendTranscript(ctx, 3, queryModel.RoleUser, "hi"))
	require.NoError(t, l.AppendReport(ctx, queryModel.User{Id: 3, DisplayName: "A", Handle: "a"}, "q", "a"))

	counters, err := os.ReadFile(filepath.Join(dir, "counters.txt"))
	require.NoError(t, err)
	assert.Equal(t, "2\n1\n", string(counters))

	transcript, err := os.ReadFile(filepath.Join(dir, "transcripts", "3.txt"))
	require.NoError(t, err)
	assert.Regexp(t, `^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] User: hi\n$`, string(transcript))

	report, err := os.ReadFile(filepath.Join(dir, "report.txt"))
	require.NoError(t, err)
	assert.Regexp(t, `^\[[^\]]+\] 3\|A\|a\nQuery: q\nAnswer: a\n---\n$`, string(report))
}

func TestFileLedger_UnwritableDirReturnsPersistenceError(t *testing.T) {
	dir := t.TempDir()
	l, err := store.NewFileLedger(dir)
	require.NoError(t, err)

	// a directory where the counters file should be makes every rewrite fail
	require.NoError(t, os.Mkdir(filepath.Join(dir, "counters.txt"), 0o755))

	err = l.IncrementResponses(testCtx())
	var pe *queryModel.PersistenceError
	require.True(t, errors.As(err, &pe), "expected PersistenceError, got %v", err)
	assert.Equal(t, "counters", pe.Record)
}

func TestRedisLedger_Keys(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	l := store.NewRedisLedger(redisStore.NewTestStore(client), "faqbot")
	ctx := testCtx()

	require.NoError(t, l.IncrementResponses(ctx))
	require.NoError(t, l.UpsertUserProfile(ctx, queryModel.User{Id: 9, DisplayName: "N"}))
	require.NoError(t, l.AppendTranscript(ctx, 9, queryModel.RoleBot, "x"))

	assert.Equal(t, "1", mr.HGet("faqbot:counters", "responses"))
	assert.Equal(t, "1", mr.HGet("faqbot:user:9", "query_count"))
	ok, err := mr.SIsMember("faqbot:users", "9")
	require.NoError(t, err)
	assert.True(t, ok)
	list, err := mr.List("faqbot:transcript:9")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRedisLedger_ErrorsArePersistenceErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	l := store.NewRedisLedger(redisStore.NewTestStore(client), "faqbot")
	mr.Close()

	err := l.IncrementResponses(testCtx())
	var pe *queryModel.PersistenceError
	assert.True(t, errors.As(err, &pe), "expected PersistenceError, got %v", err)
}

func TestOpenLedger_FallsBackToFile(t *testing.T) {
	dir := t.TempDir()
	l, err := store.OpenLedger(context.Background(), config.LedgerBackendRedis, dir, "127.0.0.1:1")
	require.NoError(t, err)
	_, isFile := l.(*store.FileLedger)
	assert.True(t, isFile)
}
