package store

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/akolanti/FAQBot/internal/config"
	"github.com/akolanti/FAQBot/internal/data/redisStore"
	"github.com/akolanti/FAQBot/internal/domain/queryModel"
	"github.com/akolanti/FAQBot/pkg/logger_i"
	"github.com/redis/go-redis/v9"
)

const (
	fieldResponses = "responses"
	fieldSatisfied = "satisfied"

	fieldDisplayName = "display_name"
	fieldHandle      = "handle"
	fieldFirstSeen   = "first_seen"
	fieldLastSeen    = "last_seen"
	fieldQueryCount  = "query_count"
)

// RedisLedger relies on single-key server side operations for atomicity; the
// profile update runs in one MULTI/EXEC.
type RedisLedger struct {
	store  *redisStore.Store
	prefix string
	now    func() time.Time
	logger *logger_i.Logger
}

func GetRedisLedger(ctx context.Context, addr string) (*RedisLedger, error) {
	s, err := redisStore.GetRedisStore(ctx, addr, config.RedisLedgerDB)
	if err != nil {
		return nil, err
	}
	return NewRedisLedger(s, config.RedisKeyPrefix), nil
}

func NewRedisLedger(store *redisStore.Store, prefix string) *RedisLedger {
	if prefix == "" {
		prefix = config.RedisKeyPrefix
	}
	return &RedisLedger{
		store:  store,
		prefix: prefix,
		now:    time.Now,
		logger: logger_i.NewLogger("redis_ledger"),
	}
}

func (s *RedisLedger) countersKey() string {
	return s.prefix + ":counters"
}

func (s *RedisLedger) usersKey() string {
	return s.prefix + ":users"
}

func (s *RedisLedger) userKey(userId int64) string {
	return s.prefix + ":user:" + strconv.FormatInt(userId, 10)
}

func (s *RedisLedger) transcriptKey(userId int64) string {
	return s.prefix + ":transcript:" + strconv.FormatInt(userId, 10)
}

func (s *RedisLedger) reportsKey() string {
	return s.prefix + ":reports"
}

func (s *RedisLedger) IncrementResponses(ctx context.Context) error {
	_, err := s.store.HIncrBy(ctx, s.countersKey(), fieldResponses, 1)
	return queryModel.WrapPersistence(recordCounters, err)
}

func (s *RedisLedger) IncrementSatisfied(ctx context.Context) error {
	_, err := s.store.HIncrBy(ctx, s.countersKey(), fieldSatisfied, 1)
	return queryModel.WrapPersistence(recordCounters, err)
}

func (s *RedisLedger) Counters(ctx context.Context) (queryModel.Counters, error) {
	var c queryModel.Counters
	values, err := s.store.HGetAll(ctx, s.countersKey())
	if err != nil {
		return c, queryModel.WrapPersistence(recordCounters, err)
	}
	c.Responses, _ = strconv.ParseInt(values[fieldResponses], 10, 64)
	c.Satisfied, _ = strconv.ParseInt(values[fieldSatisfied], 10, 64)
	return c, nil
}

func (s *RedisLedger) UpsertUserProfile(ctx context.Context, user queryModel.User) error {
	log := s.logger.FromContext(ctx)
	now := s.now().UTC().Format(time.RFC3339Nano)
	key := s.userKey(user.Id)

	err := s.store.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSetNX(ctx, key, fieldFirstSeen, now)
		pipe.HSet(ctx, key, fieldDisplayName, user.DisplayName, fieldHandle, user.Handle, fieldLastSeen, now)
		pipe.HIncrBy(ctx, key, fieldQueryCount, 1)
		pipe.SAdd(ctx, s.usersKey(), user.Id)
		return nil
	})
	if err != nil {
		log.Error("Failed to upsert profile", "error", err)
	}
	return queryModel.WrapPersistence(recordProfile, err)
}

func (s *RedisLedger) Profile(ctx context.Context, userId int64) (queryModel.UserProfile, bool, error) {
	p := queryModel.UserProfile{UserId: userId}
	values, err := s.store.HGetAll(ctx, s.userKey(userId))
	if err != nil {
		return p, false, queryModel.WrapPersistence(recordProfile, err)
	}
	if len(values) == 0 {
		return p, false, nil
	}
	p.DisplayName = values[fieldDisplayName]
	p.Handle = values[fieldHandle]
	p.FirstSeen, _ = time.Parse(time.RFC3339Nano, values[fieldFirstSeen])
	p.LastSeen, _ = time.Parse(time.RFC3339Nano, values[fieldLastSeen])
	p.QueryCount, _ = strconv.ParseInt(values[fieldQueryCount], 10, 64)
	return p, true, nil
}

func (s *RedisLedger) AppendTranscript(ctx context.Context, userId int64, role queryModel.Role, message string) error {
	data, err := json.Marshal(queryModel.TranscriptEntry{Timestamp: s.now(), Role: role, Message: message})
	if err != nil {
		return queryModel.WrapPersistence(recordTranscript, err)
	}
	return queryModel.WrapPersistence(recordTranscript, s.store.ListPush(ctx, s.transcriptKey(userId), data))
}

func (s *RedisLedger) Transcript(ctx context.Context, userId int64) ([]queryModel.TranscriptEntry, error) {
	raw, err := s.store.ListGetAll(ctx, s.transcriptKey(userId))
	if err != nil {
		return nil, queryModel.WrapPersistence(recordTranscript, err)
	}
	entries := make([]queryModel.TranscriptEntry, 0, len(raw))
	for _, r := range raw {
		var e queryModel.TranscriptEntry
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			s.logger.Warn("Skipping malformed transcript entry", "userId", userId, "error", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *RedisLedger) AppendReport(ctx context.Context, user queryModel.User, question string, answer string) error {
	data, err := json.Marshal(queryModel.ReportRecord{Timestamp: s.now(), User: user, Question: question, Answer: answer})
	if err != nil {
		return queryModel.WrapPersistence(recordReport, err)
	}
	return queryModel.WrapPersistence(recordReport, s.store.ListPush(ctx, s.reportsKey(), data))
}

func (s *RedisLedger) Reports(ctx context.Context) ([]queryModel.ReportRecord, error) {
	raw, err := s.store.ListGetAll(ctx, s.reportsKey())
	if err != nil {
		return nil, queryModel.WrapPersistence(recordReport, err)
	}
	reports := make([]queryModel.ReportRecord, 0, len(raw))
	for _, r := range raw {
		var rec queryModel.ReportRecord
		if err := json.Unmarshal([]byte(r), &rec); err != nil {
			s.logger.Warn("Skipping malformed report entry", "error", err)
			continue
		}
		reports = append(reports, rec)
	}
	return reports, nil
}

func (s *RedisLedger) Close() error {
	return s.store.Close()
}

// Ping reports whether the backing Redis is reachable.
func (s *RedisLedger) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
