package redisStore

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/akolanti/FAQBot/internal/config"
	"github.com/akolanti/FAQBot/pkg/logger_i"
	"github.com/redis/go-redis/v9"
)

var (
	instances = make(map[int]*Store)
	mu        sync.RWMutex
	logger    *logger_i.Logger
	once      sync.Once
)

type Store struct {
	client *redis.Client
	Type   int
}

// GetRedisStore returns the shared store for DBType, connecting on first use.
// addr is either host:port or a redis:// URL.
func GetRedisStore(ctx context.Context, addr string, DBType int) (*Store, error) {
	mu.RLock()
	instance, exists := instances[DBType]
	mu.RUnlock()

	if exists {
		return instance, nil
	}

	mu.Lock()
	defer mu.Unlock()

	if instance, exists = instances[DBType]; exists {
		return instance, nil
	}
	return createNewStore(ctx, addr, DBType)
}

func initLogger() {
	if logger == nil {
		logger = logger_i.NewLogger("redis_store")
	}
}

func closeRedisStores(ctx context.Context) {
	<-ctx.Done()
	logger.Info("Closing Redis Stores")
	mu.Lock()
	defer mu.Unlock()
	for dbType, store := range instances {
		err := store.client.Close()
		if err != nil {
			logger.Error("Error closing redis client", "error", err)
		}
		delete(instances, dbType)
	}
	logger.Info("Redis Store Closed successfully")
}

func clientOptions(addr string, dbType int) (*redis.Options, error) {
	if addr == "" {
		addr = config.RedisAddr
	}
	opts := &redis.Options{Addr: addr}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	} else {
		opts.DB = dbType
	}
	opts.ContextTimeoutEnabled = true
	opts.ReadTimeout = 30 * time.Second
	opts.WriteTimeout = 30 * time.Second
	return opts, nil
}

func createNewStore(ctx context.Context, addr string, dbType int) (*Store, error) {
	initLogger()

	opts, err := clientOptions(addr, dbType)
	if err != nil {
		return nil, err
	}
	newClient := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := newClient.Ping(pingCtx).Err(); err != nil {
		logger.Error("Redis is offline", "addr", opts.Addr, "error", err)
		_ = newClient.Close()
		return nil, fmt.Errorf("redis offline at %s: %w", opts.Addr, err)
	}

	logger.Info("Redis store init successfully", "addr", opts.Addr, "db", opts.DB)

	newStore := &Store{
		client: newClient,
		Type:   dbType,
	}

	instances[dbType] = newStore
	once.Do(func() {
		go closeRedisStores(ctx)
	})
	return newStore, nil
}

// Close releases the client and forgets the shared instance.
func (s *Store) Close() error {
	mu.Lock()
	if instances[s.Type] == s {
		delete(instances, s.Type)
	}
	mu.Unlock()
	return s.client.Close()
}

// NewTestStore wraps an existing client, used with miniredis.
func NewTestStore(client *redis.Client) *Store {
	return &Store{
		client: client,
		Type:   -1,
	}
}
