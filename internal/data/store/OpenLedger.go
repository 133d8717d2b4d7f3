package store

import (
	"context"

	"github.com/akolanti/FAQBot/internal/config"
	"github.com/akolanti/FAQBot/internal/domain/queryModel"
	"github.com/akolanti/FAQBot/pkg/logger_i"
)

// OpenLedger selects the ledger backend. An unreachable Redis falls back to
// the file ledger so the bot keeps recording.
func OpenLedger(ctx context.Context, backend string, dataDir string, redisAddr string) (queryModel.Ledger, error) {
	logger := logger_i.NewLogger("ledger")
	if backend == config.LedgerBackendRedis {
		ledger, err := GetRedisLedger(ctx, redisAddr)
		if err == nil {
			return ledger, nil
		}
		logger.Warn("Redis ledger unavailable, falling back to file ledger", "error", err, "dir", dataDir)
	}
	return NewFileLedger(dataDir)
}
