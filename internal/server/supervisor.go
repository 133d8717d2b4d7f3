package server

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/akolanti/FAQBot/internal/config"
	"github.com/akolanti/FAQBot/pkg/logger_i"
)

// Supervise runs run until ctx is cancelled. When run returns an error, panics
// or returns early, it is restarted after delay. Supervise returns ctx.Err().
func Supervise(ctx context.Context, name string, delay time.Duration, run func(ctx context.Context) error) error {
	logger := logger_i.NewLogger("supervisor").With("task", name)
	if delay <= 0 {
		delay = config.RestartDelay
	}

	for attempt := 1; ; attempt++ {
		err := runProtected(ctx, run)
		if ctx.Err() != nil {
			logger.Info("Stopped")
			return ctx.Err()
		}
		if err != nil {
			logger.Error("Task failed, restarting", "attempt", attempt, "delay", delay, "error", err)
		} else {
			logger.Warn("Task returned early, restarting", "attempt", attempt, "delay", delay)
		}

		select {
		case <-ctx.Done():
			logger.Info("Stopped")
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

func runProtected(ctx context.Context, run func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return run(ctx)
}
