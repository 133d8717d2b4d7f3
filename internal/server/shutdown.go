package server

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/akolanti/FAQBot/internal/config"
	"github.com/akolanti/FAQBot/pkg/logger_i"
)

var ErrForcedShutdown = errors.New("shutdown timed out")

type Stopper interface {
	Stop()
}

type Closer interface {
	Close()
}

// ShutdownParams lists what ShutDownHandler tears down. Nil fields are
// skipped.
type ShutdownParams struct {
	Server        *Server
	EventQueue    Closer
	Workers       Stopper
	Ledger        io.Closer
	CloseServices context.CancelFunc
	Timeout       time.Duration
}

// ShutDownHandler waits for ctx and then stops, in order: the status server,
// the event queue, the worker pool (which drains queued events), the ledger
// and finally the shared service context.
func ShutDownHandler(ctx context.Context, params ShutdownParams) error {
	logger := logger_i.NewLogger("shutdown")
	<-ctx.Done()
	logger.Info("Server is shutting down")

	timeout := params.Timeout
	if timeout <= 0 {
		timeout = config.ShutdownContextTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if params.Server != nil {
			if err := params.Server.Shutdown(shutdownCtx); err != nil {
				logger.Error("Could not shutdown gracefully", "error", err)
			}
		}
		if params.EventQueue != nil {
			params.EventQueue.Close()
		}
		if params.Workers != nil {
			params.Workers.Stop()
		}
		if params.Ledger != nil {
			if err := params.Ledger.Close(); err != nil {
				logger.Warn("Ledger close failed", "error", err)
			}
		}
		if params.CloseServices != nil {
			params.CloseServices()
		}
	}()

	select {
	case <-done:
		logger.Info("Gracefully shut down")
		return nil
	case <-shutdownCtx.Done():
		logger.Error("Force shut down")
		return ErrForcedShutdown
	}
}
