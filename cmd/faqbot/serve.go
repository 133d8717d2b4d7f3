package main

import (
	"context"
	"errors"
	"time"

	"github.com/akolanti/FAQBot/internal/bot"
	"github.com/akolanti/FAQBot/internal/config"
	"github.com/akolanti/FAQBot/internal/customHttpClient"
	"github.com/akolanti/FAQBot/internal/data/store"
	"github.com/akolanti/FAQBot/internal/handlers"
	"github.com/akolanti/FAQBot/internal/job"
	"github.com/akolanti/FAQBot/internal/middleware"
	"github.com/akolanti/FAQBot/internal/server"
	"github.com/akolanti/FAQBot/internal/transport/telegram"
	"github.com/akolanti/FAQBot/internal/worker"
	"github.com/akolanti/FAQBot/pkg/logger_i"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// long poll plus headroom for the response
const telegramClientTimeout = (config.TelegramPollTimeoutSeconds + 10) * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot and the status page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts.settings)
		},
	}
}

// runServe blocks until ctx is cancelled (SIGINT/SIGTERM) or a component
// fails.
func runServe(ctx context.Context, s config.Settings) error {
	logger := logger_i.NewLogger("main")
	if s.TelegramToken == "" {
		return errors.New("telegram token is not configured (TELEGRAM_TOKEN or key file line 2)")
	}

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	provider, err := newProvider(serviceContext, s)
	if err != nil {
		return err
	}
	corpus, _ := loadCorpus(ctx, s)

	ledger, err := store.OpenLedger(serviceContext, s.LedgerBackend, s.DataDir, s.RedisAddr)
	if err != nil {
		return err
	}

	tg, err := telegram.NewClient(s.TelegramToken, customHttpClient.GetPooledClient(telegramClientTimeout))
	if err != nil {
		_ = ledger.Close()
		return err
	}

	chatLog := store.InitInMemoryChatLog(config.ChatLogCapacity)
	b := bot.New(bot.Dependencies{
		Router:    newRouter(provider, s),
		Corpus:    corpus,
		Sessions:  store.InitInMemorySessionStore(),
		Ledger:    ledger,
		Transport: tg,
		ChatLog:   chatLog,
	})

	logger.Info("Starting job service")
	jobService := job.InitJobService(job.ServiceConfig{})
	pool := worker.NewPool(jobService, b, worker.DefaultConfig())
	pool.Start()

	limiter := middleware.NewStatusPageLimiter()
	statusServer := server.CreateServer(s.StatusAddr, handlers.NewStatusHandler(handlers.StatusDependencies{
		ChatLog:       chatLog,
		Ledger:        ledger,
		Corpus:        corpus,
		Workers:       poolStats{pool: pool, jobs: jobService},
		LedgerBackend: s.LedgerBackend,
	}), limiter)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return statusServer.ListenAndServe()
	})
	g.Go(func() error {
		limiter.RunPruner(gctx, config.LimiterPruneInterval, config.LimiterVisitorIdle)
		return nil
	})
	g.Go(func() error {
		err := server.Supervise(gctx, "telegram_listener", config.RestartDelay, func(ctx context.Context) error {
			return tg.Listen(ctx, jobService.Submit)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return server.ShutDownHandler(gctx, server.ShutdownParams{
			Server:        statusServer,
			EventQueue:    jobService,
			Workers:       pool,
			Ledger:        ledger,
			CloseServices: closeExternalServices,
		})
	})

	err = g.Wait()
	logger.Info("Server stopped")
	return err
}

type poolStats struct {
	pool *worker.Pool
	jobs *job.Service
}

func (p poolStats) WorkerCount() int64 {
	return p.pool.WorkerCount()
}

func (p poolStats) Pending() int {
	return p.jobs.Pending()
}
