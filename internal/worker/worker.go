package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/FAQBot/internal/config"
	"github.com/akolanti/FAQBot/internal/domain/queryModel"
	"github.com/akolanti/FAQBot/internal/job"
	"github.com/akolanti/FAQBot/internal/metrics"
	"github.com/akolanti/FAQBot/pkg/logger_i"
)

// EventHandler processes one inbound event. Implementations must be safe for
// concurrent use: workers call it in parallel.
type EventHandler interface {
	HandleEvent(ctx context.Context, event queryModel.Event)
}

type Config struct {
	MinWorkers  int64
	MaxWorkers  int64
	IdleTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		MinWorkers:  config.MinWorkerCount,
		MaxWorkers:  config.MaxWorkerCount,
		IdleTimeout: config.IdleWorkerTimeout,
	}
}

// Pool is an elastic set of workers reading the job service's event channel.
// It starts with MinWorkers, grows by one per dispatcher signal up to
// MaxWorkers and shrinks back when workers sit idle. A signal is raised
// whenever an event has to wait, so a busy worker never holds up the next
// user.
type Pool struct {
	jobService *job.Service
	handler    EventHandler
	cfg        Config

	stopWorkerChannel  chan struct{}
	stopOnce           sync.Once
	workerWaitGroup    sync.WaitGroup
	dispatcherDone     chan struct{}
	currentWorkerCount int64

	logger *logger_i.Logger
}

func NewPool(jobService *job.Service, handler EventHandler, cfg Config) *Pool {
	def := DefaultConfig()
	if cfg.MinWorkers <= 0 {
		cfg.MinWorkers = def.MinWorkers
	}
	if cfg.MaxWorkers < cfg.MinWorkers {
		cfg.MaxWorkers = max(def.MaxWorkers, cfg.MinWorkers)
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = def.IdleTimeout
	}
	return &Pool{
		jobService:        jobService,
		handler:           handler,
		cfg:               cfg,
		stopWorkerChannel: make(chan struct{}),
		dispatcherDone:    make(chan struct{}),
		logger:            logger_i.NewLogger("worker_pool"),
	}
}

func (p *Pool) Start() {
	p.logger.Info("Initializing worker pool", "min", p.cfg.MinWorkers, "max", p.cfg.MaxWorkers)
	for i := int64(0); i < p.cfg.MinWorkers; i++ {
		p.createWorker()
	}
	go p.dispatcher()
}

// Stop signals every worker, lets them drain the queued events and waits for
// them to exit.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		p.logger.Info("Stopping worker pool")
		close(p.stopWorkerChannel)
	})
	<-p.dispatcherDone
	p.workerWaitGroup.Wait()
	p.logger.Info("Worker pool stopped")
}

func (p *Pool) WorkerCount() int64 {
	return atomic.LoadInt64(&p.currentWorkerCount)
}

func (p *Pool) dispatcher() {
	defer close(p.dispatcherDone)
	p.logger.Info("Dispatcher started")
	for {
		select {
		case <-p.jobService.DispatcherChannel:
			if p.WorkerCount() < p.cfg.MaxWorkers {
				p.logger.Debug("Creating new worker", "workerCount", p.WorkerCount())
				p.createWorker()
			}
		case <-p.stopWorkerChannel:
			return
		}
	}
}

func (p *Pool) createWorker() {
	p.workerWaitGroup.Add(1)
	atomic.AddInt64(&p.currentWorkerCount, 1)
	metrics.IncrementActiveWorkerCount()
	go p.worker()
}

func (p *Pool) worker() {
	idle := time.NewTimer(p.cfg.IdleTimeout)
	defer idle.Stop()

	for {
		select {
		case event := <-p.jobService.EventChannel:
			if p.jobService.Pending() > 0 {
				p.jobService.RequestWorker()
			}
			p.executeEvent(event)
			idle.Reset(p.cfg.IdleTimeout)

		case <-p.stopWorkerChannel:
			p.drain()
			p.removeWorker("Stop worker signal received", false)
			return

		case <-idle.C:
			if p.tryRetire() {
				p.removeWorker("Idle worker timeout", true)
				return
			}
			idle.Reset(p.cfg.IdleTimeout)
		}
	}
}

// tryRetire claims one slot above the minimum, so concurrent idle workers
// never take the pool below MinWorkers.
func (p *Pool) tryRetire() bool {
	for {
		current := atomic.LoadInt64(&p.currentWorkerCount)
		if current <= p.cfg.MinWorkers {
			return false
		}
		if atomic.CompareAndSwapInt64(&p.currentWorkerCount, current, current-1) {
			return true
		}
	}
}

func (p *Pool) drain() {
	for {
		select {
		case event := <-p.jobService.EventChannel:
			p.executeEvent(event)
		default:
			return
		}
	}
}
