package job

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/akolanti/FAQBot/internal/config"
	"github.com/akolanti/FAQBot/internal/domain/queryModel"
	"github.com/akolanti/FAQBot/internal/metrics"
)

var ErrQueueClosed = errors.New("event queue closed")

// Service is the inbound event queue shared by the transports and the worker
// pool.
type Service struct {
	EventChannel      chan queryModel.Event
	RequestCount      int64
	DispatcherChannel chan bool

	closed atomic.Bool
}

type ServiceConfig struct {
	EventChannel      chan queryModel.Event
	DispatcherChannel chan bool
}

func InitJobService(cfg ServiceConfig) *Service {
	if cfg.EventChannel == nil {
		cfg.EventChannel = make(chan queryModel.Event, config.BufferLimit)
	}
	if cfg.DispatcherChannel == nil {
		cfg.DispatcherChannel = make(chan bool, config.MaxWorkerCount)
	}
	return &Service{
		EventChannel:      cfg.EventChannel,
		DispatcherChannel: cfg.DispatcherChannel,
	}
}

// Submit queues an event, blocking while the buffer is full. An event that
// lands behind others asks the dispatcher for another worker.
func (s *Service) Submit(ctx context.Context, event queryModel.Event) error {
	if s.closed.Load() {
		return ErrQueueClosed
	}
	select {
	case s.EventChannel <- event:
	case <-ctx.Done():
		return ctx.Err()
	}
	metrics.IncrementEventsInQueue()

	atomic.AddInt64(&s.RequestCount, 1)

	if s.Pending() > 0 {
		s.RequestWorker()
	}
	return nil
}

// RequestWorker signals the dispatcher without blocking. A full signal
// channel already has the request queued.
func (s *Service) RequestWorker() {
	select {
	case s.DispatcherChannel <- true:
		metrics.StartDispatcherSignalCount()
	default:
	}
}

// Close stops accepting events. Events already queued are still drained by
// the pool.
func (s *Service) Close() {
	s.closed.Store(true)
}

func (s *Service) Pending() int {
	return len(s.EventChannel)
}
