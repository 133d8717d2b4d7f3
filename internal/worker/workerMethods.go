package worker

import (
	"context"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/akolanti/FAQBot/internal/adapter/utils"
	"github.com/akolanti/FAQBot/internal/config"
	"github.com/akolanti/FAQBot/internal/domain/queryModel"
	"github.com/akolanti/FAQBot/internal/metrics"
)

func (p *Pool) executeEvent(event queryModel.Event) {
	start := time.Now()
	defer func() {
		metrics.CaptureEventMetrics(string(event.Kind), time.Since(start))
		metrics.DecrementEventsInQueue()
	}()

	if event.TraceId == "" {
		event.TraceId = utils.GetNewUUID()
	}
	// no event-wide deadline, every oracle call and reply carries its own
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, event.TraceId)
	ctx = context.WithValue(ctx, config.USER_ID_KEY, event.User.Id)

	log := p.logger.FromContext(ctx)
	defer func() {
		if r := recover(); r != nil {
			log.Error("Event handler panicked", "kind", event.Kind, "panic", r, "stack", string(debug.Stack()))
		}
	}()

	log.Debug("Processing event", "kind", event.Kind)
	p.handler.HandleEvent(ctx, event)
}

// removeWorker releases a worker slot. Idle retirement already claimed its
// slot in tryRetire.
func (p *Pool) removeWorker(reason string, claimed bool) {
	if !claimed {
		atomic.AddInt64(&p.currentWorkerCount, -1)
	}
	p.workerWaitGroup.Done()
	metrics.DecrementActiveWorkerCount()
	p.logger.Debug("Removed worker", "reason", reason, "workerCount", p.WorkerCount())
}
