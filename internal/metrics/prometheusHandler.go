package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "faqbot"

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "http_requests_total",
	Help:      "Total number of status page requests labelled by path and status",
}, []string{"path", "status"})

var countEventsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "count_events_in_queue",
	Help:      "Number of inbound events waiting for a worker",
})

var dispatcherSignalCount = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "dispatcher_signal_count",
	Help:      "How often the dispatcher has signaled to start worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "active_worker_count",
	Help:      "Number of active workers",
})

var queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "queries_total",
	Help:      "Routed questions labelled by outcome (grounded, open, failed)",
}, []string{"outcome"})

var classifierDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "classifier_decisions_total",
	Help:      "Relatedness decisions labelled by result (related, unrelated, failed)",
}, []string{"result"})

var ledgerFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "ledger_write_failures_total",
	Help:      "Failed ledger writes labelled by record",
}, []string{"record"})

var feedbackTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "feedback_total",
	Help:      "Feedback button presses labelled by action and whether a session entry existed",
}, []string{"action", "matched"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func IncrementEventsInQueue() {
	countEventsInQueue.Inc()
}

func DecrementEventsInQueue() {
	countEventsInQueue.Dec()
}

func StartDispatcherSignalCount() {
	dispatcherSignalCount.Inc()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}
func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

func RecordQuery(outcome string) {
	queriesTotal.WithLabelValues(outcome).Inc()
}

func RecordClassifierDecision(result string) {
	classifierDecisions.WithLabelValues(result).Inc()
}

func RecordLedgerFailure(record string) {
	ledgerFailures.WithLabelValues(record).Inc()
}

func RecordFeedback(action string, matched bool) {
	m := "false"
	if matched {
		m = "true"
	}
	feedbackTotal.WithLabelValues(action, m).Inc()
}

var eventDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Name:      "event_duration_seconds",
	Help:      "Total time spent handling one inbound event.",
	Buckets:   []float64{.1, .5, 1, 2, 5, 10, 30, 60},
}, []string{"kind"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Name:      "dependency_latency_seconds",
	Help:      "Latency of oracle and ledger calls.",
	Buckets:   []float64{.05, .1, .25, .5, 1, 2, 5, 10, 20},
}, []string{"service"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureEventMetrics(label string, timeElapsed time.Duration) {
	eventDuration.WithLabelValues(label).Observe(timeElapsed.Seconds())
}
