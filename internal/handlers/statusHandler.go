package handlers

import (
	"context"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/akolanti/FAQBot/internal/adapter"
	"github.com/akolanti/FAQBot/internal/api"
	"github.com/akolanti/FAQBot/internal/config"
	"github.com/akolanti/FAQBot/internal/domain/commonModels"
	"github.com/akolanti/FAQBot/internal/domain/queryModel"
	"github.com/akolanti/FAQBot/pkg/logger_i"
)

// ChatLogReader is the read side of the recent interaction log.
type ChatLogReader interface {
	Entries() []string
	Last() (string, bool)
}

// CounterReader is the part of the ledger the status page reads.
type CounterReader interface {
	Counters(ctx context.Context) (queryModel.Counters, error)
}

// WorkerStats reports pool size and queue depth. Optional.
type WorkerStats interface {
	WorkerCount() int64
	Pending() int
}

type StatusDependencies struct {
	ChatLog ChatLogReader
	Ledger  CounterReader
	Corpus  commonModels.Corpus
	Workers WorkerStats
	// LedgerBackend is shown by /healthz.
	LedgerBackend string
}

type StatusHandler struct {
	deps   StatusDependencies
	now    func() time.Time
	logger *logger_i.Logger
}

func NewStatusHandler(deps StatusDependencies) *StatusHandler {
	return &StatusHandler{deps: deps, now: time.Now, logger: logger_i.NewLogger("status_handler")}
}

// Home shows the most recent interaction, or a liveness line before the first.
// @Summary      Latest interaction
// @Description  Shows the most recent question and answer, or a liveness line before the first one.
// @Tags         Status
// @Produce      html
// @Success      200  {string}  string             "Last interaction inside <pre>"
// @Failure      429  {object}  api.ErrorResponse  "Rate limit exceeded"
// @Router       / [get]
func (h *StatusHandler) Home(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	last, ok := h.deps.ChatLog.Last()
	if !ok {
		writeTextResponse(w, http.StatusOK, "text/plain; charset=utf-8", config.BotRunningMessage)
		return
	}
	writePreResponse(w, last)
}

// ChatLog shows up to the last ChatLogCapacity interactions, oldest first.
// @Summary      Recent interactions
// @Description  Lists the most recent interactions, oldest first.
// @Tags         Status
// @Produce      html
// @Success      200  {string}  string             "Interaction log inside <pre>"
// @Failure      429  {object}  api.ErrorResponse  "Rate limit exceeded"
// @Router       /chatlog [get]
func (h *StatusHandler) ChatLog(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	writePreResponse(w, strings.Join(h.deps.ChatLog.Entries(), "\n"))
}

// Stats godoc
// @Summary      Bot counters
// @Description  Returns response and satisfaction counters, the loaded corpus and the worker pool size.
// @Tags         Status
// @Produce      json
// @Success      200  {object}  api.StatsResponse
// @Failure      429  {object}  api.ErrorResponse  "Rate limit exceeded"
// @Failure      500  {object}  api.ErrorResponse  "Counters could not be read"
// @Router       /stats [get]
func (h *StatusHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	log := h.logger.FromContext(r.Context())

	counters, err := h.deps.Ledger.Counters(r.Context())
	if err != nil {
		log.Error("Could not read counters", "error", err)
		WriteErrorResponse(w, r, http.StatusInternalServerError, "could not read counters")
		return
	}

	res := adapter.ToStatsResponse(counters, h.deps.Corpus, len(h.deps.ChatLog.Entries()), h.now())
	if h.deps.Workers != nil {
		res.Workers = &api.WorkerSummary{Active: h.deps.Workers.WorkerCount(), Pending: h.deps.Workers.Pending()}
	}
	writeJsonResponse(w, http.StatusOK, res)
}

// Healthz reports unavailable when the ledger cannot be read.
// @Summary      Health check
// @Tags         Status
// @Produce      json
// @Success      200  {object}  api.HealthResponse
// @Failure      503  {object}  api.HealthResponse  "Ledger unavailable"
// @Router       /healthz [get]
func (h *StatusHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	if _, err := h.deps.Ledger.Counters(r.Context()); err != nil {
		h.logger.FromContext(r.Context()).Warn("Health check failed", "error", err)
		writeJsonResponse(w, http.StatusServiceUnavailable, api.HealthResponse{Status: api.StatusError, Ledger: h.deps.LedgerBackend})
		return
	}
	writeJsonResponse(w, http.StatusOK, api.HealthResponse{Status: api.StatusOk, Ledger: h.deps.LedgerBackend})
}

func writePreResponse(w http.ResponseWriter, body string) {
	writeTextResponse(w, http.StatusOK, "text/html; charset=utf-8", "<pre>"+html.EscapeString(body)+"</pre>")
}
