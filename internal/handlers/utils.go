package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/akolanti/FAQBot/internal/adapter"
	"github.com/akolanti/FAQBot/internal/config"
	"github.com/akolanti/FAQBot/pkg/logger_i"
)

var logRH = logger_i.NewLogger("response_writer")

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// headers are already sent
		logRH.Error("Error encoding response", "error", err)
	}
}

func writeTextResponse(w http.ResponseWriter, statusCode int, contentType string, body string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(statusCode)
	if _, err := io.WriteString(w, body); err != nil {
		logRH.Error("Error writing response", "error", err)
	}
}

func (h *StatusHandler) validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		h.logger.FromContext(ctx).Warn("context error", "error", ctx.Err())
		return false
	}
	return true
}

func WriteErrorResponse(w http.ResponseWriter, r *http.Request, httpCode int, message string) {
	traceId, _ := r.Context().Value(config.TRACE_ID_KEY).(string)
	writeJsonResponse(w, httpCode, adapter.BadRequest(traceId, message, httpCode))
}
