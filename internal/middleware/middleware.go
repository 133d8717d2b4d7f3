package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/FAQBot/internal/metrics"
	"github.com/akolanti/FAQBot/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

var logMW = logger_i.NewLogger("middleware")

// WrapWithLimiter adds a trace id, applies the per-IP rate limit and records
// the request in the HTTP metrics.
func WrapWithLimiter(limiter *IPRateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec}, limiter)

		if !handleBadRequest(re) {
			metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc()
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

func processRequest(re requestResponseStruct, limiter *IPRateLimiter) requestResponseStruct {
	re.logger = logMW
	re = injectTrace(re)
	if re.badRequest.isBadRequest {
		return re
	}
	re.logger.Debug("New request received", "path", re.req.URL.Path)
	return rateLimiter(re, limiter)
}
