package middleware

import (
	"context"
	"net"
	"net/http"

	"github.com/akolanti/FAQBot/internal/adapter/utils"
	"github.com/akolanti/FAQBot/internal/config"
	"github.com/akolanti/FAQBot/internal/handlers"
)

const traceHeader = "X-Trace-Id"

func injectTrace(re requestResponseStruct) requestResponseStruct {
	req := re.req
	if req == nil {
		re.badRequest = failureStruct{
			isBadRequest: true,
			httpCode:     http.StatusBadRequest,
			errorMessage: "request is empty",
		}
		return re
	}
	trace := req.Header.Get(traceHeader)
	if trace == "" {
		trace = utils.GetNewUUID()
	}
	re.logger = re.logger.With("traceId", trace)
	ctx := context.WithValue(req.Context(), config.TRACE_ID_KEY, trace)
	re.writer.Header().Set(traceHeader, trace)
	re.req = req.WithContext(ctx)
	return re
}

func rateLimiter(re requestResponseStruct, limiter *IPRateLimiter) requestResponseStruct {
	ip, _, err := net.SplitHostPort(re.req.RemoteAddr)
	if err != nil {
		ip = re.req.RemoteAddr
	}

	if !limiter.GetLimiter(ip).Allow() {
		re.logger.Warn("Too many requests", "ip", ip)
		re.badRequest = failureStruct{
			isBadRequest: true,
			httpCode:     http.StatusTooManyRequests,
			errorMessage: "Rate limit exceeded",
		}
	}
	return re
}

// handleBadRequest writes the error response and reports whether the request
// may continue.
func handleBadRequest(re requestResponseStruct) bool {
	if !re.badRequest.isBadRequest {
		return true
	}
	if re.req == nil {
		re.writer.WriteHeader(re.badRequest.httpCode)
		return false
	}
	re.logger.Warn("Bad request", "httpCode", re.badRequest.httpCode, "errorMessage", re.badRequest.errorMessage, "ip", re.req.RemoteAddr)
	handlers.WriteErrorResponse(re.writer, re.req, re.badRequest.httpCode, re.badRequest.errorMessage)
	return false
}
