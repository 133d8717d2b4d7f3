package rag

import (
	"context"
	"time"

	"github.com/akolanti/FAQBot/internal/domain/commonModels"
	"github.com/akolanti/FAQBot/internal/metrics"
	"github.com/akolanti/FAQBot/pkg/logger_i"
)

const (
	OutcomeGrounded = "grounded"
	OutcomeOpen     = "open"
	OutcomeFailed   = "failed"
)

func (s *service) executeGroundedStep(ctx context.Context, log *logger_i.Logger, query string, contextText string, doc *commonModels.Document) (Answer, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("route_grounded", time.Since(start)) }()

	text, err := s.composer.ComposeGrounded(ctx, query, contextText)
	if err != nil {
		return s.routeError(log, err)
	}
	log.Debug("Route", "outcome", OutcomeGrounded, "document", doc.Name)
	metrics.RecordQuery(OutcomeGrounded)
	return Answer{Text: text, Grounded: true, Source: doc}, nil
}

func (s *service) executeOpenStep(ctx context.Context, log *logger_i.Logger, query string) (Answer, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("route_open", time.Since(start)) }()

	text, err := s.composer.ComposeOpen(ctx, query)
	if err != nil {
		return s.routeError(log, err)
	}
	log.Debug("Route", "outcome", OutcomeOpen)
	metrics.RecordQuery(OutcomeOpen)
	return Answer{Text: text}, nil
}

func (s *service) routeError(log *logger_i.Logger, err error) (Answer, error) {
	log.Error("Answer composition failed", "error", err)
	metrics.RecordQuery(OutcomeFailed)
	return Answer{}, err
}
