package adapter

import (
	"time"
	"unicode/utf8"

	"github.com/akolanti/FAQBot/internal/api"
	"github.com/akolanti/FAQBot/internal/domain/commonModels"
	"github.com/akolanti/FAQBot/internal/domain/queryModel"
)

func ToCorpusSummary(corpus commonModels.Corpus) api.CorpusSummary {
	summary := api.CorpusSummary{
		Mode:      string(corpus.Mode),
		Chunks:    corpus.ChunkCount(),
		Documents: make([]api.DocumentSummary, 0, len(corpus.Documents)),
	}
	for _, d := range corpus.Documents {
		summary.Documents = append(summary.Documents, api.DocumentSummary{
			Name:      d.Name,
			Type:      string(d.ContentType),
			Chars:     utf8.RuneCountInString(d.Text),
			Chunks:    len(d.Chunks),
			Truncated: d.Truncated,
		})
	}
	return summary
}

func ToStatsResponse(counters queryModel.Counters, corpus commonModels.Corpus, interactions int, now time.Time) api.StatsResponse {
	var rate float64
	if counters.Responses > 0 {
		rate = float64(counters.Satisfied) / float64(counters.Responses)
	}
	return api.StatsResponse{
		Responses:    counters.Responses,
		Satisfied:    counters.Satisfied,
		Satisfaction: rate,
		Interactions: interactions,
		Corpus:       ToCorpusSummary(corpus),
		GeneratedAt:  now,
	}
}

func BadRequest(traceId string, message string, code int) api.ErrorResponse {
	return api.ErrorResponse{
		Status: api.StatusError,
		Error: &api.OutgoingError{
			Code:    code,
			Message: message,
			TraceId: traceId,
		},
	}
}
