package api

import "time"

type StatusExternal string

const (
	StatusOk    StatusExternal = "ok"
	StatusError StatusExternal = "error"
)

type ErrorResponse struct {
	Status StatusExternal `json:"status" example:"error"`
	Error  *OutgoingError `json:"error,omitempty"`
}

type OutgoingError struct {
	Code    int    `json:"code" example:"429"`
	Message string `json:"message" example:"Rate limit exceeded"`
	TraceId string `json:"trace_id,omitempty"`
}

type HealthResponse struct {
	Status StatusExternal `json:"status"`
	Ledger string         `json:"ledger"`
}

type StatsResponse struct {
	Responses    int64          `json:"responses"`
	Satisfied    int64          `json:"satisfied"`
	Satisfaction float64        `json:"satisfaction_rate"`
	Interactions int            `json:"recent_interactions"`
	Corpus       CorpusSummary  `json:"corpus"`
	Workers      *WorkerSummary `json:"workers,omitempty"`
	GeneratedAt  time.Time      `json:"generated_at"`
}

type CorpusSummary struct {
	Mode      string            `json:"mode"`
	Chunks    int               `json:"chunks"`
	Documents []DocumentSummary `json:"documents"`
}

type DocumentSummary struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Chars     int    `json:"chars"`
	Chunks    int    `json:"chunks"`
	Truncated bool   `json:"truncated"`
}

type WorkerSummary struct {
	Active  int64 `json:"active"`
	Pending int   `json:"pending"`
}
