package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akolanti/FAQBot/internal/api"
	"github.com/akolanti/FAQBot/internal/data/store"
	"github.com/akolanti/FAQBot/internal/domain/commonModels"
	"github.com/akolanti/FAQBot/internal/domain/queryModel"
	"github.com/akolanti/FAQBot/internal/handlers"
	"github.com/akolanti/FAQBot/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type MockCounters struct {
	OnCounters func(ctx context.Context) (queryModel.Counters, error)
}

func (m *MockCounters) Counters(ctx context.Context) (queryModel.Counters, error) {
	return m.OnCounters(ctx)
}

type fixedWorkers struct{}

func (fixedWorkers) WorkerCount() int64 {
	return 3
}

func (fixedWorkers) Pending() int {
	return 7
}

func newStatusServer(t *testing.T, chatLog *store.InMemoryChatLog, counters *MockCounters) *httptest.Server {
	t.Helper()
	h := handlers.NewStatusHandler(handlers.StatusDependencies{
		ChatLog: chatLog,
		Ledger:  counters,
		Corpus: commonModels.Corpus{Mode: commonModels.MultiMode, Documents: []commonModels.Document{
			{Name: "leave.pdf", ContentType: commonModels.PDF, Text: "Leave policy", Chunks: []commonModels.DocChunk{{Chunk: "Leave policy"}}},
			{Name: "travel.txt", ContentType: commonModels.TXT, Text: "Travel", Truncated: true},
		}},
		Workers:       fixedWorkers{},
		LedgerBackend: "file",
	})
	srv := httptest.NewServer(NewRouter(h, middleware.NewIPRateLimiter(rate.Inf, 1)))
	t.Cleanup(srv.Close)
	return srv
}

func okCounters(responses, satisfied int64) *MockCounters {
	return &MockCounters{OnCounters: func(ctx context.Context) (queryModel.Counters, error) {
		return queryModel.Counters{Responses: responses, Satisfied: satisfied}, nil
	}}
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	var sb bytes.Buffer
	_, err = sb.ReadFrom(res.Body)
	require.NoError(t, err)
	return res, sb.String()
}

func TestHome(t *testing.T) {
	chatLog := store.InitInMemoryChatLog(5)
	srv := newStatusServer(t, chatLog, okCounters(0, 0))

	res, body := get(t, srv.URL+"/")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "🤖 Bot is running!", body)
	assert.NotEmpty(t, res.Header.Get("X-Trace-Id"))

	ts := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	chatLog.Append(ts, 42, "first?", "one")
	chatLog.Append(ts, 42, "second?", "two")

	_, body = get(t, srv.URL+"/")
	assert.Equal(t, "<pre>[2026-03-01 09:30:00] 42: second?\n➡️ two\n</pre>", body)
}

func TestChatLog_OldestFirst(t *testing.T) {
	chatLog := store.InitInMemoryChatLog(2)
	ts := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	chatLog.Append(ts, 1, "a", "A")
	chatLog.Append(ts, 2, "b", "B")
	chatLog.Append(ts, 3, "c", "C")
	srv := newStatusServer(t, chatLog, okCounters(0, 0))

	_, body := get(t, srv.URL+"/chatlog")
	assert.NotContains(t, body, "1: a")
	assert.Less(t, strings.Index(body, "2: b"), strings.Index(body, "3: c"))
	assert.True(t, strings.HasPrefix(body, "<pre>") && strings.HasSuffix(body, "</pre>"))
}

func TestChatLog_EscapesHTML(t *testing.T) {
	chatLog := store.InitInMemoryChatLog(2)
	chatLog.Append(time.Now(), 1, "<script>", "ok")
	srv := newStatusServer(t, chatLog, okCounters(0, 0))

	_, body := get(t, srv.URL+"/chatlog")
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestStats(t *testing.T) {
	srv := newStatusServer(t, store.InitInMemoryChatLog(5), okCounters(4, 1))

	res, body := get(t, srv.URL+"/stats")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

	var stats api.StatsResponse
	require.NoError(t, json.Unmarshal([]byte(body), &stats))
	assert.Equal(t, int64(4), stats.Responses)
	assert.Equal(t, int64(1), stats.Satisfied)
	assert.InDelta(t, 0.25, stats.Satisfaction, 1e-9)
	assert.Equal(t, "multi", stats.Corpus.Mode)
	assert.Equal(t, 1, stats.Corpus.Chunks)
	require.Len(t, stats.Corpus.Documents, 2)
	assert.Equal(t, "leave.pdf", stats.Corpus.Documents[0].Name)
	assert.Equal(t, "PDF", stats.Corpus.Documents[0].Type)
	assert.True(t, stats.Corpus.Documents[1].Truncated)
	require.NotNil(t, stats.Workers)
	assert.Equal(t, api.WorkerSummary{Active: 3, Pending: 7}, *stats.Workers)
}

func TestStats_LedgerFailure(t *testing.T) {
	failing := &MockCounters{OnCounters: func(ctx context.Context) (queryModel.Counters, error) {
		return queryModel.Counters{}, errors.New("disk gone")
	}}
	srv := newStatusServer(t, store.InitInMemoryChatLog(5), failing)

	res, body := get(t, srv.URL+"/stats")
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)

	var errRes api.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(body), &errRes))
	require.NotNil(t, errRes.Error)
	assert.Equal(t, http.StatusInternalServerError, errRes.Error.Code)
	assert.Equal(t, res.Header.Get("X-Trace-Id"), errRes.Error.TraceId)

	res, _ = get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
}

func TestHealthzAndMetrics(t *testing.T) {
	srv := newStatusServer(t, store.InitInMemoryChatLog(5), okCounters(0, 0))

	res, body := get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"status":"ok","ledger":"file"}`, body)

	get(t, srv.URL+"/stats")
	res, body = get(t, srv.URL+"/metrics")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "faqbot_http_requests_total")
}

func TestServer_ServeAndShutdown(t *testing.T) {
	h := handlers.NewStatusHandler(handlers.StatusDependencies{
		ChatLog: store.InitInMemoryChatLog(5),
		Ledger:  okCounters(0, 0),
	})
	s := CreateServer("127.0.0.1:0", h, middleware.NewStatusPageLimiter())
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	served := make(chan error, 1)
	go func() { served <- s.Serve(ln) }()

	_, body := get(t, "http://"+ln.Addr().String()+"/")
	assert.Equal(t, "🤖 Bot is running!", body)

	require.NoError(t, s.Shutdown(context.Background()))
	assert.NoError(t, <-served)
}

func TestSwaggerDocs(t *testing.T) {
	srv := newStatusServer(t, store.InitInMemoryChatLog(5), okCounters(0, 0))

	res, body := get(t, srv.URL+"/swagger/doc.json")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	for _, route := range []string{`"/stats"`, `"/chatlog"`, `"/healthz"`, `"api.StatsResponse"`} {
		assert.Contains(t, body, route)
	}

	noFollow := &http.Client{CheckRedirect: func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	redirect, err := noFollow.Get(srv.URL + "/swagger")
	require.NoError(t, err)
	defer redirect.Body.Close()
	assert.Equal(t, http.StatusMovedPermanently, redirect.StatusCode)
	assert.Equal(t, "/swagger/index.html", redirect.Header.Get("Location"))
}

func TestNewRouter_UsesInjectedLimiter(t *testing.T) {
	h := handlers.NewStatusHandler(handlers.StatusDependencies{
		ChatLog: store.InitInMemoryChatLog(5),
		Ledger:  okCounters(0, 0),
	})
	limiter := middleware.NewIPRateLimiter(rate.Limit(0.001), 1)
	srv := httptest.NewServer(NewRouter(h, limiter))
	t.Cleanup(srv.Close)

	first, _ := get(t, srv.URL+"/stats")
	second, _ := get(t, srv.URL+"/stats")
	assert.Equal(t, http.StatusOK, first.StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
	assert.Equal(t, 1, limiter.Visitors())

	// health checks are never limited
	health, _ := get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, health.StatusCode)
}

type recordingStopper struct {
	order *[]string
	name  string
}

func (r recordingStopper) Stop() {
	*r.order = append(*r.order, r.name)
}

func (r recordingStopper) Close() {
	*r.order = append(*r.order, r.name)
}

type recordingLedger struct {
	order *[]string
}

func (r recordingLedger) Close() error {
	*r.order = append(*r.order, "ledger")
	return nil
}

func TestShutDownHandler_Order(t *testing.T) {
	var order []string
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ShutDownHandler(ctx, ShutdownParams{
		EventQueue:    recordingStopper{order: &order, name: "queue"},
		Workers:       recordingStopper{order: &order, name: "workers"},
		Ledger:        recordingLedger{order: &order},
		CloseServices: func() { order = append(order, "services") },
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"queue", "workers", "ledger", "services"}, order)
}

type blockingStopper struct {
	release chan struct{}
}

func (b blockingStopper) Stop() {
	<-b.release
}

func TestShutDownHandler_Timeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	release := make(chan struct{})
	defer close(release)

	err := ShutDownHandler(ctx, ShutdownParams{Workers: blockingStopper{release: release}, Timeout: 50 * time.Millisecond})
	assert.ErrorIs(t, err, ErrForcedShutdown)
}

func TestSupervise_RestartsOnErrorAndPanic(t *testing.T) {
	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	err := Supervise(ctx, "test", time.Millisecond, func(ctx context.Context) error {
		switch runs.Add(1) {
		case 1:
			return errors.New("connection reset")
		case 2:
			panic("boom")
		case 3:
			return nil
		default:
			cancel()
			<-ctx.Done()
			return ctx.Err()
		}
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(4), runs.Load())
}

func TestSupervise_StopsDuringDelay(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := Supervise(ctx, "test", time.Hour, func(ctx context.Context) error {
		return errors.New("fail")
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}
