package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/akolanti/FAQBot/internal/adapter/utils"
	"github.com/akolanti/FAQBot/internal/config"
	"github.com/akolanti/FAQBot/internal/handlers"
	"github.com/akolanti/FAQBot/internal/middleware"
	"github.com/akolanti/FAQBot/pkg/logger_i"
)

// Server is the status page HTTP server.
type Server struct {
	httpServer *http.Server
	logger     *logger_i.Logger
}

// NewRouter mounts the status routes. /metrics, /swagger and /healthz skip
// the middleware.
func NewRouter(h *handlers.StatusHandler, limiter *middleware.IPRateLimiter) http.Handler {
	r := utils.GetRouter()

	r.Router.Get("/", middleware.WrapWithLimiter(limiter, h.Home))
	r.Router.Get("/chatlog", middleware.WrapWithLimiter(limiter, h.ChatLog))
	r.Router.Get("/stats", middleware.WrapWithLimiter(limiter, h.Stats))
	r.Router.Get("/healthz", h.Healthz)
	return r.Router
}

func CreateServer(listenAddr string, h *handlers.StatusHandler, limiter *middleware.IPRateLimiter) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         listenAddr,
			Handler:      NewRouter(h, limiter),
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
		logger: logger_i.NewLogger("server"),
	}
}

// ListenAndServe blocks until Shutdown. A clean shutdown returns nil.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("Server is listening at", "address", ln.Addr().String())
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Server crashed", "error", err, "addr", ln.Addr().String())
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.httpServer.SetKeepAlivesEnabled(false)
	return s.httpServer.Shutdown(ctx)
}
