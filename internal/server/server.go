// Package server assembles the HTTP surface: webhook, reminder trigger,
// health check, and the middleware chain around them.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/taskping/taskping/internal/bot"
	"github.com/taskping/taskping/internal/httpmw"
)

type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

func New(addr string, handler *bot.Handler, logger *slog.Logger) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", handler.ServeWebhook)
	mux.HandleFunc("/remind", handler.ServeRemind)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	chained := httpmw.Chain(mux,
		httpmw.WithRequestID,
		httpmw.WithRecover(logger),
		httpmw.WithAccessLog(logger),
	)

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           chained,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Handler exposes the assembled routing and middleware chain.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) ListenAndServe() error {
	s.logger.Info("listening", "addr", s.srv.Addr)
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
