package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/biirving/focus/internal/config"
	"github.com/biirving/focus/internal/logging"
)

type Server struct {
	log     *logging.Logger
	handler *Handler
	server  *http.Server
}

func NewServer(cfg *config.Config, log *logging.Logger, handler *Handler) *Server {
	mux := http.NewServeMux()
	handler.SetupRoutes(mux)

	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		log:     log,
		handler: handler,
		server:  httpServer,
	}
}

func (s *Server) Start() error {
	s.log.Info("starting web server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down web server")
	return s.server.Shutdown(ctx)
}

func (s *Server) GetAddress() string {
	return s.server.Addr
}
