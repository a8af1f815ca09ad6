package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ZoneTwelveWorkspace/dummy-openai-api/internal/logger"
)

const shutdownTimeout = 5 * time.Second

// Server wraps an http.Server and its listen address.
//
// It is intentionally small/simple because this project is a mock/benchmark
// tool, not a production service framework.
type Server struct {
	addr string
	srv  *http.Server
}

// NewServer creates an HTTP server for the given handler at the given
// address. Example addr: ":8080".
func NewServer(addr string, h http.Handler) *Server {
	return &Server{
		addr: addr,
		srv: &http.Server{
			Addr:    addr,
			Handler: h,
		},
	}
}

// Run starts listening on the configured address and serves requests.
// This call blocks until the server stops or returns an error.
func (s *Server) Run() error {
	logger.Log.Infow("[http] starting server", "addr", s.addr)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Errorw("[http] server stopped with error", "err", err)
		return err
	}

	logger.Log.Info("[http] server stopped gracefully")
	return nil
}

// GracefulStop drains in-flight requests before stopping.
func (s *Server) GracefulStop() {
	logger.Log.Infow("[http] graceful stop", "addr", s.addr)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		logger.Log.Warnw("[http] shutdown incomplete", "err", err)
	}
}

// Stop immediately closes the server and all active connections.
func (s *Server) Stop() {
	logger.Log.Infow("[http] stop", "addr", s.addr)
	_ = s.srv.Close()
}
