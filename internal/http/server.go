package http

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Server runs an http.Server in the background and reports when it stops.
type Server struct {
	server *http.Server
	notify chan error
}

func NewServer(handler http.Handler, addr string, timeout time.Duration) *Server {
	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: timeout,
			ReadTimeout:       timeout,
			WriteTimeout:      timeout,
			IdleTimeout:       2 * timeout,
		},
		notify: make(chan error, 1),
	}
}

func (s *Server) Start() {
	go func() {
		err := s.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}

		s.notify <- err
		close(s.notify)
	}()
}

// Notify yields the listener error, or nil after a clean shutdown.
func (s *Server) Notify() <-chan error {
	return s.notify
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
