package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/Rafa-lopez12/examen-arqui/internal/cfg"
)

// headers must arrive well before the body deadline
const readHeaderTimeout = 2 * time.Second

// Server serves the POS REST API.
type Server struct {
	httpServer *http.Server
}

func NewServer(handler http.Handler, cfg *cfg.HTTPConfig) *Server {
	headerTimeout := readHeaderTimeout
	if cfg.ReadTimeout > 0 && cfg.ReadTimeout < headerTimeout {
		headerTimeout = cfg.ReadTimeout
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           handler,
			ReadHeaderTimeout: headerTimeout,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
	}
}

// Run listens on the configured port. A graceful Stop is not an error.
func (s *Server) Run() error {
	return ignoreClosed(s.httpServer.ListenAndServe())
}

// Serve accepts connections on l until Stop.
func (s *Server) Serve(l net.Listener) error {
	return ignoreClosed(s.httpServer.Serve(l))
}

// Stop drains in-flight requests, including payment outcome long polls, until ctx ends.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
