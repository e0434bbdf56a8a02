package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(string, string, ...interface{})  {}
func (noopLogger) Errorf(string, string, ...interface{}) {}

type HTTPServer struct {
	Addr    string
	Handler http.Handler
	Logger  Logger

	mu     sync.Mutex
	srv    *http.Server
	ln     net.Listener
	closed bool
}

func NewHTTPServer(cfg ServerConfig, handler http.Handler) *HTTPServer {
	if cfg.DevMode {
		handler = WithDevCORS(handler)
	}
	return &HTTPServer{Addr: cfg.ListenAddr, Handler: handler, Logger: noopLogger{}}
}

// Start listens on Addr and serves in the background until Stop or ctx
// cancellation. Addr is updated to the bound address.
func (s *HTTPServer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("web server already stopped")
	}
	if s.srv != nil {
		return nil
	}

	s.srv = &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		s.srv = nil
		return fmt.Errorf("listen %s: %w", s.Addr, err)
	}
	s.ln = ln
	s.Addr = ln.Addr().String()

	go func() {
		<-ctx.Done()
		_ = s.Stop()
	}()

	srv := s.srv
	go func() {
		err := srv.Serve(ln)
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return
		}
		s.logger().Errorf("web", "serve: %v", err)
	}()

	s.logger().Infof("web", "listening on %s", s.Addr)
	return nil
}

func (s *HTTPServer) Stop() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	srv := s.srv
	ln := s.ln
	s.srv = nil
	s.ln = nil
	s.mu.Unlock()

	if ln != nil {
		_ = ln.Close()
	}
	if srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func (s *HTTPServer) logger() Logger {
	if s.Logger == nil {
		return noopLogger{}
	}
	return s.Logger
}
