package httpserver

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"

	"github.com/yndnr/teataster-go/internal/server/config"
)

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	cfg        config.HTTPConfig
}

// Option configures a Server.
type Option func(*Server)

// WithTLSConfig serves HTTPS with tc. Its GetCertificate takes the place
// of the configured cert and key files.
func WithTLSConfig(tc *tls.Config) Option {
	return func(s *Server) {
		s.httpServer.TLSConfig = tc
	}
}

// New creates a new HTTP server.
func New(cfg config.HTTPConfig, handler http.Handler, opts ...Option) *Server {
	s := &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
		},
		cfg: cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TLS reports whether the server is configured for HTTPS.
func (s *Server) TLS() bool {
	return s.ownCertificates() || (s.cfg.TLSCertFile != "" && s.cfg.TLSKeyFile != "")
}

func (s *Server) ownCertificates() bool {
	tc := s.httpServer.TLSConfig
	return tc != nil && (tc.GetCertificate != nil || len(tc.Certificates) > 0)
}

// ListenAndServe listens on the configured address and serves HTTP or
// HTTPS. It returns nil after Shutdown.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln.
func (s *Server) Serve(ln net.Listener) error {
	var err error
	switch {
	case s.ownCertificates():
		err = s.httpServer.ServeTLS(ln, "", "")
	case s.TLS():
		err = s.httpServer.ServeTLS(ln, s.cfg.TLSCertFile, s.cfg.TLSKeyFile)
	default:
		err = s.httpServer.Serve(ln)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
