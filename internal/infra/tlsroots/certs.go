package tlsroots

import (
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/yndnr/teataster-go/internal/infra/confloader"
)

// ErrNoCertificate is returned by GetCertificate before a pair was loaded.
var ErrNoCertificate = errors.New("tlsroots: no certificate loaded")

// CertReloader serves a server certificate pair and reloads it when either
// file changes on disk.
type CertReloader struct {
	certFile string
	keyFile  string
	cert     atomic.Pointer[tls.Certificate]
	watcher  *confloader.Watcher
	logger   *slog.Logger
}

// NewCertReloader loads the pair once. Call Watch to follow changes.
func NewCertReloader(certFile, keyFile string, logger *slog.Logger) (*CertReloader, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &CertReloader{certFile: certFile, keyFile: keyFile, logger: logger}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload reads the pair again. On failure the previous certificate stays
// in use.
func (r *CertReloader) Reload() error {
	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return fmt.Errorf("tlsroots: load key pair: %w", err)
	}
	r.cert.Store(&cert)
	return nil
}

// reloadDelay lets a rotation finish writing both files before reloading.
const reloadDelay = 250 * time.Millisecond

// Watch reloads the pair once the cert and key files stop changing. A pair
// that still fails to load leaves the previous certificate in place.
func (r *CertReloader) Watch() error {
	w, err := confloader.NewWatcher(
		confloader.WithWatcherLogger(r.logger),
		confloader.WithDebounce(reloadDelay),
	)
	if err != nil {
		return fmt.Errorf("tlsroots: create watcher: %w", err)
	}
	for _, f := range []string{r.certFile, r.keyFile} {
		if err := w.Watch(f); err != nil {
			w.Stop()
			return fmt.Errorf("tlsroots: watch %s: %w", filepath.Base(f), err)
		}
	}
	w.OnChange(func(path string) {
		if err := r.Reload(); err != nil {
			r.logger.Warn("certificate reload failed", "file", path, "error", err)
			return
		}
		r.logger.Info("certificate reloaded", "cert_file", r.certFile)
	})
	r.watcher = w
	w.StartAsync()
	return nil
}

// GetCertificate implements tls.Config.GetCertificate.
func (r *CertReloader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	cert := r.cert.Load()
	if cert == nil {
		return nil, ErrNoCertificate
	}
	return cert, nil
}

// ServerTLSConfig returns a server config that always presents the
// latest certificate.
func (r *CertReloader) ServerTLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion:     tls.VersionTLS12,
		GetCertificate: r.GetCertificate,
	}
}

// Close stops watching.
func (r *CertReloader) Close() error {
	if r.watcher == nil {
		return nil
	}
	return r.watcher.Stop()
}
