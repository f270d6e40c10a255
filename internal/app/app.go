package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/yndnr/teataster-go/internal/cli/config"
	"github.com/yndnr/teataster-go/internal/client"
	"github.com/yndnr/teataster-go/internal/core/domain"
	"github.com/yndnr/teataster-go/internal/effects"
	"github.com/yndnr/teataster-go/internal/infra/tlsroots"
	"github.com/yndnr/teataster-go/internal/storage"
	"github.com/yndnr/teataster-go/internal/storage/memory"
	"github.com/yndnr/teataster-go/internal/store"
	"github.com/yndnr/teataster-go/internal/telemetry/logger"
	"github.com/yndnr/teataster-go/internal/telemetry/metric"
	"github.com/yndnr/teataster-go/internal/vault"
)

// App is a running teataster client.
type App struct {
	cfg     *config.Config
	log     logger.Logger
	logFile io.Closer
	metrics *metric.Registry

	vault *vault.SessionVault
	prefs storage.KVEngine
	conn  *client.Connection

	Auth  *client.AuthService
	Teas  *client.TeaService
	Notes *client.TastingNotesService

	store *store.Store
	nav   *Navigator

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

type options struct {
	prompter   vault.Prompter
	biometrics vault.Biometrics
	logger     logger.Logger
	metrics    *metric.Registry
	kdf        *vault.KDFParams
}

// Option configures New.
type Option func(*options)

// WithPrompter sets the passcode prompt shown by the vault.
func WithPrompter(p vault.Prompter) Option {
	return func(o *options) {
		o.prompter = p
	}
}

// WithBiometrics sets the biometric authenticator.
func WithBiometrics(b vault.Biometrics) Option {
	return func(o *options) {
		o.biometrics = b
	}
}

// WithLogger replaces the logger built from the log config.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics sets the metric registry. Default: metric.Global().
func WithMetrics(m *metric.Registry) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithKDFParams sets the passcode key derivation cost.
func WithKDFParams(p vault.KDFParams) Option {
	return func(o *options) {
		o.kdf = &p
	}
}

// New builds the client from cfg. Call Start before dispatching and Close
// when done.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	cfg.Sanitize()
	if err := cfg.Verify(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	a := &App{cfg: cfg, nav: NewNavigator()}

	if o.logger != nil {
		a.log = o.logger
	} else {
		l, closer, err := newLogger(cfg.Log)
		if err != nil {
			return nil, err
		}
		a.log, a.logFile = l, closer
		logger.SetDefault(l)
	}
	sl := logger.Slog(a.log)

	a.metrics = o.metrics
	if a.metrics == nil {
		a.metrics = metric.Global()
	}

	a.store = store.New(store.WithLogger(sl), store.WithMetrics(a.metrics))

	vopts := []vault.Option{
		vault.WithUnlockRecorder(a.metrics),
		vault.WithLogger(sl),
	}
	if o.prompter != nil {
		vopts = append(vopts, vault.WithPrompter(o.prompter))
	}
	if o.biometrics != nil {
		vopts = append(vopts, vault.WithBiometrics(o.biometrics))
	}
	if o.kdf != nil {
		vopts = append(vopts, vault.WithKDFParams(*o.kdf))
	}
	v, err := vault.Open(ctx, cfg.Vault, vopts...)
	if err != nil {
		a.closeLog()
		return nil, fmt.Errorf("open vault: %w", err)
	}
	a.vault = v

	prefs, err := a.openPreferences(sl)
	if err != nil {
		v.Close()
		a.closeLog()
		return nil, err
	}
	a.prefs = prefs

	connOpts := []client.ConnectionOption{
		client.WithTokenSource(v),
		client.WithUnauthorizedHandler(func(context.Context) {
			a.store.Dispatch(store.UnauthError())
		}),
		client.WithTimeout(cfg.Timeout),
		client.WithConnectionLogger(sl),
	}
	if strings.HasPrefix(cfg.DataService, "https://") || cfg.TLS.CAFile != "" {
		tlsCfg, err := tlsroots.ClientTLSConfig(cfg.TLS.CAFile, cfg.TLS.InsecureSkipVerify)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("tls config: %w", err)
		}
		connOpts = append(connOpts, client.WithTLSConfig(tlsCfg))
	}
	a.conn = client.NewConnection(cfg.DataService, connOpts...)

	a.Auth = client.NewAuthService(a.conn)
	a.Teas = client.NewTeaService(a.conn, client.NewPreferences(prefs))
	a.Notes = client.NewTastingNotesService(a.conn)

	a.store.Register(effects.NewAuthEffects(v, a.Auth, a.log).Effects()...)
	a.store.Register(effects.NewDataEffects(a.Teas, a.Notes, a.log).Effects()...)
	a.store.Register(effects.NewNavigationEffects(a.nav).Effects()...)

	v.SetNotifier(storeNotifier{store: a.store})
	return a, nil
}

func newLogger(cfg config.LogConfig) (logger.Logger, io.Closer, error) {
	lc := logger.Config{Level: cfg.Level, Format: cfg.Format}
	if cfg.File == "" || cfg.File == config.LogToStderr {
		l, err := logger.New(lc)
		return l, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o700); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	lc.Output = f
	l, err := logger.New(lc)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return l, f, nil
}

// openPreferences opens the rating store next to the vault. Web keeps it
// in memory like the vault itself.
func (a *App) openPreferences(sl *slog.Logger) (storage.KVEngine, error) {
	if a.cfg.Vault.Platform == vault.PlatformWeb {
		return memory.New(), nil
	}
	engine, err := storage.NewBadgerEngine(storage.DefaultKVConfig(a.cfg.PreferencesDir()), sl)
	if err != nil {
		return nil, fmt.Errorf("open preferences: %w", err)
	}
	return engine.RegisterMetrics(a.metrics.Registerer(), metric.Namespace+"_preferences"), nil
}

// Start runs the store loop until ctx ends or Close is called.
func (a *App) Start(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(logger.WithLogger(ctx, a.log))
	a.done = make(chan struct{})
	go func() {
		defer close(a.done)
		if err := a.store.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.log.Error("store stopped", "error", err)
		}
	}()
}

// Restore loads a persisted session into the store. A locked vault with
// UnlockOnAccess prompts here. It returns nil when there is no session.
func (a *App) Restore(ctx context.Context) (*domain.Session, error) {
	session, err := a.vault.RestoreSession(ctx)
	if err != nil {
		return nil, err
	}
	if session != nil {
		a.nav.NavigateRoot(ctx, effects.RouteRoot)
	}
	return session, nil
}

// Store returns the application store.
func (a *App) Store() *store.Store {
	return a.store
}

// Vault returns the session vault.
func (a *App) Vault() *vault.SessionVault {
	return a.vault
}

// Navigator returns the page tracker.
func (a *App) Navigator() *Navigator {
	return a.nav
}

// Config returns the client configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Logger returns the application logger.
func (a *App) Logger() logger.Logger {
	return a.log
}

// Metrics returns the metric registry.
func (a *App) Metrics() *metric.Registry {
	return a.metrics
}

// Close stops the store and releases the vault and preferences. It is safe
// to call more than once.
func (a *App) Close() error {
	var errs []error
	a.once.Do(func() {
		if a.cancel != nil {
			a.cancel()
			<-a.done
		}
		if a.vault != nil {
			errs = append(errs, a.vault.Close())
		}
		if a.prefs != nil {
			errs = append(errs, a.prefs.Close())
		}
		a.closeLog()
	})
	return errors.Join(errs...)
}

func (a *App) closeLog() {
	if a.logFile != nil {
		a.logFile.Close()
		a.logFile = nil
	}
}
