package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/yndnr/teataster-go/internal/core/domain"
	"github.com/yndnr/teataster-go/internal/core/service"
	"github.com/yndnr/teataster-go/internal/infra/buildinfo"
	"github.com/yndnr/teataster-go/internal/infra/confloader"
	"github.com/yndnr/teataster-go/internal/infra/shutdown"
	"github.com/yndnr/teataster-go/internal/infra/tlsroots"
	"github.com/yndnr/teataster-go/internal/server/config"
	"github.com/yndnr/teataster-go/internal/server/httpserver"
	"github.com/yndnr/teataster-go/internal/storage"
	"github.com/yndnr/teataster-go/internal/storage/memory"
	"github.com/yndnr/teataster-go/internal/telemetry/logger"
	"github.com/yndnr/teataster-go/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		addr        = flag.String("addr", "", "Listen address (overrides server.http.addr)")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("teataster-devserver %s\n", buildinfo.String())
		return nil
	}

	overrides := map[string]any{}
	if *addr != "" {
		overrides["server.http.addr"] = *addr
	}
	cfg, err := config.Load(*configFile, overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)
	sl := logger.Slog(log)

	log.Info("starting teataster-devserver",
		"version", buildinfo.Version,
		"config", *configFile,
		"settings", config.Sanitize(cfg))

	metrics := metric.Global()

	kv, err := initStorage(cfg, sl, metrics)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	accounts, catalog, notes, err := initServices(cfg, kv)
	if err != nil {
		kv.Close()
		return fmt.Errorf("init services: %w", err)
	}

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Accounts:           accounts,
		Catalog:            catalog,
		Notes:              notes,
		Logger:             sl,
		Metrics:            metrics,
		RateLimit:          cfg.Server.RateLimit,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Latency:            cfg.Server.Latency,
	})

	shutdownHandler := shutdown.NewHandler(30 * time.Second)

	var serverOpts []httpserver.Option
	if cfg.Server.HTTP.TLSCertFile != "" {
		certs, err := watchCertificates(cfg.Server.HTTP, sl)
		if err != nil {
			kv.Close()
			return fmt.Errorf("init tls: %w", err)
		}
		serverOpts = append(serverOpts, httpserver.WithTLSConfig(certs.ServerTLSConfig()))
		shutdownHandler.OnShutdown(func(context.Context) error {
			return certs.Close()
		})
	}
	httpServer := httpserver.New(cfg.Server.HTTP, router, serverOpts...)

	// Hooks run in reverse order: HTTP first, then storage.
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("closing storage")
		return kv.Close()
	})
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return httpServer.Shutdown(ctx)
	})

	if *configFile != "" {
		watcher, err := watchConfig(*configFile, sl)
		if err != nil {
			log.Warn("config reload disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown(func(context.Context) error {
				return watcher.Stop()
			})
		}
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	go func() {
		log.Info("HTTP server listening", "addr", cfg.Server.HTTP.Addr, "tls", httpServer.TLS())
		if err := httpServer.ListenAndServe(); err != nil {
			log.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// initStorage opens the note store: Badger under storage.data_dir, or
// memory when it is unset.
func initStorage(cfg *config.ServerConfig, log *slog.Logger, metrics *metric.Registry) (storage.KVEngine, error) {
	if cfg.Storage.DataDir == "" {
		log.Info("storing notes in memory")
		return memory.New(), nil
	}
	engine, err := storage.NewBadgerEngine(storage.DefaultKVConfig(cfg.Storage.DataDir), log)
	if err != nil {
		return nil, err
	}
	log.Info("storing notes in badger", "dir", cfg.Storage.DataDir)
	return engine.RegisterMetrics(metrics.Registerer(), metric.Namespace+"_devserver_notes"), nil
}

// initServices builds the domain services and registers the seed account.
func initServices(cfg *config.ServerConfig, kv storage.KVEngine) (*service.AccountService, *service.CatalogService, *service.NotesService, error) {
	accounts := service.NewAccountService(service.AccountConfig{
		LoginRate: cfg.Server.LoginRate,
		Hash:      service.DefaultHashParams(),
	})
	if _, err := accounts.AddUser(domain.User{
		FirstName: cfg.Seed.FirstName,
		LastName:  cfg.Seed.LastName,
		Email:     cfg.Seed.Email,
	}, cfg.Seed.Password); err != nil {
		return nil, nil, nil, fmt.Errorf("seed account: %w", err)
	}

	catalog := service.NewCatalogService(nil)
	return accounts, catalog, service.NewNotesService(kv, catalog), nil
}

// watchConfig reloads the log level whenever path changes.
func watchConfig(path string, log *slog.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(
		confloader.WithWatcherLogger(log),
		confloader.WithDebounce(100*time.Millisecond),
	)
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(path); err != nil {
		watcher.Stop()
		return nil, err
	}
	watcher.OnChange(func(changed string) {
		cfg, err := config.Load(changed, nil)
		if err != nil {
			log.Warn("ignoring invalid config change", "file", changed, "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level changed", "level", cfg.Log.Level)
		}
	})
	watcher.StartAsync()
	return watcher, nil
}

// watchCertificates loads the HTTPS pair and reloads it when the files are
// rotated.
func watchCertificates(cfg config.HTTPConfig, log *slog.Logger) (*tlsroots.CertReloader, error) {
	certs, err := tlsroots.NewCertReloader(cfg.TLSCertFile, cfg.TLSKeyFile, log)
	if err != nil {
		return nil, err
	}
	if err := certs.Watch(); err != nil {
		log.Warn("certificate reload disabled", "error", err)
	}
	return certs, nil
}
