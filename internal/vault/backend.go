package vault

import (
	"fmt"
	"log/slog"

	"github.com/yndnr/teataster-go/internal/storage"
	"github.com/yndnr/teataster-go/internal/storage/memory"
)

// OpenBackend opens the storage backend for cfg.Platform.
func OpenBackend(cfg Config, logger *slog.Logger) (storage.KVEngine, error) {
	switch cfg.Platform {
	case PlatformNative, "":
		engine, err := storage.NewBadgerEngine(storage.DefaultKVConfig(cfg.Dir), logger)
		if err != nil {
			return nil, fmt.Errorf("open native vault backend: %w", err)
		}
		return engine, nil
	case PlatformWeb:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown vault platform %q", cfg.Platform)
	}
}
