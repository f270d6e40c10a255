package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, cfg KVConfig) *BadgerEngine {
	t.Helper()
	engine, err := NewBadgerEngine(cfg, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { engine.Close() })
	return engine
}

func TestBadgerEngine_BasicOperations(t *testing.T) {
	configs := map[string]KVConfig{
		"disk":   DefaultKVConfig(t.TempDir()),
		"memory": InMemoryKVConfig(),
	}

	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			engine := newTestEngine(t, cfg)
			ctx := context.Background()

			t.Run("Set and Get", func(t *testing.T) {
				if err := engine.Set(ctx, []byte("auth-session"), []byte("sealed")); err != nil {
					t.Fatal(err)
				}
				got, err := engine.Get(ctx, []byte("auth-session"))
				if err != nil {
					t.Fatal(err)
				}
				if string(got) != "sealed" {
					t.Errorf("expected sealed, got %s", got)
				}
			})

			t.Run("Get non-existent key", func(t *testing.T) {
				_, err := engine.Get(ctx, []byte("non-existent"))
				if !errors.Is(err, ErrKeyNotFound) {
					t.Errorf("expected ErrKeyNotFound, got %v", err)
				}
			})

			t.Run("Delete", func(t *testing.T) {
				key := []byte("rating1")
				if err := engine.Set(ctx, key, []byte("4")); err != nil {
					t.Fatal(err)
				}
				if err := engine.Delete(ctx, key); err != nil {
					t.Fatal(err)
				}
				if _, err := engine.Get(ctx, key); !errors.Is(err, ErrKeyNotFound) {
					t.Errorf("expected ErrKeyNotFound after delete, got %v", err)
				}
				if err := engine.Delete(ctx, []byte("never-set")); err != nil {
					t.Errorf("deleting a missing key: %v", err)
				}
			})
		})
	}
}

func TestBadgerEngine_Persistence(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	engine, err := NewBadgerEngine(DefaultKVConfig(dir), discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if err := engine.Set(ctx, []byte("vault.meta"), []byte("meta")); err != nil {
		t.Fatal(err)
	}
	if err := engine.Close(); err != nil {
		t.Fatal(err)
	}

	reopened := newTestEngine(t, DefaultKVConfig(dir))
	got, err := reopened.Get(ctx, []byte("vault.meta"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "meta" {
		t.Errorf("expected meta, got %s", got)
	}
}

func TestBadgerEngine_Scan(t *testing.T) {
	engine := newTestEngine(t, InMemoryKVConfig())
	ctx := context.Background()

	testData := map[string]string{
		"rating1":    "3",
		"rating2":    "5",
		"rating3":    "1",
		"vault.meta": "data",
	}
	for k, v := range testData {
		if err := engine.Set(ctx, []byte(k), []byte(v)); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("Scan with prefix", func(t *testing.T) {
		var results []string
		err := engine.Scan(ctx, []byte("rating"), func(key, value []byte) bool {
			results = append(results, string(value))
			return true
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 3 {
			t.Errorf("expected 3 results, got %d", len(results))
		}
	})

	t.Run("Scan with early stop", func(t *testing.T) {
		count := 0
		err := engine.Scan(ctx, []byte("rating"), func(key, value []byte) bool {
			count++
			return count < 2
		})
		if err != nil {
			t.Fatal(err)
		}
		if count != 2 {
			t.Errorf("expected 2 iterations, got %d", count)
		}
	})
}

func TestBadgerEngine_Closed(t *testing.T) {
	engine, err := NewBadgerEngine(InMemoryKVConfig(), discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if err := engine.Close(); err != nil {
		t.Fatal(err)
	}
	if err := engine.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}

	ctx := context.Background()
	if _, err := engine.Get(ctx, []byte("k")); !errors.Is(err, ErrClosed) {
		t.Errorf("Get after close = %v, want ErrClosed", err)
	}
	if err := engine.Set(ctx, []byte("k"), []byte("v")); !errors.Is(err, ErrClosed) {
		t.Errorf("Set after close = %v, want ErrClosed", err)
	}
}

func TestBadgerEngine_ContextCancelled(t *testing.T) {
	engine := newTestEngine(t, InMemoryKVConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := engine.Set(ctx, []byte("k"), []byte("v")); !errors.Is(err, context.Canceled) {
		t.Errorf("Set() = %v, want context.Canceled", err)
	}
}

func TestBadgerEngine_RequiresDir(t *testing.T) {
	if _, err := NewBadgerEngine(KVConfig{}, discardLogger()); err == nil {
		t.Error("expected error for empty dir")
	}
}

func TestBadgerEngine_GC(t *testing.T) {
	engine := newTestEngine(t, DefaultKVConfig(t.TempDir()))
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		if err := engine.Set(ctx, []byte{byte(i)}, make([]byte, 1000)); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 50; i++ {
		if err := engine.Delete(ctx, []byte{byte(i)}); err != nil {
			t.Fatal(err)
		}
	}

	if err := engine.GC(ctx); err != nil {
		t.Fatal(err)
	}
	if engine.Stats().LastGCTime == 0 {
		t.Error("expected LastGCTime to be recorded")
	}
}

func TestBadgerEngine_GCInMemory(t *testing.T) {
	engine := newTestEngine(t, InMemoryKVConfig())
	if err := engine.GC(context.Background()); err != nil {
		t.Errorf("GC() in memory = %v, want nil", err)
	}
}

func TestBadgerEngine_RegisterMetrics(t *testing.T) {
	engine := newTestEngine(t, InMemoryKVConfig())
	registry := prometheus.NewRegistry()
	engine.RegisterMetrics(registry, "teataster")

	families, err := registry.Gather()
	if err != nil {
		t.Fatal(err)
	}
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"teataster_badger_lsm_size_bytes",
		"teataster_badger_value_log_size_bytes",
	} {
		if !names[want] {
			t.Errorf("metric %s not registered", want)
		}
	}
}
