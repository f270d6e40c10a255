package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.HTTP.Addr != DefaultHTTPAddr {
		t.Errorf("HTTP.Addr = %q, want %q", cfg.Server.HTTP.Addr, DefaultHTTPAddr)
	}
	if cfg.Server.RateLimit != DefaultRateLimit {
		t.Errorf("RateLimit = %d, want %d", cfg.Server.RateLimit, DefaultRateLimit)
	}
	if cfg.Seed.Email != DefaultSeedEmail {
		t.Errorf("Seed.Email = %q, want %q", cfg.Seed.Email, DefaultSeedEmail)
	}
	if cfg.Storage.DataDir != "" {
		t.Errorf("expected in-memory storage by default, got %q", cfg.Storage.DataDir)
	}
	if err := Verify(cfg); err != nil {
		t.Errorf("default config should verify: %v", err)
	}
}

func TestSanitize(t *testing.T) {
	cfg := Default()
	cfg.Seed.Password = "super-secret"

	sanitized := Sanitize(cfg)
	if cfg.Seed.Password != "super-secret" {
		t.Error("original config should not be modified")
	}
	if sanitized.Seed.Password != "su********et" {
		t.Errorf("unexpected masked password %q", sanitized.Seed.Password)
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a", "****"},
		{"abcd", "****"},
		{"abcde", "ab*de"},
		{"1234567890", "12******90"},
	}
	for _, tt := range tests {
		if result := maskSecret(tt.input); result != tt.expected {
			t.Errorf("maskSecret(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr bool
	}{
		{"valid", func(*ServerConfig) {}, false},
		{"bad addr", func(c *ServerConfig) { c.Server.HTTP.Addr = "localhost" }, true},
		{"cert without key", func(c *ServerConfig) { c.Server.HTTP.TLSCertFile = "cert.pem" }, true},
		{"missing cert files", func(c *ServerConfig) {
			c.Server.HTTP.TLSCertFile = "/nonexistent/cert.pem"
			c.Server.HTTP.TLSKeyFile = "/nonexistent/key.pem"
		}, true},
		{"negative rate", func(c *ServerConfig) { c.Server.RateLimit = -1 }, true},
		{"negative latency", func(c *ServerConfig) { c.Server.Latency = -time.Second }, true},
		{"seed without at", func(c *ServerConfig) { c.Seed.Email = "test" }, true},
		{"seed without password", func(c *ServerConfig) { c.Seed.Password = "" }, true},
		{"no seed", func(c *ServerConfig) { c.Seed = SeedSection{} }, false},
		{"bad level", func(c *ServerConfig) { c.Log.Level = "loud" }, true},
		{"bad format", func(c *ServerConfig) { c.Log.Format = "xml" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := Verify(cfg); (err != nil) != tt.wantErr {
				t.Errorf("Verify() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestVerify_CreatesDataDir(t *testing.T) {
	cfg := Default()
	cfg.Storage.DataDir = filepath.Join(t.TempDir(), "sub", "data")
	if err := Verify(cfg); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(cfg.Storage.DataDir); err != nil {
		t.Errorf("data directory not created: %v", err)
	}
}

func TestLoad_Layers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devserver.yaml")
	content := `
server:
  http:
    addr: "127.0.0.1:6000"
  rate_limit: 10
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TEATASTER_DEVSERVER_SEED__EMAIL", "env@ionic.io")

	cfg, err := Load(path, map[string]any{"log.level": "warn"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.HTTP.Addr != "127.0.0.1:6000" || cfg.Server.RateLimit != 10 {
		t.Errorf("file values not applied: %+v", cfg.Server)
	}
	if cfg.Seed.Email != "env@ionic.io" {
		t.Errorf("env value not applied: %q", cfg.Seed.Email)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("override not applied: %q", cfg.Log.Level)
	}
	if cfg.Server.HTTP.ReadTimeout != DefaultReadTimeout {
		t.Errorf("default lost: %v", cfg.Server.HTTP.ReadTimeout)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Error("expected error for an explicit missing config file")
	}
}
