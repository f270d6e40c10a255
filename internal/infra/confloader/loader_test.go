package confloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	ServerURL string `koanf:"server_url"`
	Vault     struct {
		AuthMode  string        `koanf:"auth_mode"`
		LockAfter time.Duration `koanf:"lock_after"`
	} `koanf:"vault"`
	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestNewLoader_WithOptions(t *testing.T) {
	l := NewLoader(WithEnvPrefix("TEST_"), WithConfigFile("/path/to/config.yaml"))
	if l.envPrefix != "TEST_" {
		t.Errorf("envPrefix = %q, want TEST_", l.envPrefix)
	}
	if l.filePath != "/path/to/config.yaml" || l.optionalFile {
		t.Errorf("filePath = %q optional=%v", l.filePath, l.optionalFile)
	}
	if NewLoader().envPrefix != DefaultEnvPrefix {
		t.Error("default prefix not applied")
	}
}

func TestLoader_LoadFile(t *testing.T) {
	path := writeFile(t, `
server_url: "http://localhost:8080"
vault:
  auth_mode: PasscodeOnly
  lock_after: 5s
`)
	l := NewLoader()
	if err := l.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if got := l.GetString("vault.auth_mode"); got != "PasscodeOnly" {
		t.Errorf("vault.auth_mode = %q", got)
	}
}

func TestLoader_LoadFile_NotFound(t *testing.T) {
	if err := NewLoader().LoadFile("/nonexistent/config.yaml"); err == nil {
		t.Error("LoadFile() expected error for missing file")
	}
}

func TestLoader_Load_Layers(t *testing.T) {
	path := writeFile(t, `
server_url: "http://file"
vault:
  auth_mode: PasscodeOnly
  lock_after: 5s
log:
  level: info
`)
	t.Setenv("TTTEST_SERVER_URL", "http://env")
	t.Setenv("TTTEST_VAULT__LOCK_AFTER", "1m")

	var cfg testConfig
	cfg.Log.Level = "warn"
	l := NewLoader(
		WithEnvPrefix("TTTEST_"),
		WithConfigFile(path),
		WithOverrides(map[string]any{"vault.auth_mode": "SecureStorage"}),
	)
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerURL != "http://env" {
		t.Errorf("ServerURL = %q, env should override file", cfg.ServerURL)
	}
	if cfg.Vault.LockAfter != time.Minute {
		t.Errorf("LockAfter = %v, want 1m", cfg.Vault.LockAfter)
	}
	if cfg.Vault.AuthMode != "SecureStorage" {
		t.Errorf("AuthMode = %q, override should win", cfg.Vault.AuthMode)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoader_Load_KeepsDefaults(t *testing.T) {
	var cfg testConfig
	cfg.ServerURL = "http://default"
	if err := NewLoader(WithEnvPrefix("TTNONE_")).Load(&cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.ServerURL != "http://default" {
		t.Errorf("ServerURL = %q, default should survive", cfg.ServerURL)
	}
}

func TestLoader_Load_OptionalFile(t *testing.T) {
	var cfg testConfig
	l := NewLoader(WithEnvPrefix("TTNONE_"), WithOptionalConfigFile("/nonexistent/c.yaml"))
	if err := l.Load(&cfg); err != nil {
		t.Errorf("Load() with missing optional file = %v", err)
	}

	l = NewLoader(WithEnvPrefix("TTNONE_"), WithConfigFile("/nonexistent/c.yaml"))
	if err := l.Load(&cfg); err == nil {
		t.Error("Load() with missing required file should fail")
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"TEATASTER_SERVER_URL":        "server_url",
		"TEATASTER_VAULT__LOCK_AFTER": "vault.lock_after",
		"TEATASTER_LOG__LEVEL":        "log.level",
	}
	for in, want := range tests {
		if got := EnvKey("TEATASTER_", in); got != want {
			t.Errorf("EnvKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUnflatten(t *testing.T) {
	got := unflatten(map[string]any{"a.b": 1, "a.c": 2, "d": 3})
	a, ok := got["a"].(map[string]any)
	if !ok || a["b"] != 1 || a["c"] != 2 || got["d"] != 3 {
		t.Errorf("unflatten() = %v", got)
	}
}
