package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yndnr/teataster-go/internal/vault"
)

// Config is the configuration of the teataster client.
type Config struct {
	// DataService is the base URL of the data service.
	DataService string `koanf:"data_service" yaml:"data_service"`

	// DataDir holds the vault and preferences on the native platform.
	DataDir string `koanf:"data_dir" yaml:"data_dir"`

	// Output is the default output format (table, json, yaml).
	Output string `koanf:"output" yaml:"output"`

	// Timeout bounds each request to the data service.
	Timeout time.Duration `koanf:"timeout" yaml:"timeout"`

	TLS   TLSConfig    `koanf:"tls" yaml:"tls"`
	Log   LogConfig    `koanf:"log" yaml:"log"`
	Vault vault.Config `koanf:"vault" yaml:"vault"`
}

// TLSConfig configures https data services.
type TLSConfig struct {
	CAFile             string `koanf:"ca_file" yaml:"ca_file"`
	InsecureSkipVerify bool   `koanf:"insecure_skip_verify" yaml:"insecure_skip_verify"`
}

// LogConfig configures client logging.
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
	// File receives the log. Empty means DataDir/teataster.log; LogToStderr
	// keeps the log on the terminal.
	File string `koanf:"file" yaml:"file"`
}

// LogToStderr as Log.File writes the log to stderr.
const LogToStderr = "stderr"

// DefaultDataDir returns ~/.teataster.
func DefaultDataDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".teataster")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDataDir(), "config.yaml")
}

// Default returns the default client configuration.
func Default() *Config {
	return &Config{
		DataService: "http://localhost:5080",
		DataDir:     DefaultDataDir(),
		Output:      "table",
		Timeout:     30 * time.Second,
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Vault: vault.DefaultConfig(),
	}
}

// VaultDir returns the vault directory, defaulting to DataDir/vault.
func (c *Config) VaultDir() string {
	if c.Vault.Dir != "" {
		return c.Vault.Dir
	}
	return filepath.Join(c.DataDir, "vault")
}

// PreferencesDir returns the preferences directory.
func (c *Config) PreferencesDir() string {
	return filepath.Join(c.DataDir, "preferences")
}

// Sanitize fills derived values.
func (c *Config) Sanitize() {
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir()
	}
	if c.Output == "" {
		c.Output = "table"
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.Log.File == "" {
		c.Log.File = filepath.Join(c.DataDir, "teataster.log")
	}
	c.Vault.Dir = c.VaultDir()
	c.Vault.Sanitize()
}

// Verify validates the configuration.
func (c *Config) Verify() error {
	if c.DataService == "" {
		return fmt.Errorf("data_service is required")
	}
	switch c.Output {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("output: unknown format %q", c.Output)
	}
	if err := c.Vault.Verify(); err != nil {
		return err
	}
	return nil
}
