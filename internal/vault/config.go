package vault

import (
	"fmt"
	"time"

	"github.com/yndnr/teataster-go/internal/core/domain"
	"github.com/yndnr/teataster-go/pkg/crypto/adaptive"
)

// Platform selects the storage backend.
type Platform string

const (
	// PlatformNative stores the vault in Badger under Config.Dir.
	PlatformNative Platform = "native"
	// PlatformWeb keeps the vault in process memory.
	PlatformWeb Platform = "web"
)

// DefaultKey is the backend key the sealed session is stored under.
const DefaultKey = "auth-session"

// DefaultMaxFailedAttempts is the failed unlock limit when clearing is on.
const DefaultMaxFailedAttempts = 5

// Config holds vault configuration.
type Config struct {
	// UnlockOnAccess makes RestoreSession prompt for an unlock when locked.
	UnlockOnAccess bool `koanf:"unlock_on_access" yaml:"unlock_on_access"`

	// HideScreenOnBackground asks the UI to blank itself when the vault locks.
	HideScreenOnBackground bool `koanf:"hide_screen_on_background" yaml:"hide_screen_on_background"`

	// LockAfter locks the vault after this much inactivity. 0 disables.
	LockAfter time.Duration `koanf:"lock_after" yaml:"lock_after"`

	// AllowSystemPinFallback lets a failed biometric check fall back to
	// the passcode prompt in BiometricOnly mode.
	AllowSystemPinFallback bool `koanf:"allow_system_pin_fallback" yaml:"allow_system_pin_fallback"`

	// ShouldClearVaultAfterTooManyFailedAttempts clears the vault once
	// MaxFailedAttempts consecutive unlocks fail.
	ShouldClearVaultAfterTooManyFailedAttempts bool `koanf:"clear_after_failed_attempts" yaml:"clear_after_failed_attempts"`

	// MaxFailedAttempts is the failed unlock limit. Default: 5.
	MaxFailedAttempts int `koanf:"max_failed_attempts" yaml:"max_failed_attempts"`

	// AuthMode is the unlock policy.
	AuthMode domain.AuthMode `koanf:"auth_mode" yaml:"auth_mode"`

	// Platform selects the backend (native, web).
	Platform Platform `koanf:"platform" yaml:"platform"`

	// Dir is the Badger directory for the native platform.
	Dir string `koanf:"dir" yaml:"dir"`

	// Key is the backend key of the sealed session. Default: auth-session.
	Key string `koanf:"key" yaml:"key"`

	// Cipher is the AEAD algorithm (aes-gcm, chacha20-poly1305).
	// Empty picks the preferred one for this CPU.
	Cipher string `koanf:"cipher" yaml:"cipher"`
}

// DefaultConfig returns the default vault configuration.
func DefaultConfig() Config {
	return Config{
		UnlockOnAccess:    true,
		LockAfter:         5 * time.Minute,
		MaxFailedAttempts: DefaultMaxFailedAttempts,
		AuthMode:          domain.AuthModeSecureStorage,
		Platform:          PlatformNative,
		Key:               DefaultKey,
	}
}

// Verify validates the configuration.
func (c *Config) Verify() error {
	if _, err := domain.ParseAuthMode(string(c.AuthMode)); err != nil {
		return fmt.Errorf("vault.auth_mode: %w", err)
	}
	switch c.Platform {
	case PlatformNative:
		if c.Dir == "" {
			return fmt.Errorf("vault.dir is required for the native platform")
		}
	case PlatformWeb:
	default:
		return fmt.Errorf("vault.platform: unknown platform %q", c.Platform)
	}
	if c.LockAfter < 0 {
		return fmt.Errorf("vault.lock_after must not be negative")
	}
	if c.MaxFailedAttempts < 0 {
		return fmt.Errorf("vault.max_failed_attempts must not be negative")
	}
	if _, err := adaptive.ParseCipherType(c.Cipher); err != nil {
		return fmt.Errorf("vault.cipher: %w", err)
	}
	return nil
}

// Sanitize fills zero values with defaults and normalizes the auth mode.
func (c *Config) Sanitize() {
	if c.Key == "" {
		c.Key = DefaultKey
	}
	if c.MaxFailedAttempts == 0 {
		c.MaxFailedAttempts = DefaultMaxFailedAttempts
	}
	if c.Platform == "" {
		c.Platform = PlatformNative
	}
	if c.AuthMode == "" {
		c.AuthMode = domain.AuthModeSecureStorage
	} else if m, err := domain.ParseAuthMode(string(c.AuthMode)); err == nil {
		c.AuthMode = m
	}
}
