package config

import (
	"fmt"

	"github.com/yndnr/teataster-go/internal/infra/confloader"
)

// EnvPrefix prefixes the dev server environment variables.
const EnvPrefix = "TEATASTER_DEVSERVER_"

// Load reads path (when set) over the defaults, then the environment and
// the flat overrides, and verifies the result.
func Load(path string, overrides map[string]any) (*ServerConfig, error) {
	cfg := Default()

	opts := []confloader.Option{
		confloader.WithEnvPrefix(EnvPrefix),
		confloader.WithOverrides(overrides),
	}
	if path != "" {
		opts = append(opts, confloader.WithConfigFile(path))
	}
	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}

	if err := Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
