package config

import "time"

// ServerConfig is the root configuration for teataster-devserver.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Storage StorageSection `koanf:"storage"`
	Seed    SeedSection    `koanf:"seed"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures the HTTP endpoint.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`

	// RateLimit is the per-client request rate (requests/second). Zero
	// disables limiting.
	RateLimit int `koanf:"rate_limit"`

	// LoginRate is the per-email login attempt rate (attempts/second).
	LoginRate int `koanf:"login_rate"`

	// CORSAllowedOrigins lists browser origins allowed to call the API.
	// Empty allows all.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// Latency delays every API response, to exercise client spinners
	// and timeouts.
	Latency time.Duration `koanf:"latency"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr         string        `koanf:"addr"`
	TLSCertFile  string        `koanf:"tls_cert_file"`
	TLSKeyFile   string        `koanf:"tls_key_file"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// StorageSection configures where tasting notes live.
type StorageSection struct {
	// DataDir keeps notes in Badger on disk. Empty keeps them in memory.
	DataDir string `koanf:"data_dir"`
}

// SeedSection is the account created at startup.
type SeedSection struct {
	Email     string `koanf:"email"`
	Password  string `koanf:"password"`
	FirstName string `koanf:"first_name"`
	LastName  string `koanf:"last_name"`
}

// LogSection configures logging. Level is reloaded when the config file
// changes.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
