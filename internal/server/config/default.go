package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr     = "127.0.0.1:5080"
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 10 * time.Second
	DefaultRateLimit    = 50
	DefaultLoginRate    = 5

	DefaultSeedEmail     = "test@ionic.io"
	DefaultSeedPassword  = "Ion54321"
	DefaultSeedFirstName = "Test"
	DefaultSeedLastName  = "User"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:         DefaultHTTPAddr,
				ReadTimeout:  DefaultReadTimeout,
				WriteTimeout: DefaultWriteTimeout,
			},
			RateLimit: DefaultRateLimit,
			LoginRate: DefaultLoginRate,
		},
		Seed: SeedSection{
			Email:     DefaultSeedEmail,
			Password:  DefaultSeedPassword,
			FirstName: DefaultSeedFirstName,
			LastName:  DefaultSeedLastName,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
