// Package config provides the teataster-devserver configuration.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: default values
//   - verify.go: validation
//   - sanitize.go: masking of secrets for logging
//   - loader.go: file, TEATASTER_DEVSERVER_ environment, flag overrides
package config
