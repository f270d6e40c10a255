// Package config holds the teataster client configuration.
//
// Values come from the YAML file (default ~/.teataster/config.yaml), then
// TEATASTER_* environment variables, then command-line flags.
package config
