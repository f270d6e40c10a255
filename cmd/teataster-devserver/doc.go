// Package main provides the entry point for teataster-devserver.
//
// The dev server stands in for the Tea Taster data service:
//
//   - Login and logout with bearer tokens for a seeded account
//   - The tea category catalog
//   - Per-user tasting notes, in memory or in Badger on disk
//   - Health and Prometheus metrics endpoints
//
// Usage:
//
//	teataster-devserver [flags]
//	teataster-devserver --config /path/to/devserver.yaml
//
// Editing the config file while the server runs reloads the log level.
package main
