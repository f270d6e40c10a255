// Package logger provides structured logging for Tea Taster.
//
// It wraps log/slog:
//
//   - logger.go: Logger interface, configuration, dynamic level
//   - context.go: context propagation of loggers, request ids, action ids
//   - redact.go: masking of tokens, passcodes and passwords
//
// Libraries that take a *slog.Logger (storage, vault, store, server) get
// one through Slog so that redaction and the level switch still apply.
package logger
