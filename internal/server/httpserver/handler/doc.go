// Package handler provides HTTP request handlers for the Tea Taster dev
// server.
//
// This package contains handlers for all HTTP endpoints:
//
//   - auth.go: login, logout and the current user
//   - teas.go: tea categories
//   - notes.go: tasting note CRUD
//   - health.go: health check
//
// All handlers follow a consistent pattern:
//
//   - Parse and validate request
//   - Call domain service
//   - Write the raw JSON body the mobile client expects
//   - Map domain errors to HTTP status codes
package handler
