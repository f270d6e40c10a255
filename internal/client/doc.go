// Package client talks to the Tea Taster data service.
//
//   - connection.go: JSON over HTTP with bearer auth and the 401 hook
//   - auth.go: login, logout and current user
//   - tea.go: tea categories with local images and ratings
//   - notes.go: user tasting notes
//   - preferences.go: small key/value settings (tea ratings)
package client
