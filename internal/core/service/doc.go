// Package service implements the data service behind the dev server.
//
// This package contains:
//
//   - AccountService: user accounts, password checks and bearer tokens
//   - CatalogService: the tea categories
//   - NotesService: per-user tasting notes on a storage.KVEngine
//
// Services are safe for concurrent use.
package service
