// Package domain defines the core domain models for Tea Taster.
//
// Domain models are pure value objects without any IO dependencies or
// framework coupling. This package contains:
//
//   - Session and User: the authenticated identity held by the vault
//   - Tea and TastingNote: catalog and note entities
//   - AuthMode: the unlock policy of the session vault
//   - Errors: coded domain errors shared by every layer
package domain
