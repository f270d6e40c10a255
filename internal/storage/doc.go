// Package storage provides the key-value storage used by the session vault
// and the local preferences store.
//
// Two engines implement KVEngine:
//
//   - BadgerEngine: Badger v3, on disk (native platform) or in memory
//   - memory.KV: a sharded in-process map (web platform simulation)
//
// Values are opaque bytes; encryption happens in the vault layer above.
package storage
