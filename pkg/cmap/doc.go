// Package cmap provides a concurrent map sharded by key hash.
//
// Usage:
//
//	m := cmap.New[[]byte]()
//	m.Set("auth-session", sealed)
//	val, ok := m.Get("auth-session")
//
// All operations are safe for concurrent use. Reads take a shard RLock,
// writes take the shard Lock. Range walks shard by shard, so it does not
// observe a single consistent snapshot.
package cmap
