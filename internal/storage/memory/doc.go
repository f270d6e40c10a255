// Package memory provides an in-process KVEngine.
//
// It backs the vault on the web platform, where a browser offers no secure
// storage: data lives as long as the process and is never written to disk.
package memory
