// Package token generates and hashes bearer tokens.
//
// Token format: "tt_" followed by 43 characters of base64 RawURL encoded
// random bytes. The dev data service keeps only the SHA-256 hex hash of
// each issued token and compares hashes in constant time.
package token
