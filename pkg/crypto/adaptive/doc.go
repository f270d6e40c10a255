// Package adaptive provides authenticated encryption with automatic
// algorithm selection.
//
// Supported algorithms:
//
//   - AES-256-GCM: preferred where the CPU accelerates AES
//   - ChaCha20-Poly1305: used elsewhere
//
// The vault seals the stored session with a Cipher and binds the vault
// device id as additional data, so a sealed blob copied to another vault
// does not open.
//
// Usage:
//
//	c, err := adaptive.New(key)
//	sealed, err := c.Encrypt(plaintext, deviceID)
//	plaintext, err := c.Decrypt(sealed, deviceID)
package adaptive
