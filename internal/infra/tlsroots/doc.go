// Package tlsroots manages TLS material on both sides of the data service
// connection.
//
//   - roots.go: the root CA pool the client trusts when the data service
//     is reached over HTTPS with a private CA
//   - certs.go: the dev server certificate pair, reloaded when the files
//     change
package tlsroots
