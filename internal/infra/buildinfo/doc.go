// Package buildinfo exposes version information stamped at build time.
//
//	go build -ldflags "-X github.com/yndnr/teataster-go/internal/infra/buildinfo.Version=v1.0.0"
package buildinfo
