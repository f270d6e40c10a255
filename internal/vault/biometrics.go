package vault

import (
	"context"

	"github.com/yndnr/teataster-go/internal/core/domain"
)

// Biometrics is the device biometric capability.
type Biometrics interface {
	// Available reports whether biometric auth can be used.
	Available(ctx context.Context) bool

	// Authenticate runs a biometric check. It returns nil on success.
	Authenticate(ctx context.Context, reason string) error
}

// NoBiometrics reports biometrics as unavailable.
type NoBiometrics struct{}

// Available implements Biometrics.
func (NoBiometrics) Available(context.Context) bool { return false }

// Authenticate implements Biometrics.
func (NoBiometrics) Authenticate(context.Context, string) error {
	return domain.ErrBiometricsUnavailable
}

// StaticBiometrics is an available sensor that always gives the same
// answer. Tests and the simulated web platform use it.
type StaticBiometrics struct {
	Approve bool
}

// Available implements Biometrics.
func (StaticBiometrics) Available(context.Context) bool { return true }

// Authenticate implements Biometrics.
func (b StaticBiometrics) Authenticate(context.Context, string) error {
	if b.Approve {
		return nil
	}
	return domain.ErrBiometricsFailed
}
