package domain

import (
	"fmt"
	"strings"
)

// AuthMode is the unlock policy of the session vault.
type AuthMode string

const (
	// AuthModePasscodeOnly unlocks with a user passcode.
	AuthModePasscodeOnly AuthMode = "PasscodeOnly"
	// AuthModeBiometricOnly unlocks with biometrics only.
	AuthModeBiometricOnly AuthMode = "BiometricOnly"
	// AuthModeBiometricAndPasscode requires biometrics and a passcode.
	AuthModeBiometricAndPasscode AuthMode = "BiometricAndPasscode"
	// AuthModeSecureStorage stores the session under a device key and never locks.
	AuthModeSecureStorage AuthMode = "SecureStorage"
	// AuthModeInMemoryOnly keeps the session in process memory only.
	AuthModeInMemoryOnly AuthMode = "InMemoryOnly"
)

// authModeAliases maps the short CLI names to modes.
var authModeAliases = map[string]AuthMode{
	"passcode":  AuthModePasscodeOnly,
	"biometric": AuthModeBiometricOnly,
	"both":      AuthModeBiometricAndPasscode,
	"secure":    AuthModeSecureStorage,
	"memory":    AuthModeInMemoryOnly,
}

// ParseAuthMode accepts a mode name (case-insensitive) or a short alias.
func ParseAuthMode(s string) (AuthMode, error) {
	s = strings.TrimSpace(s)
	if m, ok := authModeAliases[strings.ToLower(s)]; ok {
		return m, nil
	}
	for _, m := range []AuthMode{
		AuthModePasscodeOnly,
		AuthModeBiometricOnly,
		AuthModeBiometricAndPasscode,
		AuthModeSecureStorage,
		AuthModeInMemoryOnly,
	} {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", ErrInvalidArgument.WithDetails(fmt.Sprintf("unknown auth mode %q", s))
}

// UsesPasscode reports whether unlocking needs the user's passcode.
func (m AuthMode) UsesPasscode() bool {
	return m == AuthModePasscodeOnly || m == AuthModeBiometricAndPasscode
}

// UsesBiometrics reports whether unlocking needs a biometric check.
func (m AuthMode) UsesBiometrics() bool {
	return m == AuthModeBiometricOnly || m == AuthModeBiometricAndPasscode
}

// Lockable reports whether a vault in this mode can enter the locked state.
func (m AuthMode) Lockable() bool {
	return m.UsesPasscode() || m.UsesBiometrics()
}

// Persistent reports whether the session is written to the backend.
func (m AuthMode) Persistent() bool {
	return m != AuthModeInMemoryOnly
}
