// Package vault implements the secure session vault.
//
// The vault holds at most one Session and moves through the states
// Empty → Unlocked → Locked → Unlocked → Empty. Sessions are sealed with a
// per-login data key; how that key is protected depends on the AuthMode:
//
//   - SecureStorage: key kept in the backend device-key slot, never locks
//   - PasscodeOnly: key wrapped by an argon2id passcode key
//   - BiometricOnly: device-key slot released after a biometric check,
//     optionally also wrapped by a fallback passcode
//   - BiometricAndPasscode: biometric check, then the passcode-wrapped key
//   - InMemoryOnly: key and session live in process memory only
//
// The backend is chosen by Platform: Badger on disk for native, an
// in-process map for web.
package vault
