// Package domain defines the core domain models for Tea Taster.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
// Codes use the form TT-<AREA>-<NNNN>; the last four digits mirror the HTTP
// status family the error maps to.
type DomainError struct {
	Code    string // Error code (e.g., "TT-VAULT-4230")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// UserMessage returns the message of the outermost DomainError in err's
// chain, or "" when err carries no domain message. Transport failures and
// other foreign errors have no user-facing message.
func UserMessage(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}

// ============================================================================
// Authentication Errors (AUTH)
// ============================================================================

var (
	// ErrInvalidCredentials indicates the email/password pair was rejected.
	ErrInvalidCredentials = NewDomainError("TT-AUTH-4010", "Invalid email or password")

	// ErrUnauthenticated indicates the data service rejected the session token.
	ErrUnauthenticated = NewDomainError("TT-AUTH-4011", "session is not authenticated")

	// ErrNotLoggedIn indicates an operation needs a session and there is none.
	ErrNotLoggedIn = NewDomainError("TT-AUTH-4012", "not logged in")
)

// ============================================================================
// Vault Errors (VAULT)
// ============================================================================

var (
	// ErrVaultLocked indicates the vault holds a session but its key is not
	// available until an unlock succeeds.
	ErrVaultLocked = NewDomainError("TT-VAULT-4230", "vault is locked")

	// ErrVaultEmpty indicates no session is stored in the vault.
	ErrVaultEmpty = NewDomainError("TT-VAULT-4040", "vault is empty")

	// ErrUnlockCancelled indicates the user dismissed the unlock prompt.
	ErrUnlockCancelled = NewDomainError("TT-VAULT-4231", "unlock cancelled")

	// ErrInvalidPasscode indicates the entered passcode did not open the vault.
	ErrInvalidPasscode = NewDomainError("TT-VAULT-4010", "invalid passcode")

	// ErrPasscodeRequired indicates a passcode must be set before storing a session.
	ErrPasscodeRequired = NewDomainError("TT-VAULT-4011", "passcode required")

	// ErrTooManyFailedAttempts indicates the vault was cleared after repeated failures.
	ErrTooManyFailedAttempts = NewDomainError("TT-VAULT-4290", "too many failed unlock attempts, vault cleared")

	// ErrBiometricsUnavailable indicates biometric auth is not available on this device.
	ErrBiometricsUnavailable = NewDomainError("TT-VAULT-5030", "biometrics not available")

	// ErrBiometricsFailed indicates the biometric check was rejected.
	ErrBiometricsFailed = NewDomainError("TT-VAULT-4012", "biometric authentication failed")

	// ErrVaultCorrupted indicates stored vault data could not be decoded.
	ErrVaultCorrupted = NewDomainError("TT-VAULT-5001", "vault data corrupted")
)

// ============================================================================
// Data Errors (DATA)
// ============================================================================

var (
	// ErrTeaNotFound indicates the requested tea category does not exist.
	ErrTeaNotFound = NewDomainError("TT-DATA-4040", "tea not found")

	// ErrNoteNotFound indicates the requested tasting note does not exist.
	ErrNoteNotFound = NewDomainError("TT-DATA-4041", "tasting note not found")

	// ErrRatingOutOfRange indicates a rating outside the 0..5 star range.
	ErrRatingOutOfRange = NewDomainError("TT-DATA-4001", "rating must be between 0 and 5")

	// ErrNoteValidation indicates tasting note validation failed.
	ErrNoteValidation = NewDomainError("TT-DATA-4002", "tasting note validation failed")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInternal indicates an internal error.
	ErrInternal = NewDomainError("TT-SYS-5000", "internal error")

	// ErrStorageError indicates a storage layer error.
	ErrStorageError = NewDomainError("TT-SYS-5001", "storage error")

	// ErrServiceUnavailable indicates the data service could not be reached.
	ErrServiceUnavailable = NewDomainError("TT-SYS-5030", "service unavailable")

	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = NewDomainError("TT-SYS-4000", "bad request")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewDomainError("TT-SYS-4290", "too many requests")
)

// ============================================================================
// Argument Errors (ARG)
// ============================================================================

var (
	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("TT-ARG-1001", "invalid argument")

	// ErrMissingArgument indicates a required argument is missing.
	ErrMissingArgument = NewDomainError("TT-ARG-1002", "missing required argument")
)
