package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/yndnr/teataster-go/internal/core/domain"
	"github.com/yndnr/teataster-go/internal/storage"
	"github.com/yndnr/teataster-go/pkg/crypto/adaptive"
)

// Vault is the session vault surface used by the auth effects and the
// HTTP connection.
type Vault interface {
	Login(ctx context.Context, session domain.Session) error
	RestoreSession(ctx context.Context) (*domain.Session, error)
	Logout(ctx context.Context) error
	Lock(ctx context.Context) error
	Unlock(ctx context.Context) error
	CanUnlock(ctx context.Context) (bool, error)
	IsLocked(ctx context.Context) (bool, error)
	IsBiometricsAvailable(ctx context.Context) bool
	SetAuthMode(ctx context.Context, mode domain.AuthMode) error
	Token(ctx context.Context) (string, error)
}

// UnlockRecorder counts unlock attempts by result.
type UnlockRecorder interface {
	IncUnlockAttempt(result string)
}

// SessionVault implements Vault over a storage backend.
type SessionVault struct {
	mu  sync.Mutex
	cfg Config

	backend     storage.KVEngine
	ownsBackend bool
	meta        *meta
	kdf         KDFParams

	// dk is the data key; nil while locked or empty.
	dk []byte
	// session caches the open session. For InMemoryOnly it is the only copy.
	session *domain.Session

	prompter   Prompter
	biometrics Biometrics
	notifier   Notifier
	recorder   UnlockRecorder
	logger     *slog.Logger
	timer      *lockTimer
}

var _ Vault = (*SessionVault)(nil)

// Option configures a SessionVault.
type Option func(*SessionVault)

// WithBackend uses an already open backend. The vault does not close it.
func WithBackend(b storage.KVEngine) Option {
	return func(v *SessionVault) {
		v.backend = b
	}
}

// WithPrompter sets the passcode prompt.
func WithPrompter(p Prompter) Option {
	return func(v *SessionVault) {
		v.prompter = p
	}
}

// WithBiometrics sets the biometric capability.
func WithBiometrics(b Biometrics) Option {
	return func(v *SessionVault) {
		v.biometrics = b
	}
}

// WithNotifier sets the event receiver.
func WithNotifier(n Notifier) Option {
	return func(v *SessionVault) {
		v.notifier = n
	}
}

// WithUnlockRecorder sets the unlock attempt counter.
func WithUnlockRecorder(r UnlockRecorder) Option {
	return func(v *SessionVault) {
		v.recorder = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(v *SessionVault) {
		v.logger = l
	}
}

// WithKDFParams overrides the argon2id parameters for new passcodes.
func WithKDFParams(p KDFParams) Option {
	return func(v *SessionVault) {
		v.kdf = p
	}
}

// Open opens the vault described by cfg. Unless WithBackend is given, the
// backend for cfg.Platform is opened and closed again by Close.
func Open(ctx context.Context, cfg Config, opts ...Option) (*SessionVault, error) {
	cfg.Sanitize()

	v := &SessionVault{
		cfg:        cfg,
		kdf:        DefaultKDFParams(),
		prompter:   noPrompter{},
		biometrics: NoBiometrics{},
		notifier:   nopNotifier{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.logger = v.logger.With("component", "vault")

	if v.backend == nil {
		if err := cfg.Verify(); err != nil {
			return nil, err
		}
		b, err := OpenBackend(cfg, v.logger)
		if err != nil {
			return nil, err
		}
		v.backend = b
		v.ownsBackend = true
	}

	if err := v.loadMeta(ctx); err != nil {
		v.Close()
		return nil, err
	}
	v.timer = newLockTimer(cfg.LockAfter, v.lockOnTimeout)

	v.logger.Debug("vault opened",
		"platform", cfg.Platform,
		"auth_mode", v.meta.AuthMode,
		"cipher", v.meta.Cipher)
	return v, nil
}

// SetNotifier replaces the event receiver. The store adapter is created
// after the vault, so the composition root sets it here.
func (v *SessionVault) SetNotifier(n Notifier) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if n == nil {
		n = nopNotifier{}
	}
	v.notifier = n
}

// Config returns the vault configuration.
func (v *SessionVault) Config() Config {
	return v.cfg
}

// AuthMode returns the current unlock policy.
func (v *SessionVault) AuthMode() domain.AuthMode {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.meta.AuthMode
}

// Close stops the lock timer, forgets the key and closes an owned backend.
func (v *SessionVault) Close() error {
	if v.timer != nil {
		v.timer.stop()
	}
	v.mu.Lock()
	v.forgetKey()
	v.mu.Unlock()
	if v.ownsBackend && v.backend != nil {
		return v.backend.Close()
	}
	return nil
}

// Login persists session and leaves the vault unlocked.
func (v *SessionVault) Login(ctx context.Context, session domain.Session) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.storeLocked(ctx, session); err != nil {
		return err
	}
	v.logger.Info("session stored", "auth_mode", v.meta.AuthMode, "user_id", session.User.ID)
	v.timer.touch()
	return nil
}

// RestoreSession returns the stored session, or nil when there is none.
//
// A locked vault is unlocked first when UnlockOnAccess is set. If it stays
// locked (no UnlockOnAccess, a failed or a cancelled unlock), the vault is
// cleared and nil is returned. A restored session is announced through
// the notifier.
func (v *SessionVault) RestoreSession(ctx context.Context) (*domain.Session, error) {
	v.mu.Lock()
	has, err := v.hasSessionLocked(ctx)
	if err != nil || !has {
		v.mu.Unlock()
		return nil, err
	}

	if v.lockedLocked() {
		if !v.cfg.UnlockOnAccess {
			v.logger.Info("vault locked on restore, clearing")
			err := v.clearLocked(ctx)
			v.mu.Unlock()
			return nil, err
		}
		v.mu.Unlock()

		if uerr := v.Unlock(ctx); uerr != nil {
			v.logger.Info("unlock on restore failed, clearing", "error", uerr)
			v.mu.Lock()
			err := v.clearLocked(ctx)
			v.mu.Unlock()
			return nil, err
		}
		v.mu.Lock()
	}

	session, err := v.readSessionLocked(ctx)
	if errors.Is(err, domain.ErrVaultCorrupted) {
		v.logger.Warn("stored session unreadable, clearing", "error", err)
		cerr := v.clearLocked(ctx)
		v.mu.Unlock()
		return nil, cerr
	}
	if err != nil {
		v.mu.Unlock()
		return nil, err
	}
	notifier := v.notifier
	v.timer.touch()
	v.mu.Unlock()

	if session != nil {
		notifier.SessionRestored(*session)
	}
	return session.Clone(), nil
}

// Logout clears the stored session and every wrapped key.
func (v *SessionVault) Logout(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.timer.stop()
	return v.clearLocked(ctx)
}

// Lock drops the data key and emits a lock event. Modes that cannot lock
// ignore it.
func (v *SessionVault) Lock(ctx context.Context) error {
	return v.lock(LockEvent{})
}

func (v *SessionVault) lockOnTimeout() {
	if err := v.lock(LockEvent{Timeout: true}); err != nil {
		v.logger.Error("lock after inactivity failed", "error", err)
	}
}

func (v *SessionVault) lock(ev LockEvent) error {
	v.mu.Lock()
	if !v.meta.AuthMode.Lockable() || v.dk == nil {
		v.mu.Unlock()
		return nil
	}
	v.forgetKey()
	v.timer.stop()
	v.mu.Unlock()

	v.logger.Info("vault locked", "timeout", ev.Timeout)
	v.OnVaultLocked(ev)
	return nil
}

// OnVaultLocked forwards a lock event to the notifier as a session locked
// notification.
func (v *SessionVault) OnVaultLocked(ev LockEvent) {
	v.mu.Lock()
	n := v.notifier
	v.mu.Unlock()
	n.SessionLocked(ev)
}

// OnPasscodeRequest presents the passcode prompt and returns the entered
// code, or "" when the prompt was dismissed without one.
func (v *SessionVault) OnPasscodeRequest(ctx context.Context, setMode bool) (string, error) {
	d, err := v.prompter.PresentPasscode(ctx, setMode)
	if err != nil {
		return "", err
	}
	return d.Data, nil
}

// Unlock opens a locked vault, prompting for the passcode and running the
// biometric check as the auth mode requires. Unlocking an unlocked vault
// is a no-op.
func (v *SessionVault) Unlock(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	has, err := v.hasSessionLocked(ctx)
	if err != nil {
		return err
	}
	if !has {
		return domain.ErrVaultEmpty
	}
	if !v.lockedLocked() {
		return nil
	}

	dk, err := v.acquireKeyLocked(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrUnlockCancelled) {
			v.record("cancelled")
			return err
		}
		v.record("failure")
		return v.failedAttemptLocked(ctx, err)
	}

	v.dk = dk
	session, err := v.readSessionLocked(ctx)
	if err != nil {
		v.forgetKey()
		return err
	}
	if session == nil {
		v.forgetKey()
		return domain.ErrVaultEmpty
	}

	v.meta.FailedAttempts = 0
	if err := v.saveMeta(ctx); err != nil {
		return err
	}
	v.record("success")
	v.timer.touch()
	v.logger.Info("vault unlocked", "auth_mode", v.meta.AuthMode)
	return nil
}

// CanUnlock reports whether a session is stored, the vault is locked and
// the auth mode permits an unlock on this device.
func (v *SessionVault) CanUnlock(ctx context.Context) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	has, err := v.hasSessionLocked(ctx)
	if err != nil || !has || !v.lockedLocked() {
		return false, err
	}

	switch v.meta.AuthMode {
	case domain.AuthModePasscodeOnly, domain.AuthModeBiometricAndPasscode:
		return true, nil
	case domain.AuthModeBiometricOnly:
		// The system PIN fallback applies inside Unlock only.
		return v.biometrics.Available(ctx), nil
	default:
		return false, nil
	}
}

// IsLocked reports whether a session is stored but its key is not loaded.
func (v *SessionVault) IsLocked(ctx context.Context) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	has, err := v.hasSessionLocked(ctx)
	if err != nil || !has {
		return false, err
	}
	return v.lockedLocked(), nil
}

// IsBiometricsAvailable reports whether the device offers biometrics.
func (v *SessionVault) IsBiometricsAvailable(ctx context.Context) bool {
	return v.biometrics.Available(ctx)
}

// SetAuthMode changes the unlock policy. A stored session is re-sealed
// under the new mode, which needs the vault to be unlocked.
func (v *SessionVault) SetAuthMode(ctx context.Context, mode domain.AuthMode) error {
	mode, err := domain.ParseAuthMode(string(mode))
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.meta.AuthMode == mode {
		return nil
	}

	has, err := v.hasSessionLocked(ctx)
	if err != nil {
		return err
	}
	if !has {
		v.meta.AuthMode = mode
		v.meta.resetKeys()
		return v.saveMeta(ctx)
	}

	if v.lockedLocked() {
		return domain.ErrVaultLocked
	}
	session, err := v.readSessionLocked(ctx)
	if err != nil {
		return err
	}
	previous := v.meta.AuthMode
	if err := v.clearLocked(ctx); err != nil {
		return err
	}
	v.meta.AuthMode = mode
	if err := v.storeLocked(ctx, *session); err != nil {
		v.meta.AuthMode = previous
		_ = v.saveMeta(ctx)
		return fmt.Errorf("re-seal session: %w", err)
	}
	v.logger.Info("auth mode changed", "from", previous, "to", mode)
	return nil
}

// Token returns the stored session token and counts as activity for the
// lock timer.
func (v *SessionVault) Token(ctx context.Context) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	has, err := v.hasSessionLocked(ctx)
	if err != nil {
		return "", err
	}
	if !has {
		return "", domain.ErrVaultEmpty
	}
	if v.lockedLocked() {
		return "", domain.ErrVaultLocked
	}
	session, err := v.readSessionLocked(ctx)
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", domain.ErrVaultEmpty
	}
	v.timer.touch()
	return session.Token, nil
}

// ============================================================================
// Internal helpers. Callers hold v.mu.
// ============================================================================

func (v *SessionVault) record(result string) {
	if v.recorder != nil {
		v.recorder.IncUnlockAttempt(result)
	}
}

func (v *SessionVault) forgetKey() {
	if v.dk != nil {
		adaptive.ZeroKey(v.dk)
		v.dk = nil
	}
	if v.meta == nil || v.meta.AuthMode.Persistent() {
		v.session = nil
	}
}

func (v *SessionVault) keys() keyring {
	return keyring{meta: v.meta}
}

func (v *SessionVault) lockedLocked() bool {
	return v.meta.AuthMode.Lockable() && v.dk == nil
}

func (v *SessionVault) hasSessionLocked(ctx context.Context) (bool, error) {
	if !v.meta.AuthMode.Persistent() {
		return v.session != nil, nil
	}
	_, err := v.backend.Get(ctx, []byte(v.cfg.Key))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, domain.ErrStorageError.WithCause(err)
	}
	return true, nil
}

func (v *SessionVault) loadMeta(ctx context.Context) error {
	raw, err := v.backend.Get(ctx, []byte(metaKey))
	if errors.Is(err, storage.ErrKeyNotFound) {
		typ, err := adaptive.ParseCipherType(v.cfg.Cipher)
		if err != nil {
			return err
		}
		v.meta = newMeta(v.cfg.AuthMode, typ, v.kdf)
		return v.saveMeta(ctx)
	}
	if err != nil {
		return domain.ErrStorageError.WithCause(err)
	}

	var m meta
	if err := json.Unmarshal(raw, &m); err != nil {
		return domain.ErrVaultCorrupted.WithCause(err)
	}
	v.meta = &m

	// Without a stored session the configured mode applies.
	has, err := v.hasSessionLocked(ctx)
	if err != nil {
		return err
	}
	if !has && m.AuthMode != v.cfg.AuthMode {
		m.AuthMode = v.cfg.AuthMode
		m.resetKeys()
		return v.saveMeta(ctx)
	}
	return nil
}

func (v *SessionVault) saveMeta(ctx context.Context) error {
	raw, err := json.Marshal(v.meta)
	if err != nil {
		return fmt.Errorf("encode vault meta: %w", err)
	}
	if err := v.backend.Set(ctx, []byte(metaKey), raw); err != nil {
		return domain.ErrStorageError.WithCause(err)
	}
	return nil
}

// storeLocked generates a data key, protects it per auth mode and seals
// session under it.
func (v *SessionVault) storeLocked(ctx context.Context, session domain.Session) error {
	mode := v.meta.AuthMode
	v.meta.KDF = v.kdf
	v.meta.resetKeys()

	dk, err := adaptive.GenerateKey()
	if err != nil {
		return err
	}

	switch mode {
	case domain.AuthModeInMemoryOnly:
		v.forgetKey()
		v.dk = dk
		v.session = session.Clone()
		if err := v.backend.Delete(ctx, []byte(v.cfg.Key)); err != nil {
			return domain.ErrStorageError.WithCause(err)
		}
		return v.saveMeta(ctx)

	case domain.AuthModeSecureStorage:
		if err := v.backend.Set(ctx, []byte(deviceKeyKey), dk); err != nil {
			return domain.ErrStorageError.WithCause(err)
		}

	case domain.AuthModePasscodeOnly, domain.AuthModeBiometricAndPasscode:
		if mode == domain.AuthModeBiometricAndPasscode && !v.biometrics.Available(ctx) {
			return domain.ErrBiometricsUnavailable
		}
		passcode, err := v.OnPasscodeRequest(ctx, true)
		if err != nil {
			return err
		}
		if passcode == "" {
			return domain.ErrPasscodeRequired
		}
		if err := v.keys().wrapWithPasscode(dk, passcode); err != nil {
			return err
		}

	case domain.AuthModeBiometricOnly:
		if !v.biometrics.Available(ctx) {
			return domain.ErrBiometricsUnavailable
		}
		if err := v.backend.Set(ctx, []byte(deviceKeyKey), dk); err != nil {
			return domain.ErrStorageError.WithCause(err)
		}
		if v.cfg.AllowSystemPinFallback {
			passcode, err := v.OnPasscodeRequest(ctx, true)
			if err != nil {
				return err
			}
			if passcode != "" {
				if err := v.keys().wrapWithPasscode(dk, passcode); err != nil {
					return err
				}
			}
		}
	}

	if mode != domain.AuthModeSecureStorage && mode != domain.AuthModeBiometricOnly {
		if err := v.backend.Delete(ctx, []byte(deviceKeyKey)); err != nil {
			return domain.ErrStorageError.WithCause(err)
		}
	}

	if err := v.writeSession(ctx, dk, session); err != nil {
		return err
	}
	if err := v.saveMeta(ctx); err != nil {
		return err
	}

	v.forgetKey()
	v.dk = dk
	v.session = session.Clone()
	return nil
}

func (v *SessionVault) writeSession(ctx context.Context, dk []byte, session domain.Session) error {
	c, err := v.keys().sessionCipher(dk, v.cfg.Key)
	if err != nil {
		return err
	}
	plain, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	sealed, err := c.Encrypt(plain, v.keys().aad())
	if err != nil {
		return fmt.Errorf("seal session: %w", err)
	}
	if err := v.backend.Set(ctx, []byte(v.cfg.Key), sealed); err != nil {
		return domain.ErrStorageError.WithCause(err)
	}
	return nil
}

// readSessionLocked returns the open session, loading the device key for
// SecureStorage on first access. It returns nil when nothing is stored.
func (v *SessionVault) readSessionLocked(ctx context.Context) (*domain.Session, error) {
	if v.session != nil {
		return v.session, nil
	}
	if !v.meta.AuthMode.Persistent() {
		return nil, nil
	}
	if v.dk == nil {
		if v.meta.AuthMode.Lockable() {
			return nil, domain.ErrVaultLocked
		}
		dk, err := v.deviceKey(ctx)
		if err != nil {
			return nil, err
		}
		v.dk = dk
	}

	sealed, err := v.backend.Get(ctx, []byte(v.cfg.Key))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.ErrStorageError.WithCause(err)
	}

	c, err := v.keys().sessionCipher(v.dk, v.cfg.Key)
	if err != nil {
		return nil, err
	}
	plain, err := c.Decrypt(sealed, v.keys().aad())
	if err != nil {
		return nil, domain.ErrVaultCorrupted.WithCause(err)
	}
	var s domain.Session
	if err := json.Unmarshal(plain, &s); err != nil {
		return nil, domain.ErrVaultCorrupted.WithCause(err)
	}
	v.session = &s
	return v.session, nil
}

func (v *SessionVault) deviceKey(ctx context.Context) ([]byte, error) {
	dk, err := v.backend.Get(ctx, []byte(deviceKeyKey))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, domain.ErrVaultCorrupted.WithDetails("device key missing")
	}
	if err != nil {
		return nil, domain.ErrStorageError.WithCause(err)
	}
	return dk, nil
}

// acquireKeyLocked runs the unlock ceremony for the current mode.
func (v *SessionVault) acquireKeyLocked(ctx context.Context) ([]byte, error) {
	switch v.meta.AuthMode {
	case domain.AuthModePasscodeOnly:
		return v.passcodeUnlock(ctx)

	case domain.AuthModeBiometricAndPasscode:
		if err := v.biometricCheck(ctx); err != nil {
			return nil, err
		}
		return v.passcodeUnlock(ctx)

	case domain.AuthModeBiometricOnly:
		err := v.biometricCheck(ctx)
		if err == nil {
			return v.deviceKey(ctx)
		}
		if v.cfg.AllowSystemPinFallback && v.meta.hasPasscode() {
			v.logger.Info("biometric check failed, falling back to passcode", "error", err)
			return v.passcodeUnlock(ctx)
		}
		return nil, err

	default:
		return v.deviceKey(ctx)
	}
}

func (v *SessionVault) biometricCheck(ctx context.Context) error {
	if !v.biometrics.Available(ctx) {
		return domain.ErrBiometricsUnavailable
	}
	if err := v.biometrics.Authenticate(ctx, "Unlock Tea Taster"); err != nil {
		if domain.IsDomainError(err, "") {
			return err
		}
		return domain.ErrBiometricsFailed.WithCause(err)
	}
	return nil
}

func (v *SessionVault) passcodeUnlock(ctx context.Context) ([]byte, error) {
	passcode, err := v.OnPasscodeRequest(ctx, false)
	if err != nil {
		return nil, err
	}
	if passcode == "" {
		return nil, domain.ErrUnlockCancelled
	}
	return v.keys().unwrapWithPasscode(passcode)
}

// failedAttemptLocked counts a failed unlock and clears the vault when the
// configured limit is reached.
func (v *SessionVault) failedAttemptLocked(ctx context.Context, cause error) error {
	v.meta.FailedAttempts++
	attempts := v.meta.FailedAttempts
	if err := v.saveMeta(ctx); err != nil {
		return err
	}
	v.logger.Warn("unlock failed", "attempts", attempts, "error", cause)

	if v.cfg.ShouldClearVaultAfterTooManyFailedAttempts && attempts >= v.cfg.MaxFailedAttempts {
		if err := v.clearLocked(ctx); err != nil {
			return err
		}
		return domain.ErrTooManyFailedAttempts.WithCause(cause)
	}
	return cause
}

func (v *SessionVault) clearLocked(ctx context.Context) error {
	v.forgetKey()
	v.session = nil
	for _, k := range []string{v.cfg.Key, deviceKeyKey} {
		if err := v.backend.Delete(ctx, []byte(k)); err != nil {
			return domain.ErrStorageError.WithCause(err)
		}
	}
	v.meta.resetKeys()
	return v.saveMeta(ctx)
}
