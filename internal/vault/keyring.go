package vault

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"

	"github.com/yndnr/teataster-go/internal/core/domain"
	"github.com/yndnr/teataster-go/pkg/crypto/adaptive"
)

// Backend keys next to the sealed session.
const (
	metaKey      = "vault.meta"
	deviceKeyKey = "vault.device-key"
)

const saltLength = 16

// KDFParams are the argon2id parameters for passcode keys.
type KDFParams struct {
	Time      uint32 `json:"time"`
	MemoryKiB uint32 `json:"memory_kib"`
	Threads   uint8  `json:"threads"`
}

// DefaultKDFParams returns the argon2id parameters used for new passcodes.
func DefaultKDFParams() KDFParams {
	return KDFParams{
		Time:      3,
		MemoryKiB: 64 * 1024,
		Threads:   4,
	}
}

// meta is the persisted vault metadata. It never holds key material in
// the clear.
type meta struct {
	Version        int             `json:"version"`
	DeviceID       string          `json:"device_id"`
	AuthMode       domain.AuthMode `json:"auth_mode"`
	Cipher         string          `json:"cipher"`
	KDF            KDFParams       `json:"kdf"`
	Salt           []byte          `json:"salt,omitempty"`
	WrappedKey     []byte          `json:"wrapped_key,omitempty"`
	FailedAttempts int             `json:"failed_attempts"`
}

func newMeta(mode domain.AuthMode, cipher adaptive.CipherType, kdf KDFParams) *meta {
	return &meta{
		Version:  1,
		DeviceID: uuid.NewString(),
		AuthMode: mode,
		Cipher:   string(cipher),
		KDF:      kdf,
	}
}

// hasPasscode reports whether a passcode-wrapped data key is stored.
func (m *meta) hasPasscode() bool {
	return len(m.Salt) > 0 && len(m.WrappedKey) > 0
}

// resetKeys forgets every wrapped key; the device id and mode survive.
func (m *meta) resetKeys() {
	m.Salt = nil
	m.WrappedKey = nil
	m.FailedAttempts = 0
}

// keyring derives and wraps data keys for one vault.
type keyring struct {
	meta *meta
}

func (k keyring) cipherFor(key []byte) (adaptive.Cipher, error) {
	typ, err := adaptive.ParseCipherType(k.meta.Cipher)
	if err != nil {
		return nil, err
	}
	return adaptive.NewWithType(key, typ)
}

func (k keyring) aad() []byte {
	return []byte(k.meta.DeviceID)
}

// passcodeKey derives the key that wraps the data key.
func (k keyring) passcodeKey(passcode string) []byte {
	p := k.meta.KDF
	return argon2.IDKey([]byte(passcode), k.meta.Salt, p.Time, p.MemoryKiB, p.Threads, adaptive.KeySize)
}

// wrapWithPasscode stores dk wrapped under a fresh salt and passcode key.
func (k keyring) wrapWithPasscode(dk []byte, passcode string) error {
	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}
	k.meta.Salt = salt

	pk := k.passcodeKey(passcode)
	defer adaptive.ZeroKey(pk)

	c, err := k.cipherFor(pk)
	if err != nil {
		return err
	}
	wrapped, err := c.Encrypt(dk, k.aad())
	if err != nil {
		return fmt.Errorf("wrap data key: %w", err)
	}
	k.meta.WrappedKey = wrapped
	return nil
}

// unwrapWithPasscode returns the data key, or ErrInvalidPasscode when the
// passcode does not open it.
func (k keyring) unwrapWithPasscode(passcode string) ([]byte, error) {
	if !k.meta.hasPasscode() {
		return nil, domain.ErrPasscodeRequired
	}
	pk := k.passcodeKey(passcode)
	defer adaptive.ZeroKey(pk)

	c, err := k.cipherFor(pk)
	if err != nil {
		return nil, err
	}
	dk, err := c.Decrypt(k.meta.WrappedKey, k.aad())
	if err != nil {
		return nil, domain.ErrInvalidPasscode
	}
	return dk, nil
}

// sessionCipher derives the session sealing cipher from the data key,
// bound to this vault's device id and session key name.
func (k keyring) sessionCipher(dk []byte, sessionKey string) (adaptive.Cipher, error) {
	sk := make([]byte, adaptive.KeySize)
	r := hkdf.New(sha256.New, dk, []byte(k.meta.DeviceID), []byte("teataster session "+sessionKey))
	if _, err := io.ReadFull(r, sk); err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}
	defer adaptive.ZeroKey(sk)
	return k.cipherFor(sk)
}
