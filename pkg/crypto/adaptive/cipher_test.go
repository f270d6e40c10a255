package adaptive

import (
	"bytes"
	"errors"
	"testing"
)

var testKey = func() []byte {
	k := make([]byte, KeySize)
	for i := range k {
		k[i] = byte(i)
	}
	return k
}()

var allTypes = []CipherType{CipherAESGCM, CipherChaCha20}

func TestNew(t *testing.T) {
	c, err := New(testKey)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.Type() != Preferred() {
		t.Errorf("New() type = %s, want %s", c.Type(), Preferred())
	}
}

func TestNewWithType(t *testing.T) {
	for _, typ := range allTypes {
		t.Run(string(typ), func(t *testing.T) {
			c, err := NewWithType(testKey, typ)
			if err != nil {
				t.Fatalf("NewWithType() error = %v", err)
			}
			if c.Type() != typ {
				t.Errorf("Type() = %s, want %s", c.Type(), typ)
			}
			if c.NonceSize() != 12 {
				t.Errorf("NonceSize() = %d, want 12", c.NonceSize())
			}
			if c.Overhead() != 16 {
				t.Errorf("Overhead() = %d, want 16", c.Overhead())
			}
		})
	}

	if _, err := NewWithType(testKey, "rot13"); !errors.Is(err, ErrUnknownCipher) {
		t.Errorf("unknown type error = %v", err)
	}
	if _, err := NewWithType(testKey[:16], CipherAESGCM); !errors.Is(err, ErrInvalidKeySize) {
		t.Errorf("short key error = %v", err)
	}
}

func TestParseCipherType(t *testing.T) {
	tests := []struct {
		in      string
		want    CipherType
		wantErr bool
	}{
		{"", Preferred(), false},
		{"AES-GCM", CipherAESGCM, false},
		{"chacha20-poly1305", CipherChaCha20, false},
		{"des", "", true},
	}
	for _, tt := range tests {
		got, err := ParseCipherType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCipherType(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCipherType(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestEncryptDecrypt(t *testing.T) {
	tests := []struct {
		name           string
		plaintext      []byte
		additionalData []byte
	}{
		{"Empty", []byte{}, nil},
		{"Session", []byte(`{"token":"abc","user":{"id":1}}`), []byte("device-id")},
		{"Large", bytes.Repeat([]byte("A"), 1024), nil},
	}

	for _, typ := range allTypes {
		c, err := NewWithType(testKey, typ)
		if err != nil {
			t.Fatal(err)
		}
		for _, tt := range tests {
			t.Run(string(typ)+"/"+tt.name, func(t *testing.T) {
				sealed, err := c.Encrypt(tt.plaintext, tt.additionalData)
				if err != nil {
					t.Fatalf("Encrypt() error = %v", err)
				}
				if want := len(tt.plaintext) + c.NonceSize() + c.Overhead(); len(sealed) != want {
					t.Errorf("sealed length = %d, want %d", len(sealed), want)
				}

				opened, err := c.Decrypt(sealed, tt.additionalData)
				if err != nil {
					t.Fatalf("Decrypt() error = %v", err)
				}
				if !bytes.Equal(opened, tt.plaintext) {
					t.Errorf("Decrypt() = %q, want %q", opened, tt.plaintext)
				}
			})
		}
	}
}

func TestDecryptRejectsTampering(t *testing.T) {
	for _, typ := range allTypes {
		t.Run(string(typ), func(t *testing.T) {
			c, _ := NewWithType(testKey, typ)
			sealed, err := c.Encrypt([]byte("secret"), []byte("device-a"))
			if err != nil {
				t.Fatal(err)
			}

			tampered := bytes.Clone(sealed)
			tampered[len(tampered)-1] ^= 0xFF
			if _, err := c.Decrypt(tampered, []byte("device-a")); err == nil {
				t.Error("Decrypt() should fail for tampered ciphertext")
			}
			if _, err := c.Decrypt(sealed, []byte("device-b")); err == nil {
				t.Error("Decrypt() should fail for wrong additional data")
			}
			if _, err := c.Decrypt(sealed[:5], nil); !errors.Is(err, ErrCiphertextTooShort) {
				t.Errorf("short input error = %v", err)
			}

			other, _ := GenerateKey()
			wrong, _ := NewWithType(other, typ)
			if _, err := wrong.Decrypt(sealed, []byte("device-a")); err == nil {
				t.Error("Decrypt() should fail with a different key")
			}
		})
	}
}

func TestEncryptUsesFreshNonce(t *testing.T) {
	c, _ := New(testKey)
	a, _ := c.Encrypt([]byte("same"), nil)
	b, _ := c.Encrypt([]byte("same"), nil)
	if bytes.Equal(a, b) {
		t.Error("two encryptions of the same plaintext should differ")
	}
}

func TestGenerateAndZeroKey(t *testing.T) {
	k, err := GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	if len(k) != KeySize {
		t.Fatalf("GenerateKey() length = %d", len(k))
	}
	ZeroKey(k)
	if !bytes.Equal(k, make([]byte, KeySize)) {
		t.Error("ZeroKey() left key material behind")
	}
}

func BenchmarkEncrypt_1KB(b *testing.B) {
	c, _ := New(testKey)
	data := bytes.Repeat([]byte("x"), 1024)
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Encrypt(data, nil)
	}
}
