package token

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	tok, err := Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.HasPrefix(tok, Prefix) {
		t.Errorf("Generate() = %q, missing prefix", tok)
	}
	if !WellFormed(tok) {
		t.Errorf("WellFormed(%q) = false", tok)
	}
}

func TestGenerate_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok, err := Generate()
		if err != nil {
			t.Fatal(err)
		}
		if seen[tok] {
			t.Fatalf("duplicate token %s", tok)
		}
		seen[tok] = true
	}
}

func TestGenerateWithLength(t *testing.T) {
	for _, n := range []int{8, 16, 64} {
		s, err := GenerateWithLength(n)
		if err != nil {
			t.Fatalf("GenerateWithLength(%d) error = %v", n, err)
		}
		decoded, err := base64.RawURLEncoding.DecodeString(s)
		if err != nil || len(decoded) != n {
			t.Errorf("GenerateWithLength(%d) decoded %d bytes, err %v", n, len(decoded), err)
		}
	}
	if _, err := GenerateWithLength(0); err == nil {
		t.Error("GenerateWithLength(0) should fail")
	}
}

func TestWellFormed(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"abc", false},
		{"tt_short", false},
		{"xx_" + strings.Repeat("A", 43), false},
	}
	for _, tt := range tests {
		if got := WellFormed(tt.in); got != tt.want {
			t.Errorf("WellFormed(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHashAndVerify(t *testing.T) {
	tok, _ := Generate()
	h := Hash(tok)
	if len(h) != 64 {
		t.Errorf("Hash() length = %d, want 64", len(h))
	}
	if Hash(tok) != h {
		t.Error("Hash() must be deterministic")
	}
	if !Verify(tok, h) {
		t.Error("Verify() should accept the matching token")
	}
	if Verify(tok+"x", h) {
		t.Error("Verify() should reject a different token")
	}
}
