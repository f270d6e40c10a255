package domain

import (
	"errors"
	"testing"
)

func TestValidateRating(t *testing.T) {
	tests := []struct {
		rating  int
		wantErr bool
	}{
		{-1, true},
		{0, false},
		{3, false},
		{5, false},
		{6, true},
	}
	for _, tt := range tests {
		err := ValidateRating(tt.rating)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateRating(%d) error = %v, wantErr %v", tt.rating, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrRatingOutOfRange) {
			t.Errorf("ValidateRating(%d) = %v, want ErrRatingOutOfRange", tt.rating, err)
		}
	}
}

func TestTeaImage(t *testing.T) {
	tests := []struct {
		id   int
		want string
	}{
		{0, ""},
		{1, "assets/img/green.jpg"},
		{4, "assets/img/oolong.jpg"},
		{6, "assets/img/puer.jpg"},
		{8, "assets/img/yellow.jpg"},
		{9, ""},
	}
	for _, tt := range tests {
		if got := TeaImage(tt.id); got != tt.want {
			t.Errorf("TeaImage(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestRatingKey(t *testing.T) {
	if got := RatingKey(3); got != "rating3" {
		t.Errorf("RatingKey(3) = %q", got)
	}
}

func TestTastingNote_Validate(t *testing.T) {
	valid := TastingNote{Brand: "Lipton", Name: "Yellow Label", TeaCategoryID: 2, Rating: 3}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if !valid.IsNew() {
		t.Error("note without id should be new")
	}

	missing := TastingNote{TeaCategoryID: 0}
	err := missing.Validate()
	if !errors.Is(err, ErrNoteValidation) {
		t.Fatalf("Validate() = %v, want ErrNoteValidation", err)
	}

	badRating := valid
	badRating.Rating = 9
	if err := badRating.Validate(); !errors.Is(err, ErrRatingOutOfRange) {
		t.Errorf("Validate() = %v, want ErrRatingOutOfRange", err)
	}
}

func TestSession(t *testing.T) {
	var nilSession *Session
	if nilSession.Valid() {
		t.Error("nil session must not be valid")
	}
	if nilSession.Clone() != nil {
		t.Error("Clone(nil) must be nil")
	}

	s := &Session{Token: "abc", User: User{ID: 1, FirstName: "Sherry", LastName: "Jones"}}
	c := s.Clone()
	c.Token = "changed"
	if s.Token != "abc" {
		t.Error("Clone must copy")
	}
	if got := s.User.FullName(); got != "Sherry Jones" {
		t.Errorf("FullName() = %q", got)
	}
}

func TestParseAuthMode(t *testing.T) {
	tests := []struct {
		in      string
		want    AuthMode
		wantErr bool
	}{
		{"passcode", AuthModePasscodeOnly, false},
		{"Biometric", AuthModeBiometricOnly, false},
		{"both", AuthModeBiometricAndPasscode, false},
		{"secure", AuthModeSecureStorage, false},
		{"memory", AuthModeInMemoryOnly, false},
		{"BiometricAndPasscode", AuthModeBiometricAndPasscode, false},
		{"inmemoryonly", AuthModeInMemoryOnly, false},
		{"face", "", true},
	}
	for _, tt := range tests {
		got, err := ParseAuthMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAuthMode(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAuthMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAuthMode_Properties(t *testing.T) {
	tests := []struct {
		mode       AuthMode
		passcode   bool
		biometrics bool
		lockable   bool
		persistent bool
	}{
		{AuthModePasscodeOnly, true, false, true, true},
		{AuthModeBiometricOnly, false, true, true, true},
		{AuthModeBiometricAndPasscode, true, true, true, true},
		{AuthModeSecureStorage, false, false, false, true},
		{AuthModeInMemoryOnly, false, false, false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			if tt.mode.UsesPasscode() != tt.passcode {
				t.Error("UsesPasscode mismatch")
			}
			if tt.mode.UsesBiometrics() != tt.biometrics {
				t.Error("UsesBiometrics mismatch")
			}
			if tt.mode.Lockable() != tt.lockable {
				t.Error("Lockable mismatch")
			}
			if tt.mode.Persistent() != tt.persistent {
				t.Error("Persistent mismatch")
			}
		})
	}
}
