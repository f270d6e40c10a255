package effects

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/teataster-go/internal/core/domain"
	"github.com/yndnr/teataster-go/internal/store"
	"github.com/yndnr/teataster-go/internal/telemetry/logger"
)

var testUser = domain.User{ID: 42, FirstName: "Joe", LastName: "Tester", Email: "test@ionic.io"}

func newAuthEffects(v *mockVault, a *mockAuth) *AuthEffects {
	return NewAuthEffects(v, a, logger.Discard())
}

func TestAuthEffects_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		v := &mockVault{}
		a := &mockAuth{token: "tt_481516", user: testUser}
		got := newAuthEffects(v, a).Login(ctx, store.Login("test@ionic.io", "password", domain.AuthModePasscodeOnly))

		want := store.LoginSuccess(domain.Session{Token: "tt_481516", User: testUser})
		if got == nil || !reflect.DeepEqual(*got, want) {
			t.Fatalf("expected %+v, got %+v", want, got)
		}
		if calls := v.callLog(); !reflect.DeepEqual(calls, []string{"Logout", "SetAuthMode", "Login"}) {
			t.Errorf("unexpected vault calls %v", calls)
		}
		if len(v.modes) != 1 || v.modes[0] != domain.AuthModePasscodeOnly {
			t.Errorf("expected SetAuthMode(PasscodeOnly) once, got %v", v.modes)
		}
		if len(a.userToken) != 1 || a.userToken[0] != "tt_481516" {
			t.Errorf("expected user info fetched with the new token, got %v", a.userToken)
		}
	})

	t.Run("no mode keeps the vault mode", func(t *testing.T) {
		v := &mockVault{}
		a := &mockAuth{token: "tt_481516", user: testUser}
		newAuthEffects(v, a).Login(ctx, store.Login("test@ionic.io", "password", ""))
		if v.count("SetAuthMode") != 0 {
			t.Error("SetAuthMode called without a mode")
		}
	})

	tests := []struct {
		name    string
		vault   *mockVault
		auth    *mockAuth
		wantMsg string
	}{
		{
			name:    "rejected credentials",
			vault:   &mockVault{},
			auth:    &mockAuth{loginErr: domain.ErrInvalidCredentials},
			wantMsg: "Invalid email or password",
		},
		{
			name:    "transport error",
			vault:   &mockVault{},
			auth:    &mockAuth{loginErr: errors.New("dial tcp: connection refused")},
			wantMsg: MsgLoginUnknown,
		},
		{
			name:    "user info fails",
			vault:   &mockVault{},
			auth:    &mockAuth{token: "tt_1", userErr: errors.New("500")},
			wantMsg: MsgLoginUnknown,
		},
		{
			name:    "passcode not entered",
			vault:   &mockVault{loginErr: domain.ErrPasscodeRequired},
			auth:    &mockAuth{token: "tt_1", user: testUser},
			wantMsg: domain.ErrPasscodeRequired.Message,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newAuthEffects(tt.vault, tt.auth).Login(ctx, store.Login("test@ionic.io", "x", domain.AuthModeSecureStorage))
			if got == nil || got.Type != store.TypeLoginFailure {
				t.Fatalf("expected login failure, got %+v", got)
			}
			if got.ErrorMessage != tt.wantMsg {
				t.Errorf("expected %q, got %q", tt.wantMsg, got.ErrorMessage)
			}
			if tt.vault.count("SetAuthMode") != 1 {
				t.Errorf("expected SetAuthMode once, got %d", tt.vault.count("SetAuthMode"))
			}
		})
	}
}

// TestAuthEffects_Login_BiometricOnly dispatches a biometric login on a live
// store and counts what reaches the reducer.
func TestAuthEffects_Login_BiometricOnly(t *testing.T) {
	tests := []struct {
		name     string
		auth     *mockAuth
		wantType store.ActionType
	}{
		{"success", &mockAuth{token: "tt_481516", user: testUser}, store.TypeLoginSuccess},
		{"failure", &mockAuth{loginErr: domain.ErrInvalidCredentials}, store.TypeLoginFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &mockVault{}
			s := store.New(store.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
			s.Register(NewAuthEffects(v, tt.auth, logger.Discard()).Effects()...)

			var (
				mu      sync.Mutex
				results []store.ActionType
			)
			s.Subscribe(func(_ store.State, a store.Action) {
				if a.Type == store.TypeLoginSuccess || a.Type == store.TypeLoginFailure {
					mu.Lock()
					results = append(results, a.Type)
					mu.Unlock()
				}
			})

			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				defer close(done)
				s.Run(ctx)
			}()
			defer func() {
				cancel()
				<-done
			}()

			wctx, wcancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer wcancel()
			if _, err := s.DispatchAndWait(wctx, store.Login("test@ionic.io", "password", domain.AuthModeBiometricOnly),
				store.TypeLoginSuccess, store.TypeLoginFailure); err != nil {
				t.Fatal(err)
			}
			if err := s.Settle(wctx); err != nil {
				t.Fatal(err)
			}

			if !reflect.DeepEqual(v.modes, []domain.AuthMode{domain.AuthModeBiometricOnly}) {
				t.Errorf("expected SetAuthMode(BiometricOnly) once, got %v", v.modes)
			}
			mu.Lock()
			defer mu.Unlock()
			if !reflect.DeepEqual(results, []store.ActionType{tt.wantType}) {
				t.Errorf("expected exactly one %s, got %v", tt.wantType, results)
			}
		})
	}
}

func TestAuthEffects_Unlock(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		v := &mockVault{session: &domain.Session{Token: "tt_stored"}, locked: true}
		a := &mockAuth{user: testUser}
		got := newAuthEffects(v, a).Unlock(ctx, store.UnlockSession())

		want := store.UnlockSessionSuccess(domain.Session{Token: "tt_stored", User: testUser})
		if got == nil || !reflect.DeepEqual(*got, want) {
			t.Fatalf("expected %+v, got %+v", want, got)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		v := &mockVault{unlockErr: domain.ErrUnlockCancelled}
		got := newAuthEffects(v, &mockAuth{}).Unlock(ctx, store.UnlockSession())
		if got == nil || got.Type != store.TypeUnlockSessionFailure {
			t.Fatalf("expected unlock failure, got %+v", got)
		}
		if got.ErrorMessage != domain.ErrUnlockCancelled.Message {
			t.Errorf("unexpected message %q", got.ErrorMessage)
		}
	})
}

func TestAuthEffects_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("success clears the vault", func(t *testing.T) {
		v := &mockVault{session: &domain.Session{Token: "tt_1"}}
		got := newAuthEffects(v, &mockAuth{}).Logout(ctx, store.Logout())
		if got == nil || got.Type != store.TypeLogoutSuccess {
			t.Fatalf("expected logout success, got %+v", got)
		}
		if v.count("Logout") != 1 || v.session != nil {
			t.Error("expected the vault to be cleared")
		}
	})

	t.Run("failure keeps the vault", func(t *testing.T) {
		v := &mockVault{session: &domain.Session{Token: "tt_1"}}
		a := &mockAuth{logoutErr: domain.ErrServiceUnavailable}
		got := newAuthEffects(v, a).Logout(ctx, store.Logout())
		if got == nil || got.Type != store.TypeLogoutFailure {
			t.Fatalf("expected logout failure, got %+v", got)
		}
		if got.ErrorMessage != domain.ErrServiceUnavailable.Message {
			t.Errorf("unexpected message %q", got.ErrorMessage)
		}
		if v.count("Logout") != 0 || v.session == nil {
			t.Error("vault cleared after a failed logout")
		}
	})

	t.Run("failure without message", func(t *testing.T) {
		a := &mockAuth{logoutErr: errors.New("timeout")}
		got := newAuthEffects(&mockVault{}, a).Logout(ctx, store.Logout())
		if got.ErrorMessage != MsgLogoutUnknown {
			t.Errorf("expected %q, got %q", MsgLogoutUnknown, got.ErrorMessage)
		}
	})
}

func TestAuthEffects_UnauthError(t *testing.T) {
	v := &mockVault{session: &domain.Session{Token: "tt_1"}}
	got := newAuthEffects(v, &mockAuth{}).UnauthError(context.Background(), store.UnauthError())
	if got == nil || got.Type != store.TypeLogoutSuccess {
		t.Fatalf("expected forced logout success, got %+v", got)
	}
	if v.session != nil {
		t.Error("expected the vault to be cleared")
	}

	// A vault error still forces the logout.
	v = &mockVault{logoutErr: domain.ErrStorageError}
	got = newAuthEffects(v, &mockAuth{}).UnauthError(context.Background(), store.UnauthError())
	if got == nil || got.Type != store.TypeLogoutSuccess {
		t.Fatalf("expected forced logout success, got %+v", got)
	}
}

func TestNavigationEffects(t *testing.T) {
	tests := []struct {
		action store.Action
		want   string
	}{
		{store.LoginSuccess(domain.Session{}), RouteRoot},
		{store.UnlockSessionSuccess(domain.Session{}), RouteRoot},
		{store.LogoutSuccess(), RouteLogin},
		{store.SessionLocked(), RouteLogin},
	}

	nav := &mockNavigator{}
	effects := NewNavigationEffects(nav).Effects()
	for _, tt := range tests {
		t.Run(string(tt.action.Type), func(t *testing.T) {
			ran := 0
			for _, e := range effects {
				for _, on := range e.On {
					if on == tt.action.Type {
						if next := e.Run(context.Background(), tt.action); next != nil {
							t.Errorf("navigation emitted %+v", next)
						}
						ran++
					}
				}
			}
			if ran != 1 {
				t.Fatalf("expected one navigation effect, ran %d", ran)
			}
			if nav.last() != tt.want {
				t.Errorf("expected route %s, got %s", tt.want, nav.last())
			}
		})
	}
}
