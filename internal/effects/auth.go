package effects

import (
	"context"

	"github.com/yndnr/teataster-go/internal/core/domain"
	"github.com/yndnr/teataster-go/internal/store"
	"github.com/yndnr/teataster-go/internal/telemetry/logger"
	"github.com/yndnr/teataster-go/internal/vault"
)

// AuthEffects runs the login, unlock and logout flows.
type AuthEffects struct {
	vault  vault.Vault
	auth   AuthAPI
	logger logger.Logger
}

// NewAuthEffects creates the auth effects.
func NewAuthEffects(v vault.Vault, auth AuthAPI, l logger.Logger) *AuthEffects {
	return &AuthEffects{vault: v, auth: auth, logger: l}
}

// Effects returns the store registrations.
func (e *AuthEffects) Effects() []store.Effect {
	return []store.Effect{
		{Name: "auth.login", On: []store.ActionType{store.TypeLogin}, Run: e.Login},
		{Name: "auth.unlock", On: []store.ActionType{store.TypeUnlockSession}, Run: e.Unlock},
		{Name: "auth.logout", On: []store.ActionType{store.TypeLogout}, Run: e.Logout},
		{Name: "auth.unauth", On: []store.ActionType{store.TypeUnauthError}, Run: e.UnauthError},
	}
}

// Login clears any stored session, applies the requested auth mode, signs
// in and stores the new session.
func (e *AuthEffects) Login(ctx context.Context, a store.Action) *store.Action {
	session, err := e.login(ctx, a)
	if err != nil {
		logFor(ctx, e.logger).Warn("login failed", "email", a.Email, "error", err)
		next := store.LoginFailure(userMessage(err, MsgLoginUnknown))
		return &next
	}
	logFor(ctx, e.logger).Info("logged in", "user_id", session.User.ID)
	next := store.LoginSuccess(session)
	return &next
}

func (e *AuthEffects) login(ctx context.Context, a store.Action) (domain.Session, error) {
	if err := e.vault.Logout(ctx); err != nil {
		return domain.Session{}, err
	}
	if a.Mode != "" {
		if err := e.vault.SetAuthMode(ctx, a.Mode); err != nil {
			return domain.Session{}, err
		}
	}
	token, err := e.auth.Login(ctx, a.Email, a.Password)
	if err != nil {
		return domain.Session{}, err
	}
	user, err := e.auth.GetUserInfo(ctx, token)
	if err != nil {
		return domain.Session{}, err
	}
	session := domain.Session{Token: token, User: user}
	if err := e.vault.Login(ctx, session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

// Unlock unlocks the vault and reloads the user.
func (e *AuthEffects) Unlock(ctx context.Context, a store.Action) *store.Action {
	session, err := e.unlock(ctx)
	if err != nil {
		logFor(ctx, e.logger).Warn("unlock failed", "error", err)
		next := store.UnlockSessionFailure(userMessage(err, MsgUnlockUnknown))
		return &next
	}
	next := store.UnlockSessionSuccess(session)
	return &next
}

func (e *AuthEffects) unlock(ctx context.Context) (domain.Session, error) {
	if err := e.vault.Unlock(ctx); err != nil {
		return domain.Session{}, err
	}
	token, err := e.vault.Token(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	user, err := e.auth.GetUserInfo(ctx, token)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{Token: token, User: user}, nil
}

// Logout signs out and clears the vault. When the service call fails the
// vault is left as is.
func (e *AuthEffects) Logout(ctx context.Context, a store.Action) *store.Action {
	if err := e.auth.Logout(ctx); err != nil {
		logFor(ctx, e.logger).Warn("logout failed", "error", err)
		next := store.LogoutFailure(userMessage(err, MsgLogoutUnknown))
		return &next
	}
	if err := e.vault.Logout(ctx); err != nil {
		logFor(ctx, e.logger).Error("clear vault after logout", "error", err)
		next := store.LogoutFailure(userMessage(err, MsgLogoutUnknown))
		return &next
	}
	next := store.LogoutSuccess()
	return &next
}

// UnauthError forces a logout after the service rejected the session.
func (e *AuthEffects) UnauthError(ctx context.Context, a store.Action) *store.Action {
	if err := e.vault.Logout(ctx); err != nil {
		logFor(ctx, e.logger).Error("clear vault after unauthenticated error", "error", err)
	}
	next := store.LogoutSuccess()
	return &next
}
