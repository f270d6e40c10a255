package effects

import (
	"context"
	"errors"

	"github.com/yndnr/teataster-go/internal/core/domain"
	"github.com/yndnr/teataster-go/internal/telemetry/logger"
)

// Routes the navigator knows.
const (
	RouteRoot  = "/"
	RouteLogin = "/login"
)

// Fixed user-facing messages.
const (
	MsgLoginUnknown  = "Unknown error in login"
	MsgLogoutUnknown = "Unknown error in logout"
	MsgUnlockUnknown = "Unknown error in unlock"
	MsgDataLoad      = "Error in data load, check server logs"
)

// AuthAPI is the authentication service.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context) error
	GetUserInfo(ctx context.Context, token string) (domain.User, error)
}

// TeaAPI is the tea catalog.
type TeaAPI interface {
	GetAll(ctx context.Context) ([]domain.Tea, error)
	Save(ctx context.Context, tea domain.Tea) error
}

// NotesAPI is the tasting notes service.
type NotesAPI interface {
	GetAll(ctx context.Context) ([]domain.TastingNote, error)
	Save(ctx context.Context, note domain.TastingNote) (domain.TastingNote, error)
	Delete(ctx context.Context, id int) error
}

// Navigator switches the visible page.
type Navigator interface {
	NavigateRoot(ctx context.Context, route string)
}

// userMessage returns the domain message of err or fallback.
func userMessage(err error, fallback string) string {
	if msg := domain.UserMessage(err); msg != "" {
		return msg
	}
	return fallback
}

// rawMessage returns the text of the innermost cause of err, or fallback
// when it has none. A domain error at the bottom of the chain reports its
// message without the code.
func rawMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	for next := errors.Unwrap(err); next != nil; next = errors.Unwrap(err) {
		err = next
	}
	msg := err.Error()
	if de, ok := err.(*domain.DomainError); ok {
		msg = de.Message
		if de.Details != "" {
			msg += ": " + de.Details
		}
	}
	if msg == "" {
		return fallback
	}
	return msg
}

func logFor(ctx context.Context, l logger.Logger) logger.Logger {
	if l == nil {
		return logger.L(ctx)
	}
	return logger.L(logger.WithLogger(ctx, l))
}
