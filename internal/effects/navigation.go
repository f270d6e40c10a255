package effects

import (
	"context"

	"github.com/yndnr/teataster-go/internal/store"
)

// NavigationEffects moves between the login page and the tea list.
type NavigationEffects struct {
	nav Navigator
}

// NewNavigationEffects creates the navigation effects.
func NewNavigationEffects(nav Navigator) *NavigationEffects {
	return &NavigationEffects{nav: nav}
}

// Effects returns the store registrations.
func (e *NavigationEffects) Effects() []store.Effect {
	return []store.Effect{
		{
			Name: "nav.root",
			On:   []store.ActionType{store.TypeLoginSuccess, store.TypeUnlockSessionSuccess},
			Run:  e.to(RouteRoot),
		},
		{
			Name: "nav.login",
			On:   []store.ActionType{store.TypeLogoutSuccess, store.TypeSessionLocked},
			Run:  e.to(RouteLogin),
		},
	}
}

func (e *NavigationEffects) to(route string) func(context.Context, store.Action) *store.Action {
	return func(ctx context.Context, _ store.Action) *store.Action {
		e.nav.NavigateRoot(ctx, route)
		return nil
	}
}
