package app

import (
	"context"
	"sync"

	"github.com/yndnr/teataster-go/internal/effects"
)

// Navigator tracks the visible page. Listeners hear every navigation.
type Navigator struct {
	mu        sync.Mutex
	route     string
	listeners []func(route string)
}

var _ effects.Navigator = (*Navigator)(nil)

// NewNavigator starts on the login page.
func NewNavigator() *Navigator {
	return &Navigator{route: effects.RouteLogin}
}

// NavigateRoot replaces the page stack with route.
func (n *Navigator) NavigateRoot(_ context.Context, route string) {
	n.mu.Lock()
	n.route = route
	listeners := append([]func(string){}, n.listeners...)
	n.mu.Unlock()

	for _, l := range listeners {
		l(route)
	}
}

// Route returns the current page.
func (n *Navigator) Route() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.route
}

// OnNavigate registers a listener.
func (n *Navigator) OnNavigate(fn func(route string)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, fn)
}
