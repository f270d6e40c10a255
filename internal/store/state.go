package store

import "github.com/yndnr/teataster-go/internal/core/domain"

// AuthState is the authentication slice.
type AuthState struct {
	Session      *domain.Session
	Loading      bool
	ErrorMessage string
}

// DataState is the catalog and notes slice.
type DataState struct {
	Teas         []domain.Tea
	Notes        []domain.TastingNote
	Loading      bool
	ErrorMessage string
}

// State is the whole application state.
type State struct {
	Auth AuthState
	Data DataState
}

// InitialState returns the state before any action.
func InitialState() State {
	return State{
		Data: DataState{
			Teas:  []domain.Tea{},
			Notes: []domain.TastingNote{},
		},
	}
}
