package store

import (
	"slices"

	"github.com/yndnr/teataster-go/internal/core/domain"
)

// Reduce is the root reducer. It never modifies s or a; unhandled actions
// return s unchanged.
func Reduce(s State, a Action) State {
	return State{
		Auth: AuthReducer(s.Auth, a),
		Data: DataReducer(s.Data, a),
	}
}

// AuthReducer reduces the auth slice.
func AuthReducer(s AuthState, a Action) AuthState {
	switch a.Type {
	case TypeLogin, TypeUnlockSession, TypeLogout:
		s.Loading = true
		s.ErrorMessage = ""
	case TypeLoginSuccess, TypeUnlockSessionSuccess:
		s.Session = a.Session.Clone()
		s.Loading = false
	case TypeLoginFailure, TypeUnlockSessionFailure, TypeLogoutFailure:
		s.Loading = false
		s.ErrorMessage = a.ErrorMessage
	case TypeSessionRestored:
		s.Session = a.Session.Clone()
	case TypeSessionLocked, TypeUnauthError:
		s.Session = nil
	case TypeLogoutSuccess:
		s.Session = nil
		s.Loading = false
		s.ErrorMessage = ""
	}
	return s
}

// DataReducer reduces the data slice. Slices are copied, never updated in
// place.
func DataReducer(s DataState, a Action) DataState {
	switch a.Type {
	case TypeLoginSuccess, TypeSessionRestored,
		TypeNotesPageLoaded, TypeNoteSaved, TypeNoteDeleted:
		s.Loading = true
		s.ErrorMessage = ""

	case TypeInitialLoadSuccess:
		s.Loading = false
		s.Teas = slices.Clone(a.Teas)
		if s.Teas == nil {
			s.Teas = []domain.Tea{}
		}

	case TypeInitialLoadFailure,
		TypeNotesPageLoadedFailure, TypeNoteSavedFailure, TypeNoteDeletedFailure:
		s.Loading = false
		s.ErrorMessage = a.ErrorMessage

	case TypeLogoutSuccess:
		s.Teas = []domain.Tea{}
		s.Notes = []domain.TastingNote{}

	case TypeTeaDetailsChangeRatingSuccess:
		if a.Tea == nil {
			break
		}
		if idx := slices.IndexFunc(s.Teas, func(t domain.Tea) bool { return t.ID == a.Tea.ID }); idx > -1 {
			s.Teas = slices.Clone(s.Teas)
			s.Teas[idx] = *a.Tea
		}

	case TypeTeaDetailsChangeRatingFailure:
		s.ErrorMessage = a.ErrorMessage

	case TypeNotesPageLoadedSuccess:
		s.Loading = false
		s.Notes = slices.Clone(a.Notes)
		if s.Notes == nil {
			s.Notes = []domain.TastingNote{}
		}

	case TypeNoteSavedSuccess:
		s.Loading = false
		if a.Note == nil {
			break
		}
		notes := slices.Clone(s.Notes)
		if idx := indexOfNote(notes, a.Note.ID); idx > -1 {
			notes[idx] = *a.Note
		} else {
			notes = append(notes, *a.Note)
		}
		s.Notes = notes

	case TypeNoteDeletedSuccess:
		s.Loading = false
		if a.Note == nil {
			break
		}
		if idx := indexOfNote(s.Notes, a.Note.ID); idx > -1 {
			s.Notes = slices.Delete(slices.Clone(s.Notes), idx, idx+1)
		}
	}
	return s
}

func indexOfNote(notes []domain.TastingNote, id int) int {
	return slices.IndexFunc(notes, func(n domain.TastingNote) bool { return n.ID == id })
}
