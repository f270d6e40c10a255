package store

import "github.com/yndnr/teataster-go/internal/core/domain"

// SelectSession returns the current session or nil.
func SelectSession(s State) *domain.Session { return s.Auth.Session }

// SelectUser returns the signed in user or nil.
func SelectUser(s State) *domain.User {
	if s.Auth.Session == nil {
		return nil
	}
	u := s.Auth.Session.User
	return &u
}

// SelectAuthErrorMessage returns the last auth error.
func SelectAuthErrorMessage(s State) string { return s.Auth.ErrorMessage }

// SelectAuthLoading reports an outstanding auth operation.
func SelectAuthLoading(s State) bool { return s.Auth.Loading }

// SelectTeas returns the tea catalog.
func SelectTeas(s State) []domain.Tea { return s.Data.Teas }

// SelectTea returns the tea with id.
func SelectTea(s State, id int) (domain.Tea, bool) {
	for _, t := range s.Data.Teas {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Tea{}, false
}

// SelectNotes returns the tasting notes.
func SelectNotes(s State) []domain.TastingNote { return s.Data.Notes }

// SelectNote returns the note with id.
func SelectNote(s State, id int) (domain.TastingNote, bool) {
	if idx := indexOfNote(s.Data.Notes, id); idx > -1 {
		return s.Data.Notes[idx], true
	}
	return domain.TastingNote{}, false
}

// SelectDataErrorMessage returns the last data error.
func SelectDataErrorMessage(s State) string { return s.Data.ErrorMessage }

// SelectDataLoading reports an outstanding data operation.
func SelectDataLoading(s State) bool { return s.Data.Loading }
