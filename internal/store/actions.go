package store

import (
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/teataster-go/internal/core/domain"
)

// ActionType names an action as "[Source] description".
type ActionType string

// Auth actions.
const (
	TypeLogin         ActionType = "[LoginPage] login"
	TypeLoginSuccess  ActionType = "[Auth API] login success"
	TypeLoginFailure  ActionType = "[Auth API] login failure"
	TypeLogout        ActionType = "[Application] logout"
	TypeLogoutSuccess ActionType = "[Auth API] logout success"
	TypeLogoutFailure ActionType = "[Auth API] logout failure"
	TypeUnauthError   ActionType = "[Auth API] unauthenticated error"

	TypeSessionRestored      ActionType = "[Vault API] session restored"
	TypeSessionLocked        ActionType = "[Vault API] session locked"
	TypeUnlockSession        ActionType = "[LoginPage] unlock session"
	TypeUnlockSessionSuccess ActionType = "[Vault API] unlock session success"
	TypeUnlockSessionFailure ActionType = "[Vault API] unlock session failure"
)

// Data actions.
const (
	TypeInitialLoadSuccess ActionType = "[Data API] initial data load success"
	TypeInitialLoadFailure ActionType = "[Data API] initial data load failure"

	TypeTeaDetailsChangeRating        ActionType = "[Tea Details Page] change rating"
	TypeTeaDetailsChangeRatingSuccess ActionType = "[Data API] change rating success"
	TypeTeaDetailsChangeRatingFailure ActionType = "[Data API] change rating failure"

	TypeNotesPageLoaded        ActionType = "[Notes Page] loaded"
	TypeNotesPageLoadedSuccess ActionType = "[Data API] notes page loaded success"
	TypeNotesPageLoadedFailure ActionType = "[Data API] notes page loaded failure"

	TypeNoteSaved        ActionType = "[Note Editor] note saved"
	TypeNoteSavedSuccess ActionType = "[Data API] note saved success"
	TypeNoteSavedFailure ActionType = "[Data API] note saved failure"

	TypeNoteDeleted        ActionType = "[Notes Page] note deleted"
	TypeNoteDeletedSuccess ActionType = "[Data API] note deleted success"
	TypeNoteDeletedFailure ActionType = "[Data API] note deleted failure"
)

// IsFailure reports whether t reports a failed operation.
func (t ActionType) IsFailure() bool {
	return strings.HasSuffix(string(t), " failure")
}

// Action is a message describing something that happened. Only the fields
// relevant to Type are set.
type Action struct {
	Type ActionType

	// ID correlates the action in logs. Dispatch fills it when empty.
	ID string

	Email    string
	Password string
	Mode     domain.AuthMode

	Session      *domain.Session
	ErrorMessage string

	Teas  []domain.Tea
	Tea   *domain.Tea
	Notes []domain.TastingNote
	Note  *domain.TastingNote
}

func newActionID() string {
	return ulid.Make().String()
}

// Login asks to sign in. An empty mode keeps the vault's current mode.
func Login(email, password string, mode domain.AuthMode) Action {
	return Action{Type: TypeLogin, Email: email, Password: password, Mode: mode}
}

// LoginSuccess carries the new session.
func LoginSuccess(session domain.Session) Action {
	return Action{Type: TypeLoginSuccess, Session: &session}
}

// LoginFailure carries a user-facing message.
func LoginFailure(msg string) Action {
	return Action{Type: TypeLoginFailure, ErrorMessage: msg}
}

// Logout asks to sign out.
func Logout() Action { return Action{Type: TypeLogout} }

// LogoutSuccess reports a completed sign out.
func LogoutSuccess() Action { return Action{Type: TypeLogoutSuccess} }

// LogoutFailure carries the sign out error.
func LogoutFailure(msg string) Action {
	return Action{Type: TypeLogoutFailure, ErrorMessage: msg}
}

// UnauthError reports that the data service rejected the session.
func UnauthError() Action { return Action{Type: TypeUnauthError} }

// SessionRestored carries a session read back from the vault.
func SessionRestored(session domain.Session) Action {
	return Action{Type: TypeSessionRestored, Session: &session}
}

// SessionLocked reports that the vault locked.
func SessionLocked() Action { return Action{Type: TypeSessionLocked} }

// UnlockSession asks to unlock the vault.
func UnlockSession() Action { return Action{Type: TypeUnlockSession} }

// UnlockSessionSuccess carries the unlocked session.
func UnlockSessionSuccess(session domain.Session) Action {
	return Action{Type: TypeUnlockSessionSuccess, Session: &session}
}

// UnlockSessionFailure carries the unlock error.
func UnlockSessionFailure(msg string) Action {
	return Action{Type: TypeUnlockSessionFailure, ErrorMessage: msg}
}

// InitialLoadSuccess carries the tea catalog.
func InitialLoadSuccess(teas []domain.Tea) Action {
	return Action{Type: TypeInitialLoadSuccess, Teas: teas}
}

// InitialLoadFailure carries the load error.
func InitialLoadFailure(msg string) Action {
	return Action{Type: TypeInitialLoadFailure, ErrorMessage: msg}
}

// TeaDetailsChangeRating asks to store a new rating for tea.
func TeaDetailsChangeRating(tea domain.Tea) Action {
	return Action{Type: TypeTeaDetailsChangeRating, Tea: &tea}
}

// TeaDetailsChangeRatingSuccess carries the updated tea.
func TeaDetailsChangeRatingSuccess(tea domain.Tea) Action {
	return Action{Type: TypeTeaDetailsChangeRatingSuccess, Tea: &tea}
}

// TeaDetailsChangeRatingFailure carries the save error.
func TeaDetailsChangeRatingFailure(msg string) Action {
	return Action{Type: TypeTeaDetailsChangeRatingFailure, ErrorMessage: msg}
}

// NotesPageLoaded asks to load the tasting notes.
func NotesPageLoaded() Action { return Action{Type: TypeNotesPageLoaded} }

// NotesPageLoadedSuccess carries the notes.
func NotesPageLoadedSuccess(notes []domain.TastingNote) Action {
	return Action{Type: TypeNotesPageLoadedSuccess, Notes: notes}
}

// NotesPageLoadedFailure carries the load error.
func NotesPageLoadedFailure(msg string) Action {
	return Action{Type: TypeNotesPageLoadedFailure, ErrorMessage: msg}
}

// NoteSaved asks to save note.
func NoteSaved(note domain.TastingNote) Action {
	return Action{Type: TypeNoteSaved, Note: &note}
}

// NoteSavedSuccess carries the stored note.
func NoteSavedSuccess(note domain.TastingNote) Action {
	return Action{Type: TypeNoteSavedSuccess, Note: &note}
}

// NoteSavedFailure carries the save error.
func NoteSavedFailure(msg string) Action {
	return Action{Type: TypeNoteSavedFailure, ErrorMessage: msg}
}

// NoteDeleted asks to delete note.
func NoteDeleted(note domain.TastingNote) Action {
	return Action{Type: TypeNoteDeleted, Note: &note}
}

// NoteDeletedSuccess carries the deleted note.
func NoteDeletedSuccess(note domain.TastingNote) Action {
	return Action{Type: TypeNoteDeletedSuccess, Note: &note}
}

// NoteDeletedFailure carries the delete error.
func NoteDeletedFailure(msg string) Action {
	return Action{Type: TypeNoteDeletedFailure, ErrorMessage: msg}
}
