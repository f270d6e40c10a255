package effects

import (
	"context"

	"github.com/yndnr/teataster-go/internal/core/domain"
	"github.com/yndnr/teataster-go/internal/store"
	"github.com/yndnr/teataster-go/internal/telemetry/logger"
)

// DataEffects loads and saves teas and tasting notes.
type DataEffects struct {
	teas   TeaAPI
	notes  NotesAPI
	logger logger.Logger
}

// NewDataEffects creates the data effects.
func NewDataEffects(teas TeaAPI, notes NotesAPI, l logger.Logger) *DataEffects {
	return &DataEffects{teas: teas, notes: notes, logger: l}
}

// Effects returns the store registrations.
func (e *DataEffects) Effects() []store.Effect {
	return []store.Effect{
		{
			Name: "data.initialLoad",
			On:   []store.ActionType{store.TypeLoginSuccess, store.TypeSessionRestored},
			Run:  e.InitialLoad,
		},
		{Name: "data.changeRating", On: []store.ActionType{store.TypeTeaDetailsChangeRating}, Run: e.ChangeRating, Serial: true},
		{Name: "data.loadNotes", On: []store.ActionType{store.TypeNotesPageLoaded}, Run: e.LoadNotes},
		{Name: "data.saveNote", On: []store.ActionType{store.TypeNoteSaved}, Run: e.SaveNote, Serial: true},
		{Name: "data.deleteNote", On: []store.ActionType{store.TypeNoteDeleted}, Run: e.DeleteNote},
	}
}

// InitialLoad fetches the tea catalog.
func (e *DataEffects) InitialLoad(ctx context.Context, a store.Action) *store.Action {
	teas, err := e.teas.GetAll(ctx)
	if err != nil {
		logFor(ctx, e.logger).Error("initial data load", "error", err)
		next := store.InitialLoadFailure(MsgDataLoad)
		return &next
	}
	next := store.InitialLoadSuccess(teas)
	return &next
}

// ChangeRating stores a tea's new rating.
func (e *DataEffects) ChangeRating(ctx context.Context, a store.Action) *store.Action {
	if a.Tea == nil {
		next := store.TeaDetailsChangeRatingFailure(domain.ErrMissingArgument.Message)
		return &next
	}
	tea := *a.Tea
	if err := e.teas.Save(ctx, tea); err != nil {
		next := store.TeaDetailsChangeRatingFailure(rawMessage(err, MsgDataLoad))
		return &next
	}
	next := store.TeaDetailsChangeRatingSuccess(tea)
	return &next
}

// LoadNotes fetches the tasting notes.
func (e *DataEffects) LoadNotes(ctx context.Context, a store.Action) *store.Action {
	notes, err := e.notes.GetAll(ctx)
	if err != nil {
		next := store.NotesPageLoadedFailure(rawMessage(err, MsgDataLoad))
		return &next
	}
	next := store.NotesPageLoadedSuccess(notes)
	return &next
}

// SaveNote creates or updates a tasting note.
func (e *DataEffects) SaveNote(ctx context.Context, a store.Action) *store.Action {
	if a.Note == nil {
		next := store.NoteSavedFailure(domain.ErrMissingArgument.Message)
		return &next
	}
	saved, err := e.notes.Save(ctx, *a.Note)
	if err != nil {
		next := store.NoteSavedFailure(rawMessage(err, MsgDataLoad))
		return &next
	}
	next := store.NoteSavedSuccess(saved)
	return &next
}

// DeleteNote removes a tasting note.
func (e *DataEffects) DeleteNote(ctx context.Context, a store.Action) *store.Action {
	if a.Note == nil {
		next := store.NoteDeletedFailure(domain.ErrMissingArgument.Message)
		return &next
	}
	note := *a.Note
	if err := e.notes.Delete(ctx, note.ID); err != nil {
		next := store.NoteDeletedFailure(rawMessage(err, MsgDataLoad))
		return &next
	}
	next := store.NoteDeletedSuccess(note)
	return &next
}
