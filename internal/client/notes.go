package client

import (
	"context"
	"fmt"

	"github.com/yndnr/teataster-go/internal/core/domain"
)

const notesPath = "/user-tasting-notes"

// TastingNotesService manages the user's tasting notes.
type TastingNotesService struct {
	conn *Connection
}

// NewTastingNotesService creates a TastingNotesService.
func NewTastingNotesService(conn *Connection) *TastingNotesService {
	return &TastingNotesService{conn: conn}
}

// GetAll returns the user's notes.
func (s *TastingNotesService) GetAll(ctx context.Context) ([]domain.TastingNote, error) {
	var notes []domain.TastingNote
	if err := s.conn.Get(ctx, notesPath, &notes); err != nil {
		return nil, fmt.Errorf("get tasting notes: %w", err)
	}
	return notes, nil
}

// Save creates a new note or updates an existing one and returns the
// stored note.
func (s *TastingNotesService) Save(ctx context.Context, note domain.TastingNote) (domain.TastingNote, error) {
	if err := note.Validate(); err != nil {
		return domain.TastingNote{}, err
	}
	path := notesPath
	if !note.IsNew() {
		path = fmt.Sprintf("%s/%d", notesPath, note.ID)
	}
	var saved domain.TastingNote
	if err := s.conn.Post(ctx, path, note, &saved); err != nil {
		return domain.TastingNote{}, fmt.Errorf("save tasting note: %w", err)
	}
	return saved, nil
}

// Delete removes a note.
func (s *TastingNotesService) Delete(ctx context.Context, id int) error {
	if err := s.conn.Delete(ctx, fmt.Sprintf("%s/%d", notesPath, id)); err != nil {
		return fmt.Errorf("delete tasting note %d: %w", id, err)
	}
	return nil
}
