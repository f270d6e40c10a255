package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/yndnr/teataster-go/internal/core/domain"
	"github.com/yndnr/teataster-go/internal/storage"
)

// seqKey holds the last note id handed out.
var seqKey = []byte("seq/notes")

// NotesService stores each user's tasting notes in a KV engine under
// notes/<user id>/<note id>.
type NotesService struct {
	kv      storage.KVEngine
	catalog *CatalogService

	// mu serializes id allocation and read-modify-write of a note.
	mu sync.Mutex
}

// NewNotesService creates a NotesService on kv. Notes must reference a
// category of catalog.
func NewNotesService(kv storage.KVEngine, catalog *CatalogService) *NotesService {
	return &NotesService{kv: kv, catalog: catalog}
}

func userPrefix(userID int) []byte {
	return []byte(fmt.Sprintf("notes/%d/", userID))
}

func noteKey(userID, noteID int) []byte {
	return []byte(fmt.Sprintf("notes/%d/%010d", userID, noteID))
}

// List returns the user's notes in id order.
func (s *NotesService) List(ctx context.Context, userID int) ([]domain.TastingNote, error) {
	notes := []domain.TastingNote{}
	var decodeErr error
	err := s.kv.Scan(ctx, userPrefix(userID), func(_, value []byte) bool {
		var n domain.TastingNote
		if err := json.Unmarshal(value, &n); err != nil {
			decodeErr = err
			return false
		}
		notes = append(notes, n)
		return true
	})
	if err != nil {
		return nil, domain.ErrStorageError.WithCause(err)
	}
	if decodeErr != nil {
		return nil, domain.ErrStorageError.WithCause(decodeErr)
	}
	return notes, nil
}

// Save creates the note when its id is 0 and replaces it otherwise. It
// returns the stored note.
func (s *NotesService) Save(ctx context.Context, userID int, note domain.TastingNote) (domain.TastingNote, error) {
	if err := note.Validate(); err != nil {
		return domain.TastingNote{}, err
	}
	if s.catalog != nil && !s.catalog.Has(note.TeaCategoryID) {
		return domain.TastingNote{}, domain.ErrNoteValidation.WithDetails(
			fmt.Sprintf("unknown tea category %d", note.TeaCategoryID))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if note.IsNew() {
		id, err := s.nextID(ctx)
		if err != nil {
			return domain.TastingNote{}, err
		}
		note.ID = id
	} else if _, err := s.kv.Get(ctx, noteKey(userID, note.ID)); err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return domain.TastingNote{}, domain.ErrNoteNotFound.WithDetails(fmt.Sprintf("id %d", note.ID))
		}
		return domain.TastingNote{}, domain.ErrStorageError.WithCause(err)
	}

	data, err := json.Marshal(note)
	if err != nil {
		return domain.TastingNote{}, domain.ErrInternal.WithCause(err)
	}
	if err := s.kv.Set(ctx, noteKey(userID, note.ID), data); err != nil {
		return domain.TastingNote{}, domain.ErrStorageError.WithCause(err)
	}
	return note, nil
}

// Delete removes a note.
func (s *NotesService) Delete(ctx context.Context, userID, noteID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := noteKey(userID, noteID)
	if _, err := s.kv.Get(ctx, key); err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return domain.ErrNoteNotFound.WithDetails(fmt.Sprintf("id %d", noteID))
		}
		return domain.ErrStorageError.WithCause(err)
	}
	if err := s.kv.Delete(ctx, key); err != nil {
		return domain.ErrStorageError.WithCause(err)
	}
	return nil
}

// nextID allocates a note id. Callers hold mu.
func (s *NotesService) nextID(ctx context.Context) (int, error) {
	last := 0
	raw, err := s.kv.Get(ctx, seqKey)
	switch {
	case err == nil:
		if last, err = strconv.Atoi(string(raw)); err != nil {
			return 0, domain.ErrStorageError.WithCause(err)
		}
	case !errors.Is(err, storage.ErrKeyNotFound):
		return 0, domain.ErrStorageError.WithCause(err)
	}

	next := last + 1
	if err := s.kv.Set(ctx, seqKey, []byte(strconv.Itoa(next))); err != nil {
		return 0, domain.ErrStorageError.WithCause(err)
	}
	return next, nil
}
