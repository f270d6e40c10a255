package client

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/yndnr/teataster-go/internal/core/domain"
	"github.com/yndnr/teataster-go/internal/storage"
)

// Preferences stores small string settings on the device.
type Preferences struct {
	kv storage.KVEngine
}

// NewPreferences creates Preferences over kv.
func NewPreferences(kv storage.KVEngine) *Preferences {
	return &Preferences{kv: kv}
}

// Get returns the value under key and whether it was set.
func (p *Preferences) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := p.kv.Get(ctx, []byte(key))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, domain.ErrStorageError.WithCause(err)
	}
	return string(v), true, nil
}

// Set stores value under key.
func (p *Preferences) Set(ctx context.Context, key, value string) error {
	if err := p.kv.Set(ctx, []byte(key), []byte(value)); err != nil {
		return domain.ErrStorageError.WithCause(err)
	}
	return nil
}

// Remove deletes key.
func (p *Preferences) Remove(ctx context.Context, key string) error {
	if err := p.kv.Delete(ctx, []byte(key)); err != nil {
		return domain.ErrStorageError.WithCause(err)
	}
	return nil
}

// Rating returns the stored rating of a tea. Missing or unparsable values
// read as 0.
func (p *Preferences) Rating(ctx context.Context, teaID int) (int, error) {
	v, ok, err := p.Get(ctx, domain.RatingKey(teaID))
	if err != nil || !ok {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// SetRating stores the rating of a tea.
func (p *Preferences) SetRating(ctx context.Context, teaID, rating int) error {
	if err := domain.ValidateRating(rating); err != nil {
		return err
	}
	if err := p.Set(ctx, domain.RatingKey(teaID), strconv.Itoa(rating)); err != nil {
		return fmt.Errorf("save rating: %w", err)
	}
	return nil
}
