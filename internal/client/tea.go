package client

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/yndnr/teataster-go/internal/core/domain"
)

// maxConvertWorkers bounds concurrent rating lookups in GetAll.
const maxConvertWorkers = 8

// TeaService reads the tea catalog and keeps ratings on the device.
type TeaService struct {
	conn  *Connection
	prefs *Preferences
}

// NewTeaService creates a TeaService.
func NewTeaService(conn *Connection, prefs *Preferences) *TeaService {
	return &TeaService{conn: conn, prefs: prefs}
}

// GetAll returns every tea category with its image and stored rating.
func (s *TeaService) GetAll(ctx context.Context) ([]domain.Tea, error) {
	var raw []domain.Tea
	if err := s.conn.Get(ctx, "/tea-categories", &raw); err != nil {
		return nil, fmt.Errorf("get tea categories: %w", err)
	}

	teas := make([]domain.Tea, len(raw))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConvertWorkers)
	for i := range raw {
		g.Go(func() error {
			t, err := s.convert(gctx, raw[i])
			if err != nil {
				return err
			}
			teas[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return teas, nil
}

// Save stores the tea's rating.
func (s *TeaService) Save(ctx context.Context, tea domain.Tea) error {
	return s.prefs.SetRating(ctx, tea.ID, tea.Rating)
}

func (s *TeaService) convert(ctx context.Context, t domain.Tea) (domain.Tea, error) {
	rating, err := s.prefs.Rating(ctx, t.ID)
	if err != nil {
		return domain.Tea{}, fmt.Errorf("read rating of tea %d: %w", t.ID, err)
	}
	t.Image = domain.TeaImage(t.ID)
	t.Rating = rating
	return t, nil
}
