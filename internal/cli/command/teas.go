package command

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/teataster-go/internal/app"
	"github.com/yndnr/teataster-go/internal/cli/output"
	"github.com/yndnr/teataster-go/internal/core/domain"
	"github.com/yndnr/teataster-go/internal/store"
)

// TeasCommand returns the teas command group.
func TeasCommand() *cli.Command {
	return &cli.Command{
		Name:  "teas",
		Usage: "Browse and rate the tea catalog",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List tea categories",
				Action:  listTeas,
			},
			{
				Name:      "show",
				Usage:     "Show a tea category",
				ArgsUsage: "ID",
				Action:    showTea,
			},
			{
				Name:      "rate",
				Usage:     "Rate a tea category from 0 to 5 stars",
				ArgsUsage: "ID RATING",
				Action:    rateTea,
			},
		},
		Action: listTeas,
	}
}

type teaList []domain.Tea

func (l teaList) Table() *output.Table {
	t := &output.Table{Headers: []string{"ID", "NAME", "RATING", "DESCRIPTION"}}
	for _, tea := range l {
		t.AddRow(strconv.Itoa(tea.ID), tea.Name, output.Stars(tea.Rating, domain.MaxRating),
			output.Truncate(tea.Description, 60))
	}
	return t
}

// loadTeas returns the catalog. A session unlocked in this process has no
// catalog yet, so it is loaded again.
func loadTeas(ctx context.Context, rt *Runtime) (*app.App, []domain.Tea, error) {
	a, session, err := rt.Session(ctx)
	if err != nil {
		return nil, nil, err
	}
	if teas := store.SelectTeas(a.Store().State()); len(teas) > 0 {
		return a, teas, nil
	}
	err = rt.withSpinner("Loading teas...", func() error {
		_, err := dispatch(ctx, a.Store(), store.SessionRestored(session),
			store.TypeInitialLoadSuccess, store.TypeInitialLoadFailure)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return a, store.SelectTeas(a.Store().State()), nil
}

func listTeas(c *cli.Context) error {
	rt := runtimeFrom(c)
	_, teas, err := loadTeas(c.Context, rt)
	if err != nil {
		return err
	}
	f, err := rt.format(c)
	if err != nil {
		return err
	}
	if f == output.FormatTable {
		return rt.render(c, teaList(teas))
	}
	return rt.render(c, teas)
}

func teaArg(c *cli.Context, i int) (int, error) {
	s := c.Args().Get(i)
	if s == "" {
		return 0, domain.ErrMissingArgument.WithDetails("tea ID")
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("tea ID %q is not a number", s))
	}
	return id, nil
}

func showTea(c *cli.Context) error {
	rt := runtimeFrom(c)
	id, err := teaArg(c, 0)
	if err != nil {
		return err
	}
	a, _, err := loadTeas(c.Context, rt)
	if err != nil {
		return err
	}
	tea, ok := store.SelectTea(a.Store().State(), id)
	if !ok {
		return domain.ErrTeaNotFound.WithDetails(fmt.Sprintf("id %d", id))
	}
	return rt.render(c, tea)
}

func rateTea(c *cli.Context) error {
	rt := runtimeFrom(c)
	ctx := c.Context

	id, err := teaArg(c, 0)
	if err != nil {
		return err
	}
	if c.Args().Len() < 2 {
		return domain.ErrMissingArgument.WithDetails("rating")
	}
	rating, err := strconv.Atoi(c.Args().Get(1))
	if err != nil {
		return domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("rating %q is not a number", c.Args().Get(1)))
	}
	if err := domain.ValidateRating(rating); err != nil {
		return err
	}

	a, _, err := loadTeas(ctx, rt)
	if err != nil {
		return err
	}
	tea, ok := store.SelectTea(a.Store().State(), id)
	if !ok {
		return domain.ErrTeaNotFound.WithDetails(fmt.Sprintf("id %d", id))
	}
	tea.Rating = rating

	got, err := dispatch(ctx, a.Store(), store.TeaDetailsChangeRating(tea),
		store.TypeTeaDetailsChangeRatingSuccess, store.TypeTeaDetailsChangeRatingFailure)
	if err != nil {
		return err
	}
	if f, _ := rt.format(c); f != output.FormatTable {
		return rt.render(c, got.Tea)
	}
	rt.printf(c, "%s rated %s\n", got.Tea.Name, output.Stars(got.Tea.Rating, domain.MaxRating))
	return nil
}
