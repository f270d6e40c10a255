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

// NotesCommand returns the tasting notes command group.
func NotesCommand() *cli.Command {
	return &cli.Command{
		Name:  "notes",
		Usage: "Manage tasting notes",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List tasting notes",
				Action:  listNotes,
			},
			{
				Name:      "show",
				Usage:     "Show a tasting note",
				ArgsUsage: "ID",
				Action:    showNote,
			},
			{
				Name:  "save",
				Usage: "Add a tasting note, or update one with --id",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "id", Usage: "Note to update"},
					&cli.StringFlag{Name: "brand", Aliases: []string{"b"}, Usage: "Tea brand"},
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Tea name"},
					&cli.IntFlag{Name: "category", Aliases: []string{"c"}, Usage: "Tea category ID"},
					&cli.IntFlag{Name: "rating", Aliases: []string{"r"}, Usage: "Rating from 0 to 5"},
					&cli.StringFlag{Name: "notes", Usage: "Free-form tasting notes"},
				},
				Action: saveNote,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a tasting note",
				ArgsUsage: "ID",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Skip confirmation"},
				},
				Action: deleteNote,
			},
		},
		Action: listNotes,
	}
}

type noteList struct {
	notes []domain.TastingNote
	teas  []domain.Tea
}

func (l noteList) Table() *output.Table {
	category := make(map[int]string, len(l.teas))
	for _, tea := range l.teas {
		category[tea.ID] = tea.Name
	}
	t := &output.Table{Headers: []string{"ID", "BRAND", "NAME", "CATEGORY", "RATING", "NOTES"}}
	for _, n := range l.notes {
		cat, ok := category[n.TeaCategoryID]
		if !ok {
			cat = strconv.Itoa(n.TeaCategoryID)
		}
		t.AddRow(strconv.Itoa(n.ID), n.Brand, n.Name, cat,
			output.Stars(n.Rating, domain.MaxRating), output.Truncate(n.Notes, 40))
	}
	return t
}

// loadNotes fetches the notes the way the notes page does each time it
// opens.
func loadNotes(ctx context.Context, rt *Runtime) (*app.App, []domain.TastingNote, error) {
	a, _, err := rt.Session(ctx)
	if err != nil {
		return nil, nil, err
	}
	err = rt.withSpinner("Loading notes...", func() error {
		_, err := dispatch(ctx, a.Store(), store.NotesPageLoaded(),
			store.TypeNotesPageLoadedSuccess, store.TypeNotesPageLoadedFailure)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return a, store.SelectNotes(a.Store().State()), nil
}

func noteArg(c *cli.Context) (int, error) {
	s := c.Args().First()
	if s == "" {
		return 0, domain.ErrMissingArgument.WithDetails("note ID")
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("note ID %q is not a number", s))
	}
	return id, nil
}

func findNote(ctx context.Context, rt *Runtime, id int) (*app.App, domain.TastingNote, error) {
	a, _, err := loadNotes(ctx, rt)
	if err != nil {
		return nil, domain.TastingNote{}, err
	}
	note, ok := store.SelectNote(a.Store().State(), id)
	if !ok {
		return nil, domain.TastingNote{}, domain.ErrNoteNotFound.WithDetails(fmt.Sprintf("id %d", id))
	}
	return a, note, nil
}

func listNotes(c *cli.Context) error {
	rt := runtimeFrom(c)
	a, notes, err := loadNotes(c.Context, rt)
	if err != nil {
		return err
	}
	f, err := rt.format(c)
	if err != nil {
		return err
	}
	if f == output.FormatTable {
		return rt.render(c, noteList{notes: notes, teas: store.SelectTeas(a.Store().State())})
	}
	return rt.render(c, notes)
}

func showNote(c *cli.Context) error {
	rt := runtimeFrom(c)
	id, err := noteArg(c)
	if err != nil {
		return err
	}
	_, note, err := findNote(c.Context, rt, id)
	if err != nil {
		return err
	}
	return rt.render(c, note)
}

func saveNote(c *cli.Context) error {
	rt := runtimeFrom(c)
	ctx := c.Context

	var (
		a    *app.App
		note domain.TastingNote
		err  error
	)
	if id := c.Int("id"); id != 0 {
		if a, note, err = findNote(ctx, rt, id); err != nil {
			return err
		}
	} else if a, _, err = rt.Session(ctx); err != nil {
		return err
	}

	if c.IsSet("brand") {
		note.Brand = c.String("brand")
	}
	if c.IsSet("name") {
		note.Name = c.String("name")
	}
	if c.IsSet("category") {
		note.TeaCategoryID = c.Int("category")
	}
	if c.IsSet("rating") {
		note.Rating = c.Int("rating")
	}
	if c.IsSet("notes") {
		note.Notes = c.String("notes")
	}
	if err := note.Validate(); err != nil {
		return err
	}

	isNew := note.IsNew()
	got, err := dispatch(ctx, a.Store(), store.NoteSaved(note),
		store.TypeNoteSavedSuccess, store.TypeNoteSavedFailure)
	if err != nil {
		return err
	}
	if f, _ := rt.format(c); f != output.FormatTable {
		return rt.render(c, got.Note)
	}
	if isNew {
		rt.printf(c, "Added note %d.\n", got.Note.ID)
	} else {
		rt.printf(c, "Updated note %d.\n", got.Note.ID)
	}
	return nil
}

func deleteNote(c *cli.Context) error {
	rt := runtimeFrom(c)
	ctx := c.Context

	id, err := noteArg(c)
	if err != nil {
		return err
	}
	a, note, err := findNote(ctx, rt, id)
	if err != nil {
		return err
	}
	if !c.Bool("force") {
		ok, err := rt.term.Confirm(ctx, fmt.Sprintf("Delete note %d (%s %s)?", note.ID, note.Brand, note.Name))
		if err != nil {
			return err
		}
		if !ok {
			rt.printf(c, "Cancelled.\n")
			return nil
		}
	}
	if _, err := dispatch(ctx, a.Store(), store.NoteDeleted(note),
		store.TypeNoteDeletedSuccess, store.TypeNoteDeletedFailure); err != nil {
		return err
	}
	rt.printf(c, "Deleted note %d.\n", id)
	return nil
}
