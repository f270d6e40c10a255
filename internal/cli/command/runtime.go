package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/teataster-go/internal/app"
	"github.com/yndnr/teataster-go/internal/cli/config"
	"github.com/yndnr/teataster-go/internal/cli/output"
	"github.com/yndnr/teataster-go/internal/cli/prompt"
	"github.com/yndnr/teataster-go/internal/core/domain"
	"github.com/yndnr/teataster-go/internal/store"
)

const runtimeKey = "runtime"

// settleTimeout bounds the wait for running effects on close.
const settleTimeout = 5 * time.Second

var errNotLoggedIn = domain.ErrNotLoggedIn.WithDetails("run 'teataster login'")

// Runtime is the client shared by the commands of one invocation, or by
// every line of a shell.
type Runtime struct {
	cfg        *config.Config
	cfgPath    string
	env        Env
	term       *prompt.Terminal
	biometrics bool

	client *app.App
	// shared is set while a shell owns the runtime.
	shared bool
}

func newRuntime(c *cli.Context, env Env) (*Runtime, error) {
	path := c.String("config")
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.Load(path, overrides(c))
	if err != nil {
		return nil, err
	}
	return &Runtime{
		cfg:        cfg,
		cfgPath:    path,
		env:        env,
		term:       prompt.NewTerminal(env.In, env.Err),
		biometrics: c.Bool("biometrics"),
	}, nil
}

func runtimeFrom(c *cli.Context) *Runtime {
	if rt, ok := c.App.Metadata[runtimeKey].(*Runtime); ok {
		return rt
	}
	return nil
}

// Config returns the loaded client configuration.
func (r *Runtime) Config() *config.Config {
	return r.cfg
}

// Client opens the client on first use and starts its store.
func (r *Runtime) Client(ctx context.Context) (*app.App, error) {
	if r.client != nil {
		return r.client, nil
	}
	opts := append([]app.Option{
		app.WithPrompter(r.term),
		app.WithBiometrics(prompt.NewBiometrics(r.term, r.biometrics)),
	}, r.env.AppOptions...)

	a, err := app.New(ctx, r.cfg, opts...)
	if err != nil {
		return nil, err
	}
	a.Start(context.Background())
	r.client = a
	return a, nil
}

// Session returns the client with a signed in session. A stored session
// is restored first, which prompts for an unlock when the vault is locked
// and UnlockOnAccess is set.
func (r *Runtime) Session(ctx context.Context) (*app.App, domain.Session, error) {
	a, err := r.Client(ctx)
	if err != nil {
		return nil, domain.Session{}, err
	}
	if s := store.SelectSession(a.Store().State()); s != nil {
		return a, *s, nil
	}

	locked, err := a.Vault().IsLocked(ctx)
	if err != nil {
		return nil, domain.Session{}, err
	}
	if locked && !r.cfg.Vault.UnlockOnAccess {
		return nil, domain.Session{}, domain.ErrVaultLocked.WithDetails("run 'teataster unlock'")
	}

	exp := a.Store().Expect(store.TypeInitialLoadSuccess, store.TypeInitialLoadFailure)
	session, err := a.Restore(ctx)
	if err != nil || session == nil {
		exp.Cancel()
		if err == nil {
			err = errNotLoggedIn
		}
		return nil, domain.Session{}, err
	}
	if _, err := exp.Wait(ctx); err != nil {
		return nil, domain.Session{}, err
	}
	return a, *session, nil
}

// Close waits for running effects and closes the client.
func (r *Runtime) Close() error {
	if r.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), settleTimeout)
	defer cancel()
	r.client.Store().Settle(ctx)

	err := r.client.Close()
	r.client = nil
	return err
}

func (r *Runtime) out() io.Writer {
	return r.env.Out
}

// format returns the output format for this command: the flag when given
// on the command line, the configured default otherwise.
func (r *Runtime) format(c *cli.Context) (output.Format, error) {
	if c.IsSet("output") {
		return output.ParseFormat(c.String("output"))
	}
	return output.ParseFormat(r.cfg.Output)
}

// render writes data in the selected format.
func (r *Runtime) render(c *cli.Context, data any) error {
	format, err := r.format(c)
	if err != nil {
		return err
	}
	return output.NewFormatter(format).Format(r.out(), data)
}

// printf writes a status line. Machine-readable formats get none.
func (r *Runtime) printf(c *cli.Context, format string, args ...any) {
	if f, _ := r.format(c); f != output.FormatTable {
		return
	}
	fmt.Fprintf(r.out(), format, args...)
}

// dispatch sends a and waits for one of until. A failure action becomes
// an error carrying its message.
func dispatch(ctx context.Context, s *store.Store, a store.Action, until ...store.ActionType) (store.Action, error) {
	got, err := s.DispatchAndWait(ctx, a, until...)
	if err != nil {
		return got, err
	}
	if got.Type.IsFailure() {
		return got, errors.New(got.ErrorMessage)
	}
	return got, nil
}

// withSpinner shows a spinner on stderr while fn runs, when stderr is an
// interactive terminal.
func (r *Runtime) withSpinner(message string, fn func() error) error {
	if !r.term.IsTerminal() {
		return fn()
	}
	sp := output.NewSpinner(r.env.Err, message)
	sp.Start()
	err := fn()
	sp.Stop()
	return err
}
