package command

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/teataster-go/internal/cli/output"
	"github.com/yndnr/teataster-go/internal/core/domain"
	"github.com/yndnr/teataster-go/internal/store"
)

// unlockModes lists the modes offered at login, with their labels. The
// biometric mode is offered only when a sensor is available.
var unlockModes = []struct {
	Mode  domain.AuthMode
	Label string
}{
	{domain.AuthModeBiometricOnly, "Biometric Unlock"},
	{domain.AuthModePasscodeOnly, "Session PIN Unlock"},
	{domain.AuthModeSecureStorage, "Never Lock Session"},
	{domain.AuthModeInMemoryOnly, "Force Login"},
}

// LoginCommand returns the login command.
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in and keep the session in the vault",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "email",
				Aliases: []string{"e"},
				Usage:   "Account email (prompted when omitted)",
				EnvVars: []string{"TEATASTER_EMAIL"},
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Account password (prompted when omitted)",
				EnvVars: []string{"TEATASTER_PASSWORD"},
			},
			&cli.StringFlag{
				Name:    "mode",
				Aliases: []string{"m"},
				Usage:   "Unlock mode: passcode, biometric, both, secure, memory (default: the vault's current mode)",
			},
		},
		Action: login,
	}
}

func login(c *cli.Context) error {
	rt := runtimeFrom(c)
	ctx := c.Context

	var mode domain.AuthMode
	if m := c.String("mode"); m != "" {
		parsed, err := domain.ParseAuthMode(m)
		if err != nil {
			return err
		}
		mode = parsed
	}

	email := c.String("email")
	if email == "" {
		var err error
		if email, err = rt.term.ReadLine(ctx, "Email: "); err != nil {
			return err
		}
	}
	password := c.String("password")
	if password == "" {
		var err error
		if password, err = rt.term.ReadSecret(ctx, "Password: "); err != nil {
			return err
		}
	}
	if email == "" || password == "" {
		return domain.ErrMissingArgument.WithDetails("email and password are required")
	}

	a, err := rt.Client(ctx)
	if err != nil {
		return err
	}
	got, err := dispatch(ctx, a.Store(), store.Login(email, password, mode),
		store.TypeLoginSuccess, store.TypeLoginFailure)
	if err != nil {
		return err
	}

	user := got.Session.User
	if f, _ := rt.format(c); f != output.FormatTable {
		return rt.render(c, user)
	}
	rt.printf(c, "Logged in as %s (%s). Unlock mode: %s.\n", user.FullName(), user.Email, a.Vault().AuthMode())
	return nil
}

// UnlockCommand returns the unlock command.
func UnlockCommand() *cli.Command {
	return &cli.Command{
		Name:   "unlock",
		Usage:  "Unlock the stored session",
		Action: unlock,
	}
}

func unlock(c *cli.Context) error {
	rt := runtimeFrom(c)
	ctx := c.Context

	a, err := rt.Client(ctx)
	if err != nil {
		return err
	}
	v := a.Vault()

	locked, err := v.IsLocked(ctx)
	if err != nil {
		return err
	}
	if !locked {
		if _, err := v.Token(ctx); errors.Is(err, domain.ErrVaultEmpty) {
			return errNotLoggedIn
		}
		rt.printf(c, "Session is not locked.\n")
		return nil
	}

	can, err := v.CanUnlock(ctx)
	if err != nil {
		return err
	}
	if !can {
		return domain.ErrVaultLocked.WithDetails("this device cannot unlock the session, log in again")
	}

	got, err := dispatch(ctx, a.Store(), store.UnlockSession(),
		store.TypeUnlockSessionSuccess, store.TypeUnlockSessionFailure)
	if err != nil {
		return err
	}
	if f, _ := rt.format(c); f != output.FormatTable {
		return rt.render(c, got.Session.User)
	}
	rt.printf(c, "Unlocked. Welcome back, %s.\n", got.Session.User.FullName())
	return nil
}

// LockCommand returns the lock command.
func LockCommand() *cli.Command {
	return &cli.Command{
		Name:   "lock",
		Usage:  "Lock the session until it is unlocked again",
		Action: lock,
	}
}

func lock(c *cli.Context) error {
	rt := runtimeFrom(c)
	ctx := c.Context

	a, err := rt.Client(ctx)
	if err != nil {
		return err
	}
	v := a.Vault()
	if mode := v.AuthMode(); !mode.Lockable() {
		return domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("unlock mode %s never locks", mode))
	}
	if _, err := v.Token(ctx); errors.Is(err, domain.ErrVaultEmpty) {
		return errNotLoggedIn
	}
	if err := v.Lock(ctx); err != nil {
		return err
	}
	a.Store().Settle(ctx)
	rt.printf(c, "Session locked.\n")
	return nil
}

// LogoutCommand returns the logout command.
func LogoutCommand() *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Sign out and clear the vault",
		Action: logout,
	}
}

func logout(c *cli.Context) error {
	rt := runtimeFrom(c)
	ctx := c.Context

	a, _, err := rt.Session(ctx)
	if errors.Is(err, domain.ErrNotLoggedIn) {
		rt.printf(c, "Not logged in.\n")
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := dispatch(ctx, a.Store(), store.Logout(),
		store.TypeLogoutSuccess, store.TypeLogoutFailure); err != nil {
		return err
	}
	rt.printf(c, "Logged out.\n")
	return nil
}

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show the session and vault state",
		Action: status,
	}
}

type statusView struct {
	LoggedIn    bool     `json:"loggedIn"`
	User        string   `json:"user,omitempty"`
	Email       string   `json:"email,omitempty"`
	Locked      bool     `json:"locked"`
	CanUnlock   bool     `json:"canUnlock"`
	AuthMode    string   `json:"authMode"`
	Biometrics  bool     `json:"biometricsAvailable"`
	UnlockModes []string `json:"unlockModes"`
	Platform    string   `json:"platform"`
	DataService string   `json:"dataService"`
	Page        string   `json:"page"`
}

func status(c *cli.Context) error {
	rt := runtimeFrom(c)
	ctx := c.Context

	a, err := rt.Client(ctx)
	if err != nil {
		return err
	}
	v := a.Vault()

	locked, err := v.IsLocked(ctx)
	if err != nil {
		return err
	}
	canUnlock, err := v.CanUnlock(ctx)
	if err != nil {
		return err
	}

	view := statusView{
		Locked:      locked,
		CanUnlock:   canUnlock,
		AuthMode:    string(v.AuthMode()),
		Biometrics:  v.IsBiometricsAvailable(ctx),
		Platform:    string(rt.cfg.Vault.Platform),
		DataService: rt.cfg.DataService,
	}
	for _, m := range unlockModes {
		if m.Mode.UsesBiometrics() && !view.Biometrics {
			continue
		}
		view.UnlockModes = append(view.UnlockModes, fmt.Sprintf("%s (%s)", m.Label, m.Mode))
	}

	if !locked {
		// An unlocked vault restores without prompting.
		if _, session, err := rt.Session(ctx); err == nil {
			view.LoggedIn = true
			view.User = session.User.FullName()
			view.Email = session.User.Email
		} else if !errors.Is(err, domain.ErrNotLoggedIn) {
			return err
		}
	} else {
		view.LoggedIn = true
	}
	view.Page = a.Navigator().Route()

	return rt.render(c, view)
}
