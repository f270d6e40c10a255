package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/yndnr/teataster-go/internal/core/domain"
	"github.com/yndnr/teataster-go/internal/vault"
)

// maxSetAttempts bounds how often a new passcode may be mistyped.
const maxSetAttempts = 3

// Terminal reads from a terminal without echo, or line by line when the
// input is a pipe.
type Terminal struct {
	mu     sync.Mutex
	in     *bufio.Reader
	out    io.Writer
	fd     int
	secret func(fd int) ([]byte, error)
}

var _ vault.Prompter = (*Terminal)(nil)

// NewTerminal creates a prompt on in and out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{
		in:     bufio.NewReader(in),
		out:    out,
		fd:     -1,
		secret: term.ReadPassword,
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		t.fd = int(f.Fd())
	}
	return t
}

// Reader returns the buffered input, for callers that read lines between
// prompts.
func (t *Terminal) Reader() io.Reader {
	return t.in
}

// IsTerminal reports whether input comes from a terminal.
func (t *Terminal) IsTerminal() bool {
	return t.fd >= 0
}

// PresentPasscode asks for the passcode. In set mode the new passcode is
// typed twice. An empty entry dismisses the prompt.
func (t *Terminal) PresentPasscode(ctx context.Context, setMode bool) (vault.Dismissal, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !setMode {
		code, err := t.readSecret(ctx, "Passcode: ")
		return dismissal(code), err
	}

	for i := 0; i < maxSetAttempts; i++ {
		code, err := t.readSecret(ctx, "Create passcode: ")
		if err != nil || code == "" {
			return dismissal(""), err
		}
		again, err := t.readSecret(ctx, "Verify passcode: ")
		if err != nil {
			return dismissal(""), err
		}
		if code == again {
			return dismissal(code), nil
		}
		fmt.Fprintln(t.out, "Passcodes do not match.")
	}
	return dismissal(""), nil
}

// Confirm asks a yes/no question. Anything but y or yes is no.
func (t *Terminal) Confirm(ctx context.Context, question string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	answer, err := t.readLine(ctx, question+" [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ReadLine prints label and returns the next input line, trimmed.
func (t *Terminal) ReadLine(ctx context.Context, label string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.readLine(ctx, label)
}

// ReadSecret prints label and reads a line without echo on a terminal.
func (t *Terminal) ReadSecret(ctx context.Context, label string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.readSecret(ctx, label)
}

func (t *Terminal) readLine(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(t.out, label)
	line, err := t.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(t.out)
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (t *Terminal) readSecret(ctx context.Context, label string) (string, error) {
	if t.fd < 0 {
		return t.readLine(ctx, label)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(t.out, label)
	b, err := t.secret(t.fd)
	fmt.Fprintln(t.out)
	if err != nil {
		return "", fmt.Errorf("read passcode: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func dismissal(code string) vault.Dismissal {
	if code == "" {
		return vault.Dismissal{Role: vault.RoleCancel}
	}
	return vault.Dismissal{Role: vault.RoleOK, Data: code}
}

// Biometrics simulates a fingerprint sensor by asking for confirmation.
type Biometrics struct {
	term    *Terminal
	enabled bool
}

var _ vault.Biometrics = (*Biometrics)(nil)

// NewBiometrics returns a sensor that is available only when enabled.
func NewBiometrics(t *Terminal, enabled bool) *Biometrics {
	return &Biometrics{term: t, enabled: enabled}
}

// Available implements vault.Biometrics.
func (b *Biometrics) Available(context.Context) bool {
	return b.enabled
}

// Authenticate implements vault.Biometrics.
func (b *Biometrics) Authenticate(ctx context.Context, reason string) error {
	if !b.enabled {
		return domain.ErrBiometricsUnavailable
	}
	ok, err := b.term.Confirm(ctx, reason+": touch the sensor?")
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrBiometricsFailed
	}
	return nil
}
