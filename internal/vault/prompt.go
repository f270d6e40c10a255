package vault

import "context"

// Dismissal roles reported by a Prompter.
const (
	RoleOK     = "OK"
	RoleCancel = "cancel"
)

// Dismissal is how the passcode prompt was closed.
type Dismissal struct {
	Role string
	Data string
}

// Prompter presents the passcode prompt and waits for it to be dismissed.
// In set mode the user chooses a new passcode; otherwise they enter the
// existing one.
type Prompter interface {
	PresentPasscode(ctx context.Context, setMode bool) (Dismissal, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context, setMode bool) (Dismissal, error)

// PresentPasscode calls f.
func (f PrompterFunc) PresentPasscode(ctx context.Context, setMode bool) (Dismissal, error) {
	return f(ctx, setMode)
}

// noPrompter dismisses every prompt without data.
type noPrompter struct{}

func (noPrompter) PresentPasscode(context.Context, bool) (Dismissal, error) {
	return Dismissal{Role: RoleCancel}, nil
}
