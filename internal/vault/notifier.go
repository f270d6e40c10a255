package vault

import "github.com/yndnr/teataster-go/internal/core/domain"

// LockEvent describes why the vault locked.
type LockEvent struct {
	// Timeout is true when the inactivity timer fired.
	Timeout bool
}

// Notifier receives vault events. The store adapter turns them into the
// sessionLocked and sessionRestored actions.
type Notifier interface {
	SessionLocked(ev LockEvent)
	SessionRestored(session domain.Session)
}

type nopNotifier struct{}

func (nopNotifier) SessionLocked(LockEvent)               {}
func (nopNotifier) SessionRestored(session domain.Session) {}
