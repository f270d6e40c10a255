package app

import (
	"github.com/yndnr/teataster-go/internal/core/domain"
	"github.com/yndnr/teataster-go/internal/store"
	"github.com/yndnr/teataster-go/internal/vault"
)

// storeNotifier turns vault events into store actions.
type storeNotifier struct {
	store *store.Store
}

var _ vault.Notifier = storeNotifier{}

func (n storeNotifier) SessionLocked(vault.LockEvent) {
	n.store.Dispatch(store.SessionLocked())
}

func (n storeNotifier) SessionRestored(session domain.Session) {
	n.store.Dispatch(store.SessionRestored(session))
}
