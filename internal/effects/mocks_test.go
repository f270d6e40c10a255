package effects

import (
	"context"
	"sync"

	"github.com/yndnr/teataster-go/internal/core/domain"
	"github.com/yndnr/teataster-go/internal/vault"
)

// mockVault records calls in order.
type mockVault struct {
	mu    sync.Mutex
	calls []string

	session     *domain.Session
	modes       []domain.AuthMode
	loginErr    error
	logoutErr   error
	unlockErr   error
	setModeErr  error
	tokenErr    error
	locked      bool
	canUnlock   bool
	biometrics  bool
	restoreErr  error
	restoreSess *domain.Session
}

var _ vault.Vault = (*mockVault)(nil)

func (m *mockVault) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockVault) callLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockVault) count(call string) int {
	n := 0
	for _, c := range m.callLog() {
		if c == call {
			n++
		}
	}
	return n
}

func (m *mockVault) Login(_ context.Context, s domain.Session) error {
	m.record("Login")
	if m.loginErr != nil {
		return m.loginErr
	}
	m.session = s.Clone()
	return nil
}

func (m *mockVault) RestoreSession(context.Context) (*domain.Session, error) {
	m.record("RestoreSession")
	return m.restoreSess, m.restoreErr
}

func (m *mockVault) Logout(context.Context) error {
	m.record("Logout")
	if m.logoutErr != nil {
		return m.logoutErr
	}
	m.session = nil
	return nil
}

func (m *mockVault) Lock(context.Context) error {
	m.record("Lock")
	m.locked = true
	return nil
}

func (m *mockVault) Unlock(context.Context) error {
	m.record("Unlock")
	if m.unlockErr != nil {
		return m.unlockErr
	}
	m.locked = false
	return nil
}

func (m *mockVault) CanUnlock(context.Context) (bool, error) {
	m.record("CanUnlock")
	return m.canUnlock, nil
}

func (m *mockVault) IsLocked(context.Context) (bool, error) {
	m.record("IsLocked")
	return m.locked, nil
}

func (m *mockVault) IsBiometricsAvailable(context.Context) bool {
	m.record("IsBiometricsAvailable")
	return m.biometrics
}

func (m *mockVault) SetAuthMode(_ context.Context, mode domain.AuthMode) error {
	m.record("SetAuthMode")
	if m.setModeErr != nil {
		return m.setModeErr
	}
	m.modes = append(m.modes, mode)
	return nil
}

func (m *mockVault) Token(context.Context) (string, error) {
	m.record("Token")
	if m.tokenErr != nil {
		return "", m.tokenErr
	}
	if m.session == nil {
		return "", domain.ErrVaultEmpty
	}
	return m.session.Token, nil
}

type mockAuth struct {
	token     string
	user      domain.User
	loginErr  error
	logoutErr error
	userErr   error

	mu        sync.Mutex
	userToken []string
}

func (m *mockAuth) Login(_ context.Context, email, password string) (string, error) {
	if m.loginErr != nil {
		return "", m.loginErr
	}
	return m.token, nil
}

func (m *mockAuth) Logout(context.Context) error {
	return m.logoutErr
}

func (m *mockAuth) GetUserInfo(_ context.Context, token string) (domain.User, error) {
	m.mu.Lock()
	m.userToken = append(m.userToken, token)
	m.mu.Unlock()
	if m.userErr != nil {
		return domain.User{}, m.userErr
	}
	return m.user, nil
}

type mockTeas struct {
	teas    []domain.Tea
	getErr  error
	saveErr error
	saved   []domain.Tea
}

func (m *mockTeas) GetAll(context.Context) ([]domain.Tea, error) {
	return m.teas, m.getErr
}

func (m *mockTeas) Save(_ context.Context, tea domain.Tea) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, tea)
	return nil
}

type mockNotes struct {
	notes     []domain.TastingNote
	getErr    error
	saveErr   error
	deleteErr error
	nextID    int
	deleted   []int
}

func (m *mockNotes) GetAll(context.Context) ([]domain.TastingNote, error) {
	return m.notes, m.getErr
}

func (m *mockNotes) Save(_ context.Context, n domain.TastingNote) (domain.TastingNote, error) {
	if m.saveErr != nil {
		return domain.TastingNote{}, m.saveErr
	}
	if n.IsNew() {
		n.ID = m.nextID
	}
	return n, nil
}

func (m *mockNotes) Delete(_ context.Context, id int) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

type mockNavigator struct {
	mu     sync.Mutex
	routes []string
}

func (m *mockNavigator) NavigateRoot(_ context.Context, route string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes = append(m.routes, route)
}

func (m *mockNavigator) last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.routes) == 0 {
		return ""
	}
	return m.routes[len(m.routes)-1]
}
