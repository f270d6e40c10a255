package command

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/yndnr/teataster-go/internal/app"
	"github.com/yndnr/teataster-go/internal/core/domain"
	"github.com/yndnr/teataster-go/internal/telemetry/logger"
	"github.com/yndnr/teataster-go/internal/telemetry/metric"
	"github.com/yndnr/teataster-go/internal/vault"
)

const testToken = "tt_cli"

var testUser = domain.User{ID: 42, FirstName: "Joe", LastName: "Tester", Email: "test@ionic.io"}

// mockService is an in-memory data service.
type mockService struct {
	*httptest.Server

	mu     sync.Mutex
	notes  map[int]domain.TastingNote
	nextID int
}

func newMockService(t *testing.T) *mockService {
	t.Helper()
	m := &mockService{
		notes: map[int]domain.TastingNote{
			1: {ID: 1, Brand: "Lipton", Name: "Yellow Label", TeaCategoryID: 2, Rating: 3, Notes: "Bold and cheap"},
		},
		nextID: 2,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var body struct{ Username, Password string }
		json.NewDecoder(r.Body).Decode(&body)
		if body.Username != testUser.Email || body.Password != "password" {
			jsonResponse(w, http.StatusOK, map[string]any{"success": false})
			return
		}
		jsonResponse(w, http.StatusOK, map[string]any{"success": true, "token": testToken, "user": testUser})
	})
	mux.HandleFunc("POST /logout", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]any{})
	})
	mux.HandleFunc("GET /users/current", m.authed(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, testUser)
	}))
	mux.HandleFunc("GET /tea-categories", m.authed(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, []map[string]any{
			{"id": 1, "name": "Green", "description": "Green teas are the least processed"},
			{"id": 2, "name": "Black", "description": "Fully oxidized"},
		})
	}))
	mux.HandleFunc("GET /user-tasting-notes", m.authed(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()
		notes := []domain.TastingNote{}
		for id := 1; id < m.nextID; id++ {
			if n, ok := m.notes[id]; ok {
				notes = append(notes, n)
			}
		}
		jsonResponse(w, http.StatusOK, notes)
	}))
	save := m.authed(func(w http.ResponseWriter, r *http.Request) {
		var n domain.TastingNote
		json.NewDecoder(r.Body).Decode(&n)
		m.mu.Lock()
		defer m.mu.Unlock()
		if id := r.PathValue("id"); id != "" {
			n.ID, _ = strconv.Atoi(id)
		} else {
			n.ID = m.nextID
			m.nextID++
		}
		m.notes[n.ID] = n
		jsonResponse(w, http.StatusOK, n)
	})
	mux.HandleFunc("POST /user-tasting-notes", save)
	mux.HandleFunc("POST /user-tasting-notes/{id}", save)
	mux.HandleFunc("DELETE /user-tasting-notes/{id}", m.authed(func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("id"))
		m.mu.Lock()
		delete(m.notes, id)
		m.mu.Unlock()
		jsonResponse(w, http.StatusOK, map[string]any{})
	}))

	m.Server = httptest.NewServer(mux)
	t.Cleanup(m.Close)
	return m
}

func (m *mockService) authed(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		h(w, r)
	}
}

func (m *mockService) note(id int) (domain.TastingNote, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[id]
	return n, ok
}

// jsonResponse writes a JSON response.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// cliHarness runs the command-line app against a mock service with its
// own data directory. Every run is a fresh process as far as the client
// is concerned.
type cliHarness struct {
	t       *testing.T
	service *mockService
	dataDir string
}

func newHarness(t *testing.T) *cliHarness {
	t.Helper()
	return &cliHarness{t: t, service: newMockService(t), dataDir: t.TempDir()}
}

type result struct {
	out    string
	errOut string
	err    error
}

// run executes one command line with input on stdin.
func (h *cliHarness) run(input string, args ...string) result {
	h.t.Helper()
	var out, errOut bytes.Buffer
	env := Env{
		In:  strings.NewReader(input),
		Out: &out,
		Err: &errOut,
		AppOptions: []app.Option{
			app.WithLogger(logger.Discard()),
			app.WithMetrics(metric.NewRegistry()),
			app.WithKDFParams(vault.KDFParams{Time: 1, MemoryKiB: 64, Threads: 1}),
		},
	}
	argv := append([]string{
		"teataster",
		"--config", h.dataDir + "/config.yaml",
		"--server", h.service.URL,
		"--data-dir", h.dataDir,
	}, args...)
	err := App(env).RunContext(context.Background(), argv)
	return result{out: out.String(), errOut: errOut.String(), err: err}
}

// mustRun fails the test when the command returns an error.
func (h *cliHarness) mustRun(input string, args ...string) string {
	h.t.Helper()
	r := h.run(input, args...)
	if r.err != nil {
		h.t.Fatalf("%v: %v\nstdout: %s\nstderr: %s", args, r.err, r.out, r.errOut)
	}
	return r.out
}

func (h *cliHarness) login(args ...string) string {
	h.t.Helper()
	return h.mustRun("", append([]string{"login", "-e", testUser.Email, "-p", "password"}, args...)...)
}
