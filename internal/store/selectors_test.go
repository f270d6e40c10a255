package store

import "testing"

func TestSelectors(t *testing.T) {
	s := InitialState()
	if SelectSession(s) != nil || SelectUser(s) != nil {
		t.Error("expected no session initially")
	}

	s = Reduce(s, LoginSuccess(testSession))
	s = Reduce(s, InitialLoadSuccess(testTeas))
	s = Reduce(s, NotesPageLoadedSuccess(testNotes))
	s = Reduce(s, LoginFailure("bad"))

	if got := SelectSession(s); got == nil || got.Token != testSession.Token {
		t.Errorf("SelectSession() = %+v", got)
	}
	if u := SelectUser(s); u == nil || u.ID != testUser.ID {
		t.Errorf("SelectUser() = %+v", u)
	}
	if SelectAuthErrorMessage(s) != "bad" || SelectAuthLoading(s) {
		t.Errorf("unexpected auth state %+v", s.Auth)
	}
	if len(SelectTeas(s)) != len(testTeas) {
		t.Errorf("SelectTeas() returned %d teas", len(SelectTeas(s)))
	}
	if tea, ok := SelectTea(s, 3); !ok || tea.Name != "Herbal" {
		t.Errorf("SelectTea(3) = %+v, %v", tea, ok)
	}
	if _, ok := SelectTea(s, 99); ok {
		t.Error("SelectTea(99) found a tea")
	}
	if len(SelectNotes(s)) != len(testNotes) {
		t.Errorf("SelectNotes() returned %d notes", len(SelectNotes(s)))
	}
	if n, ok := SelectNote(s, 2); !ok || n.Brand != "Bigelow" {
		t.Errorf("SelectNote(2) = %+v, %v", n, ok)
	}
	if SelectDataErrorMessage(s) != "" || SelectDataLoading(s) {
		t.Errorf("unexpected data state %+v", s.Data)
	}
}
