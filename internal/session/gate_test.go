package session

import (
	"context"
	"errors"
	"testing"

	"github.com/TWRT/tracker-client/internal/models"
	"github.com/TWRT/tracker-client/internal/repository"
)

type fakeAuth struct {
	session models.Session
	err     error
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (models.Session, error) {
	return f.session, f.err
}

func testRepo(t *testing.T) *repository.SessionRepository {
	t.Helper()
	db, err := repository.InitDB(":memory:")
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return repository.NewSessionRepository(db)
}

func TestLoginSuccess(t *testing.T) {
	auth := &fakeAuth{session: models.Session{
		User:  models.User{ID: "u1", Name: "Maya", Role: models.RoleManager},
		Token: "tok-1",
	}}
	repo := testRepo(t)
	gate := NewGate(auth, repo)

	if !gate.Login(context.Background(), "maya@example.com", "secret") {
		t.Fatal("login should succeed")
	}
	sess, ok := gate.Current()
	if !ok || sess.User.ID != "u1" {
		t.Errorf("current = %+v, %v", sess, ok)
	}
	if gate.Token() != "tok-1" {
		t.Errorf("token = %q", gate.Token())
	}

	// The session must survive into a fresh gate over the same repo.
	gate2 := NewGate(auth, repo)
	if !gate2.Restore() {
		t.Fatal("restore should find the persisted session")
	}
	sess2, _ := gate2.Current()
	if sess2.User.Name != "Maya" || sess2.Token != "tok-1" {
		t.Errorf("restored = %+v", sess2)
	}
}

func TestLoginBackendError(t *testing.T) {
	auth := &fakeAuth{err: errors.New("invalid credentials")}
	gate := NewGate(auth, testRepo(t))

	if gate.Login(context.Background(), "x@example.com", "wrong") {
		t.Fatal("login should fail")
	}
	if _, ok := gate.Current(); ok {
		t.Error("no session should be set")
	}
	if gate.Token() != "" {
		t.Errorf("token = %q, want empty", gate.Token())
	}
}

func TestLoginRejectsEmptyToken(t *testing.T) {
	auth := &fakeAuth{session: models.Session{User: models.User{ID: "u1"}}}
	gate := NewGate(auth, testRepo(t))
	if gate.Login(context.Background(), "x@example.com", "pw") {
		t.Fatal("a response without a token is not a login")
	}
}

func TestRestoreWithoutPersistedSession(t *testing.T) {
	gate := NewGate(&fakeAuth{}, testRepo(t))
	if gate.Restore() {
		t.Fatal("nothing persisted, restore must report false")
	}
}

func TestLogoutNotifiesObserversAndClearsPersistence(t *testing.T) {
	auth := &fakeAuth{session: models.Session{User: models.User{ID: "u1"}, Token: "tok"}}
	repo := testRepo(t)
	gate := NewGate(auth, repo)

	var events []*models.User
	gate.OnChange(func(u *models.User) { events = append(events, u) })

	gate.Login(context.Background(), "a@example.com", "pw")
	gate.Logout()

	if len(events) != 2 {
		t.Fatalf("events = %d, want login + logout", len(events))
	}
	if events[0] == nil || events[0].ID != "u1" {
		t.Errorf("login event = %v", events[0])
	}
	if events[1] != nil {
		t.Errorf("logout event = %v, want nil", events[1])
	}

	if gate.Restore() {
		t.Error("logout must clear the persisted session")
	}
}
