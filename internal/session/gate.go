// Package session owns the single authenticated session: login, logout, and
// restoring a persisted session across process restarts within the same
// sign-in. Consumers that must react to the session changing (the entity
// store clears itself on logout) subscribe via OnChange rather than being
// called directly.
package session

import (
	"context"
	"log"
	"sync"

	"github.com/TWRT/tracker-client/internal/client"
	"github.com/TWRT/tracker-client/internal/models"
	"github.com/TWRT/tracker-client/internal/repository"
)

type Gate struct {
	api  client.AuthAPI
	repo *repository.SessionRepository

	mu        sync.Mutex
	current   *models.Session
	observers []func(*models.User)
}

func NewGate(api client.AuthAPI, repo *repository.SessionRepository) *Gate {
	return &Gate{api: api, repo: repo}
}

// OnChange registers an observer invoked with the new user after every
// session change, or nil on logout. Observers must not call back into the
// gate.
func (g *Gate) OnChange(fn func(*models.User)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.observers = append(g.observers, fn)
}

func (g *Gate) Current() (models.Session, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return models.Session{}, false
	}
	return *g.current, true
}

// Token feeds the HTTP client; empty when unauthenticated.
func (g *Gate) Token() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return ""
	}
	return g.current.Token
}

// Login authenticates against the backend. Failure is an expected, common
// outcome, so it reports a boolean instead of surfacing an error; the
// details are logged for diagnosis.
func (g *Gate) Login(ctx context.Context, email, password string) bool {
	session, err := g.api.Login(ctx, email, password)
	if err != nil {
		log.Printf("Login failed: %v", err)
		return false
	}
	if session.Token == "" {
		log.Printf("Login failed: no token in response")
		return false
	}

	if err := g.repo.Save(session); err != nil {
		log.Printf("Failed to persist session: %v", err)
	}
	g.set(&session)
	return true
}

// Restore loads a persisted session on startup. The stored payload goes
// through the same normalization as a live login response.
func (g *Gate) Restore() bool {
	session, ok, err := g.repo.Load()
	if err != nil {
		log.Printf("Failed to restore session: %v", err)
		return false
	}
	if !ok {
		return false
	}
	g.set(&session)
	return true
}

func (g *Gate) Logout() {
	if err := g.repo.Clear(); err != nil {
		log.Printf("Failed to clear persisted session: %v", err)
	}
	g.set(nil)
}

func (g *Gate) set(session *models.Session) {
	g.mu.Lock()
	g.current = session
	observers := append(([]func(*models.User))(nil), g.observers...)
	g.mu.Unlock()

	var user *models.User
	if session != nil {
		u := session.User
		user = &u
	}
	for _, fn := range observers {
		fn(user)
	}
}
