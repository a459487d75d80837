package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/TWRT/tracker-client/internal/models"
	"github.com/TWRT/tracker-client/internal/normalize"
)

// SessionRepository persists the single authenticated session as one JSON
// payload. The persisted shape is not trusted: Load re-normalizes it exactly
// like a fresh login response, so older stored formats keep working.
type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Save(session models.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	_, err = r.db.Exec(
		`INSERT INTO session (id, payload) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, saved_at = CURRENT_TIMESTAMP`,
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load returns the persisted session, or ok=false when none is stored or
// the stored payload cannot be normalized into one.
func (r *SessionRepository) Load() (models.Session, bool, error) {
	var payload string
	err := r.db.QueryRow(`SELECT payload FROM session WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, false, nil
	}
	if err != nil {
		return models.Session{}, false, fmt.Errorf("load session: %w", err)
	}

	var raw any
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return models.Session{}, false, nil
	}
	session, err := normalize.Session(raw)
	if err != nil || session.Token == "" {
		return models.Session{}, false, nil
	}
	return session, true, nil
}

func (r *SessionRepository) Clear() error {
	_, err := r.db.Exec(`DELETE FROM session`)
	return err
}
