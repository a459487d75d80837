package repository

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/TWRT/tracker-client/internal/models"
)

// NotificationRepository is the append-only session event log. Unlike the
// entity collections it is persisted durably, so the log survives restarts
// until the user clears it. Ids derive from the current time in
// milliseconds, bumped monotonically on collision.
type NotificationRepository struct {
	db     *sql.DB
	mu     sync.Mutex
	lastID int64
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) nextID() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := time.Now().UnixMilli()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id
	return id
}

func (r *NotificationRepository) Append(message, kind string) (models.Notification, error) {
	n := models.Notification{
		ID:        r.nextID(),
		Message:   message,
		Type:      kind,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	_, err := r.db.Exec(
		`INSERT INTO notifications (id, message, type, timestamp, read) VALUES (?, ?, ?, ?, 0)`,
		n.ID, n.Message, n.Type, n.Timestamp,
	)
	if err != nil {
		return models.Notification{}, fmt.Errorf("append notification: %w", err)
	}
	return n, nil
}

// List returns the log most-recent-first.
func (r *NotificationRepository) List() ([]models.Notification, error) {
	rows, err := r.db.Query(
		`SELECT id, message, type, timestamp, read FROM notifications ORDER BY id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.Message, &n.Type, &n.Timestamp, &n.Read); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepository) MarkRead(id int64) error {
	_, err := r.db.Exec(`UPDATE notifications SET read = 1 WHERE id = ?`, id)
	return err
}

func (r *NotificationRepository) MarkAllRead() error {
	_, err := r.db.Exec(`UPDATE notifications SET read = 1 WHERE read = 0`)
	return err
}

func (r *NotificationRepository) UnreadCount() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM notifications WHERE read = 0`).Scan(&count)
	return count, err
}

// Clear empties the log. The log otherwise only grows; there is no per-entry
// delete.
func (r *NotificationRepository) Clear() error {
	_, err := r.db.Exec(`DELETE FROM notifications`)
	return err
}
