package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/memberhub/memberhub/internal/models"
)

// AuthEventServiceProvider defines the interface for the auth audit trail.
type AuthEventServiceProvider interface {
	Record(ctx context.Context, eventType, email string, userID *string, message string) error
	RecentEvents(ctx context.Context, limit int) ([]models.AuthEvent, error)
	PurgeOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

// AuthEventService records authentication events to the database.
type AuthEventService struct {
	db *sql.DB
}

// NewAuthEventService creates a new AuthEventService.
func NewAuthEventService(db *sql.DB) *AuthEventService {
	return &AuthEventService{db: db}
}

// Record logs a new auth event. userID is nil for failed logins.
func (s *AuthEventService) Record(ctx context.Context, eventType, email string, userID *string, message string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO auth_events (id, type, email, user_id, message, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		uuid.New().String(), eventType, email, userID, message, time.Now().UTC())
	return err
}

// RecentEvents retrieves the most recent auth events.
func (s *AuthEventService) RecentEvents(ctx context.Context, limit int) ([]models.AuthEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, type, email, user_id, message, created_at FROM auth_events ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.AuthEvent
	for rows.Next() {
		var event models.AuthEvent
		var message sql.NullString
		if err := rows.Scan(&event.ID, &event.Type, &event.Email, &event.UserID, &message, &event.CreatedAt); err != nil {
			return nil, err
		}
		event.Message = message.String
		events = append(events, event)
	}
	return events, rows.Err()
}

// PurgeOlderThan deletes auth events older than the given age and reports how
// many were removed. Called by the retention job.
func (s *AuthEventService) PurgeOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-age)
	res, err := s.db.ExecContext(ctx, "DELETE FROM auth_events WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
