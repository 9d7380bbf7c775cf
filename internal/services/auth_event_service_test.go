package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memberhub/memberhub/internal/models"
)

func TestAuthEventRecordAndList(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthEventService(newTestDB(t))

	userID := "user-1"
	require.NoError(t, svc.Record(ctx, models.EventSignup, "jane@example.com", &userID, "account created"))
	require.NoError(t, svc.Record(ctx, models.EventLoginFailed, "jane@example.com", nil, "bad password"))

	events, err := svc.RecentEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	types := []string{events[0].Type, events[1].Type}
	assert.Contains(t, types, models.EventSignup)
	assert.Contains(t, types, models.EventLoginFailed)

	for _, e := range events {
		if e.Type == models.EventLoginFailed {
			assert.Nil(t, e.UserID)
		}
	}
}

func TestAuthEventPurgeOlderThan(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewAuthEventService(db)

	require.NoError(t, svc.Record(ctx, models.EventLogin, "fresh@example.com", nil, ""))

	// Backdate one event past the retention cutoff.
	old := time.Now().UTC().Add(-48 * time.Hour)
	_, err := db.ExecContext(ctx,
		"INSERT INTO auth_events (id, type, email, created_at) VALUES (?, ?, ?, ?)",
		"stale-event", models.EventLogin, "stale@example.com", old)
	require.NoError(t, err)

	purged, err := svc.PurgeOlderThan(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	events, err := svc.RecentEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "fresh@example.com", events[0].Email)
}
