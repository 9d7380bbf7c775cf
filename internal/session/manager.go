package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// CookieName is the cookie holding the session token on the client.
const CookieName = "memberhub_session"

// Manager binds browser clients to authenticated user IDs through opaque
// tokens held in a Store. The application only ever sees user IDs come back
// out; session internals stay behind this type.
type Manager struct {
	store  Store
	ttl    time.Duration
	secure bool // set the Secure cookie attribute (production)
}

// NewManager creates a session manager. ttl is the inactivity window after
// which the backing store drops the session.
func NewManager(store Store, ttl time.Duration, secure bool) *Manager {
	return &Manager{store: store, ttl: ttl, secure: secure}
}

// Create allocates a fresh opaque token for the user and persists it with
// the configured TTL.
func (m *Manager) Create(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := m.store.Save(ctx, token, userID, m.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve maps a token back to a user ID. ErrNotFound means the caller is not
// authenticated. A successful resolve re-arms the TTL so the session expires
// on inactivity, not on a fixed deadline.
func (m *Manager) Resolve(ctx context.Context, token string) (string, error) {
	userID, err := m.store.Load(ctx, token)
	if err != nil {
		return "", err
	}
	if err := m.store.Touch(ctx, token, m.ttl); err != nil {
		return "", err
	}
	return userID, nil
}

// Destroy removes the session from the store. Used on logout.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	return m.store.Delete(ctx, token)
}

// SetCookie instructs the client to hold the session token.
func (m *Manager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
}

// ClearCookie tells the client to drop the session cookie.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
}

// TokenFromRequest extracts the session token from the request cookie.
func TokenFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
