package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store with real TTL bookkeeping.
type fakeStore struct {
	mu      sync.Mutex
	entries map[string]fakeEntry
	touched map[string]int
}

type fakeEntry struct {
	userID    string
	expiresAt time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: make(map[string]fakeEntry), touched: make(map[string]int)}
}

func (s *fakeStore) Save(_ context.Context, token, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[token] = fakeEntry{userID: userID, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *fakeStore) Load(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[token]
	if !ok || time.Now().After(e.expiresAt) {
		return "", ErrNotFound
	}
	return e.userID, nil
}

func (s *fakeStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, token)
	return nil
}

func (s *fakeStore) Touch(_ context.Context, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[token]; ok {
		e.expiresAt = time.Now().Add(ttl)
		s.entries[token] = e
		s.touched[token]++
	}
	return nil
}

func TestManagerCreateResolve(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	mgr := NewManager(store, time.Hour, false)

	token, err := mgr.Create(ctx, "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	userID, err := mgr.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	t.Run("tokens are unique per session", func(t *testing.T) {
		other, err := mgr.Create(ctx, "user-1")
		require.NoError(t, err)
		assert.NotEqual(t, token, other)
	})

	t.Run("resolve re-arms the TTL", func(t *testing.T) {
		_, err := mgr.Resolve(ctx, token)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, store.touched[token], 1)
	})
}

func TestManagerResolveUnknownToken(t *testing.T) {
	mgr := NewManager(newFakeStore(), time.Hour, false)

	_, err := mgr.Resolve(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerDestroy(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(newFakeStore(), time.Hour, false)

	token, err := mgr.Create(ctx, "user-2")
	require.NoError(t, err)

	require.NoError(t, mgr.Destroy(ctx, token))

	_, err = mgr.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCookieRoundTrip(t *testing.T) {
	mgr := NewManager(newFakeStore(), time.Hour, false)

	rec := httptest.NewRecorder()
	mgr.SetCookie(rec, "tok-abc")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])

	token, ok := TokenFromRequest(req)
	require.True(t, ok)
	assert.Equal(t, "tok-abc", token)
}

func TestClearCookie(t *testing.T) {
	mgr := NewManager(newFakeStore(), time.Hour, false)

	rec := httptest.NewRecorder()
	mgr.ClearCookie(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Less(t, cookies[0].MaxAge, 0)
}
