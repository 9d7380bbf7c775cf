package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/memberhub/memberhub/internal/session"
	"github.com/memberhub/memberhub/internal/web"
)

type contextKey string

const userIDKey = contextKey("userID")

// SessionResolver maps a session token to a user ID. Implemented by
// session.Manager; a resolver failure means "not authenticated".
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// RequireAuth creates a middleware gating protected routes. Unauthenticated
// requests get a one-time notice and a redirect to the login page carrying
// the originally requested path as the next target.
func RequireAuth(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := session.TokenFromRequest(r)
			if !ok {
				redirectToLogin(w, r)
				return
			}

			userID, err := sessions.Resolve(r.Context(), token)
			if err != nil {
				if !errors.Is(err, session.ErrNotFound) {
					log.Error().Err(err).Msg("Failed to resolve session")
					http.Error(w, "Internal server error", http.StatusInternalServerError)
					return
				}
				redirectToLogin(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser resolves the session without gating: authenticated requests get
// the user ID in context, anonymous ones pass through untouched. Used by the
// login page's already-authenticated short-circuit.
func CurrentUser(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := session.TokenFromRequest(r); ok {
				if userID, err := sessions.Resolve(r.Context(), token); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserID returns the authenticated user's ID from the request context.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	web.SetFlash(w, "You must be logged in to view that page.")
	http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
}
