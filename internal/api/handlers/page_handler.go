package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/memberhub/memberhub/internal/auth"
	"github.com/memberhub/memberhub/internal/services"
	"github.com/memberhub/memberhub/internal/web"
)

// PageHandler serves the authenticated pages.
type PageHandler struct {
	users    services.UserServiceProvider
	renderer *web.Renderer
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(users services.UserServiceProvider, renderer *web.Renderer) *PageHandler {
	return &PageHandler{users: users, renderer: renderer}
}

// Home redirects to the dashboard; the auth gate bounces anonymous visitors
// to the login page from there.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Dashboard renders the landing view for the authenticated user.
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		// RequireAuth should have gated this
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.users.GetUserByID(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Session user not found in database")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "dashboard", web.PageData{
		Title: "Dashboard",
		User:  &user,
	})
}
