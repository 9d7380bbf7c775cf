package handlers

import (
	"errors"
	"net/http"
	"net/mail"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/memberhub/memberhub/internal/auth"
	"github.com/memberhub/memberhub/internal/models"
	"github.com/memberhub/memberhub/internal/services"
	"github.com/memberhub/memberhub/internal/session"
	"github.com/memberhub/memberhub/internal/web"
)

const minPasswordLen = 8

// AuthHandler handles signup, login and logout.
type AuthHandler struct {
	users    services.UserServiceProvider
	events   services.AuthEventServiceProvider
	sessions *session.Manager
	renderer *web.Renderer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, events services.AuthEventServiceProvider, sessions *session.Manager, renderer *web.Renderer) *AuthHandler {
	return &AuthHandler{users: users, events: events, sessions: sessions, renderer: renderer}
}

// ShowSignup serves the signup form.
func (h *AuthHandler) ShowSignup(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "signup", web.PageData{
		Title: "Create an Account",
		Form:  map[string]string{},
	})
}

// Signup validates the submitted form, creates the account and logs the new
// user in. Duplicate emails re-render the form with a notice; the uniqueness
// check itself lives in the storage layer.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(r.PostFormValue("name"))
	email := strings.TrimSpace(r.PostFormValue("email"))
	website := strings.TrimSpace(r.PostFormValue("website"))
	password := r.PostFormValue("password")

	form := map[string]string{"name": name, "email": email, "website": website}

	fieldErrors := validateSignup(name, email, password)
	if len(fieldErrors) > 0 {
		h.renderer.Render(w, r, http.StatusUnprocessableEntity, "signup", web.PageData{
			Title:  "Create an Account",
			Errors: fieldErrors,
			Form:   form,
		})
		return
	}

	user, err := h.users.CreateUser(r.Context(), name, email, website, password)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			h.renderer.Render(w, r, http.StatusUnprocessableEntity, "signup", web.PageData{
				Title: "Create an Account",
				Flash: "A user already exists with that email address.",
				Form:  form,
			})
			return
		}
		log.Error().Err(err).Str("email", email).Msg("Failed to create user")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.recordEvent(r, models.EventSignup, email, &user.ID, "account created"); err != nil {
		log.Warn().Err(err).Msg("Failed to record signup event")
	}

	h.startSession(w, r, user.ID, "/dashboard")
}

// ShowLogin serves the login form. An already-authenticated visitor is sent
// straight to the dashboard without re-prompting for credentials.
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserID(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "login", web.PageData{
		Title: "Log In",
		Form:  map[string]string{},
		Next:  sanitizeNext(r.URL.Query().Get("next")),
	})
}

// Login validates the submitted credentials. Failures get one generic message
// regardless of cause; success redirects to the preserved deep-link target or
// the dashboard.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	next := sanitizeNext(r.URL.Query().Get("next"))

	fieldErrors := map[string]string{}
	if email == "" {
		fieldErrors["email"] = "Email is required."
	}
	if password == "" {
		fieldErrors["password"] = "Password is required."
	}
	if len(fieldErrors) > 0 {
		h.renderer.Render(w, r, http.StatusUnprocessableEntity, "login", web.PageData{
			Title:  "Log In",
			Errors: fieldErrors,
			Form:   map[string]string{"email": email},
			Next:   next,
		})
		return
	}

	user, err := h.users.AuthenticateUser(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			if err := h.recordEvent(r, models.EventLoginFailed, email, nil, "invalid credentials"); err != nil {
				log.Warn().Err(err).Msg("Failed to record login failure event")
			}
			web.SetFlash(w, "Invalid username/password combination")
			target := "/login"
			if next != "" {
				target += "?next=" + url.QueryEscape(next)
			}
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		log.Error().Err(err).Str("email", email).Msg("Failed to authenticate user")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.recordEvent(r, models.EventLogin, email, &user.ID, "logged in"); err != nil {
		log.Warn().Err(err).Msg("Failed to record login event")
	}

	target := next
	if target == "" {
		target = "/dashboard"
	}
	h.startSession(w, r, user.ID, target)
}

// Logout destroys the current session and clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := session.TokenFromRequest(r); ok {
		if err := h.sessions.Destroy(r.Context(), token); err != nil {
			log.Error().Err(err).Msg("Failed to destroy session")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
	}
	h.sessions.ClearCookie(w)

	if userID, ok := auth.UserID(r.Context()); ok {
		email := ""
		if user, err := h.users.GetUserByID(r.Context(), userID); err == nil {
			email = user.Email
		}
		if err := h.recordEvent(r, models.EventLogout, email, &userID, "logged out"); err != nil {
			log.Warn().Err(err).Msg("Failed to record logout event")
		}
	}

	web.SetFlash(w, "You have been logged out.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, userID, target string) {
	token, err := h.sessions.Create(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create session")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.sessions.SetCookie(w, token)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *AuthHandler) recordEvent(r *http.Request, eventType, email string, userID *string, message string) error {
	return h.events.Record(r.Context(), eventType, email, userID, message)
}

func validateSignup(name, email, password string) map[string]string {
	fieldErrors := map[string]string{}
	if name == "" {
		fieldErrors["name"] = "Name is required."
	}
	if email == "" {
		fieldErrors["email"] = "Email is required."
	} else if _, err := mail.ParseAddress(email); err != nil {
		fieldErrors["email"] = "Enter a valid email address."
	}
	if len(password) < minPasswordLen {
		fieldErrors["password"] = "Password must be at least 8 characters."
	}
	return fieldErrors
}

// sanitizeNext accepts a redirect target only when it is a same-origin
// relative path: one leading slash, no backslashes, no scheme or host.
// Anything else returns "" so the caller falls back to the default landing
// page instead of an open redirect.
func sanitizeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}
	if strings.Contains(next, "\\") {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	return next
}
