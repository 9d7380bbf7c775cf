package models

import "time"

// Auth event types recorded by the audit trail.
const (
	EventSignup      = "signup"
	EventLogin       = "login"
	EventLoginFailed = "login.failed"
	EventLogout      = "logout"
)

// AuthEvent represents one entry in the authentication audit trail.
type AuthEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Email     string    `json:"email"`
	UserID    *string   `json:"userId,omitempty"` // Nullable for failed logins
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
