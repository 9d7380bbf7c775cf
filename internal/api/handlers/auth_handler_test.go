package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeNext(t *testing.T) {
	accepted := []string{
		"/dashboard",
		"/dashboard?tab=settings",
		"/some/deep/path",
	}
	for _, next := range accepted {
		assert.Equal(t, next, sanitizeNext(next), "should accept %q", next)
	}

	rejected := []string{
		"",
		"dashboard",
		"//evil.example",
		"/\\evil.example",
		"https://evil.example/phish",
		"javascript:alert(1)",
		"http:/evil.example",
	}
	for _, next := range rejected {
		assert.Empty(t, sanitizeNext(next), "should reject %q", next)
	}
}

func TestValidateSignup(t *testing.T) {
	t.Run("valid input has no errors", func(t *testing.T) {
		assert.Empty(t, validateSignup("Jane Doe", "jane@example.com", "a-long-password"))
	})

	t.Run("collects one error per bad field", func(t *testing.T) {
		errs := validateSignup("", "not-an-email", "short")
		assert.Len(t, errs, 3)
		assert.Contains(t, errs, "name")
		assert.Contains(t, errs, "email")
		assert.Contains(t, errs, "password")
	})

	t.Run("empty email reported as required", func(t *testing.T) {
		errs := validateSignup("Jane", "", "a-long-password")
		assert.Equal(t, "Email is required.", errs["email"])
	})
}
