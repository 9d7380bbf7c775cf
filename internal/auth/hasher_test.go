package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Run("produces an argon2id PHC string", func(t *testing.T) {
		hash, err := HashPassword("password123")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
		assert.NotContains(t, hash, "password123")
	})

	t.Run("same password hashes differently each time", func(t *testing.T) {
		hash1, err := HashPassword("samepassword")
		require.NoError(t, err)
		hash2, err := HashPassword("samepassword")
		require.NoError(t, err)
		assert.NotEqual(t, hash1, hash2)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, err := HashPassword("")
		assert.Error(t, err)
	})
}

func TestVerifyPassword(t *testing.T) {
	t.Run("matching password verifies", func(t *testing.T) {
		hash, err := HashPassword("correct horse battery staple")
		require.NoError(t, err)

		ok, err := VerifyPassword("correct horse battery staple", hash)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("wrong password fails", func(t *testing.T) {
		hash, err := HashPassword("correct horse battery staple")
		require.NoError(t, err)

		ok, err := VerifyPassword("incorrect horse", hash)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("malformed hash is an error", func(t *testing.T) {
		_, err := VerifyPassword("password", "not-a-phc-string")
		assert.Error(t, err)
	})

	t.Run("unsupported algorithm is an error", func(t *testing.T) {
		_, err := VerifyPassword("password", "$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA")
		assert.Error(t, err)
	})
}
