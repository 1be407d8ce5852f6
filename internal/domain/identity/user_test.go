package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates user with hashed password", func(t *testing.T) {
		u, err := NewUser("ana.garcia", "Ana@Example.COM", "supersecret1")
		require.NoError(t, err)
		assert.Equal(t, "ana.garcia", u.Username)
		assert.Equal(t, "ana@example.com", u.Email, "email is lowercased")
		assert.NotEqual(t, "supersecret1", u.PasswordHash)
		assert.False(t, u.IsStaff)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser("ana", "ana@example.com", "short")
		assert.Error(t, err)
	})

	t.Run("rejects invalid username", func(t *testing.T) {
		for _, name := range []string{"", "ab", "has space", "acentuadoé"} {
			_, err := NewUser(name, "ana@example.com", "supersecret1")
			assert.Error(t, err, "username=%q", name)
		}
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		for _, email := range []string{"", "not-an-email", "a@b"} {
			_, err := NewUser("ana", email, "supersecret1")
			assert.Error(t, err, "email=%q", email)
		}
	})
}

func TestVerifyPassword(t *testing.T) {
	u, err := NewUser("ana", "ana@example.com", "supersecret1")
	require.NoError(t, err)

	assert.True(t, u.VerifyPassword("supersecret1"))
	assert.False(t, u.VerifyPassword("wrong"))
}

func TestPromote(t *testing.T) {
	u, err := NewUser("ana", "ana@example.com", "supersecret1")
	require.NoError(t, err)

	u.Promote()
	assert.True(t, u.IsStaff)
}
