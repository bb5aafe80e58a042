package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostelhub-backend/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenManager(t *testing.T) {
	tm := NewTokenManager(testSecret, 15*time.Minute, 24*time.Hour)

	t.Run("Access token round trip", func(t *testing.T) {
		token, err := tm.GenerateAccessToken(42, "asha@test.com", domain.UserRoleStudent)
		require.NoError(t, err)

		claims, err := tm.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, int32(42), claims.UserID)
		assert.Equal(t, "asha@test.com", claims.Email)
		assert.Equal(t, domain.UserRoleStudent, claims.Role)
		assert.Equal(t, TokenTypeAccess, claims.Type)
	})

	t.Run("Refresh token carries refresh type", func(t *testing.T) {
		token, err := tm.GenerateRefreshToken(42, "asha@test.com")
		require.NoError(t, err)

		claims, err := tm.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, TokenTypeRefresh, claims.Type)
	})

	t.Run("Garbage token rejected", func(t *testing.T) {
		_, err := tm.ValidateToken("not-a-token")
		assert.Error(t, err)
	})

	t.Run("Wrong secret rejected", func(t *testing.T) {
		other := NewTokenManager("ffffffffffffffffffffffffffffffff", 15*time.Minute, 24*time.Hour)
		token, err := other.GenerateAccessToken(42, "asha@test.com", domain.UserRoleStudent)
		require.NoError(t, err)

		_, err = tm.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("Expired token rejected", func(t *testing.T) {
		short := NewTokenManager(testSecret, -time.Minute, 24*time.Hour)
		token, err := short.GenerateAccessToken(42, "asha@test.com", domain.UserRoleStudent)
		require.NoError(t, err)

		_, err = short.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}
