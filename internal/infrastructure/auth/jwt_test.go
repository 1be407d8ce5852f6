package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoquet/backend/internal/infrastructure/config"
)

func testJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars-long",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		ResetTokenExpiration:   time.Hour,
		Issuer:                 "yoquet-test",
	})
}

func TestJWTService_GenerateTokenPair(t *testing.T) {
	svc := testJWTService()
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		UserID:   userID,
		Username: "ana",
		IsStaff:  true,
	})
	require.NoError(t, err)
	require.NotNil(t, pair)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))
}

func TestJWTService_ValidateToken(t *testing.T) {
	svc := testJWTService()
	userID := uuid.New()
	input := GenerateTokenInput{UserID: userID, Username: "ana", IsStaff: true}

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	t.Run("valid access token", func(t *testing.T) {
		claims, err := svc.ValidateToken(pair.AccessToken, TokenTypeAccess)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, "ana", claims.Username)
		assert.True(t, claims.IsStaff)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("refresh token rejected as access", func(t *testing.T) {
		_, err := svc.ValidateToken(pair.RefreshToken, TokenTypeAccess)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token", TokenTypeAccess)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                 "another-secret-key-also-32-chars-long!!",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: time.Hour,
			ResetTokenExpiration:   time.Hour,
			Issuer:                 "yoquet-test",
		})
		_, err := other.ValidateToken(pair.AccessToken, TokenTypeAccess)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestJWTService_ResetToken(t *testing.T) {
	svc := testJWTService()
	input := GenerateTokenInput{UserID: uuid.New(), Username: "ana"}

	token, err := svc.GenerateResetToken(input)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token, TokenTypeReset)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeReset, claims.TokenType)

	_, err = svc.ValidateToken(token, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestClaims_Identity(t *testing.T) {
	svc := testJWTService()
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{UserID: userID, Username: "ana", IsStaff: false})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(pair.AccessToken, TokenTypeAccess)
	require.NoError(t, err)

	identity, err := claims.Identity()
	require.NoError(t, err)
	assert.Equal(t, userID, identity.ID)
	assert.Equal(t, "ana", identity.Username)
	assert.False(t, identity.IsStaff)
}

func TestInMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	bl := NewInMemoryTokenBlacklist()

	revoked, err := bl.IsRevoked(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, bl.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = bl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// a non-positive ttl means the token already expired
	require.NoError(t, bl.Revoke(ctx, "jti-2", -time.Second))
	revoked, err = bl.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, bl.Close())
}
