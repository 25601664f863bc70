package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	Configure("test-secret", time.Hour)

	token, err := GenerateToken(7, "meera", "dealer_manager")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "meera", claims.Username)
	assert.Equal(t, "dealer_manager", claims.Role)
}

func TestValidateTokenRejectsOtherSecret(t *testing.T) {
	Configure("first-secret", time.Hour)
	token, err := GenerateToken(1, "admin", "admin")
	require.NoError(t, err)

	Configure("second-secret", time.Hour)
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	Configure("test-secret", time.Hour)
	claims := &Claims{
		UserID: 1,
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtKey)
	require.NoError(t, err)

	_, err = ValidateToken(signed)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s0lar-p4nel")
	require.NoError(t, err)

	assert.NotEqual(t, "s0lar-p4nel", hash)
	assert.True(t, CheckPassword(hash, "s0lar-p4nel"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
