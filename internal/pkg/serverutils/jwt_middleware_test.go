package serverutils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestParseUserIdRoundTrip(t *testing.T) {
	token := signToken(t, "secret", jwt.MapClaims{
		"user_id": int64(42),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	id, err := ParseUserId(token, "secret")

	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestParseUserIdRejectsWrongSecret(t *testing.T) {
	token := signToken(t, "secret", jwt.MapClaims{
		"user_id": int64(42),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	_, err := ParseUserId(token, "other-secret")
	assert.Error(t, err)
}

func TestParseUserIdRejectsExpiredToken(t *testing.T) {
	token := signToken(t, "secret", jwt.MapClaims{
		"user_id": int64(42),
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})

	_, err := ParseUserId(token, "secret")
	assert.Error(t, err)
}

func TestParseUserIdRejectsMissingClaim(t *testing.T) {
	token := signToken(t, "secret", jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := ParseUserId(token, "secret")
	assert.Error(t, err)
}
