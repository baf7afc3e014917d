package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRupees(t *testing.T) {
	cases := map[float64]string{
		0:       "₹0.00",
		45:      "₹45.00",
		1234.5:  "₹1,234.50",
		1000000: "₹1,000,000.00",
		-12.5:   "-₹12.50",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatRupees(in), "amount %v", in)
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := GenerateSessionToken("sid-1", "asha", "asha@example.com")
	require.NoError(t, err)

	claims, err := ParseSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", claims.SessionID)
	assert.Equal(t, "asha", claims.UserName)
	assert.Equal(t, "asha@example.com", claims.UserEmail)

	// a session token is not an admin token
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejects(t *testing.T) {
	token, err := GenerateToken(7, "admin")
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "admin", claims.Role)

	old := JWTSecret
	SetJWTSecret("another-secret")
	t.Cleanup(func() { JWTSecret = old })
	_, err = ParseToken(token)
	assert.Error(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &CustomClaims{
		UserID: 7,
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString(JWTSecret)
	require.NoError(t, err)
	_, err = ParseToken(signed)
	assert.Error(t, err)
}
