package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eshelf/internal/microservices/http-api/models"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("Secret@123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret@123", hash)

	assert.NoError(t, VerifyPassword(hash, "Secret@123"))
	assert.Error(t, VerifyPassword(hash, "wrong-password"))
}

func TestTokenService_IssueAndParse(t *testing.T) {
	svc := NewTokenService("test-secret-that-is-long-enough-123", time.Hour)

	token, err := svc.Issue("user-1")
	require.NoError(t, err)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenService_RejectsBadTokens(t *testing.T) {
	svc := NewTokenService("test-secret-that-is-long-enough-123", time.Hour)
	other := NewTokenService("another-secret-that-is-long-enough", time.Hour)

	foreign, err := other.Issue("user-1")
	require.NoError(t, err)

	expiredSvc := NewTokenService("test-secret-that-is-long-enough-123", time.Hour)
	expiredSvc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredSvc.Issue("user-1")
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"garbage":      "not-a-jwt",
		"wrong secret": foreign,
		"expired":      expired,
		"alg none":     none,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Parse(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestIdentity(t *testing.T) {
	anon := Anonymous()
	u, ok := anon.User()
	assert.False(t, ok)
	assert.Nil(t, u)
	assert.Nil(t, anon.UserID())
	assert.True(t, Identity{}.IsAnonymous())

	present := Present(&models.User{ID: "u1"})
	u, ok = present.User()
	require.True(t, ok)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "u1", *present.UserID())
}
