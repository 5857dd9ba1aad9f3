package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndExtract(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	token, err := svc.GenerateToken(42)
	require.NoError(t, err)

	id, err := svc.ExtractUserID(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestExtractRejectsForeignSignature(t *testing.T) {
	token, err := NewJWTService("other", time.Hour).GenerateToken(1)
	require.NoError(t, err)

	_, err = NewJWTService("secret", time.Hour).ExtractUserID(token)
	assert.Error(t, err)
}

func TestExtractRejectsExpired(t *testing.T) {
	svc := NewJWTService("secret", time.Minute)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := svc.GenerateToken(1)
	require.NoError(t, err)

	_, err = NewJWTService("secret", time.Minute).ExtractUserID(token)
	assert.Error(t, err)
}

func TestPeekClaims(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	token, err := svc.GenerateToken(7)
	require.NoError(t, err)

	claims, err := PeekClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.Subject)
	assert.False(t, claims.Expired(time.Now()))
	assert.True(t, claims.Expired(time.Now().Add(2*time.Hour)))

	_, err = PeekClaims("not-a-token")
	assert.ErrorIs(t, err, ErrMalformedToken)
}
