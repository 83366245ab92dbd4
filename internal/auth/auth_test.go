package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, CheckPassword("s3cret", hash))
	assert.False(t, CheckPassword("wrong", hash))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("access-secret", "refresh-secret")
	userID := uuid.New()

	token, err := issuer.AccessToken(userID)
	require.NoError(t, err)

	parsed, err := issuer.ParseAccess(token)
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("access-secret", "refresh-secret")
	userID := uuid.New()

	token, err := issuer.RefreshToken(userID)
	require.NoError(t, err)

	parsed, err := issuer.ParseRefresh(token)
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestAccessAndRefreshSecretsAreSeparate(t *testing.T) {
	issuer := NewTokenIssuer("access-secret", "refresh-secret")

	access, err := issuer.AccessToken(uuid.New())
	require.NoError(t, err)

	// A refresh endpoint must not accept an access token.
	_, err = issuer.ParseRefresh(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsForeignToken(t *testing.T) {
	issuer := NewTokenIssuer("access-secret", "refresh-secret")
	other := NewTokenIssuer("different", "secrets")

	token, err := other.AccessToken(uuid.New())
	require.NoError(t, err)

	_, err = issuer.ParseAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("access-secret", "refresh-secret")

	_, err := issuer.ParseAccess("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
