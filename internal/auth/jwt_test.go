package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func initTestConfig(t *testing.T) {
	t.Helper()
	require.NoError(t, Init(Config{
		Secret:          "unit-test-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}))
}

func TestInitRequiresSecret(t *testing.T) {
	require.Error(t, Init(Config{}))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	initTestConfig(t)

	token, err := GenerateAccessToken(42)
	require.NoError(t, err)

	claims, err := VerifyJWT(token, TokenTypeAccess)
	require.NoError(t, err)

	userID, err := UserIDFromClaims(claims)
	require.NoError(t, err)
	require.Equal(t, uint(42), userID)
}

func TestTokenTypeMismatch(t *testing.T) {
	initTestConfig(t)

	access, err := GenerateAccessToken(42)
	require.NoError(t, err)

	_, err = VerifyJWT(access, TokenTypeRefresh)
	require.Error(t, err)

	refresh, err := GenerateRefreshToken(42, "some-jti")
	require.NoError(t, err)

	_, err = VerifyJWT(refresh, TokenTypeAccess)
	require.Error(t, err)
}

func TestRefreshTokenCarriesJTI(t *testing.T) {
	initTestConfig(t)

	token, err := GenerateRefreshToken(42, "jti-123")
	require.NoError(t, err)

	claims, err := VerifyJWT(token, TokenTypeRefresh)
	require.NoError(t, err)

	jti, err := JTIFromClaims(claims)
	require.NoError(t, err)
	require.Equal(t, "jti-123", jti)
}

func TestExpiredTokenRejected(t *testing.T) {
	require.NoError(t, Init(Config{
		Secret:          "unit-test-secret",
		AccessTokenTTL:  -time.Minute,
		RefreshTokenTTL: time.Hour,
	}))

	token, err := GenerateAccessToken(42)
	require.NoError(t, err)

	_, err = VerifyJWT(token, TokenTypeAccess)
	require.Error(t, err)
}

func TestTamperedTokenRejected(t *testing.T) {
	initTestConfig(t)

	token, err := GenerateAccessToken(42)
	require.NoError(t, err)

	_, err = VerifyJWT(token+"x", TokenTypeAccess)
	require.Error(t, err)
}
