package auth_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deskwise/workflow-service/internal/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", 60)

	token, expiresAt, err := tm.GenerateToken("svc-portal", "acme")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "svc-portal", claims.SubjectID)
	require.Equal(t, "acme", claims.OrgID)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	issuer := auth.NewTokenManager("secret-a", 60)
	verifier := auth.NewTokenManager("secret-b", 60)

	token, _, err := issuer.GenerateToken("svc-portal", "acme")
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	require.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", 60)
	_, err := tm.ParseToken("not-a-token")
	require.Error(t, err)
}

func TestAPIKeyVerification(t *testing.T) {
	hash, err := auth.HashAPIKey("portal-key", 4)
	require.NoError(t, err)

	require.True(t, auth.VerifyAPIKey([]string{hash}, "portal-key"))
	require.False(t, auth.VerifyAPIKey([]string{hash}, "wrong-key"))
	require.False(t, auth.VerifyAPIKey(nil, "portal-key"))
}
