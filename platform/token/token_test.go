package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MansiJagta/echo-forge-create/models"
	"github.com/MansiJagta/echo-forge-create/platform/token"
)

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	issuer := token.NewIssuer("test-secret", 7*24*time.Hour)

	signed, err := issuer.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	userID, err := issuer.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestVerifyExpiredToken(t *testing.T) {
	t.Parallel()

	// A negative TTL issues a token that is already past its expiry.
	issuer := token.NewIssuer("test-secret", -time.Minute)

	signed, err := issuer.Issue("user-123")
	require.NoError(t, err)

	_, err = issuer.Verify(signed)
	assert.ErrorIs(t, err, models.ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	t.Parallel()

	issuer := token.NewIssuer("test-secret", time.Hour)
	other := token.NewIssuer("other-secret", time.Hour)

	signed, err := issuer.Issue("user-123")
	require.NoError(t, err)

	_, err = other.Verify(signed)
	assert.ErrorIs(t, err, models.ErrTokenInvalid)
}

func TestVerifyGarbage(t *testing.T) {
	t.Parallel()

	issuer := token.NewIssuer("test-secret", time.Hour)

	_, err := issuer.Verify("not-a-token")
	assert.ErrorIs(t, err, models.ErrTokenInvalid)
}
