package pkg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("access", "refresh")
	pair, err := issuer.GeneratePair(7, "auth")
	require.NoError(t, err)

	claims, err := issuer.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.EqualValues(t, 7, claims.UserID)
	assert.Equal(t, "auth", claims.Username)
}

func TestTokenIssuer_RejectsRefreshAsAccess(t *testing.T) {
	issuer := NewTokenIssuer("same", "same")
	pair, err := issuer.GeneratePair(7, "auth")
	require.NoError(t, err)

	_, err = issuer.ParseAccess(pair.RefreshToken)
	assert.Error(t, err)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	pair, err := NewTokenIssuer("a", "r").GeneratePair(1, "x")
	require.NoError(t, err)

	_, err = NewTokenIssuer("other", "r").ParseAccess(pair.AccessToken)
	assert.Error(t, err)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer("a", "r")
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	pair, err := issuer.GeneratePair(1, "x")
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = issuer.Refresh(pair.RefreshToken)
	require.NoError(t, err, "refresh lives for a day")

	issuer.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	_, err = issuer.Refresh(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshExpired)
}

func TestWelcomeHTML_Escapes(t *testing.T) {
	body := WelcomeHTML("<b>x</b>", "/profile/x/")
	assert.Contains(t, body, "&lt;b&gt;x&lt;/b&gt;")
	assert.Contains(t, body, `href="/profile/x/"`)
}

func TestTokenIssuer_ParseRefresh(t *testing.T) {
	issuer := NewTokenIssuer("access", "refresh")
	pair, err := issuer.GeneratePair(3, "auth")
	require.NoError(t, err)

	claims, err := issuer.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.EqualValues(t, 3, claims.UserID)

	_, err = issuer.ParseRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrRefreshInvalid)
}
