package thoughts

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/moments/internal/common"
)

func signed(t *testing.T, exp *jwt.NumericDate) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ExpiresAt: exp}).
		SignedString([]byte("not-known-to-the-client"))
	require.NoError(t, err)
	return tok
}

func TestCheckToken(t *testing.T) {
	now := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)

	require.NoError(t, CheckToken(signed(t, jwt.NewNumericDate(now.Add(time.Hour))), now))
	require.NoError(t, CheckToken(signed(t, nil), now), "no exp claim")
	require.NoError(t, CheckToken("opaque-session-token", now))

	require.ErrorIs(t, CheckToken(signed(t, jwt.NewNumericDate(now.Add(-time.Second))), now), common.ErrUnauthorized)
	require.ErrorIs(t, CheckToken(signed(t, jwt.NewNumericDate(now)), now), common.ErrUnauthorized)
	require.ErrorIs(t, CheckToken("", now), common.ErrUnauthorized)
}
