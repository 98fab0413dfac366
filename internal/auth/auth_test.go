package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nospelin-a11y/guerreros2026-2/internal/domain"
)

var testCfg = Config{Secret: "test-secret", Issuer: "guerreros.test"}

func TestIssueAndParse(t *testing.T) {
	token, err := Issue(domain.User{ID: "u-6", Name: "Franju", IsAdmin: true}, testCfg, time.Hour)
	require.NoError(t, err)

	claims, err := Parse(token, testCfg)
	require.NoError(t, err)
	require.Equal(t, "u-6", claims.Subject)
	require.Equal(t, "Franju", claims.Name)
	require.True(t, claims.Admin)
	require.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := Issue(domain.User{ID: "u-1"}, testCfg, time.Hour)
	require.NoError(t, err)

	_, err = Parse(token, Config{Secret: "other", Issuer: testCfg.Issuer})
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	token, err := Issue(domain.User{ID: "u-1"}, testCfg, time.Hour)
	require.NoError(t, err)

	_, err = Parse(token, Config{Secret: testCfg.Secret, Issuer: "someone.else"})
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	token, err := Issue(domain.User{ID: "u-1"}, testCfg, -time.Minute)
	require.NoError(t, err)

	_, err = Parse(token, testCfg)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseEmptyToken(t *testing.T) {
	_, err := Parse("  ", testCfg)
	require.ErrorIs(t, err, ErrMissingToken)
}
