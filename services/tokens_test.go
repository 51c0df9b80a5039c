package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/crime-report-api/models"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	token, err := issuer.Issue("user_abc", models.RoleCitizen)
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user_abc", claims.Subject)
	assert.Equal(t, models.RoleCitizen, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenIssuer_UniquePerIssue(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	a, err := issuer.Issue("user_abc", models.RoleCitizen)
	require.NoError(t, err)
	b, err := issuer.Issue("user_abc", models.RoleCitizen)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestTokenIssuer_RejectsOtherSecret(t *testing.T) {
	token, err := NewTokenIssuer("secret", time.Hour).Issue("user_abc", models.RoleOfficer)
	require.NoError(t, err)

	_, err = NewTokenIssuer("other", time.Hour).Verify(token)
	assert.Error(t, err)
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	token, err := NewTokenIssuer("secret", -time.Minute).Issue("user_abc", models.RoleOfficer)
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret", time.Hour).Verify(token)
	assert.Error(t, err)
}

func TestTokenIssuer_RejectsGarbage(t *testing.T) {
	_, err := NewTokenIssuer("secret", time.Hour).Verify("not-a-token")
	assert.Error(t, err)
}
