package token

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel/config"
	"sentinel/internal/model"
)

func TestMain(m *testing.M) {
	config.Cfg.JWTSecret = "test-secret"
	os.Exit(m.Run())
}

func TestGenerateAndParseTokenPair(t *testing.T) {
	access, refresh, err := GenerateTokenPair(42, model.RoleSecurityTeam)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	claims, err := ParseToken(access)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, model.RoleSecurityTeam, claims.Role)

	claims, err = ParseToken(refresh)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseTokenRejectsWrongKey(t *testing.T) {
	access, _, err := GenerateTokenPair(7, model.RoleOfficial)
	require.NoError(t, err)

	config.Cfg.JWTSecret = "rotated-secret"
	defer func() { config.Cfg.JWTSecret = "test-secret" }()

	_, err = ParseToken(access)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseTokenRejectsUnknownRole(t *testing.T) {
	// 直接构造带非法角色的令牌
	bad, err := generate(9, model.Role("superuser"), time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(bad)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
