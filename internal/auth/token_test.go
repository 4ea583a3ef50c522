package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resolveit/complaint-service/internal/domain"
)

func TestGenerateAndParseToken(t *testing.T) {
	manager := NewTokenManager("secret", 60)

	token, expiresAt, err := manager.GenerateToken("user-1", domain.RoleStaff)
	require.NoError(t, err)
	assert.False(t, expiresAt.IsZero())

	claims, err := manager.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, domain.RoleStaff, claims.Role)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", 60).GenerateToken("user-1", domain.RoleUser)
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", 60).ParseToken(token)
	require.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := NewTokenManager("secret", 60).ParseToken("not-a-jwt")
	require.Error(t, err)
}
