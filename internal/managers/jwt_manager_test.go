package managers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stories-v13/internal/schemas"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	jwtMgr := NewJWTManager("test-secret")

	claims := jwtMgr.GenerateClaims("user-123", "ana@example.com", schemas.RoleCreator)
	token, err := jwtMgr.GenerateJWT(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsedClaims, err := jwtMgr.ValidateJWT(token)
	require.NoError(t, err)

	mapClaims, ok := parsedClaims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "user-123", mapClaims["sub"])
	assert.Equal(t, "ana@example.com", mapClaims["email"])
	assert.Equal(t, string(schemas.RoleCreator), mapClaims["role"])
	assert.Equal(t, tokenIssuer, mapClaims["iss"])
}

func TestValidateJWTRejectsTamperedToken(t *testing.T) {
	jwtMgr := NewJWTManager("test-secret")

	token, err := jwtMgr.GenerateJWT(jwtMgr.GenerateClaims("user-123", "ana@example.com", schemas.RoleUser))
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "ab"
	if tampered == token {
		tampered = token[:len(token)-2] + "cd"
	}

	_, err = jwtMgr.ValidateJWT(tampered)
	assert.Error(t, err)
}

func TestValidateJWTRejectsForeignSecret(t *testing.T) {
	jwtMgr := NewJWTManager("test-secret")
	foreignMgr := NewJWTManager("other-secret")

	token, err := foreignMgr.GenerateJWT(foreignMgr.GenerateClaims("user-123", "ana@example.com", schemas.RoleUser))
	require.NoError(t, err)

	_, err = jwtMgr.ValidateJWT(token)
	assert.Error(t, err)
}

func TestValidateJWTRejectsExpiredToken(t *testing.T) {
	jwtMgr := NewJWTManager("test-secret")

	now := time.Now()
	expired := jwt.MapClaims{
		"iss":   tokenIssuer,
		"iat":   now.Add(-2 * time.Hour).Unix(),
		"exp":   now.Add(-time.Hour).Unix(),
		"sub":   "user-123",
		"email": "ana@example.com",
		"role":  string(schemas.RoleUser),
	}

	token, err := jwtMgr.GenerateJWT(expired)
	require.NoError(t, err)

	_, err = jwtMgr.ValidateJWT(token)
	assert.Error(t, err)
}
