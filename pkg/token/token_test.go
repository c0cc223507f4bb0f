package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndValidate(t *testing.T) {
	tokenString, err := GenerateJWT(42, "umpire", testSecret, 60)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := ValidateJWT(tokenString, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "umpire", claims.Role)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	tokenString, err := GenerateJWT(42, "umpire", testSecret, 60)
	require.NoError(t, err)

	_, err = ValidateJWT(tokenString, "other-secret")
	assert.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	tokenString, err := GenerateJWT(42, "umpire", testSecret, -1)
	require.NoError(t, err)

	_, err = ValidateJWT(tokenString, testSecret)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := ValidateJWT("not.a.token", testSecret)
	assert.Error(t, err)
}
