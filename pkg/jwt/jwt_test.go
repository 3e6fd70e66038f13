package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/taller-dashboard/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

func TestGenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "u-1", "staff", "taller-api", 60)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(testSecret, "taller-api", tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "staff", claims.Role)
}

func TestParse_IssuerOpcional(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "u-1", "admin", "otro", 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, "", tok)
	assert.NoError(t, err, "sin issuer configurado no se valida")

	_, err = pkgjwt.Parse(testSecret, "taller-api", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "u-1", "admin", "", -1)
	require.NoError(t, err)
	_, err = pkgjwt.Parse(testSecret, "", tok)
	assert.Error(t, err)
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "u-1", "admin", "", 60)
	require.NoError(t, err)
	_, err = pkgjwt.Parse("otro-secret", "", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "u-1", "admin", "", 60)
	assert.Error(t, err)
}
