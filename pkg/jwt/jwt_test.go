package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-editor/pkg/jwt"
)

const secret = "test-secret-key-for-unit-tests"

func TestGenerateParse_IdaYVuelta(t *testing.T) {
	tok, err := jwt.Generate(secret, "sess-1", jwt.ScopeEdit, "invoice-editor", 60)
	require.NoError(t, err)

	id, scope, err := jwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", id)
	assert.Equal(t, jwt.ScopeEdit, scope)
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := jwt.Generate(secret, "sess-1", jwt.ScopeExport, "invoice-editor", 60)
	require.NoError(t, err)

	_, _, err = jwt.Parse("otro-secret", tok)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := jwt.Generate(secret, "sess-1", jwt.ScopeEdit, "invoice-editor", -5)
	require.NoError(t, err)

	_, _, err = jwt.Parse(secret, tok)
	assert.Error(t, err)
}

func TestGenerate_ValidaEntradas(t *testing.T) {
	_, err := jwt.Generate("", "sess-1", jwt.ScopeEdit, "x", 60)
	assert.Error(t, err)
	_, err = jwt.Generate(secret, "", jwt.ScopeEdit, "x", 60)
	assert.Error(t, err)
	_, _, err = jwt.Parse("", "abc")
	assert.Error(t, err)
}
