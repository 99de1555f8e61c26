package foundry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigtec/agentportal/internal/config"
)

func TestNewTokenSource_StaticToken(t *testing.T) {
	ts, err := NewTokenSource(config.CredentialConfig{Mode: "token", Token: "secret"})
	require.NoError(t, err)

	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "secret", tok.AccessToken)
}

func TestNewTokenSource_TokenModeRequiresToken(t *testing.T) {
	_, err := NewTokenSource(config.CredentialConfig{Mode: "token"})
	assert.Error(t, err)
}

func TestNewTokenSource_DefaultsToCLI(t *testing.T) {
	ts, err := NewTokenSource(config.CredentialConfig{})
	require.NoError(t, err)

	cli, ok := ts.(*cliTokenSource)
	require.True(t, ok)
	assert.Equal(t, config.DefaultTokenScope, cli.scope)
}

func TestNewTokenSource_CustomScope(t *testing.T) {
	ts, err := NewTokenSource(config.CredentialConfig{Mode: "cli", Scope: "https://example.test"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.test", ts.(*cliTokenSource).scope)
}

func TestNewTokenSource_UnknownMode(t *testing.T) {
	_, err := NewTokenSource(config.CredentialConfig{Mode: "magic"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "magic")
}
