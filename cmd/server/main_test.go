package main

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-task-api/internal/config"
)

func TestNewTokenManager_GeneratesSecret(t *testing.T) {
	cfg := &config.Config{Token: config.TokenConfig{Issuer: "tests", TTL: time.Hour}}

	tokens, err := newTokenManager(cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, tokens.Expires())

	token, err := tokens.Issue(5)
	require.NoError(t, err)
	userID, err := tokens.Verify(token.Value)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), userID)
}

func TestNewTokenManager_NoExpiry(t *testing.T) {
	cfg := &config.Config{Token: config.TokenConfig{
		Secret:   "configured-secret",
		Issuer:   "tests",
		TTL:      time.Hour,
		NoExpiry: true,
	}}

	tokens, err := newTokenManager(cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, tokens.Expires())

	token, err := tokens.Issue(5)
	require.NoError(t, err)
	assert.True(t, token.ExpiresAt.IsZero())
}
