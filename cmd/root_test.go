package cmd

import (
	"testing"

	"notify-backend/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandTree(t *testing.T) {
	cfg := &config.Config{Port: "8080", LogLevel: "info", BroadcastEnabled: true}
	root := RootCommand(cfg)

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "broadcast", "migrate", "token"})
	assert.NotNil(t, root.RunE, "serving is the default")
}

func TestFlagsOverrideConfig(t *testing.T) {
	cfg := &config.Config{Port: "8080", LogLevel: "info", BroadcastEnabled: true}
	root := RootCommand(cfg)

	require.NoError(t, root.ParseFlags([]string{"--port", "9090", "--broadcast=false", "--log-level", "debug"}))
	assert.Equal(t, "9090", cfg.Port)
	assert.False(t, cfg.BroadcastEnabled)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestTokenRequiresUserID(t *testing.T) {
	root := RootCommand(&config.Config{})
	tokenCmd, _, err := root.Find([]string{"token"})
	require.NoError(t, err)
	assert.Error(t, tokenCmd.Args(tokenCmd, nil))
	assert.NoError(t, tokenCmd.Args(tokenCmd, []string{"u1"}))
}
