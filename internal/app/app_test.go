package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/moamoa-kids/moamoa-web/internal/config"
)

func TestNewWithoutPolicyFile(t *testing.T) {
	cfg := config.Default()
	cfg.PolicyPath = filepath.Join(t.TempDir(), "missing.yaml")
	logger := zerolog.Nop()

	a, err := New(&cfg, &logger)
	require.NoError(t, err)
	require.NotNil(t, a.server)
	require.Equal(t, cfg.Addr, a.server.Addr)
}

func TestNewRejectsMalformedPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("terms: [unclosed"), 0o600))

	cfg := config.Default()
	cfg.PolicyPath = path
	logger := zerolog.Nop()

	_, err := New(&cfg, &logger)
	require.Error(t, err)
}
