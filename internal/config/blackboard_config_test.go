package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/anthropics/blackboard/internal/blackboard"
)

func writeConfig(t *testing.T, dir, yaml string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
}

func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	dir := t.TempDir()
	cfg := LoadConfig(dir)
	require.Equal(t, blackboard.DefaultConfig(), cfg)
}

func TestLoadConfigReadsFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "flavor: simple\nprune-expired: true\nmax-entries: 500\nstm-ttl-seconds: 30\n")

	cfg := LoadConfig(dir)
	require.Equal(t, blackboard.FlavorSimple, cfg.Flavor)
	require.True(t, cfg.PruneExpired)
	require.Equal(t, 500, cfg.MaxEntries)
	require.Equal(t, 30*time.Second, cfg.StmTTL)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "flavor: simple\nmax-entries: 500\n")

	t.Setenv("BLACKBOARD_FLAVOR", "vector")
	t.Setenv("BLACKBOARD_MAX_ENTRIES", "42")

	cfg := LoadConfig(dir)
	require.Equal(t, blackboard.FlavorVector, cfg.Flavor)
	require.Equal(t, 42, cfg.MaxEntries)
}

func TestWatchConfigReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "max-entries: 100\n")

	changes := make(chan blackboard.Config, 4)
	w, err := WatchConfig(dir, func(cfg blackboard.Config) { changes <- cfg })
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	writeConfig(t, dir, "max-entries: 200\n")

	select {
	case cfg := <-changes:
		require.Equal(t, 200, cfg.MaxEntries)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload notification")
	}
}
