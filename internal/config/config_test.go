package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	body := fmt.Sprintf(`{
		"port": 8080,
		"jwt_secret": "secret",
		"db": {"host": "localhost", "db_name": "docindex"},
		"ai": {"provider": "gemini", "model": "gemini-embedding-001"},
		"source": {"type": "drive"}%s
	}`, extra)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	require.Equal(t, 72, cfg.JWTTTLHours)
	require.Equal(t, "new_files_only", cfg.Sync.Strategy)
	require.Equal(t, 20, cfg.Sync.Limit)
	require.Equal(t, 4, cfg.Sync.Concurrency)
	require.Equal(t, 1000, cfg.Sync.MaxChunkSize)
	require.Equal(t, 8, cfg.Organize.MaxClusters)
	require.Equal(t, 3, cfg.Organize.MinClusterSize)
}

func TestLoadRejectsNegativeClusterBounds(t *testing.T) {
	_, err := Load(writeConfig(t, `, "organize": {"min_cluster_size": -1}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "min_cluster_size")

	_, err = Load(writeConfig(t, `, "organize": {"max_clusters": -2}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "max_clusters")
}

func TestLoadRejectsMissingRequiredFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"port": 8080}`), 0o600))
	_, err := Load(path)
	require.Error(t, err)
}
