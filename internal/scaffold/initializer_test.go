package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dyluth/roadlog/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		check   func(t *testing.T, cfg *config.RoadlogConfig)
	}{
		{
			name:    "default backend is sqlite",
			backend: "",
			check: func(t *testing.T, cfg *config.RoadlogConfig) {
				assert.Equal(t, config.BackendSQLite, cfg.Storage.Backend)
				assert.Equal(t, "roadlog.db", cfg.Storage.Path)
			},
		},
		{
			name:    "redis",
			backend: config.BackendRedis,
			check: func(t *testing.T, cfg *config.RoadlogConfig) {
				assert.Equal(t, config.BackendRedis, cfg.Storage.Backend)
				assert.Equal(t, "redis://localhost:6379", cfg.Storage.RedisURL)
				assert.Empty(t, cfg.Storage.Namespace)
			},
		},
		{
			name:    "memory",
			backend: config.BackendMemory,
			check: func(t *testing.T, cfg *config.RoadlogConfig) {
				assert.Equal(t, config.BackendMemory, cfg.Storage.Backend)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "roadlog.yml")
			require.NoError(t, Initialize(path, Options{Backend: tt.backend}, false))

			cfg, err := config.Load(path)
			require.NoError(t, err)
			assert.Equal(t, ":8080", cfg.Server.Addr)
			assert.Equal(t, "info", cfg.Log.Level)
			assert.Nil(t, cfg.Location)
			tt.check(t, cfg)
		})
	}
}

func TestInitialize_InvalidBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roadlog.yml")
	err := Initialize(path, Options{Backend: "floppy"}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid backend: floppy")
	assert.NoFileExists(t, path)
}

func TestInitialize_Existing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roadlog.yml")
	require.NoError(t, os.WriteFile(path, []byte("old content"), 0644))

	err := Initialize(path, Options{}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project already initialized")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old content", string(data))

	require.NoError(t, Initialize(path, Options{}, true))
	_, err = config.Load(path)
	require.NoError(t, err)
}

func TestInitialize_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "roadlog.yml")
	require.NoError(t, Initialize(path, Options{}, false))
	assert.FileExists(t, path)
}
