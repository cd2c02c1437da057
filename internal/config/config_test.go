package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.PortAPI)
	assert.Equal(t, "3001", cfg.PortCDNThingDefs)
	assert.Equal(t, "3002", cfg.PortCDNAreaBundles)
	assert.Equal(t, "3003", cfg.PortCDNUGCImages)
	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, "data/libreland.db", cfg.DBDatabase)
	assert.Equal(t, "s", cfg.SessionCookieName)
	assert.Equal(t, "data", cfg.AreaBundlesSource)
	assert.True(t, cfg.ImportOnStart)
	assert.Equal(t, 10000, cfg.HoldGeometryMaxEntries)
	assert.Equal(t, 24*time.Hour, cfg.HoldGeometryTTL)
	assert.Empty(t, cfg.AdminToken)
}

func TestLoadFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("PORT_API=4000\nHOLD_GEOMETRY_TTL=5m\nUGC_IMAGES_SOURCE=s3://bucket/images\n"), 0o644))
	t.Setenv("ENV_FILE", envFile)
	// godotenv never overrides the environment, so the keys start unset and
	// are restored after the test
	for _, key := range []string{"PORT_API", "HOLD_GEOMETRY_TTL", "UGC_IMAGES_SOURCE"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "4000", cfg.PortAPI)
	assert.Equal(t, 5*time.Minute, cfg.HoldGeometryTTL)
	assert.Equal(t, "s3://bucket/images", cfg.UGCImagesSource)
}

func TestLoadValidation(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV_FILE", "")

	t.Run("server databases need a user", func(t *testing.T) {
		t.Setenv("DB_TYPE", "postgres")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("cache bound must be positive", func(t *testing.T) {
		t.Setenv("HOLD_GEOMETRY_MAX_ENTRIES", "0")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV_FILE", "")
	t.Setenv("RATE_LIMIT_BURST", "lots")
	t.Setenv("IMPORT_ON_START", "maybe")
	t.Setenv("HOLD_GEOMETRY_TTL", "forever")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.RateLimitBurst)
	assert.True(t, cfg.ImportOnStart)
	assert.Equal(t, 24*time.Hour, cfg.HoldGeometryTTL)
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"other": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, (&Config{LogLevel: in}).SlogLevel(), in)
	}
}
