package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "hubzone-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 6*time.Hour, cfg.Tile.TTL)
	assert.Equal(t, 5000, cfg.Tile.MaxEntries)
	assert.Equal(t, 10*time.Minute, cfg.Tile.SweepInterval)
	assert.Equal(t, 4096, cfg.Tile.Extent)
	assert.Equal(t, 64, cfg.Tile.Buffer)
	assert.Equal(t, "hubzone_designations", cfg.Tile.Layer)
	assert.Equal(t, 100.0, cfg.Search.MaxRadiusMiles)
	assert.Equal(t, 50, cfg.Search.MaxResults)
	assert.Equal(t, "hubzone_zones", cfg.Export.FilenamePrefix)
}

func TestLoad_EnvOverridesTileSettings(t *testing.T) {
	t.Setenv("HUBZONE_TILE_LAYER", "custom_layer")
	t.Setenv("HUBZONE_TILE_MAX_ENTRIES", "123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "custom_layer", cfg.Tile.Layer)
	assert.Equal(t, 123, cfg.Tile.MaxEntries)
	// Untouched keys still fall back to defaults.
	assert.Equal(t, 6*time.Hour, cfg.Tile.TTL)
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Tile.TTL = time.Minute
	cfg.Tile.MaxEntries = 10
	cfg.Search.MaxRadiusMiles = 25
	applyDefaults(cfg)

	assert.Equal(t, time.Minute, cfg.Tile.TTL)
	assert.Equal(t, 10, cfg.Tile.MaxEntries)
	assert.Equal(t, 25.0, cfg.Search.MaxRadiusMiles)
}

func TestValidate(t *testing.T) {
	newValid := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	t.Run("defaults pass validation", func(t *testing.T) {
		require.NoError(t, newValid().validate())
	})

	t.Run("rejects negative tile buffer", func(t *testing.T) {
		cfg := newValid()
		cfg.Tile.Buffer = -1
		assert.Error(t, cfg.validate())
	})

	t.Run("rejects zero tile extent", func(t *testing.T) {
		cfg := newValid()
		cfg.Tile.Extent = 0
		assert.Error(t, cfg.validate())
	})

	t.Run("rejects non-positive search limits", func(t *testing.T) {
		cfg := newValid()
		cfg.Search.MaxRadiusMiles = 0
		assert.Error(t, cfg.validate())

		cfg = newValid()
		cfg.Search.MaxResults = 0
		assert.Error(t, cfg.validate())
	})

	t.Run("rejects idle conns above open conns", func(t *testing.T) {
		cfg := newValid()
		cfg.Database.MaxIdleConns = 50
		cfg.Database.MaxOpenConns = 10
		assert.Error(t, cfg.validate())
	})

	t.Run("rejects sampling ratio above one", func(t *testing.T) {
		cfg := newValid()
		cfg.Telemetry.SamplingRatio = 1.5
		assert.Error(t, cfg.validate())
	})

	t.Run("production requires password and ssl", func(t *testing.T) {
		cfg := newValid()
		cfg.App.Env = "production"
		assert.Error(t, cfg.validate())

		cfg.Database.Password = "secret"
		assert.Error(t, cfg.validate())

		cfg.Database.SSLMode = "require"
		assert.NoError(t, cfg.validate())
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "hubzone",
		Password: "p@ss/word",
		DBName:   "hubzone",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.True(t, strings.HasPrefix(dsn, "postgres://"))
	assert.Contains(t, dsn, "db.internal:5433")
	assert.Contains(t, dsn, "sslmode=require")
	// Special characters in the password must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}
