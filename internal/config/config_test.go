package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 500*time.Millisecond, cfg.GetBaseInterval())
	assert.Equal(t, 150*time.Millisecond, cfg.GetDebounce())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "algoviz.yaml")
	data := []byte(`
server:
  addr: ":9000"
  max_array_len: 50
playback:
  base_interval: 250ms
logging:
  level: debug
  json: true
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 50, cfg.Server.MaxArrayLen)
	assert.Equal(t, 10000, cfg.Server.MaxGridCells, "unset fields keep defaults")
	assert.Equal(t, 250*time.Millisecond, cfg.GetBaseInterval())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.JSON)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "algoviz.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "algoviz.yaml")
	cfg := DefaultConfig()
	cfg.Cache.Size = 7
	cfg.Window.Title = "sorting"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("addr and level", func(t *testing.T) {
		t.Setenv("ALGOVIZ_ADDR", "127.0.0.1:1")
		t.Setenv("ALGOVIZ_LOG_LEVEL", "warn")
		cfg := DefaultConfig()
		require.NoError(t, cfg.applyEnvOverrides())
		assert.Equal(t, "127.0.0.1:1", cfg.Server.Addr)
		assert.Equal(t, "warn", cfg.Logging.Level)
	})

	t.Run("speed", func(t *testing.T) {
		t.Setenv("ALGOVIZ_SPEED", "2.5")
		cfg := DefaultConfig()
		require.NoError(t, cfg.applyEnvOverrides())
		assert.Equal(t, 2.5, cfg.Playback.Speed)
	})

	t.Run("bad speed", func(t *testing.T) {
		t.Setenv("ALGOVIZ_SPEED", "fast")
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("env beats file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "algoviz.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":1\"\n"), 0644))
		t.Setenv("ALGOVIZ_ADDR", ":2")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, ":2", cfg.Server.Addr)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(c *Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"zero array limit", func(c *Config) { c.Server.MaxArrayLen = 0 }},
		{"zero grid limit", func(c *Config) { c.Server.MaxGridCells = 0 }},
		{"negative connection limit", func(c *Config) { c.Server.MaxConnections = -1 }},
		{"zero speed", func(c *Config) { c.Playback.Speed = 0 }},
		{"negative cache", func(c *Config) { c.Cache.Size = -1 }},
		{"zero window", func(c *Config) { c.Window.Width = 0 }},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad duration", func(c *Config) { c.Playback.BaseInterval = "soon" }},
		{"bad stats interval", func(c *Config) { c.Cache.StatsInterval = "hourly" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDurationGettersFallBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.ReadTimeout = "garbage"
	cfg.Server.WriteTimeout = "-1s"
	assert.Equal(t, 10*time.Second, cfg.GetReadTimeout())
	assert.Equal(t, 30*time.Second, cfg.GetWriteTimeout())
	assert.Equal(t, 5*time.Second, cfg.GetShutdownTimeout())
}

func TestStatsInterval(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, time.Minute, cfg.GetStatsInterval())

	cfg.Cache.StatsInterval = "0"
	assert.Zero(t, cfg.GetStatsInterval())
	assert.NoError(t, cfg.Validate())

	cfg.Cache.StatsInterval = "-5s"
	assert.Equal(t, time.Minute, cfg.GetStatsInterval())
}
