// Package config loads algoviz settings from algoviz.yaml with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = "algoviz.yaml"

// Config holds all algoviz configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Playback PlaybackConfig `yaml:"playback"`
	Cache    CacheConfig    `yaml:"cache"`
	Window   WindowConfig   `yaml:"window"`
	Watch    WatchConfig    `yaml:"watch"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ReadTimeout     string `yaml:"read_timeout"`
	WriteTimeout    string `yaml:"write_timeout"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`

	// Request size limits; larger inputs are rejected with 400.
	MaxArrayLen  int `yaml:"max_array_len"`
	MaxGridCells int `yaml:"max_grid_cells"`

	MaxConnections int `yaml:"max_connections"` // concurrent; 0 is unlimited
}

// PlaybackConfig configures Player timing.
type PlaybackConfig struct {
	BaseInterval string  `yaml:"base_interval"` // tick interval at speed 1
	Speed        float64 `yaml:"speed"`
}

// CacheConfig configures the trace cache.
type CacheConfig struct {
	Size int `yaml:"size"` // entries; 0 disables caching

	// StatsInterval is how often serve logs cache counters; "0" turns it off.
	StatsInterval string `yaml:"stats_interval"`
}

// WindowConfig configures the ebiten window.
type WindowConfig struct {
	Title    string  `yaml:"title"`
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	CellSize float64 `yaml:"cell_size"`
}

// WatchConfig configures the grid file watcher.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json"`  // JSON lines instead of console encoding
	File  string `yaml:"file"`  // optional extra output path
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     "10s",
			WriteTimeout:    "30s",
			ShutdownTimeout: "5s",
			MaxArrayLen:     1000,
			MaxGridCells:    10000,
			MaxConnections:  256,
		},
		Playback: PlaybackConfig{
			BaseInterval: "500ms",
			Speed:        1,
		},
		Cache: CacheConfig{
			Size:          128,
			StatsInterval: "1m",
		},
		Window: WindowConfig{
			Title:    "algoviz",
			Width:    960,
			Height:   640,
			CellSize: 24,
		},
		Watch: WatchConfig{
			Debounce: "150ms",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a YAML file over the defaults. A missing
// file yields the defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies ALGOVIZ_* environment variables.
func (c *Config) applyEnvOverrides() error {
	if addr := os.Getenv("ALGOVIZ_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if level := os.Getenv("ALGOVIZ_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if s := os.Getenv("ALGOVIZ_SPEED"); s != "" {
		speed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid ALGOVIZ_SPEED %q: %w", s, err)
		}
		c.Playback.Speed = speed
	}
	return nil
}

// GetReadTimeout returns the server read timeout as a duration.
func (c *Config) GetReadTimeout() time.Duration {
	return parseDuration(c.Server.ReadTimeout, 10*time.Second)
}

// GetWriteTimeout returns the server write timeout as a duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return parseDuration(c.Server.WriteTimeout, 30*time.Second)
}

// GetShutdownTimeout returns the graceful shutdown timeout as a duration.
func (c *Config) GetShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, 5*time.Second)
}

// GetBaseInterval returns the playback tick interval at speed 1.
func (c *Config) GetBaseInterval() time.Duration {
	return parseDuration(c.Playback.BaseInterval, 500*time.Millisecond)
}

// GetDebounce returns the watcher debounce window.
func (c *Config) GetDebounce() time.Duration {
	return parseDuration(c.Watch.Debounce, 150*time.Millisecond)
}

// GetStatsInterval returns how often cache counters are logged. Zero means
// never.
func (c *Config) GetStatsInterval() time.Duration {
	d, err := time.ParseDuration(c.Cache.StatsInterval)
	if err != nil || d < 0 {
		return time.Minute
	}
	return d
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// ValidLevels lists the accepted logging levels.
var ValidLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is empty")
	}
	if c.Server.MaxArrayLen <= 0 {
		return fmt.Errorf("server.max_array_len must be positive, got %d", c.Server.MaxArrayLen)
	}
	if c.Server.MaxGridCells <= 0 {
		return fmt.Errorf("server.max_grid_cells must be positive, got %d", c.Server.MaxGridCells)
	}
	if c.Server.MaxConnections < 0 {
		return fmt.Errorf("server.max_connections must not be negative, got %d", c.Server.MaxConnections)
	}
	if c.Playback.Speed <= 0 {
		return fmt.Errorf("playback.speed must be positive, got %v", c.Playback.Speed)
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("cache.size must not be negative, got %d", c.Cache.Size)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if !slices.Contains(ValidLevels, c.Logging.Level) {
		return fmt.Errorf("invalid logging level: %s (valid: %v)", c.Logging.Level, ValidLevels)
	}
	for name, s := range map[string]string{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"playback.base_interval":  c.Playback.BaseInterval,
		"watch.debounce":          c.Watch.Debounce,
		"cache.stats_interval":    c.Cache.StatsInterval,
	} {
		if _, err := time.ParseDuration(s); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	return nil
}
