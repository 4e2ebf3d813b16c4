package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/itfview/internal/logging"
	"github.com/aretw0/itfview/pkg/domain"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no config file is given. It may be absent.
const DefaultPath = "itfview.yaml"

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config represents the structure of itfview.yaml.
type Config struct {
	View   domain.DisplayOptions `yaml:"view"`
	Server ServerConfig          `yaml:"server"`
	Store  StoreConfig           `yaml:"store"`
	Log    LogConfig             `yaml:"log"`
}

// ServerConfig configures the HTTP viewer.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	Port int    `yaml:"port"`
}

// StoreConfig selects where view preferences live.
type StoreConfig struct {
	Backend string      `yaml:"backend"`
	Path    string      `yaml:"path"`
	Redis   RedisConfig `yaml:"redis"`
}

// RedisConfig configures the shared preference store.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

// LogConfig configures the application logger.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		View: domain.DefaultDisplayOptions(),
		Server: ServerConfig{
			Addr: "127.0.0.1",
			Port: 8080,
		},
		Store: StoreConfig{
			Backend: BackendMemory,
			Path:    ".itfview/views",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "itfview:view:",
			},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the config file at path over the defaults. An empty path reads
// DefaultPath and treats a missing file as "no overrides"; an explicit path
// must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	// YAML is a superset of JSON, so itfview.json works too.
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerations and normalizes the view mode.
func (c *Config) Validate() error {
	var errs []error

	if c.View.ViewMode != "" {
		mode, err := domain.ParseViewMode(string(c.View.ViewMode))
		if err != nil {
			errs = append(errs, fmt.Errorf("view.mode: %w", err))
		}
		c.View.ViewMode = mode
	}

	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendRedis:
	default:
		errs = append(errs, fmt.Errorf("store.backend: unknown backend %q", c.Store.Backend))
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port: %d out of range", c.Server.Port))
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	return errors.Join(errs...)
}

// ListenAddr returns the host:port the server binds to.
func (c Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Addr, c.Server.Port)
}
