package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"github.com/dyluth/roadlog/internal/contacts"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "roadlog.yml"

// Storage backends
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Defaults applied by Validate
const (
	defaultSQLitePath = "roadlog.db"
	defaultRedisURL   = "redis://localhost:6379"
	defaultServerAddr = ":8080"
	defaultLogLevel   = "info"

	maxNamespaceLength = 63
)

// namespacePattern keeps namespaces safe inside Redis key and channel names.
var namespacePattern = regexp.MustCompile(`^[a-z0-9]([-a-z0-9]*[a-z0-9])?$`)

// RoadlogConfig represents the top-level roadlog.yml configuration
type RoadlogConfig struct {
	Version  string             `yaml:"version"`
	Storage  StorageConfig      `yaml:"storage"`
	Location *LocationConfig    `yaml:"location,omitempty"`
	Contacts []contacts.Contact `yaml:"contacts,omitempty"` // Replaces the built-in emergency numbers when set
	Server   *ServerConfig      `yaml:"server,omitempty"`
	Log      *LogConfig         `yaml:"log,omitempty"`
}

// StorageConfig selects the device key-value store
type StorageConfig struct {
	Backend   string `yaml:"backend"`             // sqlite (default), redis or memory
	Path      string `yaml:"path,omitempty"`      // sqlite database file
	RedisURL  string `yaml:"redis_url,omitempty"` // redis://host:port/db
	Namespace string `yaml:"namespace,omitempty"` // Empty keeps the plain "obstacles" key
}

// LocationConfig tells the CLI where the current position comes from.
// Either a fixed position or a file written by a GPS daemon.
type LocationConfig struct {
	Latitude  *float64 `yaml:"latitude,omitempty"`
	Longitude *float64 `yaml:"longitude,omitempty"`
	File      string   `yaml:"file,omitempty"`
}

// ServerConfig configures `roadlog serve`
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn or error
}

// Default returns the configuration used when no roadlog.yml exists.
func Default() *RoadlogConfig {
	cfg := &RoadlogConfig{Version: "1.0"}
	// Cannot fail: every field gets its default
	_ = cfg.Validate()
	return cfg
}

// Validate performs strict validation on the configuration and fills in defaults
func (c *RoadlogConfig) Validate() error {
	// Required: version
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	if err := c.Storage.Validate(); err != nil {
		return err
	}

	if c.Location != nil {
		if err := c.Location.Validate(); err != nil {
			return err
		}
	}

	for i, contact := range c.Contacts {
		if err := contact.Validate(); err != nil {
			return fmt.Errorf("contacts[%d]: %w", i, err)
		}
	}
	if len(c.Contacts) == 0 {
		c.Contacts = contacts.Defaults()
	}

	if c.Server == nil {
		c.Server = &ServerConfig{}
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaultServerAddr
	}

	if c.Log == nil {
		c.Log = &LogConfig{}
	}
	switch c.Log.Level {
	case "":
		c.Log.Level = defaultLogLevel
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be 'debug', 'info', 'warn', or 'error')", c.Log.Level)
	}

	return nil
}

// Validate checks the storage section and applies backend defaults
func (s *StorageConfig) Validate() error {
	switch s.Backend {
	case "":
		s.Backend = BackendSQLite
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("storage: invalid backend: %s (must be 'sqlite', 'redis', or 'memory')", s.Backend)
	}

	switch s.Backend {
	case BackendSQLite:
		if s.Path == "" {
			s.Path = defaultSQLitePath
		}
	case BackendRedis:
		if s.RedisURL == "" {
			s.RedisURL = defaultRedisURL
		}
	}

	if s.Namespace != "" {
		if len(s.Namespace) > maxNamespaceLength {
			return fmt.Errorf("storage: namespace too long: %d characters (max: %d)", len(s.Namespace), maxNamespaceLength)
		}
		if !namespacePattern.MatchString(s.Namespace) {
			return fmt.Errorf("storage: invalid namespace '%s': must be lowercase alphanumeric with hyphens (not at start/end)", s.Namespace)
		}
	}

	return nil
}

// Validate checks the location section
func (l *LocationConfig) Validate() error {
	hasStatic := l.Latitude != nil || l.Longitude != nil

	if hasStatic && l.File != "" {
		return fmt.Errorf("location: latitude/longitude and file are mutually exclusive")
	}
	if hasStatic && (l.Latitude == nil || l.Longitude == nil) {
		return fmt.Errorf("location: latitude and longitude must be set together")
	}
	if l.Latitude != nil && (*l.Latitude < -90 || *l.Latitude > 90) {
		return fmt.Errorf("location: latitude must be between -90 and 90, got %v", *l.Latitude)
	}
	if l.Longitude != nil && (*l.Longitude < -180 || *l.Longitude > 180) {
		return fmt.Errorf("location: longitude must be between -180 and 180, got %v", *l.Longitude)
	}

	return nil
}

// Load reads and validates roadlog.yml from the specified path
func Load(path string) (*RoadlogConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config RoadlogConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadOrDefault loads path, falling back to Default() when the file does not exist.
// Other read, parse and validation errors are returned.
func LoadOrDefault(path string) (*RoadlogConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}
