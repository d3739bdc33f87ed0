// ABOUTME: Client-side configuration for the articles CLI and REPL
// ABOUTME: Loads TOML from the XDG config directory with environment variable expansion

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Storage drivers for the client session.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Client defaults.
const (
	DefaultBaseURL       = "http://localhost:9000"
	DefaultClientTimeout = 30 * time.Second
)

// ClientConfig is the articles client configuration
type ClientConfig struct {
	API     APIConfig     `toml:"api"`
	Storage StorageConfig `toml:"storage"`
	Logging LoggingConfig `toml:"logging"`
}

// APIConfig locates the backend
type APIConfig struct {
	BaseURL    string        `toml:"base_url"`
	Timeout    time.Duration `toml:"-"`
	TimeoutRaw string        `toml:"timeout"`
}

// StorageConfig selects where the session token is kept
type StorageConfig struct {
	Driver string `toml:"driver"`
	// Path is a directory for the file driver and a database file for sqlite.
	Path string `toml:"path"`
}

// DefaultClientPath returns $ARTICLES_CONFIG if set, otherwise
// $XDG_CONFIG_HOME/articles/client.toml.
func DefaultClientPath() string {
	if p := os.Getenv("ARTICLES_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(configDir(), "client.toml")
}

// DefaultClient returns the configuration used when no file exists.
func DefaultClient() *ClientConfig {
	cfg := &ClientConfig{}
	cfg.applyDefaults()
	return cfg
}

// LoadClient reads the client config at path. A missing file yields
// DefaultClient.
func LoadClient(path string) (*ClientConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultClient(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := expandEnvVars(string(data))

	var cfg ClientConfig
	if _, err := toml.Decode(expanded, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.API.TimeoutRaw != "" {
		cfg.API.Timeout, err = time.ParseDuration(cfg.API.TimeoutRaw)
		if err != nil {
			return nil, fmt.Errorf("parsing api.timeout %q: %w", cfg.API.TimeoutRaw, err)
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func (c *ClientConfig) applyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultClientTimeout
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageFile
	}
	if c.Storage.Path == "" {
		switch c.Storage.Driver {
		case StorageFile:
			c.Storage.Path = filepath.Join(configDir(), "storage")
		case StorageSQLite:
			c.Storage.Path = filepath.Join(configDir(), "client.db")
		}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "warn"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Validate checks that required config fields are present and valid.
func (c *ClientConfig) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must use http or https scheme")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must be positive")
	}

	switch c.Storage.Driver {
	case StorageFile, StorageSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the %s driver", c.Storage.Driver)
		}
	case StorageMemory:
	default:
		return fmt.Errorf("storage.driver %q is not one of file, sqlite, memory", c.Storage.Driver)
	}

	return c.Logging.Validate()
}
