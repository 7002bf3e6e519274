// Package config loads aidir settings from ~/.aidir.yaml and AIDIR_* env vars.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverPostgREST = "postgrest"
	DriverPostgres  = "postgres"
	DriverSQLite    = "sqlite"
	DriverFixture   = "fixture"
)

const (
	configName = ".aidir"
	envPrefix  = "AIDIR"
	dirName    = ".aidir"
)

// Config is the resolved configuration of one run.
type Config struct {
	Store Store
	Log   Log
	UI    UI

	// File is the config file that was read, empty when none was found.
	File string
}

// Store selects and parameterises the data store driver.
type Store struct {
	Driver  string
	URL     string // postgrest base URL
	APIKey  string // postgrest API key
	DSN     string // postgres connection string
	Path    string // sqlite database or fixture file
	Timeout time.Duration
	Retries int
}

type Log struct {
	Level  string
	Format string
	File   string
}

type UI struct {
	Theme string
}

// Dir is the per-user state directory (~/.aidir).
func Dir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// DefaultPath is where the config file lives unless --config says otherwise.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, configName+".yaml"), nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("store.driver", DriverPostgREST)
	v.SetDefault("store.url", "")
	v.SetDefault("store.api_key", "")
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.path", "")
	v.SetDefault("store.timeout", "15s")
	v.SetDefault("store.retries", 2)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("ui.theme", "classic")

	if dir, err := Dir(); err == nil {
		v.SetDefault("log.file", filepath.Join(dir, "logs", "aidir.log"))
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads cfgFile, or ~/.aidir.yaml when cfgFile is empty. A missing
// default file is not an error; a missing explicit file is.
func Load(cfgFile string) (*Config, error) {
	v := newViper()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, fmt.Errorf("home: %w", err)
		}
		v.AddConfigPath(home)
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return &Config{
		Store: Store{
			Driver:  strings.ToLower(strings.TrimSpace(v.GetString("store.driver"))),
			URL:     strings.TrimRight(strings.TrimSpace(v.GetString("store.url")), "/"),
			APIKey:  strings.TrimSpace(v.GetString("store.api_key")),
			DSN:     v.GetString("store.dsn"),
			Path:    v.GetString("store.path"),
			Timeout: v.GetDuration("store.timeout"),
			Retries: v.GetInt("store.retries"),
		},
		Log: Log{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			File:   v.GetString("log.file"),
		},
		UI:   UI{Theme: v.GetString("ui.theme")},
		File: v.ConfigFileUsed(),
	}, nil
}

// Validate checks that the selected driver has what it needs. Presence only.
func (c *Config) Validate() error {
	s := c.Store
	switch s.Driver {
	case DriverPostgREST:
		if s.URL == "" {
			return errors.New("store.url is required for the postgrest driver (AIDIR_STORE_URL)")
		}
		if s.APIKey == "" {
			return errors.New("no API key: set store.api_key, AIDIR_API_KEY or run `aidir auth login`")
		}
	case DriverPostgres:
		if s.DSN == "" {
			return errors.New("store.dsn is required for the postgres driver (AIDIR_STORE_DSN)")
		}
	case DriverSQLite, DriverFixture:
		if s.Path == "" {
			return fmt.Errorf("store.path is required for the %s driver (AIDIR_STORE_PATH)", s.Driver)
		}
	default:
		return fmt.Errorf("unknown store driver %q (want %s, %s, %s or %s)",
			s.Driver, DriverPostgREST, DriverPostgres, DriverSQLite, DriverFixture)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("store.timeout must be >= 0, got %s", s.Timeout)
	}
	if s.Retries < 0 {
		return fmt.Errorf("store.retries must be >= 0, got %d", s.Retries)
	}
	return nil
}

// WriteDefault writes a config file with default values to path. It refuses
// to overwrite an existing file.
func WriteDefault(path string) error {
	v := newViper()
	if err := v.SafeWriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
