package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	AppEnv          string        `mapstructure:"APP_ENV"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	HTTPPort        int           `mapstructure:"HTTP_PORT"`
	DbHost          string        `mapstructure:"POSTGRES_HOST"`
	DbPort          int           `mapstructure:"POSTGRES_PORT"`
	DbUser          string        `mapstructure:"POSTGRES_USER"`
	DbPass          string        `mapstructure:"POSTGRES_PASSWORD"`
	DbName          string        `mapstructure:"POSTGRES_DB"`
	DbSSLMode       string        `mapstructure:"POSTGRES_SSLMODE"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
	RunMigrations   bool          `mapstructure:"RUN_MIGRATIONS"`
	StoreDriver     string        `mapstructure:"STORE_DRIVER"`
}

var defaults = map[string]any{
	"APP_ENV":           "dev",
	"LOG_LEVEL":         "info",
	"HTTP_PORT":         8082,
	"POSTGRES_HOST":     "localhost",
	"POSTGRES_PORT":     5432,
	"POSTGRES_USER":     "postgres",
	"POSTGRES_PASSWORD": "password",
	"POSTGRES_DB":       "enchanted",
	"POSTGRES_SSLMODE":  "disable",
	"SHUTDOWN_TIMEOUT":  "10s",
	"RUN_MIGRATIONS":    true,
	"STORE_DRIVER":      DriverPostgres,
}

// Load reads configuration from the environment, layered over the optional
// dotenv file at path and the built-in defaults. Environment wins. A path
// that does not exist is skipped.
func Load(path string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat config %s: %w", path, err)
		}
	}
	v.AutomaticEnv()

	cf := &Config{}
	if err := v.Unmarshal(cf); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cf.StoreDriver = strings.ToLower(strings.TrimSpace(cf.StoreDriver))
	if err := cf.Validate(); err != nil {
		return nil, err
	}
	return cf, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("HTTP_PORT %d out of range", c.HTTPPort))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}
	switch c.StoreDriver {
	case DriverMemory:
	case DriverPostgres:
		if c.DbName == "" {
			errs = append(errs, errors.New("POSTGRES_DB must be set"))
		}
		if c.DbPort <= 0 || c.DbPort > 65535 {
			errs = append(errs, fmt.Errorf("POSTGRES_PORT %d out of range", c.DbPort))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	return errors.Join(errs...)
}

// DSN renders the lib/pq connection URL.
func (c *Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DbUser, c.DbPass),
		Host:     fmt.Sprintf("%s:%d", c.DbHost, c.DbPort),
		Path:     c.DbName,
		RawQuery: url.Values{"sslmode": {c.DbSSLMode}}.Encode(),
	}
	return u.String()
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
