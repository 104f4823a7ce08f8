/*
config.go - Process configuration read from the environment

PURPOSE:
  Every setting of the server binary comes from SHIFTPAY_ prefixed
  environment variables, with defaults suitable for running locally.
  Command-line flags in cmd/server may override the port and database path.

VARIABLES:
  SHIFTPAY_PORT              listen port                  8080
  SHIFTPAY_DB_PATH           SQLite file                  shiftpay.db
  SHIFTPAY_ALLOWED_ORIGINS   CORS origins, comma list     http://localhost:3000,http://localhost:5173
  SHIFTPAY_READ_TIMEOUT      seconds                      10
  SHIFTPAY_WRITE_TIMEOUT     seconds                      15
  SHIFTPAY_IDLE_TIMEOUT      seconds                      60
  SHIFTPAY_SHUTDOWN_TIMEOUT  seconds                      10
  SHIFTPAY_LOG_LEVEL         zerolog level name           info
  SHIFTPAY_DEFAULT_CURRENCY  symbol for fresh settings    £
  SHIFTPAY_BACKUP_DIR        automatic backups, off when empty
  SHIFTPAY_BACKUP_INTERVAL   hours between backups        24
  SHIFTPAY_BACKUP_KEEP       newest backups kept          7
*/
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const Prefix = "SHIFTPAY_"

type Config struct {
	Port           string   `env:"PORT" envDefault:"8080"`
	DBPath         string   `env:"DB_PATH" envDefault:"shiftpay.db"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000,http://localhost:5173" envSeparator:","`

	Server struct {
		ReadTimeout     int `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	}

	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
	DefaultCurrency string `env:"DEFAULT_CURRENCY" envDefault:"£"`

	Backup struct {
		Dir      string `env:"DIR"`
		Interval int    `env:"INTERVAL" envDefault:"24"`
		Keep     int    `env:"KEEP" envDefault:"7"`
	} `envPrefix:"BACKUP_"`
}

// Load reads the process environment.
func Load() (*Config, error) {
	return parse(env.Options{Prefix: Prefix})
}

// LoadFrom reads from the given variables instead of the process
// environment. Keys carry the SHIFTPAY_ prefix.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		aggErr := env.AggregateError{}
		if errors.As(err, &aggErr) && len(aggErr.Errors) > 0 {
			// The first error is enough to fix the environment
			return nil, fmt.Errorf("config: %w", aggErr.Errors[0])
		}
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port == "" {
		return errors.New("config: port must not be empty")
	}
	if c.DBPath == "" {
		return errors.New("config: database path must not be empty")
	}
	for name, secs := range map[string]int{
		"read timeout":     c.Server.ReadTimeout,
		"write timeout":    c.Server.WriteTimeout,
		"idle timeout":     c.Server.IdleTimeout,
		"shutdown timeout": c.Server.ShutdownTimeout,
	} {
		if secs <= 0 {
			return fmt.Errorf("config: %s must be positive, got %d", name, secs)
		}
	}
	if c.Backup.Dir != "" && (c.Backup.Interval <= 0 || c.Backup.Keep <= 0) {
		return errors.New("config: backup interval and keep must be positive")
	}
	return nil
}

func (c *Config) Addr() string { return ":" + c.Port }

func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Server.ReadTimeout) * time.Second
}

func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.Server.WriteTimeout) * time.Second
}

func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.Server.IdleTimeout) * time.Second
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeout) * time.Second
}

func (c *Config) BackupInterval() time.Duration {
	return time.Duration(c.Backup.Interval) * time.Hour
}
