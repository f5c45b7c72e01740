package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-sql-driver/mysql"
)

// Store kinds
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreMySQL  = "mysql"
)

// Config is the process configuration, read from the environment at startup
type Config struct {
	Port     int    `env:"PORT"      envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Store      string `env:"AUCTION_STORE"       envDefault:"memory"`
	SQLitePath string `env:"AUCTION_SQLITE_PATH" envDefault:"auction.db"`
	MySQLDSN   string `env:"AUCTION_MYSQL_DSN"`

	SweepInterval time.Duration `env:"AUCTION_SWEEP_INTERVAL" envDefault:"30s"`
	SweepWorkers  int           `env:"AUCTION_SWEEP_WORKERS"  envDefault:"4"`

	NotifyWebhookURL string        `env:"AUCTION_NOTIFY_WEBHOOK_URL"`
	NotifyQueue      int           `env:"AUCTION_NOTIFY_QUEUE"   envDefault:"256"`
	NotifyWorkers    int           `env:"AUCTION_NOTIFY_WORKERS" envDefault:"2"`
	NotifyTimeout    time.Duration `env:"AUCTION_NOTIFY_TIMEOUT" envDefault:"5s"`
}

// Load parses the environment into a Config. It does not validate.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	return cfg, nil
}

// Addr is the HTTP listen address
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate reports every invalid setting at once
func (c Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}

	switch c.Store {
	case StoreMemory:
	case StoreSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			errs = append(errs, errors.New("AUCTION_SQLITE_PATH is required for the sqlite store"))
		}
	case StoreMySQL:
		if c.MySQLDSN == "" {
			errs = append(errs, errors.New("AUCTION_MYSQL_DSN is required for the mysql store"))
		} else if _, err := mysql.ParseDSN(c.MySQLDSN); err != nil {
			errs = append(errs, fmt.Errorf("AUCTION_MYSQL_DSN: %w", err))
		}
	default:
		errs = append(errs, fmt.Errorf("AUCTION_STORE %q is not one of memory, sqlite, mysql", c.Store))
	}

	if c.SweepInterval <= 0 {
		errs = append(errs, errors.New("AUCTION_SWEEP_INTERVAL must be positive"))
	}
	if c.SweepWorkers <= 0 {
		errs = append(errs, errors.New("AUCTION_SWEEP_WORKERS must be positive"))
	}
	if c.NotifyQueue <= 0 {
		errs = append(errs, errors.New("AUCTION_NOTIFY_QUEUE must be positive"))
	}
	if c.NotifyWorkers <= 0 {
		errs = append(errs, errors.New("AUCTION_NOTIFY_WORKERS must be positive"))
	}
	if c.NotifyTimeout <= 0 {
		errs = append(errs, errors.New("AUCTION_NOTIFY_TIMEOUT must be positive"))
	}
	if c.NotifyWebhookURL != "" {
		if u, err := url.Parse(c.NotifyWebhookURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("AUCTION_NOTIFY_WEBHOOK_URL %q is not an absolute URL", c.NotifyWebhookURL))
		}
	}

	return errors.Join(errs...)
}
