// Package config loads nihulit settings from nihulit.yaml and NIHULIT_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/felixgeelhaar/nihulit/pkg/storage"
)

// FileName is the config file name without extension.
const FileName = "nihulit"

// Storage backends.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Storage  StorageConfig
	Postgres PostgresConfig
	AMQP     AMQPConfig
	HTTP     HTTPConfig
	Calendar CalendarConfig
	Session  SessionConfig
	Log      LogConfig
	Watch    WatchConfig
	Notify   NotifyConfig
}

type StorageConfig struct {
	Backend string
	Dir     string
}

type PostgresConfig struct {
	URL      string
	MaxConns int32
}

// AMQPConfig enables the RabbitMQ event publisher when URL is set.
type AMQPConfig struct {
	URL      string
	Exchange string
}

type HTTPConfig struct {
	Addr string
}

type CalendarConfig struct {
	Timezone string
}

type SessionConfig struct {
	TTL time.Duration
}

type LogConfig struct {
	Level string
}

type WatchConfig struct {
	Debounce time.Duration
}

// NotifyConfig sends "not saved" notices to a webhook when WebhookURL is set.
type NotifyConfig struct {
	WebhookURL string
}

// Default returns the configuration used when no file or variable sets a key.
func Default() *Config {
	return &Config{
		Storage:  StorageConfig{Backend: BackendFile, Dir: storage.DefaultDir},
		Postgres: PostgresConfig{MaxConns: 20},
		AMQP:     AMQPConfig{Exchange: "nihulit.events"},
		HTTP:     HTTPConfig{Addr: ":8080"},
		Calendar: CalendarConfig{Timezone: "Asia/Jerusalem"},
		Session:  SessionConfig{TTL: 30 * 24 * time.Hour},
		Log:      LogConfig{Level: "info"},
		Watch:    WatchConfig{Debounce: 500 * time.Millisecond},
	}
}

// Load reads nihulit.yaml from root, then from $HOME/.config/nihulit.
// NIHULIT_<SECTION>_<KEY> variables override both. A missing file yields
// the defaults.
func Load(root string) (*Config, error) {
	def := Default()

	v := viper.New()
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(root)
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "nihulit"))
	}
	v.SetEnvPrefix("NIHULIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("storage.backend", def.Storage.Backend)
	v.SetDefault("storage.dir", def.Storage.Dir)
	v.SetDefault("postgres.url", def.Postgres.URL)
	v.SetDefault("postgres.max_conns", def.Postgres.MaxConns)
	v.SetDefault("amqp.url", def.AMQP.URL)
	v.SetDefault("amqp.exchange", def.AMQP.Exchange)
	v.SetDefault("http.addr", def.HTTP.Addr)
	v.SetDefault("calendar.timezone", def.Calendar.Timezone)
	v.SetDefault("session.ttl", def.Session.TTL)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("watch.debounce", def.Watch.Debounce)
	v.SetDefault("notify.webhook_url", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading %s.yaml: %w", FileName, err)
		}
	}

	cfg := &Config{
		Storage: StorageConfig{
			Backend: strings.ToLower(v.GetString("storage.backend")),
			Dir:     v.GetString("storage.dir"),
		},
		Postgres: PostgresConfig{
			URL:      v.GetString("postgres.url"),
			MaxConns: v.GetInt32("postgres.max_conns"),
		},
		AMQP: AMQPConfig{
			URL:      v.GetString("amqp.url"),
			Exchange: v.GetString("amqp.exchange"),
		},
		HTTP:     HTTPConfig{Addr: v.GetString("http.addr")},
		Calendar: CalendarConfig{Timezone: v.GetString("calendar.timezone")},
		Session:  SessionConfig{TTL: v.GetDuration("session.ttl")},
		Log:      LogConfig{Level: v.GetString("log.level")},
		Watch:    WatchConfig{Debounce: v.GetDuration("watch.debounce")},
		Notify:   NotifyConfig{WebhookURL: v.GetString("notify.webhook_url")},
	}
	if !filepath.IsAbs(cfg.Storage.Dir) {
		cfg.Storage.Dir = filepath.Join(root, cfg.Storage.Dir)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendMemory:
	case BackendPostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("%w: postgres backend requires postgres.url", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidConfig, c.Storage.Backend)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("%w: session.ttl must be positive", ErrInvalidConfig)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("%w: watch.debounce cannot be negative", ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(c.Calendar.Timezone); err != nil {
		return fmt.Errorf("%w: calendar.timezone: %v", ErrInvalidConfig, err)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// Location returns the configured calendar time zone, or UTC when it cannot
// be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Calendar.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LogLevel parses log.level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Log.Level)
	}
	return level, nil
}
