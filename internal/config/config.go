// Package config loads exointel settings from an optional YAML file and
// EXOINTEL_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/codenameuriel/exo-intel/internal/logging"
	"github.com/codenameuriel/exo-intel/pkg/adapters/redis"
	"github.com/codenameuriel/exo-intel/pkg/adapters/sqlstore"
	"gopkg.in/yaml.v3"
)

// Queue backends.
const (
	QueueMemory = "memory"
	QueueRedis  = "redis"
)

type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Log        LogConfig        `yaml:"log"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Queue      QueueConfig      `yaml:"queue"`
	Simulation SimulationConfig `yaml:"simulation"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"`
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	PingTimeout     time.Duration `yaml:"ping_timeout"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type QueueConfig struct {
	Backend     string        `yaml:"backend"`
	Workers     int           `yaml:"workers"`
	ResultTTL   time.Duration `yaml:"result_ttl"`
	TaskTimeout time.Duration `yaml:"task_timeout"`
}

type SimulationConfig struct {
	// Delay is an artificial pause before each simulation runs.
	Delay time.Duration `yaml:"delay"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the settings used when nothing is configured: SQLite in the
// working directory and an in-process queue.
func Default() Config {
	db := sqlstore.DefaultConfig()
	return Config{
		HTTP: HTTPConfig{
			Addr:            ":8000",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: logging.FormatText},
		Database: DatabaseConfig{
			Driver:          db.Driver,
			URL:             db.URL,
			MaxOpenConns:    db.MaxOpenConns,
			MaxIdleConns:    db.MaxIdleConns,
			ConnMaxLifetime: db.ConnMaxLifetime,
			PingTimeout:     db.PingTimeout,
		},
		Redis: RedisConfig{Addr: "localhost:6379", Prefix: redis.DefaultPrefix},
		Queue: QueueConfig{
			Backend:     QueueMemory,
			Workers:     4,
			ResultTTL:   24 * time.Hour,
			TaskTimeout: 5 * time.Minute,
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path skips the file; a missing file is an
// error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var err error
	var errs []error
	collect := func(e error) {
		if e != nil {
			errs = append(errs, e)
		}
	}

	c.HTTP.Addr = envString("HTTP_ADDR", c.HTTP.Addr)
	c.Log.Level = envString("LOG_LEVEL", c.Log.Level)
	c.Log.Format = envString("LOG_FORMAT", c.Log.Format)
	c.Database.Driver = envString("DATABASE_DRIVER", c.Database.Driver)
	c.Database.URL = envString("DATABASE_URL", c.Database.URL)
	c.Redis.Addr = envString("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = envString("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.Prefix = envString("REDIS_PREFIX", c.Redis.Prefix)
	c.Queue.Backend = envString("QUEUE_BACKEND", c.Queue.Backend)

	c.Redis.DB, err = envInt("REDIS_DB", c.Redis.DB)
	collect(err)
	c.Queue.Workers, err = envInt("QUEUE_WORKERS", c.Queue.Workers)
	collect(err)
	c.Queue.ResultTTL, err = envDuration("QUEUE_RESULT_TTL", c.Queue.ResultTTL)
	collect(err)
	c.Queue.TaskTimeout, err = envDuration("QUEUE_TASK_TIMEOUT", c.Queue.TaskTimeout)
	collect(err)
	c.Simulation.Delay, err = envDuration("SIMULATION_DELAY", c.Simulation.Delay)
	collect(err)
	c.Metrics.Enabled, err = envBool("METRICS_ENABLED", c.Metrics.Enabled)
	collect(err)

	return errors.Join(errs...)
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.Format != logging.FormatText && c.Log.Format != logging.FormatJSON {
		errs = append(errs, fmt.Errorf("log.format must be %q or %q", logging.FormatText, logging.FormatJSON))
	}
	if err := c.SQL().Validate(); err != nil {
		errs = append(errs, err)
	}
	switch c.Queue.Backend {
	case QueueMemory:
	case QueueRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("redis.addr is required for the redis queue"))
		}
	default:
		errs = append(errs, fmt.Errorf("queue.backend must be %q or %q", QueueMemory, QueueRedis))
	}
	if c.Queue.Workers < 1 {
		errs = append(errs, errors.New("queue.workers must be >= 1"))
	}
	if c.Queue.ResultTTL <= 0 {
		errs = append(errs, errors.New("queue.result_ttl must be positive"))
	}
	if c.Queue.TaskTimeout < 0 || c.Simulation.Delay < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	return errors.Join(errs...)
}

// SQL converts the database section for sqlstore.Open.
func (c Config) SQL() sqlstore.Config {
	return sqlstore.Config{
		Driver:          c.Database.Driver,
		URL:             c.Database.URL,
		PingTimeout:     c.Database.PingTimeout,
		MaxOpenConns:    c.Database.MaxOpenConns,
		MaxIdleConns:    c.Database.MaxIdleConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
	}
}

// Logger builds the logger described by the log section.
func (c Config) Logger() *slog.Logger {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	if c.Log.Format == logging.FormatJSON {
		return logging.NewJSON(level)
	}
	return logging.New(level)
}
