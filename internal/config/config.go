package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid configuration")

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Config holds service configuration loaded from an optional file and QUIZ_* environment variables.
type Config struct {
	Env     string  `mapstructure:"env"`     // local, development, production
	HTTP    HTTP    `mapstructure:"http"`    // listener settings
	Session Session `mapstructure:"session"` // visitor session lifetime
	Store   Store   `mapstructure:"store"`   // where sessions live
}

type HTTP struct {
	Addr              string        `mapstructure:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

type Session struct {
	TTL           time.Duration `mapstructure:"ttl"`            // idle time before a session is dropped
	SweepInterval time.Duration `mapstructure:"sweep_interval"` // how often idle sessions are purged
	CookieName    string        `mapstructure:"cookie_name"`
}

type Store struct {
	Driver      string `mapstructure:"driver"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	RedisAddr   string `mapstructure:"redis_addr"`
	RedisPrefix string `mapstructure:"redis_prefix"`
}

// Load reads configuration. An empty path searches ./config/config.yaml and
// tolerates its absence; an explicit path must exist.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	v := viper.New()
	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
	}

	v.SetDefault("env", "local")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_header_timeout", "5s")
	v.SetDefault("http.shutdown_timeout", "10s")
	v.SetDefault("session.ttl", "30m")
	v.SetDefault("session.sweep_interval", "1m")
	v.SetDefault("session.cookie_name", "quiz_session")
	v.SetDefault("store.driver", StoreMemory)
	v.SetDefault("store.sqlite_path", ":memory:")
	v.SetDefault("store.redis_addr", "")
	v.SetDefault("store.redis_prefix", "quiz:session:")

	v.SetEnvPrefix("QUIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// ADDR is kept for deployments that predate the QUIZ_ prefix.
	_ = v.BindEnv("http.addr", "QUIZ_HTTP_ADDR", "ADDR")
	_ = v.BindEnv("env", "QUIZ_ENV", "APP_ENV")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	switch c.Store.Driver {
	case StoreMemory, StoreSQLite:
	case StoreRedis:
		if strings.TrimSpace(c.Store.RedisAddr) == "" {
			return fmt.Errorf("%w: store.redis_addr is required for the redis driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store.driver %q", ErrInvalidConfig, c.Store.Driver)
	}

	if strings.TrimSpace(c.HTTP.Addr) == "" {
		return fmt.Errorf("%w: http.addr is required", ErrInvalidConfig)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("%w: session.ttl must be positive", ErrInvalidConfig)
	}
	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("%w: session.sweep_interval must be positive", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Session.CookieName) == "" {
		return fmt.Errorf("%w: session.cookie_name is required", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}
