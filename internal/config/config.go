package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"fashionmart/internal/services/refresh"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppCfg struct {
	Env  string `validate:"required"`
	Port string `validate:"required,numeric"`
}

type LogCfg struct {
	Level  string `validate:"oneof=trace debug info warn error"`
	Format string `validate:"oneof=console json"`
}

type UpstreamCfg struct {
	BaseURL    string        `validate:"required,url"`
	Timeout    time.Duration `validate:"gt=0"`
	RetryCount int           `validate:"gte=0,lte=10"`
	PageSize   int           `validate:"gt=0,lte=500"`
}

// DBCfg is optional: saved views are disabled without a DSN
type DBCfg struct{ DSN string }

// AuthCfg holds the secret bearer tokens are signed with. When set, saved
// views are keyed by the token subject instead of the token itself.
type AuthCfg struct{ JWTSecret string }

// RedisCfg is optional: the page cache falls back to in-process LRU
type RedisCfg struct{ Addr string }

type CacheCfg struct {
	TTL  time.Duration `validate:"gte=0"`
	Size int           `validate:"gt=0"`
}

type SessionCfg struct {
	Max         int           `validate:"gt=0"`
	IdleTTL     time.Duration `validate:"gt=0"`
	RefreshTick time.Duration `validate:"gt=0"`
	// Poll maps a resource to its refresh interval, from POLL_<RESOURCE>.
	Poll map[string]time.Duration
}

type Cfg struct {
	App      AppCfg
	Log      LogCfg
	Upstream UpstreamCfg
	DB       DBCfg
	Redis    RedisCfg
	Auth     AuthCfg
	Cache    CacheCfg
	Session  SessionCfg
}

// Load reads .env and the environment and exits the process on invalid settings
func Load() Cfg {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("could not read .env")
	}

	cfg, err := Parse(viper.New())
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	return cfg
}

// Parse builds the configuration from v, reading the environment
func Parse(v *viper.Viper) (Cfg, error) {
	v.AutomaticEnv()
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("UPSTREAM_TIMEOUT", "15s")
	v.SetDefault("UPSTREAM_RETRY_COUNT", 2)
	v.SetDefault("UPSTREAM_PAGE_SIZE", 100)
	v.SetDefault("CACHE_TTL", "15s")
	v.SetDefault("CACHE_SIZE", 2048)
	v.SetDefault("SESSION_MAX", 1000)
	v.SetDefault("SESSION_IDLE_TTL", "30m")
	v.SetDefault("REFRESH_TICK", "5s")
	polled := refresh.DefaultPolicy()
	for resource, every := range polled {
		v.SetDefault(pollKey(resource), every.String())
	}

	cfg := Cfg{
		App: AppCfg{
			Env:  v.GetString("APP_ENV"),
			Port: v.GetString("APP_PORT"),
		},
		Log: LogCfg{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
		Upstream: UpstreamCfg{
			BaseURL:    strings.TrimRight(strings.TrimSpace(v.GetString("UPSTREAM_BASE_URL")), "/"),
			Timeout:    v.GetDuration("UPSTREAM_TIMEOUT"),
			RetryCount: v.GetInt("UPSTREAM_RETRY_COUNT"),
			PageSize:   v.GetInt("UPSTREAM_PAGE_SIZE"),
		},
		DB:    DBCfg{DSN: strings.TrimSpace(v.GetString("DB_DSN"))},
		Redis: RedisCfg{Addr: strings.TrimSpace(v.GetString("REDIS_ADDR"))},
		Auth:  AuthCfg{JWTSecret: v.GetString("AUTH_JWT_SECRET")},
		Cache: CacheCfg{
			TTL:  v.GetDuration("CACHE_TTL"),
			Size: v.GetInt("CACHE_SIZE"),
		},
		Session: SessionCfg{
			Max:         v.GetInt("SESSION_MAX"),
			IdleTTL:     v.GetDuration("SESSION_IDLE_TTL"),
			RefreshTick: v.GetDuration("REFRESH_TICK"),
			Poll:        map[string]time.Duration{},
		},
	}
	for resource := range polled {
		if every := v.GetDuration(pollKey(resource)); every > 0 {
			cfg.Session.Poll[resource] = every
		}
	}

	// Fail fast on required settings
	if cfg.Upstream.BaseURL == "" {
		return cfg, errors.New("UPSTREAM_BASE_URL is required")
	}
	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// IsProduction reports whether the service runs with production settings
func (c Cfg) IsProduction() bool {
	return c.App.Env == "production"
}

func pollKey(resource string) string {
	return "POLL_" + strings.ToUpper(resource)
}
