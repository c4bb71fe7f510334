package config

import (
	"testing"
	"time"

	"fashionmart/internal/services/refresh"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("UPSTREAM_BASE_URL", "https://api.fashionmart.test/v1/")

	cfg, err := Parse(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "https://api.fashionmart.test/v1", cfg.Upstream.BaseURL)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 15*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 100, cfg.Upstream.PageSize)
	assert.Equal(t, 30*time.Second, cfg.Session.Poll["orders"])
	assert.Equal(t, 60*time.Second, cfg.Session.Poll["payments"])
	assert.NotContains(t, cfg.Session.Poll, "designs")
	assert.Equal(t, map[string]time.Duration(refresh.DefaultPolicy()), cfg.Session.Poll)
	assert.Empty(t, cfg.DB.DSN)
	assert.False(t, cfg.IsProduction())
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("UPSTREAM_BASE_URL", "http://localhost:4000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("CACHE_TTL", "0s")
	t.Setenv("POLL_ORDERS", "10s")
	t.Setenv("POLL_STOCK", "0s")
	t.Setenv("REDIS_ADDR", " localhost:6379 ")
	t.Setenv("AUTH_JWT_SECRET", "k")

	cfg, err := Parse(viper.New())
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Zero(t, cfg.Cache.TTL)
	assert.Equal(t, 10*time.Second, cfg.Session.Poll["orders"])
	assert.NotContains(t, cfg.Session.Poll, "stock", "a zero interval disables polling")
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "k", cfg.Auth.JWTSecret)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse(viper.New())
	assert.EqualError(t, err, "UPSTREAM_BASE_URL is required")

	t.Setenv("UPSTREAM_BASE_URL", "not a url")
	_, err = Parse(viper.New())
	assert.Error(t, err)

	t.Setenv("UPSTREAM_BASE_URL", "http://localhost:4000")
	t.Setenv("LOG_FORMAT", "xml")
	_, err = Parse(viper.New())
	assert.ErrorContains(t, err, "Format")
}
