package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("DB_ENABLED")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8089", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 10, cfg.Screener.Workers)
	assert.Equal(t, 24*time.Hour, cfg.Screener.RegimeTTL)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, []string{"intraday_momentum"}, cfg.Schedule.IntradayKeys)
}

func TestLoadWithCustomValues(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("ENV", "production")
	os.Setenv("SCREENER_WORKERS", "4")
	os.Setenv("SCREENER_FETCH_TIMEOUT", "3s")
	os.Setenv("SCREENER_UNIVERSE", "BBCA.JK, BBRI.JK,,")
	os.Setenv("YAHOO_RPS", "2.5")

	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("ENV")
		os.Unsetenv("SCREENER_WORKERS")
		os.Unsetenv("SCREENER_FETCH_TIMEOUT")
		os.Unsetenv("SCREENER_UNIVERSE")
		os.Unsetenv("YAHOO_RPS")
	}()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 4, cfg.Screener.Workers)
	assert.Equal(t, 3*time.Second, cfg.Screener.FetchTimeout)
	assert.Equal(t, []string{"BBCA.JK", "BBRI.JK"}, cfg.Screener.Universe)
	assert.InDelta(t, 2.5, cfg.Yahoo.RequestsPerSec, 1e-9)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"db enabled without url", func(c *Config) { c.Database.Enabled = true }, true},
		{"db enabled with url", func(c *Config) {
			c.Database.Enabled = true
			c.Database.URL = "postgres://x"
		}, false},
		{"bad env", func(c *Config) { c.Env = "qa" }, true},
		{"zero workers", func(c *Config) { c.Screener.Workers = 0 }, true},
		{"zero timeout", func(c *Config) { c.Screener.FetchTimeout = 0 }, true},
		{"zero rps", func(c *Config) { c.Yahoo.RequestsPerSec = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{
				Env:      "development",
				Screener: ScreenerConfig{Workers: 1, FetchTimeout: time.Second},
				Yahoo:    YahooConfig{RequestsPerSec: 1},
			}
			tt.mutate(c)
			err := c.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetEnvAsDurationFallback(t *testing.T) {
	os.Setenv("TEST_DURATION", "not-a-duration")
	defer os.Unsetenv("TEST_DURATION")

	assert.Equal(t, 5*time.Second, getEnvAsDuration("TEST_DURATION", "5s"))
}
