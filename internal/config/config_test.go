package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		DatabasePath:     "data/sqe_database.sqlite",
		ReportOutputPath: "report.xlsx",
		Year:             2025,
		DataType:         "purchase",
		OutputEncoding:   "utf-8",
		Port:             "9999",
		RateLimit:        20,
		RateBurst:        40,
		ShutdownTimeout:  10 * time.Second,
		LogLevel:         "INFO",
	}
}

func TestConfigLogLevelValidation(t *testing.T) {
	tests := []struct {
		name      string
		logLevel  string
		wantError bool
	}{
		{"Valid DEBUG", "DEBUG", false},
		{"Valid lowercase info", "info", false},
		{"Mixed case", "WaRn", false},
		{"Empty string", "", false},
		{"Invalid value", "TRACE", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = tt.logLevel

			err := cfg.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty database path", func(c *Config) { c.DatabasePath = " " }},
		{"empty output path", func(c *Config) { c.ReportOutputPath = "" }},
		{"year too small", func(c *Config) { c.Year = 0 }},
		{"empty data type", func(c *Config) { c.DataType = "" }},
		{"bad encoding", func(c *Config) { c.OutputEncoding = "koi8-r" }},
		{"bad port", func(c *Config) { c.Port = "http" }},
		{"port out of range", func(c *Config) { c.Port = "70000" }},
		{"negative rate", func(c *Config) { c.RateLimit = -1 }},
		{"zero burst", func(c *Config) { c.RateBurst = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	cfg := validConfig()
	cfg.RateLimit = 0
	cfg.RateBurst = 0
	assert.NoError(t, cfg.Validate(), "rate limit disabled does not need burst")
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "data/sqe_database.sqlite", cfg.DatabasePath)
	assert.Equal(t, "2025年交付业绩汇总.xlsx", cfg.ReportOutputPath)
	assert.Equal(t, 2025, cfg.Year)
	assert.Equal(t, "purchase", cfg.DataType)
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sqe.yaml")
	require.NoError(t, os.WriteFile(path, []byte("year: 2024\ndata_type: external\nport: \"8080\"\n"), 0o644))

	t.Setenv("SQE_PORT", "8181")
	t.Setenv("SQE_DATABASE_PATH", "/tmp/env.sqlite")

	cfg, err := LoadConfig(path, Override(KeyYear, 2026))
	require.NoError(t, err)

	assert.Equal(t, 2026, cfg.Year, "option wins over file")
	assert.Equal(t, "external", cfg.DataType, "file wins over default")
	assert.Equal(t, "8181", cfg.Port, "env wins over file")
	assert.Equal(t, "/tmp/env.sqlite", cfg.DatabasePath)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("SQE_OUTPUT_ENCODING", "ebcdic")
	_, err = LoadConfig("")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
