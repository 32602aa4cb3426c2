package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func validConfigJSON() string {
	return `{
		"server": {"address": ":9090"},
		"logger": {"level": "debug"},
		"app": {
			"default_max_items": 5,
			"default_news_limit": 20,
			"processing_interval": "10m",
			"workers": 2,
			"sources": [
				{"name": "first", "url": "https://example.com/rss"},
				{"name": "second", "url": "https://example.org/rss", "max_items": 3,
					"tags": {"description": "summary", "date": "published"}}
			]
		},
		"cache": {"ttl_seconds": 600},
		"database": {
			"host": "db", "port": 5433, "username": "user",
			"password": "secret", "dbname": "news", "sslmode": "disable"
		}
	}`
}

func TestLoad_Success(t *testing.T) {
	path := writeConfigFile(t, validConfigJSON())

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, 5, cfg.App.DefaultMaxItems)
	assert.Equal(t, 10*time.Minute, mustParseDuration(t, cfg.App.ProcessingInterval))
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL())
	assert.Equal(t, "postgres://user:secret@db:5433/news?sslmode=disable", cfg.Database.DSN())
	require.NoError(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfigFile(t, `{"app": {"sources": [{"name": "only", "url": "https://example.com/rss"}]}}`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, 10, cfg.App.DefaultMaxItems)
	assert.Equal(t, 4, cfg.App.Workers)
	assert.Equal(t, time.Hour, cfg.Cache.TTL())
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "env-host")
	t.Setenv("DB_USERNAME", "env-user")
	t.Setenv("DB_PASSWORD", "env-pass")
	t.Setenv("DB_NAME", "env-db")

	path := writeConfigFile(t, validConfigJSON())
	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "env-host", cfg.Database.Host)
	assert.Equal(t, "env-user", cfg.Database.Username)
	assert.Equal(t, "env-pass", cfg.Database.Password)
	assert.Equal(t, "env-db", cfg.Database.DBName)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))

	assert.Error(t, err)
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := writeConfigFile(t, `{"server": `)

	_, err := Load(path)

	assert.Error(t, err)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *Config)
	}{
		{"no password", func(cfg *Config) { cfg.Database.Password = "" }},
		{"no sources", func(cfg *Config) { cfg.App.Sources = nil }},
		{"bad source url", func(cfg *Config) { cfg.App.Sources[0].URL = "not a url" }},
		{"unnamed source", func(cfg *Config) { cfg.App.Sources[0].Name = "" }},
		{"negative max items", func(cfg *Config) { cfg.App.Sources[0].MaxItems = -1 }},
		{"zero workers", func(cfg *Config) { cfg.App.Workers = 0 }},
		{"zero cache ttl", func(cfg *Config) { cfg.Cache.TTLSeconds = 0 }},
		{"bad interval", func(cfg *Config) { cfg.App.ProcessingInterval = "soon" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfigFile(t, validConfigJSON())
			cfg, err := Load(path)
			require.NoError(t, err)

			tc.mutate(cfg)

			assert.Error(t, cfg.Validate())
		})
	}
}

func TestFeedSources_AppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, validConfigJSON())
	cfg, err := Load(path)
	require.NoError(t, err)

	sources := cfg.FeedSources()

	require.Len(t, sources, 2)
	// Лимит по умолчанию подставляется только при незаданном max_items.
	assert.Equal(t, 5, sources[0].MaxItems)
	assert.Equal(t, 3, sources[1].MaxItems)
	assert.Equal(t, "title", sources[0].Tags.Title)
	assert.Equal(t, "pubDate", sources[0].Tags.Date)
	assert.Equal(t, "summary", sources[1].Tags.Description)
	assert.Equal(t, "published", sources[1].Tags.Date)
}

func mustParseDuration(t *testing.T, s string) time.Duration {
	t.Helper()
	d, err := time.ParseDuration(s)
	require.NoError(t, err)
	return d
}
