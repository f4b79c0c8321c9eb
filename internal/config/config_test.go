package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setDiscordEnv(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DISCORD_APP_ID", "app")
	t.Setenv("DISCORD_GUILD_ID", "guild")
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	setDiscordEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "token", cfg.Discord.Token)
	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "sqlite", cfg.Storage.Type)
	assert.Equal(t, "data/coinpurse.db", cfg.Storage.SQLitePath)
	assert.Equal(t, 30*time.Second, cfg.Spam.Window)
	assert.Equal(t, int64(100_000), cfg.Spam.Pool)
	assert.Equal(t, 500, cfg.History.MaxRoundsPerPlayer)
	assert.False(t, cfg.Elasticsearch.Enabled)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	setDiscordEnv(t)
	yaml := `
environment: production
storage:
  type: postgres
  postgres_dsn: postgres://localhost/coinpurse
spam:
  pool: 5000
  window: 1m
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	t.Setenv("SPAM_POOL", "7500")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "postgres", cfg.Storage.Type)
	assert.Equal(t, time.Minute, cfg.Spam.Window)
	assert.Equal(t, int64(7500), cfg.Spam.Pool)
}

func TestLoadRequiresDiscord(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load()

	assert.ErrorContains(t, err, "Token")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Environment:   "production",
			Discord:       DiscordConfig{Token: "t", AppID: "a", GuildID: "g"},
			Log:           LogConfig{Level: "info"},
			Storage:       StorageConfig{Type: "memory"},
			Elasticsearch: ElasticsearchConfig{IndexPrefix: "coinpurse", Retention: 3},
			HTTP:          HTTPConfig{Addr: ":9090"},
			Spam:          SpamConfig{Pool: 100, Window: time.Minute},
			History:       HistoryConfig{MaxRoundsPerPlayer: 10},
		}
	}

	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown storage", mutate: func(c *Config) { c.Storage.Type = "redis" }, wantErr: true},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Storage.Type = "postgres" }, wantErr: true},
		{name: "sqlite without path", mutate: func(c *Config) { c.Storage.Type = "sqlite" }, wantErr: true},
		{name: "elasticsearch without url", mutate: func(c *Config) { c.Elasticsearch.Enabled = true }, wantErr: true},
		{
			name: "elasticsearch with url",
			mutate: func(c *Config) {
				c.Elasticsearch.Enabled = true
				c.Elasticsearch.URL = "http://localhost:9200"
			},
		},
		{name: "empty pool", mutate: func(c *Config) { c.Spam.Pool = 0 }, wantErr: true},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)

			err := cfg.Validate()

			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
