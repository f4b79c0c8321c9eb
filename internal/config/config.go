package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// "development" or "production"
	Environment string `mapstructure:"environment" validate:"oneof=development production"`

	Discord       DiscordConfig       `mapstructure:"discord"`
	Log           LogConfig           `mapstructure:"log"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	HTTP          HTTPConfig          `mapstructure:"http"`
	Spam          SpamConfig          `mapstructure:"spam"`
	History       HistoryConfig       `mapstructure:"history"`
}

type DiscordConfig struct {
	Token   string `mapstructure:"token" validate:"required"`
	AppID   string `mapstructure:"app_id" validate:"required"`
	GuildID string `mapstructure:"guild_id" validate:"required"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
}

type StorageConfig struct {
	Type        string `mapstructure:"type" validate:"oneof=memory sqlite postgres"`
	SQLitePath  string `mapstructure:"sqlite_path" validate:"required_if=Type sqlite"`
	PostgresDSN string `mapstructure:"postgres_dsn" validate:"required_if=Type postgres"`
}

type ElasticsearchConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	URL         string `mapstructure:"url" validate:"required_if=Enabled true,omitempty,url"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	IndexPrefix string `mapstructure:"index_prefix" validate:"required"`
	// Retention is how many months of round indices are kept
	Retention int `mapstructure:"retention" validate:"min=1"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

// SpamConfig controls /spamevent
type SpamConfig struct {
	Pool      int64         `mapstructure:"pool" validate:"min=1"`
	Window    time.Duration `mapstructure:"window" validate:"min=1s"`
	ChannelID string        `mapstructure:"channel_id"`
}

type HistoryConfig struct {
	MaxRoundsPerPlayer int `mapstructure:"max_rounds_per_player" validate:"min=1"`
}

// Load reads .env, config.yaml and the environment, in increasing precedence.
// Nested keys map to environment variables with "." replaced by "_",
// e.g. DISCORD_TOKEN or STORAGE_SQLITE_PATH.
func Load(paths ...string) (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// AutomaticEnv only sees keys viper already knows about
	v.SetDefault("discord.token", "")
	v.SetDefault("discord.app_id", "")
	v.SetDefault("discord.guild_id", "")

	v.SetDefault("environment", "development")
	v.SetDefault("log.level", "info")

	v.SetDefault("storage.type", "sqlite")
	v.SetDefault("storage.sqlite_path", "data/coinpurse.db")
	v.SetDefault("storage.postgres_dsn", "")

	v.SetDefault("elasticsearch.enabled", false)
	v.SetDefault("elasticsearch.url", "")
	v.SetDefault("elasticsearch.username", "")
	v.SetDefault("elasticsearch.password", "")
	v.SetDefault("elasticsearch.index_prefix", "coinpurse")
	v.SetDefault("elasticsearch.retention", 6)

	v.SetDefault("http.addr", ":9090")

	v.SetDefault("spam.pool", 100_000)
	v.SetDefault("spam.window", "30s")
	v.SetDefault("spam.channel_id", "")

	v.SetDefault("history.max_rounds_per_player", 500)
}

// Validate checks the struct tags
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
