package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Version is set at build time.
var Version = "dev"

// Config holds all application configuration.
type Config struct {
	Server          ServerConfig          `mapstructure:"server" yaml:"server"`
	Database        DatabaseConfig        `mapstructure:"database" yaml:"database"`
	Logging         LoggingConfig         `mapstructure:"logging" yaml:"logging"`
	TMDB            TMDBConfig            `mapstructure:"tmdb" yaml:"tmdb"`
	Cache           CacheConfig           `mapstructure:"cache" yaml:"cache"`
	Artwork         ArtworkConfig         `mapstructure:"artwork" yaml:"artwork"`
	Recommendations RecommendationsConfig `mapstructure:"recommendations" yaml:"recommendations"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	Path       string `mapstructure:"path" yaml:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// TMDBConfig holds TMDb API configuration.
type TMDBConfig struct {
	APIKey       string `mapstructure:"api_key" yaml:"api_key"`
	BaseURL      string `mapstructure:"base_url" yaml:"base_url"`
	ImageBaseURL string `mapstructure:"image_base_url" yaml:"image_base_url"`
	Language     string `mapstructure:"language" yaml:"language"`
	IncludeAdult bool   `mapstructure:"include_adult" yaml:"include_adult"`
	Timeout      int    `mapstructure:"timeout" yaml:"timeout"` // seconds
}

// CacheConfig holds response cache configuration.
type CacheConfig struct {
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl"`
	MaxItems int           `mapstructure:"max_items" yaml:"max_items"`

	// ValkeyAddr switches the cache to a Valkey server when set.
	ValkeyAddr     string `mapstructure:"valkey_addr" yaml:"valkey_addr"`
	ValkeyPassword string `mapstructure:"valkey_password" yaml:"valkey_password"`
}

// ArtworkConfig holds local image storage configuration.
type ArtworkConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// RecommendationsConfig holds home-screen recommendation configuration.
type RecommendationsConfig struct {
	Enabled    bool          `mapstructure:"enabled" yaml:"enabled"`
	Category   string        `mapstructure:"category" yaml:"category"`
	Interval   time.Duration `mapstructure:"interval" yaml:"interval"`
	Limit      int           `mapstructure:"limit" yaml:"limit"`
	WebhookURL string        `mapstructure:"webhook_url" yaml:"webhook_url"`

	// WebhookSecret signs webhook deliveries when set.
	WebhookSecret string `mapstructure:"webhook_secret" yaml:"webhook_secret"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8090,
		},
		Database: DatabaseConfig{
			Path: "./data/reeltv.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		TMDB: TMDBConfig{
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p",
			Language:     "en-US",
			Timeout:      30,
		},
		Cache: CacheConfig{
			TTL:      6 * time.Hour,
			MaxItems: 500,
		},
		Artwork: ArtworkConfig{
			Dir: "./data/artwork",
		},
		Recommendations: RecommendationsConfig{
			Enabled:  true,
			Category: "movie_popular",
			Interval: 30 * time.Minute,
			Limit:    5,
		},
	}
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > .env > config file > defaults
func Load(configPath string) (*Config, error) {
	// .env is optional; real environment variables win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.reeltv")
	}

	v.SetEnvPrefix("REELTV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.TMDB.APIKey == "" {
		cfg.TMDB.APIKey = EmbeddedTMDBKey
	}

	return cfg, nil
}

// WriteDefault writes the default configuration as YAML to path.
// An existing file is left untouched.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// setDefaults mirrors Default into viper so env-only keys unmarshal.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)

	v.SetDefault("database.path", d.Database.Path)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)
	v.SetDefault("logging.compress", true)

	v.SetDefault("tmdb.api_key", "")
	v.SetDefault("tmdb.base_url", d.TMDB.BaseURL)
	v.SetDefault("tmdb.image_base_url", d.TMDB.ImageBaseURL)
	v.SetDefault("tmdb.language", d.TMDB.Language)
	v.SetDefault("tmdb.include_adult", d.TMDB.IncludeAdult)
	v.SetDefault("tmdb.timeout", d.TMDB.Timeout)

	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.max_items", d.Cache.MaxItems)
	v.SetDefault("cache.valkey_addr", "")
	v.SetDefault("cache.valkey_password", "")

	v.SetDefault("artwork.dir", d.Artwork.Dir)

	v.SetDefault("recommendations.enabled", d.Recommendations.Enabled)
	v.SetDefault("recommendations.category", d.Recommendations.Category)
	v.SetDefault("recommendations.interval", d.Recommendations.Interval)
	v.SetDefault("recommendations.limit", d.Recommendations.Limit)
	v.SetDefault("recommendations.webhook_url", "")
	v.SetDefault("recommendations.webhook_secret", "")
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return net.JoinHostPort(c.Host, fmt.Sprintf("%d", c.Port))
}
