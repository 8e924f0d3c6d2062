package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	App      AppConfig    `mapstructure:"app"`
	Corpus   CorpusConfig `mapstructure:"corpus"`
	Cache    CacheConfig  `mapstructure:"cache"`
	Match    MatchConfig  `mapstructure:"match"`
	Scale    ScaleConfig  `mapstructure:"scale"`
	LogLevel string       `mapstructure:"log_level"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// CorpusConfig locates the recipe dataset.
type CorpusConfig struct {
	Path string `mapstructure:"path"`
}

// CacheConfig controls the result cache.
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxEntries      int           `mapstructure:"max_entries"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// MatchConfig controls the matcher.
type MatchConfig struct {
	TopK int `mapstructure:"top_k"`
}

// ScaleConfig controls serving-size scaling.
type ScaleConfig struct {
	FractionTolerance float64 `mapstructure:"fraction_tolerance"`
}

// LoadConfig loads configuration from .env, environment and defaults.
func LoadConfig() (*Config, error) {
	// .env is optional outside development.
	_ = godotenv.Load()

	setDefaults()

	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.BindEnv("corpus.path", "CORPUS_PATH")
	viper.BindEnv("cache.enabled", "CACHE_ENABLED")
	viper.BindEnv("cache.max_entries", "CACHE_MAX_ENTRIES")
	viper.BindEnv("cache.ttl", "CACHE_TTL")
	viper.BindEnv("match.top_k", "MATCH_TOP_K")
	viper.BindEnv("scale.fraction_tolerance", "SCALE_FRACTION_TOLERANCE")
	viper.BindEnv("log_level", "LOG_LEVEL")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Default returns the built-in configuration without touching the
// environment. Tests use it to get a valid baseline.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Env:     "development",
			Debug:   true,
			Version: "1.0.0",
			Name:    "recipe-recommender",
		},
		Corpus: CorpusConfig{
			Path: "dataset/recipes.json",
		},
		Cache: CacheConfig{
			Enabled:         true,
			MaxEntries:      1000,
			TTL:             time.Hour,
			CleanupInterval: 10 * time.Minute,
		},
		Match: MatchConfig{
			TopK: 20,
		},
		Scale: ScaleConfig{
			FractionTolerance: 0.02,
		},
		LogLevel: "info",
	}
}

func setDefaults() {
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "recipe-recommender")

	viper.SetDefault("corpus.path", "dataset/recipes.json")

	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.max_entries", 1000)
	viper.SetDefault("cache.ttl", "1h")
	viper.SetDefault("cache.cleanup_interval", "10m")

	viper.SetDefault("match.top_k", 20)

	viper.SetDefault("scale.fraction_tolerance", 0.02)

	viper.SetDefault("log_level", "info")
}

func validateConfig(config *Config) error {
	if config.Corpus.Path == "" {
		return fmt.Errorf("corpus path is required")
	}

	if config.Cache.Enabled {
		if config.Cache.MaxEntries <= 0 {
			return fmt.Errorf("invalid cache max entries")
		}
		// TTL 0 disables time-based expiry but keeps capacity eviction.
		if config.Cache.TTL < 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	if config.Match.TopK <= 0 {
		return fmt.Errorf("invalid match top_k")
	}

	if config.Scale.FractionTolerance <= 0 || config.Scale.FractionTolerance >= 0.5 {
		return fmt.Errorf("invalid fraction tolerance")
	}

	return nil
}
