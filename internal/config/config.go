package config

import (
	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
type Config struct {
	ServerPort             string `mapstructure:"SERVER_PORT"`
	PostgresURL            string `mapstructure:"POSTGRES_URL"`
	CacheBackend           string `mapstructure:"CACHE_BACKEND"`
	RedisAddr              string `mapstructure:"REDIS_ADDR"`
	CacheTTLMinutes        int    `mapstructure:"CACHE_TTL_MINUTES"`
	CleanupIntervalMinutes int    `mapstructure:"CLEANUP_INTERVAL_MINUTES"`
	ProbeTimeoutMs         int    `mapstructure:"PROBE_TIMEOUT_MS"`
	MaxConcurrent          int    `mapstructure:"MAX_CONCURRENT"`
}

// Load reads configuration from file or environment variables.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// Attempt to read the .env file, but don't fail if it's not present
	// This allows configuration purely through environment variables in production
	_ = viper.ReadInConfig()

	// Set default values
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("POSTGRES_URL", "") // empty disables the outcome history store
	viper.SetDefault("CACHE_BACKEND", "memory")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("CACHE_TTL_MINUTES", 5)
	viper.SetDefault("CLEANUP_INTERVAL_MINUTES", 5)
	viper.SetDefault("PROBE_TIMEOUT_MS", 5000)
	viper.SetDefault("MAX_CONCURRENT", 5)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
