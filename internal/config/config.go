// Package config reads process configuration from the environment.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port             string        `mapstructure:"PORT"`
	DBDriver         string        `mapstructure:"DB_DRIVER"`
	DBPath           string        `mapstructure:"DB_PATH"`
	DatabaseURL      string        `mapstructure:"DATABASE_URL"`
	RedisAddr        string        `mapstructure:"REDIS_ADDR"`
	RedisPassword    string        `mapstructure:"REDIS_PASSWORD"`
	EstimateCacheTTL time.Duration `mapstructure:"ESTIMATE_CACHE_TTL"`
	ORSAPIKey        string        `mapstructure:"ORS_API_KEY"`
	HOSRulesPath     string        `mapstructure:"HOS_RULES_PATH"`
	WarmSchedule     string        `mapstructure:"WARM_SCHEDULE"`
	WarmLimit        int           `mapstructure:"WARM_LIMIT"`
	SeedPath         string        `mapstructure:"SEED_PATH"`
}

// Load reads the environment on top of the defaults below. Every key needs a
// default for AutomaticEnv to pick it up during Unmarshal.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_PATH", "data/app.db")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("ESTIMATE_CACHE_TTL", "24h")
	v.SetDefault("ORS_API_KEY", "")
	v.SetDefault("HOS_RULES_PATH", "")
	v.SetDefault("WARM_SCHEDULE", "@every 6h")
	v.SetDefault("WARM_LIMIT", 20)
	v.SetDefault("SEED_PATH", "data/seeds/locations.json")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.ORSAPIKey = strings.TrimSpace(cfg.ORSAPIKey)
	return cfg, nil
}

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	v := viper.New()
	v.AutomaticEnv()
	if s := strings.TrimSpace(v.GetString(key)); s != "" {
		return s
	}
	return fallback
}
