package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Environment          string
	Port                 int
	DatabaseDbPath       string
	DatabaseCacheAddress string
	DatabaseCachePort    int
	SessionSecret        string
	SessionTTLHours      int
}

func InitConfig() (Config, error) {
	v := viper.New()

	v.SetEnvPrefix("RISKCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("PORT", 8080)
	v.SetDefault("DATABASE_DB_PATH", "data/riskcheck.db")
	v.SetDefault("DATABASE_CACHE_ADDRESS", "localhost")
	v.SetDefault("DATABASE_CACHE_PORT", 6379)
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("SESSION_TTL_HOURS", 24)

	config := Config{
		Environment:          v.GetString("ENVIRONMENT"),
		Port:                 v.GetInt("PORT"),
		DatabaseDbPath:       v.GetString("DATABASE_DB_PATH"),
		DatabaseCacheAddress: v.GetString("DATABASE_CACHE_ADDRESS"),
		DatabaseCachePort:    v.GetInt("DATABASE_CACHE_PORT"),
		SessionSecret:        v.GetString("SESSION_SECRET"),
		SessionTTLHours:      v.GetInt("SESSION_TTL_HOURS"),
	}

	return config, nil
}
