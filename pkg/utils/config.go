package utils

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Draft    DraftConfig
	Booking  BookingConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// RedisConfig selects the ephemeral store backend; an empty Addr means the
// in-memory store is used.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

type DraftConfig struct {
	DefaultTTL time.Duration
	SaveTTL    time.Duration
	ReapEvery  time.Duration
}

type BookingConfig struct {
	// AllowFailedRetry adds the failed -> pending edge to the status
	// transition table.
	AllowFailedRetry bool
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_POOL_SIZE", 10)
	viper.SetDefault("DRAFT_DEFAULT_TTL_MINUTES", 60)
	viper.SetDefault("DRAFT_SAVE_TTL_HOURS", 24)
	viper.SetDefault("DRAFT_REAP_MINUTES", 10)
	viper.SetDefault("BOOKING_ALLOW_FAILED_RETRY", false)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASS"),
			DB:       viper.GetInt("REDIS_DB"),
			PoolSize: viper.GetInt("REDIS_POOL_SIZE"),
		},
		Draft: DraftConfig{
			DefaultTTL: time.Duration(viper.GetInt("DRAFT_DEFAULT_TTL_MINUTES")) * time.Minute,
			SaveTTL:    time.Duration(viper.GetInt("DRAFT_SAVE_TTL_HOURS")) * time.Hour,
			ReapEvery:  time.Duration(viper.GetInt("DRAFT_REAP_MINUTES")) * time.Minute,
		},
		Booking: BookingConfig{
			AllowFailedRetry: viper.GetBool("BOOKING_ALLOW_FAILED_RETRY"),
		},
	}

	return config, nil
}
