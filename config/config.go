package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
)

// Config captures application settings loaded from the environment.
type Config struct {
	HTTPPort  string
	JWTSecret string

	DB    DBConfig
	Redis RedisConfig
	Price PriceConfig

	RevalueInterval time.Duration
}

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	TimeZone string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PriceConfig struct {
	AlphaVantageKey string
	BaseURL         string
	CacheTTL        time.Duration
	QuoteTimeout    time.Duration
	RequestsPerSec  int
}

// Load parses environment variables into Config, reading .env first so
// the server can boot from a checked-out workspace without exported vars.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:  getEnv("PORT", "8080"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "127.0.0.1"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			Port:     getEnv("DB_PORT", "5432"),
			TimeZone: getEnv("DB_TIMEZONE", "Asia/Kolkata"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
		},
		Price: PriceConfig{
			AlphaVantageKey: os.Getenv("ALPHA_VANTAGE_API_KEY"),
			BaseURL:         getEnv("ALPHA_VANTAGE_URL", "https://www.alphavantage.co"),
			CacheTTL:        getDuration("PRICE_CACHE_TTL", 5*time.Minute),
			QuoteTimeout:    getDuration("PRICE_QUOTE_TIMEOUT", 8*time.Second),
			RequestsPerSec:  getInt("PRICE_REQUESTS_PER_SEC", 5),
		},
		RevalueInterval: getDuration("REVALUE_INTERVAL", 5*time.Minute),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.Price.QuoteTimeout <= 0 {
		return nil, errors.New("PRICE_QUOTE_TIMEOUT must be positive")
	}
	return cfg, nil
}

// DSN renders the Postgres connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.TimeZone)
}

// NewRedis connects the Redis client and verifies it with a ping.
func NewRedis(cfg RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(rdb.Context()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}
