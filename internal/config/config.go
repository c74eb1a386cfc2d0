package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	Env         string
	ServerPort  string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	JWTSecret   string
	JWTExpiry   time.Duration
	SwaggerHost string

	// UserCacheTTL bounds how long the guard trusts a cached user. Zero disables the cache.
	UserCacheTTL time.Duration
}

// Load reads an optional .env file and builds Config from environment with sensible defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: loading .env: %v", err)
	}
	return FromEnv()
}

// FromEnv builds Config from the current process environment only.
func FromEnv() *Config {
	return &Config{
		Env:         getEnv("APP_ENV", "dev"),
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		MySQLDSN:    getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/auth?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		RedisPass:   os.Getenv("REDIS_PASSWORD"),
		JWTSecret:   getEnv("JWT_SECRET", "change-me"),
		JWTExpiry:   getEnvDuration("JWT_EXPIRY", 2*time.Hour),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),

		UserCacheTTL: getEnvTTL("USER_CACHE_TTL", time.Minute),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}

// getEnvTTL is getEnvDuration that also accepts zero.
func getEnvTTL(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return def
}
