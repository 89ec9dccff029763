package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // For token and cache durations

	"github.com/joho/godotenv" // For loading .env files
)

// Default values used when the matching environment variable is unset
const (
	DefaultAppPort         = "8000"
	DefaultDBDriver        = "mysql"
	DefaultDBPath          = "pizza_delivery.db"
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
	DefaultCacheTTL        = 60 * time.Second
	DefaultLogLevel        = "info"
)

// Config holds the application configuration
type Config struct {
	AppPort         string        // Application port
	DBDriver        string        // Database driver: mysql or sqlite
	DBUser          string        // Database user
	DBPassword      string        // Database password
	DBHost          string        // Database host
	DBPort          string        // Database port
	DBName          string        // Database name
	DBPath          string        // SQLite database file
	JWTSecret       string        // JWT secret key
	AccessTokenTTL  time.Duration // Access token lifetime
	RefreshTokenTTL time.Duration // Refresh token lifetime
	RedisAddr       string        // Redis server address, empty disables caching
	RedisPass       string        // Redis password
	RedisDB         int           // Redis database number
	CacheTTL        time.Duration // Lifetime of cached order lists
	IsProd          bool          // Is production environment
	LogLevel        string        // Logrus level name
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:         getEnv("APP_PORT", DefaultAppPort),                            // Application port
		DBDriver:        getEnv("DB_DRIVER", DefaultDBDriver),                          // Database driver
		DBUser:          os.Getenv("DB_USER"),                                          // Database user
		DBPassword:      os.Getenv("DB_PASSWORD"),                                      // Database password
		DBHost:          os.Getenv("DB_HOST"),                                          // Database host
		DBPort:          os.Getenv("DB_PORT"),                                          // Database port
		DBName:          os.Getenv("DB_NAME"),                                          // Database name
		DBPath:          getEnv("DB_PATH", DefaultDBPath),                              // SQLite file
		JWTSecret:       os.Getenv("JWT_SECRET"),                                       // JWT secret key
		AccessTokenTTL:  getDuration("ACCESS_TOKEN_TTL", DefaultAccessTokenTTL),        // Access token lifetime
		RefreshTokenTTL: getDuration("REFRESH_TOKEN_TTL", DefaultRefreshTokenTTL),      // Refresh token lifetime
		RedisAddr:       os.Getenv("REDIS_ADDR"),                                       // Redis server address
		RedisPass:       os.Getenv("REDIS_PASS"),                                       // Redis password
		RedisDB:         redisDB,                                                       // Redis database number
		CacheTTL:        getDuration("CACHE_TTL", DefaultCacheTTL),                     // Cache lifetime
		IsProd:          os.Getenv("IS_PROD") == "true",                                // Is production environment
		LogLevel:        getEnv("LOG_LEVEL", DefaultLogLevel),                          // Log level
	}
}

// DSN builds the MySQL data source name from the connection settings
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

// getEnv returns the variable's value or fallback when it is empty
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getDuration parses a Go duration, falling back on empty or malformed input
func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
