package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/goodsign/monday"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var ErrMissingAPIKey = errors.New("OPENWEATHER_API_KEY is required")

type Config struct {
	Server struct {
		Port         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
		LogLevel     string
	}

	WeatherAPI struct {
		OpenWeatherAPIKey string
		OpenWeatherURL    string
		Timeout           time.Duration
	}

	Screen struct {
		DefaultCity          string
		Locale               string
		Timezone             *time.Location
		DiscardStaleResponse bool
	}

	CircuitBreaker struct {
		Threshold int
		Timeout   time.Duration
	}

	Retry struct {
		MaxRetries int
		Delay      time.Duration
		Multiplier float64
	}
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		zap.L().Info("No .env file found, using environment variables")
	}

	cfg := &Config{}

	// Server configuration
	cfg.Server.Port = getEnv("FIBER_PORT", "8080")
	cfg.Server.ReadTimeout = parseDuration(getEnv("FIBER_READ_TIMEOUT", "10s"))
	cfg.Server.WriteTimeout = parseDuration(getEnv("FIBER_WRITE_TIMEOUT", "10s"))
	cfg.Server.LogLevel = getEnv("LOG_LEVEL", "info")

	// Weather API configuration
	cfg.WeatherAPI.OpenWeatherAPIKey = getEnv("OPENWEATHER_API_KEY", "")
	cfg.WeatherAPI.OpenWeatherURL = getEnv("OPENWEATHER_URL", "https://api.openweathermap.org/data/2.5")
	cfg.WeatherAPI.Timeout = parseDuration(getEnv("HTTP_TIMEOUT", "0s"))

	if cfg.WeatherAPI.OpenWeatherAPIKey == "" {
		return nil, ErrMissingAPIKey
	}

	// Screen configuration
	cfg.Screen.DefaultCity = getEnv("DEFAULT_CITY", "Baku")
	cfg.Screen.Locale = parseLocale(getEnv("LOCALE", "en_US"))
	cfg.Screen.Timezone = parseLocation(getEnv("TIMEZONE", ""))
	cfg.Screen.DiscardStaleResponse = parseBool(getEnv("DISCARD_STALE_RESPONSES", "true"))

	// The breaker is opt-in; zero keeps every query going upstream.
	cfg.CircuitBreaker.Threshold = parseInt(getEnv("CIRCUIT_BREAKER_THRESHOLD", "0"))
	cfg.CircuitBreaker.Timeout = parseDuration(getEnv("CIRCUIT_BREAKER_TIMEOUT", "30s"))

	// Retries stay off unless asked for; a failed query is logged and dropped.
	cfg.Retry.MaxRetries = parseInt(getEnv("MAX_RETRIES", "0"))
	cfg.Retry.Delay = parseDuration(getEnv("RETRY_DELAY", "1s"))
	cfg.Retry.Multiplier = parseFloat(getEnv("RETRY_MULTIPLIER", "2"))

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(value string) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		zap.L().Warn("Failed to parse duration", zap.String("value", value), zap.Error(err))
		return 0
	}
	return duration
}

func parseInt(value string) int {
	intValue, err := strconv.Atoi(value)
	if err != nil {
		zap.L().Warn("Failed to parse int", zap.String("value", value), zap.Error(err))
		return 0
	}
	return intValue
}

func parseFloat(value string) float64 {
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		zap.L().Warn("Failed to parse float", zap.String("value", value), zap.Error(err))
		return 0
	}
	return floatValue
}

func parseBool(value string) bool {
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		zap.L().Warn("Failed to parse bool", zap.String("value", value), zap.Error(err))
		return false
	}
	return boolValue
}

// parseLocation falls back to the process's local zone when the name is
// empty or unknown.
func parseLocation(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		zap.L().Warn("Failed to load timezone", zap.String("value", name), zap.Error(err))
		return time.Local
	}
	return loc
}

// parseLocale keeps the value either way; monday renders English names for
// locales it does not know.
func parseLocale(value string) string {
	for _, known := range monday.ListLocales() {
		if string(known) == value {
			return value
		}
	}
	zap.L().Warn("Unsupported locale, day and month names fall back to English", zap.String("value", value))
	return value
}
