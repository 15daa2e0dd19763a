package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration values.
type Config struct {
	AppPort          string
	APIBaseURL       string
	RequestTimeout   time.Duration
	PhoneCountryCode string
	PageSize         int
	DatabaseURL      string
	IdentityBaseURL  string
	IdentityAPIKey   string
	RecaptchaToken   string
	Mock             MockConfig
}

// MockConfig configures the local mock of the laundry API.
type MockConfig struct {
	Port          string
	JWTSecret     string
	AccessTTL     time.Duration
	AdminPhone    string
	AdminPassword string
}

// Load reads environment variables and returns a populated Config.
func Load() *Config {
	_ = godotenv.Load()

	cfg := FromEnv()

	if cfg.AppPort == "" {
		log.Fatal("APP_PORT must be set")
	}

	if cfg.APIBaseURL == "" {
		log.Fatal("API_BASE_URL must be set")
	}

	return cfg
}

// FromEnv builds a Config from the current environment without loading .env
// or validating.
func FromEnv() *Config {
	return &Config{
		AppPort:          getEnv("APP_PORT", "8090"),
		APIBaseURL:       strings.TrimRight(getEnv("API_BASE_URL", "https://laundrypro-api.onrender.com"), "/"),
		RequestTimeout:   getEnvInt("REQUEST_TIMEOUT_SECONDS", 15) * time.Second,
		PhoneCountryCode: getEnv("PHONE_COUNTRY_CODE", "+84"),
		PageSize:         int(getEnvInt("PAGE_SIZE", 10)),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		IdentityBaseURL:  getEnv("IDENTITY_BASE_URL", "https://identitytoolkit.googleapis.com/v1"),
		IdentityAPIKey:   getEnv("IDENTITY_API_KEY", ""),
		RecaptchaToken:   getEnv("IDENTITY_RECAPTCHA_TOKEN", ""),
		Mock: MockConfig{
			Port:          getEnv("MOCK_API_PORT", "8081"),
			JWTSecret:     getEnv("MOCK_JWT_SECRET", "laundrypro-mock-dev-secret"),
			AccessTTL:     getEnvInt("MOCK_ACCESS_TTL_MINUTES", 15) * time.Minute,
			AdminPhone:    getEnv("MOCK_ADMIN_PHONE", "+84900000001"),
			AdminPassword: getEnv("MOCK_ADMIN_PASSWORD", "admin123"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvInt falls back on missing, malformed or non-positive values.
func getEnvInt(key string, fallback int) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && parsed > 0 {
			return time.Duration(parsed)
		}
	}
	return time.Duration(fallback)
}
