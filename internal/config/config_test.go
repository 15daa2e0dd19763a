package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	unsetEnv(t, "APP_PORT", "API_BASE_URL", "REQUEST_TIMEOUT_SECONDS", "PAGE_SIZE",
		"PHONE_COUNTRY_CODE", "DATABASE_URL", "MOCK_ACCESS_TTL_MINUTES", "MOCK_ADMIN_PHONE")

	cfg := FromEnv()
	assert.Equal(t, "8090", cfg.AppPort)
	assert.Equal(t, "https://laundrypro-api.onrender.com", cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, "+84", cfg.PhoneCountryCode)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, 15*time.Minute, cfg.Mock.AccessTTL)
	assert.Equal(t, "+84900000001", cfg.Mock.AdminPhone)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("API_BASE_URL", "http://localhost:8081/")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "3")
	t.Setenv("PAGE_SIZE", "25")
	t.Setenv("MOCK_ACCESS_TTL_MINUTES", "abc")
	unsetEnv(t, "PHONE_COUNTRY_CODE")

	cfg := FromEnv()
	assert.Equal(t, "9000", cfg.AppPort)
	assert.Equal(t, "http://localhost:8081", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, 15*time.Minute, cfg.Mock.AccessTTL)
	assert.Equal(t, "+84", cfg.PhoneCountryCode)
}
