// Package config loads gateway configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the gateway configuration. It is constructed once at
// startup and passed into components read-only; nothing mutates it after
// Load.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// WhatsApp Business Cloud API credentials.
	AccessToken       string
	PhoneNumberID     string
	VerifyToken       string
	AppSecret         string
	BusinessAccountID string
	APIVersion        string

	TemplateLanguage string
	FallbackMode     string

	DedupeTTL        time.Duration
	DedupeMaxEntries int

	SendMaxAttempts int
	SendBaseDelay   time.Duration

	RedisAddr     string
	RedisPassword string
}

// Load reads configuration from environment variables and fails fast when
// any required WhatsApp credential is absent.
func Load() (*Config, error) {
	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		AccessToken:       getEnv("WHATSAPP_ACCESS_TOKEN", ""),
		PhoneNumberID:     getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
		VerifyToken:       getEnv("WHATSAPP_VERIFY_TOKEN", ""),
		AppSecret:         getEnv("WHATSAPP_APP_SECRET", ""),
		BusinessAccountID: getEnv("WHATSAPP_BUSINESS_ACCOUNT_ID", ""),
		APIVersion:        getEnv("WHATSAPP_API_VERSION", "v22.0"),

		TemplateLanguage: getEnv("TEMPLATE_LANGUAGE", "en"),
		FallbackMode:     strings.ToLower(strings.TrimSpace(getEnv("IM_FALLBACK_MODE", "help"))),

		DedupeTTL:        getEnvAsDuration("IM_DEDUPE_TTL", 10*time.Minute),
		DedupeMaxEntries: getEnvAsInt("IM_DEDUPE_MAX_ENTRIES", 10000),

		SendMaxAttempts: getEnvAsInt("IM_SEND_MAX_ATTEMPTS", 3),
		SendBaseDelay:   getEnvAsDuration("IM_SEND_BASE_DELAY", 500*time.Millisecond),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"WHATSAPP_ACCESS_TOKEN", c.AccessToken},
		{"WHATSAPP_PHONE_NUMBER_ID", c.PhoneNumberID},
		{"WHATSAPP_VERIFY_TOKEN", c.VerifyToken},
		{"WHATSAPP_APP_SECRET", c.AppSecret},
		{"WHATSAPP_BUSINESS_ACCOUNT_ID", c.BusinessAccountID},
	}
	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: required settings missing: %s", strings.Join(missing, ", "))
	}
	switch c.FallbackMode {
	case "help", "echo", "silent":
	default:
		return fmt.Errorf("config: IM_FALLBACK_MODE must be help, echo or silent, got %q", c.FallbackMode)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(raw); err == nil {
		return value
	}
	return defaultValue
}
