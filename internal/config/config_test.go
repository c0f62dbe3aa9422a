package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("WHATSAPP_ACCESS_TOKEN", "token")
	t.Setenv("WHATSAPP_PHONE_NUMBER_ID", "12345")
	t.Setenv("WHATSAPP_VERIFY_TOKEN", "verify")
	t.Setenv("WHATSAPP_APP_SECRET", "secret")
	t.Setenv("WHATSAPP_BUSINESS_ACCOUNT_ID", "67890")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.APIVersion != "v22.0" {
		t.Errorf("APIVersion = %q, want v22.0", cfg.APIVersion)
	}
	if cfg.FallbackMode != "help" {
		t.Errorf("FallbackMode = %q, want help", cfg.FallbackMode)
	}
	if cfg.DedupeTTL != 10*time.Minute {
		t.Errorf("DedupeTTL = %v, want 10m", cfg.DedupeTTL)
	}
	if cfg.SendMaxAttempts != 3 {
		t.Errorf("SendMaxAttempts = %d, want 3", cfg.SendMaxAttempts)
	}
}

func TestLoadFailsFastOnMissingCredentials(t *testing.T) {
	setRequired(t)
	t.Setenv("WHATSAPP_ACCESS_TOKEN", "")
	t.Setenv("WHATSAPP_APP_SECRET", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing credentials")
	}
	if !strings.Contains(err.Error(), "WHATSAPP_ACCESS_TOKEN") {
		t.Errorf("error should name WHATSAPP_ACCESS_TOKEN: %v", err)
	}
	if !strings.Contains(err.Error(), "WHATSAPP_APP_SECRET") {
		t.Errorf("error should name WHATSAPP_APP_SECRET: %v", err)
	}
}

func TestLoadRejectsUnknownFallbackMode(t *testing.T) {
	setRequired(t)
	t.Setenv("IM_FALLBACK_MODE", "shout")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown fallback mode")
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("IM_DEDUPE_TTL", "1h")
	t.Setenv("IM_SEND_MAX_ATTEMPTS", "5")
	t.Setenv("IM_FALLBACK_MODE", "silent")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DedupeTTL != time.Hour {
		t.Errorf("DedupeTTL = %v, want 1h", cfg.DedupeTTL)
	}
	if cfg.SendMaxAttempts != 5 {
		t.Errorf("SendMaxAttempts = %d, want 5", cfg.SendMaxAttempts)
	}
	if cfg.FallbackMode != "silent" {
		t.Errorf("FallbackMode = %q, want silent", cfg.FallbackMode)
	}
}
