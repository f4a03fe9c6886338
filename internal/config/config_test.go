package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DefaultLanguage != "kn-IN" {
		t.Errorf("Expected default language kn-IN, got %q", cfg.DefaultLanguage)
	}
	if cfg.DefaultVoice != "kn-IN-Chirp3-HD-Achernar" {
		t.Errorf("Unexpected default voice %q", cfg.DefaultVoice)
	}
	if cfg.SpeakingRate != 0.85 {
		t.Errorf("Expected speaking rate 0.85, got %f", cfg.SpeakingRate)
	}
	if cfg.Pitch != 0 {
		t.Errorf("Expected pitch 0, got %f", cfg.Pitch)
	}
	if cfg.FileExtension != ".mp3" {
		t.Errorf("Expected .mp3 extension, got %q", cfg.FileExtension)
	}
	if cfg.EvictionMaxAge != 720*time.Hour {
		t.Errorf("Expected 30 day eviction age, got %v", cfg.EvictionMaxAge)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TTS_DEFAULT_LANGUAGE", "en-IN")
	t.Setenv("TTS_UPSTREAM_TIMEOUT", "30s")
	t.Setenv("EVICTION_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DefaultLanguage != "en-IN" {
		t.Errorf("Expected overridden language en-IN, got %q", cfg.DefaultLanguage)
	}
	if cfg.UpstreamTimeout != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %v", cfg.UpstreamTimeout)
	}
	if cfg.EvictionEnabled {
		t.Error("Expected eviction disabled")
	}
}

func TestValidateForServe(t *testing.T) {
	cfg := &Config{}
	if err := cfg.ValidateForServe(); err == nil {
		t.Error("Expected error without API key")
	}

	cfg.TTSAPIKey = "key"
	if err := cfg.ValidateForServe(); err == nil {
		t.Error("Expected error without JWT secret")
	}

	cfg.JWTSecret = "secret"
	if err := cfg.ValidateForServe(); err != nil {
		t.Errorf("Unexpected validation error: %v", err)
	}
}
