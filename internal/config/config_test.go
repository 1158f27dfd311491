package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_URL", "CACHE_TTL", "BRIDGE_ALLOWED_ORIGINS", "AUTO_OPEN_MAX_ATTEMPTS", "BASE_URL", "APP_ENV"} {
		t.Setenv(key, "")
	}
	t.Setenv("PORT", "9090")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %q", cfg.Port)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("expected default cache TTL, got %v", cfg.CacheTTL)
	}
	if cfg.AutoOpenMaxAttempts != 150 {
		t.Errorf("expected default max attempts, got %d", cfg.AutoOpenMaxAttempts)
	}
	if len(cfg.BridgeOrigins) != 0 {
		t.Errorf("expected no bridge origins for empty value, got %v", cfg.BridgeOrigins)
	}
	if cfg.Production() {
		t.Error("expected non-production app env")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("BRIDGE_ALLOWED_ORIGINS", " null , https://jane.example ,")
	t.Setenv("AUTO_OPEN_MAX_ATTEMPTS", "10")
	t.Setenv("BASE_URL", "https://links.example/")
	t.Setenv("APP_ENV", "production")

	cfg := Load()
	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("expected 30s, got %v", cfg.CacheTTL)
	}
	if len(cfg.BridgeOrigins) != 2 || cfg.BridgeOrigins[0] != "null" || cfg.BridgeOrigins[1] != "https://jane.example" {
		t.Errorf("unexpected bridge origins %v", cfg.BridgeOrigins)
	}
	if cfg.AutoOpenMaxAttempts != 10 {
		t.Errorf("expected 10, got %d", cfg.AutoOpenMaxAttempts)
	}
	if cfg.BaseURL != "https://links.example" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.BaseURL)
	}
	if !cfg.Production() {
		t.Error("expected production app env")
	}
}

func TestSplitList(t *testing.T) {
	got := splitList("a,,b , c")
	if len(got) != 3 || got[2] != "c" {
		t.Errorf("unexpected split %v", got)
	}
}

func TestHostOrigin(t *testing.T) {
	tests := []struct {
		baseURL string
		want    string
	}{
		{"https://links.example", "https://links.example"},
		{"https://links.example/sub/path", "https://links.example"},
		{"http://localhost:8080", "http://localhost:8080"},
		{"", ""},
		{"links.example", ""},
	}
	for _, tt := range tests {
		cfg := &Config{BaseURL: tt.baseURL}
		if got := cfg.HostOrigin(); got != tt.want {
			t.Errorf("HostOrigin(%q) = %q, want %q", tt.baseURL, got, tt.want)
		}
	}
}
