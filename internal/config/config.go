package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                 string
	DatabaseURL          string
	RedisURL             string
	CacheTTL             time.Duration
	LogLevel             string
	AppEnv               string
	BaseURL              string
	TrackSecret          string
	BridgeOrigins        []string
	WidgetStylesheetURL  string
	WidgetScriptURL      string
	AutoOpenMaxAttempts  int
	AdminSessionDuration time.Duration
}

func Load() *Config {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	return &Config{
		Port:                 getEnv("PORT", "8080"),
		DatabaseURL:          getEnv("DATABASE_URL", "file:linkflow.db"),
		RedisURL:             getEnv("REDIS_URL", ""),
		CacheTTL:             getDuration("CACHE_TTL", 5*time.Minute),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		AppEnv:               getEnv("APP_ENV", "local"),
		BaseURL:              strings.TrimSuffix(getEnv("BASE_URL", "http://localhost:8080"), "/"),
		TrackSecret:          getEnv("TRACK_SECRET", ""),
		BridgeOrigins:        splitList(getEnv("BRIDGE_ALLOWED_ORIGINS", "null")),
		WidgetStylesheetURL:  getEnv("WIDGET_STYLESHEET_URL", "https://cdn.botpress.cloud/webchat/v2.2/inject.css"),
		WidgetScriptURL:      getEnv("WIDGET_SCRIPT_URL", "https://cdn.botpress.cloud/webchat/v2.2/inject.js"),
		AutoOpenMaxAttempts:  getInt("AUTO_OPEN_MAX_ATTEMPTS", 150),
		AdminSessionDuration: getDuration("ADMIN_SESSION_DURATION", 24*time.Hour),
	}
}

// Production reports whether cookies should be marked Secure.
func (c *Config) Production() bool {
	return c.AppEnv == "production"
}

// HostOrigin is the scheme and host of BaseURL, the only window the
// sandboxed frame posts bridge messages to. Empty when BaseURL is not an
// absolute URL.
func (c *Config) HostOrigin() string {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(getEnv(key, "")); err == nil && d > 0 {
		return d
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if n, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return n
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
