package bootstrap

import (
	"testing"
)

var configKeys = []string{
	"SERVER_ADDR", "LOG_LEVEL", "VERSION",
	"DATABASE_DSN",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"TRACKING_FILE", "CART_FILE",
	"RATE_LIMIT", "RATE_WINDOW_SECONDS", "RATE_CAPACITY",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg := LoadConfig()

	if cfg.ServerAddr != ":8080" {
		t.Errorf("unexpected default server addr %q", cfg.ServerAddr)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("unexpected default log level %q", cfg.LogLevel)
	}
	if cfg.Version != "dev" {
		t.Errorf("unexpected default version %q", cfg.Version)
	}
	if cfg.RedisAddr != "localhost:6379" || cfg.RedisDB != 0 {
		t.Errorf("unexpected default redis settings %q/%d", cfg.RedisAddr, cfg.RedisDB)
	}
	if cfg.TrackingFilePath != "./data/tracking.json" {
		t.Errorf("unexpected default tracking file %q", cfg.TrackingFilePath)
	}
	if cfg.CartFilePath != "./data/carts.json" {
		t.Errorf("unexpected default cart file %q", cfg.CartFilePath)
	}
	if cfg.RateLimit != 30 || cfg.RateWindowSeconds != 60 || cfg.RateCapacity != 10000 {
		t.Errorf("unexpected default rate settings %d/%d/%d",
			cfg.RateLimit, cfg.RateWindowSeconds, cfg.RateCapacity)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("RATE_LIMIT", "5")
	t.Setenv("CART_FILE", "/tmp/carts.json")

	cfg := LoadConfig()

	if cfg.ServerAddr != ":9090" {
		t.Errorf("expected overridden server addr, got %q", cfg.ServerAddr)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected overridden log level, got %q", cfg.LogLevel)
	}
	if cfg.RedisDB != 3 {
		t.Errorf("expected redis db 3, got %d", cfg.RedisDB)
	}
	if cfg.RateLimit != 5 {
		t.Errorf("expected rate limit 5, got %d", cfg.RateLimit)
	}
	if cfg.CartFilePath != "/tmp/carts.json" {
		t.Errorf("expected overridden cart file, got %q", cfg.CartFilePath)
	}
}

func TestLoadConfig_BadIntFallsBack(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("RATE_LIMIT", "lots")
	t.Setenv("REDIS_DB", "3.5")

	cfg := LoadConfig()

	if cfg.RateLimit != 30 {
		t.Errorf("a non-numeric rate limit must fall back to the default, got %d", cfg.RateLimit)
	}
	if cfg.RedisDB != 0 {
		t.Errorf("a non-integer redis db must fall back to the default, got %d", cfg.RedisDB)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]string{
		"debug":   "DEBUG",
		"info":    "INFO",
		"warn":    "WARN",
		"error":   "ERROR",
		"unknown": "INFO",
		"":        "INFO",
	}
	for input, want := range cases {
		if got := parseLogLevel(input).String(); got != want {
			t.Errorf("parseLogLevel(%q) = %s, want %s", input, got, want)
		}
	}
}
