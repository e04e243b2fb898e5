package config

import (
	"testing"
	"time"
)

func TestLoadClientDefaults(t *testing.T) {
	cfg, err := LoadClient()
	if err != nil {
		t.Fatalf("LoadClient() error = %v", err)
	}
	if cfg.BaseURL != "http://localhost:8080/api" {
		t.Fatalf("BaseURL = %q, want http://localhost:8080/api", cfg.BaseURL)
	}
	if cfg.DevUserID != 1 {
		t.Fatalf("DevUserID = %d, want 1", cfg.DevUserID)
	}
	if cfg.PollInterval() != 2*time.Second {
		t.Fatalf("PollInterval() = %v, want 2s", cfg.PollInterval())
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Fatalf("RequestTimeout = %v, want 10s", cfg.RequestTimeout)
	}
}

func TestLoadClientParseTypes(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://poker.example.com/api")
	t.Setenv("DEV_USER_ID", "42")
	t.Setenv("POLL_INTERVAL_MS", "1500")
	t.Setenv("REQUEST_TIMEOUT", "3s")

	cfg, err := LoadClient()
	if err != nil {
		t.Fatalf("LoadClient() error = %v", err)
	}
	if cfg.BaseURL != "https://poker.example.com/api" {
		t.Fatalf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.DevUserID != 42 {
		t.Fatalf("DevUserID = %d, want 42", cfg.DevUserID)
	}
	if cfg.PollInterval() != 1500*time.Millisecond {
		t.Fatalf("PollInterval() = %v, want 1.5s", cfg.PollInterval())
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("RequestTimeout = %v, want 3s", cfg.RequestTimeout)
	}
}

func TestPollIntervalClampsTinyValues(t *testing.T) {
	cfg := ClientConfig{PollIntervalMS: 10}
	if cfg.PollInterval() != 250*time.Millisecond {
		t.Fatalf("PollInterval() = %v, want 250ms", cfg.PollInterval())
	}
}
