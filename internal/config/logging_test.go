package config

import "testing"

func TestLoadLogDefaults(t *testing.T) {
	cfg, err := LoadLog()
	if err != nil {
		t.Fatalf("LoadLog() error = %v", err)
	}
	if cfg.Level != "info" {
		t.Fatalf("Level = %q, want info", cfg.Level)
	}
	if cfg.File != "" {
		t.Fatalf("File = %q, want stdout by default", cfg.File)
	}
	if cfg.FileMaxMB != 20 {
		t.Fatalf("FileMaxMB = %d, want 20", cfg.FileMaxMB)
	}
}

func TestLoadLogParse(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FILE", "/tmp/tablewatch.log")
	t.Setenv("LOG_FILE_MAX_MB", "5")
	t.Setenv("LOG_SAMPLE_EVERY", "10")

	cfg, err := LoadLog()
	if err != nil {
		t.Fatalf("LoadLog() error = %v", err)
	}
	if cfg.Level != "debug" || cfg.File != "/tmp/tablewatch.log" {
		t.Fatalf("unexpected log config: %+v", cfg)
	}
	if cfg.FileMaxMB != 5 || cfg.SampleEvery != 10 {
		t.Fatalf("unexpected log config: %+v", cfg)
	}
}
