package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.CacheBackend != "memory" {
		t.Errorf("CacheBackend = %q, want memory", cfg.CacheBackend)
	}
	if cfg.CacheTTLMinutes != 5 {
		t.Errorf("CacheTTLMinutes = %d, want 5", cfg.CacheTTLMinutes)
	}
	if cfg.CleanupIntervalMinutes != 5 {
		t.Errorf("CleanupIntervalMinutes = %d, want 5", cfg.CleanupIntervalMinutes)
	}
	if cfg.ProbeTimeoutMs != 5000 {
		t.Errorf("ProbeTimeoutMs = %d, want 5000", cfg.ProbeTimeoutMs)
	}
	if cfg.MaxConcurrent != 5 {
		t.Errorf("MaxConcurrent = %d, want 5", cfg.MaxConcurrent)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PROBE_TIMEOUT_MS", "250")
	t.Setenv("MAX_CONCURRENT", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ProbeTimeoutMs != 250 {
		t.Errorf("ProbeTimeoutMs = %d, want 250", cfg.ProbeTimeoutMs)
	}
	if cfg.MaxConcurrent != 2 {
		t.Errorf("MaxConcurrent = %d, want 2", cfg.MaxConcurrent)
	}
}
