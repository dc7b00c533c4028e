package main

import (
	"context"
	"testing"
	"time"
)

// TestGetConfigPath_Default verifies the default path is used when the
// environment variable is unset.
func TestGetConfigPath_Default(t *testing.T) {
	t.Setenv("SENTINEL_CONFIG", "")

	if got := getConfigPath(); got != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", got, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies SENTINEL_CONFIG takes precedence.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	t.Setenv("SENTINEL_CONFIG", "/etc/sentinel/custom.yaml")

	if got := getConfigPath(); got != "/etc/sentinel/custom.yaml" {
		t.Errorf("getConfigPath() = %q, want /etc/sentinel/custom.yaml", got)
	}
}

// TestRun_InvalidConfig verifies run fails with an invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("SENTINEL_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}
