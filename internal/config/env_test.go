package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetEnvFallbacks(t *testing.T) {
	t.Setenv("BALLRUSH_TEST_STR", "value")
	t.Setenv("BALLRUSH_TEST_INT", "42")
	t.Setenv("BALLRUSH_TEST_BAD_INT", "forty-two")
	t.Setenv("BALLRUSH_TEST_DUR", "250ms")

	if got := GetEnv("BALLRUSH_TEST_STR", "x"); got != "value" {
		t.Errorf("GetEnv = %q", got)
	}
	if got := GetEnv("BALLRUSH_TEST_MISSING", "x"); got != "x" {
		t.Errorf("GetEnv fallback = %q", got)
	}
	if got := GetEnvInt("BALLRUSH_TEST_INT", 1); got != 42 {
		t.Errorf("GetEnvInt = %d", got)
	}
	if got := GetEnvInt("BALLRUSH_TEST_BAD_INT", 7); got != 7 {
		t.Errorf("GetEnvInt malformed fallback = %d", got)
	}
	if got := GetEnvDuration("BALLRUSH_TEST_DUR", time.Second); got != 250*time.Millisecond {
		t.Errorf("GetEnvDuration = %v", got)
	}
	if got := GetEnvDuration("BALLRUSH_TEST_MISSING", time.Second); got != time.Second {
		t.Errorf("GetEnvDuration fallback = %v", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing file should be tolerated: %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("BALLRUSH_DOTENV_KEY=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("BALLRUSH_DOTENV_KEY") })

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("BALLRUSH_DOTENV_KEY"); got != "from-file" {
		t.Fatalf("expected value from .env, got %q", got)
	}
}
