package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DOTENV_PATH", filepath.Join(t.TempDir(), "missing.env"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.DBPath != ":memory:" {
		t.Errorf("DBPath = %q, want :memory:", cfg.DBPath)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want INFO", cfg.LogLevel)
	}
	if cfg.TokenCost != 10 {
		t.Errorf("TokenCost = %d, want 10", cfg.TokenCost)
	}
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("HTTP_ADDR=:9999\nPUBLIC_URL=https://quiz.example\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DOTENV_PATH", path)
	t.Setenv("HTTP_ADDR", ":7000")
	t.Setenv("PUBLIC_URL", "")
	os.Unsetenv("PUBLIC_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":7000" {
		t.Errorf("HTTPAddr = %q, want the real environment value :7000", cfg.HTTPAddr)
	}
	if cfg.PublicURL != "https://quiz.example" {
		t.Errorf("PublicURL = %q, want value from dotenv", cfg.PublicURL)
	}
}

func TestLoadRejectsTokenCost(t *testing.T) {
	t.Setenv("DOTENV_PATH", "")
	t.Setenv("TOKEN_COST", "2")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for TOKEN_COST=2")
	}
}
