package internal

import (
	"path/filepath"
	"testing"

	"github.com/egazette/gazette-chat/testutil"
)

func TestLoadConfig_Defaults(t *testing.T) {
	dir := testutil.CreateTempDir(t)

	cfg, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() with missing file error = %v", err)
	}
	if cfg.Provider != ProviderBackend {
		t.Errorf("default provider = %q, want %q", cfg.Provider, ProviderBackend)
	}
	if cfg.DatabasePath == "" || cfg.BackendURL == "" {
		t.Errorf("defaults incomplete: %+v", cfg)
	}
}

func TestLoadConfig_File(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := testutil.WriteFile(t, dir, "config.yaml", []byte(
		"database_path: /tmp/custom.db\nbackend_url: https://gazette.example.com\nprovider: backend\n"))

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.DatabasePath != "/tmp/custom.db" {
		t.Errorf("database_path = %q", cfg.DatabasePath)
	}
	if cfg.BackendURL != "https://gazette.example.com" {
		t.Errorf("backend_url = %q", cfg.BackendURL)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := testutil.WriteFile(t, dir, "config.yaml", []byte("backend_url: https://file.example.com\n"))

	t.Setenv("GAZETTE_BACKEND_URL", "https://env.example.com")
	t.Setenv("GAZETTE_CHAT_PROVIDER", ProviderGemini)
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.BackendURL != "https://env.example.com" {
		t.Errorf("env override lost, backend_url = %q", cfg.BackendURL)
	}
	if cfg.Provider != ProviderGemini || cfg.GeminiAPIKey != "test-key" {
		t.Errorf("env overrides incomplete: %+v", cfg)
	}
}

func TestLoadConfig_BadProvider(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := testutil.WriteFile(t, dir, "config.yaml", []byte("provider: carrier-pigeon\n"))

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() should reject unknown providers")
	}
}

func TestLoadConfig_CorruptFile(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := testutil.WriteFile(t, dir, "config.yaml", []byte("\t:::not yaml"))

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() should fail on malformed YAML")
	}
}
