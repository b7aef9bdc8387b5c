package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Provider names for the AI-chat collaborator.
const (
	ProviderBackend = "backend"
	ProviderGemini  = "gemini"
)

// Config holds the tool's settings, read from an optional YAML file with
// environment overrides on top.
type Config struct {
	DatabasePath string `yaml:"database_path"`
	BackendURL   string `yaml:"backend_url"`
	Provider     string `yaml:"provider"` // "backend" or "gemini"
	GeminiAPIKey string `yaml:"gemini_api_key"`
	LogFile      string `yaml:"log_file"`
}

// DefaultConfigPath returns the default config file location.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gazette-chat.yaml"
	}
	return filepath.Join(home, ".gazette-chat.yaml")
}

func defaultConfig() *Config {
	dataDir := ".gazette-chat"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".gazette-chat")
	}
	return &Config{
		DatabasePath: filepath.Join(dataDir, "chat.db"),
		BackendURL:   "http://localhost:8080",
		Provider:     ProviderBackend,
		LogFile:      filepath.Join(dataDir, "gazette-chat.log"),
	}
}

// LoadConfig reads the config file at path (missing file is fine) and applies
// environment overrides. A .env file in the working directory is honored.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load() // .env is optional

	cfg := defaultConfig()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.DatabasePath = getEnv("GAZETTE_CHAT_DB", cfg.DatabasePath)
	cfg.BackendURL = getEnv("GAZETTE_BACKEND_URL", cfg.BackendURL)
	cfg.Provider = getEnv("GAZETTE_CHAT_PROVIDER", cfg.Provider)
	cfg.GeminiAPIKey = getEnv("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.LogFile = getEnv("GAZETTE_CHAT_LOG", cfg.LogFile)

	if cfg.Provider != ProviderBackend && cfg.Provider != ProviderGemini {
		return nil, fmt.Errorf("unknown provider %q (supported: %s, %s)", cfg.Provider, ProviderBackend, ProviderGemini)
	}

	return cfg, nil
}

// EnsureDataDir creates the directory holding the database and log files.
func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(filepath.Dir(c.DatabasePath), 0755); err != nil {
		return err
	}
	if c.LogFile != "" {
		return os.MkdirAll(filepath.Dir(c.LogFile), 0755)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
