package main

import (
	"os"
	"path/filepath"

	"github.com/fwojciec/docchat"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the secrets and endpoints read from the environment.
// Non-secret tuning lives in command-line flags.
type Config struct {
	GeminiAPIKey  string `envconfig:"GEMINI_API_KEY"`
	GeminiBaseURL string `envconfig:"GEMINI_BASE_URL"`

	WeaviateHost   string `envconfig:"WEAVIATE_HOST"`
	WeaviateAPIKey string `envconfig:"WEAVIATE_API_KEY"`

	DBPath string `envconfig:"DOCCHAT_DB"`
}

// LoadConfig reads the configuration from the environment. A .env file in
// the working directory is loaded first if present.
func LoadConfig() (*Config, error) {
	// Ignore errors, as env vars might be set in the shell.
	_ = godotenv.Load(".env")

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, docchat.Errorf(docchat.EINVALID, "read configuration: %v", err)
	}
	return &cfg, nil
}

// Validate checks that the variables needed by backend are set.
func (c *Config) Validate(backend string) error {
	if c.GeminiAPIKey == "" {
		return missing("GEMINI_API_KEY")
	}
	if backend == BackendWeaviate {
		if c.WeaviateAPIKey == "" {
			return missing("WEAVIATE_API_KEY")
		}
		if c.WeaviateHost == "" {
			return missing("WEAVIATE_HOST")
		}
	}
	return nil
}

func missing(name string) error {
	return docchat.Errorf(docchat.EINVALID, "missing required configuration: %s", name)
}

// DatabasePath resolves the SQLite file: the flag wins over DOCCHAT_DB,
// which wins over ~/.docchat/docchat.db.
func (c *Config) DatabasePath(flag string) string {
	if flag != "" {
		return flag
	}
	if c.DBPath != "" {
		return c.DBPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "docchat.db"
	}
	return filepath.Join(home, ".docchat", "docchat.db")
}
