package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Chunking ChunkingConfig `toml:"chunking"`
	LLM      LLMConfig      `toml:"llm"`
	Storage  StorageConfig  `toml:"storage"`
	Observer ObserverConfig `toml:"observer"`
}

type ChunkingConfig struct {
	Strategy   string `toml:"strategy"` // "hierarchical" or "flat"
	ParentSize int    `toml:"parent_size"`
	ChildSize  int    `toml:"child_size"`
	Overlap    int    `toml:"overlap"`
	FlatSize   int    `toml:"flat_size"`
}

type LLMConfig struct {
	Provider    string  `toml:"provider"`
	Model       string  `toml:"model"`
	APIKey      string  `toml:"api_key"`
	BaseURL     string  `toml:"base_url"`
	Language    string  `toml:"language"`
	FailMode    string  `toml:"fail_mode"` // "strict" or "degraded"
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float64 `toml:"temperature"`

	// Retry and rate limiting for the enrichment calls.
	MaxAttempts int `toml:"max_attempts"`
	RPM         int `toml:"rpm"`
	TPM         int `toml:"tpm"`
}

type StorageConfig struct {
	Backend string `toml:"backend"` // "fs", "sqlite", or "postgres"
	Root    string `toml:"root"`    // fs: root directory
	Path    string `toml:"path"`    // sqlite: database file
	DSN     string `toml:"dsn"`     // postgres: connection string
}

type ObserverConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Chunking: ChunkingConfig{
			Strategy:   "hierarchical",
			ParentSize: 1024,
			ChildSize:  512,
			Overlap:    30,
			FlatSize:   100,
		},
		LLM: LLMConfig{
			Provider:    "anthropic",
			Model:       "claude-3-5-haiku-latest",
			Language:    "Korean",
			FailMode:    "strict",
			MaxTokens:   1000,
			Temperature: 0.7,
			MaxAttempts: 3,
		},
		Storage: StorageConfig{
			Backend: "fs",
			Root:    "data",
			Path:    "passage.db",
		},
	}
}

// Load reads config: defaults -> TOML file -> env vars (env wins).
func Load(path string) Config {
	cfg := Default()

	if path == "" {
		path = "passage.toml"
	}

	if data, err := os.ReadFile(path); err == nil {
		_ = toml.Unmarshal(data, &cfg)
	}

	// Env overrides
	if v := os.Getenv("PASSAGE_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("PASSAGE_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("PASSAGE_LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("PASSAGE_LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("PASSAGE_LANGUAGE"); v != "" {
		cfg.LLM.Language = v
	}
	if v := os.Getenv("PASSAGE_FAIL_MODE"); v != "" {
		cfg.LLM.FailMode = v
	}
	if v := os.Getenv("PASSAGE_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("PASSAGE_STORAGE_ROOT"); v != "" {
		cfg.Storage.Root = v
	}
	if v := os.Getenv("PASSAGE_STORAGE_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("PASSAGE_PARENT_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Chunking.ParentSize = n
		}
	}
	if v := os.Getenv("PASSAGE_CHILD_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Chunking.ChildSize = n
		}
	}
	if v := os.Getenv("PASSAGE_OVERLAP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Chunking.Overlap = n
		}
	}
	if os.Getenv("PASSAGE_OBSERVER_ENABLED") == "true" || os.Getenv("PASSAGE_OBSERVER_ENABLED") == "1" {
		cfg.Observer.Enabled = true
	}

	return cfg
}
