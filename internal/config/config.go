// Package config handles configuration loading and management for PostForge.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for PostForge.
type Config struct {
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Scraper   ScraperConfig   `mapstructure:"scraper"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	MaxTokens  int    `mapstructure:"max_tokens"`
	UseBedrock bool   `mapstructure:"use_bedrock"`
	AWSRegion  string `mapstructure:"aws_region"`
	AWSProfile string `mapstructure:"aws_profile"`
}

// OpenAIConfig holds OpenAI API settings, used for embeddings seeding.
type OpenAIConfig struct {
	APIKey         string `mapstructure:"api_key"`
	EmbeddingModel string `mapstructure:"embedding_model"`
}

// DatabaseConfig holds the Postgres connection settings for the identity
// store and brand embeddings.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// PipelineConfig holds generation pipeline settings.
type PipelineConfig struct {
	// StageTimeout bounds one stage including its validation retries.
	StageTimeout time.Duration `mapstructure:"stage_timeout"`
}

// ScraperConfig holds Apify scraper settings.
type ScraperConfig struct {
	APIToken          string `mapstructure:"api_token"`
	ActorID           string `mapstructure:"actor_id"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY, DATABASE_URL, OPENAI_API_KEY, APIFY_API_TOKEN)
// 2. Project config (.postforge.yaml in current directory or parent)
// 3. User config (~/.config/postforge/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Load user config from XDG path
	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Load project config if present
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			// Merge project config (takes precedence)
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	// Environment variable overrides
	v.AutomaticEnv()
	v.SetEnvPrefix("")

	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("openai.api_key", "OPENAI_API_KEY")
	v.BindEnv("database.url", "DATABASE_URL")
	v.BindEnv("scraper.api_token", "APIFY_API_TOKEN")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)
	cfg.OpenAI.APIKey = expandEnv(cfg.OpenAI.APIKey)
	cfg.Database.URL = expandEnv(cfg.Database.URL)
	cfg.Scraper.APIToken = expandEnv(cfg.Scraper.APIToken)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)
	cfg.OpenAI.APIKey = expandEnv(cfg.OpenAI.APIKey)
	cfg.Database.URL = expandEnv(cfg.Database.URL)
	cfg.Scraper.APIToken = expandEnv(cfg.Scraper.APIToken)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.model", cfg.Anthropic.Model)
	v.Set("anthropic.max_tokens", cfg.Anthropic.MaxTokens)
	v.Set("anthropic.use_bedrock", cfg.Anthropic.UseBedrock)
	v.Set("openai.api_key", cfg.OpenAI.APIKey)
	v.Set("openai.embedding_model", cfg.OpenAI.EmbeddingModel)
	v.Set("database.url", cfg.Database.URL)
	v.Set("server.addr", cfg.Server.Addr)
	v.Set("pipeline.stage_timeout", cfg.Pipeline.StageTimeout.String())
	v.Set("scraper.api_token", cfg.Scraper.APIToken)
	v.Set("scraper.actor_id", cfg.Scraper.ActorID)
	v.Set("scraper.requests_per_minute", cfg.Scraper.RequestsPerMinute)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("anthropic.use_bedrock", false)

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.embedding_model", "text-embedding-ada-002")

	v.SetDefault("database.url", "")

	v.SetDefault("server.addr", "127.0.0.1:8000")

	v.SetDefault("pipeline.stage_timeout", "90s")

	v.SetDefault("scraper.api_token", "")
	v.SetDefault("scraper.actor_id", "")
	v.SetDefault("scraper.requests_per_minute", 30)
}

// getUserConfigDir returns the XDG config directory for PostForge.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "postforge")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "postforge")
	}
	return filepath.Join(home, ".config", "postforge")
}

// findProjectConfig searches for .postforge.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".postforge.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Anthropic: AnthropicConfig{
			MaxTokens: 4096,
		},
		OpenAI: OpenAIConfig{
			EmbeddingModel: "text-embedding-ada-002",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8000",
		},
		Pipeline: PipelineConfig{
			StageTimeout: 90 * time.Second,
		},
		Scraper: ScraperConfig{
			RequestsPerMinute: 30,
		},
	}
}
