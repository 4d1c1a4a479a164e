package config

import (
	"errors"
	"os"
	"strings"
)

// Credential errors, one per external service.
var (
	ErrNoAPIKey       = errors.New("no Anthropic API key configured")
	ErrNoOpenAIKey    = errors.New("no OpenAI API key configured")
	ErrNoScraperToken = errors.New("no Apify API token configured")
)

// resolveKey prefers the environment variable, then the config value with
// ${VAR} references expanded. Unresolved references count as unset.
func resolveKey(envVar, configValue string) string {
	if key := os.Getenv(envVar); key != "" {
		return key
	}
	key := os.ExpandEnv(configValue)
	if key == "" || strings.HasPrefix(key, "${") {
		return ""
	}
	return key
}

// GetAPIKey returns the Anthropic API key. Not required when Bedrock is the
// transport; AWS credentials are resolved by the SDK instead.
func GetAPIKey(cfg *Config) (string, error) {
	if cfg != nil && cfg.Anthropic.UseBedrock {
		return "", nil
	}
	var fromConfig string
	if cfg != nil {
		fromConfig = cfg.Anthropic.APIKey
	}
	if key := resolveKey("ANTHROPIC_API_KEY", fromConfig); key != "" {
		return key, nil
	}
	return "", ErrNoAPIKey
}

// GetOpenAIKey returns the OpenAI API key used for embeddings seeding.
func GetOpenAIKey(cfg *Config) (string, error) {
	var fromConfig string
	if cfg != nil {
		fromConfig = cfg.OpenAI.APIKey
	}
	if key := resolveKey("OPENAI_API_KEY", fromConfig); key != "" {
		return key, nil
	}
	return "", ErrNoOpenAIKey
}

// GetScraperToken returns the Apify API token.
func GetScraperToken(cfg *Config) (string, error) {
	var fromConfig string
	if cfg != nil {
		fromConfig = cfg.Scraper.APIToken
	}
	if key := resolveKey("APIFY_API_TOKEN", fromConfig); key != "" {
		return key, nil
	}
	return "", ErrNoScraperToken
}

// ValidateAPIKey performs basic format checks on an Anthropic API key
// without calling the API.
func ValidateAPIKey(key string) error {
	if key == "" {
		return ErrNoAPIKey
	}
	if !strings.HasPrefix(key, "sk-ant-") {
		return errors.New("invalid API key format: expected 'sk-ant-' prefix")
	}
	if len(key) < 20 {
		return errors.New("invalid API key format: key too short")
	}
	return nil
}

// MaskAPIKey returns a masked version of an API key for display, keeping
// the first 7 and last 4 characters.
func MaskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 15 {
		return "***"
	}
	return key[:7] + "..." + key[len(key)-4:]
}
