package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/postforge/postforge/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify PostForge configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/postforge/config.yaml
Project-specific overrides can be placed in .postforge.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fatalf("Error loading config: %v", err)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	fmt.Printf("anthropic.api_key: %s\n", config.MaskAPIKey(cfg.Anthropic.APIKey))
	fmt.Printf("anthropic.model: %s\n", orUnset(cfg.Anthropic.Model))
	fmt.Printf("anthropic.max_tokens: %d\n", cfg.Anthropic.MaxTokens)
	fmt.Printf("anthropic.use_bedrock: %t\n", cfg.Anthropic.UseBedrock)
	fmt.Printf("anthropic.aws_region: %s\n", orUnset(cfg.Anthropic.AWSRegion))
	fmt.Printf("openai.api_key: %s\n", config.MaskAPIKey(cfg.OpenAI.APIKey))
	fmt.Printf("openai.embedding_model: %s\n", cfg.OpenAI.EmbeddingModel)
	fmt.Printf("database.url: %s\n", maskURL(cfg.Database.URL))
	fmt.Printf("server.addr: %s\n", cfg.Server.Addr)
	fmt.Printf("pipeline.stage_timeout: %s\n", cfg.Pipeline.StageTimeout)
	fmt.Printf("scraper.api_token: %s\n", config.MaskAPIKey(cfg.Scraper.APIToken))
	fmt.Printf("scraper.actor_id: %s\n", orUnset(cfg.Scraper.ActorID))
	fmt.Printf("scraper.requests_per_minute: %d\n", cfg.Scraper.RequestsPerMinute)
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fatalf("Error: %v", err)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fatalf("Error: %v", err)
	}

	if err := config.Save(cfg); err != nil {
		fatalf("Error saving config: %v", err)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		return config.MaskAPIKey(cfg.Anthropic.APIKey), nil
	case "anthropic.model":
		return orUnset(cfg.Anthropic.Model), nil
	case "anthropic.max_tokens":
		return strconv.Itoa(cfg.Anthropic.MaxTokens), nil
	case "anthropic.use_bedrock":
		return strconv.FormatBool(cfg.Anthropic.UseBedrock), nil
	case "anthropic.aws_region":
		return orUnset(cfg.Anthropic.AWSRegion), nil
	case "anthropic.aws_profile":
		return orUnset(cfg.Anthropic.AWSProfile), nil
	case "openai.api_key":
		return config.MaskAPIKey(cfg.OpenAI.APIKey), nil
	case "openai.embedding_model":
		return cfg.OpenAI.EmbeddingModel, nil
	case "database.url":
		return maskURL(cfg.Database.URL), nil
	case "server.addr":
		return cfg.Server.Addr, nil
	case "pipeline.stage_timeout":
		return cfg.Pipeline.StageTimeout.String(), nil
	case "scraper.api_token":
		return config.MaskAPIKey(cfg.Scraper.APIToken), nil
	case "scraper.actor_id":
		return orUnset(cfg.Scraper.ActorID), nil
	case "scraper.requests_per_minute":
		return strconv.Itoa(cfg.Scraper.RequestsPerMinute), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		// ${VAR} references are expanded at load time, not here.
		if !strings.HasPrefix(value, "${") {
			if err := config.ValidateAPIKey(value); err != nil {
				return err
			}
		}
		cfg.Anthropic.APIKey = value
	case "anthropic.model":
		cfg.Anthropic.Model = value
	case "anthropic.max_tokens":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_tokens: %w", err)
		}
		cfg.Anthropic.MaxTokens = n
	case "anthropic.use_bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for use_bedrock: %w", err)
		}
		cfg.Anthropic.UseBedrock = b
	case "anthropic.aws_region":
		cfg.Anthropic.AWSRegion = value
	case "anthropic.aws_profile":
		cfg.Anthropic.AWSProfile = value
	case "openai.api_key":
		cfg.OpenAI.APIKey = value
	case "openai.embedding_model":
		cfg.OpenAI.EmbeddingModel = value
	case "database.url":
		cfg.Database.URL = value
	case "server.addr":
		cfg.Server.Addr = value
	case "pipeline.stage_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for stage_timeout: %w", err)
		}
		cfg.Pipeline.StageTimeout = d
	case "scraper.api_token":
		cfg.Scraper.APIToken = value
	case "scraper.actor_id":
		cfg.Scraper.ActorID = value
	case "scraper.requests_per_minute":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for requests_per_minute: %w", err)
		}
		cfg.Scraper.RequestsPerMinute = n
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// maskURL hides credentials embedded in a connection URL.
func maskURL(url string) string {
	if url == "" {
		return "(not set)"
	}
	at := strings.LastIndex(url, "@")
	scheme := strings.Index(url, "://")
	if at == -1 || scheme == -1 || at < scheme {
		return url
	}
	return url[:scheme+3] + "****" + url[at:]
}
