package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Anthropic.MaxTokens != 4096 {
		t.Errorf("expected default max_tokens 4096, got %d", cfg.Anthropic.MaxTokens)
	}

	if cfg.Anthropic.UseBedrock {
		t.Error("expected use_bedrock to default to false")
	}

	if cfg.OpenAI.EmbeddingModel != "text-embedding-ada-002" {
		t.Errorf("expected default embedding model ada-002, got %q", cfg.OpenAI.EmbeddingModel)
	}

	if cfg.Server.Addr != "127.0.0.1:8000" {
		t.Errorf("expected default server addr 127.0.0.1:8000, got %q", cfg.Server.Addr)
	}

	if cfg.Pipeline.StageTimeout != 90*time.Second {
		t.Errorf("expected default stage timeout 90s, got %v", cfg.Pipeline.StageTimeout)
	}

	if cfg.Scraper.RequestsPerMinute != 30 {
		t.Errorf("expected default scraper rpm 30, got %d", cfg.Scraper.RequestsPerMinute)
	}
}

func TestLoadFromPath(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
anthropic:
  api_key: test-key
  model: claude-sonnet-4-20250514
  max_tokens: 2048
  use_bedrock: true
  aws_region: us-west-2
openai:
  api_key: openai-key
database:
  url: postgres://localhost/postforge
server:
  addr: 0.0.0.0:9000
pipeline:
  stage_timeout: 2m
scraper:
  api_token: apify-token
  requests_per_minute: 10
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Anthropic.APIKey != "test-key" {
		t.Errorf("expected api_key 'test-key', got %q", cfg.Anthropic.APIKey)
	}

	if cfg.Anthropic.Model != "claude-sonnet-4-20250514" {
		t.Errorf("unexpected model %q", cfg.Anthropic.Model)
	}

	if cfg.Anthropic.MaxTokens != 2048 {
		t.Errorf("expected max_tokens 2048, got %d", cfg.Anthropic.MaxTokens)
	}

	if !cfg.Anthropic.UseBedrock || cfg.Anthropic.AWSRegion != "us-west-2" {
		t.Errorf("expected bedrock enabled in us-west-2, got %+v", cfg.Anthropic)
	}

	if cfg.Database.URL != "postgres://localhost/postforge" {
		t.Errorf("unexpected database url %q", cfg.Database.URL)
	}

	if cfg.Server.Addr != "0.0.0.0:9000" {
		t.Errorf("unexpected server addr %q", cfg.Server.Addr)
	}

	if cfg.Pipeline.StageTimeout != 2*time.Minute {
		t.Errorf("expected stage timeout 2m, got %v", cfg.Pipeline.StageTimeout)
	}

	if cfg.Scraper.APIToken != "apify-token" {
		t.Errorf("unexpected scraper token %q", cfg.Scraper.APIToken)
	}

	if cfg.Scraper.RequestsPerMinute != 10 {
		t.Errorf("expected scraper rpm 10, got %d", cfg.Scraper.RequestsPerMinute)
	}
}

func TestLoadFromPathKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("database:\n  url: postgres://db/x\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Database.URL != "postgres://db/x" {
		t.Errorf("unexpected database url %q", cfg.Database.URL)
	}

	if cfg.Anthropic.MaxTokens != 4096 {
		t.Errorf("expected default max_tokens to survive, got %d", cfg.Anthropic.MaxTokens)
	}

	if cfg.Pipeline.StageTimeout != 90*time.Second {
		t.Errorf("expected default stage timeout to survive, got %v", cfg.Pipeline.StageTimeout)
	}
}

func TestExpandEnvInKeys(t *testing.T) {
	os.Setenv("TEST_PF_KEY", "expanded-value")
	defer os.Unsetenv("TEST_PF_KEY")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("anthropic:\n  api_key: ${TEST_PF_KEY}\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Anthropic.APIKey != "expanded-value" {
		t.Errorf("expected ${VAR} reference expanded, got %q", cfg.Anthropic.APIKey)
	}
}

func TestGetUserConfigDir(t *testing.T) {
	// Test with XDG_CONFIG_HOME set
	os.Setenv("XDG_CONFIG_HOME", "/custom/config")
	defer os.Unsetenv("XDG_CONFIG_HOME")

	dir := getUserConfigDir()
	expected := "/custom/config/postforge"
	if dir != expected {
		t.Errorf("expected %q, got %q", expected, dir)
	}
}
