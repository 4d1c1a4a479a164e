package main

import (
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"

	"github.com/postforge/postforge/internal/config"
	"github.com/postforge/postforge/internal/identity"
	"github.com/postforge/postforge/internal/llm"
	"github.com/postforge/postforge/internal/pipeline"
)

var rootCmd = &cobra.Command{
	Use:   "postforge",
	Short: "Brand-voiced post generation pipeline",
	Long: `PostForge generates social media posts in a creator's brand voice.

A fixed pipeline loads the active brand identity from Postgres, selects a
topic, researches it, then generates hook, body, and CTA sections, each
validated against the identity's templates and tone rules before a QA
review and final assembly.

Run it as a service (postforge serve), or generate a single post from the
command line (postforge generate).`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(identityCmd)
	rootCmd.AddCommand(embedCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// buildGenerator assembles the Anthropic client wrapped in a circuit
// breaker, shared by serve and generate.
func buildGenerator(cfg *config.Config) (llm.Generator, *llm.Client, error) {
	apiKey, err := config.GetAPIKey(cfg)
	if err != nil {
		return nil, nil, err
	}

	client, err := llm.NewClient(llm.ClientConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		APIKey:        apiKey,
		MaxTokens:     int64(cfg.Anthropic.MaxTokens),
		UseAWSBedrock: cfg.Anthropic.UseBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create anthropic client: %w", err)
	}

	breaker := llm.NewBreaker(client, llm.BreakerConfig{Name: "anthropic"})
	return breaker, client, nil
}

// buildOrchestrator wires the identity store and generator into a pipeline
// orchestrator. The returned store must be closed by the caller; the client
// is returned for token usage reporting.
func buildOrchestrator(cfg *config.Config) (*pipeline.Orchestrator, *identity.Store, *llm.Client, error) {
	store, err := identity.NewStore(cfg.Database.URL)
	if err != nil {
		return nil, nil, nil, err
	}

	gen, client, err := buildGenerator(cfg)
	if err != nil {
		store.Close()
		return nil, nil, nil, err
	}

	orch := pipeline.NewOrchestrator(pipeline.OrchestratorConfig{
		Provider:     identity.NewProvider(store),
		Generator:    gen,
		StageTimeout: cfg.Pipeline.StageTimeout,
	})
	return orch, store, client, nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
