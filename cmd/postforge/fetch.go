package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/postforge/postforge/internal/config"
	"github.com/postforge/postforge/internal/scraper"
)

var (
	fetchPage  int
	fetchLimit int
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <username>",
	Short: "Scrape a user's recent posts and rank them by engagement",
	Long: `Fetch recent LinkedIn posts for a username via Apify and print the
posts with their engagement analysis as JSON.

Requires an Apify token (APIFY_API_TOKEN or scraper.api_token in config).`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().IntVar(&fetchPage, "page", 1, "Result page number")
	fetchCmd.Flags().IntVar(&fetchLimit, "limit", 20, "Maximum posts to fetch")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	token, err := config.GetScraperToken(cfg)
	if err != nil {
		return err
	}

	client, err := scraper.NewClient(scraper.ClientConfig{
		APIToken:          token,
		ActorID:           cfg.Scraper.ActorID,
		RequestsPerMinute: cfg.Scraper.RequestsPerMinute,
	})
	if err != nil {
		return err
	}

	result, err := client.FetchAndAnalyze(context.Background(), scraper.FetchParams{
		Username:   args[0],
		PageNumber: fetchPage,
		Limit:      fetchLimit,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}
