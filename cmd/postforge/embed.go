package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/postforge/postforge/internal/config"
	"github.com/postforge/postforge/internal/embeddings"
	"github.com/postforge/postforge/internal/identity"
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Seed brand embeddings for the active identity",
	Long: `Generate embedding vectors for the active identity's voice phrases
and content pillars and store them in the brand_embeddings table.

Existing embeddings for the identity are replaced. Requires an OpenAI API
key (OPENAI_API_KEY or openai.api_key in config).`,
	RunE: runEmbed,
}

func runEmbed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	openaiKey, err := config.GetOpenAIKey(cfg)
	if err != nil {
		return err
	}

	store, err := identity.NewStore(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	id, spec, err := store.ActiveSpec(ctx)
	if err != nil {
		return err
	}

	embedder, err := embeddings.NewOpenAIEmbedder(openaiKey, cfg.OpenAI.EmbeddingModel)
	if err != nil {
		return err
	}

	seeder, err := embeddings.NewSeeder(cfg.Database.URL, embedder)
	if err != nil {
		return err
	}
	defer seeder.Close()

	n, err := seeder.Seed(ctx, id, spec)
	if err != nil {
		return err
	}

	fmt.Printf("%s Seeded %d embeddings for identity %d (creator: %s)\n",
		color.GreenString("✓"), n, id, spec.Creator)
	return nil
}
