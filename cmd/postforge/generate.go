package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/postforge/postforge/internal/config"
	"github.com/postforge/postforge/internal/state"
)

var (
	generateTopic  string
	generateNoSave bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a single post from the command line",
	Long: `Run the full generation pipeline once and print the post.

Without --topic the pipeline selects a topic from the identity's ranked
content pillars. The run is recorded in the local run history unless
--no-save is given.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateTopic, "topic", "t", "", "Preset topic (skips topic selection)")
	generateCmd.Flags().BoolVar(&generateNoSave, "no-save", false, "Skip recording the run in history")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	orch, store, client, err := buildOrchestrator(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	st, err := orch.Run(context.Background(), generateTopic)
	if err != nil {
		return err
	}

	if !generateNoSave {
		if runDB, err := state.OpenDefault(); err == nil {
			defer runDB.Close()
			if err := runDB.RecordState(context.Background(), uuid.NewString(), st); err != nil {
				fmt.Printf("%s could not record run: %v\n", color.YellowString("⚠"), err)
			}
		}
	}

	fmt.Printf("\n%s Post generated (topic: %s, QA score %d)\n\n",
		color.GreenString("✓"), st.Topic, st.QAScore)
	fmt.Println(st.PostPayload.Text)
	if st.PostPayload.ImageURL != "" {
		fmt.Printf("\nImage: %s\n", st.PostPayload.ImageURL)
	}

	usage := client.Tracker().Snapshot()
	fmt.Printf("\n%d API calls, %d input / %d output tokens (~$%.4f)\n",
		usage.Calls, usage.InputTokens, usage.OutputTokens, usage.Cost())
	return nil
}
