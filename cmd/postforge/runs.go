package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/postforge/postforge/internal/state"
)

var (
	runsLimit    int
	runsShowID   string
	runsMessages bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded generation runs",
	Long: `Show the local run history.

Without flags, lists the most recent runs. With --id, prints one run's
post text; add --messages for the full stage-by-stage audit log.`,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 10, "Number of runs to list")
	runsCmd.Flags().StringVar(&runsShowID, "id", "", "Show a single run by ID")
	runsCmd.Flags().BoolVar(&runsMessages, "messages", false, "Include the message audit log (with --id)")
}

func runRuns(cmd *cobra.Command, args []string) error {
	db, err := state.OpenDefault()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()

	if runsShowID != "" {
		return showRun(ctx, db, runsShowID)
	}

	runs, err := db.RecentRuns(ctx, runsLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	for _, r := range runs {
		fmt.Printf("%s  %s  qa=%d  %s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			color.CyanString(r.ID[:8]),
			r.QAScore,
			truncate(r.Topic, 48))
	}
	return nil
}

func showRun(ctx context.Context, db *state.DB, id string) error {
	runs, err := db.RecentRuns(ctx, 1000)
	if err != nil {
		return err
	}

	for _, r := range runs {
		if r.ID != id && !(len(id) >= 8 && strings.HasPrefix(r.ID, id)) {
			continue
		}

		fmt.Printf("run %s (topic: %s, qa score %d)\n\n%s\n", r.ID, r.Topic, r.QAScore, r.Text)
		if r.ImageURL != "" {
			fmt.Printf("\nImage: %s\n", r.ImageURL)
		}

		if runsMessages {
			msgs, err := db.RunMessages(ctx, r.ID)
			if err != nil {
				return err
			}
			fmt.Println()
			for _, m := range msgs {
				fmt.Printf("%s %s\n", color.YellowString("[%s]", m.Role), m.Content)
			}
		}
		return nil
	}
	return fmt.Errorf("no run found with id %q", id)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
