package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/postforge/postforge/internal/config"
	"github.com/postforge/postforge/internal/identity"
)

var identityCmd = &cobra.Command{
	Use:   "identity",
	Short: "Manage brand identity specs",
	Long: `Inspect and update the brand identity specs stored in Postgres.

The pipeline always uses the most recent spec whose validity window is
still open. Putting a new spec closes the previous one's window.`,
}

var identityValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a spec file without storing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := identity.LoadSpecFile(args[0])
		if err != nil {
			fmt.Printf("%s %v\n", color.RedString("✗"), err)
			os.Exit(1)
		}

		fmt.Printf("%s Spec is valid (creator: %s)\n", color.GreenString("✓"), spec.Creator)
		if len(spec.HookTemplates) == 0 {
			fmt.Printf("%s No hook templates: hooks will not be format-checked\n", color.YellowString("⚠"))
		}
		return nil
	},
}

var identityPutCmd = &cobra.Command{
	Use:   "put <file>",
	Short: "Store a spec as the new active identity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := identity.LoadSpecFile(args[0])
		if err != nil {
			return err
		}
		raw, err := identity.MarshalSpecJSON(spec)
		if err != nil {
			return err
		}

		store, err := identityStore()
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.PutSpec(context.Background(), raw)
		if err != nil {
			return err
		}

		fmt.Printf("%s Stored identity spec id=%d (creator: %s)\n",
			color.GreenString("✓"), id, spec.Creator)
		return nil
	},
}

var identityShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the currently active identity spec",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := identityStore()
		if err != nil {
			return err
		}
		defer store.Close()

		id, spec, err := store.ActiveSpec(context.Background())
		if err != nil {
			return err
		}

		raw, err := identity.MarshalSpecJSON(spec)
		if err != nil {
			return err
		}
		fmt.Printf("# identity spec id=%d\n%s\n", id, raw)
		return nil
	},
}

func init() {
	identityCmd.AddCommand(identityValidateCmd)
	identityCmd.AddCommand(identityPutCmd)
	identityCmd.AddCommand(identityShowCmd)
}

func identityStore() (*identity.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return identity.NewStore(cfg.Database.URL)
}
