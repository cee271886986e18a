package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fernwick/drops/internal/theme"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List available card stylesheets",
	Long: `List the stylesheets dropsd can use for drop cards.

Bundled sheets ship inside the daemon binary. Sheets placed in the
user theme directory shadow bundled ones with the same name.`,
	RunE: runThemes,
}

func init() {
	rootCmd.AddCommand(themesCmd)
}

func runThemes(cmd *cobra.Command, args []string) error {
	dir, err := theme.UserDir()
	if err != nil {
		return fmt.Errorf("failed to resolve theme directory: %w", err)
	}

	fmt.Printf("Theme directory: %s\n\n", dir)
	for _, info := range theme.Catalog(dir) {
		if info.Bundled {
			fmt.Printf("  %-16s (bundled)\n", info.Name)
		} else {
			fmt.Printf("  %-16s %s\n", info.Name, info.Path)
		}
	}
	return nil
}
