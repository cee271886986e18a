package main

import (
	"github.com/spf13/cobra"

	"github.com/fernwick/drops/internal/preview"
)

var previewOpts struct {
	title       string
	actionLabel string
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Explore card layouts in the terminal",
	Long: `Open an interactive terminal preview of the card layout.

The preview builds the same view the daemon renders and shows the
computed child frames, tap target and corner radius. Toggle the icon,
action and action label to see how the layout and tap contract change.`,
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringVar(&previewOpts.title, "title", "",
		"Card title to preview")
	previewCmd.Flags().StringVar(&previewOpts.actionLabel, "action-label", "",
		"Action label to preview")
}

func runPreview(cmd *cobra.Command, args []string) error {
	return preview.Run(previewOpts.title, previewOpts.actionLabel)
}
