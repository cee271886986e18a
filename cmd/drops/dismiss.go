package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fernwick/drops/internal/dbus"
)

var dismissOpts struct {
	all bool
}

var dismissCmd = &cobra.Command{
	Use:   "dismiss [id]",
	Short: "Dismiss a drop",
	Long: `Dismiss a drop by the ID printed by "drops send", or every
visible and queued drop with --all.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDismiss,
}

func init() {
	rootCmd.AddCommand(dismissCmd)

	dismissCmd.Flags().BoolVar(&dismissOpts.all, "all", false,
		"Dismiss every visible and queued drop")
}

func runDismiss(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := dbus.NewClient()
	if err != nil {
		return fmt.Errorf("failed to connect to dropsd: %w", err)
	}
	defer func() { _ = client.Close() }()

	if dismissOpts.all {
		count, err := client.DismissAll(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("dismissed %d drop(s)\n", count)
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("an ID or --all is required")
	}

	return client.Dismiss(ctx, args[0])
}
