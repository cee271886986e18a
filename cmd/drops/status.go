package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/fernwick/drops/internal/dbus"
)

var statusOpts struct {
	json bool
}

// WaybarStatus represents the Waybar custom module JSON format.
type WaybarStatus struct {
	Text    string `json:"text"`
	Alt     string `json:"alt,omitempty"`
	Tooltip string `json:"tooltip,omitempty"`
	Class   string `json:"class,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Long: `Show the dropsd daemon's identity and presentation state.

With --json, the output is Waybar's custom module JSON format:

  "custom/drops": {
    "exec": "drops status --json",
    "interval": 5,
    "return-type": "json"
  }`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVar(&statusOpts.json, "json", false,
		"Output Waybar-compatible JSON")
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := dbus.NewClient()
	if err != nil {
		return fmt.Errorf("failed to connect to dropsd: %w", err)
	}
	defer func() { _ = client.Close() }()

	status, err := client.GetStatus(ctx)
	if err != nil {
		if statusOpts.json {
			return outputStatus(WaybarStatus{Text: "", Alt: "error", Class: "error"})
		}
		return err
	}

	info, err := client.GetServerInformation(ctx)
	if err != nil {
		return err
	}

	if statusOpts.json {
		return outputStatus(waybarFromStatus(status))
	}

	fmt.Printf("%s %s (%s)\n", info.Name, info.Version, info.Vendor)
	fmt.Printf("  visible: %d\n", status.Visible)
	fmt.Printf("  queued:  %d\n", status.Queued)
	fmt.Printf("  shown:   %s since startup\n", humanize.Comma(int64(status.Shown)))
	return nil
}

// waybarFromStatus maps the daemon status to the Waybar module format.
func waybarFromStatus(status dbus.Status) WaybarStatus {
	active := status.Visible + status.Queued
	if active == 0 {
		return WaybarStatus{Text: "", Alt: "empty", Class: "empty"}
	}

	class := "active"
	if status.Queued > 0 {
		class = "busy"
	}

	return WaybarStatus{
		Text:    fmt.Sprintf("%d", active),
		Alt:     class,
		Class:   class,
		Tooltip: fmt.Sprintf("Visible: %d\nQueued: %d\nShown: %s", status.Visible, status.Queued, humanize.Comma(int64(status.Shown))),
	}
}

// outputStatus writes the status as JSON.
func outputStatus(status WaybarStatus) error {
	encoder := json.NewEncoder(os.Stdout)
	return encoder.Encode(status)
}
