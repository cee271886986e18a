package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fernwick/drops/internal/dbus"
)

var sendOpts struct {
	icon          string
	action        bool
	actionLabel   string
	position      string
	duration      time.Duration
	background    string
	accessibility string
	file          string
}

// fileDrop is one entry of a YAML batch file.
type fileDrop struct {
	Title         string `yaml:"title"`
	Icon          string `yaml:"icon,omitempty"`
	Action        bool   `yaml:"action,omitempty"`
	ActionLabel   string `yaml:"action-label,omitempty"`
	Position      string `yaml:"position,omitempty"`
	Duration      string `yaml:"duration,omitempty"`
	Background    string `yaml:"background,omitempty"`
	Accessibility string `yaml:"accessibility,omitempty"`
}

var sendCmd = &cobra.Command{
	Use:   "send [title]",
	Short: "Show a drop",
	Long: `Show a drop via the running dropsd daemon.

The title is the card text. Everything else is optional:

  drops send "Saved to clipboard"
  drops send "Upload failed" --icon dialog-error --action-label Retry
  drops send "Muted" --position bottom --duration 1s

With --file, a YAML list of drops is sent instead:

  - title: Saved to clipboard
    icon: edit-copy
  - title: Upload failed
    action-label: Retry
    duration: 5s

The printed ID can be passed to "drops dismiss".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVar(&sendOpts.icon, "icon", "",
		"Icon name or image file path")
	sendCmd.Flags().BoolVar(&sendOpts.action, "action", false,
		"Make the whole card tappable")
	sendCmd.Flags().StringVar(&sendOpts.actionLabel, "action-label", "",
		"Label for a dedicated action button (implies --action)")
	sendCmd.Flags().StringVar(&sendOpts.position, "position", "",
		"Screen edge (top or bottom; default from daemon config)")
	sendCmd.Flags().DurationVar(&sendOpts.duration, "duration", 0,
		"On-screen time (e.g. 3s; default is the recommended duration)")
	sendCmd.Flags().StringVar(&sendOpts.background, "background", "",
		"Card background color (#rrggbb or #rrggbbaa)")
	sendCmd.Flags().StringVar(&sendOpts.accessibility, "accessibility", "",
		"Screen reader message (default is the title)")
	sendCmd.Flags().StringVar(&sendOpts.file, "file", "",
		"YAML file with a list of drops to send")
}

func runSend(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := dbus.NewClient()
	if err != nil {
		return fmt.Errorf("failed to connect to dropsd: %w", err)
	}
	defer func() { _ = client.Close() }()

	if sendOpts.file != "" {
		return sendFromFile(ctx, client, sendOpts.file)
	}

	if len(args) == 0 {
		return fmt.Errorf("a title or --file is required")
	}

	id, err := client.Show(ctx, args[0], dbus.ShowOptions{
		Icon:          sendOpts.icon,
		Action:        sendOpts.action,
		ActionLabel:   sendOpts.actionLabel,
		Position:      sendOpts.position,
		Duration:      sendOpts.duration,
		Background:    sendOpts.background,
		Accessibility: sendOpts.accessibility,
	})
	if err != nil {
		return err
	}

	fmt.Println(id)
	return nil
}

// sendFromFile sends every drop of a YAML batch file in order.
func sendFromFile(ctx context.Context, client *dbus.Client, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var entries []fileDrop
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse file: %w", err)
	}

	for i, entry := range entries {
		if entry.Title == "" {
			return fmt.Errorf("entry %d has no title", i)
		}

		var duration time.Duration
		if entry.Duration != "" {
			duration, err = time.ParseDuration(entry.Duration)
			if err != nil {
				return fmt.Errorf("entry %d has invalid duration %q: %w", i, entry.Duration, err)
			}
		}

		id, err := client.Show(ctx, entry.Title, dbus.ShowOptions{
			Icon:          entry.Icon,
			Action:        entry.Action,
			ActionLabel:   entry.ActionLabel,
			Position:      entry.Position,
			Duration:      duration,
			Background:    entry.Background,
			Accessibility: entry.Accessibility,
		})
		if err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		fmt.Println(id)
	}

	return nil
}
