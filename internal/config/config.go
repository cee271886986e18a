// Package config handles configuration file loading and parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/fernwick/drops/internal/drop"
)

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Supports formats like "5s", "1m", "1h30m", or integer milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	// Try parsing as integer (milliseconds)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	// Parse as duration string (e.g., "5s", "1m", "1h30m")
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '5s', '1m', '1h30m' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// DaemonConfig is the configuration for dropsd.
// Loaded from ~/.config/drops/dropsd.toml
type DaemonConfig struct {
	Display  DisplayConfig  `toml:"display"`
	Defaults DefaultsConfig `toml:"defaults"`
	Audio    AudioConfig    `toml:"audio"`
	Theme    ThemeConfig    `toml:"theme"`
}

// DisplayConfig contains display-related settings.
type DisplayConfig struct {
	Position   string `toml:"position"`    // "top" or "bottom"; edge used when a request doesn't pick one
	OffsetX    int    `toml:"offset_x"`    // Horizontal offset from center, in pixels
	OffsetY    int    `toml:"offset_y"`    // Pixels from the anchored screen edge
	MaxHeight  int    `toml:"max_height"`  // Vertical space reserved per stacked slot
	MaxVisible int    `toml:"max_visible"` // Maximum simultaneous cards; the rest queue
	Gap        int    `toml:"gap"`         // Gap between stacked cards
	Monitor    int    `toml:"monitor"`     // 0 = default monitor, 1+ = specific monitor
}

// DefaultsConfig contains descriptor defaults applied to incoming
// requests that leave the field unset.
type DefaultsConfig struct {
	Background string   `toml:"background"` // Card background, #rrggbb or #rrggbbaa
	Duration   Duration `toml:"duration"`   // On-screen time; 0 = recommended
}

// AudioConfig contains audio settings.
type AudioConfig struct {
	Enabled bool        `toml:"enabled"`
	Volume  int         `toml:"volume"` // 0-100
	Sounds  SoundConfig `toml:"sounds"`
}

// SoundConfig contains per-event sound file paths.
type SoundConfig struct {
	Show string `toml:"show"`
	Tap  string `toml:"tap"`
}

// ThemeConfig contains theme settings.
type ThemeConfig struct {
	Name        string `toml:"name"`         // Theme name without .css extension
	ColorScheme string `toml:"color_scheme"` // "system", "light", or "dark"
}

// ColorScheme represents the color scheme preference.
type ColorScheme string

const (
	ColorSchemeSystem ColorScheme = "system"
	ColorSchemeLight  ColorScheme = "light"
	ColorSchemeDark   ColorScheme = "dark"
)

// ValidColorSchemes returns all valid color scheme values.
func ValidColorSchemes() []ColorScheme {
	return []ColorScheme{ColorSchemeSystem, ColorSchemeLight, ColorSchemeDark}
}

// DefaultDaemonConfig returns a new DaemonConfig with default values.
func DefaultDaemonConfig() *DaemonConfig {
	return &DaemonConfig{
		Display: DisplayConfig{
			Position:   drop.PositionTop.String(),
			OffsetX:    0,
			OffsetY:    24,
			MaxHeight:  64,
			MaxVisible: 3,
			Gap:        8,
			Monitor:    0,
		},
		Defaults: DefaultsConfig{
			Background: "", // Empty = descriptor default
			Duration:   Duration(0),
		},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  80,
			Sounds:  SoundConfig{},
		},
		Theme: ThemeConfig{
			Name:        "default",
			ColorScheme: string(ColorSchemeSystem),
		},
	}
}

// DaemonConfigPath returns the path to the daemon config file.
func DaemonConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "drops", "dropsd.toml"), nil
}

// ThemeDir returns the user theme directory.
func ThemeDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "drops", "themes"), nil
}

// LoadDaemonConfig loads the daemon configuration from disk.
// If the file doesn't exist, returns the default configuration.
func LoadDaemonConfig() (*DaemonConfig, error) {
	path, err := DaemonConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadDaemonConfigFile(path)
}

// LoadDaemonConfigFile loads the daemon configuration from the given
// path, overlaying file contents on the defaults.
func LoadDaemonConfigFile(path string) (*DaemonConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultDaemonConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	config := DefaultDaemonConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// SaveDaemonConfig saves the daemon configuration to disk.
func SaveDaemonConfig(config *DaemonConfig) error {
	path, err := DaemonConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *DaemonConfig) Validate() error {
	switch c.Display.Position {
	case drop.PositionTop.String(), drop.PositionBottom.String():
	default:
		return fmt.Errorf("invalid position %q, must be %q or %q",
			c.Display.Position, drop.PositionTop, drop.PositionBottom)
	}

	if c.Display.MaxVisible < 1 || c.Display.MaxVisible > 20 {
		return fmt.Errorf("max_visible must be between 1 and 20, got %d", c.Display.MaxVisible)
	}
	if c.Display.Gap < 0 {
		return fmt.Errorf("gap must not be negative, got %d", c.Display.Gap)
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", c.Audio.Volume)
	}

	if c.Defaults.Background != "" {
		if _, err := drop.ParseColor(c.Defaults.Background); err != nil {
			return fmt.Errorf("invalid default background: %w", err)
		}
	}
	if c.Defaults.Duration.Duration() < 0 {
		return fmt.Errorf("default duration must not be negative, got %s", c.Defaults.Duration.Duration())
	}

	validScheme := false
	for _, s := range ValidColorSchemes() {
		if c.Theme.ColorScheme == string(s) {
			validScheme = true
			break
		}
	}
	if !validScheme {
		return fmt.Errorf("invalid color scheme %q, must be one of: %v", c.Theme.ColorScheme, ValidColorSchemes())
	}

	return nil
}

// DefaultPosition returns the configured screen edge for requests that
// don't choose one.
func (c *DaemonConfig) DefaultPosition() drop.Position {
	return drop.ParsePosition(c.Display.Position)
}

// DefaultBackground returns the configured card background, falling
// back to the descriptor default when unset.
func (c *DaemonConfig) DefaultBackground() drop.Color {
	if c.Defaults.Background == "" {
		return drop.DefaultBackground
	}
	col, err := drop.ParseColor(c.Defaults.Background)
	if err != nil {
		return drop.DefaultBackground
	}
	return col
}

// DefaultDuration returns the configured on-screen duration for
// requests that don't choose one.
func (c *DaemonConfig) DefaultDuration() drop.Duration {
	if d := c.Defaults.Duration.Duration(); d > 0 {
		return drop.Seconds(d.Seconds())
	}
	return drop.Recommended()
}

// GetSoundForEvent returns the sound file path for the given event
// ("show" or "tap"). Expands ~ to home directory.
func (c *DaemonConfig) GetSoundForEvent(event string) string {
	var path string
	switch event {
	case "tap":
		path = c.Audio.Sounds.Tap
	default:
		path = c.Audio.Sounds.Show
	}
	return expandPath(path)
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
