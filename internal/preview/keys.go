package preview

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the preview.
type KeyMap struct {
	// Card toggles
	ToggleIcon   key.Binding
	ToggleAction key.Binding
	ToggleLabel  key.Binding
	Position     key.Binding

	// Sizing
	Wider    key.Binding
	Narrower key.Binding
	Taller   key.Binding
	Shorter  key.Binding
	Reset    key.Binding

	// Interaction
	Tap key.Binding

	// Global
	Quit key.Binding
	Help key.Binding
}

// ShortHelp returns a short help message.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleIcon, k.ToggleAction, k.ToggleLabel, k.Tap, k.Help, k.Quit}
}

// FullHelp returns a full help message.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ToggleIcon, k.ToggleAction, k.ToggleLabel, k.Position},
		{k.Wider, k.Narrower, k.Taller, k.Shorter, k.Reset},
		{k.Tap, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		ToggleIcon: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "toggle icon"),
		),
		ToggleAction: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "toggle action"),
		),
		ToggleLabel: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "toggle action label"),
		),
		Position: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "top/bottom"),
		),
		Wider: key.NewBinding(
			key.WithKeys("right", "+"),
			key.WithHelp("→/+", "wider"),
		),
		Narrower: key.NewBinding(
			key.WithKeys("left", "-"),
			key.WithHelp("←/-", "narrower"),
		),
		Taller: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "taller"),
		),
		Shorter: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "shorter"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset size"),
		),
		Tap: key.NewBinding(
			key.WithKeys("enter", "t"),
			key.WithHelp("enter/t", "tap"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}
