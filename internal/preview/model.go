// Package preview provides a BubbleTea-based terminal preview of the
// card layout. It builds a real view from a descriptor and renders the
// computed frames on a cell grid, so layout decisions can be inspected
// without a compositor.
package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fernwick/drops/internal/drop"
	"github.com/fernwick/drops/internal/view"
)

// One layout unit per terminal cell keeps frame coordinates readable.
var cellMetrics = view.FixedMetrics{CellW: 1, CellH: 1}

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(1, 0)

	actionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("12")).
			Bold(true)

	iconStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15"))

	tapStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)
)

// Model is the preview TUI model.
type Model struct {
	// Card state
	title       string
	actionLabel string
	iconOn      bool
	actionOn    bool
	labelOn     bool
	position    drop.Position

	// Size adjustment on top of the preferred size, in cells
	extraW int
	extraH int

	// Interaction log
	tapCount int
	lastTap  string

	// Components
	help help.Model
	keys KeyMap

	width    int
	height   int
	showHelp bool
}

// NewModel creates a preview model for the given title and action label.
func NewModel(title, actionLabel string) Model {
	if title == "" {
		title = "Saved to clipboard"
	}
	if actionLabel == "" {
		actionLabel = "Undo"
	}
	return Model{
		title:       title,
		actionLabel: actionLabel,
		iconOn:      true,
		help:        help.New(),
		keys:        DefaultKeyMap(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// build assembles the descriptor and view for the current toggle state.
// The handler flips handled so taps can be observed.
func (m Model) build(handled *bool) *view.View {
	dc := drop.Config{
		Title:    drop.NewTitle(m.title),
		Position: m.position,
	}
	if m.iconOn {
		dc.Icon = &drop.Icon{Name: "dialog-information"}
	}
	if m.actionOn {
		action := &drop.Action{Handler: func() {
			if handled != nil {
				*handled = true
			}
		}}
		if m.labelOn {
			t := drop.NewTitle(m.actionLabel)
			action.Title = &t
		}
		dc.Action = action
	}

	d := drop.FromConfig(dc)
	v := view.Build(d, view.Config{Measurer: cellMetrics})

	pref := v.PreferredSize()
	w := pref.W + float64(m.extraW)
	h := pref.H + float64(m.extraH)
	if w < pref.W {
		w = pref.W
	}
	if h < 3 {
		h = 3
	}
	v.SetBounds(view.Rect{W: w, H: h})
	return v
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
		case key.Matches(msg, m.keys.ToggleIcon):
			m.iconOn = !m.iconOn
		case key.Matches(msg, m.keys.ToggleAction):
			m.actionOn = !m.actionOn
		case key.Matches(msg, m.keys.ToggleLabel):
			m.labelOn = !m.labelOn
		case key.Matches(msg, m.keys.Position):
			if m.position == drop.PositionTop {
				m.position = drop.PositionBottom
			} else {
				m.position = drop.PositionTop
			}
		case key.Matches(msg, m.keys.Wider):
			m.extraW += 2
		case key.Matches(msg, m.keys.Narrower):
			m.extraW -= 2
		case key.Matches(msg, m.keys.Taller):
			m.extraH += 2
		case key.Matches(msg, m.keys.Shorter):
			m.extraH -= 2
		case key.Matches(msg, m.keys.Reset):
			m.extraW, m.extraH = 0, 0
		case key.Matches(msg, m.keys.Tap):
			handled := false
			v := m.build(&handled)
			v.Activate()
			if handled {
				m.tapCount++
				m.lastTap = v.TapTarget().String()
			} else {
				m.lastTap = "ignored (no tap target)"
			}
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	v := m.build(nil)

	var b strings.Builder
	b.WriteString(valueStyle.Render("drops preview"))
	b.WriteString("\n\n")
	b.WriteString(m.renderCard(v))
	b.WriteString("\n\n")
	b.WriteString(m.renderInfo(v))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// renderCard draws the card content row with children placed at their
// computed frame offsets.
func (m Model) renderCard(v *view.View) string {
	bounds := v.Bounds()
	width := int(bounds.W)

	row := make([]string, width)
	for i := range row {
		row[i] = " "
	}

	place := func(x int, s string, style lipgloss.Style) {
		for i, r := range []rune(s) {
			pos := x + i
			if pos >= 0 && pos < width {
				row[pos] = style.Render(string(r))
			}
		}
	}

	if f, ok := v.Frame(view.ChildIcon); ok {
		place(int(f.X), "◆", iconStyle)
	}
	if f, ok := v.Frame(view.ChildText); ok {
		title := m.title
		if len(title) > int(f.W) {
			title = title[:int(f.W)]
		}
		place(int(f.X), title, valueStyle)
	}
	if f, ok := v.Frame(view.ChildAction); ok {
		label := " " + m.actionLabel + " "
		place(int(f.X), label, actionStyle)
	}

	return cardStyle.Render(strings.Join(row, ""))
}

// renderInfo lists the layout decisions the build made.
func (m Model) renderInfo(v *view.View) string {
	bounds := v.Bounds()
	pref := v.PreferredSize()

	kinds := make([]string, 0, 3)
	for _, c := range v.Children() {
		kinds = append(kinds, c.String())
	}

	lines := []string{
		kv("children", strings.Join(kinds, ", ")),
		kv("tap target", v.TapTarget().String()),
		kv("position", m.position.String()),
		kv("preferred", fmt.Sprintf("%.0f x %.0f", pref.W, pref.H)),
		kv("bounds", fmt.Sprintf("%.0f x %.0f", bounds.W, bounds.H)),
		kv("corner radius", fmt.Sprintf("%.1f", v.CornerRadius())),
	}

	for _, c := range v.Children() {
		if f, ok := v.Frame(c); ok {
			lines = append(lines, kv("frame "+c.String(),
				fmt.Sprintf("(%.0f, %.0f) %.0f x %.0f", f.X, f.Y, f.W, f.H)))
		}
	}

	if m.tapCount > 0 || m.lastTap != "" {
		lines = append(lines, kv("taps", tapStyle.Render(
			fmt.Sprintf("%d (last: %s)", m.tapCount, m.lastTap))))
	}

	return strings.Join(lines, "\n")
}

func kv(k, v string) string {
	return labelStyle.Render(fmt.Sprintf("%-14s", k)) + " " + valueStyle.Render(v)
}

// Run starts the preview program.
func Run(title, actionLabel string) error {
	p := tea.NewProgram(NewModel(title, actionLabel))
	_, err := p.Run()
	return err
}
