package display

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	coreglib "github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/fernwick/drops/internal/config"
	"github.com/fernwick/drops/internal/drop"
	"github.com/fernwick/drops/internal/view"
)

// Popup is the GTK window for a single drop card.
// The card's child set and tap target come from the built view and
// never change while on screen; only the bounds-derived shape does.
type Popup struct {
	window *gtk.Window
	drop   drop.Drop
	view   *view.View
	config *config.DaemonConfig
	layout *LayoutManager
	logger *slog.Logger

	// Widgets
	card      *gtk.Box
	titleLbl  *gtk.Label
	iconImage *gtk.Image
	actionBtn *gtk.Button

	// Per-card style: background color and the bounds-tracking radius
	shapeProvider *gtk.CSSProvider
	display       *gdk.Display
	styleClass    string

	// Callbacks
	onDismiss func()
	onTap     func()

	// State
	position int
	closed   bool
}

// NewPopup creates a popup for a built drop view.
func NewPopup(app *gtk.Application, v *view.View, cfg *config.DaemonConfig, logger *slog.Logger) (*Popup, error) {
	if logger == nil {
		logger = slog.Default()
	}

	d := v.Drop()
	p := &Popup{
		drop:       d,
		view:       v,
		config:     cfg,
		logger:     logger,
		styleClass: "drop-" + strings.ToLower(d.ID),
	}

	p.window = gtk.NewWindow()
	p.window.SetApplication(app)
	p.window.SetDecorated(false)
	p.window.SetResizable(false)

	// The card sizes to its content; the window follows.
	pref := v.PreferredSize()
	p.window.SetDefaultSize(int(pref.W), int(pref.H))

	// Screen readers announce the accessibility message.
	p.window.SetTitle(d.AccessibilityMessage)

	// Initialize layer-shell
	layershell.InitForWindow(p.window)
	layershell.SetLayer(p.window, layershell.LayerShellLayerOverlay)
	layershell.SetExclusiveZone(p.window, 0) // Don't reserve space
	layershell.SetKeyboardMode(p.window, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(p.window, "drops")

	p.buildUI()
	p.applyShape(pref.W, pref.H)
	p.connectSignals()

	return p, nil
}

// buildUI constructs the card widgets from the view's arranged children.
func (p *Popup) buildUI() {
	p.card = gtk.NewBox(gtk.OrientationHorizontal, view.Spacing)
	p.card.AddCSSClass("drop-card")
	p.card.AddCSSClass(p.getColorSchemeClass())
	p.card.SetMarginTop(view.InsetY)
	p.card.SetMarginBottom(view.InsetY)
	p.card.SetMarginStart(view.InsetX)
	p.card.SetMarginEnd(view.InsetX)

	for _, child := range p.view.Children() {
		var widget gtk.Widgetter
		switch child {
		case view.ChildIcon:
			widget = p.buildIcon()
		case view.ChildText:
			widget = p.buildTitle()
		case view.ChildAction:
			widget = p.buildAction()
		}
		if widget != nil {
			p.card.Append(widget)
		}
	}

	p.window.SetChild(p.card)
	p.window.AddCSSClass("drop-window")
	p.window.AddCSSClass(p.styleClass)
}

// buildIcon creates the fixed-square icon element.
func (p *Popup) buildIcon() gtk.Widgetter {
	p.iconImage = gtk.NewImage()
	p.iconImage.AddCSSClass("drop-icon")
	p.iconImage.SetPixelSize(view.IconSize)
	p.iconImage.SetSizeRequest(view.IconSize, view.IconSize)
	p.iconImage.SetValign(gtk.AlignCenter)

	icon := p.drop.Icon
	switch {
	case icon.Path != "":
		p.iconImage.SetFromFile(icon.Path)
	case icon.Name != "":
		p.iconImage.SetFromIconName(icon.Name)
	}
	return p.iconImage
}

// buildTitle creates the title text block.
func (p *Popup) buildTitle() gtk.Widgetter {
	title := p.drop.Title

	p.titleLbl = gtk.NewLabel("")
	p.titleLbl.AddCSSClass("drop-title")
	p.titleLbl.SetXAlign(0.5)
	p.titleLbl.SetHExpand(true)

	wrap, ellipsize := titleLineConfig(title.Lines)
	p.titleLbl.SetWrap(wrap)
	if ellipsize {
		p.titleLbl.SetEllipsize(3) // PANGO_ELLIPSIZE_END
	}
	if title.Lines > 0 {
		p.titleLbl.SetLines(title.Lines)
	}
	p.titleLbl.SetMarkup(titleMarkup(title))
	return p.titleLbl
}

// titleLineConfig maps a title's line limit to label behavior. A zero
// limit means unlimited: the text wraps freely and is never cut. A
// positive limit caps the line count and ellipsizes the overflow.
func titleLineConfig(lines int) (wrap, ellipsize bool) {
	if lines == 0 {
		return true, false
	}
	return lines > 1, true
}

// buildAction creates the trailing action button. Only present when
// the action carries its own label.
func (p *Popup) buildAction() gtk.Widgetter {
	label := p.drop.Action.Title

	p.actionBtn = gtk.NewButton()
	p.actionBtn.AddCSSClass("drop-action")
	p.actionBtn.SetValign(gtk.AlignCenter)

	lbl := gtk.NewLabel("")
	lbl.SetMarkup(titleMarkup(*label))
	p.actionBtn.SetChild(lbl)

	p.actionBtn.ConnectClicked(func() {
		p.handleTap(p.view.Activate())
	})
	return p.actionBtn
}

// titleMarkup renders styled text as Pango markup.
func titleMarkup(t drop.Title) string {
	weight := "normal"
	if t.Font.Bold {
		weight = "bold"
	}
	size := t.Font.Size
	if size <= 0 {
		size = drop.DefaultFontSize
	}
	return fmt.Sprintf(`<span size="%dpt" weight="%s" color="%s">%s</span>`,
		int(size), weight, t.Color.Hex(), coreglib.MarkupEscapeText(t.Text))
}

// connectSignals wires the card's single tap affordance.
func (p *Popup) connectSignals() {
	switch p.view.TapTarget() {
	case view.TapWholeCard:
		click := gtk.NewGestureClick()
		click.SetButton(1)
		click.ConnectReleased(func(nPress int, x, y float64) {
			p.handleTap(p.view.TapAt(view.Point{X: x, Y: y}))
		})
		p.window.AddController(click)
	case view.TapAction, view.TapNone:
		// Action taps route through the button; plain cards take none.
	}

	// The shape tracks the window size.
	p.window.Connect("notify::default-width", func() { p.syncShape() })
	p.window.Connect("notify::default-height", func() { p.syncShape() })

	// Compositor-initiated close counts as a user dismissal.
	p.window.ConnectCloseRequest(func() bool {
		if !p.closed && p.onDismiss != nil {
			p.onDismiss()
		}
		return false
	})
}

// handleTap reports a handled tap to the manager.
func (p *Popup) handleTap(handled bool) {
	if !handled {
		return
	}
	p.logger.Debug("drop tapped", "id", p.drop.ID, "target", p.view.TapTarget().String())
	if p.onTap != nil {
		p.onTap()
	}
}

// syncShape recomputes the card shape from the current window size.
func (p *Popup) syncShape() {
	w, h := p.window.DefaultSize()
	if w <= 0 || h <= 0 {
		return
	}
	p.applyShape(float64(w), float64(h))
}

// applyShape lays the view out at the given bounds and loads the
// per-card CSS: the configured background plus a corner radius of half
// the smaller edge, so the card stays a pill at any size.
func (p *Popup) applyShape(w, h float64) {
	p.view.SetBounds(view.Rect{W: w, H: h})

	css := fmt.Sprintf(
		"window.%[1]s { background: transparent; }\n"+
			"window.%[1]s .drop-card { background-color: %s; border-radius: %dpx; }\n",
		p.styleClass, p.drop.Background.CSS(), int(p.view.CornerRadius()))

	if p.shapeProvider == nil {
		p.shapeProvider = gtk.NewCSSProvider()
		if p.display == nil {
			p.display = gdk.DisplayGetDefault()
		}
		if p.display != nil {
			gtk.StyleContextAddProviderForDisplay(
				p.display,
				p.shapeProvider,
				gtk.STYLE_PROVIDER_PRIORITY_APPLICATION+1,
			)
		}
	}
	p.shapeProvider.LoadFromString(css)
}

// Show displays the popup at the given stack position.
func (p *Popup) Show(position int) {
	p.position = position
	p.updateAnchorPosition()
	p.window.Present()
}

// Close closes the popup and removes its per-card style.
func (p *Popup) Close() {
	if p.closed {
		return
	}
	p.closed = true

	if p.shapeProvider != nil && p.display != nil {
		gtk.StyleContextRemoveProviderForDisplay(p.display, p.shapeProvider)
	}
	p.window.Close()
}

// UpdatePosition updates the popup's position in the stack.
func (p *Popup) UpdatePosition(position int) {
	if p.position == position {
		return
	}
	p.position = position
	p.updateAnchorPosition()
}

// SetLayout attaches the layout manager that resolves monitors and
// stack offsets.
func (p *Popup) SetLayout(l *LayoutManager) {
	p.layout = l
}

// updateAnchorPosition anchors the card to its screen edge, centered
// horizontally, offset by the stack position.
func (p *Popup) updateAnchorPosition() {
	offsetX := p.config.Display.OffsetX
	offsetY := p.config.Display.OffsetY + (p.position * (p.config.Display.MaxHeight + p.config.Display.Gap))
	if p.layout != nil {
		offsetX, offsetY = p.layout.CalculatePosition(p.position)
		if monitor := p.layout.GetMonitor(); monitor != nil {
			p.layout.SetMonitor(p.window, monitor)
		}
	}

	// Reset all anchors first
	layershell.SetAnchor(p.window, layershell.LayerShellEdgeTop, false)
	layershell.SetAnchor(p.window, layershell.LayerShellEdgeBottom, false)
	layershell.SetAnchor(p.window, layershell.LayerShellEdgeLeft, false)
	layershell.SetAnchor(p.window, layershell.LayerShellEdgeRight, false)

	switch p.drop.Position {
	case drop.PositionBottom:
		layershell.SetAnchor(p.window, layershell.LayerShellEdgeBottom, true)
		layershell.SetMargin(p.window, layershell.LayerShellEdgeBottom, offsetY)
	default:
		layershell.SetAnchor(p.window, layershell.LayerShellEdgeTop, true)
		layershell.SetMargin(p.window, layershell.LayerShellEdgeTop, offsetY)
	}

	if offsetX != 0 {
		if offsetX > 0 {
			layershell.SetMargin(p.window, layershell.LayerShellEdgeLeft, offsetX)
		} else {
			layershell.SetMargin(p.window, layershell.LayerShellEdgeRight, -offsetX)
		}
	}
}

// Drop returns the descriptor this popup presents.
func (p *Popup) Drop() drop.Drop {
	return p.drop
}

// OnDismiss sets the callback for when the user closes the popup.
func (p *Popup) OnDismiss(cb func()) {
	p.onDismiss = cb
}

// OnTap sets the callback for when the tap handler has run.
func (p *Popup) OnTap(cb func()) {
	p.onTap = cb
}

// getColorSchemeClass returns "light" or "dark" based on config or system preference.
func (p *Popup) getColorSchemeClass() string {
	switch config.ColorScheme(p.config.Theme.ColorScheme) {
	case config.ColorSchemeLight:
		return "light"
	case config.ColorSchemeDark:
		return "dark"
	default:
		return detectSystemColorScheme()
	}
}

// detectSystemColorScheme checks libadwaita for system dark mode preference.
func detectSystemColorScheme() string {
	styleManager := adw.StyleManagerGetDefault()
	if styleManager.Dark() {
		return "dark"
	}
	return "light"
}
