// Package view assembles the renderable, interactive card layout for
// a single drop. Build consumes one descriptor and decides, once,
// which of the three possible children exist, how they are arranged
// and sized, and what the tap target is. The resulting View never
// reconfigures its child set; only its bounds change while on screen.
package view

import (
	"github.com/fernwick/drops/internal/drop"
)

// Fixed layout metrics of the card, in layout units.
const (
	// Spacing between adjacent arranged children.
	Spacing = 10
	// InsetX is the leading/trailing card inset.
	InsetX = 12
	// InsetY is the top/bottom card inset.
	InsetY = 16
	// IconSize is the fixed square edge of the icon element.
	IconSize = 16
	// ActionPadding is added on each side of the action label.
	ActionPadding = 10
)

// ChildKind identifies one of the card's arranged children.
type ChildKind int

const (
	// ChildIcon is the leading icon element.
	ChildIcon ChildKind = iota
	// ChildText is the title text block; always present.
	ChildText
	// ChildAction is the trailing action button element.
	ChildAction
)

// String returns a stable name for logging.
func (k ChildKind) String() string {
	switch k {
	case ChildIcon:
		return "icon"
	case ChildAction:
		return "action"
	default:
		return "text"
	}
}

// TapTarget is the single interaction affordance of a card, computed
// once from the descriptor's presence checks.
type TapTarget int

const (
	// TapNone means no tap handler is attached by the card.
	TapNone TapTarget = iota
	// TapWholeCard means a tap anywhere on the card invokes the
	// action handler (action present, no label).
	TapWholeCard
	// TapAction means only the action element is tappable.
	TapAction
)

// String returns a stable name for logging.
func (t TapTarget) String() string {
	switch t {
	case TapWholeCard:
		return "whole-card"
	case TapAction:
		return "action"
	default:
		return "none"
	}
}

// Attribute identifies a constrained dimension.
type Attribute int

const (
	// AttrWidth constrains a child's width.
	AttrWidth Attribute = iota
	// AttrHeight constrains a child's height.
	AttrHeight
)

// Constraint fixes one dimension of one child. Constraints exist only
// for children that exist: an absent icon contributes none.
type Constraint struct {
	Child ChildKind
	Attr  Attribute
	Value float64
}

// Config carries the environment the builder would otherwise read
// from ambient global state, so construction stays deterministic.
type Config struct {
	// Measurer sizes text runs. Defaults to the approximate built-in
	// metrics when nil.
	Measurer Measurer
	// Scale is the device pixel scale. Zero means 1.
	Scale float64
}

// View is the assembled card. It is built once from an immutable
// descriptor and exposes no setters beyond the bounds the host layout
// pass assigns.
type View struct {
	d drop.Drop

	children    []ChildKind
	constraints []Constraint
	tap         TapTarget

	measurer  Measurer
	scale     float64
	actionMin Size

	bounds       Rect
	frames       map[ChildKind]Rect
	cornerRadius float64
}

// Build assembles the card for one descriptor. The three presence
// checks happen here and never again: icon element iff the descriptor
// has an icon, text block always, action element iff the action has
// its own title.
func Build(d drop.Drop, cfg Config) *View {
	m := cfg.Measurer
	if m == nil {
		m = DefaultMetrics{}
	}
	scale := cfg.Scale
	if scale <= 0 {
		scale = 1
	}

	v := &View{
		d:        d,
		measurer: m,
		scale:    scale,
		frames:   make(map[ChildKind]Rect),
	}

	if d.Icon != nil {
		v.children = append(v.children, ChildIcon)
		v.constraints = append(v.constraints,
			Constraint{Child: ChildIcon, Attr: AttrWidth, Value: IconSize},
			Constraint{Child: ChildIcon, Attr: AttrHeight, Value: IconSize},
		)
	}

	v.children = append(v.children, ChildText)

	if d.HasActionTitle() {
		v.children = append(v.children, ChildAction)
		label := m.Measure(d.Action.Title.Text, d.Action.Title.Font)
		v.actionMin = Size{W: label.W + 2*ActionPadding, H: label.H}
		v.constraints = append(v.constraints,
			Constraint{Child: ChildAction, Attr: AttrWidth, Value: v.actionMin.W},
			Constraint{Child: ChildAction, Attr: AttrHeight, Value: v.actionMin.H},
		)
	}

	switch {
	case d.HasActionTitle():
		v.tap = TapAction
	case d.HasAction():
		v.tap = TapWholeCard
	}

	return v
}

// Drop returns the descriptor the view was built from.
func (v *View) Drop() drop.Drop {
	return v.d
}

// Children returns the arranged children in left-to-right order.
func (v *View) Children() []ChildKind {
	out := make([]ChildKind, len(v.children))
	copy(out, v.children)
	return out
}

// HasChild reports whether the given child exists in the layout.
func (v *View) HasChild(kind ChildKind) bool {
	for _, c := range v.children {
		if c == kind {
			return true
		}
	}
	return false
}

// Constraints returns the sizing constraints of the present children.
func (v *View) Constraints() []Constraint {
	out := make([]Constraint, len(v.constraints))
	copy(out, v.constraints)
	return out
}

// ConstraintsFor returns the constraints attached to one child.
func (v *View) ConstraintsFor(kind ChildKind) []Constraint {
	var out []Constraint
	for _, c := range v.constraints {
		if c.Child == kind {
			out = append(out, c)
		}
	}
	return out
}

// TapTarget returns the card's single interaction affordance.
func (v *View) TapTarget() TapTarget {
	return v.tap
}

// PreferredSize returns the content-driven size of the card: insets
// plus the present children and their spacing.
func (v *View) PreferredSize() Size {
	title := v.measurer.Measure(v.d.Title.Text, v.d.Title.Font)

	w := 2.0 * InsetX
	h := title.H
	if v.HasChild(ChildIcon) {
		w += IconSize + Spacing
		if IconSize > h {
			h = IconSize
		}
	}
	w += title.W
	if v.HasChild(ChildAction) {
		w += Spacing + v.actionMin.W
		if v.actionMin.H > h {
			h = v.actionMin.H
		}
	}
	return Size{W: w, H: h + 2*InsetY}
}

// SetBounds assigns the size the host layout pass chose and runs the
// layout: child frames in card-local coordinates and the corner
// radius, which tracks half the smaller card edge on every change so
// the shape stays a pill at any size.
func (v *View) SetBounds(r Rect) {
	v.bounds = r
	v.cornerRadius = cornerRadius(r.W, r.H)
	v.layout()
}

// Bounds returns the last assigned bounds.
func (v *View) Bounds() Rect {
	return v.bounds
}

// CornerRadius returns half of min(width, height) of the current
// bounds.
func (v *View) CornerRadius() float64 {
	return v.cornerRadius
}

// cornerRadius is the pure shape rule; idempotent per size.
func cornerRadius(w, h float64) float64 {
	if h < w {
		return h / 2
	}
	return w / 2
}

// Frame returns a child's card-local frame from the last layout pass.
func (v *View) Frame(kind ChildKind) (Rect, bool) {
	f, ok := v.frames[kind]
	return f, ok
}

// layout places the present children: icon (fixed square) leading,
// action (content-sized) trailing, text filling what remains, all
// vertically centered inside the insets.
func (v *View) layout() {
	w, h := v.bounds.W, v.bounds.H

	left := float64(InsetX)
	right := w - InsetX

	if v.HasChild(ChildIcon) {
		v.frames[ChildIcon] = Rect{
			X: left,
			Y: (h - IconSize) / 2,
			W: IconSize,
			H: IconSize,
		}
		left += IconSize + Spacing
	}

	if v.HasChild(ChildAction) {
		aw, ah := v.actionMin.W, v.actionMin.H
		if aw > right-left {
			aw = max0(right - left)
		}
		v.frames[ChildAction] = Rect{
			X: right - aw,
			Y: (h - ah) / 2,
			W: aw,
			H: ah,
		}
		right -= aw + Spacing
	}

	th := h - 2*InsetY
	v.frames[ChildText] = Rect{
		X: left,
		Y: InsetY,
		W: max0(right - left),
		H: max0(th),
	}
}

func max0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// TapAt delivers a tap at a card-local point and reports whether the
// action handler ran. The dispatch is mutually exclusive: the whole
// card when the action has no label, only the action frame when it
// does, nothing otherwise.
func (v *View) TapAt(p Point) bool {
	switch v.tap {
	case TapWholeCard:
		return v.invoke()
	case TapAction:
		if f, ok := v.frames[ChildAction]; ok && f.Contains(p) {
			return v.invoke()
		}
	}
	return false
}

// Activate invokes the action handler directly, regardless of
// geometry. Renderers that give the action element its own native tap
// affordance (a button) route its activation here.
func (v *View) Activate() bool {
	if v.tap == TapNone {
		return false
	}
	return v.invoke()
}

func (v *View) invoke() bool {
	if v.d.Action == nil || v.d.Action.Handler == nil {
		return false
	}
	v.d.Action.Handler()
	return true
}
