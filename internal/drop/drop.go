// Package drop defines the descriptor for a single transient
// notification card. A Drop is a plain immutable value: all defaulting
// happens exactly once at construction, and there is no invalid
// descriptor.
package drop

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Position is the screen edge a drop is shown at.
type Position int

const (
	// PositionTop anchors the drop to the top edge.
	PositionTop Position = iota
	// PositionBottom anchors the drop to the bottom edge.
	PositionBottom
)

// String returns the config/wire name of the position.
func (p Position) String() string {
	if p == PositionBottom {
		return "bottom"
	}
	return "top"
}

// ParsePosition converts a config/wire name to a Position.
// Unknown names fall back to top.
func ParsePosition(s string) Position {
	if s == "bottom" {
		return PositionBottom
	}
	return PositionTop
}

// Font describes the typography of a title. The size is in points; a
// zero size means the system default.
type Font struct {
	Size float64
	Bold bool
}

// DefaultFontSize is the system font size used when none is given.
const DefaultFontSize = 12

// DefaultFont returns the default title font.
func DefaultFont() Font {
	return Font{Size: DefaultFontSize}
}

// Title is a styled piece of text. Lines caps the rendered line count;
// 0 means unlimited.
type Title struct {
	Text  string
	Lines int
	Font  Font
	Color Color
}

// NewTitle returns a Title with the default styling: a single line,
// the default font, white text.
func NewTitle(text string) Title {
	return Title{
		Text:  text,
		Lines: 1,
		Font:  DefaultFont(),
		Color: White,
	}
}

// Icon is an opaque image reference, resolved by the renderer. Either
// a themed icon name or a file path may be set.
type Icon struct {
	Name string
	Path string
}

// Action is an optional tappable affordance. When Title is nil the
// whole card becomes the tap target instead of a dedicated button.
type Action struct {
	Title   *Title
	Handler func()
}

// RecommendedSeconds is the on-screen duration a Duration in its zero
// (recommended) state resolves to.
const RecommendedSeconds = 2.0

// Duration is the requested on-screen time of a drop. The zero value
// means "recommended". The effective value is resolved when read, not
// at construction.
type Duration struct {
	seconds  float64
	explicit bool
}

// Recommended returns the recommended duration.
func Recommended() Duration {
	return Duration{}
}

// Seconds returns an explicit duration. Negative values are
// normalized by absolute value when read.
func Seconds(s float64) Duration {
	return Duration{seconds: s, explicit: true}
}

// Explicit reports whether the duration was given explicitly.
func (d Duration) Explicit() bool {
	return d.explicit
}

// Value resolves the effective on-screen time.
func (d Duration) Value() time.Duration {
	s := RecommendedSeconds
	if d.explicit {
		s = d.seconds
		if s < 0 {
			s = -s
		}
	}
	return time.Duration(s * float64(time.Second))
}

// Drop describes one transient notification card. Construct through
// New or FromConfig; treat the value as immutable afterwards.
type Drop struct {
	// ID is a ULID assigned at construction, used by the daemon to
	// address the drop over the bus.
	ID string

	Title    Title
	Icon     *Icon
	Action   *Action
	Position Position
	Duration Duration

	Background Color

	// AccessibilityMessage is announced by screen readers. Defaults
	// to the title text.
	AccessibilityMessage string
}

// Config holds the explicit fields for FromConfig. Zero values mean
// "not supplied" where a default exists: an empty Background gets the
// default translucent black, an empty AccessibilityMessage gets the
// title text, a zero Duration means recommended and a zero Position
// means top.
type Config struct {
	Title                Title
	Icon                 *Icon
	Action               *Action
	Position             Position
	Duration             Duration
	Background           Color
	AccessibilityMessage string
}

// New creates a drop from a bare string: a single-line white title in
// the default font, shown at the top for the recommended duration on
// the default background, announced as the string itself.
func New(text string) Drop {
	return FromConfig(Config{Title: NewTitle(text)})
}

// FromConfig creates a drop from explicit fields. Fields are stored
// as given; only absent ones are defaulted, exactly once, here.
func FromConfig(c Config) Drop {
	bg := c.Background
	if bg.IsZero() {
		bg = DefaultBackground
	}
	accessibility := c.AccessibilityMessage
	if accessibility == "" {
		accessibility = c.Title.Text
	}
	return Drop{
		ID:                   newID(),
		Title:                c.Title,
		Icon:                 c.Icon,
		Action:               c.Action,
		Position:             c.Position,
		Duration:             c.Duration,
		Background:           bg,
		AccessibilityMessage: accessibility,
	}
}

// newID generates a ULID for a new drop.
func newID() string {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		// rand.Reader does not fail in practice; a monotonic
		// fallback keeps construction total.
		return ulid.Make().String()
	}
	return id.String()
}

// HasAction reports whether the drop carries an action handler.
func (d Drop) HasAction() bool {
	return d.Action != nil
}

// HasActionTitle reports whether the drop's action has its own label.
func (d Drop) HasActionTitle() bool {
	return d.Action != nil && d.Action.Title != nil
}
