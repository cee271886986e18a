package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernwick/drops/internal/drop"
)

func build(t *testing.T, c drop.Config) *View {
	t.Helper()
	return Build(drop.FromConfig(c), Config{})
}

func TestBuild_NoIcon_OmitsIconEntirely(t *testing.T) {
	v := build(t, drop.Config{Title: drop.NewTitle("hello")})

	assert.Equal(t, []ChildKind{ChildText}, v.Children())
	assert.False(t, v.HasChild(ChildIcon))
	assert.Empty(t, v.ConstraintsFor(ChildIcon))

	v.SetBounds(Rect{W: 200, H: 56})
	_, ok := v.Frame(ChildIcon)
	assert.False(t, ok, "absent icon must contribute no frame")
}

func TestBuild_WithIcon_FixedSquare(t *testing.T) {
	v := build(t, drop.Config{
		Title: drop.NewTitle("hello"),
		Icon:  &drop.Icon{Name: "dialog-information"},
	})

	assert.Equal(t, []ChildKind{ChildIcon, ChildText}, v.Children())

	cs := v.ConstraintsFor(ChildIcon)
	require.Len(t, cs, 2)
	for _, c := range cs {
		assert.Equal(t, float64(IconSize), c.Value)
	}

	v.SetBounds(Rect{W: 200, H: 56})
	f, ok := v.Frame(ChildIcon)
	require.True(t, ok)
	assert.Equal(t, float64(IconSize), f.W)
	assert.Equal(t, float64(IconSize), f.H)
	assert.Equal(t, float64(InsetX), f.X)
	assert.Equal(t, (56.0-IconSize)/2, f.Y)
}

func TestBuild_ChildOrder_AllPresent(t *testing.T) {
	label := drop.NewTitle("Undo")
	v := build(t, drop.Config{
		Title:  drop.NewTitle("Deleted"),
		Icon:   &drop.Icon{Name: "user-trash"},
		Action: &drop.Action{Title: &label, Handler: func() {}},
	})

	assert.Equal(t, []ChildKind{ChildIcon, ChildText, ChildAction}, v.Children())
}

func TestTap_ActionWithTitle_OnlyActionTappable(t *testing.T) {
	taps := 0
	label := drop.NewTitle("Undo")
	v := build(t, drop.Config{
		Title:  drop.NewTitle("Deleted"),
		Action: &drop.Action{Title: &label, Handler: func() { taps++ }},
	})

	assert.Equal(t, TapAction, v.TapTarget())
	assert.True(t, v.HasChild(ChildAction))

	v.SetBounds(Rect{W: 320, H: 48})
	f, ok := v.Frame(ChildAction)
	require.True(t, ok)

	// Inside the action frame: invoked exactly once per tap.
	inside := Point{X: f.X + f.W/2, Y: f.Y + f.H/2}
	assert.True(t, v.TapAt(inside))
	assert.Equal(t, 1, taps)

	// Elsewhere on the card: nothing happens.
	assert.False(t, v.TapAt(Point{X: InsetX + 1, Y: 24}))
	assert.Equal(t, 1, taps)
}

func TestTap_ActionWithoutTitle_WholeCardTappable(t *testing.T) {
	taps := 0
	v := build(t, drop.Config{
		Title:  drop.NewTitle("Tap to dismiss"),
		Action: &drop.Action{Handler: func() { taps++ }},
	})

	assert.Equal(t, TapWholeCard, v.TapTarget())
	assert.False(t, v.HasChild(ChildAction), "untitled action must not produce an action element")

	v.SetBounds(Rect{W: 320, H: 48})
	assert.True(t, v.TapAt(Point{X: 5, Y: 5}))
	assert.True(t, v.TapAt(Point{X: 300, Y: 40}))
	assert.Equal(t, 2, taps)
}

func TestTap_NoAction_NoHandler(t *testing.T) {
	v := build(t, drop.Config{Title: drop.NewTitle("plain")})

	assert.Equal(t, TapNone, v.TapTarget())
	v.SetBounds(Rect{W: 320, H: 48})
	assert.False(t, v.TapAt(Point{X: 10, Y: 10}))
	assert.False(t, v.Activate())
}

func TestCornerRadius_TracksBounds(t *testing.T) {
	v := build(t, drop.Config{Title: drop.NewTitle("shape")})

	cases := []struct {
		w, h, want float64
	}{
		{40, 40, 20},
		{200, 56, 28},
		{320, 48, 24},
	}
	for _, tc := range cases {
		v.SetBounds(Rect{W: tc.w, H: tc.h})
		assert.Equal(t, tc.want, v.CornerRadius(), "bounds %gx%g", tc.w, tc.h)
	}

	// Recomputation is idempotent.
	v.SetBounds(Rect{W: 320, H: 48})
	v.SetBounds(Rect{W: 320, H: 48})
	assert.Equal(t, 24.0, v.CornerRadius())
}

func TestLayout_TextFillsRemainingSpace(t *testing.T) {
	label := drop.NewTitle("Open")
	v := build(t, drop.Config{
		Title:  drop.NewTitle("New message"),
		Icon:   &drop.Icon{Name: "mail-unread"},
		Action: &drop.Action{Title: &label, Handler: func() {}},
	})

	v.SetBounds(Rect{W: 320, H: 48})

	icon, ok := v.Frame(ChildIcon)
	require.True(t, ok)
	text, ok := v.Frame(ChildText)
	require.True(t, ok)
	action, ok := v.Frame(ChildAction)
	require.True(t, ok)

	// icon -> text -> action, left to right, with fixed spacing.
	assert.Equal(t, icon.MaxX()+Spacing, text.X)
	assert.Equal(t, action.X-Spacing, text.MaxX())
	assert.Equal(t, 320-float64(InsetX), action.MaxX())
	assert.Equal(t, float64(InsetY), text.Y)
}

func TestLayout_NoOptionalChildren_TextSpansInsets(t *testing.T) {
	v := build(t, drop.Config{Title: drop.NewTitle("just text")})
	v.SetBounds(Rect{W: 200, H: 56})

	text, ok := v.Frame(ChildText)
	require.True(t, ok)
	assert.Equal(t, float64(InsetX), text.X)
	assert.Equal(t, 200-float64(InsetX), text.MaxX())
}

func TestPreferredSize_GrowsWithChildren(t *testing.T) {
	bare := build(t, drop.Config{Title: drop.NewTitle("hi")})
	withIcon := build(t, drop.Config{
		Title: drop.NewTitle("hi"),
		Icon:  &drop.Icon{Name: "dialog-information"},
	})

	assert.Greater(t, withIcon.PreferredSize().W, bare.PreferredSize().W)
	assert.Equal(t, bare.PreferredSize().H, 2*float64(InsetY)+1.2*drop.DefaultFontSize)
}

func TestActivate_RoutesToHandler(t *testing.T) {
	taps := 0
	label := drop.NewTitle("Retry")
	v := build(t, drop.Config{
		Title:  drop.NewTitle("Upload failed"),
		Action: &drop.Action{Title: &label, Handler: func() { taps++ }},
	})

	assert.True(t, v.Activate())
	assert.Equal(t, 1, taps)
}

func TestFixedMetrics(t *testing.T) {
	m := FixedMetrics{CellW: 1, CellH: 1}
	s := m.Measure("abcd", drop.DefaultFont())
	assert.Equal(t, Size{W: 4, H: 1}, s)
}
