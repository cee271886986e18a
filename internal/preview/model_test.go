package preview

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernwick/drops/internal/view"
)

func TestModel_BuildReflectsToggles(t *testing.T) {
	m := NewModel("hello", "Undo")

	v := m.build(nil)
	assert.Equal(t, []view.ChildKind{view.ChildIcon, view.ChildText}, v.Children())
	assert.Equal(t, view.TapNone, v.TapTarget())

	m.iconOn = false
	m.actionOn = true
	v = m.build(nil)
	assert.Equal(t, []view.ChildKind{view.ChildText}, v.Children())
	assert.Equal(t, view.TapWholeCard, v.TapTarget())

	m.labelOn = true
	v = m.build(nil)
	assert.Equal(t, []view.ChildKind{view.ChildText, view.ChildAction}, v.Children())
	assert.Equal(t, view.TapAction, v.TapTarget())
}

func TestModel_TapCountsHandledTaps(t *testing.T) {
	m := NewModel("hello", "Undo")

	// No action: tap is ignored
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	assert.Zero(t, m.tapCount)

	m.actionOn = true
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	assert.Equal(t, 1, m.tapCount)
	assert.Equal(t, "whole-card", m.lastTap)
}

func TestModel_ViewRendersCard(t *testing.T) {
	m := NewModel("hello", "Undo")
	m.width = 80

	out := m.View()
	require.NotEmpty(t, out)
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "corner radius")
}

func TestModel_QuitKey(t *testing.T) {
	m := NewModel("", "")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_SizeAdjustmentNeverBelowPreferred(t *testing.T) {
	m := NewModel("hello", "Undo")
	m.extraW = -100

	v := m.build(nil)
	pref := v.PreferredSize()
	assert.GreaterOrEqual(t, v.Bounds().W, pref.W)
}

func TestModel_ViewContainsActionLabel(t *testing.T) {
	m := NewModel("hello", "Retry")
	m.actionOn = true
	m.labelOn = true

	out := m.View()
	assert.True(t, strings.Contains(out, "Retry"))
	assert.Contains(t, out, "action")
}
