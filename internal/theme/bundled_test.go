package theme

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundledSheet_Default(t *testing.T) {
	sheet, ok := BundledSheet("default")
	require.True(t, ok, "default sheet should exist")
	assert.True(t, sheet.Bundled)
	assert.Empty(t, sheet.Path)
	assert.Contains(t, sheet.CSS, ".drop-card")
	assert.Contains(t, sheet.CSS, ".drop-title")
	// Uses Adwaita variables
	assert.Contains(t, sheet.CSS, "@window_fg_color")
}

func TestBundledSheet_Minimal(t *testing.T) {
	sheet, ok := BundledSheet("minimal")
	require.True(t, ok, "minimal sheet should exist")
	assert.Contains(t, sheet.CSS, ".drop-card")
	assert.Contains(t, sheet.CSS, "@window_fg_color")
	// Hides icons
	assert.Contains(t, sheet.CSS, "-gtk-icon-size: 0")
}

func TestBundledSheet_Catppuccin(t *testing.T) {
	sheet, ok := BundledSheet("catppuccin")
	require.True(t, ok, "catppuccin sheet should exist")
	assert.Contains(t, sheet.CSS, ".drop-card")
	assert.Contains(t, sheet.CSS, "--ctp-text")
	assert.Contains(t, sheet.CSS, "--ctp-base")
	// Light/dark handled via the .dark class
	assert.Contains(t, sheet.CSS, ".dark")
}

func TestBundledSheet_NotFound(t *testing.T) {
	sheet, ok := BundledSheet("nonexistent")
	assert.False(t, ok)
	assert.Nil(t, sheet)
}

func TestDefaultSheet(t *testing.T) {
	sheet := DefaultSheet()
	require.NotNil(t, sheet)
	assert.Equal(t, DefaultThemeName, sheet.Name)
	assert.True(t, sheet.Bundled)
	assert.Empty(t, sheet.MissingCardClasses())
}

func TestBundledNames(t *testing.T) {
	names := BundledNames()

	assert.GreaterOrEqual(t, len(names), 3)
	assert.Contains(t, names, "default")
	assert.Contains(t, names, "minimal")
	assert.Contains(t, names, "catppuccin")

	for _, name := range names {
		assert.False(t, strings.HasPrefix(name, "_"),
			"include fragments should not be listed, found: %s", name)
	}
}

func TestIsBundled(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"default", true},
		{"minimal", true},
		{"catppuccin", true},
		{"nonexistent", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsBundled(tt.name))
		})
	}
}

func TestBundledSheets_StyleAllCardClasses(t *testing.T) {
	for _, name := range BundledNames() {
		t.Run(name, func(t *testing.T) {
			sheet, ok := BundledSheet(name)
			require.True(t, ok)
			assert.Empty(t, sheet.MissingCardClasses(),
				"sheet %s should style every card class", name)
		})
	}
}

func TestBundledSheets_BalancedBraces(t *testing.T) {
	for _, name := range BundledNames() {
		t.Run(name, func(t *testing.T) {
			sheet, ok := BundledSheet(name)
			require.True(t, ok)

			assert.Equal(t,
				strings.Count(sheet.CSS, "{"),
				strings.Count(sheet.CSS, "}"),
				"sheet %s should have balanced braces", name)
			assert.NotContains(t, sheet.CSS, "{{")
			assert.NotContains(t, sheet.CSS, "}}")
		})
	}
}
