package view

import "github.com/fernwick/drops/internal/drop"

// Measurer sizes a text run in layout units. Renderers with real font
// metrics (Pango, a terminal cell grid) supply their own; the default
// approximation is good enough for preferred-size hints and tests.
type Measurer interface {
	Measure(text string, f drop.Font) Size
}

// DefaultMetrics approximates proportional font metrics: an average
// glyph advance of 0.6em and a line height of 1.2em.
type DefaultMetrics struct{}

// Measure implements Measurer.
func (DefaultMetrics) Measure(text string, f drop.Font) Size {
	size := f.Size
	if size <= 0 {
		size = drop.DefaultFontSize
	}
	advance := 0.6
	if f.Bold {
		advance = 0.65
	}
	n := 0
	for range text {
		n++
	}
	return Size{W: float64(n) * advance * size, H: 1.2 * size}
}

// FixedMetrics sizes every glyph as a fixed cell, matching monospace
// terminal rendering. CellW/CellH are in layout units.
type FixedMetrics struct {
	CellW, CellH float64
}

// Measure implements Measurer.
func (m FixedMetrics) Measure(text string, _ drop.Font) Size {
	n := 0
	for range text {
		n++
	}
	return Size{W: float64(n) * m.CellW, H: m.CellH}
}
