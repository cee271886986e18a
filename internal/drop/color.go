package drop

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// White is the default title color.
var White = Color{R: 1, G: 1, B: 1, A: 1}

// DefaultBackground is the default card background: 15%-opaque black.
var DefaultBackground = Color{A: 0.15}

// IsZero reports whether the color is the zero value. A fully
// transparent black literal is treated as "not supplied".
func (c Color) IsZero() bool {
	return c == Color{}
}

// CSS renders the color as a CSS rgba() expression.
func (c Color) CSS() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)",
		channel(c.R), channel(c.G), channel(c.B),
		strconv.FormatFloat(clamp01(c.A), 'g', 3, 64))
}

// Hex renders the color as #rrggbb, discarding alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) int {
	return int(clamp01(v)*255 + 0.5)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ParseColor parses #rgb, #rrggbb and #rrggbbaa hex notations.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3:
		var parts [3]string
		for i := range parts {
			parts[i] = string(hex[i]) + string(hex[i])
		}
		hex = parts[0] + parts[1] + parts[2]
		fallthrough
	case 6:
		hex += "ff"
		fallthrough
	case 8:
		v, err := strconv.ParseUint(hex, 16, 64)
		if err != nil {
			return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return Color{
			R: float64(v>>24&0xff) / 255,
			G: float64(v>>16&0xff) / 255,
			B: float64(v>>8&0xff) / 255,
			A: float64(v&0xff) / 255,
		}, nil
	default:
		return Color{}, fmt.Errorf("invalid color %q: want #rgb, #rrggbb or #rrggbbaa", s)
	}
}
