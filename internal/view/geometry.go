package view

// Point is a position in card-local layout units.
type Point struct {
	X, Y float64
}

// Size is a width/height pair in layout units.
type Size struct {
	W, H float64
}

// Rect is an axis-aligned rectangle in layout units.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether the point lies inside the rectangle.
// Edges count as inside.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// MaxX returns the trailing edge.
func (r Rect) MaxX() float64 {
	return r.X + r.W
}

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 {
	return r.Y + r.H
}
