package path

import "math"

// Point is a 2D coordinate. It doubles as a vector for handle math and
// drag deltas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt returns the point (x, y).
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p + o.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns p - o.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Mul returns p scaled by f.
func (p Point) Mul(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Neg returns -p.
func (p Point) Neg() Point {
	return Point{X: -p.X, Y: -p.Y}
}

// Lerp linearly interpolates between p and o at parameter t.
func (p Point) Lerp(o Point, t float64) Point {
	return Point{
		X: p.X + (o.X-p.X)*t,
		Y: p.Y + (o.Y-p.Y)*t,
	}
}

// Midpoint returns the point halfway between p and o.
func (p Point) Midpoint(o Point) Point {
	return Point{X: 0.5 * (p.X + o.X), Y: 0.5 * (p.Y + o.Y)}
}

// Distance returns the euclidean distance between p and o.
func (p Point) Distance(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// Hypot returns the length of p treated as a vector.
func (p Point) Hypot() float64 {
	return math.Hypot(p.X, p.Y)
}

// Dot returns the dot product of p and o treated as vectors.
func (p Point) Dot(o Point) float64 {
	return p.X*o.X + p.Y*o.Y
}

// Normalize returns p scaled to unit length. The zero vector is returned
// unchanged.
func (p Point) Normalize() Point {
	h := p.Hypot()
	if h == 0 {
		return p
	}
	return Point{X: p.X / h, Y: p.Y / h}
}

// Near reports whether p and o are within tol of each other.
func (p Point) Near(o Point, tol float64) bool {
	return p.Distance(o) <= tol
}

// RoundTo rounds v to the given number of decimal places. Every coordinate
// written by an edit goes through this so repeated edits don't accumulate
// floating-point drift.
func RoundTo(v float64, precision int) float64 {
	if precision < 0 {
		return v
	}
	scale := math.Pow(10, float64(precision))
	return math.Round(v*scale) / scale
}
