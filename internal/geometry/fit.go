package geometry

import (
	"math"

	"github.com/lineahq/linea/backend-go/internal/path"
)

// fitCurves fits a run of cubic segments through the polyline within
// tolerance, least-squares first and splitting at the worst point when
// the fit won't converge. Tangent continuity is kept across splits.
func fitCurves(pts []path.Point, tolerance float64) []path.Command {
	if len(pts) < 2 {
		return nil
	}
	f := fitter{tolSq: tolerance * tolerance}
	left := pts[1].Sub(pts[0]).Normalize()
	right := pts[len(pts)-2].Sub(pts[len(pts)-1]).Normalize()
	f.fitCubic(pts, left, right)
	return f.out
}

type fitter struct {
	tolSq float64
	out   []path.Command
}

// bez holds the four points of one fitted cubic.
type bez [4]path.Point

// fitCubic fits pts with tangents tan1 (pointing into the run from the
// first point) and tan2 (pointing into the run from the last point).
func (f *fitter) fitCubic(pts []path.Point, tan1, tan2 path.Point) {
	if len(pts) == 2 {
		dist := pts[0].Distance(pts[1]) / 3
		f.emit(bez{pts[0], pts[0].Add(tan1.Mul(dist)), pts[1].Add(tan2.Mul(dist)), pts[1]})
		return
	}

	u := chordLengths(pts)
	curve := generateBezier(pts, u, tan1, tan2)
	errSq, split := maxError(pts, curve, u)
	if errSq <= f.tolSq {
		f.emit(curve)
		return
	}

	// A fit this close usually converges after re-projecting the points
	// onto the candidate curve.
	if errSq <= math.Max(f.tolSq, f.tolSq*f.tolSq) {
		for range 4 {
			u = reparameterize(pts, u, curve)
			curve = generateBezier(pts, u, tan1, tan2)
			errSq, split = maxError(pts, curve, u)
			if errSq <= f.tolSq {
				f.emit(curve)
				return
			}
		}
	}

	center := pts[split-1].Sub(pts[split+1]).Normalize()
	f.fitCubic(pts[:split+1], tan1, center)
	f.fitCubic(pts[split:], center.Neg(), tan2)
}

func (f *fitter) emit(b bez) {
	f.out = append(f.out, path.Curve(b[1], b[2], b[3]))
}

// chordLengths parameterizes pts by normalized cumulative chord length.
func chordLengths(pts []path.Point) []float64 {
	u := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		u[i] = u[i-1] + pts[i].Distance(pts[i-1])
	}
	total := u[len(u)-1]
	if total == 0 {
		return u
	}
	for i := range u {
		u[i] /= total
	}
	return u
}

// generateBezier solves the two handle lengths by least squares, holding
// endpoints and tangent directions fixed.
func generateBezier(pts []path.Point, u []float64, tan1, tan2 path.Point) bez {
	first, last := pts[0], pts[len(pts)-1]
	var c00, c01, c11, x0, x1 float64
	for i, p := range pts {
		b0, b1, b2, b3 := bernstein(u[i])
		a0 := tan1.Mul(b1)
		a1 := tan2.Mul(b2)
		c00 += a0.Dot(a0)
		c01 += a0.Dot(a1)
		c11 += a1.Dot(a1)
		tmp := p.Sub(first.Mul(b0 + b1)).Sub(last.Mul(b2 + b3))
		x0 += a0.Dot(tmp)
		x1 += a1.Dot(tmp)
	}
	det := c00*c11 - c01*c01
	var alpha1, alpha2 float64
	if det != 0 {
		alpha1 = (x0*c11 - x1*c01) / det
		alpha2 = (c00*x1 - c01*x0) / det
	}

	// Bail to the chord heuristic when the solution collapses or runs
	// away; it keeps the fit stable on short noisy runs.
	segLength := first.Distance(last)
	eps := 1e-6 * segLength
	if alpha1 < eps || alpha2 < eps {
		alpha1 = segLength / 3
		alpha2 = alpha1
	}
	return bez{first, first.Add(tan1.Mul(alpha1)), last.Add(tan2.Mul(alpha2)), last}
}

func bernstein(u float64) (b0, b1, b2, b3 float64) {
	t := 1 - u
	return t * t * t, 3 * u * t * t, 3 * u * u * t, u * u * u
}

// maxError returns the largest squared distance between the points and
// the curve at their parameters, and the interior index to split at.
func maxError(pts []path.Point, b bez, u []float64) (float64, int) {
	worst := 0.0
	split := len(pts) / 2
	for i := 1; i < len(pts)-1; i++ {
		d := evalBez(b, u[i]).Sub(pts[i])
		if dsq := d.Dot(d); dsq > worst {
			worst = dsq
			split = i
		}
	}
	return worst, split
}

// reparameterize nudges each parameter toward the curve's closest point
// with one Newton-Raphson step.
func reparameterize(pts []path.Point, u []float64, b bez) []float64 {
	out := make([]float64, len(u))
	for i, p := range pts {
		out[i] = newtonStep(b, p, u[i])
	}
	return out
}

func newtonStep(b bez, p path.Point, u float64) float64 {
	q := evalBez(b, u)
	d1 := evalBezDeriv(b, u)
	d2 := evalBezDeriv2(b, u)
	diff := q.Sub(p)
	num := diff.Dot(d1)
	den := d1.Dot(d1) + diff.Dot(d2)
	if den == 0 {
		return u
	}
	next := u - num/den
	return math.Max(0, math.Min(1, next))
}

func evalBez(b bez, u float64) path.Point {
	return path.Eval(b[0], path.Curve(b[1], b[2], b[3]), u)
}

func evalBezDeriv(b bez, u float64) path.Point {
	// Derivative of a cubic is a quadratic over the handle differences.
	q0 := b[1].Sub(b[0]).Mul(3)
	q1 := b[2].Sub(b[1]).Mul(3)
	q2 := b[3].Sub(b[2]).Mul(3)
	t := 1 - u
	return q0.Mul(t * t).Add(q1.Mul(2 * t * u)).Add(q2.Mul(u * u))
}

func evalBezDeriv2(b bez, u float64) path.Point {
	q0 := b[1].Sub(b[0]).Mul(3)
	q1 := b[2].Sub(b[1]).Mul(3)
	q2 := b[3].Sub(b[2]).Mul(3)
	r0 := q1.Sub(q0).Mul(2)
	r1 := q2.Sub(q1).Mul(2)
	return r0.Lerp(r1, u)
}
