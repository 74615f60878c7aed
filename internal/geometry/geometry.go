// Package geometry provides the heavier path math the editor delegates:
// curve refitting, corner rounding, and polyline thinning. The editor
// treats it as a service and keeps the original path whenever a routine
// reports that it had nothing to do.
package geometry

import "github.com/lineahq/linea/backend-go/internal/path"

// Service is a stateless implementation of the editor's geometry
// delegate.
type Service struct{}

// SimplifyPath refits each subpath with as few cubic segments as stay
// within tolerance of the original trace. Closed subpaths stay closed.
// ok is false when no subpath could be refitted, in which case the
// caller should keep its original commands.
func (Service) SimplifyPath(cmds []path.Command, tolerance float64) ([]path.Command, bool) {
	if tolerance <= 0 {
		return nil, false
	}
	var out []path.Command
	changed := false
	for _, sub := range path.SubPaths(cmds) {
		fitted, ok := simplifySubPath(sub, tolerance)
		if !ok {
			out = append(out, sub...)
			continue
		}
		out = append(out, fitted...)
		changed = true
	}
	if !changed {
		return nil, false
	}
	return out, true
}

func simplifySubPath(sub path.SubPath, tolerance float64) (path.SubPath, bool) {
	trace := flattenSubPath(sub, tolerance/4)
	if len(trace) < 3 {
		return nil, false
	}
	curves := fitCurves(trace, tolerance)
	if len(curves) == 0 {
		return nil, false
	}
	fitted := make(path.SubPath, 0, len(curves)+2)
	fitted = append(fitted, path.Move(trace[0]))
	fitted = append(fitted, curves...)
	if sub.Closed() {
		fitted = append(fitted, path.Close())
	}
	return fitted, true
}

// flattenSubPath samples a subpath into a polyline whose deviation from
// the true curves stays under flatness.
func flattenSubPath(sub path.SubPath, flatness float64) []path.Point {
	var pts []path.Point
	var current path.Point
	push := func(p path.Point) {
		if len(pts) == 0 || pts[len(pts)-1] != p {
			pts = append(pts, p)
		}
	}
	for _, c := range sub {
		switch c.Kind {
		case path.MoveTo:
			push(c.End)
			current = c.End
		case path.LineTo:
			push(c.End)
			current = c.End
		case path.CurveTo:
			flattenCurve(current, c, flatness, 0, push)
			current = c.End
		case path.ClosePath:
			if len(pts) > 0 {
				push(pts[0])
			}
		}
	}
	return pts
}

const maxFlattenDepth = 16

func flattenCurve(start path.Point, c path.Command, flatness float64, depth int, push func(path.Point)) {
	if depth >= maxFlattenDepth || curveFlat(start, c, flatness) {
		push(c.End)
		return
	}
	first, second, _ := path.SplitCommand(start, c, 0.5)
	flattenCurve(start, first, flatness, depth+1, push)
	flattenCurve(first.End, second, flatness, depth+1, push)
}

// curveFlat reports whether both control points sit within flatness of
// the chord.
func curveFlat(start path.Point, c path.Command, flatness float64) bool {
	return segmentDistance(c.CP1, start, c.End) <= flatness &&
		segmentDistance(c.CP2, start, c.End) <= flatness
}
