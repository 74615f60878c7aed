package engine

import "github.com/lineahq/linea/backend-go/internal/path"

// BrushOptions parameterize Smooth. Zero values pick the defaults.
type BrushOptions struct {
	// Center makes the brush act on every point within Radius of it.
	// Nil means act on the selected points instead.
	Center *path.Point
	Radius float64
	// Strength in (0, 1] is the fraction of the way each point moves
	// toward its neighbor average per stroke.
	Strength float64
	// Simplify rebuilds the smoothed subpaths as thinned straight
	// segments afterwards, deliberately trading curves for a lighter
	// polyline.
	Simplify    bool
	Tolerance   float64
	MinDistance float64
}

const (
	defaultBrushRadius   = 20.0
	defaultBrushStrength = 0.5
	defaultTolerance     = 2.5
	defaultMinDistance   = 2.0
)

func (o BrushOptions) withDefaults() BrushOptions {
	if o.Radius <= 0 {
		o.Radius = defaultBrushRadius
	}
	if o.Strength <= 0 {
		o.Strength = defaultBrushStrength
	}
	if o.Strength > 1 {
		o.Strength = 1
	}
	if o.Tolerance <= 0 {
		o.Tolerance = defaultTolerance
	}
	if o.MinDistance <= 0 {
		o.MinDistance = defaultMinDistance
	}
	return o
}

// Smooth relaxes points toward the average of their sequence neighbors:
// p += (avg(prev, next) − p) × w. In brush mode w falls off linearly
// from Strength at the center to zero at Radius; in selection mode w is
// Strength flat across the selected points. The first and last point of
// the sequence never move. New positions are all computed from the
// pre-stroke geometry, then written at once, so the outcome doesn't
// depend on point order.
func (e *Editor) Smooth(id string, opts BrushOptions) {
	e.smooth(id, e.selection, opts)
}

// SmoothPoints is Smooth in selection mode over an explicit point set,
// independent of the editor's selection. Remote operations replay
// through it.
func (e *Editor) SmoothPoints(id string, refs []PointRef, opts BrushOptions) {
	e.smooth(id, refs, opts)
}

func (e *Editor) smooth(id string, refs []PointRef, opts BrushOptions) {
	opts = opts.withDefaults()
	pts := e.FilteredEditablePoints(id)
	if len(pts) < 3 {
		return
	}

	chosen := make(map[PointRef]bool, len(refs))
	for _, ref := range refs {
		chosen[ref] = true
	}

	weights := make([]float64, len(pts))
	any := false
	for i := 1; i < len(pts)-1; i++ {
		var w float64
		if opts.Center != nil {
			d := pts[i].Position.Distance(*opts.Center)
			if d >= opts.Radius {
				continue
			}
			w = opts.Strength * (1 - d/opts.Radius)
		} else {
			if !chosen[PointRef{Element: id, CommandIndex: pts[i].CommandIndex, PointIndex: pts[i].PointIndex}] {
				continue
			}
			w = opts.Strength
		}
		if w > 0 {
			weights[i] = w
			any = true
		}
	}
	if !any {
		return
	}

	cmds, ok := e.commands(id)
	if !ok {
		return
	}
	touched := map[int]bool{}
	for i, w := range weights {
		if w == 0 {
			continue
		}
		p := pts[i]
		avg := pts[i-1].Position.Midpoint(pts[i+1].Position)
		next := p.Position.Add(avg.Sub(p.Position).Mul(w))
		if p.CommandIndex < 0 || p.CommandIndex >= len(cmds) {
			continue
		}
		cmds[p.CommandIndex] = cmds[p.CommandIndex].WithPoint(p.PointIndex, e.formatPt(next))
		touched[p.CommandIndex] = true
	}

	if opts.Simplify {
		cmds = e.rebuildAsPolyline(cmds, touched, opts)
	}
	e.commit(id, cmds)
}

// rebuildAsPolyline replaces each subpath holding a smoothed point with
// thinned straight segments through its anchors. Curves in those
// subpaths are dropped on purpose.
func (e *Editor) rebuildAsPolyline(cmds []path.Command, touched map[int]bool, opts BrushOptions) []path.Command {
	var out []path.Command
	for _, span := range path.ExtractSubPaths(cmds) {
		hit := false
		for ci := range touched {
			if span.Contains(ci) {
				hit = true
				break
			}
		}
		if !hit {
			out = append(out, span.Commands...)
			continue
		}
		var anchors []path.Point
		for _, c := range span.Commands {
			if c.Kind != path.ClosePath {
				anchors = append(anchors, c.End)
			}
		}
		thinned := e.geo.SimplifyPolyline(anchors, opts.Tolerance, opts.MinDistance)
		if len(thinned) < 2 {
			out = append(out, span.Commands...)
			continue
		}
		out = append(out, path.Move(thinned[0]))
		for _, p := range thinned[1:] {
			out = append(out, path.Line(p))
		}
		if span.Commands.Closed() {
			out = append(out, path.Close())
		}
	}
	return out
}

// SimplifyElement hands the selected subpath range (or the whole path)
// to the geometry service for refitting. If the delegate declines, the
// path stays as it is.
func (e *Editor) SimplifyElement(id string, tolerance float64) {
	e.reshapeRange(id, func(cmds []path.Command) ([]path.Command, bool) {
		return e.geo.SimplifyPath(cmds, tolerance)
	})
}

// RoundElement rounds the corners in the selected subpath range (or the
// whole path) with the given radius, through the geometry service.
func (e *Editor) RoundElement(id string, radius float64) {
	e.reshapeRange(id, func(cmds []path.Command) ([]path.Command, bool) {
		return e.geo.RoundPath(cmds, radius)
	})
}

// reshapeRange runs a whole-range rewrite over the selected subpaths.
// Stored paths are normalized, so the range always opens with a MoveTo
// and the delegate sees complete subpaths.
func (e *Editor) reshapeRange(id string, reshape func([]path.Command) ([]path.Command, bool)) {
	cmds, ok := e.commands(id)
	if !ok || len(cmds) == 0 {
		return
	}
	lo, hi := e.selectedRange(id, cmds)
	reshaped, ok := reshape(cmds[lo : hi+1])
	if !ok || len(reshaped) == 0 {
		return
	}
	out := make([]path.Command, 0, lo+len(reshaped)+len(cmds)-hi-1)
	out = append(out, cmds[:lo]...)
	out = append(out, reshaped...)
	out = append(out, cmds[hi+1:]...)
	e.commit(id, out)
}

// selectedRange maps the selected subpaths to one contiguous command
// range, or the whole list when no subpath is selected.
func (e *Editor) selectedRange(id string, cmds []path.Command) (int, int) {
	sel := e.subPathSel[id]
	if len(sel) == 0 {
		return 0, len(cmds) - 1
	}
	spans := path.ExtractSubPaths(cmds)
	lo, hi := len(cmds), -1
	for _, si := range sel {
		if si < 0 || si >= len(spans) {
			continue
		}
		if spans[si].StartIndex < lo {
			lo = spans[si].StartIndex
		}
		if spans[si].EndIndex > hi {
			hi = spans[si].EndIndex
		}
	}
	if hi < 0 {
		return 0, len(cmds) - 1
	}
	return lo, hi
}
