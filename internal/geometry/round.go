package geometry

import "github.com/lineahq/linea/backend-go/internal/path"

// kappa scales a fillet's handles so the cubic hugs a circular arc; it
// is exact for a quarter circle.
const kappa = 0.5522847498307936

// RoundPath replaces corners between straight segments with circular
// fillets of the given radius. Each corner is trimmed back along both
// segments, never past a segment's midpoint, and bridged with a single
// cubic. Corners involving curves are left alone. ok is false when the
// path has no corner to round.
func (Service) RoundPath(cmds []path.Command, radius float64) ([]path.Command, bool) {
	if radius <= 0 {
		return nil, false
	}
	var out []path.Command
	changed := false
	for _, sub := range path.SubPaths(cmds) {
		rounded, ok := roundSubPath(sub, radius)
		if !ok {
			out = append(out, sub...)
			continue
		}
		out = append(out, rounded...)
		changed = true
	}
	if !changed {
		return nil, false
	}
	return out, true
}

// corner is an anchor with straight segments on both sides.
type corner struct {
	index int // command owning the anchor
	prev  path.Point
	at    path.Point
	next  path.Point
}

func roundSubPath(sub path.SubPath, radius float64) (path.SubPath, bool) {
	corners := findCorners(sub)
	if len(corners) == 0 {
		return nil, false
	}
	byIndex := make(map[int]corner, len(corners))
	for _, c := range corners {
		byIndex[c.index] = c
	}

	out := make(path.SubPath, 0, len(sub)+2*len(corners))
	for i, cmd := range sub {
		c, ok := byIndex[i]
		if !ok {
			out = append(out, cmd)
			continue
		}
		in, fillet, outPt, ok := filletAt(c, radius)
		if !ok {
			out = append(out, cmd)
			continue
		}
		switch cmd.Kind {
		case path.MoveTo:
			// Rounding the closing corner: start on the outgoing trim
			// and let the final close run through the fillet.
			out = append(out, path.Move(outPt))
		case path.LineTo:
			// The fillet ends on the outgoing segment; the following
			// command draws the rest of it.
			out = append(out, path.Line(in), fillet)
		}
	}
	// A rounded MoveTo corner needs its fillet appended before the Z.
	if c, ok := byIndex[0]; ok {
		if in, fillet, _, ok := filletAt(c, radius); ok {
			n := len(out)
			if n > 0 && out[n-1].Kind == path.ClosePath {
				out = append(out[:n-1], path.Line(in), fillet, path.Close())
			}
		}
	}
	return out, true
}

// findCorners collects anchors flanked by straight segments. For closed
// subpaths that includes the MoveTo anchor joining the last segment to
// the first.
func findCorners(sub path.SubPath) []corner {
	var corners []corner
	for i := 1; i < len(sub)-1; i++ {
		if sub[i].Kind != path.LineTo || sub[i-1].Kind == path.ClosePath {
			continue
		}
		prev, next := sub[i-1], sub[i+1]
		var nextAnchor path.Point
		switch next.Kind {
		case path.LineTo:
			nextAnchor = next.End
		case path.ClosePath:
			nextAnchor = sub[0].End
		default:
			continue
		}
		if prev.Kind != path.MoveTo && prev.Kind != path.LineTo {
			continue
		}
		corners = append(corners, corner{index: i, prev: prev.End, at: sub[i].End, next: nextAnchor})
	}
	if sub.Closed() && len(sub) > 2 {
		last := sub[len(sub)-2]
		if sub[0].Kind == path.MoveTo && last.Kind == path.LineTo && sub[1].Kind == path.LineTo {
			corners = append(corners, corner{index: 0, prev: last.End, at: sub[0].End, next: sub[1].End})
		}
	}
	return corners
}

// filletAt trims both segments around the corner and returns the trim
// point on the incoming segment, the bridging cubic, and the trim point
// on the outgoing segment.
func filletAt(c corner, radius float64) (path.Point, path.Command, path.Point, bool) {
	inVec := c.prev.Sub(c.at)
	outVec := c.next.Sub(c.at)
	inLen := inVec.Hypot()
	outLen := outVec.Hypot()
	if inLen == 0 || outLen == 0 {
		return path.Point{}, path.Command{}, path.Point{}, false
	}
	trim := radius
	if h := inLen / 2; h < trim {
		trim = h
	}
	if h := outLen / 2; h < trim {
		trim = h
	}
	in := c.at.Add(inVec.Mul(trim / inLen))
	out := c.at.Add(outVec.Mul(trim / outLen))
	fillet := path.Curve(in.Lerp(c.at, kappa), out.Lerp(c.at, kappa), out)
	return in, fillet, out, true
}
