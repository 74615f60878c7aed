package geometry

import "github.com/lineahq/linea/backend-go/internal/path"

// SimplifyPolyline thins a polyline in two passes: points closer than
// minDistance to their kept predecessor are dropped, then the survivors
// run through Ramer-Douglas-Peucker at the given tolerance. First and
// last points always survive. The input is not mutated.
func (Service) SimplifyPolyline(pts []path.Point, tolerance, minDistance float64) []path.Point {
	if len(pts) <= 2 {
		return append([]path.Point(nil), pts...)
	}
	thinned := decimate(pts, minDistance)
	if len(thinned) <= 2 {
		return thinned
	}
	return rdp(thinned, tolerance)
}

func decimate(pts []path.Point, minDistance float64) []path.Point {
	if minDistance <= 0 {
		return append([]path.Point(nil), pts...)
	}
	out := []path.Point{pts[0]}
	for _, p := range pts[1 : len(pts)-1] {
		if p.Distance(out[len(out)-1]) >= minDistance {
			out = append(out, p)
		}
	}
	return append(out, pts[len(pts)-1])
}

func rdp(pts []path.Point, tolerance float64) []path.Point {
	if len(pts) <= 2 {
		return pts
	}
	worst, at := 0.0, 0
	a, b := pts[0], pts[len(pts)-1]
	for i := 1; i < len(pts)-1; i++ {
		if d := segmentDistance(pts[i], a, b); d > worst {
			worst, at = d, i
		}
	}
	if worst <= tolerance {
		return []path.Point{a, b}
	}
	left := rdp(pts[:at+1], tolerance)
	right := rdp(pts[at:], tolerance)
	return append(left[:len(left)-1], right...)
}

// segmentDistance is the distance from p to the segment ab.
func segmentDistance(p, a, b path.Point) float64 {
	ab := b.Sub(a)
	length := ab.Dot(ab)
	if length == 0 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / length
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.Distance(a.Add(ab.Mul(t)))
}
