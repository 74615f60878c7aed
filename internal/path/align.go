package path

import "math"

// AlignmentType describes how two control handles around a shared anchor
// relate to each other.
type AlignmentType uint8

const (
	// Independent handles move freely.
	Independent AlignmentType = iota
	// Aligned handles point in exactly opposite directions but keep
	// their own lengths.
	Aligned
	// Mirrored handles are exact reflections through the anchor.
	Mirrored
)

func (t AlignmentType) String() string {
	switch t {
	case Aligned:
		return "aligned"
	case Mirrored:
		return "mirrored"
	}
	return "independent"
}

// ParseAlignmentType maps the wire name back to an AlignmentType.
func ParseAlignmentType(s string) (AlignmentType, bool) {
	switch s {
	case "independent":
		return Independent, true
	case "aligned":
		return Aligned, true
	case "mirrored":
		return Mirrored, true
	}
	return Independent, false
}

const (
	// AnchorTolerance is the distance within which two control points are
	// considered to share an anchor.
	AnchorTolerance = 0.1
	// angleTolerance is how far from exactly opposite two handle
	// directions may point and still count as aligned, in radians.
	angleTolerance = 2 * math.Pi / 180
	// magnitudeTolerance is the relative handle-length difference below
	// which aligned handles count as mirrored.
	magnitudeTolerance = 0.01
)

// Alignment is the derived relation of one control point to its partner
// across a shared anchor. It is recomputed from current geometry on every
// query and never stored.
type Alignment struct {
	Type AlignmentType
	// PairedCommandIndex and PairedPointIndex identify the partner
	// control point, or -1 when there is none.
	PairedCommandIndex int
	PairedPointIndex   int
	Anchor             Point
}

func independentAlignment(anchor Point) Alignment {
	return Alignment{Type: Independent, PairedCommandIndex: -1, PairedPointIndex: -1, Anchor: anchor}
}

// ResolveAlignment classifies the control point at (commandIndex,
// pointIndex) against the unique other control point sharing its anchor.
// Anchors match within AnchorTolerance. Handles pointing in opposite
// directions are aligned, and mirrored when their lengths also match.
// Anything else, including zero-length handles and points with no
// partner, is independent.
func ResolveAlignment(pts []EditablePoint, commandIndex, pointIndex int) Alignment {
	self, ok := FindPoint(pts, commandIndex, pointIndex)
	if !ok || !self.IsControl {
		return independentAlignment(self.Anchor)
	}
	pair, ok := findPair(pts, self)
	if !ok {
		return independentAlignment(self.Anchor)
	}
	al := Alignment{
		Type:               classify(self.Anchor, self.Position, pair.Position),
		PairedCommandIndex: pair.CommandIndex,
		PairedPointIndex:   pair.PointIndex,
		Anchor:             self.Anchor,
	}
	return al
}

func findPair(pts []EditablePoint, self EditablePoint) (EditablePoint, bool) {
	for _, p := range pts {
		if !p.IsControl {
			continue
		}
		if p.CommandIndex == self.CommandIndex && p.PointIndex == self.PointIndex {
			continue
		}
		if p.Anchor.Near(self.Anchor, AnchorTolerance) {
			return p, true
		}
	}
	return EditablePoint{}, false
}

func classify(anchor, a, b Point) AlignmentType {
	va := a.Sub(anchor)
	vb := b.Sub(anchor)
	ma := va.Hypot()
	mb := vb.Hypot()
	if ma == 0 || mb == 0 {
		return Independent
	}
	cos := va.Dot(vb) / (ma * mb)
	if cos > -math.Cos(angleTolerance) {
		return Independent
	}
	if math.Abs(ma-mb) <= magnitudeTolerance*math.Max(ma, mb) {
		return Mirrored
	}
	return Aligned
}

// SolveMirrored returns the partner position for a mirrored handle: the
// exact reflection of the driving handle through the anchor.
func SolveMirrored(anchor, driving Point) Point {
	return anchor.Mul(2).Sub(driving)
}

// SolveAligned returns the partner position for an aligned handle: the
// direction exactly opposes the driving handle while the partner keeps
// its current length. A zero-length driving handle leaves the partner
// where it is.
func SolveAligned(anchor, driving, partner Point) Point {
	dir := driving.Sub(anchor)
	if dir.Hypot() == 0 {
		return partner
	}
	mag := partner.Sub(anchor).Hypot()
	return anchor.Add(dir.Normalize().Mul(-mag))
}
