package engine

import (
	"cmp"
	"slices"

	"github.com/lineahq/linea/backend-go/internal/path"
)

// AlignStrategy picks the edge or center points align to.
type AlignStrategy uint8

const (
	AlignLeft AlignStrategy = iota
	AlignCenterX
	AlignRight
	AlignTop
	AlignCenterY
	AlignBottom
)

var alignNames = map[AlignStrategy]string{
	AlignLeft:    "left",
	AlignCenterX: "centerX",
	AlignRight:   "right",
	AlignTop:     "top",
	AlignCenterY: "centerY",
	AlignBottom:  "bottom",
}

func (s AlignStrategy) String() string { return alignNames[s] }

// ParseAlignStrategy maps the wire name back to a strategy.
func ParseAlignStrategy(name string) (AlignStrategy, bool) {
	for s, n := range alignNames {
		if n == name {
			return s, true
		}
	}
	return 0, false
}

// Axis selects the coordinate a distribution spreads.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

// ParseAxis maps "x" or "y" to an Axis.
func ParseAxis(name string) (Axis, bool) {
	switch name {
	case "x":
		return AxisX, true
	case "y":
		return AxisY, true
	}
	return 0, false
}

// AlignSelected aligns the selected points; see AlignPoints.
func (e *Editor) AlignSelected(strategy AlignStrategy) {
	e.AlignPoints(e.Selection(), strategy)
}

// AlignPoints snaps each point's coordinate on the strategy's axis to
// the extreme or center of the group, which may span elements. Fewer
// than two resolvable points is a no-op.
func (e *Editor) AlignPoints(refs []PointRef, strategy AlignStrategy) {
	kept, pos := e.resolveRefs(refs)
	if len(kept) < 2 {
		return
	}
	horizontal := strategy == AlignLeft || strategy == AlignCenterX || strategy == AlignRight
	lo, hi := alignBounds(kept, pos, horizontal)

	var target float64
	switch strategy {
	case AlignLeft, AlignTop:
		target = lo
	case AlignRight, AlignBottom:
		target = hi
	default:
		target = (lo + hi) / 2
	}

	updates := make(map[PointRef]path.Point, len(kept))
	for _, ref := range kept {
		p := pos[ref]
		if horizontal {
			p.X = target
		} else {
			p.Y = target
		}
		updates[ref] = p
	}
	e.writeRefs(updates)
}

func alignBounds(refs []PointRef, pos map[PointRef]path.Point, horizontal bool) (float64, float64) {
	first := true
	var lo, hi float64
	for _, ref := range refs {
		v := pos[ref].Y
		if horizontal {
			v = pos[ref].X
		}
		if first || v < lo {
			lo = v
		}
		if first || v > hi {
			hi = v
		}
		first = false
	}
	return lo, hi
}

// DistributeSelected distributes the selected points; see
// DistributePoints.
func (e *Editor) DistributeSelected(axis Axis) {
	e.DistributePoints(e.Selection(), axis)
}

// DistributePoints spreads the points' coordinates on the axis
// uniformly by rank: sorted by current coordinate, the first and last
// stay put and everything between lands at even steps. Fewer than three
// resolvable points is a no-op.
func (e *Editor) DistributePoints(refs []PointRef, axis Axis) {
	kept, pos := e.resolveRefs(refs)
	if len(kept) < 3 {
		return
	}
	coord := func(ref PointRef) float64 {
		if axis == AxisX {
			return pos[ref].X
		}
		return pos[ref].Y
	}
	// Ties break on the ref itself so replays sort identically.
	slices.SortFunc(kept, func(a, b PointRef) int {
		if c := cmp.Compare(coord(a), coord(b)); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Element, b.Element); c != 0 {
			return c
		}
		if c := cmp.Compare(a.CommandIndex, b.CommandIndex); c != 0 {
			return c
		}
		return cmp.Compare(a.PointIndex, b.PointIndex)
	})

	first := coord(kept[0])
	last := coord(kept[len(kept)-1])
	step := (last - first) / float64(len(kept)-1)

	updates := make(map[PointRef]path.Point, len(kept)-2)
	for i, ref := range kept[1 : len(kept)-1] {
		p := pos[ref]
		v := first + step*float64(i+1)
		if axis == AxisX {
			p.X = v
		} else {
			p.Y = v
		}
		updates[ref] = p
	}
	e.writeRefs(updates)
}
