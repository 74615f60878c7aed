package path

// EditablePoint is one draggable point derived from a command list:
// the end anchor of a MoveTo or LineTo, or any of the three points of a
// CurveTo. ClosePath contributes nothing. Extraction is recomputed from
// the commands on every query; editable points are never stored.
type EditablePoint struct {
	CommandIndex int
	PointIndex   int
	Position     Point
	IsControl    bool
	// Anchor is the on-path anchor a control point belongs to: the
	// previous command's end for the first control point, the curve's
	// own end for the second. For anchors it is the position itself.
	Anchor Point
}

// Ref returns the (command, point) index pair identifying the point
// within its command list.
func (p EditablePoint) Ref() (int, int) {
	return p.CommandIndex, p.PointIndex
}

// ExtractEditablePoints derives the editable points of a flat command
// list, in command order. For a CurveTo the points appear as first
// control, second control, end anchor (point indexes 0, 1, 2).
func ExtractEditablePoints(cmds []Command) []EditablePoint {
	var pts []EditablePoint
	var current Point
	var subStart Point
	for i, c := range cmds {
		switch c.Kind {
		case MoveTo:
			pts = append(pts, EditablePoint{
				CommandIndex: i,
				Position:     c.End,
				Anchor:       c.End,
			})
			current = c.End
			subStart = c.End
		case LineTo:
			pts = append(pts, EditablePoint{
				CommandIndex: i,
				Position:     c.End,
				Anchor:       c.End,
			})
			current = c.End
		case CurveTo:
			pts = append(pts,
				EditablePoint{
					CommandIndex: i,
					PointIndex:   0,
					Position:     c.CP1,
					IsControl:    true,
					Anchor:       current,
				},
				EditablePoint{
					CommandIndex: i,
					PointIndex:   1,
					Position:     c.CP2,
					IsControl:    true,
					Anchor:       c.End,
				},
				EditablePoint{
					CommandIndex: i,
					PointIndex:   2,
					Position:     c.End,
					Anchor:       c.End,
				},
			)
			current = c.End
		case ClosePath:
			current = subStart
		}
	}
	return pts
}

// FilterBySpans keeps the points whose commands fall inside the selected
// spans. With no selected spans every point passes.
func FilterBySpans(pts []EditablePoint, spans []Span, selected []int) []EditablePoint {
	if len(selected) == 0 {
		return pts
	}
	out := make([]EditablePoint, 0, len(pts))
	for _, p := range pts {
		for _, si := range selected {
			if si >= 0 && si < len(spans) && spans[si].Contains(p.CommandIndex) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// FindPoint locates the editable point with the given command and point
// indexes.
func FindPoint(pts []EditablePoint, commandIndex, pointIndex int) (EditablePoint, bool) {
	for _, p := range pts {
		if p.CommandIndex == commandIndex && p.PointIndex == pointIndex {
			return p, true
		}
	}
	return EditablePoint{}, false
}
