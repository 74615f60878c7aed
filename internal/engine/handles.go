package engine

import "github.com/lineahq/linea/backend-go/internal/path"

// SetAlignmentType rewrites the control point at (commandIndex1,
// pointIndex1) so that it satisfies the requested relation to the
// control point at (commandIndex2, pointIndex2) around their shared
// anchor: mirrored reflects the second handle exactly, aligned opposes
// its direction while the first handle keeps its own length, and
// independent changes nothing. Pairs that don't share an anchor, and
// partners collapsed onto the anchor, are left alone.
func (e *Editor) SetAlignmentType(id string, commandIndex1, pointIndex1, commandIndex2, pointIndex2 int, typ path.AlignmentType) {
	cmds, ok := e.commands(id)
	if !ok {
		return
	}
	pts := path.ExtractEditablePoints(cmds)
	p1, ok1 := path.FindPoint(pts, commandIndex1, pointIndex1)
	p2, ok2 := path.FindPoint(pts, commandIndex2, pointIndex2)
	if !ok1 || !ok2 || !p1.IsControl || !p2.IsControl {
		return
	}
	if !p1.Anchor.Near(p2.Anchor, path.AnchorTolerance) {
		return
	}
	anchor := p1.Anchor
	if p2.Position == anchor {
		return
	}

	var next path.Point
	switch typ {
	case path.Mirrored:
		next = path.SolveMirrored(anchor, p2.Position)
	case path.Aligned:
		next = path.SolveAligned(anchor, p2.Position, p1.Position)
	default:
		// Independent releases the pair without moving anything.
		return
	}
	cmds[commandIndex1] = cmds[commandIndex1].WithPoint(pointIndex1, e.formatPt(next))
	e.commit(id, cmds)
}
