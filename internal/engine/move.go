package engine

import (
	"slices"

	"github.com/lineahq/linea/backend-go/internal/path"
)

// MovePointTo writes a single point's new position. Moving a control
// point whose alignment resolves to aligned or mirrored also recomputes
// its partner, so the pair keeps its relation. Invalid targets are
// ignored.
func (e *Editor) MovePointTo(id string, commandIndex, pointIndex int, x, y float64) {
	cmds, ok := e.moveSingle(id, commandIndex, pointIndex, path.Pt(x, y))
	if !ok {
		return
	}
	e.commit(id, cmds)
}

// ApplyAlignment re-enforces a handle pair after the handle at
// (commandIndex, pointIndex) moved to (x, y). It is the same write as
// MovePointTo; the name matches what it is for.
func (e *Editor) ApplyAlignment(id string, commandIndex, pointIndex int, x, y float64) {
	e.MovePointTo(id, commandIndex, pointIndex, x, y)
}

// MovePointsBy translates refs by (dx, dy). A single control-point ref
// follows single-move semantics including partner enforcement; groups
// translate rigidly with no alignment pass, since relations inside the
// group move along with it.
func (e *Editor) MovePointsBy(refs []PointRef, dx, dy float64) {
	kept, pos := e.resolveRefs(refs)
	if len(kept) == 0 {
		return
	}
	delta := path.Pt(dx, dy)
	if len(kept) == 1 {
		ref := kept[0]
		cmds, ok := e.moveSingle(ref.Element, ref.CommandIndex, ref.PointIndex, pos[ref].Add(delta))
		if !ok {
			return
		}
		e.commit(ref.Element, cmds)
		return
	}
	updates := make(map[PointRef]path.Point, len(kept))
	for _, ref := range kept {
		updates[ref] = pos[ref].Add(delta)
	}
	e.writeRefs(updates)
}

// moveSingle rebuilds the element's commands with one point moved to
// target (formatted), enforcing the handle pair when the point is a
// non-independent control. The alignment is resolved against the
// geometry before the write, which is what still holds the relation.
func (e *Editor) moveSingle(id string, commandIndex, pointIndex int, target path.Point) ([]path.Command, bool) {
	cmds, ok := e.commands(id)
	if !ok || commandIndex < 0 || commandIndex >= len(cmds) {
		return nil, false
	}
	c := cmds[commandIndex]
	if _, ok := c.Point(pointIndex); !ok {
		return nil, false
	}
	p := e.formatPt(target)
	var al path.Alignment
	if c.IsControl(pointIndex) {
		al = path.ResolveAlignment(path.ExtractEditablePoints(cmds), commandIndex, pointIndex)
	}
	cmds[commandIndex] = c.WithPoint(pointIndex, p)
	if al.Type != path.Independent && al.PairedCommandIndex >= 0 {
		cmds = e.solvePartner(cmds, al, p)
	}
	return cmds, true
}

// solvePartner rewrites the paired handle from the driving handle's new
// position. A driving handle collapsed onto the anchor has no direction,
// so the partner stays put.
func (e *Editor) solvePartner(cmds []path.Command, al path.Alignment, driving path.Point) []path.Command {
	if al.PairedCommandIndex >= len(cmds) {
		return cmds
	}
	pc := cmds[al.PairedCommandIndex]
	current, ok := pc.Point(al.PairedPointIndex)
	if !ok || driving == al.Anchor {
		return cmds
	}
	var next path.Point
	switch al.Type {
	case path.Mirrored:
		next = path.SolveMirrored(al.Anchor, driving)
	case path.Aligned:
		next = path.SolveAligned(al.Anchor, driving, current)
	default:
		return cmds
	}
	cmds[al.PairedCommandIndex] = pc.WithPoint(al.PairedPointIndex, e.formatPt(next))
	return cmds
}

// dragState pins every dragged point's position at gesture start; each
// frame rewrites from these, not from the previous frame, so a drag
// never accumulates rounding. initial also covers points the drag moves
// indirectly (a handle's partner), for CancelDrag.
type dragState struct {
	order   []PointRef
	initial map[PointRef]path.Point
}

// BeginDrag starts a drag of the current selection, capturing initial
// positions. With nothing selected there is no drag.
func (e *Editor) BeginDrag() {
	kept, pos := e.resolveRefs(e.selection)
	if len(kept) == 0 {
		e.drag = nil
		return
	}
	if len(kept) == 1 {
		// A lone handle will drive its partner; remember where the
		// partner started so a cancel can put it back.
		ref := kept[0]
		al := e.ResolveAlignment(ref.Element, ref.CommandIndex, ref.PointIndex)
		if al.Type != path.Independent && al.PairedCommandIndex >= 0 {
			pair := PointRef{Element: ref.Element, CommandIndex: al.PairedCommandIndex, PointIndex: al.PairedPointIndex}
			if p, ok := path.FindPoint(e.EditablePoints(ref.Element), pair.CommandIndex, pair.PointIndex); ok {
				pos[pair] = p.Position
			}
		}
	}
	e.drag = &dragState{order: kept, initial: pos}
}

// Dragging reports whether a drag is in flight.
func (e *Editor) Dragging() bool {
	return e.drag != nil
}

// UpdateDrag moves the dragged points to initial + (dx, dy). Frames
// write through patch, not commit: normalizing mid-drag could renumber
// the very commands the drag holds references to. A single-point drag
// of a control handle re-enforces its pair every frame.
func (e *Editor) UpdateDrag(dx, dy float64) {
	if e.drag == nil {
		return
	}
	delta := path.Pt(dx, dy)

	if len(e.drag.order) == 1 {
		ref := e.drag.order[0]
		cmds, ok := e.moveSingle(ref.Element, ref.CommandIndex, ref.PointIndex, e.drag.initial[ref].Add(delta))
		if !ok {
			return
		}
		e.patch(ref.Element, cmds)
		return
	}

	for _, id := range e.dragElements() {
		cmds, ok := e.commands(id)
		if !ok {
			continue
		}
		for _, ref := range e.drag.order {
			if ref.Element != id || ref.CommandIndex < 0 || ref.CommandIndex >= len(cmds) {
				continue
			}
			c := cmds[ref.CommandIndex]
			if _, ok := c.Point(ref.PointIndex); !ok {
				continue
			}
			cmds[ref.CommandIndex] = c.WithPoint(ref.PointIndex, e.formatPt(e.drag.initial[ref].Add(delta)))
		}
		e.patch(id, cmds)
	}
}

// CommitDrag ends the drag and runs the full pipeline on every touched
// element.
func (e *Editor) CommitDrag() {
	if e.drag == nil {
		return
	}
	ids := e.dragElements()
	e.drag = nil
	for _, id := range ids {
		if cmds, ok := e.commands(id); ok {
			e.commit(id, cmds)
		}
	}
}

// CancelDrag puts every captured point, partners included, back where
// it started and ends the drag.
func (e *Editor) CancelDrag() {
	if e.drag == nil {
		return
	}
	drag := e.drag
	e.drag = nil
	for _, id := range dragElementsOf(drag) {
		cmds, ok := e.commands(id)
		if !ok {
			continue
		}
		for ref, orig := range drag.initial {
			if ref.Element != id || ref.CommandIndex < 0 || ref.CommandIndex >= len(cmds) {
				continue
			}
			c := cmds[ref.CommandIndex]
			if _, ok := c.Point(ref.PointIndex); !ok {
				continue
			}
			cmds[ref.CommandIndex] = c.WithPoint(ref.PointIndex, orig)
		}
		e.patch(id, cmds)
	}
}

func (e *Editor) dragElements() []string {
	return dragElementsOf(e.drag)
}

func dragElementsOf(d *dragState) []string {
	if d == nil {
		return nil
	}
	var ids []string
	for ref := range d.initial {
		if !slices.Contains(ids, ref.Element) {
			ids = append(ids, ref.Element)
		}
	}
	slices.Sort(ids)
	return ids
}
