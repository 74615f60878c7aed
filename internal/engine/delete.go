package engine

import (
	"slices"

	"github.com/lineahq/linea/backend-go/internal/path"
)

// DeleteSelectedPoints deletes the selection as one gesture. Gestures
// arriving within the debounce window of the previous one are dropped;
// key repeat and double-dispatched UI events otherwise fire the same
// deletion twice. When a single point was selected, the nearest
// surviving anchor after it (else before it) is selected so the user
// can keep deleting along the path.
func (e *Editor) DeleteSelectedPoints() {
	now := e.opts.Now()
	if now.Sub(e.lastDelete) < e.opts.DeleteDebounce {
		return
	}
	if len(e.selection) == 0 {
		return
	}
	e.lastDelete = now

	refs := e.Selection()
	var survivors []path.Point
	if len(refs) == 1 {
		survivors = e.reselectCandidates(refs[0])
	}

	e.DeletePoints(refs)

	if len(survivors) > 0 {
		e.reselectNearest(refs[0].Element, survivors)
	}
}

// DeletePoints removes points by reference, with no debounce and no
// reselection. Within each element the owning commands are processed in
// descending index order, so earlier removals never shift the indexes
// still to be processed.
//
// Per command: deleting a MoveTo or LineTo anchor removes the command
// (normalize promotes a survivor after a MoveTo); deleting a CurveTo's
// end anchor removes the whole curve; deleting only its control points
// degrades the curve to a LineTo.
func (e *Editor) DeletePoints(refs []PointRef) {
	byElement := map[string]map[int]map[int]bool{}
	for _, ref := range refs {
		cmds := byElement[ref.Element]
		if cmds == nil {
			cmds = map[int]map[int]bool{}
			byElement[ref.Element] = cmds
		}
		if cmds[ref.CommandIndex] == nil {
			cmds[ref.CommandIndex] = map[int]bool{}
		}
		cmds[ref.CommandIndex][ref.PointIndex] = true
	}

	ids := make([]string, 0, len(byElement))
	for id := range byElement {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		cmds, ok := e.commands(id)
		if !ok {
			continue
		}
		indexes := make([]int, 0, len(byElement[id]))
		for ci := range byElement[id] {
			if ci >= 0 && ci < len(cmds) {
				indexes = append(indexes, ci)
			}
		}
		slices.Sort(indexes)
		slices.Reverse(indexes)

		changed := false
		for _, ci := range indexes {
			sel := byElement[id][ci]
			c := cmds[ci]
			switch c.Kind {
			case path.MoveTo, path.LineTo:
				if sel[0] {
					cmds = slices.Delete(cmds, ci, ci+1)
					changed = true
				}
			case path.CurveTo:
				switch {
				case sel[2]:
					cmds = slices.Delete(cmds, ci, ci+1)
					changed = true
				case sel[0] || sel[1]:
					cmds[ci] = path.Line(c.End)
					changed = true
				}
			}
		}
		if changed {
			e.commit(id, cmds)
		}
	}
}

// reselectCandidates lists, best first, the coordinates of anchors that
// could carry the selection after ref is deleted: anchors after it in
// point order, then anchors before it walking backwards.
func (e *Editor) reselectCandidates(ref PointRef) []path.Point {
	pts := e.FilteredEditablePoints(ref.Element)
	at := -1
	for i, p := range pts {
		if p.CommandIndex == ref.CommandIndex && p.PointIndex == ref.PointIndex {
			at = i
			break
		}
	}
	if at < 0 {
		return nil
	}
	var out []path.Point
	for _, p := range pts[at+1:] {
		if !p.IsControl {
			out = append(out, p.Position)
		}
	}
	for i := at - 1; i >= 0; i-- {
		if !pts[i].IsControl {
			out = append(out, pts[i].Position)
		}
	}
	return out
}

// reselectNearest selects the first candidate coordinate that still
// resolves to an anchor after the edit.
func (e *Editor) reselectNearest(id string, candidates []path.Point) {
	pts := e.FilteredEditablePoints(id)
	for _, want := range candidates {
		for _, p := range pts {
			if p.IsControl || !p.Position.Near(want, 1e-9) {
				continue
			}
			e.selection = []PointRef{{Element: id, CommandIndex: p.CommandIndex, PointIndex: p.PointIndex}}
			return
		}
	}
}

// RemoveElement deletes the whole element and forgets any selection
// state pointing into it. Unknown IDs are ignored.
func (e *Editor) RemoveElement(id string) {
	if _, ok := e.store.ElementPath(id); !ok {
		return
	}
	e.store.DeleteElement(id)
	e.dropElement(id)
}
