package engine

import "github.com/lineahq/linea/backend-go/internal/path"

// SelectPoint applies the click gesture to the selection. A plain click
// selects just that point, or clears the selection when the point was
// already the only one selected. A shift click extends: with exactly one
// point of the same element selected it selects the whole run between
// the two (same subpath only), otherwise it toggles the clicked point.
// Clicks on points that don't resolve are ignored.
func (e *Editor) SelectPoint(id string, commandIndex, pointIndex int, shift bool) {
	pts := e.FilteredEditablePoints(id)
	if _, ok := path.FindPoint(pts, commandIndex, pointIndex); !ok {
		return
	}
	ref := PointRef{Element: id, CommandIndex: commandIndex, PointIndex: pointIndex}

	if !shift {
		if len(e.selection) == 1 && e.selection[0] == ref {
			e.selection = nil
			return
		}
		e.selection = []PointRef{ref}
		return
	}

	var inElement []PointRef
	for _, r := range e.selection {
		if r.Element == id {
			inElement = append(inElement, r)
		}
	}
	if len(inElement) == 1 {
		if run := e.pointRun(id, inElement[0], ref); len(run) > 0 {
			for _, r := range run {
				e.addSelect(r)
			}
			return
		}
		// Anchor and click sit in different subpaths: no range, the
		// clicked point still joins.
		e.addSelect(ref)
		return
	}
	e.toggleSelect(ref)
}

// pointRun returns the inclusive run of visible points between a and b,
// in extraction order. Points in different subpaths have no run.
func (e *Editor) pointRun(id string, a, b PointRef) []PointRef {
	pts := e.FilteredEditablePoints(id)
	ia, ib := -1, -1
	for i, p := range pts {
		switch (PointRef{Element: id, CommandIndex: p.CommandIndex, PointIndex: p.PointIndex}) {
		case a:
			ia = i
		case b:
			ib = i
		}
	}
	if ia < 0 || ib < 0 {
		return nil
	}
	cmds, _ := e.commands(id)
	if !sameSpan(path.ExtractSubPaths(cmds), pts[ia].CommandIndex, pts[ib].CommandIndex) {
		return nil
	}
	if ia > ib {
		ia, ib = ib, ia
	}
	run := make([]PointRef, 0, ib-ia+1)
	for _, p := range pts[ia : ib+1] {
		run = append(run, PointRef{Element: id, CommandIndex: p.CommandIndex, PointIndex: p.PointIndex})
	}
	return run
}

func sameSpan(spans []path.Span, i, j int) bool {
	for _, sp := range spans {
		if sp.Contains(i) {
			return sp.Contains(j)
		}
	}
	return false
}

func (e *Editor) addSelect(ref PointRef) {
	if !e.IsSelected(ref) {
		e.selection = append(e.selection, ref)
	}
}

func (e *Editor) toggleSelect(ref PointRef) {
	for i, r := range e.selection {
		if r == ref {
			e.selection = append(e.selection[:i], e.selection[i+1:]...)
			return
		}
	}
	e.selection = append(e.selection, ref)
}

// IsSelected reports whether the ref is currently selected.
func (e *Editor) IsSelected(ref PointRef) bool {
	for _, r := range e.selection {
		if r == ref {
			return true
		}
	}
	return false
}

// Selection returns the selected refs in selection order.
func (e *Editor) Selection() []PointRef {
	return append([]PointRef(nil), e.selection...)
}

// ClearSelection drops all selected points.
func (e *Editor) ClearSelection() {
	e.selection = nil
}

// SelectSubPath narrows editing to one subpath of the element, by span
// index. additive toggles the subpath in and out of the selected set
// instead of replacing it. Out-of-range indexes are ignored.
func (e *Editor) SelectSubPath(id string, index int, additive bool) {
	cmds, ok := e.commands(id)
	if !ok {
		return
	}
	if index < 0 || index >= len(path.ExtractSubPaths(cmds)) {
		return
	}
	if !additive {
		e.subPathSel[id] = []int{index}
	} else {
		sel := e.subPathSel[id]
		at := -1
		for i, si := range sel {
			if si == index {
				at = i
				break
			}
		}
		if at >= 0 {
			sel = append(sel[:at], sel[at+1:]...)
		} else {
			sel = append(sel, index)
		}
		if len(sel) == 0 {
			delete(e.subPathSel, id)
		} else {
			e.subPathSel[id] = sel
		}
	}
	// The visible point set changed; stale selected points drop out.
	e.prune()
}

// SelectedSubPaths returns the selected span indexes for the element.
func (e *Editor) SelectedSubPaths(id string) []int {
	return append([]int(nil), e.subPathSel[id]...)
}

// ClearSubPathSelection widens editing back to the whole element.
func (e *Editor) ClearSubPathSelection(id string) {
	delete(e.subPathSel, id)
}

// prune drops subpath indexes that ran off the end after a structural
// edit, then selected points that no longer resolve to a visible point.
func (e *Editor) prune() {
	for id, sel := range e.subPathSel {
		cmds, ok := e.commands(id)
		if !ok {
			delete(e.subPathSel, id)
			continue
		}
		n := len(path.ExtractSubPaths(cmds))
		var keep []int
		for _, si := range sel {
			if si >= 0 && si < n {
				keep = append(keep, si)
			}
		}
		if len(keep) == 0 {
			delete(e.subPathSel, id)
		} else {
			e.subPathSel[id] = keep
		}
	}

	cache := map[string][]path.EditablePoint{}
	var kept []PointRef
	for _, ref := range e.selection {
		pts, ok := cache[ref.Element]
		if !ok {
			pts = e.FilteredEditablePoints(ref.Element)
			cache[ref.Element] = pts
		}
		if _, ok := path.FindPoint(pts, ref.CommandIndex, ref.PointIndex); ok {
			kept = append(kept, ref)
		}
	}
	e.selection = kept
}

// dropElement forgets all selection state for a deleted element.
func (e *Editor) dropElement(id string) {
	var kept []PointRef
	for _, ref := range e.selection {
		if ref.Element != id {
			kept = append(kept, ref)
		}
	}
	e.selection = kept
	delete(e.subPathSel, id)
}
