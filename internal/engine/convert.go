package engine

import (
	"slices"

	"github.com/lineahq/linea/backend-go/internal/path"
)

// ConvertToCurve replaces the LineTo at commandIndex with the cubic that
// traces the same segment, control points a third and two thirds along.
// The handles start collinear, ready to be pulled apart.
func (e *Editor) ConvertToCurve(id string, commandIndex int) {
	cmds, ok := e.commands(id)
	if !ok || commandIndex <= 0 || commandIndex >= len(cmds) {
		return
	}
	c := cmds[commandIndex]
	prev := cmds[commandIndex-1]
	if c.Kind != path.LineTo || prev.Kind == path.ClosePath {
		return
	}
	cmds[commandIndex] = path.LineToCurve(prev.End, c.End)
	e.commit(id, cmds)
}

// ConvertToLine flattens the CurveTo at commandIndex to a straight
// segment onto its end anchor, discarding both control points.
func (e *Editor) ConvertToLine(id string, commandIndex int) {
	cmds, ok := e.commands(id)
	if !ok || commandIndex < 0 || commandIndex >= len(cmds) {
		return
	}
	if cmds[commandIndex].Kind != path.CurveTo {
		return
	}
	cmds[commandIndex] = path.Line(cmds[commandIndex].End)
	e.commit(id, cmds)
}

// RemoveClosePath deletes the ClosePath belonging to the MoveTo at
// moveIndex, leaving the subpath open. Nothing happens when the subpath
// isn't closed.
func (e *Editor) RemoveClosePath(id string, moveIndex int) {
	cmds, ok := e.commands(id)
	if !ok {
		return
	}
	z := closeFor(cmds, moveIndex)
	if z < 0 {
		return
	}
	e.commit(id, slices.Delete(slices.Clone(cmds), z, z+1))
}

// ClosePathToLine replaces the subpath's ClosePath with an explicit
// LineTo back to its MoveTo anchor: same outline, editable closing
// segment.
func (e *Editor) ClosePathToLine(id string, moveIndex int) {
	cmds, ok := e.commands(id)
	if !ok {
		return
	}
	z := closeFor(cmds, moveIndex)
	if z < 0 {
		return
	}
	cmds[z] = path.Line(cmds[moveIndex].End)
	e.commit(id, cmds)
}

// closeFor scans forward from the MoveTo at moveIndex for its
// ClosePath. Hitting another MoveTo first means the subpath is open.
func closeFor(cmds []path.Command, moveIndex int) int {
	if moveIndex < 0 || moveIndex >= len(cmds) || cmds[moveIndex].Kind != path.MoveTo {
		return -1
	}
	for i := moveIndex + 1; i < len(cmds); i++ {
		switch cmds[i].Kind {
		case path.MoveTo:
			return -1
		case path.ClosePath:
			return i
		}
	}
	return -1
}
