package engine

import (
	"slices"

	"github.com/lineahq/linea/backend-go/internal/path"
)

// cutOffset displaces the MoveTo that opens the detached half of a cut,
// so the two ends don't sit exactly on top of each other.
var cutOffset = path.Pt(5, 5)

// InsertPointOnCurve splits the drawing command at commandIndex at
// parameter t, replacing it with the two halves. The split is exact: the
// new coordinates come straight out of the subdivision, not the
// formatter, so the traced shape does not move and every client
// replaying the operation produces identical bytes. Invalid targets are
// ignored.
func (e *Editor) InsertPointOnCurve(id string, commandIndex int, t float64) {
	cmds, ok := e.commands(id)
	if !ok || commandIndex <= 0 || commandIndex >= len(cmds) {
		return
	}
	prev := cmds[commandIndex-1]
	if prev.Kind == path.ClosePath {
		return
	}
	first, second, ok := path.SplitCommand(prev.End, cmds[commandIndex], t)
	if !ok {
		return
	}
	out := make([]path.Command, 0, len(cmds)+1)
	out = append(out, cmds[:commandIndex]...)
	out = append(out, first, second)
	out = append(out, cmds[commandIndex+1:]...)
	e.commit(id, out)
}

// CutSubPathAt severs the subpath after the anchor of commandIndex by
// inserting a MoveTo just past it, offset by (+5,+5). Extraction then
// sees two subpaths. Cutting at a MoveTo or ClosePath is ignored.
func (e *Editor) CutSubPathAt(id string, commandIndex int) {
	cmds, ok := e.commands(id)
	if !ok || commandIndex < 0 || commandIndex >= len(cmds) {
		return
	}
	c := cmds[commandIndex]
	if c.Kind != path.LineTo && c.Kind != path.CurveTo {
		return
	}
	// Nothing follows, or only a Z: there is no tail to detach.
	if commandIndex == len(cmds)-1 {
		return
	}
	out := slices.Insert(slices.Clone(cmds), commandIndex+1, path.Move(c.End.Add(cutOffset)))
	e.commit(id, out)
}
