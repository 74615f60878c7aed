package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lineahq/linea/backend-go/internal/document"
	"github.com/lineahq/linea/backend-go/internal/geometry"
	"github.com/lineahq/linea/backend-go/internal/path"
)

// fakeClock drives the delete debounce in tests.
type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// newTestEditor builds a document with the given elements and an editor
// over it, with a controllable clock.
func newTestEditor(elements map[string][]path.Command) (*Editor, *document.Document, *fakeClock) {
	doc := document.NewEmptyDocument("proj_test", "Test")
	for id, cmds := range elements {
		doc.AddElement(document.Element{
			ID:      id,
			Name:    id,
			Visible: true,
			Path:    document.FromCommands(cmds),
		})
	}
	clock := newFakeClock()
	ed := NewEditor(doc, geometry.Service{}, Options{Now: clock.now})
	return ed, doc, clock
}

func triangle() []path.Command {
	return []path.Command{
		path.Move(path.Pt(0, 0)),
		path.Line(path.Pt(10, 0)),
		path.Line(path.Pt(10, 10)),
		path.Close(),
	}
}

// blob joins two curves at (10,10) with mirrored handles around it.
func blob() []path.Command {
	return []path.Command{
		path.Move(path.Pt(0, 0)),
		path.Curve(path.Pt(0, 10), path.Pt(10, 20), path.Pt(10, 10)),
		path.Curve(path.Pt(10, 0), path.Pt(20, 0), path.Pt(20, 10)),
	}
}

func storedCommands(t *testing.T, doc *document.Document, id string) []path.Command {
	t.Helper()
	data, ok := doc.ElementPath(id)
	require.True(t, ok, "element %s missing", id)
	return data.Commands()
}

func ref(id string, ci, pi int) PointRef {
	return PointRef{Element: id, CommandIndex: ci, PointIndex: pi}
}

func TestSelectPointClick(t *testing.T) {
	ed, _, _ := newTestEditor(map[string][]path.Command{"el": triangle()})

	ed.SelectPoint("el", 1, 0, false)
	assert.Equal(t, []PointRef{ref("el", 1, 0)}, ed.Selection())

	// Clicking another point replaces the selection.
	ed.SelectPoint("el", 2, 0, false)
	assert.Equal(t, []PointRef{ref("el", 2, 0)}, ed.Selection())

	// Clicking the sole selected point clears.
	ed.SelectPoint("el", 2, 0, false)
	assert.Empty(t, ed.Selection())

	// Clicks that resolve to nothing change nothing.
	ed.SelectPoint("el", 9, 0, false)
	ed.SelectPoint("el", 3, 0, false) // ClosePath has no points
	ed.SelectPoint("nope", 0, 0, false)
	assert.Empty(t, ed.Selection())
}

func TestSelectPointShiftRange(t *testing.T) {
	ed, _, _ := newTestEditor(map[string][]path.Command{"el": blob()})

	// Anchor at the MoveTo, shift-click the last end anchor: the whole
	// ordered run joins, control points included.
	ed.SelectPoint("el", 0, 0, false)
	ed.SelectPoint("el", 2, 2, true)
	want := []PointRef{
		ref("el", 0, 0),
		ref("el", 1, 0), ref("el", 1, 1), ref("el", 1, 2),
		ref("el", 2, 0), ref("el", 2, 1), ref("el", 2, 2),
	}
	assert.ElementsMatch(t, want, ed.Selection())
}

func TestSelectPointShiftToggles(t *testing.T) {
	ed, _, _ := newTestEditor(map[string][]path.Command{"el": triangle()})

	// With more than one point selected, shift toggles.
	ed.SelectPoint("el", 0, 0, false)
	ed.SelectPoint("el", 2, 0, true)
	ed.SelectPoint("el", 1, 0, true)
	assert.Len(t, ed.Selection(), 3)
	ed.SelectPoint("el", 1, 0, true)
	assert.ElementsMatch(t, []PointRef{ref("el", 0, 0), ref("el", 2, 0)}, ed.Selection())

	// With nothing selected, shift adds.
	ed.ClearSelection()
	ed.SelectPoint("el", 1, 0, true)
	assert.Equal(t, []PointRef{ref("el", 1, 0)}, ed.Selection())
}

func TestSelectPointShiftAcrossSubPaths(t *testing.T) {
	cmds := []path.Command{
		path.Move(path.Pt(0, 0)), path.Line(path.Pt(10, 0)),
		path.Move(path.Pt(20, 0)), path.Line(path.Pt(30, 0)),
	}
	ed, _, _ := newTestEditor(map[string][]path.Command{"el": cmds})

	// No run across subpaths; the clicked point still joins.
	ed.SelectPoint("el", 0, 0, false)
	ed.SelectPoint("el", 3, 0, true)
	assert.ElementsMatch(t, []PointRef{ref("el", 0, 0), ref("el", 3, 0)}, ed.Selection())
}

func TestSubPathSelectionFilters(t *testing.T) {
	cmds := []path.Command{
		path.Move(path.Pt(0, 0)), path.Line(path.Pt(10, 0)),
		path.Move(path.Pt(20, 0)), path.Line(path.Pt(30, 0)),
	}
	ed, _, _ := newTestEditor(map[string][]path.Command{"el": cmds})

	require.Len(t, ed.FilteredEditablePoints("el"), 4)
	ed.SelectSubPath("el", 1, false)
	assert.Equal(t, []int{1}, ed.SelectedSubPaths("el"))
	assert.Len(t, ed.FilteredEditablePoints("el"), 2)

	// Hidden points can't be clicked.
	ed.SelectPoint("el", 0, 0, false)
	assert.Empty(t, ed.Selection())

	// Narrowing the filter prunes points that fall out of view.
	ed.ClearSubPathSelection("el")
	ed.SelectPoint("el", 0, 0, false)
	ed.SelectSubPath("el", 1, false)
	assert.Empty(t, ed.Selection())

	// Additive toggling in and out.
	ed.SelectSubPath("el", 0, true)
	assert.ElementsMatch(t, []int{0, 1}, ed.SelectedSubPaths("el"))
	ed.SelectSubPath("el", 0, true)
	ed.SelectSubPath("el", 1, true)
	assert.Empty(t, ed.SelectedSubPaths("el"))

	// Out-of-range indexes are ignored.
	ed.SelectSubPath("el", 5, false)
	assert.Empty(t, ed.SelectedSubPaths("el"))
}

func TestMovePointToFormatsCoordinates(t *testing.T) {
	ed, doc, _ := newTestEditor(map[string][]path.Command{"el": triangle()})

	ed.MovePointTo("el", 1, 0, 10.0049, -3.14159)
	got := storedCommands(t, doc, "el")
	assert.Equal(t, path.Pt(10, -3.14), got[1].End)
}

func TestMovePointToInvalidTargets(t *testing.T) {
	ed, doc, _ := newTestEditor(map[string][]path.Command{"el": triangle()})
	before := storedCommands(t, doc, "el")

	ed.MovePointTo("el", -1, 0, 1, 1)
	ed.MovePointTo("el", 9, 0, 1, 1)
	ed.MovePointTo("el", 1, 2, 1, 1) // LineTo has only point 0
	ed.MovePointTo("el", 3, 0, 1, 1) // ClosePath has none
	ed.MovePointTo("ghost", 0, 0, 1, 1)

	assert.Equal(t, before, storedCommands(t, doc, "el"))
}

func TestMoveMirroredHandleDrivesPartner(t *testing.T) {
	ed, doc, _ := newTestEditor(map[string][]path.Command{"el": blob()})

	// Drag the outgoing handle; the incoming one must stay its exact
	// reflection through the anchor.
	ed.MovePointTo("el", 2, 0, 13, 14)
	got := storedCommands(t, doc, "el")
	assert.Equal(t, path.Pt(13, 14), got[2].CP1)
	anchor := path.Pt(10, 10)
	want := path.SolveMirrored(anchor, path.Pt(13, 14))
	assert.Equal(t, want, got[1].CP2)
	assert.Equal(t, path.Pt(7, 6), got[1].CP2)
}

func TestMoveAlignedHandleKeepsPartnerLength(t *testing.T) {
	cmds := blob()
	// Shorten the incoming handle so the pair is aligned, not mirrored.
	cmds[1] = path.Curve(path.Pt(0, 10), path.Pt(10, 15), path.Pt(10, 10))
	ed, doc, _ := newTestEditor(map[string][]path.Command{"el": cmds})

	require.Equal(t, path.Aligned, ed.ResolveAlignment("el", 2, 0).Type)

	ed.MovePointTo("el", 2, 0, 14, 13)
	got := storedCommands(t, doc, "el")
	partner := got[1].CP2
	anchor := path.Pt(10, 10)
	assert.InDelta(t, 5, partner.Sub(anchor).Hypot(), 0.02, "partner length changed")
	// Opposite direction of the driving handle.
	drive := path.Pt(14, 13).Sub(anchor).Normalize()
	back := partner.Sub(anchor).Normalize()
	assert.InDelta(t, -1, drive.Dot(back), 1e-3)
}

func TestMoveIndependentHandleLeavesPartner(t *testing.T) {
	cmds := blob()
	cmds[2] = path.Curve(path.Pt(20, 10), path.Pt(20, 0), path.Pt(20, 10))
	ed, doc, _ := newTestEditor(map[string][]path.Command{"el": cmds})

	require.Equal(t, path.Independent, ed.ResolveAlignment("el", 2, 0).Type)
	ed.MovePointTo("el", 2, 0, 14, 13)
	got := storedCommands(t, doc, "el")
	assert.Equal(t, path.Pt(10, 20), got[1].CP2)
}

func TestMovePointsByGroup(t *testing.T) {
	ed, doc, _ := newTestEditor(map[string][]path.Command{"el": triangle()})

	ed.MovePointsBy([]PointRef{ref("el", 0, 0), ref("el", 1, 0)}, 2, 3)
	got := storedCommands(t, doc, "el")
	assert.Equal(t, path.Pt(2, 3), got[0].End)
	assert.Equal(t, path.Pt(12, 3), got[1].End)
	assert.Equal(t, path.Pt(10, 10), got[2].End)
}

func TestDragLifecycle(t *testing.T) {
	ed, doc, _ := newTestEditor(map[string][]path.Command{"el": triangle()})

	ed.SelectPoint("el", 1, 0, false)
	ed.SelectPoint("el", 2, 0, true)
	ed.BeginDrag()
	require.True(t, ed.Dragging())

	// Frames are absolute against the initial positions, not stacked.
	ed.UpdateDrag(1, 1)
	ed.UpdateDrag(5, -2)
	ed.CommitDrag()
	assert.False(t, ed.Dragging())

	got := storedCommands(t, doc, "el")
	assert.Equal(t, path.Pt(15, -2), got[1].End)
	assert.Equal(t, path.Pt(15, 8), got[2].End)
	assert.Equal(t, path.Pt(0, 0), got[0].End, "unselected anchor moved")
}

func TestDragCancelRestoresPartner(t *testing.T) {
	ed, doc, _ := newTestEditor(map[string][]path.Command{"el": blob()})
	before := storedCommands(t, doc, "el")

	ed.SelectPoint("el", 2, 0, false)
	ed.BeginDrag()
	ed.UpdateDrag(30, 40)

	moved := storedCommands(t, doc, "el")
	require.NotEqual(t, before[1].CP2, moved[1].CP2, "partner should move during drag")

	ed.CancelDrag()
	assert.Equal(t, before, storedCommands(t, doc, "el"))
	assert.False(t, ed.Dragging())
}

func TestDragWithoutSelection(t *testing.T) {
	ed, _, _ := newTestEditor(map[string][]path.Command{"el": triangle()})
	ed.BeginDrag()
	assert.False(t, ed.Dragging())
	ed.UpdateDrag(5, 5) // must not panic
	ed.CommitDrag()
}

func TestSetAlignmentType(t *testing.T) {
	// Perpendicular handles around (10,10): independent until told
	// otherwise.
	cmds := blob()
	cmds[2] = path.Curve(path.Pt(20, 10), path.Pt(20, 0), path.Pt(20, 10))
	ed, doc, _ := newTestEditor(map[string][]path.Command{"el": cmds})
	require.Equal(t, path.Independent, ed.ResolveAlignment("el", 2, 0).Type)

	// Mirror handle (2,0) against handle (1,1).
	ed.SetAlignmentType("el", 2, 0, 1, 1, path.Mirrored)
	got := storedCommands(t, doc, "el")
	assert.Equal(t, path.Pt(10, 0), got[2].CP1)
	assert.Equal(t, path.Mirrored, ed.ResolveAlignment("el", 2, 0).Type)
}

func TestSetAlignmentTypeAligned(t *testing.T) {
	cmds := blob()
	// Handle (2,0) points sideways with length 5.
	cmds[2] = path.Curve(path.Pt(15, 10), path.Pt(20, 0), path.Pt(20, 10))
	ed, doc, _ := newTestEditor(map[string][]path.Command{"el": cmds})

	ed.SetAlignmentType("el", 2, 0, 1, 1, path.Aligned)
	got := storedCommands(t, doc, "el")
	// Opposite of (1,1)'s up direction, keeping its own length 5.
	assert.Equal(t, path.Pt(10, 5), got[2].CP1)
	assert.Equal(t, path.Aligned, ed.ResolveAlignment("el", 2, 0).Type)
}

func TestSetAlignmentTypeRejectsForeignPairs(t *testing.T) {
	cmds := []path.Command{
		path.Move(path.Pt(0, 0)),
		path.Curve(path.Pt(0, 10), path.Pt(10, 20), path.Pt(10, 10)),
		path.Line(path.Pt(40, 10)),
		path.Curve(path.Pt(40, 0), path.Pt(50, 0), path.Pt(50, 10)),
	}
	ed, doc, _ := newTestEditor(map[string][]path.Command{"el": cmds})
	before := storedCommands(t, doc, "el")

	// The two handles sit on anchors 30 units apart.
	ed.SetAlignmentType("el", 3, 0, 1, 1, path.Mirrored)
	assert.Equal(t, before, storedCommands(t, doc, "el"))

	// Anchors are not control points.
	ed.SetAlignmentType("el", 1, 2, 1, 1, path.Mirrored)
	assert.Equal(t, before, storedCommands(t, doc, "el"))
}
