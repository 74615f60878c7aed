package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lineahq/linea/backend-go/internal/path"
)

func TestDeleteAnchorFromTriangle(t *testing.T) {
	ed, doc, _ := newTestEditor(map[string][]path.Command{"el": triangle()})

	ed.SelectPoint("el", 1, 0, false)
	ed.DeleteSelectedPoints()

	got := storedCommands(t, doc, "el")
	want := []path.Command{
		path.Move(path.Pt(0, 0)),
		path.Line(path.Pt(10, 10)),
		path.Close(),
	}
	assert.Equal(t, want, got)
}

func TestDeleteMoveToPromotesSurvivor(t *testing.T) {
	ed, doc, _ := newTestEditor(map[string][]path.Command{"el": triangle()})

	ed.SelectPoint("el", 0, 0, false)
	ed.DeleteSelectedPoints()

	got := storedCommands(t, doc, "el")
	require.NotEmpty(t, got)
	assert.Equal(t, path.Move(path.Pt(10, 0)), got[0])
	assert.Equal(t, path.Close(), got[len(got)-1])
}

func TestDeleteCurveEndRemovesCurve(t *testing.T) {
	ed, doc, _ := newTestEditor(map[string][]path.Command{"el": blob()})

	ed.SelectPoint("el", 1, 2, false)
	ed.DeleteSelectedPoints()

	got := storedCommands(t, doc, "el")
	want := []path.Command{
		path.Move(path.Pt(0, 0)),
		path.Curve(path.Pt(10, 0), path.Pt(20, 0), path.Pt(20, 10)),
	}
	assert.Equal(t, want, got)
}

func TestDeleteControlDegradesCurveToLine(t *testing.T) {
	ed, doc, clock := newTestEditor(map[string][]path.Command{"el": blob()})

	// Only the controls selected: the curve flattens, the anchor stays.
	ed.SelectPoint("el", 1, 0, false)
	ed.SelectPoint("el", 1, 1, true)
	ed.DeleteSelectedPoints()

	got := storedCommands(t, doc, "el")
	assert.Equal(t, path.Line(path.Pt(10, 10)), got[1])
	assert.Equal(t, path.CurveTo, got[2].Kind, "second curve touched")

	// Control plus end anchor on the same curve: the anchor wins and
	// the command goes away.
	clock.advance(time.Second)
	ed.SelectPoint("el", 2, 0, false)
	ed.SelectPoint("el", 2, 2, true)
	ed.DeleteSelectedPoints()
	got = storedCommands(t, doc, "el")
	assert.Equal(t, []path.Command{path.Move(path.Pt(0, 0)), path.Line(path.Pt(10, 10))}, got)
}

func TestDeleteMultipleDescending(t *testing.T) {
	cmds := []path.Command{
		path.Move(path.Pt(0, 0)),
		path.Line(path.Pt(10, 0)),
		path.Line(path.Pt(20, 0)),
		path.Line(path.Pt(30, 0)),
		path.Line(path.Pt(40, 0)),
	}
	ed, doc, _ := newTestEditor(map[string][]path.Command{"el": cmds})

	// Deleting 1 and 3 in one gesture must hit the commands the refs
	// named, not their shifted neighbors.
	ed.DeletePoints([]PointRef{ref("el", 1, 0), ref("el", 3, 0)})
	got := storedCommands(t, doc, "el")
	want := []path.Command{
		path.Move(path.Pt(0, 0)),
		path.Line(path.Pt(20, 0)),
		path.Line(path.Pt(40, 0)),
	}
	assert.Equal(t, want, got)
}

func TestDeleteWholeElement(t *testing.T) {
	ed, doc, _ := newTestEditor(map[string][]path.Command{"el": {
		path.Move(path.Pt(0, 0)),
		path.Line(path.Pt(10, 0)),
	}})

	ed.SelectPoint("el", 0, 0, false)
	ed.SelectPoint("el", 1, 0, true)
	ed.DeleteSelectedPoints()

	_, ok := doc.Element("el")
	assert.False(t, ok, "element should be gone once nothing draws")
	assert.Empty(t, ed.Selection())
}

func TestDeleteDebounce(t *testing.T) {
	ed, doc, clock := newTestEditor(map[string][]path.Command{"el": {
		path.Move(path.Pt(0, 0)),
		path.Line(path.Pt(10, 0)),
		path.Line(path.Pt(20, 0)),
		path.Line(path.Pt(30, 0)),
	}})

	ed.SelectPoint("el", 1, 0, false)
	ed.DeleteSelectedPoints()
	require.Len(t, storedCommands(t, doc, "el"), 3)

	// The reselected anchor makes an immediate repeat destructive;
	// inside the window it must be dropped.
	clock.advance(120 * time.Millisecond)
	ed.DeleteSelectedPoints()
	assert.Len(t, storedCommands(t, doc, "el"), 3, "repeat inside window fired")

	clock.advance(200 * time.Millisecond)
	ed.DeleteSelectedPoints()
	assert.Len(t, storedCommands(t, doc, "el"), 2)
}

func TestDeleteEmptySelectionKeepsWindowClosed(t *testing.T) {
	ed, doc, clock := newTestEditor(map[string][]path.Command{"el": triangle()})

	// A delete with nothing selected must not arm the debounce window.
	ed.DeleteSelectedPoints()
	clock.advance(10 * time.Millisecond)
	ed.SelectPoint("el", 1, 0, false)
	ed.DeleteSelectedPoints()
	assert.Len(t, storedCommands(t, doc, "el"), 3)
}

func TestDeleteReselectsForwardAnchor(t *testing.T) {
	ed, doc, clock := newTestEditor(map[string][]path.Command{"el": {
		path.Move(path.Pt(0, 0)),
		path.Line(path.Pt(10, 0)),
		path.Line(path.Pt(20, 0)),
		path.Line(path.Pt(30, 0)),
	}})

	ed.SelectPoint("el", 1, 0, false)
	ed.DeleteSelectedPoints()

	// (20,0) is the next surviving anchor; it now lives at index 1.
	assert.Equal(t, []PointRef{ref("el", 1, 0)}, ed.Selection())
	got := storedCommands(t, doc, "el")
	assert.Equal(t, path.Pt(20, 0), got[1].End)

	// Chain deletes walk forward along the path.
	clock.advance(time.Second)
	ed.DeleteSelectedPoints()
	assert.Equal(t, []PointRef{ref("el", 1, 0)}, ed.Selection())
	got = storedCommands(t, doc, "el")
	assert.Equal(t, path.Pt(30, 0), got[1].End)
}

func TestDeleteReselectsBackwardAtPathEnd(t *testing.T) {
	ed, _, _ := newTestEditor(map[string][]path.Command{"el": {
		path.Move(path.Pt(0, 0)),
		path.Line(path.Pt(10, 0)),
		path.Line(path.Pt(20, 0)),
	}})

	// Deleting the last anchor falls back to the previous one.
	ed.SelectPoint("el", 2, 0, false)
	ed.DeleteSelectedPoints()
	assert.Equal(t, []PointRef{ref("el", 1, 0)}, ed.Selection())
}

func TestDeleteIgnoresInvalidRefs(t *testing.T) {
	ed, doc, _ := newTestEditor(map[string][]path.Command{"el": triangle()})
	before := storedCommands(t, doc, "el")

	ed.DeletePoints([]PointRef{
		ref("el", -1, 0),
		ref("el", 9, 0),
		ref("el", 3, 0), // ClosePath carries no points
		ref("ghost", 0, 0),
	})
	assert.Equal(t, before, storedCommands(t, doc, "el"))
}
