package collab

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lineahq/linea/backend-go/internal/document"
	"github.com/lineahq/linea/backend-go/internal/engine"
	"github.com/lineahq/linea/backend-go/internal/path"
)

func roomDoc() *document.Document {
	doc := document.NewEmptyDocument("proj_room", "Room")
	// The handles around (10,10) are deliberately not a mirrored pair.
	doc.AddElement(document.Element{
		ID:      "el1",
		Name:    "Wave",
		Visible: true,
		Path: document.FromCommands([]path.Command{
			path.Move(path.Pt(0, 0)),
			path.Curve(path.Pt(0, 10), path.Pt(10, 20), path.Pt(10, 10)),
			path.Curve(path.Pt(15, 10), path.Pt(20, 0), path.Pt(20, 10)),
		}),
	})
	doc.AddElement(document.Element{
		ID:      "el2",
		Name:    "Bar",
		Visible: true,
		Path: document.FromCommands([]path.Command{
			path.Move(path.Pt(100, 0)),
			path.Line(path.Pt(110, 0)),
			path.Line(path.Pt(110, 10)),
			path.Close(),
		}),
	})
	return doc
}

func elementCommands(t *testing.T, ds *DocumentState, id string) []path.Command {
	t.Helper()
	data, ok := ds.doc.ElementPath(id)
	require.True(t, ok, "element %s missing", id)
	return data.Commands()
}

func pref(el string, ci, pi int) engine.PointRef {
	return engine.PointRef{Element: el, CommandIndex: ci, PointIndex: pi}
}

func TestApplyMovePoints(t *testing.T) {
	ds := NewDocumentState(roomDoc())

	seq, err := ds.ApplyOperation(Operation{
		ID:     "op1",
		Type:   OpMovePoints,
		Points: []engine.PointRef{pref("el2", 1, 0)},
		DX:     2,
		DY:     3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)

	got := elementCommands(t, ds, "el2")
	assert.Equal(t, path.Pt(112, 3), got[1].End)
	assert.True(t, ds.Dirty())
}

func TestApplyInsertAndDelete(t *testing.T) {
	ds := NewDocumentState(roomDoc())

	_, err := ds.ApplyOperation(Operation{
		Type:         OpInsertPoint,
		ElementID:    "el1",
		CommandIndex: 1,
		T:            0.5,
	})
	require.NoError(t, err)
	require.Len(t, elementCommands(t, ds, "el1"), 4)

	_, err = ds.ApplyOperation(Operation{
		Type:   OpDeletePoints,
		Points: []engine.PointRef{pref("el1", 1, 2)},
	})
	require.NoError(t, err)
	assert.Len(t, elementCommands(t, ds, "el1"), 3)
}

func TestApplyStalePathTargetStillAcks(t *testing.T) {
	ds := NewDocumentState(roomDoc())

	// A concurrent edit may have removed the target; the operation is a
	// harmless no-op, not an error.
	seq, err := ds.ApplyOperation(Operation{
		Type:         OpInsertPoint,
		ElementID:    "ghost",
		CommandIndex: 1,
		T:            0.5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)
}

func TestApplyUnknownOperation(t *testing.T) {
	ds := NewDocumentState(roomDoc())

	_, err := ds.ApplyOperation(Operation{Type: "path.teleport"})
	require.Error(t, err)
	assert.False(t, ds.Dirty())

	_, err = ds.ApplyOperation(Operation{Type: OpConvertCommand, ElementID: "el2", CommandIndex: 1, TargetKind: "spiral"})
	require.Error(t, err)

	_, err = ds.ApplyOperation(Operation{Type: OpAlignPoints, Strategy: "diagonal"})
	require.Error(t, err)

	// Sequence numbers are only spent on applied operations.
	seq, err := ds.ApplyOperation(Operation{
		Type:   OpMovePoints,
		Points: []engine.PointRef{pref("el2", 1, 0)},
		DX:     1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)
}

func TestApplySetAlignment(t *testing.T) {
	ds := NewDocumentState(roomDoc())

	_, err := ds.ApplyOperation(Operation{
		Type:             OpSetAlignment,
		ElementID:        "el1",
		CommandIndex:     2,
		PointIndex:       0,
		PairCommandIndex: 1,
		PairPointIndex:   1,
		AlignKind:        "mirrored",
	})
	require.NoError(t, err)

	got := elementCommands(t, ds, "el1")
	assert.Equal(t, path.Pt(10, 0), got[2].CP1, "handle should mirror its partner")
}

func TestApplySmoothBrush(t *testing.T) {
	doc := document.NewEmptyDocument("proj_room", "Room")
	doc.AddElement(document.Element{
		ID: "z", Visible: true,
		Path: document.FromCommands([]path.Command{
			path.Move(path.Pt(0, 0)),
			path.Line(path.Pt(5, 8)),
			path.Line(path.Pt(10, 0)),
		}),
	})
	ds := NewDocumentState(doc)

	_, err := ds.ApplyOperation(Operation{
		Type:      OpSmooth,
		ElementID: "z",
		Points:    []engine.PointRef{pref("z", 1, 0)},
		Brush:     &BrushParams{Strength: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, path.Pt(5, 0), elementCommands(t, ds, "z")[1].End)
}

func TestApplyElementLifecycle(t *testing.T) {
	ds := NewDocumentState(roomDoc())

	el := document.Element{
		ID: "el3", Name: "New", Visible: true,
		Path: document.FromCommands([]path.Command{
			path.Move(path.Pt(0, 0)),
			path.Line(path.Pt(1, 1)),
		}),
	}
	raw, err := json.Marshal(el)
	require.NoError(t, err)

	_, err = ds.ApplyOperation(Operation{Type: OpElementCreate, Element: raw})
	require.NoError(t, err)
	assert.Contains(t, ds.doc.Order, "el3")

	// Duplicate IDs are rejected.
	_, err = ds.ApplyOperation(Operation{Type: OpElementCreate, Element: raw})
	require.Error(t, err)

	_, err = ds.ApplyOperation(Operation{
		Type:      OpElementStyle,
		ElementID: "el3",
		Style:     json.RawMessage(`{"fill":"#53d769","strokeWidth":2.5,"visible":false}`),
	})
	require.NoError(t, err)
	got := ds.doc.Elements["el3"]
	assert.Equal(t, "#53d769", got.Style.Fill)
	assert.Equal(t, 2.5, got.Style.StrokeWidth)
	assert.False(t, got.Visible)

	_, err = ds.ApplyOperation(Operation{Type: OpElementRename, ElementID: "el3", Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", ds.doc.Elements["el3"].Name)

	_, err = ds.ApplyOperation(Operation{Type: OpElementDelete, ElementID: "el3"})
	require.NoError(t, err)
	assert.NotContains(t, ds.doc.Order, "el3")

	_, err = ds.ApplyOperation(Operation{Type: OpElementDelete, ElementID: "el3"})
	require.Error(t, err, "deleting twice should fail")
}

func TestApplyProjectRename(t *testing.T) {
	ds := NewDocumentState(roomDoc())
	_, err := ds.ApplyOperation(Operation{Type: OpProjectRename, Name: "Redesign"})
	require.NoError(t, err)
	assert.Equal(t, "Redesign", ds.doc.Project.Name)
}

// TestReplayConvergence drives two independent replicas through the
// same operation log and requires identical serialized documents. The
// log leans on derived coordinates (curve splits at an awkward t,
// alignment solving) to catch any hidden nondeterminism.
func TestReplayConvergence(t *testing.T) {
	ops := []Operation{
		{Type: OpInsertPoint, ElementID: "el1", CommandIndex: 1, T: 0.37},
		{Type: OpMovePoints, Points: []engine.PointRef{pref("el1", 2, 2)}, DX: 1.5, DY: -2.25},
		{Type: OpSetAlignment, ElementID: "el1", CommandIndex: 3, PointIndex: 0,
			PairCommandIndex: 2, PairPointIndex: 1, AlignKind: "aligned"},
		{Type: OpDistributePoints, Axis: "y", Points: []engine.PointRef{
			pref("el2", 0, 0), pref("el2", 1, 0), pref("el2", 2, 0),
		}},
		{Type: OpRound, ElementID: "el2", Radius: 2},
		{Type: OpProjectRename, Name: "Converged"},
	}

	a := NewDocumentState(roomDoc())
	b := NewDocumentState(roomDoc())
	for i, op := range ops {
		_, errA := a.ApplyOperation(op)
		_, errB := b.ApplyOperation(op)
		require.NoError(t, errA, "op %d", i)
		require.NoError(t, errB, "op %d", i)
	}

	docA, seqA, err := a.Snapshot()
	require.NoError(t, err)
	docB, seqB, err := b.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, seqA, seqB)
	assert.Equal(t, string(docA), string(docB))
}

func TestSnapshotDirtyLifecycle(t *testing.T) {
	ds := NewDocumentState(roomDoc())
	require.False(t, ds.Dirty())

	_, err := ds.ApplyOperation(Operation{
		Type:   OpMovePoints,
		Points: []engine.PointRef{pref("el2", 1, 0)},
		DX:     1,
	})
	require.NoError(t, err)
	require.True(t, ds.Dirty())

	_, seq, err := ds.Snapshot()
	require.NoError(t, err)
	ds.markClean(seq)
	assert.False(t, ds.Dirty())

	// A snapshot that predates new edits must not clear the flag.
	_, err = ds.ApplyOperation(Operation{
		Type:   OpMovePoints,
		Points: []engine.PointRef{pref("el2", 1, 0)},
		DY:     1,
	})
	require.NoError(t, err)
	ds.markClean(seq)
	assert.True(t, ds.Dirty())
}
