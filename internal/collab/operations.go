package collab

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/lineahq/linea/backend-go/internal/document"
	"github.com/lineahq/linea/backend-go/internal/engine"
	"github.com/lineahq/linea/backend-go/internal/geometry"
	"github.com/lineahq/linea/backend-go/internal/path"
)

// DocumentState holds a room's authoritative document and the editor
// all operations funnel through. Path operations name their targets
// explicitly and the engine derives coordinates with plain float
// arithmetic, so replicas replaying the same log converge byte for
// byte.
type DocumentState struct {
	mu        sync.RWMutex
	doc       *document.Document
	editor    *engine.Editor
	serverSeq int64
	dirty     bool
	opLog     []Operation
}

// NewDocumentState wraps a loaded document for collaborative editing.
func NewDocumentState(doc *document.Document) *DocumentState {
	return &DocumentState{
		doc:    doc,
		editor: engine.NewEditor(doc, geometry.Service{}, engine.Options{}),
		opLog:  make([]Operation, 0),
	}
}

// Snapshot marshals the current document, returning the sequence number
// it reflects.
func (ds *DocumentState) Snapshot() (json.RawMessage, int64, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	data, err := json.Marshal(ds.doc)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal document: %w", err)
	}
	return data, ds.serverSeq, nil
}

// Dirty reports whether the document changed since the last save.
func (ds *DocumentState) Dirty() bool {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.dirty
}

// markClean clears the dirty flag, unless more operations landed after
// the snapshot at seq was taken.
func (ds *DocumentState) markClean(seq int64) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if ds.serverSeq == seq {
		ds.dirty = false
	}
}

// ApplyOperation applies one operation and returns the server sequence
// it was assigned. A failed operation changes nothing and gets no
// sequence number.
func (ds *DocumentState) ApplyOperation(op Operation) (int64, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if err := ds.applyLocked(op); err != nil {
		return 0, err
	}

	ds.serverSeq++
	ds.dirty = true
	ds.opLog = append(ds.opLog, op)

	return ds.serverSeq, nil
}

// applyLocked dispatches by operation type. Unknown types and malformed
// payloads error (the sender gets a nack); path operations aimed at
// targets that no longer exist are silent no-ops, because a concurrent
// edit having removed the target is normal, not a protocol violation.
func (ds *DocumentState) applyLocked(op Operation) error {
	switch op.Type {
	case OpMovePoints:
		ds.editor.MovePointsBy(op.Points, op.DX, op.DY)
	case OpDeletePoints:
		ds.editor.DeletePoints(op.Points)
	case OpInsertPoint:
		ds.editor.InsertPointOnCurve(op.ElementID, op.CommandIndex, op.T)
	case OpCutSubPath:
		ds.editor.CutSubPathAt(op.ElementID, op.CommandIndex)
	case OpConvertCommand:
		switch op.TargetKind {
		case "curve":
			ds.editor.ConvertToCurve(op.ElementID, op.CommandIndex)
		case "line":
			ds.editor.ConvertToLine(op.ElementID, op.CommandIndex)
		default:
			return fmt.Errorf("unknown convert target: %q", op.TargetKind)
		}
	case OpSetAlignment:
		kind, ok := path.ParseAlignmentType(op.AlignKind)
		if !ok {
			return fmt.Errorf("unknown alignment type: %q", op.AlignKind)
		}
		ds.editor.SetAlignmentType(op.ElementID, op.CommandIndex, op.PointIndex,
			op.PairCommandIndex, op.PairPointIndex, kind)
	case OpDeleteClose:
		ds.editor.RemoveClosePath(op.ElementID, op.CommandIndex)
	case OpCloseToLine:
		ds.editor.ClosePathToLine(op.ElementID, op.CommandIndex)
	case OpSmooth:
		ds.applySmooth(op)
	case OpSimplify:
		ds.withSubPathScope(op, func() {
			ds.editor.SimplifyElement(op.ElementID, op.Tolerance)
		})
	case OpRound:
		ds.withSubPathScope(op, func() {
			ds.editor.RoundElement(op.ElementID, op.Radius)
		})
	case OpAlignPoints:
		strategy, ok := engine.ParseAlignStrategy(op.Strategy)
		if !ok {
			return fmt.Errorf("unknown align strategy: %q", op.Strategy)
		}
		ds.editor.AlignPoints(op.Points, strategy)
	case OpDistributePoints:
		axis, ok := engine.ParseAxis(op.Axis)
		if !ok {
			return fmt.Errorf("unknown axis: %q", op.Axis)
		}
		ds.editor.DistributePoints(op.Points, axis)
	case OpElementCreate:
		return ds.applyElementCreate(op)
	case OpElementDelete:
		return ds.applyElementDelete(op)
	case OpElementStyle:
		return ds.applyElementStyle(op)
	case OpElementRename:
		return ds.applyElementRename(op)
	case OpProjectRename:
		ds.doc.Project.Name = op.Name
	default:
		return fmt.Errorf("unknown operation type: %s", op.Type)
	}
	return nil
}

func (ds *DocumentState) applySmooth(op Operation) {
	var opts engine.BrushOptions
	if op.Brush != nil {
		if op.Brush.Center != nil {
			c := path.Pt(op.Brush.Center.X, op.Brush.Center.Y)
			opts.Center = &c
		}
		opts.Radius = op.Brush.Radius
		opts.Strength = op.Brush.Strength
		opts.Simplify = op.Brush.Simplify
		opts.Tolerance = op.Brush.Tolerance
		opts.MinDistance = op.Brush.MinDistance
	}
	if opts.Center != nil {
		ds.editor.Smooth(op.ElementID, opts)
		return
	}
	ds.editor.SmoothPoints(op.ElementID, op.Points, opts)
}

// withSubPathScope applies fn with the operation's subpath indexes as
// the editor's subpath filter, then clears it again. The room editor
// carries no user selection of its own, so the scope is all there is to
// restore.
func (ds *DocumentState) withSubPathScope(op Operation, fn func()) {
	ds.editor.ClearSubPathSelection(op.ElementID)
	for _, si := range op.SubPathIndexes {
		ds.editor.SelectSubPath(op.ElementID, si, true)
	}
	fn()
	ds.editor.ClearSubPathSelection(op.ElementID)
}

func (ds *DocumentState) applyElementCreate(op Operation) error {
	var el document.Element
	if err := json.Unmarshal(op.Element, &el); err != nil {
		return fmt.Errorf("invalid element: %w", err)
	}
	if el.ID == "" {
		return fmt.Errorf("element missing id")
	}
	if _, exists := ds.doc.Elements[el.ID]; exists {
		return fmt.Errorf("element already exists: %s", el.ID)
	}
	ds.doc.AddElement(el)
	return nil
}

func (ds *DocumentState) applyElementDelete(op Operation) error {
	if _, ok := ds.doc.Elements[op.ElementID]; !ok {
		return fmt.Errorf("element not found: %s", op.ElementID)
	}
	ds.doc.DeleteElement(op.ElementID)
	return nil
}

func (ds *DocumentState) applyElementStyle(op Operation) error {
	el, ok := ds.doc.Elements[op.ElementID]
	if !ok {
		return fmt.Errorf("element not found: %s", op.ElementID)
	}

	var changes map[string]interface{}
	if err := json.Unmarshal(op.Style, &changes); err != nil {
		return fmt.Errorf("invalid style: %w", err)
	}

	if v, ok := changes["fill"].(string); ok {
		el.Style.Fill = v
	}
	if v, ok := changes["stroke"].(string); ok {
		el.Style.Stroke = v
	}
	if v, ok := changes["strokeWidth"].(float64); ok {
		el.Style.StrokeWidth = v
	}
	if v, ok := changes["opacity"].(float64); ok {
		el.Style.Opacity = v
	}
	if v, ok := changes["visible"].(bool); ok {
		el.Visible = v
	}
	if v, ok := changes["locked"].(bool); ok {
		el.Locked = v
	}

	ds.doc.Elements[op.ElementID] = el
	return nil
}

func (ds *DocumentState) applyElementRename(op Operation) error {
	el, ok := ds.doc.Elements[op.ElementID]
	if !ok {
		return fmt.Errorf("element not found: %s", op.ElementID)
	}
	el.Name = op.Name
	ds.doc.Elements[op.ElementID] = el
	return nil
}

// GetServerTimestamp returns the current server timestamp
func GetServerTimestamp() int64 {
	return time.Now().UnixMilli()
}
