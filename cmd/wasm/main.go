//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/lineahq/linea/backend-go/internal/document"
	"github.com/lineahq/linea/backend-go/internal/engine"
	"github.com/lineahq/linea/backend-go/internal/geometry"
	"github.com/lineahq/linea/backend-go/internal/path"
)

var (
	doc    *document.Document
	editor *engine.Editor
)

func main() {
	// Create the editor API object
	lineaEditor := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	lineaEditor.Set("loadDocument", js.FuncOf(loadDocument))
	lineaEditor.Set("updateDocument", js.FuncOf(updateDocument))
	lineaEditor.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	lineaEditor.Set("selectPoint", js.FuncOf(selectPoint))
	lineaEditor.Set("selectSubPath", js.FuncOf(selectSubPath))
	lineaEditor.Set("clearSubPathSelection", js.FuncOf(clearSubPathSelection))
	lineaEditor.Set("clearSelection", js.FuncOf(clearSelection))
	lineaEditor.Set("beginDrag", js.FuncOf(beginDrag))
	lineaEditor.Set("updateDrag", js.FuncOf(updateDrag))
	lineaEditor.Set("commitDrag", js.FuncOf(commitDrag))
	lineaEditor.Set("cancelDrag", js.FuncOf(cancelDrag))
	lineaEditor.Set("movePointTo", js.FuncOf(movePointTo))
	lineaEditor.Set("applyAlignment", js.FuncOf(applyAlignment))
	lineaEditor.Set("moveSelectedBy", js.FuncOf(moveSelectedBy))
	lineaEditor.Set("setAlignmentType", js.FuncOf(setAlignmentType))
	lineaEditor.Set("deleteSelectedPoints", js.FuncOf(deleteSelectedPoints))
	lineaEditor.Set("insertPointOnCurve", js.FuncOf(insertPointOnCurve))
	lineaEditor.Set("cutSubPath", js.FuncOf(cutSubPath))
	lineaEditor.Set("convertToCurve", js.FuncOf(convertToCurve))
	lineaEditor.Set("convertToLine", js.FuncOf(convertToLine))
	lineaEditor.Set("removeClosePath", js.FuncOf(removeClosePath))
	lineaEditor.Set("closePathToLine", js.FuncOf(closePathToLine))
	lineaEditor.Set("smooth", js.FuncOf(smooth))
	lineaEditor.Set("simplifyElement", js.FuncOf(simplifyElement))
	lineaEditor.Set("roundElement", js.FuncOf(roundElement))
	lineaEditor.Set("alignSelected", js.FuncOf(alignSelected))
	lineaEditor.Set("distributeSelected", js.FuncOf(distributeSelected))

	// --- Queries (frontend ← backend) ---
	lineaEditor.Set("getDocument", js.FuncOf(getDocument))
	lineaEditor.Set("getEditablePoints", js.FuncOf(getEditablePoints))
	lineaEditor.Set("getAlignment", js.FuncOf(getAlignment))
	lineaEditor.Set("getSelection", js.FuncOf(getSelection))
	lineaEditor.Set("getSelectedSubPaths", js.FuncOf(getSelectedSubPaths))
	lineaEditor.Set("isDragging", js.FuncOf(isDragging))

	// Register on global scope
	js.Global().Set("lineaEditor", lineaEditor)

	// Signal that WASM is ready
	js.Global().Set("lineaWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func okResult() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func errResult(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": msg})
}

// --- Command Handlers ---

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errResult("missing document JSON")
	}

	var d document.Document
	if err := json.Unmarshal([]byte(args[0].String()), &d); err != nil {
		return errResult(err.Error())
	}

	doc = &d
	editor = engine.NewEditor(doc, geometry.Service{}, engine.Options{})
	return okResult()
}

// updateDocument replaces the document contents in place, keeping the
// editor session (selection, drag state) alive across remote syncs.
func updateDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errResult("missing document JSON")
	}
	if doc == nil {
		return loadDocument(this, args)
	}

	var d document.Document
	if err := json.Unmarshal([]byte(args[0].String()), &d); err != nil {
		return errResult(err.Error())
	}

	*doc = d
	return okResult()
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	projectID := "proj_sample"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		projectID = args[0].String()
	}

	doc = document.NewSampleDocument(projectID)
	editor = engine.NewEditor(doc, geometry.Service{}, engine.Options{})
	return okResult()
}

func selectPoint(this js.Value, args []js.Value) interface{} {
	if editor == nil || len(args) < 4 {
		return nil
	}
	editor.SelectPoint(args[0].String(), args[1].Int(), args[2].Int(), args[3].Bool())
	return nil
}

func selectSubPath(this js.Value, args []js.Value) interface{} {
	if editor == nil || len(args) < 3 {
		return nil
	}
	editor.SelectSubPath(args[0].String(), args[1].Int(), args[2].Bool())
	return nil
}

func clearSubPathSelection(this js.Value, args []js.Value) interface{} {
	if editor == nil || len(args) < 1 {
		return nil
	}
	editor.ClearSubPathSelection(args[0].String())
	return nil
}

func clearSelection(this js.Value, args []js.Value) interface{} {
	if editor == nil {
		return nil
	}
	editor.ClearSelection()
	return nil
}

func beginDrag(this js.Value, args []js.Value) interface{} {
	if editor == nil {
		return nil
	}
	editor.BeginDrag()
	return nil
}

func updateDrag(this js.Value, args []js.Value) interface{} {
	if editor == nil || len(args) < 2 {
		return nil
	}
	editor.UpdateDrag(args[0].Float(), args[1].Float())
	return nil
}

func commitDrag(this js.Value, args []js.Value) interface{} {
	if editor == nil {
		return nil
	}
	editor.CommitDrag()
	return nil
}

func cancelDrag(this js.Value, args []js.Value) interface{} {
	if editor == nil {
		return nil
	}
	editor.CancelDrag()
	return nil
}

func movePointTo(this js.Value, args []js.Value) interface{} {
	if editor == nil || len(args) < 5 {
		return nil
	}
	editor.MovePointTo(args[0].String(), args[1].Int(), args[2].Int(), args[3].Float(), args[4].Float())
	return nil
}

func applyAlignment(this js.Value, args []js.Value) interface{} {
	if editor == nil || len(args) < 5 {
		return nil
	}
	editor.ApplyAlignment(args[0].String(), args[1].Int(), args[2].Int(), args[3].Float(), args[4].Float())
	return nil
}

func moveSelectedBy(this js.Value, args []js.Value) interface{} {
	if editor == nil || len(args) < 2 {
		return nil
	}
	editor.MovePointsBy(editor.Selection(), args[0].Float(), args[1].Float())
	return nil
}

func setAlignmentType(this js.Value, args []js.Value) interface{} {
	if editor == nil || len(args) < 6 {
		return nil
	}
	typ, ok := path.ParseAlignmentType(args[5].String())
	if !ok {
		return nil
	}
	editor.SetAlignmentType(args[0].String(), args[1].Int(), args[2].Int(), args[3].Int(), args[4].Int(), typ)
	return nil
}

func deleteSelectedPoints(this js.Value, args []js.Value) interface{} {
	if editor == nil {
		return nil
	}
	editor.DeleteSelectedPoints()
	return nil
}

func insertPointOnCurve(this js.Value, args []js.Value) interface{} {
	if editor == nil || len(args) < 3 {
		return nil
	}
	editor.InsertPointOnCurve(args[0].String(), args[1].Int(), args[2].Float())
	return nil
}

func cutSubPath(this js.Value, args []js.Value) interface{} {
	if editor == nil || len(args) < 2 {
		return nil
	}
	editor.CutSubPathAt(args[0].String(), args[1].Int())
	return nil
}

func convertToCurve(this js.Value, args []js.Value) interface{} {
	if editor == nil || len(args) < 2 {
		return nil
	}
	editor.ConvertToCurve(args[0].String(), args[1].Int())
	return nil
}

func convertToLine(this js.Value, args []js.Value) interface{} {
	if editor == nil || len(args) < 2 {
		return nil
	}
	editor.ConvertToLine(args[0].String(), args[1].Int())
	return nil
}

func removeClosePath(this js.Value, args []js.Value) interface{} {
	if editor == nil || len(args) < 2 {
		return nil
	}
	editor.RemoveClosePath(args[0].String(), args[1].Int())
	return nil
}

func closePathToLine(this js.Value, args []js.Value) interface{} {
	if editor == nil || len(args) < 2 {
		return nil
	}
	editor.ClosePathToLine(args[0].String(), args[1].Int())
	return nil
}

type brushParams struct {
	CenterX     *float64 `json:"centerX"`
	CenterY     *float64 `json:"centerY"`
	Radius      float64  `json:"radius"`
	Strength    float64  `json:"strength"`
	Simplify    bool     `json:"simplify"`
	Tolerance   float64  `json:"tolerance"`
	MinDistance float64  `json:"minDistance"`
}

func smooth(this js.Value, args []js.Value) interface{} {
	if editor == nil || len(args) < 2 {
		return nil
	}

	var p brushParams
	if err := json.Unmarshal([]byte(args[1].String()), &p); err != nil {
		return nil
	}

	opts := engine.BrushOptions{
		Radius:      p.Radius,
		Strength:    p.Strength,
		Simplify:    p.Simplify,
		Tolerance:   p.Tolerance,
		MinDistance: p.MinDistance,
	}
	if p.CenterX != nil && p.CenterY != nil {
		center := path.Pt(*p.CenterX, *p.CenterY)
		opts.Center = &center
	}

	editor.Smooth(args[0].String(), opts)
	return nil
}

func simplifyElement(this js.Value, args []js.Value) interface{} {
	if editor == nil || len(args) < 2 {
		return nil
	}
	editor.SimplifyElement(args[0].String(), args[1].Float())
	return nil
}

func roundElement(this js.Value, args []js.Value) interface{} {
	if editor == nil || len(args) < 2 {
		return nil
	}
	editor.RoundElement(args[0].String(), args[1].Float())
	return nil
}

func alignSelected(this js.Value, args []js.Value) interface{} {
	if editor == nil || len(args) < 1 {
		return nil
	}
	strategy, ok := engine.ParseAlignStrategy(args[0].String())
	if !ok {
		return nil
	}
	editor.AlignSelected(strategy)
	return nil
}

func distributeSelected(this js.Value, args []js.Value) interface{} {
	if editor == nil || len(args) < 1 {
		return nil
	}
	axis, ok := engine.ParseAxis(args[0].String())
	if !ok {
		return nil
	}
	editor.DistributeSelected(axis)
	return nil
}

// --- Query Handlers ---

func getDocument(this js.Value, args []js.Value) interface{} {
	if doc == nil {
		return js.ValueOf("")
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return js.ValueOf("")
	}
	return js.ValueOf(string(b))
}

type pointJSON struct {
	CommandIndex int     `json:"commandIndex"`
	PointIndex   int     `json:"pointIndex"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	IsControl    bool    `json:"isControl"`
	AnchorX      float64 `json:"anchorX"`
	AnchorY      float64 `json:"anchorY"`
}

func getEditablePoints(this js.Value, args []js.Value) interface{} {
	if editor == nil || len(args) < 1 {
		return js.ValueOf("[]")
	}

	pts := editor.FilteredEditablePoints(args[0].String())
	out := make([]pointJSON, len(pts))
	for i, p := range pts {
		out[i] = pointJSON{
			CommandIndex: p.CommandIndex,
			PointIndex:   p.PointIndex,
			X:            p.Position.X,
			Y:            p.Position.Y,
			IsControl:    p.IsControl,
			AnchorX:      p.Anchor.X,
			AnchorY:      p.Anchor.Y,
		}
	}

	b, err := json.Marshal(out)
	if err != nil {
		return js.ValueOf("[]")
	}
	return js.ValueOf(string(b))
}

type alignmentJSON struct {
	Type               string `json:"type"`
	PairedCommandIndex int    `json:"pairedCommandIndex"`
	PairedPointIndex   int    `json:"pairedPointIndex"`
}

func getAlignment(this js.Value, args []js.Value) interface{} {
	if editor == nil || len(args) < 3 {
		return js.ValueOf("{}")
	}

	al := editor.ResolveAlignment(args[0].String(), args[1].Int(), args[2].Int())
	b, err := json.Marshal(alignmentJSON{
		Type:               al.Type.String(),
		PairedCommandIndex: al.PairedCommandIndex,
		PairedPointIndex:   al.PairedPointIndex,
	})
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(string(b))
}

func getSelection(this js.Value, args []js.Value) interface{} {
	if editor == nil {
		return js.ValueOf("[]")
	}
	b, err := json.Marshal(editor.Selection())
	if err != nil {
		return js.ValueOf("[]")
	}
	return js.ValueOf(string(b))
}

func getSelectedSubPaths(this js.Value, args []js.Value) interface{} {
	if editor == nil || len(args) < 1 {
		return js.ValueOf("[]")
	}
	b, err := json.Marshal(editor.SelectedSubPaths(args[0].String()))
	if err != nil {
		return js.ValueOf("[]")
	}
	return js.ValueOf(string(b))
}

func isDragging(this js.Value, args []js.Value) interface{} {
	if editor == nil {
		return js.ValueOf(false)
	}
	return js.ValueOf(editor.Dragging())
}
