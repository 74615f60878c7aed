// Package engine implements interactive path editing over a document:
// point extraction, selection, drags, structural mutations, smoothing
// and arrangement. The editor owns no geometry state of its own; every
// query derives from the stored commands, and every mutation ends the
// same way: rebuild commands, normalize, split into subpaths, replace
// the element's path.
package engine

import (
	"slices"
	"time"

	"github.com/lineahq/linea/backend-go/internal/document"
	"github.com/lineahq/linea/backend-go/internal/path"
)

// ElementStore is the slice of the document the editor works through.
// *document.Document satisfies it.
type ElementStore interface {
	ElementPath(id string) (document.PathData, bool)
	ReplaceElementPath(id string, data document.PathData)
	DeleteElement(id string)
}

// Geometry is the delegate for the heavier path math. ok == false means
// the routine had nothing to offer and the editor keeps the original.
type Geometry interface {
	SimplifyPath(cmds []path.Command, tolerance float64) ([]path.Command, bool)
	RoundPath(cmds []path.Command, radius float64) ([]path.Command, bool)
	SimplifyPolyline(pts []path.Point, tolerance, minDistance float64) []path.Point
}

// PointRef identifies one editable point: an element, the command index
// in its flattened command list, and the point index within the command.
type PointRef struct {
	Element      string `json:"elementId"`
	CommandIndex int    `json:"commandIndex"`
	PointIndex   int    `json:"pointIndex"`
}

// Options tune an Editor. Zero values pick the defaults.
type Options struct {
	// Precision is the decimal places kept on written coordinates.
	Precision int
	// Format rounds a coordinate before it is written. Defaults to
	// path.RoundTo.
	Format func(v float64, precision int) float64
	// Now supplies time for the delete debounce; tests inject it.
	Now func() time.Time
	// DeleteDebounce is the minimum gap between delete gestures.
	DeleteDebounce time.Duration
}

const (
	defaultPrecision      = 2
	defaultDeleteDebounce = 200 * time.Millisecond
)

func (o Options) withDefaults() Options {
	if o.Precision <= 0 {
		o.Precision = defaultPrecision
	}
	if o.Format == nil {
		o.Format = path.RoundTo
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.DeleteDebounce <= 0 {
		o.DeleteDebounce = defaultDeleteDebounce
	}
	return o
}

// Editor edits paths in a store. It holds one session's state: the
// selection, an in-flight drag, and the delete debounce clock. It is
// not safe for concurrent use; callers serialize access the same way
// they serialize document mutations.
type Editor struct {
	store ElementStore
	geo   Geometry
	opts  Options

	selection  []PointRef
	subPathSel map[string][]int

	drag       *dragState
	lastDelete time.Time
}

// NewEditor returns an editor over the store, delegating heavy geometry
// to geo.
func NewEditor(store ElementStore, geo Geometry, opts Options) *Editor {
	return &Editor{
		store:      store,
		geo:        geo,
		opts:       opts.withDefaults(),
		subPathSel: map[string][]int{},
	}
}

// commands returns the element's flattened command list, fresh from the
// store. The slice is the caller's to mutate.
func (e *Editor) commands(id string) ([]path.Command, bool) {
	data, ok := e.store.ElementPath(id)
	if !ok {
		return nil, false
	}
	return data.Commands(), true
}

// commit runs the tail of every mutation: normalize, split into
// subpaths, store. An element normalized down to nothing is deleted.
func (e *Editor) commit(id string, cmds []path.Command) {
	norm := path.Normalize(cmds)
	if len(norm) == 0 {
		e.store.DeleteElement(id)
		e.dropElement(id)
		return
	}
	e.store.ReplaceElementPath(id, document.FromCommands(norm))
	e.prune()
}

// patch stores commands without normalizing, so command indexes held by
// an in-flight drag stay valid. The commit at drag end normalizes.
func (e *Editor) patch(id string, cmds []path.Command) {
	e.store.ReplaceElementPath(id, document.FromCommands(cmds))
}

func (e *Editor) formatVal(v float64) float64 {
	return e.opts.Format(v, e.opts.Precision)
}

func (e *Editor) formatPt(p path.Point) path.Point {
	return path.Pt(e.formatVal(p.X), e.formatVal(p.Y))
}

// EditablePoints derives every editable point of the element.
func (e *Editor) EditablePoints(id string) []path.EditablePoint {
	cmds, ok := e.commands(id)
	if !ok {
		return nil
	}
	return path.ExtractEditablePoints(cmds)
}

// FilteredEditablePoints derives the points visible under the current
// subpath selection. With no subpath selected, that is every point.
func (e *Editor) FilteredEditablePoints(id string) []path.EditablePoint {
	cmds, ok := e.commands(id)
	if !ok {
		return nil
	}
	pts := path.ExtractEditablePoints(cmds)
	sel := e.subPathSel[id]
	if len(sel) == 0 {
		return pts
	}
	return path.FilterBySpans(pts, path.ExtractSubPaths(cmds), sel)
}

// ResolveAlignment classifies a control point against its partner around
// the shared anchor, from current geometry.
func (e *Editor) ResolveAlignment(id string, commandIndex, pointIndex int) path.Alignment {
	return path.ResolveAlignment(e.EditablePoints(id), commandIndex, pointIndex)
}

// resolveRefs maps refs to their current positions, dropping duplicates
// and refs that no longer resolve to a visible point.
func (e *Editor) resolveRefs(refs []PointRef) ([]PointRef, map[PointRef]path.Point) {
	cache := map[string][]path.EditablePoint{}
	seen := map[PointRef]bool{}
	var kept []PointRef
	pos := map[PointRef]path.Point{}
	for _, ref := range refs {
		if seen[ref] {
			continue
		}
		seen[ref] = true
		eps, ok := cache[ref.Element]
		if !ok {
			eps = e.FilteredEditablePoints(ref.Element)
			cache[ref.Element] = eps
		}
		p, ok := path.FindPoint(eps, ref.CommandIndex, ref.PointIndex)
		if !ok {
			continue
		}
		kept = append(kept, ref)
		pos[ref] = p.Position
	}
	return kept, pos
}

// writeRefs writes new positions grouped per element, formatting each
// coordinate, then commits every touched element. Elements are visited
// in sorted order so replayed operations land identically everywhere.
func (e *Editor) writeRefs(updates map[PointRef]path.Point) {
	byElement := map[string][]PointRef{}
	for ref := range updates {
		byElement[ref.Element] = append(byElement[ref.Element], ref)
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
		for _, ref := range byElement[id] {
			if ref.CommandIndex < 0 || ref.CommandIndex >= len(cmds) {
				continue
			}
			c := cmds[ref.CommandIndex]
			if _, ok := c.Point(ref.PointIndex); !ok {
				continue
			}
			cmds[ref.CommandIndex] = c.WithPoint(ref.PointIndex, e.formatPt(updates[ref]))
		}
		e.commit(id, cmds)
	}
}
