package document

import (
	"slices"

	"github.com/lineahq/linea/backend-go/internal/path"
)

// Document is the full state of one design: project metadata, the canvas,
// and the vector elements drawn on it. It is the unit of persistence and
// of collaborative editing.
type Document struct {
	Project  Project            `json:"project"`
	Canvas   Canvas             `json:"canvas"`
	Elements map[string]Element `json:"elements"`
	// Order is bottom-to-top paint order of element IDs.
	Order []string `json:"order"`
}

type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Version   int    `json:"version"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type Canvas struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Background string `json:"background"`
}

type Style struct {
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
	Opacity     float64 `json:"opacity"`
}

// Element is one vector path on the canvas.
type Element struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Visible bool     `json:"visible"`
	Locked  bool     `json:"locked"`
	Style   Style    `json:"style"`
	Path    PathData `json:"path"`
}

// PathData is an element's geometry as an ordered list of subpaths.
// Edits replace it wholesale; nothing derived from it is stored.
type PathData struct {
	SubPaths []path.SubPath `json:"subPaths"`
}

// Commands flattens the subpaths into the single command list edits
// index into.
func (p PathData) Commands() []path.Command {
	return path.Flatten(p.SubPaths)
}

// FromCommands builds PathData by splitting a flat command list back
// into subpaths.
func FromCommands(cmds []path.Command) PathData {
	return PathData{SubPaths: path.SubPaths(cmds)}
}

// FromSVG parses SVG path notation into PathData.
func FromSVG(d string) (PathData, error) {
	cmds, err := path.ParseSVGPath(d)
	if err != nil {
		return PathData{}, err
	}
	return FromCommands(path.Normalize(cmds)), nil
}

// Element returns the element by ID.
func (d *Document) Element(id string) (Element, bool) {
	el, ok := d.Elements[id]
	return el, ok
}

// ElementPath returns an element's geometry.
func (d *Document) ElementPath(id string) (PathData, bool) {
	el, ok := d.Elements[id]
	if !ok {
		return PathData{}, false
	}
	return el.Path, true
}

// ReplaceElementPath swaps an element's geometry. Unknown IDs are
// ignored.
func (d *Document) ReplaceElementPath(id string, data PathData) {
	el, ok := d.Elements[id]
	if !ok {
		return
	}
	el.Path = data
	d.Elements[id] = el
}

// AddElement inserts the element on top of the paint order.
func (d *Document) AddElement(el Element) {
	if d.Elements == nil {
		d.Elements = map[string]Element{}
	}
	d.Elements[el.ID] = el
	d.Order = append(d.Order, el.ID)
}

// DeleteElement removes the element and its paint-order entry.
func (d *Document) DeleteElement(id string) {
	delete(d.Elements, id)
	d.Order = slices.DeleteFunc(d.Order, func(s string) bool { return s == id })
}

// NewEmptyDocument creates a blank document for a new project.
func NewEmptyDocument(projectID, projectName string) *Document {
	return &Document{
		Project: Project{
			ID:      projectID,
			Name:    projectName,
			Version: 1,
		},
		Canvas: Canvas{
			Width:      1280,
			Height:     720,
			Background: "#1a1a2e",
		},
		Elements: map[string]Element{},
		Order:    []string{},
	}
}
