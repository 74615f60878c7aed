package document

import (
	"time"

	"github.com/lineahq/linea/backend-go/internal/path"
	"github.com/lineahq/linea/backend-go/internal/typeid"
)

// NewSampleDocument seeds a new project with a few editable shapes so
// the editor opens on something real.
func NewSampleDocument(projectID string) *Document {
	now := time.Now().UTC().Format(time.RFC3339)

	triangleID := typeid.NewElementID()
	leafID := typeid.NewElementID()
	scribbleID := typeid.NewElementID()

	triangle := PathData{SubPaths: []path.SubPath{{
		path.Move(path.Pt(900, 350)),
		path.Line(path.Pt(1000, 200)),
		path.Line(path.Pt(1100, 350)),
		path.Close(),
	}}}

	// Smooth joins: the handles around each anchor mirror each other.
	leaf := PathData{SubPaths: []path.SubPath{{
		path.Move(path.Pt(200, 400)),
		path.Curve(path.Pt(200, 300), path.Pt(280, 220), path.Pt(380, 220)),
		path.Curve(path.Pt(480, 220), path.Pt(560, 300), path.Pt(560, 400)),
		path.Curve(path.Pt(560, 500), path.Pt(200, 500), path.Pt(200, 400)),
		path.Close(),
	}}}

	scribble := PathData{SubPaths: []path.SubPath{{
		path.Move(path.Pt(600, 520)),
		path.Line(path.Pt(640, 508)),
		path.Line(path.Pt(688, 540)),
		path.Line(path.Pt(732, 502)),
		path.Line(path.Pt(790, 536)),
		path.Line(path.Pt(840, 510)),
	}}}

	doc := &Document{
		Project: Project{
			ID:        projectID,
			Name:      "Untitled",
			Version:   1,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Canvas: Canvas{
			Width:      1280,
			Height:     720,
			Background: "#1a1a2e",
		},
		Elements: map[string]Element{},
	}
	doc.AddElement(Element{
		ID:      triangleID,
		Name:    "Triangle",
		Visible: true,
		Style:   Style{Fill: "#53d769", Stroke: "#2d6a4f", StrokeWidth: 2, Opacity: 1},
		Path:    triangle,
	})
	doc.AddElement(Element{
		ID:      leafID,
		Name:    "Leaf",
		Visible: true,
		Style:   Style{Fill: "#0f3460", Stroke: "#16213e", StrokeWidth: 2, Opacity: 1},
		Path:    leaf,
	})
	doc.AddElement(Element{
		ID:      scribbleID,
		Name:    "Scribble",
		Visible: true,
		Style:   Style{Fill: "", Stroke: "#e94560", StrokeWidth: 3, Opacity: 1},
		Path:    scribble,
	})
	return doc
}
