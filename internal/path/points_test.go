package path

import "testing"

func TestExtractEditablePoints(t *testing.T) {
	cmds := []Command{
		Move(Pt(0, 0)),
		Curve(Pt(0, 10), Pt(10, 10), Pt(10, 0)),
		Line(Pt(20, 0)),
		Close(),
	}
	got := ExtractEditablePoints(cmds)
	want := []EditablePoint{
		{CommandIndex: 0, PointIndex: 0, Position: Pt(0, 0), Anchor: Pt(0, 0)},
		// First control belongs to the anchor the curve departs from,
		// second control to the anchor it arrives at.
		{CommandIndex: 1, PointIndex: 0, Position: Pt(0, 10), IsControl: true, Anchor: Pt(0, 0)},
		{CommandIndex: 1, PointIndex: 1, Position: Pt(10, 10), IsControl: true, Anchor: Pt(10, 0)},
		{CommandIndex: 1, PointIndex: 2, Position: Pt(10, 0), Anchor: Pt(10, 0)},
		{CommandIndex: 2, PointIndex: 0, Position: Pt(20, 0), Anchor: Pt(20, 0)},
	}
	diff(t, want, got)
}

func TestExtractEditablePointsAfterClose(t *testing.T) {
	// A curve opening a new subpath right after a Z anchors its first
	// control at the closed subpath's start.
	cmds := []Command{
		Move(Pt(0, 0)),
		Line(Pt(10, 0)),
		Close(),
		Curve(Pt(1, 1), Pt(2, 2), Pt(3, 3)),
	}
	pts := ExtractEditablePoints(cmds)
	cp1, ok := FindPoint(pts, 3, 0)
	if !ok {
		t.Fatal("first control of trailing curve not extracted")
	}
	if cp1.Anchor != Pt(0, 0) {
		t.Errorf("anchor after Z = %v, want subpath start (0,0)", cp1.Anchor)
	}
}

func TestFilterBySpans(t *testing.T) {
	cmds := []Command{
		Move(Pt(0, 0)), Line(Pt(10, 0)),
		Move(Pt(20, 0)), Line(Pt(30, 0)),
		Move(Pt(40, 0)), Line(Pt(50, 0)),
	}
	pts := ExtractEditablePoints(cmds)
	spans := ExtractSubPaths(cmds)

	all := FilterBySpans(pts, spans, nil)
	if len(all) != len(pts) {
		t.Fatalf("no selection should pass all %d points, got %d", len(pts), len(all))
	}

	got := FilterBySpans(pts, spans, []int{1})
	if len(got) != 2 {
		t.Fatalf("got %d points for middle subpath, want 2", len(got))
	}
	for _, p := range got {
		if p.CommandIndex != 2 && p.CommandIndex != 3 {
			t.Errorf("point from command %d leaked through filter", p.CommandIndex)
		}
	}

	if got := FilterBySpans(pts, spans, []int{7}); len(got) != 0 {
		t.Errorf("out-of-range span index should filter everything, got %d points", len(got))
	}
}
