package path

import "testing"

func TestFlattenExtractRoundTrip(t *testing.T) {
	subs := []SubPath{
		{Move(Pt(0, 0)), Line(Pt(10, 0)), Line(Pt(10, 10)), Close()},
		{Move(Pt(20, 20)), Curve(Pt(20, 30), Pt(30, 30), Pt(30, 20))},
		{Move(Pt(50, 0)), Line(Pt(60, 0)), Close()},
	}
	flat := Flatten(subs)
	spans := ExtractSubPaths(flat)
	if len(spans) != len(subs) {
		t.Fatalf("got %d spans, want %d", len(spans), len(subs))
	}
	next := 0
	for i, sp := range spans {
		diff(t, subs[i], sp.Commands)
		if sp.StartIndex != next {
			t.Errorf("span %d starts at %d, want %d", i, sp.StartIndex, next)
		}
		if want := sp.StartIndex + len(subs[i]) - 1; sp.EndIndex != want {
			t.Errorf("span %d ends at %d, want %d", i, sp.EndIndex, want)
		}
		next = sp.EndIndex + 1
	}
}

func TestExtractSubPathsCopies(t *testing.T) {
	flat := []Command{Move(Pt(0, 0)), Line(Pt(1, 1))}
	spans := ExtractSubPaths(flat)
	flat[1] = Line(Pt(9, 9))
	if spans[0].Commands[1].End != Pt(1, 1) {
		t.Error("span commands alias the input slice")
	}
}

func TestExtractSubPathsSplitsAfterClose(t *testing.T) {
	// A ClosePath ends the subpath even without a following MoveTo.
	flat := []Command{
		Move(Pt(0, 0)), Line(Pt(1, 0)), Close(),
		Line(Pt(5, 5)), Line(Pt(6, 6)),
	}
	spans := ExtractSubPaths(flat)
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	if spans[1].StartIndex != 3 || spans[1].EndIndex != 4 {
		t.Errorf("second span = [%d, %d], want [3, 4]", spans[1].StartIndex, spans[1].EndIndex)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   []Command
		want []Command
	}{
		{
			name: "already normal",
			in:   []Command{Move(Pt(0, 0)), Line(Pt(10, 0)), Close()},
			want: []Command{Move(Pt(0, 0)), Line(Pt(10, 0)), Close()},
		},
		{
			name: "promotes orphaned line to moveto",
			in:   []Command{Line(Pt(10, 0)), Line(Pt(10, 10)), Close()},
			want: []Command{Move(Pt(10, 0)), Line(Pt(10, 10)), Close()},
		},
		{
			name: "promotes orphaned curve using its end",
			in:   []Command{Curve(Pt(0, 5), Pt(5, 5), Pt(5, 0)), Line(Pt(9, 9))},
			want: []Command{Move(Pt(5, 0)), Line(Pt(9, 9))},
		},
		{
			name: "drops duplicate consecutive anchor",
			in:   []Command{Move(Pt(0, 0)), Line(Pt(0, 0)), Line(Pt(5, 5))},
			want: []Command{Move(Pt(0, 0)), Line(Pt(5, 5))},
		},
		{
			name: "keeps zero-length curve with live controls",
			in:   []Command{Move(Pt(0, 0)), Curve(Pt(3, 3), Pt(-3, 3), Pt(0, 0))},
			want: []Command{Move(Pt(0, 0)), Curve(Pt(3, 3), Pt(-3, 3), Pt(0, 0))},
		},
		{
			name: "drops fully degenerate curve",
			in:   []Command{Move(Pt(1, 1)), Curve(Pt(1, 1), Pt(1, 1), Pt(1, 1)), Line(Pt(2, 2))},
			want: []Command{Move(Pt(1, 1)), Line(Pt(2, 2))},
		},
		{
			name: "drops close with nothing drawn",
			in:   []Command{Move(Pt(0, 0)), Close(), Move(Pt(1, 1)), Line(Pt(2, 2))},
			want: []Command{Move(Pt(1, 1)), Line(Pt(2, 2))},
		},
		{
			name: "removes empty subpath entirely",
			in:   []Command{Move(Pt(0, 0)), Move(Pt(5, 5)), Line(Pt(6, 6))},
			want: []Command{Move(Pt(5, 5)), Line(Pt(6, 6))},
		},
		{
			name: "orphaned close alone disappears",
			in:   []Command{Close()},
			want: nil,
		},
		{
			name: "empty input",
			in:   nil,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if len(tt.want) == 0 && len(got) == 0 {
				return
			}
			diff(t, tt.want, got)
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	in := []Command{
		Line(Pt(10, 0)), Line(Pt(10, 0)), Line(Pt(10, 10)), Close(), Close(),
		Move(Pt(50, 50)),
		Move(Pt(0, 0)), Curve(Pt(0, 5), Pt(5, 5), Pt(5, 0)),
	}
	once := Normalize(in)
	twice := Normalize(once)
	diff(t, once, twice)
}

func TestFormat(t *testing.T) {
	cmds := []Command{
		Move(Pt(0.12345, 2)),
		Line(Pt(10, 0.005)),
		Curve(Pt(0, 10), Pt(10, 10), Pt(10, 0)),
		Close(),
	}
	got := Format(cmds, 2)
	want := "M 0.12,2 L 10,0.01 C 0,10 10,10 10,0 Z"
	if got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}
