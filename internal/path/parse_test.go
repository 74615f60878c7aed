package path

import "testing"

func TestParseSVGPath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Command
	}{
		{
			name: "absolute",
			in:   "M 0 0 L 10 0 C 10 5, 15 10, 20 10 Z",
			want: []Command{
				Move(Pt(0, 0)),
				Line(Pt(10, 0)),
				Curve(Pt(10, 5), Pt(15, 10), Pt(20, 10)),
				Close(),
			},
		},
		{
			name: "relative",
			in:   "m 5 5 l 10 0 c 0 5 5 10 10 10 z",
			want: []Command{
				Move(Pt(5, 5)),
				Line(Pt(15, 5)),
				Curve(Pt(15, 10), Pt(20, 15), Pt(25, 15)),
				Close(),
			},
		},
		{
			name: "horizontal and vertical shorthands",
			in:   "M1 2H10v3h-4V0",
			want: []Command{
				Move(Pt(1, 2)),
				Line(Pt(10, 2)),
				Line(Pt(10, 5)),
				Line(Pt(6, 5)),
				Line(Pt(6, 0)),
			},
		},
		{
			name: "smooth curve reflects previous control",
			in:   "M0 0 C 0 10 10 20 10 10 S 20 0 20 10",
			want: []Command{
				Move(Pt(0, 0)),
				Curve(Pt(0, 10), Pt(10, 20), Pt(10, 10)),
				Curve(Pt(10, 0), Pt(20, 0), Pt(20, 10)),
			},
		},
		{
			name: "smooth curve without predecessor starts flat",
			in:   "M0 0 S 5 10 10 0",
			want: []Command{
				Move(Pt(0, 0)),
				Curve(Pt(0, 0), Pt(5, 10), Pt(10, 0)),
			},
		},
		{
			name: "implicit lineto after moveto",
			in:   "M 0 0 10 0 10 10",
			want: []Command{
				Move(Pt(0, 0)),
				Line(Pt(10, 0)),
				Line(Pt(10, 10)),
			},
		},
		{
			name: "implicit repetition",
			in:   "M0 0 L 1 1 2 2",
			want: []Command{
				Move(Pt(0, 0)),
				Line(Pt(1, 1)),
				Line(Pt(2, 2)),
			},
		},
		{
			name: "negative and decimal numbers",
			in:   "M-1.5.5L.5-2",
			want: []Command{
				Move(Pt(-1.5, 0.5)),
				Line(Pt(0.5, -2)),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSVGPath(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			diff(t, tt.want, got, approx)
		})
	}
}

func TestParseSVGPathErrors(t *testing.T) {
	for _, in := range []string{
		"M 0 0 Q 5 5 10 0",
		"M 0 0 A 5 5 0 0 1 10 0",
		"L",
		"M 1",
		"M 0 0 C 1 2 3 4",
		"x 1 2",
	} {
		if _, err := ParseSVGPath(in); err == nil {
			t.Errorf("ParseSVGPath(%q): expected error", in)
		}
	}
}

func TestParseSVGPathEmpty(t *testing.T) {
	got, err := ParseSVGPath("   ")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("blank input produced %d commands", len(got))
	}
}
