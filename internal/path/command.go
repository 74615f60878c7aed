package path

import (
	"encoding/json"
	"fmt"
)

// Kind identifies a path command.
type Kind uint8

const (
	// MoveTo starts a new subpath at End.
	MoveTo Kind = iota
	// LineTo draws a straight segment to End.
	LineTo
	// CurveTo draws a cubic bezier to End, shaped by CP1 and CP2.
	CurveTo
	// ClosePath closes the current subpath back to its MoveTo.
	ClosePath
)

// Letter returns the SVG command letter for k.
func (k Kind) Letter() string {
	switch k {
	case MoveTo:
		return "M"
	case LineTo:
		return "L"
	case CurveTo:
		return "C"
	case ClosePath:
		return "Z"
	}
	return "?"
}

func (k Kind) String() string { return k.Letter() }

// Command is a single path command. Commands are value objects: edits
// build new commands rather than mutating stored ones. CP1 and CP2 are
// only meaningful for CurveTo, End for everything but ClosePath.
type Command struct {
	Kind Kind
	CP1  Point
	CP2  Point
	End  Point
}

// Move returns a MoveTo command ending at p.
func Move(p Point) Command {
	return Command{Kind: MoveTo, End: p}
}

// Line returns a LineTo command ending at p.
func Line(p Point) Command {
	return Command{Kind: LineTo, End: p}
}

// Curve returns a CurveTo command with control points cp1, cp2 ending at end.
func Curve(cp1, cp2, end Point) Command {
	return Command{Kind: CurveTo, CP1: cp1, CP2: cp2, End: end}
}

// Close returns a ClosePath command.
func Close() Command {
	return Command{Kind: ClosePath}
}

// PointCount returns how many editable points the command carries.
func (c Command) PointCount() int {
	switch c.Kind {
	case MoveTo, LineTo:
		return 1
	case CurveTo:
		return 3
	}
	return 0
}

// Point returns the command's point at the given index. For MoveTo and
// LineTo index 0 is the end anchor. For CurveTo index 0 is the first
// control point, 1 the second, and 2 the end anchor.
func (c Command) Point(index int) (Point, bool) {
	switch c.Kind {
	case MoveTo, LineTo:
		if index == 0 {
			return c.End, true
		}
	case CurveTo:
		switch index {
		case 0:
			return c.CP1, true
		case 1:
			return c.CP2, true
		case 2:
			return c.End, true
		}
	}
	return Point{}, false
}

// WithPoint returns a copy of c with the point at index replaced by p.
// Out-of-range indexes return c unchanged.
func (c Command) WithPoint(index int, p Point) Command {
	switch c.Kind {
	case MoveTo, LineTo:
		if index == 0 {
			c.End = p
		}
	case CurveTo:
		switch index {
		case 0:
			c.CP1 = p
		case 1:
			c.CP2 = p
		case 2:
			c.End = p
		}
	}
	return c
}

// IsControl reports whether the point at index is a bezier control point
// rather than an on-path anchor.
func (c Command) IsControl(index int) bool {
	return c.Kind == CurveTo && (index == 0 || index == 1)
}

// MarshalJSON encodes the command in its wire form, a JSON array headed
// by the command letter: ["M",x,y], ["L",x,y], ["C",x1,y1,x2,y2,x,y], ["Z"].
func (c Command) MarshalJSON() ([]byte, error) {
	var arr []any
	switch c.Kind {
	case MoveTo, LineTo:
		arr = []any{c.Kind.Letter(), c.End.X, c.End.Y}
	case CurveTo:
		arr = []any{"C", c.CP1.X, c.CP1.Y, c.CP2.X, c.CP2.Y, c.End.X, c.End.Y}
	case ClosePath:
		arr = []any{"Z"}
	default:
		return nil, fmt.Errorf("marshal path command: unknown kind %d", c.Kind)
	}
	return json.Marshal(arr)
}

// UnmarshalJSON decodes the wire form produced by MarshalJSON.
func (c *Command) UnmarshalJSON(data []byte) error {
	var arr []any
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("unmarshal path command: %w", err)
	}
	if len(arr) == 0 {
		return fmt.Errorf("unmarshal path command: empty array")
	}
	letter, ok := arr[0].(string)
	if !ok {
		return fmt.Errorf("unmarshal path command: leading element is not a letter")
	}
	nums := make([]float64, 0, len(arr)-1)
	for _, v := range arr[1:] {
		f, ok := toFloat64(v)
		if !ok {
			return fmt.Errorf("unmarshal path command %q: non-numeric coordinate", letter)
		}
		nums = append(nums, f)
	}
	switch letter {
	case "M", "L":
		if len(nums) != 2 {
			return fmt.Errorf("unmarshal path command %q: want 2 coordinates, got %d", letter, len(nums))
		}
		kind := MoveTo
		if letter == "L" {
			kind = LineTo
		}
		*c = Command{Kind: kind, End: Pt(nums[0], nums[1])}
	case "C":
		if len(nums) != 6 {
			return fmt.Errorf("unmarshal path command %q: want 6 coordinates, got %d", letter, len(nums))
		}
		*c = Curve(Pt(nums[0], nums[1]), Pt(nums[2], nums[3]), Pt(nums[4], nums[5]))
	case "Z":
		if len(nums) != 0 {
			return fmt.Errorf("unmarshal path command %q: unexpected coordinates", letter)
		}
		*c = Close()
	default:
		return fmt.Errorf("unmarshal path command: unsupported letter %q", letter)
	}
	return nil
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case int:
		return float64(n), true
	}
	return 0, false
}
