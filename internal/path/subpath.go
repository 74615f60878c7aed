package path

import (
	"slices"
	"strconv"
	"strings"
)

// SubPath is an ordered run of commands. A well-formed subpath starts
// with a MoveTo and carries at most one ClosePath, always in last
// position. Transient states during reconstruction may violate this;
// Normalize restores it.
type SubPath []Command

// Closed reports whether the subpath ends with a ClosePath.
func (s SubPath) Closed() bool {
	return len(s) > 0 && s[len(s)-1].Kind == ClosePath
}

// Span locates one subpath inside a flattened command list. StartIndex
// and EndIndex are inclusive positions in the flat list.
type Span struct {
	Commands   SubPath
	StartIndex int
	EndIndex   int
}

// Contains reports whether the flat command index falls inside the span.
func (s Span) Contains(index int) bool {
	return index >= s.StartIndex && index <= s.EndIndex
}

// Flatten concatenates subpaths into one flat command list. Edits operate
// on the flat list and index into it.
func Flatten(subPaths []SubPath) []Command {
	n := 0
	for _, sp := range subPaths {
		n += len(sp)
	}
	out := make([]Command, 0, n)
	for _, sp := range subPaths {
		out = append(out, sp...)
	}
	return out
}

// ExtractSubPaths splits a flat command list into spans. A new span opens
// at each MoveTo and after each ClosePath. Span command slices are copies,
// so callers may store them without aliasing the input.
func ExtractSubPaths(cmds []Command) []Span {
	var spans []Span
	start := -1
	flush := func(end int) {
		if start < 0 || end < start {
			return
		}
		spans = append(spans, Span{
			Commands:   slices.Clone(cmds[start : end+1]),
			StartIndex: start,
			EndIndex:   end,
		})
		start = -1
	}
	for i, c := range cmds {
		switch c.Kind {
		case MoveTo:
			flush(i - 1)
			start = i
		case ClosePath:
			if start < 0 {
				start = i
			}
			flush(i)
		default:
			if start < 0 {
				start = i
			}
		}
	}
	flush(len(cmds) - 1)
	return spans
}

// SubPaths is ExtractSubPaths without the positional bookkeeping.
func SubPaths(cmds []Command) []SubPath {
	spans := ExtractSubPaths(cmds)
	out := make([]SubPath, len(spans))
	for i, sp := range spans {
		out[i] = sp.Commands
	}
	return out
}

// Normalize repairs a command list after an edit:
//
//   - a subpath whose first command is not a MoveTo (its MoveTo was
//     deleted) has that command promoted to a MoveTo at its end anchor;
//   - commands that add nothing are dropped: a LineTo onto the current
//     anchor, and a CurveTo onto the current anchor whose controls also
//     sit on it;
//   - a ClosePath is kept only when the subpath still draws something,
//     and only the first one survives;
//   - subpaths left without drawing commands are removed entirely.
//
// Normalize is idempotent and does not mutate its input.
func Normalize(cmds []Command) []Command {
	out := make([]Command, 0, len(cmds))
	for _, sub := range SubPaths(cmds) {
		out = append(out, normalizeSubPath(sub)...)
	}
	return out
}

func normalizeSubPath(sub SubPath) SubPath {
	if len(sub) == 0 {
		return nil
	}
	fixed := make(SubPath, 0, len(sub))
	for i, c := range sub {
		if i == 0 && c.Kind != MoveTo {
			// Promote the survivor of a deleted MoveTo.
			if c.Kind == ClosePath {
				continue
			}
			c = Move(c.End)
		}
		switch c.Kind {
		case ClosePath:
			if drawCount(fixed) == 0 {
				continue
			}
			fixed = append(fixed, c)
			return dropIfEmpty(fixed)
		case LineTo:
			if len(fixed) > 0 && c.End == fixed[len(fixed)-1].End {
				continue
			}
		case CurveTo:
			if len(fixed) > 0 {
				prev := fixed[len(fixed)-1].End
				if c.End == prev && c.CP1 == prev && c.CP2 == prev {
					continue
				}
			}
		}
		fixed = append(fixed, c)
	}
	return dropIfEmpty(fixed)
}

func drawCount(sub SubPath) int {
	n := 0
	for _, c := range sub {
		if c.Kind == LineTo || c.Kind == CurveTo {
			n++
		}
	}
	return n
}

func dropIfEmpty(sub SubPath) SubPath {
	if drawCount(sub) == 0 {
		return nil
	}
	return sub
}

// Format renders commands in SVG path notation with coordinates rounded
// to the given precision.
func Format(cmds []Command, precision int) string {
	var b strings.Builder
	for i, c := range cmds {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(c.Kind.Letter())
		switch c.Kind {
		case MoveTo, LineTo:
			writeCoords(&b, precision, c.End)
		case CurveTo:
			writeCoords(&b, precision, c.CP1, c.CP2, c.End)
		}
	}
	return b.String()
}

func writeCoords(b *strings.Builder, precision int, pts ...Point) {
	for _, p := range pts {
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(RoundTo(p.X, precision), 'f', -1, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(RoundTo(p.Y, precision), 'f', -1, 64))
	}
}
