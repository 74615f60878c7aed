package path

import (
	"fmt"

	"github.com/tdewolff/parse/v2/strconv"
)

// ParseSVGPath parses SVG path notation into absolute commands. Relative
// commands, H/V shorthands and S smooth curves are resolved to plain
// M/L/C/Z during parsing. Quadratics and arcs are not supported.
func ParseSVGPath(data string) ([]Command, error) {
	p := &pathParser{data: []byte(data)}
	for {
		p.skipSeparators()
		if p.pos >= len(p.data) {
			break
		}
		letter := p.data[p.pos]
		p.pos++
		if err := p.command(letter); err != nil {
			return nil, err
		}
	}
	return p.cmds, nil
}

type pathParser struct {
	data []byte
	pos  int
	cmds []Command

	current  Point
	subStart Point
	// prevCP2 backs the S shorthand; valid only right after a C or S.
	prevCP2   Point
	afterCube bool
}

func (p *pathParser) command(letter byte) error {
	rel := letter >= 'a' && letter <= 'z'
	switch letter {
	case 'M', 'm':
		first := true
		for p.hasNumber() {
			pt, err := p.point(rel)
			if err != nil {
				return err
			}
			if first {
				p.push(Move(pt))
				p.subStart = pt
				first = false
			} else {
				// Extra pairs after a MoveTo are implicit LineTo.
				p.push(Line(pt))
			}
		}
		if first {
			return p.errAt(letter, "missing coordinates")
		}
	case 'L', 'l':
		if err := p.each(letter, func() error {
			pt, err := p.point(rel)
			if err != nil {
				return err
			}
			p.push(Line(pt))
			return nil
		}); err != nil {
			return err
		}
	case 'H', 'h':
		if err := p.each(letter, func() error {
			x, err := p.number()
			if err != nil {
				return err
			}
			if rel {
				x += p.current.X
			}
			p.push(Line(Pt(x, p.current.Y)))
			return nil
		}); err != nil {
			return err
		}
	case 'V', 'v':
		if err := p.each(letter, func() error {
			y, err := p.number()
			if err != nil {
				return err
			}
			if rel {
				y += p.current.Y
			}
			p.push(Line(Pt(p.current.X, y)))
			return nil
		}); err != nil {
			return err
		}
	case 'C', 'c':
		if err := p.each(letter, func() error {
			cp1, err := p.point(rel)
			if err != nil {
				return err
			}
			cp2, err := p.point(rel)
			if err != nil {
				return err
			}
			end, err := p.point(rel)
			if err != nil {
				return err
			}
			p.push(Curve(cp1, cp2, end))
			return nil
		}); err != nil {
			return err
		}
	case 'S', 's':
		if err := p.each(letter, func() error {
			cp2, err := p.point(rel)
			if err != nil {
				return err
			}
			end, err := p.point(rel)
			if err != nil {
				return err
			}
			cp1 := p.current
			if p.afterCube {
				cp1 = SolveMirrored(p.current, p.prevCP2)
			}
			p.push(Curve(cp1, cp2, end))
			return nil
		}); err != nil {
			return err
		}
	case 'Z', 'z':
		p.push(Close())
	default:
		return fmt.Errorf("parse svg path: unsupported command %q at %d", string(letter), p.pos-1)
	}
	return nil
}

// each runs parse once, then again for every implicit repetition.
func (p *pathParser) each(letter byte, parse func() error) error {
	if !p.hasNumber() {
		return p.errAt(letter, "missing coordinates")
	}
	for p.hasNumber() {
		if err := parse(); err != nil {
			return err
		}
	}
	return nil
}

func (p *pathParser) push(c Command) {
	p.cmds = append(p.cmds, c)
	switch c.Kind {
	case ClosePath:
		p.current = p.subStart
	default:
		p.current = c.End
	}
	p.afterCube = c.Kind == CurveTo
	if p.afterCube {
		p.prevCP2 = c.CP2
	}
}

func (p *pathParser) point(rel bool) (Point, error) {
	x, err := p.number()
	if err != nil {
		return Point{}, err
	}
	y, err := p.number()
	if err != nil {
		return Point{}, err
	}
	pt := Pt(x, y)
	if rel {
		pt = pt.Add(p.current)
	}
	return pt, nil
}

func (p *pathParser) number() (float64, error) {
	p.skipSeparators()
	f, n := strconv.ParseFloat(p.data[p.pos:])
	if n == 0 {
		return 0, fmt.Errorf("parse svg path: expected number at %d", p.pos)
	}
	p.pos += n
	return f, nil
}

func (p *pathParser) hasNumber() bool {
	p.skipSeparators()
	if p.pos >= len(p.data) {
		return false
	}
	b := p.data[p.pos]
	return b >= '0' && b <= '9' || b == '-' || b == '+' || b == '.'
}

func (p *pathParser) skipSeparators() {
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case ' ', '\t', '\n', '\r', ',':
			p.pos++
		default:
			return
		}
	}
}

func (p *pathParser) errAt(letter byte, msg string) error {
	return fmt.Errorf("parse svg path: command %q at %d: %s", string(letter), p.pos, msg)
}
