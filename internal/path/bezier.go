package path

// SplitCommand splits a drawing command at parameter t into two commands
// covering the same geometry. start is the anchor the command draws from.
//
// Lines split into two lines meeting at the lerp point. Curves split by
// De Casteljau subdivision: with levels P01, P12, P23 and P012, P123 the
// split point is lerp(P012, P123, t), giving (P01, P012, Pt) and
// (P123, P23, P3). The construction is plain lerps throughout, so equal
// inputs produce bit-identical outputs on every client.
//
// MoveTo and ClosePath do not split; ok is false for them and for t
// outside [0, 1].
func SplitCommand(start Point, c Command, t float64) (first, second Command, ok bool) {
	if t < 0 || t > 1 {
		return Command{}, Command{}, false
	}
	switch c.Kind {
	case LineTo:
		mid := start.Lerp(c.End, t)
		return Line(mid), Line(c.End), true
	case CurveTo:
		p01 := start.Lerp(c.CP1, t)
		p12 := c.CP1.Lerp(c.CP2, t)
		p23 := c.CP2.Lerp(c.End, t)
		p012 := p01.Lerp(p12, t)
		p123 := p12.Lerp(p23, t)
		pt := p012.Lerp(p123, t)
		return Curve(p01, p012, pt), Curve(p123, p23, c.End), true
	}
	return Command{}, Command{}, false
}

// Eval returns the point a drawing command passes through at parameter t,
// drawing from start. MoveTo evaluates to its end, ClosePath to start.
func Eval(start Point, c Command, t float64) Point {
	switch c.Kind {
	case MoveTo:
		return c.End
	case LineTo:
		return start.Lerp(c.End, t)
	case CurveTo:
		p01 := start.Lerp(c.CP1, t)
		p12 := c.CP1.Lerp(c.CP2, t)
		p23 := c.CP2.Lerp(c.End, t)
		return p01.Lerp(p12, t).Lerp(p12.Lerp(p23, t), t)
	}
	return start
}

// LineToCurve converts a straight segment from start to end into the
// equivalent cubic, with control points a third and two thirds of the
// way along.
func LineToCurve(start, end Point) Command {
	return Curve(start.Lerp(end, 1.0/3.0), start.Lerp(end, 2.0/3.0), end)
}
