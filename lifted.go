package surfaces

// LiftedCurve is a curve of a [ModelSurface]'s base geometry, viewed as a
// curve on the model surface. Its endpoints are points of the surface, such
// as boundary points or vertices, so that the positions and directions at
// the ends know about identified copies.
type LiftedCurve struct {
	curveCache
	inner      Curve
	surface    *ModelSurface
	start, end Point
}

var _ Curve = (*LiftedCurve)(nil)

func lift(m *ModelSurface, inner Curve, start, end Point) *LiftedCurve {
	return &LiftedCurve{inner: inner, surface: m, start: start, end: end}
}

// Inner returns the curve in the base geometry.
func (c *LiftedCurve) Inner() Curve { return c.inner }

func (c *LiftedCurve) Length() float64            { return c.inner.Length() }
func (c *LiftedCurve) Surface() Surface           { return c.surface }
func (c *LiftedCurve) Reversed() Curve            { return c.reversed(c) }
func (c *LiftedCurve) VisualJumpTimes() []float64 { return c.inner.VisualJumpTimes() }

func (c *LiftedCurve) endpoint(t float64) (Point, bool) {
	switch {
	case t <= 0:
		return c.start, true
	case t >= c.inner.Length():
		return c.end, true
	default:
		return nil, false
	}
}

func (c *LiftedCurve) ValueAt(t float64) Point {
	if p, ok := c.endpoint(t); ok {
		return p
	}
	return c.inner.ValueAt(t)
}

func (c *LiftedCurve) DerivativeAt(t float64) TangentVector {
	d := c.inner.DerivativeAt(t)
	if p, ok := c.endpoint(t); ok {
		return TangentVector{
			Point:         p,
			Vector:        d.Vector,
			PositionIndex: closestPositionIndex(p, d.Position()),
		}
	}
	return d
}
