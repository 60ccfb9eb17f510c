package surfaces

import (
	"fmt"
	"math"
)

// shiftDerivativeStep is the relative step used to differentiate shifted
// curves numerically.
const shiftDerivativeStep = 1e-5

// ShiftedCurve is a curve moved sideways: the point at parameter t is the end
// of the geodesic of length shift(t) that leaves the underlying curve
// perpendicularly to the left. Negative shifts move to the right.
//
// Use [Shift] to create one.
type ShiftedCurve struct {
	curveCache
	inner   Curve
	surface GeodesicSurface
	shift   func(float64) float64
}

var _ Curve = (*ShiftedCurve)(nil)

// Shift returns c shifted sideways by shift(t). The curve must live on a
// [GeodesicSurface]. Shifting a shifted curve adds the shifts.
func Shift(c Curve, shift func(float64) float64) (*ShiftedCurve, error) {
	gs, ok := c.Surface().(GeodesicSurface)
	if !ok {
		return nil, fmt.Errorf("shifting a curve on %s: surface has no geodesics", c.Surface().Name())
	}
	if sc, ok := c.(*ShiftedCurve); ok {
		inner := sc.shift
		return &ShiftedCurve{
			inner:   sc.inner,
			surface: gs,
			shift:   func(t float64) float64 { return inner(t) + shift(t) },
		}, nil
	}
	return &ShiftedCurve{inner: c, surface: gs, shift: shift}, nil
}

// ShiftBy is like [Shift] with a constant shift.
func ShiftBy(c Curve, d float64) (*ShiftedCurve, error) {
	return Shift(c, func(float64) float64 { return d })
}

func (c *ShiftedCurve) Length() float64            { return c.inner.Length() }
func (c *ShiftedCurve) Surface() Surface           { return c.inner.Surface() }
func (c *ShiftedCurve) Reversed() Curve            { return c.reversed(c) }
func (c *ShiftedCurve) VisualJumpTimes() []float64 { return c.inner.VisualJumpTimes() }

func (c *ShiftedCurve) ValueAt(t float64) Point {
	d := c.inner.DerivativeAt(t)
	s := c.shift(t)
	if math.Abs(s) < minCurveLength {
		return d.Point
	}
	normal := TangentVector{
		Point:         d.Point,
		Vector:        planeNormal(d.Vector).Normalize(),
		PositionIndex: d.PositionIndex,
	}
	g, err := c.surface.GeodesicFrom(normal, s)
	if err != nil {
		Logger().Warn("couldn't shift point", "t", t, "shift", s, "err", err)
		return d.Point
	}
	return EndPoint(g)
}

// DerivativeAt differentiates the shifted curve numerically.
func (c *ShiftedCurve) DerivativeAt(t float64) TangentVector {
	l := c.Length()
	h := shiftDerivativeStep * l
	t0, t1 := max(t-h, 0), min(t+h, l)
	p0, p1 := c.ValueAt(t0), c.ValueAt(t1)
	_, i, j := closestPositions(p0, p1)
	v := p1.Positions()[j].Sub(p0.Positions()[i]).Mul(1 / (t1 - t0))
	p := c.ValueAt(t)
	return TangentVector{
		Point:         p,
		Vector:        v,
		PositionIndex: closestPositionIndex(p, p0.Positions()[i]),
	}
}
