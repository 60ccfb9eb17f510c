package surfaces

import (
	"fmt"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r3"
)

// restrictTolerance is the absolute tolerance, in curve parameter units, by
// which arguments to [Restrict] may exceed the curve's domain.
const restrictTolerance = 1e-4

// minCurveLength is the length below which a curve is considered to have
// zero length.
const minCurveLength = 1e-12

// Curve describes a parametrized curve on a surface, defined for parameters
// t ∈ [0, Length()].
//
// Curves are immutable. They are built from geodesics and spline segments and
// combined with [Restrict], [Concatenate], [ApplyHomeomorphism], [Shift], and
// [Curve.Reversed], each of which returns a new curve that refers to its
// inputs. The set of curve types is closed; all of them are defined in this
// package.
//
// A curve's length is always positive. Constructors that would produce a
// curve of zero length return [ErrZeroLength] instead.
type Curve interface {
	// Length returns the length of the parameter domain.
	Length() float64
	// Surface returns the surface the curve lives on.
	Surface() Surface
	// ValueAt returns the point at parameter t.
	ValueAt(t float64) Point
	// DerivativeAt returns the velocity at parameter t.
	DerivativeAt(t float64) TangentVector
	// Reversed returns the curve traversed backwards. Reversing is
	// involutive: c.Reversed().Reversed() is c itself.
	Reversed() Curve
	// VisualJumpTimes returns the interior parameters, in increasing order,
	// at which the curve crosses an identified edge. The curve is continuous
	// there, but its drawn representation isn't. The returned slice must not
	// be modified.
	VisualJumpTimes() []float64

	sealed()
}

// curveCache holds the lazily computed properties shared by all curve
// types. It is embedded in every curve type.
type curveCache struct {
	reverse option[Curve]
	jumps   option[[]float64]
}

func (*curveCache) sealed() {}

func (cc *curveCache) reversed(self Curve) Curve {
	return cc.reverse.get(func() Curve {
		return &ReverseCurve{inner: self}
	})
}

func (cc *curveCache) visualJumpTimes(compute func() []float64) []float64 {
	return cc.jumps.get(compute)
}

// StartPoint returns the point at the start of the curve.
func StartPoint(c Curve) Point { return c.ValueAt(0) }

// EndPoint returns the point at the end of the curve.
func EndPoint(c Curve) Point { return c.ValueAt(c.Length()) }

// StartVelocity returns the velocity at the start of the curve.
func StartVelocity(c Curve) TangentVector { return c.DerivativeAt(0) }

// EndVelocity returns the velocity at the end of the curve.
func EndVelocity(c Curve) TangentVector { return c.DerivativeAt(c.Length()) }

// StartPosition returns the position the curve starts at. When the start
// point has several positions, this is the one the start velocity is
// attached to.
func StartPosition(c Curve) r3.Vector { return StartVelocity(c).Position() }

// EndPosition returns the position the curve ends at. When the end point has
// several positions, this is the one the end velocity is attached to.
func EndPosition(c Curve) r3.Vector { return EndVelocity(c).Position() }

// VisualJumpPoints returns the points at the curve's visual jump times.
func VisualJumpPoints(c Curve) []Point {
	times := c.VisualJumpTimes()
	out := make([]Point, len(times))
	for i, t := range times {
		out[i] = c.ValueAt(t)
	}
	return out
}

// Restrict returns the part of c between the parameters start and end,
// reparametrized to start at zero.
//
// The arguments may exceed the domain [0, c.Length()] by at most 1e-4 and
// are clamped to it. If they cover the whole domain within that tolerance,
// c itself is returned. Restricting a restricted curve doesn't nest.
func Restrict(c Curve, start, end float64) (Curve, error) {
	l := c.Length()
	domain := r1.Interval{Lo: 0, Hi: l}.Expanded(restrictTolerance)
	if !domain.Contains(start) || !domain.Contains(end) || start > end+restrictTolerance {
		return nil, fmt.Errorf("%w: [%g, %g] on a curve of length %g", ErrInvalidRange, start, end, l)
	}
	start = max(start, 0)
	end = min(end, l)
	if start <= restrictTolerance && end >= l-restrictTolerance {
		return c, nil
	}
	if end-start < minCurveLength {
		return nil, fmt.Errorf("%w: restriction to [%g, %g]", ErrZeroLength, start, end)
	}
	if rc, ok := c.(*RestrictedCurve); ok {
		return &RestrictedCurve{inner: rc.inner, start: rc.start + start, end: rc.start + end}, nil
	}
	return &RestrictedCurve{inner: c, start: start, end: end}, nil
}

// RestrictFrom is like [Restrict] with end set to the curve's length.
func RestrictFrom(c Curve, start float64) (Curve, error) {
	return Restrict(c, start, c.Length())
}

// RestrictedCurve is a view of a sub-interval of another curve. Use
// [Restrict] to create one.
type RestrictedCurve struct {
	curveCache
	inner      Curve
	start, end float64
}

var _ Curve = (*RestrictedCurve)(nil)

func (c *RestrictedCurve) Length() float64  { return c.end - c.start }
func (c *RestrictedCurve) Surface() Surface { return c.inner.Surface() }
func (c *RestrictedCurve) Reversed() Curve  { return c.reversed(c) }

// Bounds returns the parameter interval of the underlying curve that c views.
func (c *RestrictedCurve) Bounds() (start, end float64) { return c.start, c.end }

func (c *RestrictedCurve) ValueAt(t float64) Point {
	return c.inner.ValueAt(c.start + t)
}

func (c *RestrictedCurve) DerivativeAt(t float64) TangentVector {
	return c.inner.DerivativeAt(c.start + t)
}

func (c *RestrictedCurve) VisualJumpTimes() []float64 {
	return c.visualJumpTimes(func() []float64 {
		var out []float64
		for _, t := range c.inner.VisualJumpTimes() {
			if t > c.start && t < c.end {
				out = append(out, t-c.start)
			}
		}
		return out
	})
}

// ReverseCurve is another curve traversed backwards. Use [Curve.Reversed]
// to get one.
type ReverseCurve struct {
	curveCache
	inner Curve
}

var _ Curve = (*ReverseCurve)(nil)

func (c *ReverseCurve) Length() float64  { return c.inner.Length() }
func (c *ReverseCurve) Surface() Surface { return c.inner.Surface() }
func (c *ReverseCurve) Reversed() Curve  { return c.inner }

func (c *ReverseCurve) ValueAt(t float64) Point {
	return c.inner.ValueAt(c.inner.Length() - t)
}

func (c *ReverseCurve) DerivativeAt(t float64) TangentVector {
	return c.inner.DerivativeAt(c.inner.Length() - t).Negated()
}

func (c *ReverseCurve) VisualJumpTimes() []float64 {
	return c.visualJumpTimes(func() []float64 {
		inner := c.inner.VisualJumpTimes()
		l := c.inner.Length()
		out := make([]float64, len(inner))
		for i, t := range inner {
			out[len(inner)-1-i] = l - t
		}
		return out
	})
}

const (
	closestPointSlices     = 20
	closestPointIterations = 10
)

// nearester is implemented by curves that can compute their closest point
// directly.
type nearester interface {
	nearest(pos r3.Vector) (t, distSq float64)
}

// ClosestPoint returns the parameter of the point on c closest to pos, along
// with the squared distance.
//
// The search samples the curve on a number of slices, narrows the bracket
// around the best sample and repeats a fixed number of times. It finds a
// local minimum and may miss the global one on curves that come close to pos
// several times.
func ClosestPoint(c Curve, pos r3.Vector) (t, distSq float64) {
	if n, ok := c.(nearester); ok {
		return n.nearest(pos)
	}
	posPoint := NewPoint(pos)
	dist := func(t float64) float64 {
		return DistanceSquaredBetween(c.ValueAt(t), posPoint)
	}
	lo, hi := 0.0, c.Length()
	for range closestPointIterations {
		step := (hi - lo) / closestPointSlices
		bestT, bestD := lo, dist(lo)
		for i := 1; i <= closestPointSlices; i++ {
			s := lo + float64(i)*step
			if d := dist(s); d < bestD {
				bestT, bestD = s, d
			}
		}
		lo, hi = max(lo, bestT-step), min(hi, bestT+step)
	}
	t = 0.5 * (lo + hi)
	distSq = dist(t)
	for _, s := range [2]float64{lo, hi} {
		if d := dist(s); d < distSq {
			t, distSq = s, d
		}
	}
	return t, distSq
}
