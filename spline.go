package surfaces

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// SplineSegment is a cubic Hermite interpolant between two tangent vectors,
// used to round off corners of concatenated curves. It is stored as the
// control points of the equivalent cubic Bézier.
type SplineSegment struct {
	curveCache
	surface        Surface
	p0, p1, p2, p3 r3.Vector
	length         float64
}

var _ Curve = (*SplineSegment)(nil)

// NewSplineSegment returns the cubic curve of the given parameter length that
// starts at start's position with start's velocity and ends at end's
// position with end's velocity.
func NewSplineSegment(surface Surface, start, end TangentVector, length float64) (*SplineSegment, error) {
	if length < minCurveLength {
		return nil, fmt.Errorf("%w: spline segment of length %g", ErrZeroLength, length)
	}
	p0, p3 := start.Position(), end.Position()
	return &SplineSegment{
		surface: surface,
		p0:      p0,
		p1:      p0.Add(start.Vector.Mul(length / 3)),
		p2:      p3.Sub(end.Vector.Mul(length / 3)),
		p3:      p3,
		length:  length,
	}, nil
}

func (s *SplineSegment) Length() float64            { return s.length }
func (s *SplineSegment) Surface() Surface           { return s.surface }
func (s *SplineSegment) Reversed() Curve            { return s.reversed(s) }
func (s *SplineSegment) VisualJumpTimes() []float64 { return nil }

func (s *SplineSegment) eval(u float64) r3.Vector {
	mt := 1.0 - u
	a := s.p0.Mul(mt * mt * mt)
	b := s.p1.Mul(mt * mt * 3.0)
	c := s.p2.Mul(mt * 3.0)
	d := s.p3
	return a.Add(b.Add(c.Add(d.Mul(u)).Mul(u)).Mul(u))
}

func (s *SplineSegment) ValueAt(t float64) Point {
	return NewPoint(s.eval(t / s.length))
}

func (s *SplineSegment) DerivativeAt(t float64) TangentVector {
	u := t / s.length
	mt := 1.0 - u
	// Derivative of the Bézier with respect to u, divided by the length to
	// get the derivative with respect to t.
	d0 := s.p1.Sub(s.p0).Mul(3 * mt * mt)
	d1 := s.p2.Sub(s.p1).Mul(6 * mt * u)
	d2 := s.p3.Sub(s.p2).Mul(3 * u * u)
	v := d0.Add(d1).Add(d2).Mul(1 / s.length)
	return NewTangentVector(s.ValueAt(t), v)
}
