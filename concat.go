package surfaces

import (
	"fmt"
	"math"
	"sort"
)

const (
	// actualJumpDistanceSquared is the squared distance above which the end
	// of one segment and the start of the next count as different points.
	actualJumpDistanceSquared = 1e-3
	// angleJumpTolerance is the angle, in radians, above which the
	// directions at a join count as different.
	angleJumpTolerance = 1e-3
	// smoothingTimeConstant scales the window that smoothing replaces on
	// either side of a corner, relative to the segment's length.
	smoothingTimeConstant = 0.3
)

// SingularPoint describes the join between two consecutive segments of a
// [ConcatenatedCurve].
type SingularPoint struct {
	// Time is the parameter of the join on the concatenated curve.
	Time float64
	// ActualJump is set when the segments don't meet.
	ActualJump bool
	// AngleJump is set when the segments meet at an angle.
	AngleJump bool
	// VisualJump is set when the join crosses an identified edge: the
	// segments meet, but their drawn representations don't.
	VisualJump bool
}

// ConcatenatedCurve is a sequence of curves traversed one after the other.
// Use [Concatenate] or [NewConcatenatedCurve] to create one.
type ConcatenatedCurve struct {
	curveCache
	segments []Curve
	// starts holds the start time of each segment, followed by the total
	// length.
	starts   []float64
	singular []SingularPoint
}

var _ Curve = (*ConcatenatedCurve)(nil)

// Concatenate joins segments into one curve. It is like
// [NewConcatenatedCurve], but returns the only segment itself if there is
// just one.
func Concatenate(smoothed bool, segments ...Curve) (Curve, error) {
	c, err := NewConcatenatedCurve(segments, smoothed)
	if err != nil {
		return nil, err
	}
	if len(c.segments) == 1 {
		return c.segments[0], nil
	}
	return c, nil
}

// NewConcatenatedCurve joins segments into one curve.
//
// Nested concatenations are flattened. Segments of zero length are logged and
// dropped; if nothing remains, ErrZeroLength is returned. For each join, a
// [SingularPoint] is computed.
//
// If smoothed is set, every join at which the segments meet at an angle is
// rounded off: a window on either side of it is replaced by two
// [SplineSegment]s that pass through the corner in the direction of the
// bisector. Joins that cross identified edges are never smoothed.
func NewConcatenatedCurve(segments []Curve, smoothed bool) (*ConcatenatedCurve, error) {
	var flat []Curve
	for _, seg := range segments {
		if cc, ok := seg.(*ConcatenatedCurve); ok {
			flat = append(flat, cc.segments...)
			continue
		}
		if seg.Length() < minCurveLength {
			Logger().Warn("dropping zero-length segment from concatenation", "segment", len(flat))
			continue
		}
		flat = append(flat, seg)
	}
	if len(flat) == 0 {
		return nil, fmt.Errorf("%w: concatenation of %d segments", ErrZeroLength, len(segments))
	}
	c := newConcatenation(flat)
	if !smoothed {
		return c, nil
	}
	sm, err := c.smoothed()
	if err != nil {
		return nil, err
	}
	return newConcatenation(sm), nil
}

func newConcatenation(segments []Curve) *ConcatenatedCurve {
	c := &ConcatenatedCurve{
		segments: segments,
		starts:   make([]float64, len(segments)+1),
	}
	for i, seg := range segments {
		c.starts[i+1] = c.starts[i] + seg.Length()
	}
	for i := range len(segments) - 1 {
		sp := joinSingularity(segments[i], segments[i+1])
		sp.Time = c.starts[i+1]
		c.singular = append(c.singular, sp)
	}
	return c
}

// joinSingularity classifies the join from the end of a to the start of b.
func joinSingularity(a, b Curve) SingularPoint {
	var sp SingularPoint
	end, start := EndVelocity(a), StartVelocity(b)
	d, i, j := closestPositions(end.Point, start.Point)
	if d > actualJumpDistanceSquared {
		sp.ActualJump = true
		return sp
	}
	// Compare directions at the same copy of the join.
	ve, okEnd := end.AtIndex(i)
	vs, okStart := start.AtIndex(j)
	if !okEnd || !okStart {
		ve, vs = end, start
	}
	if ve.Vector.Angle(vs.Vector).Radians() > angleJumpTolerance {
		sp.AngleJump = true
	}
	if end.Position().Sub(start.Position()).Norm2() > actualJumpDistanceSquared {
		sp.VisualJump = true
		_, endOnEdge := end.Point.(*ModelSurfaceBoundaryPoint)
		_, startOnEdge := start.Point.(*ModelSurfaceBoundaryPoint)
		if !endOnEdge || !startOnEdge {
			Logger().Warn("visual jump not between boundary points",
				"end", end.Position(), "start", start.Position())
		}
	}
	return sp
}

func smoothingWindow(length float64) float64 {
	return smoothingTimeConstant * length * (1 - math.Exp(-length))
}

// smoothed returns the segments with every angle jump replaced by a pair of
// spline segments.
func (c *ConcatenatedCurve) smoothed() ([]Curve, error) {
	n := len(c.segments)
	smooth := make([]bool, n-1)
	for i, sp := range c.singular {
		wide := smoothingWindow(c.segments[i].Length()) > 2*restrictTolerance &&
			smoothingWindow(c.segments[i+1].Length()) > 2*restrictTolerance
		smooth[i] = wide && sp.AngleJump && !sp.ActualJump && !sp.VisualJump
	}
	kept := make([]Curve, n)
	for i, seg := range c.segments {
		var cutStart, cutEnd float64
		if i > 0 && smooth[i-1] {
			cutStart = smoothingWindow(seg.Length())
		}
		if i < n-1 && smooth[i] {
			cutEnd = smoothingWindow(seg.Length())
		}
		k, err := Restrict(seg, cutStart, seg.Length()-cutEnd)
		if err != nil {
			return nil, fmt.Errorf("smoothing segment %d: %w", i, err)
		}
		kept[i] = k
	}

	surface := c.Surface()
	var out []Curve
	for i := range n {
		out = append(out, kept[i])
		if i == n-1 || !smooth[i] {
			continue
		}
		vin := EndVelocity(c.segments[i])
		vout := StartVelocity(c.segments[i+1])
		bisector := vin.Vector.Normalize().Add(vout.Vector.Normalize())
		if bisector.Norm() < minCurveLength {
			// The curve turns back on itself; there is no bisector to
			// pass through.
			continue
		}
		speed := 0.5 * (vin.Vector.Norm() + vout.Vector.Norm())
		corner := TangentVector{
			Point:  NewPoint(vin.Position()),
			Vector: bisector.Normalize().Mul(speed),
		}
		lead, err := NewSplineSegment(surface, EndVelocity(kept[i]), corner, c.segments[i].Length()-kept[i].Length())
		if err != nil {
			return nil, err
		}
		trail, err := NewSplineSegment(surface, corner, StartVelocity(kept[i+1]), c.segments[i+1].Length()-kept[i+1].Length())
		if err != nil {
			return nil, err
		}
		out = append(out, lead, trail)
	}
	return out, nil
}

func (c *ConcatenatedCurve) Length() float64  { return c.starts[len(c.segments)] }
func (c *ConcatenatedCurve) Surface() Surface { return c.segments[0].Surface() }
func (c *ConcatenatedCurve) Reversed() Curve  { return c.reversed(c) }

// Segments returns the flattened list of segments. The returned slice must
// not be modified.
func (c *ConcatenatedCurve) Segments() []Curve { return c.segments }

// SingularPoints returns the classification of every join, in order.
func (c *ConcatenatedCurve) SingularPoints() []SingularPoint { return c.singular }

// segmentAt returns the index of the segment containing t and t relative to
// that segment. Joins belong to the later segment.
func (c *ConcatenatedCurve) segmentAt(t float64) (int, float64) {
	n := len(c.segments)
	i := sort.Search(n, func(i int) bool { return c.starts[i+1] > t })
	if i == n {
		i = n - 1
	}
	return i, min(max(t-c.starts[i], 0), c.segments[i].Length())
}

func (c *ConcatenatedCurve) ValueAt(t float64) Point {
	i, s := c.segmentAt(t)
	return c.segments[i].ValueAt(s)
}

func (c *ConcatenatedCurve) DerivativeAt(t float64) TangentVector {
	i, s := c.segmentAt(t)
	return c.segments[i].DerivativeAt(s)
}

func (c *ConcatenatedCurve) VisualJumpTimes() []float64 {
	return c.visualJumpTimes(func() []float64 {
		var out []float64
		for i, seg := range c.segments {
			for _, t := range seg.VisualJumpTimes() {
				out = append(out, c.starts[i]+t)
			}
			if i < len(c.singular) && c.singular[i].VisualJump {
				out = append(out, c.singular[i].Time)
			}
		}
		return out
	})
}
