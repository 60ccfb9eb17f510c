package surfaces

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// DefaultExtent is the half-width of the bounding box reported by a
// [EuclideanPlane].
const DefaultExtent = 10

// EuclideanPlane is the flat plane z = 0. Its geodesics are straight
// segments.
type EuclideanPlane struct {
	name     string
	extent   float64
	identity *Homeomorphism
}

var _ BaseGeometry = (*EuclideanPlane)(nil)

// NewEuclideanPlane returns a Euclidean plane whose bounding box is
// [-DefaultExtent, DefaultExtent]².
func NewEuclideanPlane(name string) *EuclideanPlane {
	p := &EuclideanPlane{name: name, extent: DefaultExtent}
	p.identity = newIdentity(p)
	return p
}

func (p *EuclideanPlane) Name() string             { return p.name }
func (p *EuclideanPlane) Genus() int               { return 0 }
func (p *EuclideanPlane) Is2D() bool               { return true }
func (p *EuclideanPlane) Punctures() []Point       { return nil }
func (p *EuclideanPlane) Identity() *Homeomorphism { return p.identity }
func (p *EuclideanPlane) Contains(r3.Vector) bool  { return true }

func (p *EuclideanPlane) MinimalPosition() r3.Vector {
	return r3.Vector{X: -p.extent, Y: -p.extent}
}

func (p *EuclideanPlane) MaximalPosition() r3.Vector {
	return r3.Vector{X: p.extent, Y: p.extent}
}

// ClampPoint projects pos onto the plane. Every position is close to the
// plane, so it never returns false.
func (p *EuclideanPlane) ClampPoint(pos r3.Vector, tolerance float64) (Point, bool) {
	pos.Z = 0
	return NewPoint(pos), true
}

func (p *EuclideanPlane) DistanceSquared(a, b Point) float64 {
	return DistanceSquaredBetween(a, b)
}

func (p *EuclideanPlane) Distance(a, b Point) float64 {
	return math.Sqrt(p.DistanceSquared(a, b))
}

// Geodesic returns the segment between the closest pair of positions of a
// and b.
func (p *EuclideanPlane) Geodesic(a, b Point) (Curve, error) {
	_, i, j := closestPositions(a, b)
	return p.Segment(a.Positions()[i], b.Positions()[j])
}

func (p *EuclideanPlane) GeodesicFrom(start TangentVector, length float64) (Curve, error) {
	return p.Ray(start.Position(), start.Vector, length)
}

func (p *EuclideanPlane) Segment(start, end r3.Vector) (Geodesic, error) {
	d := end.Sub(start)
	l := d.Norm()
	if l < minCurveLength {
		return nil, fmt.Errorf("%w: segment from %v to itself", ErrZeroLength, start)
	}
	return &EuclideanSegment{plane: p, start: start, dir: d.Mul(1 / l), length: l}, nil
}

func (p *EuclideanPlane) Ray(start, dir r3.Vector, length float64) (Geodesic, error) {
	if length < 0 {
		dir = dir.Mul(-1)
		length = -length
	}
	if length < minCurveLength {
		return nil, fmt.Errorf("%w: ray of length %g", ErrZeroLength, length)
	}
	n := dir.Norm()
	if n < minCurveLength || math.IsNaN(n) {
		return nil, fmt.Errorf("%w: ray direction %v", ErrDegenerate, dir)
	}
	return &EuclideanSegment{plane: p, start: start, dir: dir.Mul(1 / n), length: length}, nil
}

// EuclideanSegment is a straight segment parametrized by arclength.
type EuclideanSegment struct {
	curveCache
	plane  *EuclideanPlane
	start  r3.Vector
	dir    r3.Vector
	length float64

	embedding option[*Homeomorphism]
}

var _ Geodesic = (*EuclideanSegment)(nil)

func (s *EuclideanSegment) Length() float64            { return s.length }
func (s *EuclideanSegment) Surface() Surface           { return s.plane }
func (s *EuclideanSegment) Reversed() Curve            { return s.reversed(s) }
func (s *EuclideanSegment) VisualJumpTimes() []float64 { return nil }

// Direction returns the unit direction of the segment.
func (s *EuclideanSegment) Direction() r3.Vector { return s.dir }

func (s *EuclideanSegment) eval(t float64) r3.Vector {
	return s.start.Add(s.dir.Mul(t))
}

func (s *EuclideanSegment) ValueAt(t float64) Point {
	return NewPoint(s.eval(t))
}

func (s *EuclideanSegment) DerivativeAt(t float64) TangentVector {
	return NewTangentVector(s.ValueAt(t), s.dir)
}

func (s *EuclideanSegment) Rightness(pos r3.Vector) float64 {
	d := pos.Sub(s.start)
	return -(s.dir.X*d.Y - s.dir.Y*d.X)
}

func (s *EuclideanSegment) nearest(pos r3.Vector) (t, distSq float64) {
	dotp := s.dir.Dot(pos.Sub(s.start))
	if dotp <= 0.0 {
		return 0, pos.Sub(s.start).Norm2()
	} else if dotp >= s.length {
		return s.length, pos.Sub(s.eval(s.length)).Norm2()
	} else {
		return dotp, pos.Sub(s.eval(dotp)).Norm2()
	}
}

// Embedding returns the rigid motion that maps the positive x axis onto the
// segment's supporting line, starting at the segment's start.
func (s *EuclideanSegment) Embedding() *Homeomorphism {
	return s.embedding.get(func() *Homeomorphism {
		n := planeNormal(s.dir)
		z := r3.Vector{Z: 1}
		frame := NewLinearMap(s.dir, n, z)
		inv := frame.Transpose()
		return NewHomeomorphism(s.plane, s.plane,
			func(x r3.Vector) r3.Vector { return s.start.Add(frame.Apply(x)) },
			func(y r3.Vector) r3.Vector { return inv.Apply(y.Sub(s.start)) },
			func(r3.Vector) LinearMap { return frame },
			func(r3.Vector) LinearMap { return inv },
		)
	})
}
