package surfaces

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/golang/geo/r3"
)

// Model selects the model of the hyperbolic plane.
type Model int

const (
	// Disk is the Poincaré disk model: the open unit disk.
	Disk Model = iota
	// HalfPlane is the Poincaré half-plane model: positions with y > 0.
	HalfPlane
)

func (m Model) String() string {
	switch m {
	case Disk:
		return "disk"
	case HalfPlane:
		return "half-plane"
	default:
		return fmt.Sprintf("Model(%d)", int(m))
	}
}

const (
	// minImaginary is the smallest imaginary part a half-plane coordinate is
	// clamped to, keeping points off the ideal boundary.
	minImaginary = 1e-6
	// axisTolerance is the relative tolerance for a point to count as lying
	// on the imaginary axis.
	axisTolerance = 1e-6
	// verticalTolerance is the relative tolerance for two points to count
	// as lying on the same vertical geodesic.
	verticalTolerance = 1e-12
)

// HyperbolicPlane is the hyperbolic plane in the disk or half-plane model.
//
// Geodesics are represented by the coefficients of the Möbius
// transformation that maps the canonical geodesic t ↦ i·eᵗ of the half-plane
// onto them. The canonical geodesic is parametrized by hyperbolic arclength,
// and so are all geodesics.
type HyperbolicPlane struct {
	name     string
	model    Model
	extent   float64
	identity *Homeomorphism
	// canonical is the half-plane model that geodesic embeddings start
	// from. It is p itself for the half-plane model.
	canonical *HyperbolicPlane
}

var _ BaseGeometry = (*HyperbolicPlane)(nil)

// NewHyperbolicPlane returns a hyperbolic plane in the given model.
func NewHyperbolicPlane(name string, model Model) *HyperbolicPlane {
	p := &HyperbolicPlane{name: name, model: model, extent: DefaultExtent}
	p.identity = newIdentity(p)
	if model == HalfPlane {
		p.canonical = p
	} else {
		p.canonical = NewHyperbolicPlane(name+" (half-plane)", HalfPlane)
	}
	return p
}

func (p *HyperbolicPlane) Name() string             { return p.name }
func (p *HyperbolicPlane) Genus() int               { return 0 }
func (p *HyperbolicPlane) Is2D() bool               { return true }
func (p *HyperbolicPlane) Punctures() []Point       { return nil }
func (p *HyperbolicPlane) Identity() *Homeomorphism { return p.identity }

// Model returns the model the plane uses.
func (p *HyperbolicPlane) Model() Model { return p.model }

func (p *HyperbolicPlane) MinimalPosition() r3.Vector {
	if p.model == Disk {
		return r3.Vector{X: -1, Y: -1}
	}
	return r3.Vector{X: -p.extent}
}

func (p *HyperbolicPlane) MaximalPosition() r3.Vector {
	if p.model == Disk {
		return r3.Vector{X: 1, Y: 1}
	}
	return r3.Vector{X: p.extent, Y: p.extent}
}

func (p *HyperbolicPlane) Contains(pos r3.Vector) bool {
	if p.model == Disk {
		return pos.X*pos.X+pos.Y*pos.Y < 1
	}
	return pos.Y > 0
}

// ClampPoint moves positions slightly outside of the model, but within
// tolerance, back inside.
func (p *HyperbolicPlane) ClampPoint(pos r3.Vector, tolerance float64) (Point, bool) {
	pos.Z = 0
	if p.model == Disk {
		r := math.Hypot(pos.X, pos.Y)
		switch {
		case r < 1:
			return NewPoint(pos), true
		case r < 1+tolerance:
			return NewPoint(pos.Mul((1 - minImaginary) / r)), true
		default:
			return nil, false
		}
	}
	switch {
	case pos.Y > 0:
		return NewPoint(pos), true
	case pos.Y > -tolerance:
		pos.Y = minImaginary
		return NewPoint(pos), true
	default:
		return nil, false
	}
}

// toHalfPlane converts a position of the model to a half-plane coordinate,
// clamped away from the real axis.
func (p *HyperbolicPlane) toHalfPlane(pos r3.Vector) complex128 {
	z := toComplex(pos)
	if p.model == Disk {
		z = InverseCayley.Apply(z)
	}
	if imag(z) < minImaginary {
		z = complex(real(z), minImaginary)
	}
	return z
}

// positionDistance returns the hyperbolic distance between two positions.
func (p *HyperbolicPlane) positionDistance(a, b r3.Vector) float64 {
	u, v := toComplex(a), toComplex(b)
	d := cmplx.Abs(u - v)
	if p.model == Disk {
		nu := 1 - real(u)*real(u) - imag(u)*imag(u)
		nv := 1 - real(v)*real(v) - imag(v)*imag(v)
		return math.Acosh(1 + 2*d*d/(nu*nv))
	}
	return 2 * math.Atanh(d/cmplx.Abs(u-cmplx.Conj(v)))
}

// closestPositions is like the package-level function of the same name, but
// measures hyperbolic distances.
func (p *HyperbolicPlane) closestPositions(a, b Point) (dist float64, i, j int) {
	dist = math.Inf(1)
	for ia, pa := range a.Positions() {
		for ib, pb := range b.Positions() {
			if d := p.positionDistance(pa, pb); d < dist {
				dist, i, j = d, ia, ib
			}
		}
	}
	return dist, i, j
}

func (p *HyperbolicPlane) Distance(a, b Point) float64 {
	d, _, _ := p.closestPositions(a, b)
	return d
}

func (p *HyperbolicPlane) DistanceSquared(a, b Point) float64 {
	d := p.Distance(a, b)
	return d * d
}

func (p *HyperbolicPlane) Geodesic(a, b Point) (Curve, error) {
	_, i, j := p.closestPositions(a, b)
	return p.Segment(a.Positions()[i], b.Positions()[j])
}

func (p *HyperbolicPlane) GeodesicFrom(start TangentVector, length float64) (Curve, error) {
	return p.Ray(start.Position(), start.Vector, length)
}

// Segment returns the geodesic from start to end.
//
// It solves for a real Möbius transformation φ that maps start to i and end
// onto the imaginary axis above i. The geodesic then has length
// log(Im φ(end)) and is the image of the canonical geodesic under φ⁻¹. There
// are two candidates for φ, depending on which ideal endpoint of the
// geodesic is sent to 0; if neither works, the points coincide or are
// numerically degenerate and ErrDegenerate is returned.
func (p *HyperbolicPlane) Segment(start, end r3.Vector) (Geodesic, error) {
	z1, z2 := p.toHalfPlane(start), p.toHalfPlane(end)
	phi, length, err := solveGeodesicFrame(z1, z2)
	if err != nil {
		return nil, fmt.Errorf("geodesic from %v to %v: %w", start, end, err)
	}
	if length < minCurveLength {
		return nil, fmt.Errorf("%w: geodesic from %v to itself", ErrZeroLength, start)
	}
	return p.newGeodesic(phi.Inverse(), length), nil
}

// Ray returns the geodesic starting at start in direction dir. Directions
// are given in the coordinates of the plane's model.
func (p *HyperbolicPlane) Ray(start, dir r3.Vector, length float64) (Geodesic, error) {
	if length < 0 {
		dir = dir.Mul(-1)
		length = -length
	}
	if length < minCurveLength {
		return nil, fmt.Errorf("%w: ray of length %g", ErrZeroLength, length)
	}
	z, v := toComplex(start), toComplex(dir)
	if p.model == Disk {
		v *= InverseCayley.Derivative(z)
		z = InverseCayley.Apply(z)
	}
	if imag(z) < minImaginary {
		z = complex(real(z), minImaginary)
	}
	if cmplx.Abs(v) < minCurveLength || cmplx.IsNaN(v) {
		return nil, fmt.Errorf("%w: ray direction %v", ErrDegenerate, dir)
	}
	// Move z to i, then rotate about i so that v points up. Scaling by a
	// positive factor doesn't change the direction.
	toI := Mobius{1, complex(-real(z), 0), 0, complex(imag(z), 0)}
	phi := rotationAboutI(math.Pi/2 - cmplx.Phase(v)).Mul(toI)
	return p.newGeodesic(phi.Inverse(), length), nil
}

func (p *HyperbolicPlane) newGeodesic(fromCanonical Mobius, length float64) *HyperbolicGeodesic {
	if p.model == Disk {
		fromCanonical = Cayley.Mul(fromCanonical)
	}
	return &HyperbolicGeodesic{
		plane:  p,
		m:      fromCanonical,
		mInv:   fromCanonical.Inverse(),
		length: length,
	}
}

// rotationAboutI returns the Möbius transformation fixing i that rotates
// tangent vectors at i by th radians.
func rotationAboutI(th float64) Mobius {
	s, c := math.Sincos(th / 2)
	return Mobius{complex(c, 0), complex(s, 0), complex(-s, 0), complex(c, 0)}
}

// solveGeodesicFrame finds the real Möbius transformation that maps z1 to i
// and z2 onto the imaginary axis above i, and returns it along with the
// hyperbolic distance between z1 and z2.
func solveGeodesicFrame(z1, z2 complex128) (Mobius, float64, error) {
	x1, x2 := real(z1), real(z2)
	var branches [2]Mobius
	if math.Abs(x2-x1) <= verticalTolerance*max(1, math.Abs(x1), math.Abs(x2)) {
		// The geodesic is the vertical line Re z = x1, with ideal endpoints
		// x1 and ∞.
		branches = [2]Mobius{
			{1, complex(-x1, 0), 0, 1},
			{0, -1, 1, complex(-x1, 0)},
		}
	} else {
		// The geodesic is a semicircle centered on the real axis.
		sq := func(z complex128) float64 { return real(z)*real(z) + imag(z)*imag(z) }
		c := (sq(z2) - sq(z1)) / (2 * (x2 - x1))
		r := cmplx.Abs(z1 - complex(c, 0))
		branches = [2]Mobius{
			idealFrame(c-r, c+r),
			idealFrame(c+r, c-r),
		}
	}
	for _, phi := range branches {
		w1 := phi.Apply(z1)
		if imag(w1) <= 0 || math.Abs(real(w1)) > axisTolerance*cmplx.Abs(w1) {
			continue
		}
		k := complex(imag(w1), 0)
		phi.A /= k
		phi.B /= k
		w2 := phi.Apply(z2)
		if imag(w2) <= 1 || math.Abs(real(w2)) > axisTolerance*cmplx.Abs(w2) {
			continue
		}
		return phi, math.Log(imag(w2)), nil
	}
	return Mobius{}, 0, fmt.Errorf("%w: no frame maps %v and %v onto the imaginary axis", ErrDegenerate, z1, z2)
}

// idealFrame returns a real Möbius transformation with positive determinant
// that maps the ideal point p to 0 and q to ∞.
func idealFrame(p, q float64) Mobius {
	if p < q {
		return Mobius{-1, complex(p, 0), 1, complex(-q, 0)}
	}
	return Mobius{1, complex(-p, 0), 1, complex(-q, 0)}
}

// HyperbolicGeodesic is a geodesic segment of a [HyperbolicPlane],
// parametrized by hyperbolic arclength.
type HyperbolicGeodesic struct {
	curveCache
	plane   *HyperbolicPlane
	m, mInv Mobius
	length  float64

	embedding option[*Homeomorphism]
}

var _ Geodesic = (*HyperbolicGeodesic)(nil)

func (g *HyperbolicGeodesic) Length() float64            { return g.length }
func (g *HyperbolicGeodesic) Surface() Surface           { return g.plane }
func (g *HyperbolicGeodesic) Reversed() Curve            { return g.reversed(g) }
func (g *HyperbolicGeodesic) VisualJumpTimes() []float64 { return nil }

// Coefficients returns the Möbius transformation that maps the canonical
// geodesic t ↦ i·eᵗ of the half-plane onto g.
func (g *HyperbolicGeodesic) Coefficients() Mobius { return g.m }

func canonicalGeodesic(t float64) complex128 {
	return complex(0, math.Exp(t))
}

func (g *HyperbolicGeodesic) ValueAt(t float64) Point {
	return NewPoint(fromComplex(g.m.Apply(canonicalGeodesic(t)), 0))
}

func (g *HyperbolicGeodesic) DerivativeAt(t float64) TangentVector {
	x := canonicalGeodesic(t)
	v := g.m.Derivative(x) * x
	return NewTangentVector(g.ValueAt(t), fromComplex(v, 0))
}

// Rightness maps pos back into the frame of the canonical geodesic and
// returns its real part.
func (g *HyperbolicGeodesic) Rightness(pos r3.Vector) float64 {
	return real(g.mInv.Apply(toComplex(pos)))
}

// Embedding returns the Möbius transformation of the geodesic as a
// homeomorphism from the canonical half-plane.
func (g *HyperbolicGeodesic) Embedding() *Homeomorphism {
	return g.embedding.get(func() *Homeomorphism {
		return mobiusHomeomorphism(g.plane.canonical, g.plane, g.m)
	})
}

// mobiusHomeomorphism returns m as a homeomorphism between two planes.
func mobiusHomeomorphism(source, target Surface, m Mobius) *Homeomorphism {
	inv := m.Inverse()
	return NewHomeomorphism(source, target,
		func(x r3.Vector) r3.Vector { return fromComplex(m.Apply(toComplex(x)), x.Z) },
		func(y r3.Vector) r3.Vector { return fromComplex(inv.Apply(toComplex(y)), y.Z) },
		func(x r3.Vector) LinearMap { return ComplexMap(m.Derivative(toComplex(x))) },
		func(y r3.Vector) LinearMap { return ComplexMap(inv.Derivative(toComplex(y))) },
	)
}
