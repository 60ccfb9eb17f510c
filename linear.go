package surfaces

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/golang/geo/r3"
)

// LinearMap is a linear map of 3D space, used to transport tangent vectors
// along homeomorphisms. It is stored as three column vectors, so that
//
//	| X0 X1 X2 |
//	| Y0 Y1 Y2 |
//	| Z0 Z1 Z2 |
//
// is represented as {C0: (X0, Y0, Z0), C1: (X1, Y1, Z1), C2: (X2, Y2, Z2)}.
// As with [Mobius], (A * B) * v == A * (B * v).
type LinearMap struct {
	C0, C1, C2 r3.Vector
}

// IdentityMap is the identity linear map.
var IdentityMap = LinearMap{
	C0: r3.Vector{X: 1},
	C1: r3.Vector{Y: 1},
	C2: r3.Vector{Z: 1},
}

// singularDeterminant is the determinant magnitude below which a linear map
// is considered non-invertible.
const singularDeterminant = 1e-12

// NewLinearMap returns the linear map with the given columns.
func NewLinearMap(c0, c1, c2 r3.Vector) LinearMap {
	return LinearMap{C0: c0, C1: c1, C2: c2}
}

// ComplexMap returns the linear map that multiplies the xy-plane, read as the
// complex plane, by w and leaves z unchanged. This is the Jacobian of a
// holomorphic map whose complex derivative is w.
func ComplexMap(w complex128) LinearMap {
	re, im := real(w), imag(w)
	return LinearMap{
		C0: r3.Vector{X: re, Y: im},
		C1: r3.Vector{X: -im, Y: re},
		C2: r3.Vector{Z: 1},
	}
}

// RotationMap returns a rotation by th radians in the xy-plane. A positive
// angle rotates the positive x axis into the positive y axis.
func RotationMap(th float64) LinearMap {
	return ComplexMap(cmplx.Rect(1, th))
}

func (m LinearMap) String() string {
	return fmt.Sprintf("[%v %v %v]", m.C0, m.C1, m.C2)
}

// Apply computes m·v.
func (m LinearMap) Apply(v r3.Vector) r3.Vector {
	return m.C0.Mul(v.X).Add(m.C1.Mul(v.Y)).Add(m.C2.Mul(v.Z))
}

// Mul computes the matrix product m·o, the map that applies o first.
func (m LinearMap) Mul(o LinearMap) LinearMap {
	return LinearMap{
		C0: m.Apply(o.C0),
		C1: m.Apply(o.C1),
		C2: m.Apply(o.C2),
	}
}

// Transpose returns the transposed map.
func (m LinearMap) Transpose() LinearMap {
	return LinearMap{
		C0: r3.Vector{X: m.C0.X, Y: m.C1.X, Z: m.C2.X},
		C1: r3.Vector{X: m.C0.Y, Y: m.C1.Y, Z: m.C2.Y},
		C2: r3.Vector{X: m.C0.Z, Y: m.C1.Z, Z: m.C2.Z},
	}
}

// Det returns the determinant of the map.
func (m LinearMap) Det() float64 {
	return m.C0.Dot(m.C1.Cross(m.C2))
}

// Inverse returns the inverse map, computed as the adjugate divided by the
// determinant. It returns false if the map is singular.
func (m LinearMap) Inverse() (LinearMap, bool) {
	det := m.Det()
	if math.Abs(det) < singularDeterminant || math.IsNaN(det) {
		return LinearMap{}, false
	}
	// The rows of the inverse are the cross products of pairs of columns.
	r0 := m.C1.Cross(m.C2).Mul(1 / det)
	r1 := m.C2.Cross(m.C0).Mul(1 / det)
	r2 := m.C0.Cross(m.C1).Mul(1 / det)
	return LinearMap{C0: r0, C1: r1, C2: r2}.Transpose(), true
}

// ApproxEqual reports whether all entries of m and o differ by at most eps.
func (m LinearMap) ApproxEqual(o LinearMap, eps float64) bool {
	near := func(a, b r3.Vector) bool {
		return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps && math.Abs(a.Z-b.Z) <= eps
	}
	return near(m.C0, o.C0) && near(m.C1, o.C1) && near(m.C2, o.C2)
}

// Mobius describes a Möbius transformation z ↦ (Az+B)/(Cz+D) via its complex
// coefficients. Composition corresponds to multiplication of the 2×2 matrices
//
//	| A B |
//	| C D |
//
// so that (m * o)(z) == m(o(z)).
type Mobius struct {
	A, B, C, D complex128
}

// IdentityMobius is the identity transformation.
var IdentityMobius = Mobius{1, 0, 0, 1}

// Cayley maps the upper half-plane onto the unit disk, sending i to 0.
var Cayley = Mobius{1, -1i, 1, 1i}

// InverseCayley maps the unit disk onto the upper half-plane.
var InverseCayley = Mobius{1i, 1i, -1, 1}

// Apply evaluates the transformation at z. The point at infinity is not
// treated specially; callers avoid the pole.
func (m Mobius) Apply(z complex128) complex128 {
	return (m.A*z + m.B) / (m.C*z + m.D)
}

// Derivative returns the complex derivative of the transformation at z.
func (m Mobius) Derivative(z complex128) complex128 {
	d := m.C*z + m.D
	return m.Det() / (d * d)
}

// Det returns AD − BC.
func (m Mobius) Det() complex128 {
	return m.A*m.D - m.B*m.C
}

// Mul composes two transformations, applying o first.
func (m Mobius) Mul(o Mobius) Mobius {
	return Mobius{
		A: m.A*o.A + m.B*o.C,
		B: m.A*o.B + m.B*o.D,
		C: m.C*o.A + m.D*o.C,
		D: m.C*o.B + m.D*o.D,
	}
}

// Inverse returns the inverse transformation. The coefficients are not
// normalized; Möbius coefficients are only defined up to a common factor.
func (m Mobius) Inverse() Mobius {
	return Mobius{A: m.D, B: -m.B, C: -m.C, D: m.A}
}

func (m Mobius) String() string {
	return fmt.Sprintf("(%v z + %v) / (%v z + %v)", m.A, m.B, m.C, m.D)
}

// toComplex reads the xy-plane as the complex plane.
func toComplex(v r3.Vector) complex128 {
	return complex(v.X, v.Y)
}

func fromComplex(z complex128, plane float64) r3.Vector {
	return r3.Vector{X: real(z), Y: imag(z), Z: plane}
}
