package surfaces

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestLinearMapInverse(t *testing.T) {
	m := NewLinearMap(
		r3.Vector{X: 2, Y: 1},
		r3.Vector{X: -1, Y: 3, Z: 1},
		r3.Vector{Y: 1, Z: 4},
	)
	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("map should be invertible")
	}
	if got := m.Mul(inv); !got.ApproxEqual(IdentityMap, 1e-12) {
		t.Errorf("m·m⁻¹ = %v", got)
	}
	if got := inv.Mul(m); !got.ApproxEqual(IdentityMap, 1e-12) {
		t.Errorf("m⁻¹·m = %v", got)
	}
}

func TestLinearMapSingular(t *testing.T) {
	c0 := r3.Vector{X: 1, Y: 2, Z: 3}
	c1 := r3.Vector{X: -1, Y: 0, Z: 2}
	m := NewLinearMap(c0, c1, c0.Add(c1))
	if inv, ok := m.Inverse(); ok {
		t.Errorf("singular map has inverse %v", inv)
	}
}

func TestLinearMapMulOrder(t *testing.T) {
	a := RotationMap(math.Pi / 2)
	b := NewLinearMap(r3.Vector{X: 2}, r3.Vector{Y: 1}, r3.Vector{Z: 1})
	v := r3.Vector{X: 1, Y: 1, Z: 1}
	diff(t, a.Apply(b.Apply(v)), a.Mul(b).Apply(v), cmpopts.EquateApprox(0, 1e-12))
	diff(t, b.Transpose().Transpose(), b)
}

func TestComplexMap(t *testing.T) {
	m := ComplexMap(2 + 3i)
	diff(t, r3.Vector{X: 8, Y: -1, Z: 5}, m.Apply(r3.Vector{X: 1, Y: -2, Z: 5}))
	diff(t, 13.0, m.Det(), cmpopts.EquateApprox(0, 1e-12))

	diff(t, r3.Vector{Y: 1}, RotationMap(math.Pi/2).Apply(r3.Vector{X: 1}), cmpopts.EquateApprox(0, 1e-12))
}

func closeComplex(t *testing.T, want, got complex128, eps float64) {
	t.Helper()
	if d := cmplx.Abs(want - got); d > eps {
		t.Errorf("got %v, want %v (off by %g)", got, want, d)
	}
}

func TestCayley(t *testing.T) {
	closeComplex(t, 0, Cayley.Apply(1i), 1e-15)
	closeComplex(t, 1i, InverseCayley.Apply(0), 1e-15)
	for _, z := range []complex128{0.3 + 2i, -1 + 0.1i, 5 + 5i} {
		w := Cayley.Apply(z)
		if cmplx.Abs(w) >= 1 {
			t.Errorf("Cayley(%v) = %v is outside of the unit disk", z, w)
		}
		closeComplex(t, z, InverseCayley.Apply(w), 1e-12)
		closeComplex(t, z, InverseCayley.Mul(Cayley).Apply(z), 1e-12)
	}
}

func TestMobius(t *testing.T) {
	m := Mobius{2 + 1i, 1, 0.5i, 3}
	o := Mobius{1, -2, 0, 4}
	z := 0.7 + 1.3i

	closeComplex(t, z, m.Inverse().Apply(m.Apply(z)), 1e-12)
	closeComplex(t, m.Apply(o.Apply(z)), m.Mul(o).Apply(z), 1e-12)
	closeComplex(t, z, IdentityMobius.Apply(z), 1e-15)

	const h = 1e-6
	numeric := (m.Apply(z+h) - m.Apply(z-h)) / (2 * h)
	closeComplex(t, numeric, m.Derivative(z), 1e-8)
}
