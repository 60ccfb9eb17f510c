package surfaces

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Homeomorphism is a pair of mutually inverse maps between two surfaces,
// together with their derivatives.
//
// Composition with [Homeomorphism.Mul] and inversion with
// [Homeomorphism.Inverse] are algebraic and don't evaluate anything. Every
// surface owns a designated identity, which all operations treat as a fast
// path.
type Homeomorphism struct {
	Source, Target Surface

	// F maps positions of Source to positions of Target; FInverse maps
	// back.
	F, FInverse func(r3.Vector) r3.Vector
	// DF returns the Jacobian of F at a position of Source; DFInverse
	// returns the Jacobian of FInverse at a position of Target.
	DF, DFInverse func(r3.Vector) LinearMap

	isIdentity bool
}

// NewHomeomorphism returns the homeomorphism given by the maps f and fInv
// and the derivative df. If dfInv is nil, it is computed as the inverse of
// df at fInv(x); that computation panics with [ErrDegenerate] where df is
// singular.
func NewHomeomorphism(
	source, target Surface,
	f, fInv func(r3.Vector) r3.Vector,
	df, dfInv func(r3.Vector) LinearMap,
) *Homeomorphism {
	if dfInv == nil {
		dfInv = func(x r3.Vector) LinearMap {
			return mustInverse(df(fInv(x)))
		}
	}
	return &Homeomorphism{
		Source:    source,
		Target:    target,
		F:         f,
		FInverse:  fInv,
		DF:        df,
		DFInverse: dfInv,
	}
}

func mustInverse(m LinearMap) LinearMap {
	inv, ok := m.Inverse()
	if !ok {
		panic(fmt.Errorf("%w: singular Jacobian %v", ErrDegenerate, m))
	}
	return inv
}

// newIdentity returns the identity of s. Surfaces call it once, in their
// constructor.
func newIdentity(s Surface) *Homeomorphism {
	id := func(x r3.Vector) r3.Vector { return x }
	did := func(r3.Vector) LinearMap { return IdentityMap }
	return &Homeomorphism{
		Source:     s,
		Target:     s,
		F:          id,
		FInverse:   id,
		DF:         did,
		DFInverse:  did,
		isIdentity: true,
	}
}

// IsIdentity reports whether h is the designated identity of its surface.
func (h *Homeomorphism) IsIdentity() bool { return h.isIdentity }

// Mul returns the composition h*g, which applies g first and h second. Its
// derivative at x is h.DF(g.F(x)) · g.DF(x).
func (h *Homeomorphism) Mul(g *Homeomorphism) *Homeomorphism {
	if h.isIdentity {
		return g
	}
	if g.isIdentity {
		return h
	}
	return &Homeomorphism{
		Source:   g.Source,
		Target:   h.Target,
		F:        func(x r3.Vector) r3.Vector { return h.F(g.F(x)) },
		FInverse: func(y r3.Vector) r3.Vector { return g.FInverse(h.FInverse(y)) },
		DF: func(x r3.Vector) LinearMap {
			return h.DF(g.F(x)).Mul(g.DF(x))
		},
		DFInverse: func(y r3.Vector) LinearMap {
			return g.DFInverse(h.FInverse(y)).Mul(h.DFInverse(y))
		},
	}
}

// Inverse returns the inverse homeomorphism.
func (h *Homeomorphism) Inverse() *Homeomorphism {
	if h.isIdentity {
		return h
	}
	return &Homeomorphism{
		Source:    h.Target,
		Target:    h.Source,
		F:         h.FInverse,
		FInverse:  h.F,
		DF:        h.DFInverse,
		DFInverse: h.DF,
	}
}

// Apply maps every position of p.
func (h *Homeomorphism) Apply(p Point) Point {
	if h.isIdentity {
		return p
	}
	src := p.Positions()
	dst := make([]r3.Vector, len(src))
	for i, pos := range src {
		dst[i] = h.F(pos)
	}
	return BasicPoint{positions: dst, color: p.Color()}
}

// ApplyTangent pushes a tangent vector forward along h.
func (h *Homeomorphism) ApplyTangent(tv TangentVector) TangentVector {
	if h.isIdentity {
		return tv
	}
	return TangentVector{
		Point:         h.Apply(tv.Point),
		Vector:        h.DF(tv.Position()).Apply(tv.Vector),
		PositionIndex: tv.PositionIndex,
	}
}

// ApplyHomeomorphism pushes c forward along h. The identity returns c
// itself, and transforming a transformed curve composes the
// homeomorphisms.
func ApplyHomeomorphism(c Curve, h *Homeomorphism) Curve {
	if h.isIdentity {
		return c
	}
	if tc, ok := c.(*TransformedCurve); ok {
		return &TransformedCurve{inner: tc.inner, h: h.Mul(tc.h)}
	}
	return &TransformedCurve{inner: c, h: h}
}

// TransformedCurve is a curve pushed forward along a homeomorphism. Use
// [ApplyHomeomorphism] to create one.
type TransformedCurve struct {
	curveCache
	inner Curve
	h     *Homeomorphism
}

var _ Curve = (*TransformedCurve)(nil)

func (c *TransformedCurve) Length() float64  { return c.inner.Length() }
func (c *TransformedCurve) Surface() Surface { return c.h.Target }
func (c *TransformedCurve) Reversed() Curve  { return c.reversed(c) }

// Homeomorphism returns the homeomorphism the curve is pushed along.
func (c *TransformedCurve) Homeomorphism() *Homeomorphism { return c.h }

func (c *TransformedCurve) ValueAt(t float64) Point {
	return c.h.Apply(c.inner.ValueAt(t))
}

func (c *TransformedCurve) DerivativeAt(t float64) TangentVector {
	return c.h.ApplyTangent(c.inner.DerivativeAt(t))
}

func (c *TransformedCurve) VisualJumpTimes() []float64 {
	return c.inner.VisualJumpTimes()
}
