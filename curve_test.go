package surfaces

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// testCurves returns a curve of every basic kind.
func testCurves(t *testing.T) map[string]Curve {
	t.Helper()
	plane := NewEuclideanPlane("E")
	seg, err := plane.Segment(r3.Vector{X: -1, Y: 2}, r3.Vector{X: 3, Y: -1})
	if err != nil {
		t.Fatal(err)
	}
	disk := NewHyperbolicPlane("D", Disk)
	geo, err := disk.Segment(r3.Vector{X: -0.5, Y: 0.1}, r3.Vector{X: 0.6, Y: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	spline, err := NewSplineSegment(plane,
		NewTangentVector(NewPoint(r3.Vector{}), r3.Vector{X: 1}),
		NewTangentVector(NewPoint(r3.Vector{X: 2, Y: 1}), r3.Vector{Y: 1}),
		3)
	if err != nil {
		t.Fatal(err)
	}
	return map[string]Curve{
		"euclidean segment":   seg,
		"hyperbolic geodesic": geo,
		"spline":              spline,
	}
}

func TestRestrict(t *testing.T) {
	for name, c := range testCurves(t) {
		t.Run(name, func(t *testing.T) {
			l := c.Length()
			ranges := [][2]float64{
				{0, l / 2},
				{l / 3, l},
				{0.1 * l, 0.9 * l},
				{0.5 * l, 0.5*l + 1e-3},
			}
			for _, r := range ranges {
				rc, err := Restrict(c, r[0], r[1])
				if err != nil {
					t.Fatalf("%v: %s", r, err)
				}
				diff(t, r[1]-r[0], rc.Length(), cmpopts.EquateApprox(0, restrictTolerance))
				for _, f := range []float64{0, 0.25, 0.5, 1} {
					s := f * rc.Length()
					diff(t, c.ValueAt(r[0]+s).Position(), rc.ValueAt(s).Position())
					diff(t, c.DerivativeAt(r[0]+s).Vector, rc.DerivativeAt(s).Vector)
				}
			}

			whole, err := Restrict(c, 0, l)
			if err != nil {
				t.Fatal(err)
			}
			if whole != c {
				t.Errorf("restricting to the whole curve returned %T", whole)
			}
			whole, err = Restrict(c, -5e-5, l+5e-5)
			if err != nil {
				t.Fatal(err)
			}
			if whole != c {
				t.Errorf("restricting to the whole curve within tolerance returned %T", whole)
			}
		})
	}
}

func TestRestrictNested(t *testing.T) {
	p := NewEuclideanPlane("E")
	c, err := p.Segment(r3.Vector{}, r3.Vector{X: 4})
	if err != nil {
		t.Fatal(err)
	}
	outer, err := Restrict(c, 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	inner, err := Restrict(outer, 0.5, 1)
	if err != nil {
		t.Fatal(err)
	}
	rc, ok := inner.(*RestrictedCurve)
	if !ok {
		t.Fatalf("got %T, want *RestrictedCurve", inner)
	}
	if rc.inner != Curve(c) {
		t.Errorf("nested restriction wraps %T", rc.inner)
	}
	start, end := rc.Bounds()
	diff(t, [2]float64{1.5, 2}, [2]float64{start, end})
	diff(t, r3.Vector{X: 1.5}, StartPosition(inner))

	from, err := RestrictFrom(c, 3)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, 1.0, from.Length())
}

func TestRestrictErrors(t *testing.T) {
	p := NewEuclideanPlane("E")
	c, err := p.Segment(r3.Vector{}, r3.Vector{X: 1})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		start, end float64
		want       error
	}{
		{-0.1, 0.5, ErrInvalidRange},
		{0.5, 1.1, ErrInvalidRange},
		{0.6, 0.4, ErrInvalidRange},
		{0.5, 0.5, ErrZeroLength},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%g-%g", tt.start, tt.end), func(t *testing.T) {
			if _, err := Restrict(c, tt.start, tt.end); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReverse(t *testing.T) {
	for name, c := range testCurves(t) {
		t.Run(name, func(t *testing.T) {
			r := c.Reversed()
			if r.Reversed() != c {
				t.Error("reversing twice didn't return the original curve")
			}
			if c.Reversed() != r {
				t.Error("reversed curve isn't cached")
			}
			l := c.Length()
			diff(t, l, r.Length())
			for _, f := range []float64{0, 0.3, 0.5, 1} {
				s := f * l
				diff(t, c.ValueAt(l-s).Position(), r.ValueAt(s).Position())
				diff(t, c.DerivativeAt(l-s).Vector.Mul(-1), r.DerivativeAt(s).Vector)
				diff(t, c.DerivativeAt(s).Vector, r.Reversed().DerivativeAt(s).Vector)
			}
			diff(t, StartPosition(c), EndPosition(r))
		})
	}
}

func TestClosestPoint(t *testing.T) {
	for name, c := range testCurves(t) {
		t.Run(name, func(t *testing.T) {
			want := 0.37 * c.Length()
			pos := c.ValueAt(want).Position()
			got, d := ClosestPoint(c, pos)
			diff(t, want, got, cmpopts.EquateApprox(0, 1e-6))
			diff(t, 0.0, d, cmpopts.EquateApprox(0, 1e-12))
		})
	}

	p := NewEuclideanPlane("E")
	seg, err := p.Segment(r3.Vector{}, r3.Vector{X: 2})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		pos    r3.Vector
		t, dsq float64
	}{
		{r3.Vector{X: 1, Y: 1}, 1, 1},
		{r3.Vector{X: -1, Y: 1}, 0, 2},
		{r3.Vector{X: 5}, 2, 9},
	}
	for _, tt := range tests {
		gotT, gotD := ClosestPoint(seg, tt.pos)
		diff(t, [2]float64{tt.t, tt.dsq}, [2]float64{gotT, gotD}, cmpopts.EquateApprox(0, 1e-12))
	}

	// Generic search on the reversed segment, which isn't special-cased.
	gotT, gotD := ClosestPoint(seg.Reversed(), r3.Vector{X: 0.5, Y: -2})
	diff(t, [2]float64{1.5, 4}, [2]float64{gotT, gotD}, cmpopts.EquateApprox(0, 1e-6))
}

func TestEndpoints(t *testing.T) {
	p := NewEuclideanPlane("E")
	c, err := p.Segment(r3.Vector{X: 1}, r3.Vector{X: 1, Y: 2})
	if err != nil {
		t.Fatal(err)
	}
	diff(t, r3.Vector{X: 1}, StartPoint(c).Position())
	diff(t, r3.Vector{X: 1, Y: 2}, EndPoint(c).Position())
	diff(t, r3.Vector{Y: 1}, StartVelocity(c).Vector)
	diff(t, r3.Vector{Y: 1}, EndVelocity(c).Vector)
	if len(VisualJumpPoints(c)) != 0 {
		t.Error("segment has visual jumps")
	}
	if math.IsNaN(EndPosition(c).Y) {
		t.Error("end position is NaN")
	}
}
