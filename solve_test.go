package surfaces

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestSolveITP(t *testing.T) {
	f := func(x float64) float64 { return x*x - 2 }
	got := SolveITP(f, 1, 2, 1e-12, 1, 0.2, f(1), f(2))
	diff(t, math.Sqrt2, got, cmpopts.EquateApprox(0, 1e-11))
}

func TestFindCrossing(t *testing.T) {
	rising := func(x float64) float64 { return x - 0.3 }
	falling := func(x float64) float64 { return 0.3 - x }
	for _, f := range []func(float64) float64{rising, falling} {
		x, ok := findCrossing(f, 0, 1)
		if !ok {
			t.Fatal("no crossing found")
		}
		diff(t, 0.3, x, cmpopts.EquateApprox(0, 1e-12))
	}

	x, ok := findCrossing(rising, 0.3, 1)
	if !ok || x != 0.3 {
		t.Errorf("crossing at the bracket's end gave %g, %t", x, ok)
	}
	if _, ok := findCrossing(rising, 0.5, 1); ok {
		t.Error("found a crossing without a sign change")
	}
}
