package surfaces

import "math"

// SolveITP finds a zero of f in the bracket [a, b] with the [ITP method]
// from [An Enhancement of the Bisection Method Average Performance Preserving Minmax Optimality].
// Traced geodesics use it to locate the parameter at which they cross a
// side of a model surface's polygon.
//
// ya and yb are f(a) and f(b), which callers usually know already. f must
// rise through zero: ya < 0 and yb > 0. [findCrossing] lifts that
// restriction.
//
// k2 is fixed at 2. n0 trades bisection against the secant step; with
// n0 = 0 the iteration count never exceeds that of bisection. A k1 of
// 0.2 / (b - a) matches the paper. For monotonic f, the result lies within
// epsilon of the zero.
//
// [ITP method]: https://en.wikipedia.org/wiki/ITP_Method
// [An Enhancement of the Bisection Method Average Performance Preserving Minmax Optimality]: https://dl.acm.org/doi/10.1145/3423597
func SolveITP(
	f func(float64) float64,
	a float64,
	b float64,
	epsilon float64,
	n0 int,
	k1 float64,
	ya float64,
	yb float64,
) float64 {
	n1_2 := int(max(math.Ceil(math.Log2((b-a)/epsilon))-1.0, 0.0))
	nmax := n0 + n1_2
	scaledEpsilon := epsilon * float64(uint64(1)<<nmax)
	for b-a > 2.0*epsilon {
		x1_2 := 0.5 * (a + b)
		r := scaledEpsilon - 0.5*(b-a)
		xf := (yb*a - ya*b) / (yb - ya)
		sigma := x1_2 - xf
		// This has k2 = 2 hardwired for efficiency.
		delta := k1 * ((b - a) * (b - a))
		var xt float64
		if delta <= math.Abs(x1_2-xf) {
			xt = xf + math.Copysign(delta, sigma)
		} else {
			xt = x1_2
		}
		var xitp float64
		if math.Abs(xt-x1_2) <= r {
			xitp = xt
		} else {
			xitp = x1_2 - math.Copysign(r, sigma)
		}
		yitp := f(xitp)
		if yitp > 0.0 {
			b = xitp
			yb = yitp
		} else if yitp < 0.0 {
			a = xitp
			ya = yitp
		} else {
			return xitp
		}
		scaledEpsilon *= 0.5
	}
	return 0.5 * (a + b)
}

// crossingEpsilon is the parameter accuracy of [findCrossing].
const crossingEpsilon = 1e-12

// findCrossing finds a zero of f in [a, b], given that f(a) and f(b) have
// opposite signs. It returns false if they don't.
func findCrossing(f func(float64) float64, a, b float64) (float64, bool) {
	ya, yb := f(a), f(b)
	switch {
	case ya == 0:
		return a, true
	case yb == 0:
		return b, true
	case ya < 0 && yb > 0:
		return SolveITP(f, a, b, crossingEpsilon, 1, 0.2/(b-a), ya, yb), true
	case ya > 0 && yb < 0:
		g := func(t float64) float64 { return -f(t) }
		return SolveITP(g, a, b, crossingEpsilon, 1, 0.2/(b-a), -ya, -yb), true
	default:
		return 0, false
	}
}
