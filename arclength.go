package surfaces

import (
	"fmt"
	"math"
	"sort"
)

// DefaultArclengthResolution is the parameter step [ByArclength] samples
// curves with.
const DefaultArclengthResolution = 0.01

// ArclengthTable maps the parameter of a curve to the distance travelled
// along it, as measured on a surface. It is a piecewise linear
// approximation built from samples at a fixed parameter step.
type ArclengthTable struct {
	times   []float64
	lengths []float64
}

// NewArclengthTable samples c every res units of its parameter, halving res
// until the curve gets at least four samples, and accumulates the distances
// between consecutive samples as measured by surface.
func NewArclengthTable(c Curve, surface GeodesicSurface, res float64) *ArclengthTable {
	l := c.Length()
	if res <= 0 || math.IsNaN(res) {
		res = l / 4
	}
	for res > l/4 {
		res /= 2
	}
	n := int(math.Ceil(l / res))
	tab := &ArclengthTable{
		times:   make([]float64, n+1),
		lengths: make([]float64, n+1),
	}
	prev := c.ValueAt(0)
	for i := 1; i <= n; i++ {
		t := min(float64(i)*res, l)
		p := c.ValueAt(t)
		tab.times[i] = t
		tab.lengths[i] = tab.lengths[i-1] + surface.Distance(prev, p)
		prev = p
	}
	return tab
}

// Length returns the total arclength of the curve.
func (tab *ArclengthTable) Length() float64 {
	return tab.lengths[len(tab.lengths)-1]
}

// ArclengthFromTime returns the arclength travelled up to parameter t.
func (tab *ArclengthTable) ArclengthFromTime(t float64) float64 {
	i := tab.interval(tab.times, t)
	t0, t1 := tab.times[i-1], tab.times[i]
	l0, l1 := tab.lengths[i-1], tab.lengths[i]
	return l0 + (l1-l0)*(t-t0)/(t1-t0)
}

// TimeFromArclength returns the parameter at which the arclength l is
// reached, along with the derivative dt/dl there. The derivative is +Inf
// where the curve doesn't move.
func (tab *ArclengthTable) TimeFromArclength(l float64) (t, dtdl float64) {
	i := tab.interval(tab.lengths, l)
	t0, t1 := tab.times[i-1], tab.times[i]
	l0, l1 := tab.lengths[i-1], tab.lengths[i]
	if l1-l0 <= 0 {
		return t0, math.Inf(1)
	}
	dtdl = (t1 - t0) / (l1 - l0)
	return t0 + (l-l0)*dtdl, dtdl
}

// interval returns the index i such that xs[i-1] and xs[i] bracket x,
// extrapolating from the first or last interval beyond the table's ends.
func (tab *ArclengthTable) interval(xs []float64, x float64) int {
	i := sort.SearchFloat64s(xs, x)
	return min(max(i, 1), len(xs)-1)
}

// ArclengthCurve is a curve reparametrized by arclength. Use [ByArclength]
// to create one.
type ArclengthCurve struct {
	curveCache
	inner Curve
	table *ArclengthTable
}

var _ Curve = (*ArclengthCurve)(nil)

// ByArclength reparametrizes c to unit speed, measuring distances on
// surface.
func ByArclength(c Curve, surface GeodesicSurface) (*ArclengthCurve, error) {
	tab := NewArclengthTable(c, surface, DefaultArclengthResolution)
	if tab.Length() < minCurveLength {
		return nil, fmt.Errorf("%w: arclength of curve is %g", ErrZeroLength, tab.Length())
	}
	return &ArclengthCurve{inner: c, table: tab}, nil
}

// Table returns the arclength table the curve is parametrized with.
func (c *ArclengthCurve) Table() *ArclengthTable { return c.table }

func (c *ArclengthCurve) Length() float64  { return c.table.Length() }
func (c *ArclengthCurve) Surface() Surface { return c.inner.Surface() }
func (c *ArclengthCurve) Reversed() Curve  { return c.reversed(c) }

func (c *ArclengthCurve) ValueAt(s float64) Point {
	t, _ := c.table.TimeFromArclength(s)
	return c.inner.ValueAt(t)
}

func (c *ArclengthCurve) DerivativeAt(s float64) TangentVector {
	t, dtdl := c.table.TimeFromArclength(s)
	if math.IsInf(dtdl, 0) {
		return c.inner.DerivativeAt(t).Normalized()
	}
	return c.inner.DerivativeAt(t).Scaled(dtdl)
}

func (c *ArclengthCurve) VisualJumpTimes() []float64 {
	return c.visualJumpTimes(func() []float64 {
		inner := c.inner.VisualJumpTimes()
		out := make([]float64, len(inner))
		for i, t := range inner {
			out[i] = c.table.ArclengthFromTime(t)
		}
		return out
	})
}
