package surfaces

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

const (
	// traceResolution is the initial step, in arclength, at which traced
	// geodesics are sampled for leaving the polygon.
	traceResolution = 1e-2
	// traceMaxRefinements bounds how often the step is halved when a
	// sample overshoots the boundary without a crossing being found.
	traceMaxRefinements = 40
	// traceMaxCrossings bounds the number of edges a traced geodesic may
	// cross.
	traceMaxCrossings = 10000
	// onSideTolerance is the distance from a side within which a crossing
	// of its supporting geodesic counts as a crossing of the side.
	onSideTolerance = 1e-6
	// cornerTolerance is the parameter distance from a side's ends within
	// which a crossing counts as hitting a vertex.
	cornerTolerance = 1e-6
	// outwardProbe is the step used to decide whether a direction at a
	// boundary point leaves the polygon.
	outwardProbe = 1e-7
	// snapTolerance is the tolerance used to classify the endpoints of
	// geodesics.
	snapTolerance = 1e-6
)

// boundaryCrossing is where a geodesic of the base geometry leaves the
// polygon.
type boundaryCrossing struct {
	// u is the parameter on the geodesic.
	u    float64
	side *ModelSurfaceSide
	// t is the parameter on the side.
	t float64
}

// point returns the surface point of the crossing and whether it is a
// vertex.
func (c boundaryCrossing) point() (Point, bool) {
	switch {
	case c.t < cornerTolerance:
		return c.side.StartVertex(), true
	case c.t > c.side.Length()-cornerTolerance:
		return c.side.EndVertex(), true
	default:
		return newBoundaryPoint(c.side, c.t), false
	}
}

// GeodesicFrom traces the geodesic starting with the given tangent vector.
//
// The geodesic is followed in the base geometry until it leaves the
// polygon. It then continues from the identified point on the partner side,
// in the direction carried over by the deck transformation. The result
// concatenates the pieces without smoothing; every crossing is a visual
// jump. A geodesic that runs into a vertex ends there.
func (m *ModelSurface) GeodesicFrom(start TangentVector, length float64) (Curve, error) {
	if length < 0 {
		start = start.Negated()
		length = -length
	}
	if length < minCurveLength {
		return nil, fmt.Errorf("%w: geodesic of length %g", ErrZeroLength, length)
	}

	pos, dir := start.Position(), start.Vector
	var cur Point
	switch p := start.Point.(type) {
	case *ModelSurfaceBoundaryPoint:
		cur = p
		if start.PositionIndex != 0 {
			cur = p.SwitchSide()
		}
	case *ModelSurfaceVertex:
		cur = p
		pos, dir = m.leaveVertex(p, start.PositionIndex, dir)
	default:
		q, ok := m.ClampPoint(pos, snapTolerance)
		if !ok {
			return nil, fmt.Errorf("%w: tracing from %v", ErrOffSurface, pos)
		}
		cur = q
		switch q := q.(type) {
		case *ModelSurfaceBoundaryPoint:
			pos = q.Position()
		case *ModelSurfaceVertex:
			pos, dir = m.leaveVertex(q, closestPositionIndex(q, pos), dir)
		}
	}

	var segments []Curve
	remaining := length
	for crossings := 0; remaining > minCurveLength; crossings++ {
		if crossings > traceMaxCrossings {
			return nil, fmt.Errorf("%w: geodesic crosses more than %d edges", ErrDegenerate, traceMaxCrossings)
		}
		if bp, ok := cur.(*ModelSurfaceBoundaryPoint); ok && m.leaves(bp, dir) {
			dir = bp.TransportDirection(dir, 0, 1)
			bp = bp.SwitchSide()
			cur, pos = bp, bp.Position()
		}
		ray, err := m.base.Ray(pos, dir, remaining)
		if err != nil {
			return nil, err
		}
		cross, ok, err := m.findExit(ray)
		if err != nil {
			return nil, err
		}
		if !ok || remaining-cross.u < restrictTolerance {
			var end Point = EndPoint(ray)
			if ok {
				end, _ = cross.point()
			}
			segments = append(segments, lift(m, ray, cur, end))
			break
		}

		exit, atVertex := cross.point()
		if cross.u >= minCurveLength {
			seg, err := Restrict(ray, 0, cross.u)
			if err != nil {
				return nil, err
			}
			segments = append(segments, lift(m, seg, cur, exit))
		} else {
			Logger().Warn("boundary point visited twice in succession", "surface", m.name, "position", pos)
		}
		remaining -= cross.u
		if atVertex {
			Logger().Warn("geodesic ran into a vertex, ending it early",
				"surface", m.name,
				"vertex", exit.Position(),
				"remaining", remaining)
			break
		}
		bp := exit.(*ModelSurfaceBoundaryPoint)
		dir = bp.TransportDirection(ray.DerivativeAt(cross.u).Vector, 0, 1)
		next := bp.SwitchSide()
		cur, pos = next, next.Position()
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: geodesic ends where it starts", ErrZeroLength)
	}
	return Concatenate(false, segments...)
}

// leaves reports whether dir points out of the polygon at bp.
func (m *ModelSurface) leaves(bp *ModelSurfaceBoundaryPoint, dir r3.Vector) bool {
	probe := bp.Position().Add(dir.Normalize().Mul(outwardProbe))
	return bp.side.Insideness(probe) < 0
}

// leaveVertex picks the corner of v into whose polygon copy dir, given at
// position i, points. It returns that corner's position and dir expressed
// there.
func (m *ModelSurface) leaveVertex(v *ModelSurfaceVertex, i int, dir r3.Vector) (r3.Vector, r3.Vector) {
	k, d := v.outgoing(i, dir)
	return v.Positions()[k], d
}

// findExit samples ray until it leaves the polygon and returns the crossing.
// It returns false if the ray stays inside.
func (m *ModelSurface) findExit(ray Geodesic) (boundaryCrossing, bool, error) {
	l := ray.Length()
	res := min(traceResolution, l/4)
	prev := 0.0
	for range traceMaxRefinements {
		for {
			next := min(prev+res, l)
			if !m.contains(ray.ValueAt(next).Position()) {
				if c, ok := m.crossingBetween(ray, prev, next); ok {
					return c, true, nil
				}
				break
			}
			if next >= l {
				return boundaryCrossing{}, false, nil
			}
			prev = next
		}
		res /= 2
	}
	return boundaryCrossing{}, false, fmt.Errorf("%w: geodesic from %v doesn't hit the boundary exactly",
		ErrDegenerate, StartPosition(ray))
}

// crossingBetween finds the first side that ray crosses from inside to
// outside between the parameters a and b.
func (m *ModelSurface) crossingBetween(ray Geodesic, a, b float64) (boundaryCrossing, bool) {
	best := boundaryCrossing{u: math.Inf(1)}
	for _, s := range m.sides {
		f := func(u float64) float64 {
			return s.Insideness(ray.ValueAt(u).Position())
		}
		if f(b) >= 0 {
			continue
		}
		u, ok := findCrossing(f, a, b)
		if !ok || u >= best.u {
			continue
		}
		t, d := ClosestPoint(s.curve, ray.ValueAt(u).Position())
		if d > onSideTolerance*onSideTolerance {
			continue
		}
		best = boundaryCrossing{u: u, side: s, t: t}
	}
	return best, best.side != nil
}

// Geodesic returns a geodesic from a to b.
//
// If a side's deck transformation brings b closer to a, the geodesic
// crosses that side once, and consists of two segments meeting at the
// crossing. See [ModelSurface.DistanceMinimizer] for which sides are
// considered.
func (m *ModelSurface) Geodesic(a, b Point) (Curve, error) {
	pa, err := m.snap(a)
	if err != nil {
		return nil, err
	}
	pb, err := m.snap(b)
	if err != nil {
		return nil, err
	}
	side, ok := m.DistanceMinimizer(pa, pb)
	if !ok {
		return m.directGeodesic(pa, pb)
	}

	target := m.deck[side.index].Apply(pb)
	i, j := m.closestPositions(pa, target)
	from := pa.Positions()[i]
	g, err := m.base.Segment(from, target.Positions()[j])
	if err != nil {
		return nil, err
	}
	u, ok := findCrossing(func(u float64) float64 {
		return side.curve.Rightness(g.ValueAt(u).Position())
	}, 0, g.Length())
	if !ok {
		Logger().Warn("geodesic misses the side it should cross; using the direct geodesic",
			"surface", m.name, "side", side.name)
		return m.directGeodesic(pa, pb)
	}
	t, _ := ClosestPoint(side.curve, g.ValueAt(u).Position())
	exit := newBoundaryPoint(side, t)
	entry := exit.SwitchSide()

	var segments []Curve
	first, err := m.base.Segment(from, exit.Position())
	switch {
	case err == nil:
		segments = append(segments, lift(m, first, pa, exit))
	case !errors.Is(err, ErrZeroLength):
		return nil, err
	}
	second, err := m.base.Segment(entry.Position(), pb.Positions()[j])
	switch {
	case err == nil:
		segments = append(segments, lift(m, second, entry, pb))
	case !errors.Is(err, ErrZeroLength):
		return nil, err
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: geodesic from %v to itself", ErrZeroLength, pa)
	}
	return Concatenate(false, segments...)
}

func (m *ModelSurface) directGeodesic(a, b Point) (Curve, error) {
	i, j := m.closestPositions(a, b)
	g, err := m.base.Segment(a.Positions()[i], b.Positions()[j])
	if err != nil {
		return nil, err
	}
	return lift(m, g, a, b), nil
}

// closestPositions returns the indices of the positions of a and b that are
// closest in the base geometry.
func (m *ModelSurface) closestPositions(a, b Point) (i, j int) {
	best := math.Inf(1)
	for ia, pa := range a.Positions() {
		for ib, pb := range b.Positions() {
			if d := m.base.Distance(NewPoint(pa), NewPoint(pb)); d < best {
				best, i, j = d, ia, ib
			}
		}
	}
	return i, j
}

// snap classifies p as a point of the surface.
func (m *ModelSurface) snap(p Point) (Point, error) {
	switch p := p.(type) {
	case *ModelSurfaceBoundaryPoint:
		if p.side.surface == m {
			return p, nil
		}
	case *ModelSurfaceVertex:
		if p.surface == m {
			return p, nil
		}
	}
	q, ok := m.ClampPoint(p.Position(), snapTolerance)
	if !ok {
		return nil, fmt.Errorf("%w: %v isn't on %s", ErrOffSurface, p.Position(), m.name)
	}
	return q, nil
}
