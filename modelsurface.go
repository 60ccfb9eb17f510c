package surfaces

import (
	"cmp"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
)

const (
	// vertexMergeTolerance is the distance below which corner positions are
	// considered to be the same corner.
	vertexMergeTolerance = 1e-6
	// sideLengthTolerance is the relative difference in length above which
	// identified sides are reported as mismatched.
	sideLengthTolerance = 1e-6
	// randomPunctureAttempts is the number of samples, per missing
	// puncture, drawn when placing punctures in the interior.
	randomPunctureAttempts = 100
	// distancePreference is the margin by which a distance through an
	// identified side has to beat the best one found so far.
	distancePreference = 0.01
)

// ModelSurface is a closed surface represented as a polygon in a base
// geometry whose sides are identified in pairs.
//
// Surfaces are immutable after construction. Use [NewModelSurface] to create
// one.
type ModelSurface struct {
	name          string
	genus         int
	punctureCount int
	geometry      Geometry
	base          BaseGeometry
	polygon       []PolygonSide
	identity      *Homeomorphism

	sides []*ModelSurfaceSide
	// deck holds the deck transformation of each side.
	deck []*Homeomorphism
	// edgeVertex maps each directed edge to the vertex it starts at.
	edgeVertex []int
	vertices   []*ModelSurfaceVertex
	punctures  []Point
	bounds     r2.Rect
}

var _ GeodesicSurface = (*ModelSurface)(nil)

// NewModelSurface glues a surface from a polygon.
//
// Every label must occur on exactly two sides; the two sides are identified
// so that their starts meet. The corners of the polygon are grouped into
// vertices by walking around them through the identifications. The vertices
// closest to being smooth become the punctures; if there aren't enough
// vertices, random interior points are added. The random
// points depend only on the surface's name and polygon.
//
// Invalid polygons result in errors wrapping [ErrConfig].
func NewModelSurface(name string, genus, punctures int, geometry Geometry, sides []PolygonSide) (*ModelSurface, error) {
	if len(sides) == 0 {
		return nil, fmt.Errorf("%w: surface %q has no sides", ErrConfig, name)
	}
	if punctures < 0 {
		return nil, fmt.Errorf("%w: negative puncture count %d", ErrConfig, punctures)
	}
	if !geometry.valid() {
		return nil, fmt.Errorf("%w: unknown geometry %d", ErrConfig, int(geometry))
	}
	m := &ModelSurface{
		name:          name,
		genus:         genus,
		punctureCount: punctures,
		geometry:      geometry,
		base:          geometry.newBase(name),
		polygon:       slices.Clone(sides),
	}
	m.identity = newIdentity(m)
	if err := m.realizeSides(); err != nil {
		return nil, fmt.Errorf("surface %q: %w", name, err)
	}
	m.deck = make([]*Homeomorphism, len(m.sides))
	for i, s := range m.sides {
		m.deck[i] = s.curve.Embedding().Mul(s.Other().curve.Embedding().Inverse())
	}
	if err := m.walkVertices(); err != nil {
		return nil, fmt.Errorf("surface %q: %w", name, err)
	}
	m.checkEuler()
	m.bounds = r2.EmptyRect()
	for _, v := range m.vertices {
		for _, pos := range v.Positions() {
			m.bounds = m.bounds.AddPoint(r2.Point{X: pos.X, Y: pos.Y})
		}
	}
	m.classifyPunctures()
	Logger().Debug("constructed model surface",
		"name", name,
		"geometry", geometry,
		"sides", len(m.sides),
		"vertices", len(m.vertices),
		"punctures", len(m.punctures))
	return m, nil
}

// realizeSides builds the sides and pairs them up by label.
func (m *ModelSurface) realizeSides() error {
	first := make(map[string]int)
	for i, ps := range m.polygon {
		if !m.base.Contains(ps.Start) || !m.base.Contains(ps.End) {
			return fmt.Errorf("%w: side %d (%s) from %v to %v leaves the %s plane",
				ErrConfig, i, ps.Label, ps.Start, ps.End, m.geometry)
		}
		curve, err := m.base.Segment(ps.Start, ps.End)
		if err != nil {
			return fmt.Errorf("%w: side %d (%s): %w", ErrConfig, i, ps.Label, err)
		}
		s := &ModelSurfaceSide{
			surface:       m,
			index:         i,
			other:         -1,
			name:          ps.Label,
			label:         ps.Label,
			curve:         curve,
			rightIsInside: ps.RightIsInside,
			color:         ps.Color,
			angle:         s1.Angle(planeAngle(StartVelocity(curve).Vector)),
		}
		j, seen := first[ps.Label]
		if !seen {
			first[ps.Label] = i
			if s.color == nil {
				s.color = paletteColor(sidePalette, len(first)-1)
			}
			m.sides = append(m.sides, s)
			continue
		}
		f := m.sides[j]
		if f.other != -1 {
			return fmt.Errorf("%w: three sides with the same label %q", ErrConfig, ps.Label)
		}
		f.other, s.other = i, j
		s.name = ps.Label + "'"
		if s.color == nil {
			s.color = f.color
		}
		if f.rightIsInside == s.rightIsInside {
			Logger().Warn("identified sides agree on which side is inside; the surface is likely not orientable",
				"surface", m.name, "label", ps.Label)
		}
		if d := math.Abs(f.Length() - s.Length()); d > sideLengthTolerance*max(f.Length(), s.Length()) {
			Logger().Warn("identified sides differ in length; mapping them proportionally",
				"surface", m.name, "label", ps.Label, "lengths", []float64{f.Length(), s.Length()})
		}
		m.sides = append(m.sides, s)
	}
	for _, s := range m.sides {
		if s.other == -1 {
			return fmt.Errorf("%w: side %q has no partner", ErrConfig, s.label)
		}
	}
	return nil
}

func (m *ModelSurface) edgeCurve(e int) Curve {
	c := m.sides[edgeSide(e)].curve
	if edgeReversed(e) {
		return c.Reversed()
	}
	return c
}

func (m *ModelSurface) edgeStart(e int) r3.Vector {
	c := m.sides[edgeSide(e)].curve
	if edgeReversed(e) {
		return EndPosition(c)
	}
	return StartPosition(c)
}

// edgeAngle returns the direction the edge leaves its start position in.
func (m *ModelSurface) edgeAngle(e int) float64 {
	c := m.sides[edgeSide(e)].curve
	if edgeReversed(e) {
		return planeAngle(EndVelocity(c).Vector.Mul(-1))
	}
	return planeAngle(StartVelocity(c).Vector)
}

// interiorLeft reports whether the polygon lies to the left of the edge.
func (m *ModelSurface) interiorLeft(e int) bool {
	return m.sides[edgeSide(e)].rightIsInside == edgeReversed(e)
}

// partnerEdge returns the edge that e is glued to, traversed so that
// corresponding parameters meet.
func (m *ModelSurface) partnerEdge(e int) int {
	return 2*m.sides[edgeSide(e)].other + e%2
}

// vertexStar is the set of directed edges leaving one polygon corner,
// sorted by angle.
type vertexStar struct {
	pos   r3.Vector
	edges []int
}

// walkVertices groups the polygon's corners into vertices.
//
// A walk starts at an edge that has the polygon to its left. Turning
// counterclockwise around its start, the next edge of the corner has the
// polygon to its right. Its partner edge continues the walk on the other
// side of the identification, until the walk returns to its first edge.
func (m *ModelSurface) walkVertices() error {
	n := 2 * len(m.sides)
	var stars []*vertexStar
	starOf := make([]int, n)
	for e := range n {
		pos := m.edgeStart(e)
		k := slices.IndexFunc(stars, func(st *vertexStar) bool {
			return st.pos.Sub(pos).Norm() <= vertexMergeTolerance
		})
		if k == -1 {
			k = len(stars)
			stars = append(stars, &vertexStar{pos: pos})
		}
		stars[k].edges = append(stars[k].edges, e)
		starOf[e] = k
	}
	for _, st := range stars {
		slices.SortFunc(st.edges, func(a, b int) int {
			return cmp.Compare(m.edgeAngle(a), m.edgeAngle(b))
		})
	}

	m.edgeVertex = make([]int, n)
	for e := range m.edgeVertex {
		m.edgeVertex[e] = -1
	}
	maxSteps := 4 * len(m.sides)
	for start := range n {
		if !m.interiorLeft(start) || m.edgeVertex[start] != -1 {
			continue
		}
		v := &ModelSurfaceVertex{surface: m, index: len(m.vertices)}
		e := start
		for step := 0; ; step++ {
			if step >= maxSteps {
				return fmt.Errorf("%w: walk around vertex %d doesn't close", ErrConfig, v.index)
			}
			if m.edgeVertex[e] != -1 {
				return fmt.Errorf("%w: walk around vertex %d visits %s twice", ErrConfig, v.index, m.edgeName(e))
			}
			f, angle, err := m.cornerNeighbor(stars[starOf[e]], e)
			if err != nil {
				return err
			}
			if m.edgeVertex[f] != -1 {
				return fmt.Errorf("%w: walk around vertex %d visits %s twice", ErrConfig, v.index, m.edgeName(f))
			}
			m.edgeVertex[e], m.edgeVertex[f] = v.index, v.index
			v.edges = append(v.edges, [2]int{e, f})
			v.angles = append(v.angles, angle)
			e = m.partnerEdge(f)
			if e == start {
				break
			}
			if !m.interiorLeft(e) {
				return fmt.Errorf("%w: %s and %s are glued with matching orientations",
					ErrConfig, m.edgeName(f), m.edgeName(e))
			}
		}
		m.vertices = append(m.vertices, v)
		Logger().Debug("found vertex",
			"surface", m.name,
			"index", v.index,
			"corners", len(v.edges),
			"angle", v.TotalAngle().Radians())
	}
	for e, vi := range m.edgeVertex {
		if vi == -1 {
			return fmt.Errorf("%w: %s doesn't belong to any vertex", ErrConfig, m.edgeName(e))
		}
	}
	return nil
}

// cornerNeighbor returns the edge that follows e counterclockwise around
// their shared start, along with the angle between them.
func (m *ModelSurface) cornerNeighbor(st *vertexStar, e int) (int, s1.Angle, error) {
	from := m.edgeAngle(e)
	best, bestAngle := -1, math.Inf(1)
	for _, f := range st.edges {
		if f == e {
			continue
		}
		d := math.Mod(m.edgeAngle(f)-from, 2*math.Pi)
		if d < 0 {
			d += 2 * math.Pi
		}
		if d > 0 && d < bestAngle {
			best, bestAngle = f, d
		}
	}
	if best == -1 {
		return 0, 0, fmt.Errorf("%w: corner at %v has a single side", ErrConfig, st.pos)
	}
	if m.interiorLeft(best) {
		return 0, 0, fmt.Errorf("%w: inconsistent orientation at corner %v between %s and %s",
			ErrConfig, st.pos, m.edgeName(e), m.edgeName(best))
	}
	return best, s1.Angle(bestAngle), nil
}

func (m *ModelSurface) edgeName(e int) string {
	if edgeReversed(e) {
		return fmt.Sprintf("side %s (reversed)", m.sides[edgeSide(e)].name)
	}
	return fmt.Sprintf("side %s", m.sides[edgeSide(e)].name)
}

// checkEuler compares the Euler characteristic of the glued polygon with
// the declared genus.
func (m *ModelSurface) checkEuler() {
	chi := len(m.vertices) - len(m.sides)/2 + 1
	if want := 2 - 2*m.genus; chi != want {
		Logger().Warn("polygon doesn't match declared genus",
			"surface", m.name,
			"genus", m.genus,
			"euler characteristic", chi,
			"expected", want)
	}
}

// classifyPunctures picks the punctures: vertices first, ranked by how
// close they are to smooth points, then random interior points.
func (m *ModelSurface) classifyPunctures() {
	ranked := slices.Clone(m.vertices)
	slices.SortFunc(ranked, func(a, b *ModelSurfaceVertex) int {
		return cmp.Or(
			cmp.Compare(a.smoothness(), b.smoothness()),
			cmp.Compare(a.index, b.index),
		)
	})
	for i, v := range ranked[:min(m.punctureCount, len(ranked))] {
		v.color = paletteColor(puncturePalette, i)
		m.punctures = append(m.punctures, v)
	}
	if missing := m.punctureCount - len(m.punctures); missing > 0 {
		m.punctures = append(m.punctures, m.randomPunctures(missing)...)
	}
}

// randomPunctures samples n interior points near the centroid of the
// polygon's corners.
func (m *ModelSurface) randomPunctures(n int) []Point {
	h := fnv.New64a()
	h.Write([]byte(m.name))
	rng := rand.New(rand.NewPCG(h.Sum64(), uint64(len(m.polygon))))

	var centroid r2.Point
	var corners int
	for _, v := range m.vertices {
		for _, pos := range v.Positions() {
			centroid = centroid.Add(r2.Point{X: pos.X, Y: pos.Y})
			corners++
		}
	}
	centroid = centroid.Mul(1 / float64(corners))
	area := r2.RectFromCenterSize(centroid, m.bounds.Size().Mul(0.5))

	var out []Point
	offset := len(m.punctures)
	for range randomPunctureAttempts * n {
		if len(out) == n {
			break
		}
		pos := r3.Vector{
			X: area.X.Lo + rng.Float64()*area.X.Length(),
			Y: area.Y.Lo + rng.Float64()*area.Y.Length(),
		}
		p, ok := m.ClampPoint(pos, 0)
		if _, interior := p.(BasicPoint); !ok || !interior {
			continue
		}
		out = append(out, NewColoredPoint(pos, paletteColor(puncturePalette, offset+len(out))))
	}
	if len(out) < n {
		Logger().Warn("couldn't place all punctures", "surface", m.name, "placed", len(out), "wanted", n)
	}
	return out
}

func (m *ModelSurface) Name() string             { return m.name }
func (m *ModelSurface) Genus() int               { return m.genus }
func (m *ModelSurface) Is2D() bool               { return true }
func (m *ModelSurface) Punctures() []Point       { return m.punctures }
func (m *ModelSurface) Identity() *Homeomorphism { return m.identity }
func (m *ModelSurface) Geometry() Geometry       { return m.geometry }
func (m *ModelSurface) Base() BaseGeometry       { return m.base }

func (m *ModelSurface) MinimalPosition() r3.Vector {
	return r3.Vector{X: m.bounds.X.Lo, Y: m.bounds.Y.Lo}
}

func (m *ModelSurface) MaximalPosition() r3.Vector {
	return r3.Vector{X: m.bounds.X.Hi, Y: m.bounds.Y.Hi}
}

// Sides returns the sides of the polygon, in the order they were given. The
// returned slice must not be modified.
func (m *ModelSurface) Sides() []*ModelSurfaceSide { return m.sides }

// Vertices returns the vertices of the surface. The returned slice must not
// be modified.
func (m *ModelSurface) Vertices() []*ModelSurfaceVertex { return m.vertices }

// Polygon returns a copy of the polygon the surface was built from.
func (m *ModelSurface) Polygon() []PolygonSide { return slices.Clone(m.polygon) }

// WithPunctureCount returns a surface built from the same polygon with a
// different number of punctures.
func (m *ModelSurface) WithPunctureCount(n int) (*ModelSurface, error) {
	return NewModelSurface(m.name, m.genus, n, m.geometry, m.polygon)
}

// Copy returns a new surface built from the same polygon, with the same
// punctures. The copy shares no state with m.
func (m *ModelSurface) Copy() (*ModelSurface, error) {
	return m.WithPunctureCount(m.punctureCount)
}

// DeckTransformation returns the isometry of the base geometry that maps the
// partner of side onto side, with identified points matching up. It carries
// the polygon to the copy of itself that lies across side.
func (m *ModelSurface) DeckTransformation(side *ModelSurfaceSide) *Homeomorphism {
	return m.deck[side.index]
}

// minimizeDistance returns the shortest distance between a and b in the
// base geometry, measured directly or through one identified side. A side
// is only preferred if it improves the distance by more than
// distancePreference.
//
// This only looks one identification away and overestimates the distance of
// points whose shortest connection crosses several sides.
func (m *ModelSurface) minimizeDistance(a, b Point) (*ModelSurfaceSide, float64) {
	best := m.base.Distance(a, b)
	var bestSide *ModelSurfaceSide
	for i, s := range m.sides {
		if d := m.base.Distance(a, m.deck[i].Apply(b)); d < best-distancePreference {
			best, bestSide = d, s
		}
	}
	return bestSide, best
}

// DistanceMinimizer returns the side whose deck transformation, applied to
// b, brings it closest to a. It returns false if no side improves on the
// direct distance.
func (m *ModelSurface) DistanceMinimizer(a, b Point) (*ModelSurfaceSide, bool) {
	s, _ := m.minimizeDistance(a, b)
	return s, s != nil
}

// Distance approximates the distance between a and b. See
// [ModelSurface.DistanceMinimizer] for the sides considered.
func (m *ModelSurface) Distance(a, b Point) float64 {
	_, d := m.minimizeDistance(a, b)
	return d
}

func (m *ModelSurface) DistanceSquared(a, b Point) float64 {
	d := m.Distance(a, b)
	return d * d
}

// closestSide returns the side closest to pos, the parameter of the
// closest point on it and the squared distance.
func (m *ModelSurface) closestSide(pos r3.Vector) (*ModelSurfaceSide, float64, float64) {
	var best *ModelSurfaceSide
	bestT, bestD := 0.0, math.Inf(1)
	for _, s := range m.sides {
		if t, d := ClosestPoint(s.curve, pos); d < bestD {
			best, bestT, bestD = s, t, d
		}
	}
	return best, bestT, bestD
}

// contains reports whether pos lies inside the polygon, judged by the
// closest side.
func (m *ModelSurface) contains(pos r3.Vector) bool {
	if !m.base.Contains(pos) {
		return false
	}
	s, _, _ := m.closestSide(pos)
	return s.Insideness(pos) >= 0
}

// ClampPoint classifies pos. Positions within tolerance of a vertex return
// the vertex, positions within tolerance of a side return a
// [ModelSurfaceBoundaryPoint], and positions inside the polygon return a
// plain point.
func (m *ModelSurface) ClampPoint(pos r3.Vector, tolerance float64) (Point, bool) {
	pos.Z = 0
	for _, v := range m.vertices {
		for _, q := range v.Positions() {
			if q.Sub(pos).Norm() <= tolerance {
				return v, true
			}
		}
	}
	s, t, d := m.closestSide(pos)
	if d <= tolerance*tolerance {
		return newBoundaryPoint(s, t), true
	}
	if m.base.Contains(pos) && s.Insideness(pos) > 0 {
		return NewPoint(pos), true
	}
	return nil, false
}
