package surfaces

import (
	"fmt"
	"image/color"
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
)

// PolygonSide describes one side of the polygon a [ModelSurface] is glued
// from. Sides with the same label are identified, with Start of one side
// glued to Start of the other.
type PolygonSide struct {
	Label      string
	Start, End r3.Vector
	// RightIsInside reports whether the polygon's interior lies to the right
	// of the side when walking from Start to End.
	RightIsInside bool
	// Color is the color the side is drawn in. If nil, a color is picked
	// from a palette; the second side of a pair uses the first side's
	// color.
	Color color.Color
}

// ModelSurfaceSide is a side of a [ModelSurface]'s polygon.
type ModelSurfaceSide struct {
	surface       *ModelSurface
	index         int
	other         int
	name          string
	label         string
	curve         Geodesic
	rightIsInside bool
	color         color.Color
	angle         s1.Angle
}

func (s *ModelSurfaceSide) Name() string        { return s.name }
func (s *ModelSurfaceSide) Label() string       { return s.label }
func (s *ModelSurfaceSide) Curve() Geodesic     { return s.curve }
func (s *ModelSurfaceSide) RightIsInside() bool { return s.rightIsInside }
func (s *ModelSurfaceSide) Color() color.Color  { return s.color }
func (s *ModelSurfaceSide) Length() float64     { return s.curve.Length() }

// Index returns the position of the side in [ModelSurface.Sides].
func (s *ModelSurfaceSide) Index() int { return s.index }

// Angle returns the direction the side leaves its start position in.
func (s *ModelSurfaceSide) Angle() s1.Angle { return s.angle }

// Other returns the side this side is identified with.
func (s *ModelSurfaceSide) Other() *ModelSurfaceSide { return s.surface.sides[s.other] }

func (s *ModelSurfaceSide) StartVertex() *ModelSurfaceVertex {
	return s.surface.vertices[s.surface.edgeVertex[forwardEdge(s.index)]]
}

func (s *ModelSurfaceSide) EndVertex() *ModelSurfaceVertex {
	return s.surface.vertices[s.surface.edgeVertex[reverseEdge(s.index)]]
}

// Insideness returns a signed quantity that is positive for positions on the
// polygon's side of the side's supporting geodesic.
func (s *ModelSurfaceSide) Insideness(pos r3.Vector) float64 {
	r := s.curve.Rightness(pos)
	if s.rightIsInside {
		return r
	}
	return -r
}

// otherParameter maps a parameter of s to the identified parameter of its
// partner.
func (s *ModelSurfaceSide) otherParameter(t float64) float64 {
	return t * s.Other().Length() / s.Length()
}

func (s *ModelSurfaceSide) String() string {
	return fmt.Sprintf("side %s", s.name)
}

// Directed edges are the sides and their reversals. Edge 2i is side i
// traversed forwards, edge 2i+1 backwards.
func forwardEdge(side int) int { return 2 * side }
func reverseEdge(side int) int { return 2*side + 1 }
func edgeSide(edge int) int    { return edge / 2 }
func edgeReversed(edge int) bool {
	return edge%2 == 1
}

// ModelSurfaceVertex is a vertex of a [ModelSurface]: a class of polygon
// corners that are glued into a single point. Its positions are the
// positions of its corners.
type ModelSurfaceVertex struct {
	surface *ModelSurface
	index   int
	// edges holds, for each corner, the directed edge that has the polygon
	// to its left, followed by the one that has it to its right.
	edges     [][2]int
	angles    []s1.Angle
	color     color.Color
	positions option[[]r3.Vector]
}

var _ Point = (*ModelSurfaceVertex)(nil)

// Index returns the position of the vertex in [ModelSurface.Vertices].
func (v *ModelSurfaceVertex) Index() int { return v.index }

// BoundaryCurves returns the curves leaving the vertex, two per corner.
func (v *ModelSurfaceVertex) BoundaryCurves() []Curve {
	out := make([]Curve, 0, 2*len(v.edges))
	for _, corner := range v.edges {
		out = append(out, v.surface.edgeCurve(corner[0]), v.surface.edgeCurve(corner[1]))
	}
	return out
}

// Angles returns the angles of the corners that make up the vertex.
func (v *ModelSurfaceVertex) Angles() []s1.Angle { return v.angles }

// TotalAngle returns the sum of the corner angles. It is 2π at smooth
// points.
func (v *ModelSurfaceVertex) TotalAngle() s1.Angle {
	var sum s1.Angle
	for _, a := range v.angles {
		sum += a
	}
	return sum
}

// smoothness measures how far the vertex is from being a smooth point.
func (v *ModelSurfaceVertex) smoothness() float64 {
	return math.Abs(2*math.Pi/v.TotalAngle().Radians() - 1)
}

func (v *ModelSurfaceVertex) Positions() []r3.Vector {
	return v.positions.get(func() []r3.Vector {
		out := make([]r3.Vector, len(v.edges))
		for i, corner := range v.edges {
			out[i] = v.surface.edgeStart(corner[0])
		}
		return out
	})
}

func (v *ModelSurfaceVertex) Position() r3.Vector { return v.Positions()[0] }

// TransportDirection expresses a direction at position from as a direction
// at position to. It walks counterclockwise around the vertex, through the
// deck transformations of the sides between consecutive corners.
func (v *ModelSurfaceVertex) TransportDirection(dir r3.Vector, from, to int) r3.Vector {
	for k := from; k != to; {
		k, dir = v.nextCorner(k, dir)
	}
	return dir
}

// nextCorner carries dir from corner k to the corner that follows it
// counterclockwise.
func (v *ModelSurfaceVertex) nextCorner(k int, dir r3.Vector) (int, r3.Vector) {
	deck := v.surface.deck[edgeSide(v.edges[k][1])]
	return (k + 1) % len(v.edges), deck.DFInverse(v.Positions()[k]).Apply(dir)
}

// outgoing returns the corner whose sector contains dir, a direction at
// position i, along with dir carried over to that corner. Directions along
// the edge closing a sector belong to that sector.
func (v *ModelSurfaceVertex) outgoing(i int, dir r3.Vector) (int, r3.Vector) {
	phi := math.Mod(planeAngle(dir)-v.surface.edgeAngle(v.edges[i][0]), 2*math.Pi)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	k := i
	for phi > v.angles[k].Radians() {
		phi -= v.angles[k].Radians()
		k, dir = v.nextCorner(k, dir)
	}
	return k, dir
}

func (v *ModelSurfaceVertex) Color() color.Color {
	if v.color == nil {
		return defaultPointColor
	}
	return v.color
}

func (v *ModelSurfaceVertex) String() string {
	return fmt.Sprintf("vertex %d %s", v.index, formatPositions(v.Positions()))
}

// ModelSurfaceBoundaryPoint is a point on a side of a [ModelSurface]'s
// polygon. It has two positions: the one on its side, and the identified one
// on the partner side.
type ModelSurfaceBoundaryPoint struct {
	side      *ModelSurfaceSide
	t         float64
	positions []r3.Vector
}

var _ Point = (*ModelSurfaceBoundaryPoint)(nil)

func newBoundaryPoint(side *ModelSurfaceSide, t float64) *ModelSurfaceBoundaryPoint {
	return &ModelSurfaceBoundaryPoint{
		side: side,
		t:    t,
		positions: []r3.Vector{
			side.curve.ValueAt(t).Position(),
			side.Other().curve.ValueAt(side.otherParameter(t)).Position(),
		},
	}
}

// Side returns the side the point's first position lies on.
func (p *ModelSurfaceBoundaryPoint) Side() *ModelSurfaceSide { return p.side }

// T returns the parameter of the point on its side.
func (p *ModelSurfaceBoundaryPoint) T() float64 { return p.t }

func (p *ModelSurfaceBoundaryPoint) Positions() []r3.Vector { return p.positions }
func (p *ModelSurfaceBoundaryPoint) Position() r3.Vector    { return p.positions[0] }
func (p *ModelSurfaceBoundaryPoint) Color() color.Color     { return defaultPointColor }

// SwitchSide returns the same point, described from the partner side. Its
// positions are swapped.
func (p *ModelSurfaceBoundaryPoint) SwitchSide() *ModelSurfaceBoundaryPoint {
	return &ModelSurfaceBoundaryPoint{
		side:      p.side.Other(),
		t:         p.side.otherParameter(p.t),
		positions: []r3.Vector{p.positions[1], p.positions[0]},
	}
}

// Equal reports whether p and q describe the same point, from either side.
func (p *ModelSurfaceBoundaryPoint) Equal(q *ModelSurfaceBoundaryPoint) bool {
	const tol = 1e-9
	if p.side == q.side {
		return math.Abs(p.t-q.t) <= tol
	}
	if p.side.Other() == q.side {
		return math.Abs(p.side.otherParameter(p.t)-q.t) <= tol
	}
	return false
}

// TransportDirection expresses a direction at position from as a direction
// at position to, using the derivative of the deck transformation that glues
// the two sides.
func (p *ModelSurfaceBoundaryPoint) TransportDirection(dir r3.Vector, from, to int) r3.Vector {
	if from == to {
		return dir
	}
	// Deck transformation from the side of position from onto the side of
	// position to.
	target := p.side.Other()
	if from == 1 {
		target = p.side
	}
	return p.side.surface.deck[target.index].DF(p.positions[from]).Apply(dir)
}

func (p *ModelSurfaceBoundaryPoint) String() string {
	return fmt.Sprintf("%s@%g %s", p.side.name, p.t, formatPositions(p.positions))
}
