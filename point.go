package surfaces

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/golang/geo/r3"
	"golang.org/x/image/colornames"
)

// Point is a point on a surface. Because of edge identifications, a single
// point may have several equivalent positions, one per identified copy.
// All positions of a point describe the same point; consumers must never
// assume that there is exactly one.
type Point interface {
	// Positions returns the positions of the point. The returned slice has
	// at least one element and must not be modified.
	Positions() []r3.Vector
	// Position returns the first, canonical position.
	Position() r3.Vector
	// Color is the color used when drawing the point.
	Color() color.Color
}

// directionTransporter is implemented by points that know how a direction
// at one of their positions looks at another one.
type directionTransporter interface {
	TransportDirection(dir r3.Vector, from, to int) r3.Vector
}

// defaultPointColor is used for points that weren't given a color.
var defaultPointColor color.Color = colornames.White

// BasicPoint is a point given by a list of positions.
type BasicPoint struct {
	positions []r3.Vector
	color     color.Color
}

var _ Point = BasicPoint{}

// NewPoint returns a point with a single position.
func NewPoint(pos r3.Vector) BasicPoint {
	return BasicPoint{positions: []r3.Vector{pos}}
}

// NewColoredPoint returns a point with a single position and a color.
func NewColoredPoint(pos r3.Vector, col color.Color) BasicPoint {
	return BasicPoint{positions: []r3.Vector{pos}, color: col}
}

// NewMultiPoint returns a point with several equivalent positions. It panics
// if no position is given.
func NewMultiPoint(positions ...r3.Vector) BasicPoint {
	if len(positions) == 0 {
		panic("point needs at least one position")
	}
	return BasicPoint{positions: positions}
}

func (p BasicPoint) Positions() []r3.Vector { return p.positions }
func (p BasicPoint) Position() r3.Vector    { return p.positions[0] }

func (p BasicPoint) Color() color.Color {
	if p.color == nil {
		return defaultPointColor
	}
	return p.color
}

func (p BasicPoint) String() string {
	return formatPositions(p.positions)
}

func formatPositions(positions []r3.Vector) string {
	if len(positions) == 1 {
		return positions[0].String()
	}
	parts := make([]string, len(positions))
	for i, pos := range positions {
		parts[i] = pos.String()
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, " ~ "))
}

// DistanceSquaredBetween returns the smallest squared Euclidean distance
// between any position of a and any position of b.
func DistanceSquaredBetween(a, b Point) float64 {
	d, _, _ := closestPositions(a, b)
	return d
}

// closestPositions returns the smallest squared distance between positions of
// a and b, together with the indices achieving it.
func closestPositions(a, b Point) (distSq float64, i, j int) {
	distSq = math.Inf(1)
	for ia, pa := range a.Positions() {
		for ib, pb := range b.Positions() {
			if d := pa.Sub(pb).Norm2(); d < distSq {
				distSq, i, j = d, ia, ib
			}
		}
	}
	return distSq, i, j
}

// PointsApproxEqual reports whether some position of a is within tol of some
// position of b.
func PointsApproxEqual(a, b Point, tol float64) bool {
	return DistanceSquaredBetween(a, b) <= tol*tol
}

// closestPositionIndex returns the index of the position of p that is closest
// to pos.
func closestPositionIndex(p Point, pos r3.Vector) int {
	best := 0
	bestDist := math.Inf(1)
	for i, q := range p.Positions() {
		if d := q.Sub(pos).Norm2(); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// TangentVector is a direction attached to a point. Because directions at an
// identified point differ per copy, PositionIndex selects which of the
// point's positions the vector is attached to.
type TangentVector struct {
	Point         Point
	Vector        r3.Vector
	PositionIndex int
}

// NewTangentVector returns a tangent vector attached to the first position of
// p.
func NewTangentVector(p Point, v r3.Vector) TangentVector {
	return TangentVector{Point: p, Vector: v}
}

// Position returns the position the vector is attached to.
func (tv TangentVector) Position() r3.Vector {
	return tv.Point.Positions()[tv.PositionIndex]
}

// Normalized returns the tangent vector scaled to unit length. The zero
// vector stays zero.
func (tv TangentVector) Normalized() TangentVector {
	tv.Vector = tv.Vector.Normalize()
	return tv
}

// Negated returns the tangent vector pointing the opposite way.
func (tv TangentVector) Negated() TangentVector {
	tv.Vector = tv.Vector.Mul(-1)
	return tv
}

// Scaled returns the tangent vector multiplied by f.
func (tv TangentVector) Scaled(f float64) TangentVector {
	tv.Vector = tv.Vector.Mul(f)
	return tv
}

// AtIndex expresses the tangent vector at another position of its point. It
// returns false if the point doesn't know how to transport directions between
// its copies and the index differs from the current one.
func (tv TangentVector) AtIndex(i int) (TangentVector, bool) {
	if i == tv.PositionIndex {
		return tv, true
	}
	tr, ok := tv.Point.(directionTransporter)
	if !ok {
		return tv, false
	}
	return TangentVector{
		Point:         tv.Point,
		Vector:        tr.TransportDirection(tv.Vector, tv.PositionIndex, i),
		PositionIndex: i,
	}, true
}

func (tv TangentVector) String() string {
	return fmt.Sprintf("%v@%v", tv.Vector, tv.Position())
}

// planeNormal returns v rotated by a quarter turn to the left within the
// xy-plane.
func planeNormal(v r3.Vector) r3.Vector {
	return r3.Vector{X: -v.Y, Y: v.X}
}

// planeAngle returns the angle of v in the xy-plane.
func planeAngle(v r3.Vector) float64 {
	return math.Atan2(v.Y, v.X)
}
