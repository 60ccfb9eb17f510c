package surfaces

import "github.com/golang/geo/r3"

// Surface is a surface that curves live on.
type Surface interface {
	Name() string
	Genus() int
	// Is2D reports whether the surface is embedded in a plane, with all
	// positions sharing the same z coordinate.
	Is2D() bool
	// Punctures returns the points removed from the surface.
	Punctures() []Point
	// MinimalPosition and MaximalPosition span the bounding box of the
	// surface's representation.
	MinimalPosition() r3.Vector
	MaximalPosition() r3.Vector
	// ClampPoint converts a raw position, such as a picked or hovered
	// coordinate, into a point on the surface. Positions close to
	// significant points (vertices, boundaries) snap to them. It returns
	// false if pos is farther than tolerance outside of the surface.
	ClampPoint(pos r3.Vector, tolerance float64) (Point, bool)
	// Identity returns the surface's identity homeomorphism.
	Identity() *Homeomorphism
}

// GeodesicSurface is a surface that can construct geodesics and measure
// distances.
type GeodesicSurface interface {
	Surface
	// DistanceSquared returns the squared distance between a and b. For
	// points with several positions, the minimum over all copies is used.
	DistanceSquared(a, b Point) float64
	// Distance returns the distance between a and b.
	Distance(a, b Point) float64
	// Geodesic returns a shortest geodesic from a to b.
	Geodesic(a, b Point) (Curve, error)
	// GeodesicFrom returns the geodesic starting with the given tangent
	// vector, parametrized by arclength. A negative length follows the
	// reversed tangent.
	GeodesicFrom(start TangentVector, length float64) (Curve, error)
}

// Geodesic is a geodesic segment of a model plane.
type Geodesic interface {
	Curve
	// Rightness returns a signed quantity that is positive for positions to
	// the right of the geodesic's supporting line, negative for positions to
	// its left, and zero on it.
	Rightness(pos r3.Vector) float64
	// Embedding returns the homeomorphism from the canonical frame of the
	// plane onto the frame of the geodesic, mapping the canonical geodesic
	// onto this one with matching parameters.
	Embedding() *Homeomorphism
}

// BaseGeometry is a model plane that polygons of a [ModelSurface] are drawn
// in.
type BaseGeometry interface {
	GeodesicSurface
	// Segment returns the geodesic from start to end.
	Segment(start, end r3.Vector) (Geodesic, error)
	// Ray returns the geodesic of the given length starting at start in
	// direction dir.
	Ray(start, dir r3.Vector, length float64) (Geodesic, error)
	// Contains reports whether pos is a position of the plane.
	Contains(pos r3.Vector) bool
}
