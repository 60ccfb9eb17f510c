// Package surfaces provides curves on surfaces: model planes, closed
// surfaces glued from polygons, and the operations needed to draw geodesics
// and other curves on them.
//
// # Surfaces
//
// [Surface] describes anything curves can live on. [GeodesicSurface]
// additionally measures distances and constructs geodesics, both between two
// points ([GeodesicSurface.Geodesic]) and from a starting direction
// ([GeodesicSurface.GeodesicFrom]).
//
// This package includes the following geodesic surfaces:
//   - [EuclideanPlane]
//   - [HyperbolicPlane], in the Poincaré disk or the upper half-plane model
//   - [ModelSurface]
//
// A [ModelSurface] is a polygon in one of the model planes whose sides are
// glued in pairs. Gluing turns the polygon into a closed surface: a point
// that crosses a side reappears on the partner side. [NewModelSurface]
// derives the vertices of the surface by walking around the corners of the
// polygon, and picks punctures among them. The catalog subpackage loads
// polygons from TOML.
//
// # Points
//
// Because of the gluing, a single point of a surface can have several
// positions: a point on a side also lies on the partner side, and a vertex
// lies at several corners of the polygon. [Point] returns all of them.
// [TangentVector] attaches a direction to one specific position of a point;
// [TangentVector.AtIndex] carries the direction over to another position.
//
// # Curves
//
// [Curve] is a parametrized curve on a surface, defined for t ∈ [0, Length].
// Curves are immutable and are built up from smaller curves:
//   - [Restrict] views part of a curve
//   - [Curve.Reversed] traverses a curve backwards
//   - [Concatenate] joins curves and optionally rounds off their corners
//   - [ApplyHomeomorphism] pushes a curve from one surface to another
//   - [Shift] moves a curve sideways
//   - [ByArclength] reparametrizes a curve to unit speed
//
// Geodesics of a [ModelSurface] are concatenations of geodesics of the model
// plane, one per copy of the polygon they pass through. Where they cross a
// side, the curve is continuous on the surface but jumps in the drawing;
// [Curve.VisualJumpTimes] reports these parameters so that renderers can
// lift the pen.
//
// # Logging
//
// Conditions that don't prevent a computation, but most likely indicate a
// mistake, such as a geodesic running into a vertex, are logged with
// [log/slog]. Nothing is logged unless a logger is installed with
// [SetLogger].
//
// # Literature
//
//   - [An Enhancement of the Bisection Method Average Performance Preserving Minmax Optimality] by Oliveira and Takahashi
//   - [Hyperbolic geometry] by Cannon, Floyd, Kenyon, and Parry
//
// [An Enhancement of the Bisection Method Average Performance Preserving Minmax Optimality]: https://dl.acm.org/doi/10.1145/3423597
// [Hyperbolic geometry]: https://library.slmath.org/books/Book31/files/cannon.pdf
package surfaces
