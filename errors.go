package surfaces

import "errors"

var (
	// ErrConfig is wrapped by all errors caused by an invalid surface
	// description, such as unpaired side labels or inconsistent orientations.
	ErrConfig = errors.New("invalid surface configuration")

	// ErrInvalidRange is returned when a curve is restricted to a parameter
	// range outside of its domain.
	ErrInvalidRange = errors.New("invalid curve parameter range")

	// ErrZeroLength is returned when constructing a curve would produce a
	// curve of zero length.
	ErrZeroLength = errors.New("zero-length curve")

	// ErrDegenerate is returned when a numeric construction has no
	// well-defined result, for example a geodesic between two coinciding
	// points.
	ErrDegenerate = errors.New("numerically degenerate input")

	// ErrOffSurface is returned when a point that has to lie on a surface
	// doesn't.
	ErrOffSurface = errors.New("point is not on the surface")
)
