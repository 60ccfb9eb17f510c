package surfaces

import (
	"fmt"
	"strings"
)

// Geometry selects the base geometry a [ModelSurface]'s polygon is drawn in.
type Geometry int

const (
	Flat Geometry = iota
	HyperbolicDisk
	HyperbolicHalfPlane
)

func (g Geometry) String() string {
	switch g {
	case Flat:
		return "flat"
	case HyperbolicDisk:
		return "hyperbolic-disk"
	case HyperbolicHalfPlane:
		return "hyperbolic-half-plane"
	default:
		return fmt.Sprintf("Geometry(%d)", int(g))
	}
}

// ParseGeometry parses the names returned by [Geometry.String]. It also
// accepts "euclidean", "disk" and "half-plane".
func ParseGeometry(s string) (Geometry, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "flat", "euclidean":
		return Flat, nil
	case "hyperbolic-disk", "disk":
		return HyperbolicDisk, nil
	case "hyperbolic-half-plane", "half-plane":
		return HyperbolicHalfPlane, nil
	default:
		return 0, fmt.Errorf("%w: unknown geometry %q", ErrConfig, s)
	}
}

// valid reports whether g is one of the known geometries.
func (g Geometry) valid() bool {
	return g >= Flat && g <= HyperbolicHalfPlane
}

// newBase returns the model plane of the geometry.
func (g Geometry) newBase(name string) BaseGeometry {
	switch g {
	case Flat:
		return NewEuclideanPlane(name)
	case HyperbolicDisk:
		return NewHyperbolicPlane(name, Disk)
	case HyperbolicHalfPlane:
		return NewHyperbolicPlane(name, HalfPlane)
	default:
		panic(fmt.Sprintf("unhandled geometry %d", int(g)))
	}
}
