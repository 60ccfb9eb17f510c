package surfaces_test

import (
	"fmt"

	"github.com/golang/geo/r3"

	"honnef.co/go/surfaces"
	"honnef.co/go/surfaces/catalog"
)

func ExampleModelSurface_GeodesicFrom() {
	desc, _ := catalog.Builtin().Lookup("torus")
	torus, err := desc.Build()
	if err != nil {
		panic(err)
	}
	start := surfaces.NewTangentVector(surfaces.NewPoint(r3.Vector{X: 0.5, Y: 0.9}), r3.Vector{Y: 1})
	c, err := torus.GeodesicFrom(start, 0.2)
	if err != nil {
		panic(err)
	}
	fmt.Printf("length %.3f\n", c.Length())
	for _, t := range c.VisualJumpTimes() {
		fmt.Printf("jump at %.3f\n", t)
	}
	end := surfaces.EndPosition(c)
	fmt.Printf("ends at (%.3f, %.3f)\n", end.X, end.Y)
	// Output:
	// length 0.200
	// jump at 0.100
	// ends at (0.500, 0.100)
}

func ExampleRestrict() {
	plane := surfaces.NewEuclideanPlane("plane")
	seg, err := plane.Segment(r3.Vector{}, r3.Vector{X: 4, Y: 3})
	if err != nil {
		panic(err)
	}
	part, err := surfaces.Restrict(seg, 1, 3)
	if err != nil {
		panic(err)
	}
	start, end := surfaces.StartPosition(part), surfaces.EndPosition(part)
	fmt.Printf("%.1f from (%.1f, %.1f) to (%.1f, %.1f)\n", part.Length(), start.X, start.Y, end.X, end.Y)
	// Output:
	// 2.0 from (0.8, 0.6) to (2.4, 1.8)
}
