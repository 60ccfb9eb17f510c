// Command surfinfo describes model surfaces from a catalog: their sides,
// vertices and punctures. Given two points, it also measures the distance
// between them and the geodesic connecting them.
//
// Usage:
//
//	surfinfo [flags] [surface...]
//
// Without surface names, all surfaces of the catalog are described.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"

	"honnef.co/go/surfaces"
	"honnef.co/go/surfaces/catalog"
)

func main() {
	var (
		catalogPath = flag.String("catalog", "", "read surfaces from `file` instead of the builtin catalog")
		list        = flag.Bool("list", false, "list the names of the surfaces and exit")
		punctures   = flag.Int("punctures", -1, "override the number of punctures")
		from        = flag.String("from", "", "start `x,y` of a geodesic")
		to          = flag.String("to", "", "end `x,y` of a geodesic")
		verbose     = flag.Bool("v", false, "log construction diagnostics")
	)
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	surfaces.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(os.Stdout, *catalogPath, *list, *punctures, *from, *to, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "surfinfo:", err)
		os.Exit(1)
	}
}

func run(w io.Writer, catalogPath string, list bool, punctures int, from, to string, names []string) error {
	cat := catalog.Builtin()
	if catalogPath != "" {
		var err error
		cat, err = catalog.Load(catalogPath)
		if err != nil {
			return err
		}
	}
	if list {
		for _, name := range cat.Names() {
			fmt.Fprintln(w, name)
		}
		return nil
	}
	if len(names) == 0 {
		names = cat.Names()
	}

	var a, b r3.Vector
	measure := from != "" || to != ""
	if measure {
		var err error
		if a, err = parsePosition(from); err != nil {
			return fmt.Errorf("-from: %w", err)
		}
		if b, err = parsePosition(to); err != nil {
			return fmt.Errorf("-to: %w", err)
		}
	}

	for i, name := range names {
		desc, ok := cat.Lookup(name)
		if !ok {
			return fmt.Errorf("no surface named %q", name)
		}
		m, err := desc.Build()
		if err != nil {
			return err
		}
		if punctures >= 0 {
			if m, err = m.WithPunctureCount(punctures); err != nil {
				return err
			}
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		describe(w, m, desc.Description)
		if measure {
			if err := geodesic(w, m, a, b); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}
	}
	return nil
}

func describe(w io.Writer, m *surfaces.ModelSurface, description string) {
	fmt.Fprintf(w, "%s (%s, genus %d)\n", m.Name(), m.Geometry(), m.Genus())
	if description != "" {
		fmt.Fprintf(w, "  %s\n", description)
	}
	fmt.Fprintf(w, "  bounds: %v to %v\n", m.MinimalPosition(), m.MaximalPosition())
	fmt.Fprintf(w, "  sides:\n")
	for _, s := range m.Sides() {
		fmt.Fprintf(w, "    %-4s length %.6f, glued to %s, vertices %d → %d\n",
			s.Name(), s.Length(), s.Other().Name(), s.StartVertex().Index(), s.EndVertex().Index())
	}
	fmt.Fprintf(w, "  vertices:\n")
	for _, v := range m.Vertices() {
		fmt.Fprintf(w, "    %d: %d corners, total angle %.6fπ\n",
			v.Index(), len(v.Angles()), v.TotalAngle().Radians()/math.Pi)
	}
	if ps := m.Punctures(); len(ps) > 0 {
		fmt.Fprintf(w, "  punctures:\n")
		for _, p := range ps {
			fmt.Fprintf(w, "    %v\n", p.Position())
		}
	}
}

func geodesic(w io.Writer, m *surfaces.ModelSurface, a, b r3.Vector) error {
	pa, ok := m.ClampPoint(a, 1e-6)
	if !ok {
		return fmt.Errorf("%v is not on the surface", a)
	}
	pb, ok := m.ClampPoint(b, 1e-6)
	if !ok {
		return fmt.Errorf("%v is not on the surface", b)
	}
	c, err := m.Geodesic(pa, pb)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "  distance: %.6f\n", m.Distance(pa, pb))
	if side, ok := m.DistanceMinimizer(pa, pb); ok {
		fmt.Fprintf(w, "  shortest through side %s\n", side.Name())
	}
	fmt.Fprintf(w, "  geodesic: length %.6f, from %v to %v\n",
		c.Length(), surfaces.StartPosition(c), surfaces.EndPosition(c))
	for _, t := range c.VisualJumpTimes() {
		fmt.Fprintf(w, "    crosses an edge at t=%.6f\n", t)
	}
	return nil
}

func parsePosition(s string) (r3.Vector, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return r3.Vector{}, fmt.Errorf("want x,y, got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return r3.Vector{}, err
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return r3.Vector{}, err
	}
	return r3.Vector{X: x, Y: y}, nil
}
