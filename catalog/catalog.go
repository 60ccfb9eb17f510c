// Package catalog decodes descriptions of model surfaces from TOML and ships
// a set of builtin surfaces.
//
// A catalog file is a list of surfaces, each with a list of sides:
//
//	[[surface]]
//	name = "torus"
//	genus = 1
//	punctures = 0
//	geometry = "flat"
//
//	  [[surface.side]]
//	  label = "a"
//	  start = [0.0, 0.0]
//	  end = [1.0, 0.0]
//	  right_is_inside = false
//	  color = "crimson"
//
// Colors are SVG color names. Unknown keys are rejected.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/image/colornames"

	"honnef.co/go/surfaces"
)

//go:embed builtin.toml
var builtinTOML string

// Side describes one side of a surface's polygon.
type Side struct {
	Label         string     `toml:"label"`
	Start         [2]float64 `toml:"start"`
	End           [2]float64 `toml:"end"`
	RightIsInside bool       `toml:"right_is_inside"`
	Color         string     `toml:"color,omitempty"`
}

// Surface describes a model surface.
type Surface struct {
	Name        string `toml:"name"`
	Description string `toml:"description,omitempty"`
	Genus       int    `toml:"genus"`
	Punctures   int    `toml:"punctures"`
	Geometry    string `toml:"geometry"`
	Sides       []Side `toml:"side"`
}

// Catalog is a list of surface descriptions.
type Catalog struct {
	Surfaces []Surface `toml:"surface"`
}

// Decode reads a catalog from r. Errors in the description wrap
// [surfaces.ErrConfig].
func Decode(r io.Reader) (*Catalog, error) {
	var c Catalog
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&c); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: %s", surfaces.ErrConfig, strict.String())
		}
		var dec *toml.DecodeError
		if errors.As(err, &dec) {
			row, col := dec.Position()
			return nil, fmt.Errorf("%w: line %d, column %d: %s", surfaces.ErrConfig, row, col, dec.Error())
		}
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads a catalog from a file.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

var builtin = sync.OnceValue(func() *Catalog {
	c, err := Decode(strings.NewReader(builtinTOML))
	if err != nil {
		panic(fmt.Sprintf("builtin catalog: %s", err))
	}
	return c
})

// Builtin returns the catalog of surfaces that ships with the package. The
// returned catalog is shared and must not be modified.
func Builtin() *Catalog { return builtin() }

func (c *Catalog) validate() error {
	seen := make(map[string]bool, len(c.Surfaces))
	for i, s := range c.Surfaces {
		if s.Name == "" {
			return fmt.Errorf("%w: surface %d has no name", surfaces.ErrConfig, i)
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: duplicate surface %q", surfaces.ErrConfig, s.Name)
		}
		seen[s.Name] = true
		if len(s.Sides) == 0 {
			return fmt.Errorf("%w: surface %q has no sides", surfaces.ErrConfig, s.Name)
		}
	}
	return nil
}

// Names returns the names of the surfaces in the catalog, in order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.Surfaces))
	for i, s := range c.Surfaces {
		out[i] = s.Name
	}
	return out
}

// Lookup returns the surface with the given name.
func (c *Catalog) Lookup(name string) (Surface, bool) {
	for _, s := range c.Surfaces {
		if s.Name == name {
			return s, true
		}
	}
	return Surface{}, false
}

// Polygon converts the sides to polygon sides.
func (s Surface) Polygon() ([]surfaces.PolygonSide, error) {
	out := make([]surfaces.PolygonSide, len(s.Sides))
	for i, side := range s.Sides {
		col, err := parseColor(side.Color)
		if err != nil {
			return nil, fmt.Errorf("surface %q, side %d: %w", s.Name, i, err)
		}
		out[i] = surfaces.PolygonSide{
			Label:         side.Label,
			Start:         r3.Vector{X: side.Start[0], Y: side.Start[1]},
			End:           r3.Vector{X: side.End[0], Y: side.End[1]},
			RightIsInside: side.RightIsInside,
			Color:         col,
		}
	}
	return out, nil
}

// Build constructs the model surface.
func (s Surface) Build() (*surfaces.ModelSurface, error) {
	geom, err := surfaces.ParseGeometry(s.Geometry)
	if err != nil {
		return nil, fmt.Errorf("surface %q: %w", s.Name, err)
	}
	poly, err := s.Polygon()
	if err != nil {
		return nil, err
	}
	return surfaces.NewModelSurface(s.Name, s.Genus, s.Punctures, geom, poly)
}

func parseColor(name string) (color.Color, error) {
	if name == "" {
		return nil, nil
	}
	col, ok := colornames.Map[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown color %q", surfaces.ErrConfig, name)
	}
	return col, nil
}
