package catalog

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/colornames"

	"honnef.co/go/surfaces"
)

func TestBuiltin(t *testing.T) {
	c := Builtin()
	assert.Equal(t, []string{
		"torus",
		"punctured-torus",
		"hexagonal-torus",
		"flat-octagon",
		"hyperbolic-octagon",
		"hyperbolic-octagon-half-plane",
	}, c.Names())

	for _, s := range c.Surfaces {
		t.Run(s.Name, func(t *testing.T) {
			m, err := s.Build()
			require.NoError(t, err)
			assert.Equal(t, s.Genus, m.Genus())
			assert.Len(t, m.Punctures(), s.Punctures)
			assert.Len(t, m.Sides(), len(s.Sides))
		})
	}
}

func TestBuiltinVertices(t *testing.T) {
	tests := []struct {
		name   string
		angles []float64
	}{
		{"torus", []float64{2 * math.Pi}},
		{"hexagonal-torus", []float64{2 * math.Pi, 2 * math.Pi}},
		{"flat-octagon", []float64{6 * math.Pi}},
		{"hyperbolic-octagon", []float64{2 * math.Pi}},
		{"hyperbolic-octagon-half-plane", []float64{2 * math.Pi}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := Builtin().Lookup(tt.name)
			require.True(t, ok)
			m, err := s.Build()
			require.NoError(t, err)
			require.Len(t, m.Vertices(), len(tt.angles))
			for i, v := range m.Vertices() {
				assert.InDelta(t, tt.angles[i], v.TotalAngle().Radians(), 1e-6)
			}
		})
	}
}

func TestBuiltinColors(t *testing.T) {
	s, ok := Builtin().Lookup("torus")
	require.True(t, ok)
	poly, err := s.Polygon()
	require.NoError(t, err)
	assert.Equal(t, colornames.Crimson, poly[0].Color)
	assert.Nil(t, poly[1].Color)

	m, err := s.Build()
	require.NoError(t, err)
	assert.Equal(t, m.Sides()[0].Color(), m.Sides()[1].Color())
}

func TestDecodeStrict(t *testing.T) {
	const doc = `
[[surface]]
name = "x"
genus = 1
geometry = "flat"
colour = "red"

  [[surface.side]]
  label = "a"
  start = [0.0, 0.0]
  end = [1.0, 0.0]
`
	_, err := Decode(strings.NewReader(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, surfaces.ErrConfig)
	assert.Contains(t, err.Error(), "colour")
}

func TestDecodeSyntaxError(t *testing.T) {
	_, err := Decode(strings.NewReader("[[surface]\nname = 1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, surfaces.ErrConfig)
}

func TestDecodeValidation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unnamed", `
[[surface]]
genus = 0
  [[surface.side]]
  label = "a"
`},
		{"duplicate", `
[[surface]]
name = "x"
  [[surface.side]]
  label = "a"
[[surface]]
name = "x"
  [[surface.side]]
  label = "a"
`},
		{"no sides", `
[[surface]]
name = "x"
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, surfaces.ErrConfig)
		})
	}
}

func TestBuildErrors(t *testing.T) {
	s, ok := Builtin().Lookup("torus")
	require.True(t, ok)

	bad := s
	bad.Geometry = "spherical"
	_, err := bad.Build()
	assert.ErrorIs(t, err, surfaces.ErrConfig)

	bad = s
	bad.Sides = append([]Side(nil), s.Sides...)
	bad.Sides[0].Color = "not-a-color"
	_, err = bad.Build()
	assert.ErrorIs(t, err, surfaces.ErrConfig)

	bad = s
	bad.Sides = s.Sides[:3]
	_, err = bad.Build()
	assert.ErrorIs(t, err, surfaces.ErrConfig)
}

func TestLookupMissing(t *testing.T) {
	_, ok := Builtin().Lookup("klein-bottle")
	assert.False(t, ok)
}
