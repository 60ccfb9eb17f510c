package surfaces

import (
	"image/color"

	"golang.org/x/image/colornames"
)

// sidePalette colors pairs of identified sides that weren't given a color.
var sidePalette = []color.Color{
	colornames.Crimson,
	colornames.Dodgerblue,
	colornames.Gold,
	colornames.Mediumseagreen,
	colornames.Darkorange,
	colornames.Mediumpurple,
	colornames.Hotpink,
	colornames.Teal,
}

// puncturePalette colors punctures, in order of their index.
var puncturePalette = []color.Color{
	colornames.Orangered,
	colornames.Deepskyblue,
	colornames.Yellowgreen,
	colornames.Violet,
	colornames.Turquoise,
	colornames.Salmon,
}

func paletteColor(palette []color.Color, i int) color.Color {
	return palette[i%len(palette)]
}
