package render

import (
	"fmt"
	"image/color"
)

// Palette is the colour scheme of a rendered frame.
type Palette struct {
	Name       string
	Background color.NRGBA
	Line       color.NRGBA
	Overlay    color.NRGBA
	// InvertDots draws dots as 255-brightness, for dark backgrounds.
	InvertDots bool
	// RowFade ramps row line alpha from 0.6 at the top to 0.9 at the bottom.
	RowFade bool
}

var (
	PaletteBlush = Palette{
		Name:       "blush",
		Background: color.NRGBA{247, 218, 231, 255},
		Line:       color.NRGBA{211, 140, 167, 255},
		Overlay:    color.NRGBA{255, 255, 255, 255},
	}

	PaletteFaded = Palette{
		Name:       "faded",
		Background: color.NRGBA{247, 218, 231, 255},
		Line:       color.NRGBA{211, 140, 167, 255},
		Overlay:    color.NRGBA{255, 255, 255, 255},
		RowFade:    true,
	}

	PaletteInk = Palette{
		Name:       "ink",
		Background: color.NRGBA{18, 16, 24, 255},
		Line:       color.NRGBA{120, 96, 150, 255},
		Overlay:    color.NRGBA{255, 255, 255, 255},
		InvertDots: true,
	}

	PaletteMint = Palette{
		Name:       "mint",
		Background: color.NRGBA{221, 244, 232, 255},
		Line:       color.NRGBA{102, 170, 140, 255},
		Overlay:    color.NRGBA{255, 255, 255, 255},
	}

	Palettes = []Palette{PaletteBlush, PaletteFaded, PaletteInk, PaletteMint}
)

func GetPalette(name string) (Palette, error) {
	for _, p := range Palettes {
		if p.Name == name {
			return p, nil
		}
	}
	return Palette{}, fmt.Errorf("unknown palette %q", name)
}

func PaletteNames() []string {
	names := make([]string, len(Palettes))
	for i, p := range Palettes {
		names[i] = p.Name
	}
	return names
}

// Next returns the palette after p, wrapping around.
func Next(p Palette) Palette {
	for i, q := range Palettes {
		if q.Name == p.Name {
			return Palettes[(i+1)%len(Palettes)]
		}
	}
	return Palettes[0]
}

func withAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(a*255 + 0.5)
	return c
}
