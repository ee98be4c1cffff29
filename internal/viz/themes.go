package viz

import (
	"image/color"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/webcloth/internal/render"
)

// Theme defines the HUD colours. It is derived from the web palette so the
// panel matches the canvas next to it.
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

// ThemeFor builds the HUD theme for a palette.
func ThemeFor(p render.Palette) Theme {
	text := color.NRGBA{40, 32, 44, 255}
	if luminance(p.Background) < 0.5 {
		text = color.NRGBA{236, 230, 240, 255}
	}
	return Theme{
		Name:       p.Name,
		Primary:    lipgloss.Color(hexColor(p.Line)),
		Secondary:  lipgloss.Color(hexColor(mix(p.Line, text, 0.5))),
		Accent:     lipgloss.Color(hexColor(mix(p.Line, p.Overlay, 0.4))),
		Background: lipgloss.Color(hexColor(p.Background)),
		Text:       lipgloss.Color(hexColor(text)),
		Muted:      lipgloss.Color(hexColor(mix(p.Line, p.Background, 0.5))),
		Warning:    lipgloss.Color("#ffaa00"),
		Error:      lipgloss.Color("#ff4444"),
	}
}

func luminance(c color.NRGBA) float64 {
	return (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
}

// mix returns a + (b-a)*t per channel.
func mix(a, b color.NRGBA, t float64) color.NRGBA {
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.NRGBA{lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B), 255}
}
