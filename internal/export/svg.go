// Package export writes rendered frames as vector graphics.
package export

import (
	"fmt"
	"image/color"
	"io"
	"strings"
)

// SVG is a render.Surface that records draw calls as SVG elements.
type SVG struct {
	Width, Height float64

	body strings.Builder
	path strings.Builder
}

func NewSVG(width, height float64) *SVG {
	return &SVG{Width: width, Height: height}
}

func (s *SVG) FillRect(x, y, w, h float64, c color.Color) {
	fill, opacity := paint(c)
	fmt.Fprintf(&s.body, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"%s/>`+"\n", x, y, w, h, fill, attr("fill-opacity", opacity))
}

func (s *SVG) BeginPath() { s.path.Reset() }

func (s *SVG) MoveTo(x, y float64) {
	fmt.Fprintf(&s.path, "M%.1f,%.1f", x, y)
}

func (s *SVG) LineTo(x, y float64) {
	fmt.Fprintf(&s.path, " L%.1f,%.1f", x, y)
}

func (s *SVG) Stroke(width float64, c color.Color) {
	if s.path.Len() == 0 {
		return
	}
	stroke, opacity := paint(c)
	fmt.Fprintf(&s.body, `<path fill="none" stroke="%s" stroke-width="%.1f"%s d="%s"/>`+"\n", stroke, width, attr("stroke-opacity", opacity), s.path.String())
}

func (s *SVG) FillCircle(x, y, r float64, c color.Color) {
	fill, opacity := paint(c)
	fmt.Fprintf(&s.body, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"%s/>`+"\n", x, y, r, fill, attr("fill-opacity", opacity))
}

func (s *SVG) StrokeCircle(x, y, r, width float64, dash []float64, c color.Color) {
	stroke, opacity := paint(c)
	dashes := make([]string, len(dash))
	for i, d := range dash {
		dashes[i] = fmt.Sprintf("%g", d)
	}
	extra := attr("stroke-opacity", opacity)
	if len(dashes) > 0 {
		extra += fmt.Sprintf(` stroke-dasharray="%s"`, strings.Join(dashes, ","))
	}
	fmt.Fprintf(&s.body, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s" stroke-width="%.1f"%s/>`+"\n", x, y, r, stroke, width, extra)
}

func (s *SVG) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
`, s.Width, s.Height, s.Width, s.Height)
	sb.WriteString(s.body.String())
	sb.WriteString("</svg>\n")
	return sb.String()
}

func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

// paint splits c into a hex colour and an opacity in [0,1].
func paint(c color.Color) (string, float64) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B), float64(n.A) / 255
}

func attr(name string, opacity float64) string {
	if opacity >= 1 {
		return ""
	}
	return fmt.Sprintf(` %s="%.2f"`, name, opacity)
}
