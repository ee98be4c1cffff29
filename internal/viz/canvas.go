package viz

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a braille terminal surface. Every cell holds 2x4 sub-pixels and
// one foreground colour, the colour of the last shape drawn into it. World
// coordinates are divided by Scale to get sub-pixels.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]color.NRGBA
	Background    color.NRGBA
	Scale         float64

	pen   color.NRGBA
	paths [][][2]float64
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:      w,
		Height:     h,
		Grid:       make([][]rune, h),
		Colors:     make([][]color.NRGBA, h),
		Background: color.NRGBA{0, 0, 0, 255},
		Scale:      1,
		pen:        color.NRGBA{255, 255, 255, 255},
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]color.NRGBA, w)
	}
	c.Clear()
	return c
}

// WorldSize is the extent of the canvas in world units.
func (c *Canvas) WorldSize() (float64, float64) {
	return float64(c.Width*2) * c.Scale, float64(c.Height*4) * c.Scale
}

// Set sets a pixel at (x, y) in sub-pixel coordinates with the current pen.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	c.Colors[row][col] = c.pen
}

// Unset clears a pixel
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] &= ^rune(pixelMap[y%4][x%2])
	if c.Grid[row][col] < blank {
		c.Grid[row][col] = blank
	}
}

// Lit reports whether the sub-pixel at (x, y) is set.
func (c *Canvas) Lit(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Colors[i][j] = c.Background
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) sub(x, y float64) (int, int) {
	return int(math.Floor(x / c.Scale)), int(math.Floor(y / c.Scale))
}

// setPen picks the colour for the next shape. The terminal has no alpha, so
// translucent colours are blended over the background here.
func (c *Canvas) setPen(col color.Color) {
	n := color.NRGBAModel.Convert(col).(color.NRGBA)
	a := float64(n.A) / 255
	mix := func(f, b uint8) uint8 {
		return uint8(float64(f)*a + float64(b)*(1-a) + 0.5)
	}
	c.pen = color.NRGBA{mix(n.R, c.Background.R), mix(n.G, c.Background.G), mix(n.B, c.Background.B), 255}
}

// FillRect clears the canvas when the rectangle covers it; otherwise the
// covered sub-pixels are lit.
func (c *Canvas) FillRect(x, y, w, h float64, col color.Color) {
	ww, wh := c.WorldSize()
	if x <= 0 && y <= 0 && x+w >= ww && y+h >= wh {
		c.Background = color.NRGBAModel.Convert(col).(color.NRGBA)
		c.Clear()
		return
	}
	c.setPen(col)
	x0, y0 := c.sub(x, y)
	x1, y1 := c.sub(x+w, y+h)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			c.Set(px, py)
		}
	}
}

func (c *Canvas) BeginPath() { c.paths = c.paths[:0] }

func (c *Canvas) MoveTo(x, y float64) {
	c.paths = append(c.paths, [][2]float64{{x, y}})
}

func (c *Canvas) LineTo(x, y float64) {
	if len(c.paths) == 0 {
		c.MoveTo(x, y)
		return
	}
	last := len(c.paths) - 1
	c.paths[last] = append(c.paths[last], [2]float64{x, y})
}

// Stroke draws the current path one sub-pixel wide, whatever the width.
func (c *Canvas) Stroke(width float64, col color.Color) {
	c.setPen(col)
	for _, path := range c.paths {
		for i := 1; i < len(path); i++ {
			x0, y0 := c.sub(path[i-1][0], path[i-1][1])
			x1, y1 := c.sub(path[i][0], path[i][1])
			c.DrawLine(x0, y0, x1, y1)
		}
	}
}

func (c *Canvas) FillCircle(x, y, r float64, col color.Color) {
	c.setPen(col)
	cx, cy := c.sub(x, y)
	rs := r / c.Scale
	if rs < 1 {
		c.Set(cx, cy)
		return
	}
	n := int(math.Ceil(rs))
	for dy := -n; dy <= n; dy++ {
		for dx := -n; dx <= n; dx++ {
			if float64(dx*dx+dy*dy) <= rs*rs {
				c.Set(cx+dx, cy+dy)
			}
		}
	}
}

// StrokeCircle plots the ring point by point, skipping the gaps of dash.
func (c *Canvas) StrokeCircle(x, y, r, width float64, dash []float64, col color.Color) {
	c.setPen(col)
	steps := int(math.Ceil(2 * math.Pi * r / c.Scale))
	if steps < 8 {
		steps = 8
	}
	period := 0.0
	for _, d := range dash {
		period += d
	}
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		if period > 0 && !dashOn(math.Mod(a*r, period), dash) {
			continue
		}
		px, py := c.sub(x+math.Cos(a)*r, y+math.Sin(a)*r)
		c.Set(px, py)
	}
}

func dashOn(pos float64, dash []float64) bool {
	on := true
	for _, d := range dash {
		if pos < d {
			return on
		}
		pos -= d
		on = !on
	}
	return on
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render returns the canvas with cell colours, one styled run per colour
// change.
func (c *Canvas) Render() string {
	bg := lipgloss.Color(hexColor(c.Background))
	var b strings.Builder
	for row := range c.Grid {
		start := 0
		for col := 1; col <= c.Width; col++ {
			if col < c.Width && c.Colors[row][col] == c.Colors[row][start] {
				continue
			}
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hexColor(c.Colors[row][start]))).
				Background(bg)
			b.WriteString(style.Render(string(c.Grid[row][start:col])))
			start = col
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Image rasterises the canvas with cellW x cellH pixels per cell, each lit
// dot drawn as a block in its cell colour.
func (c *Canvas) Image(cellW, cellH int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.Width*cellW, c.Height*cellH))
	for y := 0; y < img.Bounds().Dy(); y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			img.Set(x, y, c.Background)
		}
	}

	dotW, dotH := cellW/2, cellH/4
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			pattern := c.Grid[row][col] - blank
			if pattern == 0 {
				continue
			}
			baseX, baseY := col*cellW, row*cellH
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&rune(pixelMap[dy][dx]) == 0 {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.Set(baseX+dx*dotW+px, baseY+dy*dotH+py, c.Colors[row][col])
						}
					}
				}
			}
		}
	}
	return img
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
