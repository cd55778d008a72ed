package viz

import (
	"math"
	"strings"
)

// Braille cells are 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
const brailleBlank = 0x2800

var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille dot grid of Width x Height cells, i.e.
// (2*Width) x (4*Height) dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Dots is the canvas size in dots.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

// Set lights the dot at (x, y); out of range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm.
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

// Lit counts cells with at least one dot set.
func (c *Canvas) Lit() int {
	n := 0
	for _, row := range c.Grid {
		for _, r := range row {
			if r != brailleBlank {
				n++
			}
		}
	}
	return n
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Viewport maps world coordinates onto canvas dots, y up.
type Viewport struct {
	MinX, MaxX, MinY, MaxY float64
}

// Square returns a viewport centered on the origin that holds radius in
// every direction.
func Square(radius float64) Viewport {
	return Viewport{MinX: -radius, MaxX: radius, MinY: -radius, MaxY: radius}
}

// Fit returns the bounding viewport of pts padded by pad on each side.
func Fit(pts [][2]float64, pad float64) Viewport {
	if len(pts) == 0 {
		return Square(1)
	}
	vp := Viewport{MinX: math.Inf(1), MaxX: math.Inf(-1), MinY: math.Inf(1), MaxY: math.Inf(-1)}
	for _, p := range pts {
		vp.MinX = math.Min(vp.MinX, p[0])
		vp.MaxX = math.Max(vp.MaxX, p[0])
		vp.MinY = math.Min(vp.MinY, p[1])
		vp.MaxY = math.Max(vp.MaxY, p[1])
	}
	wx := math.Max(vp.MaxX-vp.MinX, 1e-9)
	wy := math.Max(vp.MaxY-vp.MinY, 1e-9)
	vp.MinX -= wx * pad
	vp.MaxX += wx * pad
	vp.MinY -= wy * pad
	vp.MaxY += wy * pad
	return vp
}

func (v Viewport) project(c *Canvas, x, y float64) (int, int) {
	w, h := c.Dots()
	px := (x - v.MinX) / (v.MaxX - v.MinX) * float64(w-1)
	py := (v.MaxY - y) / (v.MaxY - v.MinY) * float64(h-1)
	return int(math.Round(px)), int(math.Round(py))
}

func (c *Canvas) Point(v Viewport, x, y float64) {
	c.Set(v.project(c, x, y))
}

// Path joins consecutive points with lines.
func (c *Canvas) Path(v Viewport, pts [][2]float64) {
	for i, p := range pts {
		x, y := v.project(c, p[0], p[1])
		if i == 0 {
			c.Set(x, y)
			continue
		}
		px, py := v.project(c, pts[i-1][0], pts[i-1][1])
		c.DrawLine(px, py, x, y)
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
