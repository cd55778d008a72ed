// Package export writes SVG drawings of orbits and solar paths for
// external renderers.
package export

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/san-kum/heliosim/internal/ephemeris"
	"github.com/san-kum/heliosim/internal/integrators"
	"github.com/san-kum/heliosim/internal/sim"
	"github.com/san-kum/heliosim/internal/viz"
)

const background = "#0a0a0a"

var schemeStrokes = map[integrators.Scheme]string{
	integrators.SchemeExplicitEuler:     "#ff5f5f",
	integrators.SchemeSemiImplicitEuler: "#ffd75f",
	integrators.SchemeRK4:               "#00ffaf",
}

// Series is one named polyline in world coordinates.
type Series struct {
	Name   string
	Stroke string
	Points [][2]float64
}

type canvas struct {
	sb            strings.Builder
	width, height int
	vp            viz.Viewport
}

func newCanvas(width, height int, vp viz.Viewport) *canvas {
	c := &canvas{width: width, height: height, vp: vp}
	fmt.Fprintf(&c.sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
	return c
}

func (c *canvas) project(x, y float64) (float64, float64) {
	px := (x - c.vp.MinX) / (c.vp.MaxX - c.vp.MinX) * float64(c.width)
	py := float64(c.height) - (y-c.vp.MinY)/(c.vp.MaxY-c.vp.MinY)*float64(c.height)
	return px, py
}

func (c *canvas) path(s Series) {
	if len(s.Points) < 2 {
		return
	}
	fmt.Fprintf(&c.sb, `<path fill="none" stroke="%s" stroke-width="1.5" data-name="%s" d="`, s.Stroke, s.Name)
	for i, p := range s.Points {
		x, y := c.project(p[0], p[1])
		if i == 0 {
			fmt.Fprintf(&c.sb, "M%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&c.sb, " L%.1f,%.1f", x, y)
		}
	}
	c.sb.WriteString("\"/>\n")
}

func (c *canvas) circle(x, y, r float64, fill string) {
	px, py := c.project(x, y)
	fmt.Fprintf(&c.sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n", px, py, r, fill)
}

func (c *canvas) line(x0, y0, x1, y1 float64, stroke string) {
	ax, ay := c.project(x0, y0)
	bx, by := c.project(x1, y1)
	fmt.Fprintf(&c.sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="0.5"/>`+"\n", ax, ay, bx, by, stroke)
}

func (c *canvas) text(x, y float64, fill, s string) {
	px, py := c.project(x, y)
	fmt.Fprintf(&c.sb, `<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="11">%s</text>`+"\n", px, py, fill, s)
}

func (c *canvas) String() string {
	return c.sb.String() + "</svg>\n"
}

// PathSVG draws every series inside a viewport fitted to all of them.
func PathSVG(series []Series, width, height int) string {
	var all [][2]float64
	for _, s := range series {
		all = append(all, s.Points...)
	}
	c := newCanvas(width, height, viz.Fit(all, 0.1))
	for _, s := range series {
		c.path(s)
	}
	return c.String()
}

// OrbitSVG draws one heliocentric path per result with the Sun at the
// origin. The viewport is square so the orbit shape is preserved.
func OrbitSVG(results []*sim.Result, width, height int) string {
	radius := 0.0
	for _, r := range results {
		for _, p := range r.Positions() {
			radius = math.Max(radius, math.Hypot(p[0], p[1]))
		}
	}
	if radius == 0 {
		radius = 1
	}
	c := newCanvas(width, height, aspectSquare(radius*1.1, width, height))
	c.circle(0, 0, 5, "#ffcc00")

	for i, r := range results {
		stroke, ok := schemeStrokes[r.Scheme]
		if !ok {
			stroke = "#cccccc"
		}
		c.path(Series{Name: r.Scheme.String(), Stroke: stroke, Points: r.Positions()})
		c.text(-radius*1.05, radius*(1.0-0.08*float64(i)), stroke, r.Scheme.Label())
	}
	return c.String()
}

func aspectSquare(radius float64, width, height int) viz.Viewport {
	vp := viz.Square(radius)
	aspect := float64(width) / float64(height)
	if aspect > 1 {
		vp.MinX, vp.MaxX = -radius*aspect, radius*aspect
	} else {
		vp.MinY, vp.MaxY = -radius/aspect, radius/aspect
	}
	return vp
}

// SunPathSVG draws altitude against azimuth for each day, keeping readings
// above minAltitude. Whole local hours are marked with dots.
func SunPathSVG(days [][]ephemeris.Reading, width, height int, minAltitude float64) string {
	vp := viz.Viewport{MinX: 0, MaxX: 360, MinY: minAltitude, MaxY: 90}
	c := newCanvas(width, height, vp)

	for az := 0.0; az <= 360; az += 90 {
		c.line(az, minAltitude, az, 90, "#333344")
		c.text(az+2, minAltitude+2, "#666688", fmt.Sprintf("%.0f", az))
	}
	if minAltitude < 0 {
		c.line(0, 0, 360, 0, "#666688")
	}

	for i, day := range days {
		if len(day) == 0 {
			continue
		}
		name := day[0].Local.Format("2006-01-02")
		stroke := dayStroke(i, len(days))
		step := ephemeris.DefaultInterval
		if len(day) > 1 {
			step = day[1].Local.Sub(day[0].Local)
		}
		for _, seg := range segments(ephemeris.Visible(day, minAltitude), step) {
			c.path(Series{Name: name, Stroke: stroke, Points: seg})
		}
		for _, r := range ephemeris.HourMarks(ephemeris.Visible(day, minAltitude)) {
			c.circle(r.Azimuth, r.Altitude, 2, stroke)
		}
	}
	return c.String()
}

// segments splits a day into runs of consecutive readings, breaking at
// filtered gaps and where the azimuth wraps through north.
func segments(readings []ephemeris.Reading, step time.Duration) [][][2]float64 {
	var out [][][2]float64
	var cur [][2]float64
	for i, r := range readings {
		if i > 0 {
			prev := readings[i-1]
			gap := r.Local.Sub(prev.Local) > step+step/2
			if gap || math.Abs(r.Azimuth-prev.Azimuth) > 180 {
				out = append(out, cur)
				cur = nil
			}
		}
		cur = append(cur, [2]float64{r.Azimuth, r.Altitude})
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// dayStroke fades from blue to orange across the swept days.
func dayStroke(i, n int) string {
	f := 0.0
	if n > 1 {
		f = float64(i) / float64(n-1)
	}
	r := int(0x40 + f*(0xff-0x40))
	g := int(0x80 + f*(0x99-0x80))
	b := int(0xff - f*(0xff-0x33))
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
