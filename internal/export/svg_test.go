package export

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/heliosim/internal/dynamo"
	"github.com/san-kum/heliosim/internal/ephemeris"
	"github.com/san-kum/heliosim/internal/frames"
	"github.com/san-kum/heliosim/internal/integrators"
	"github.com/san-kum/heliosim/internal/sim"
)

func wellFormed(t *testing.T, doc string) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(doc))
	for {
		_, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			t.Fatalf("svg is not well formed: %v\n%s", err, doc)
		}
	}
}

func circleResult(scheme integrators.Scheme) *sim.Result {
	res := &sim.Result{Scheme: scheme}
	for i := range 8 {
		x, y := 0.0, 0.0
		switch i % 4 {
		case 0:
			x = 1
		case 1:
			y = 1
		case 2:
			x = -1
		case 3:
			y = -1
		}
		res.Samples = append(res.Samples, sim.Sample{Step: i, State: dynamo.State{R: 1}, X: x, Y: y})
	}
	return res
}

func TestOrbitSVG(t *testing.T) {
	results := []*sim.Result{circleResult(integrators.SchemeRK4), circleResult(integrators.SchemeExplicitEuler)}
	doc := OrbitSVG(results, 400, 300)
	wellFormed(t, doc)

	if got := strings.Count(doc, "<path"); got != 2 {
		t.Errorf("paths = %d, want 2", got)
	}
	for _, want := range []string{`data-name="rk4"`, `data-name="explicit-euler"`, schemeStrokes[integrators.SchemeRK4], "RK4 (reference)"} {
		if !strings.Contains(doc, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	// Sun at the center of the drawing
	if !strings.Contains(doc, `cx="200.0" cy="150.0"`) {
		t.Error("sun not centered")
	}
}

func TestPathSVGSkipsShortSeries(t *testing.T) {
	doc := PathSVG([]Series{
		{Name: "a", Stroke: "#fff", Points: [][2]float64{{0, 0}, {1, 1}}},
		{Name: "b", Stroke: "#fff", Points: [][2]float64{{2, 2}}},
	}, 100, 100)
	wellFormed(t, doc)
	if got := strings.Count(doc, "<path"); got != 1 {
		t.Errorf("paths = %d, want 1", got)
	}
}

func syntheticDay(date time.Time) []ephemeris.Reading {
	var day []ephemeris.Reading
	for i := range 144 {
		local := date.Add(time.Duration(i) * 10 * time.Minute)
		// azimuth sweeps east to west, altitude peaks at noon
		frac := float64(i) / 143
		day = append(day, ephemeris.Reading{
			Local:      local,
			UTC:        local,
			Horizontal: frames.Horizontal{Azimuth: 10 + 340*frac, Altitude: 60 - 240*(frac-0.5)*(frac-0.5) - 20},
		})
	}
	return day
}

func TestSunPathSVG(t *testing.T) {
	days := [][]ephemeris.Reading{
		syntheticDay(time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC)),
		syntheticDay(time.Date(2026, 12, 21, 0, 0, 0, 0, time.UTC)),
		nil,
	}
	doc := SunPathSVG(days, 720, 360, -10)
	wellFormed(t, doc)

	for _, want := range []string{`data-name="2026-06-21"`, `data-name="2026-12-21"`} {
		if !strings.Contains(doc, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if got := strings.Count(doc, "<path"); got != 2 {
		t.Errorf("paths = %d, want 2", got)
	}
}

func TestSegmentsBreakOnWrap(t *testing.T) {
	base := time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC)
	step := 10 * time.Minute
	r := func(i int, az float64) ephemeris.Reading {
		return ephemeris.Reading{Local: base.Add(time.Duration(i) * step), Horizontal: frames.Horizontal{Azimuth: az}}
	}

	segs := segments([]ephemeris.Reading{r(0, 350), r(1, 355), r(2, 2), r(3, 8), r(7, 20)}, step)
	if len(segs) != 3 {
		t.Fatalf("segments = %d, want 3", len(segs))
	}
	if len(segs[0]) != 2 || len(segs[1]) != 2 || len(segs[2]) != 1 {
		t.Errorf("segment sizes = %d %d %d", len(segs[0]), len(segs[1]), len(segs[2]))
	}
}

func TestDayStroke(t *testing.T) {
	if got := dayStroke(0, 1); got != "#4080ff" {
		t.Errorf("single day stroke = %s", got)
	}
	if got := dayStroke(1, 2); got != "#ff9933" {
		t.Errorf("last day stroke = %s", got)
	}
}
