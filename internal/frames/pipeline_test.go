package frames_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/heliosim/internal/dynamo"
	"github.com/san-kum/heliosim/internal/frames"
)

var cardedeu = frames.Observer{Latitude: 41.639852, Longitude: 2.359517}

var _ = Describe("Rotations", func() {
	It("builds orthogonal matrices", func() {
		for _, m := range []interface {
			At(i, j int) float64
		}{frames.RotZ(37), frames.RotX(-12), frames.FrameZ(200), frames.FrameY(48.36)} {
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					dot := 0.0
					for k := 0; k < 3; k++ {
						dot += m.At(i, k) * m.At(j, k)
					}
					want := 0.0
					if i == j {
						want = 1
					}
					Expect(dot).To(BeNumerically("~", want, 1e-15))
				}
			}
		}
	})

	It("uses opposite senses for RotZ and FrameZ", func() {
		v := frames.Apply(frames.FrameZ(30), frames.Apply(frames.RotZ(30), frames.Vec3{X: 1, Y: 2, Z: 3}))
		Expect(v.X).To(BeNumerically("~", 1, 1e-15))
		Expect(v.Y).To(BeNumerically("~", 2, 1e-15))
		Expect(v.Z).To(BeNumerically("~", 3, 1e-15))

		r := frames.Apply(frames.RotZ(90), frames.Vec3{X: 1})
		Expect(r.X).To(BeNumerically("~", 0, 1e-15))
		Expect(r.Y).To(BeNumerically("~", 1, 1e-15))
	})
})

var _ = Describe("Pipeline", func() {
	var pipe *frames.Pipeline

	BeforeEach(func() {
		var err error
		pipe, err = frames.NewPipeline(frames.DefaultParams())
		Expect(err).NotTo(HaveOccurred())
	})

	It("reduces to a closed form when the sidereal angle cancels", func() {
		// -Rz(varpi) p lies on the vernal direction
		varpi := frames.DefaultLongitudeOfPerihelion * math.Pi / 180
		p := frames.Vec3{X: -math.Cos(varpi), Y: math.Sin(varpi)}

		ts := mustTimestamp(2026, 6, 21, 11, 0, 0)
		obs := frames.Observer{Latitude: cardedeu.Latitude, Longitude: -frames.GreenwichSidereal(ts)}

		h, err := pipe.SolarPosition(p, ts, obs)
		Expect(err).NotTo(HaveOccurred())

		lat := obs.Latitude * math.Pi / 180
		re := frames.DefaultParams().EarthRadiusAU
		zc := math.Cos(lat) - re
		wantAlt := math.Asin(zc/math.Hypot(math.Sin(lat), zc)) * 180 / math.Pi

		Expect(h.Azimuth).To(BeNumerically("~", 180, 1e-9))
		Expect(h.Altitude).To(BeNumerically("~", wantAlt, 1e-9))
		Expect(h.Altitude).To(BeNumerically("~", 90-obs.Latitude, 5e-3))
	})

	DescribeTable("reproduces regression outputs",
		func(p frames.Vec3, ts frames.Timestamp, wantAz, wantAlt float64) {
			h, err := frames.SolarPosition(p, ts, cardedeu.Latitude, cardedeu.Longitude)
			Expect(err).NotTo(HaveOccurred())
			Expect(h.Azimuth).To(BeNumerically("~", wantAz, 1e-9))
			Expect(h.Altitude).To(BeNumerically("~", wantAlt, 1e-9))
		},
		Entry("perihelion axis", frames.Vec3{X: 1}, mustTimestamp(2026, 6, 21, 11, 0, 0), 301.45228059382214, -60.62628593675998),
		Entry("quadrature", frames.Vec3{Y: 1}, mustTimestamp(2026, 3, 20, 8, 0, 0), 98.55003095524553, 17.06563954634095),
	)

	It("keeps stage outputs on the unit sphere until the translation", func() {
		p := frames.Vec3{X: 0.6, Y: 0.8}
		sol := pipe.ToVernal(p)
		eq := pipe.ToEquatorial(sol)
		ef := pipe.ToEarthFixed(eq, 123.4)
		Expect(sol.Norm()).To(BeNumerically("~", 1, 1e-15))
		Expect(eq.Norm()).To(BeNumerically("~", 1, 1e-15))
		Expect(ef.Norm()).To(BeNumerically("~", 1, 1e-15))
		Expect(eq.Z).To(BeNumerically("~", -sol.Y*math.Sin(frames.DefaultObliquity*math.Pi/180), 1e-15))
	})

	It("guards a degenerate topocentric vector", func() {
		_, err := pipe.HorizontalOf(frames.Vec3{})
		Expect(errors.Is(err, dynamo.ErrNumericalInstability)).To(BeTrue())

		params := frames.DefaultParams()
		params.EarthRadiusAU = 1
		onSurface, err := frames.NewPipeline(params)
		Expect(err).NotTo(HaveOccurred())

		// on the equator the Sun direction lands on the observer zenith
		varpi := params.LongitudeOfPerihelion * math.Pi / 180
		p := frames.Vec3{X: -math.Cos(varpi), Y: math.Sin(varpi)}
		ts := mustTimestamp(2026, 6, 21, 11, 0, 0)
		obs := frames.Observer{Latitude: 0, Longitude: -frames.GreenwichSidereal(ts)}

		_, err = onSurface.SolarPosition(p, ts, obs)
		Expect(errors.Is(err, dynamo.ErrNumericalInstability)).To(BeTrue())
		var tsErr *dynamo.TimestampError
		Expect(errors.As(err, &tsErr)).To(BeTrue())
	})

	It("rejects non-finite positions and bad observers", func() {
		ts := mustTimestamp(2026, 6, 21, 11, 0, 0)
		_, err := pipe.SolarPosition(frames.Vec3{X: math.NaN()}, ts, cardedeu)
		Expect(errors.Is(err, dynamo.ErrNumericalInstability)).To(BeTrue())

		_, err = pipe.SolarPosition(frames.Vec3{X: 1}, ts, frames.Observer{Latitude: 91})
		Expect(errors.Is(err, dynamo.ErrConfiguration)).To(BeTrue())

		_, err = frames.NewPipeline(frames.Params{EarthRadiusAU: -1})
		Expect(errors.Is(err, dynamo.ErrConfiguration)).To(BeTrue())
	})
})

var _ = Describe("Meeus reference", func() {
	It("puts the solstice Sun near the meridian at Cardedeu", func() {
		h, err := frames.MeeusSolarPosition(mustTimestamp(2026, 6, 21, 11, 50, 0), cardedeu)
		Expect(err).NotTo(HaveOccurred())
		Expect(h.Altitude).To(BeNumerically("~", 90-cardedeu.Latitude+23.44, 0.5))
		Expect(h.Azimuth).To(BeNumerically("~", 180, 5))
	})
})
