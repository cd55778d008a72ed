package frames_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/heliosim/internal/frames"
)

func mustTimestamp(y, m, d, hh, mm int, ss float64) frames.Timestamp {
	ts, err := frames.NewTimestamp(y, m, d, hh, mm, ss)
	Expect(err).NotTo(HaveOccurred())
	return ts
}

var _ = Describe("Sidereal time", func() {
	It("computes the Julian day number at 0h", func() {
		Expect(frames.JulianDayNumber(2000, 1, 1)).To(Equal(2451544.5))
		Expect(frames.JulianDayNumber(2026, 1, 3)).To(Equal(2461043.5))
	})

	DescribeTable("matches the polynomial oracle",
		func(ts frames.Timestamp, want float64) {
			Expect(frames.GreenwichSidereal(ts)).To(BeNumerically("~", want, 1e-9))
		},
		Entry("J2000.0 epoch", mustTimestamp(2000, 1, 1, 12, 0, 0), 280.4606183370432),
		Entry("2026 periapsis midnight", mustTimestamp(2026, 1, 3, 0, 0, 0), 102.63214976669224),
		Entry("2026 solstice morning", mustTimestamp(2026, 6, 21, 11, 0, 0), 74.65831053297188),
		Entry("last second of 1999", mustTimestamp(1999, 12, 31, 23, 59, 59), 99.9636165165092),
	)

	It("stays within [0, 360)", func() {
		for h := 0; h < 24; h++ {
			g := frames.GreenwichSidereal(mustTimestamp(2026, 3, 20, h, 0, 0))
			Expect(g).To(BeNumerically(">=", 0))
			Expect(g).To(BeNumerically("<", 360))
		}
	})

	It("adds east longitude for local sidereal time", func() {
		ts := mustTimestamp(2026, 6, 21, 11, 0, 0)
		Expect(frames.LocalSidereal(ts, 2.359517)).To(BeNumerically("~", 74.65831053297188+2.359517, 1e-9))
		Expect(frames.LocalSidereal(ts, -80)).To(BeNumerically("~", 74.65831053297188-80+360, 1e-9))
	})

	It("agrees with the IAU mean sidereal time", func() {
		for year := 2010; year < 2050; year += 3 {
			ts := mustTimestamp(year, 5, 17, 7, 45, 0)
			diff := math.Abs(frames.GreenwichSidereal(ts) - frames.MeeusSidereal(ts))
			diff = math.Min(diff, 360-diff)
			Expect(diff).To(BeNumerically("<", 1e-3), "year %d", year)
		}
	})
})
