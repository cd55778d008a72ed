package frames_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/heliosim/internal/dynamo"
	"github.com/san-kum/heliosim/internal/frames"
)

var _ = Describe("Timestamp", func() {
	DescribeTable("rejects dates that do not exist",
		func(y, m, d, hh, mm int, ss float64) {
			_, err := frames.NewTimestamp(y, m, d, hh, mm, ss)
			Expect(errors.Is(err, dynamo.ErrInvalidTimestamp)).To(BeTrue())

			var tsErr *dynamo.TimestampError
			Expect(errors.As(err, &tsErr)).To(BeTrue())
		},
		Entry("february 30", 2026, 2, 30, 0, 0, 0.0),
		Entry("february 29 in a common year", 2026, 2, 29, 0, 0, 0.0),
		Entry("month 13", 2026, 13, 1, 0, 0, 0.0),
		Entry("day zero", 2026, 1, 0, 0, 0, 0.0),
		Entry("hour 24", 2026, 1, 1, 24, 0, 0.0),
		Entry("minute 60", 2026, 1, 1, 0, 60, 0.0),
		Entry("second 60", 2026, 1, 1, 0, 0, 60.0),
	)

	It("accepts a leap day", func() {
		ts, err := frames.NewTimestamp(2024, 2, 29, 6, 30, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(ts.UT()).To(Equal(6.5))
	})

	It("converts from a zoned time to UTC", func() {
		zone := time.FixedZone("CEST", 2*3600)
		ts := frames.FromTime(time.Date(2026, 6, 21, 13, 50, 0, 0, zone))
		Expect(ts).To(Equal(frames.Timestamp{Year: 2026, Month: 6, Day: 21, Hour: 11, Minute: 50}))
		Expect(ts.Time()).To(Equal(time.Date(2026, 6, 21, 11, 50, 0, 0, time.UTC)))
	})

	It("parses the supported layouts", func() {
		for _, s := range []string{"2026-06-21T11:50:00Z", "2026-06-21T13:50:00+02:00", "2026-06-21 11:50", "2026-06-21T11:50:00"} {
			ts, err := frames.Parse(s)
			Expect(err).NotTo(HaveOccurred(), s)
			Expect(ts.Hour).To(Equal(11), s)
			Expect(ts.Minute).To(Equal(50), s)
		}

		_, err := frames.Parse("2026-02-30")
		Expect(errors.Is(err, dynamo.ErrInvalidTimestamp)).To(BeTrue())
	})
})
