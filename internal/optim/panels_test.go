package optim

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"github.com/san-kum/heliosim/internal/dynamo"
)

// a constant 1000 W load
var testEconomics = Economics{
	PanelPrice:           0.5,
	BuyPrice:             0.20,
	SellPrice:            0.01,
	LifetimeYears:        25,
	AnnualConsumptionKWh: 8760,
}

var testProfile = []float64{400, 400, 0, 0}

func TestEvaluate(t *testing.T) {
	g := NewWithT(t)

	o, err := Evaluate(testProfile, time.Hour, 3, testEconomics)
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(o.SelfConsumedKWh).To(BeNumerically("~", 2, 1e-12))
	g.Expect(o.ExportedKWh).To(BeNumerically("~", 0.4, 1e-12))
	g.Expect(o.ConsumptionKWh).To(BeNumerically("~", 4, 1e-12))
	g.Expect(o.AnnualCashFlow).To(BeNumerically("~", 0.404, 1e-12))
	g.Expect(o.Investment).To(Equal(1.5))
	g.Expect(o.NetBenefit).To(BeNumerically("~", 0.404*25-1.5, 1e-12))
	g.Expect(o.SelfSufficiency).To(BeNumerically("~", 50, 1e-9))
}

func TestEvaluateTenMinuteProfile(t *testing.T) {
	g := NewWithT(t)
	econ := DefaultEconomics()

	// six ten-minute samples of 400 W is 0.4 kWh per panel
	profile := []float64{400, 400, 400, 400, 400, 400}
	o, err := Evaluate(profile, 10*time.Minute, 1, econ)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(o.SelfConsumedKWh + o.ExportedKWh).To(BeNumerically("~", 0.4, 1e-12))
	g.Expect(o.ConsumptionKWh).To(BeNumerically("~", econ.LoadW()/1000, 1e-12))
}

func TestOptimizePanels(t *testing.T) {
	g := NewWithT(t)

	best, table, err := OptimizePanels(context.Background(), testProfile, time.Hour, testEconomics, 1, 6)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(table).To(HaveLen(6))
	g.Expect(best.Panels).To(Equal(3))

	for i, o := range table {
		g.Expect(o.Panels).To(Equal(i + 1))
		g.Expect(o.NetBenefit).To(BeNumerically("<=", best.NetBenefit))
	}
}

func TestOptimizePanelsValidation(t *testing.T) {
	_, _, err := OptimizePanels(context.Background(), testProfile, time.Hour, testEconomics, 3, 2)
	if !errors.Is(err, dynamo.ErrConfiguration) {
		t.Errorf("empty range error = %v", err)
	}

	bad := testEconomics
	bad.LifetimeYears = 0
	_, _, err = OptimizePanels(context.Background(), testProfile, time.Hour, bad, 1, 2)
	if !errors.Is(err, dynamo.ErrConfiguration) {
		t.Errorf("bad economics error = %v", err)
	}

	_, _, err = OptimizePanels(context.Background(), nil, time.Hour, testEconomics, 1, 2)
	if !errors.Is(err, dynamo.ErrConfiguration) {
		t.Errorf("empty profile error = %v", err)
	}
}

func TestOptimizePanelsNonFinite(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()

	profile := []float64{math.NaN(), 100}
	_, err := Evaluate(profile, 10*time.Minute, 1, DefaultEconomics())
	g.Expect(errors.Is(err, dynamo.ErrConfiguration)).To(BeTrue())

	g.Expect(func() {
		_, _, err = OptimizePanels(ctx, profile, 10*time.Minute, DefaultEconomics(), 1, 3)
	}).NotTo(Panic())
	g.Expect(errors.Is(err, dynamo.ErrConfiguration)).To(BeTrue())

	// every count scores -Inf, so no node beats the initial best
	econ := testEconomics
	econ.PanelPrice = math.Inf(1)
	g.Expect(func() {
		_, _, err = OptimizePanels(ctx, testProfile, time.Hour, econ, 1, 3)
	}).NotTo(Panic())
	g.Expect(errors.Is(err, dynamo.ErrConfiguration)).To(BeTrue())
}

func TestSensitivity(t *testing.T) {
	g := NewWithT(t)

	points, err := Sensitivity(context.Background(), testProfile, time.Hour, testEconomics,
		[]float64{0.5, 1000}, []float64{0.20}, 6)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(points).To(HaveLen(2))

	g.Expect(points[0].Value).To(Equal(3.0))
	// at a prohibitive price the smallest array loses least
	g.Expect(points[1].Value).To(Equal(1.0))
}

func TestLoad(t *testing.T) {
	if got := DefaultEconomics().LoadW(); math.Abs(got-3500000.0/8760) > 1e-9 {
		t.Errorf("LoadW = %v", got)
	}
}
