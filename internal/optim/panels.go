package optim

import (
	"context"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/heliosim/internal/dynamo"
)

// Economics holds the prices and household load of the panel study.
type Economics struct {
	PanelPrice           float64 `yaml:"panel_price" json:"panel_price"`                       // per installed panel
	BuyPrice             float64 `yaml:"buy_price" json:"buy_price"`                           // per kWh drawn from the grid
	SellPrice            float64 `yaml:"sell_price" json:"sell_price"`                         // per kWh exported
	LifetimeYears        float64 `yaml:"lifetime_years" json:"lifetime_years"`
	AnnualConsumptionKWh float64 `yaml:"annual_consumption_kwh" json:"annual_consumption_kwh"` // constant load over the year
}

func DefaultEconomics() Economics {
	return Economics{
		PanelPrice:           600,
		BuyPrice:             0.20,
		SellPrice:            0.05,
		LifetimeYears:        25,
		AnnualConsumptionKWh: 3500,
	}
}

func (e Economics) Validate() error {
	switch {
	case e.PanelPrice < 0 || e.BuyPrice < 0 || e.SellPrice < 0:
		return dynamo.Configuration("prices must be non-negative")
	case !(e.LifetimeYears > 0):
		return dynamo.Configuration("lifetime must be positive, got %g", e.LifetimeYears)
	case !(e.AnnualConsumptionKWh > 0):
		return dynamo.Configuration("annual consumption must be positive, got %g", e.AnnualConsumptionKWh)
	}
	return nil
}

// LoadW is the constant household draw.
func (e Economics) LoadW() float64 {
	return e.AnnualConsumptionKWh * 1000 / (365 * 24)
}

// Outcome is the economic balance of one panel count.
type Outcome struct {
	Panels          int     `json:"panels"`
	SelfConsumedKWh float64 `json:"self_consumed_kwh"`
	ExportedKWh     float64 `json:"exported_kwh"`
	ConsumptionKWh  float64 `json:"consumption_kwh"`
	AnnualCashFlow  float64 `json:"annual_cash_flow"`
	Investment      float64 `json:"investment"`
	NetBenefit      float64 `json:"net_benefit"`
	SelfSufficiency float64 `json:"self_sufficiency_percent"`
}

// Evaluate balances n panels against the constant load. profile is the
// single-panel generation in W sampled every interval.
func Evaluate(profile []float64, interval time.Duration, n int, econ Economics) (Outcome, error) {
	if len(profile) == 0 {
		return Outcome{}, dynamo.Configuration("empty generation profile")
	}
	if interval <= 0 {
		return Outcome{}, dynamo.Configuration("profile interval must be positive")
	}
	if n < 0 {
		return Outcome{}, dynamo.Configuration("panel count must be non-negative, got %d", n)
	}
	for i, p := range profile {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return Outcome{}, dynamo.Configuration("generation profile sample %d is not finite", i)
		}
	}

	load := econ.LoadW()
	used := make([]float64, len(profile))
	surplus := make([]float64, len(profile))
	for i, p := range profile {
		gen := p * float64(n)
		used[i] = math.Min(gen, load)
		surplus[i] = math.Max(gen-load, 0)
	}

	toKWh := interval.Hours() / 1000
	out := Outcome{
		Panels:          n,
		SelfConsumedKWh: floats.Sum(used) * toKWh,
		ExportedKWh:     floats.Sum(surplus) * toKWh,
		ConsumptionKWh:  load * float64(len(profile)) * toKWh,
		Investment:      float64(n) * econ.PanelPrice,
	}
	out.AnnualCashFlow = out.SelfConsumedKWh*econ.BuyPrice + out.ExportedKWh*econ.SellPrice
	out.NetBenefit = out.AnnualCashFlow*econ.LifetimeYears - out.Investment
	out.SelfSufficiency = out.SelfConsumedKWh / out.ConsumptionKWh * 100
	return out, nil
}

// OptimizePanels evaluates every count in [minPanels, maxPanels] and returns
// the one with the largest net benefit plus the full table.
func OptimizePanels(ctx context.Context, profile []float64, interval time.Duration, econ Economics, minPanels, maxPanels int) (Outcome, []Outcome, error) {
	if err := econ.Validate(); err != nil {
		return Outcome{}, nil, err
	}
	if minPanels < 1 || maxPanels < minPanels {
		return Outcome{}, nil, dynamo.Configuration("panel range [%d, %d] is empty", minPanels, maxPanels)
	}

	counts := make([]float64, 0, maxPanels-minPanels+1)
	for n := minPanels; n <= maxPanels; n++ {
		counts = append(counts, float64(n))
	}
	grid, err := NewGridSearch([]string{"panels"}, [][]float64{counts})
	if err != nil {
		return Outcome{}, nil, err
	}

	table := make([]Outcome, len(counts))
	best, _, err := grid.Search(ctx, func(ctx context.Context, params map[string]float64) (float64, error) {
		n := int(params["panels"])
		o, err := Evaluate(profile, interval, n, econ)
		if err != nil {
			return 0, err
		}
		table[n-minPanels] = o
		return o.NetBenefit, nil
	}, Maximize)
	if err != nil {
		return Outcome{}, nil, err
	}
	if best.Params == nil {
		return Outcome{}, nil, dynamo.Configuration("no panel count in [%d, %d] has a finite net benefit", minPanels, maxPanels)
	}
	return table[int(best.Params["panels"])-minPanels], table, nil
}

// Sensitivity finds the best panel count for every combination of panel and
// buy prices.
func Sensitivity(ctx context.Context, profile []float64, interval time.Duration, base Economics, panelPrices, buyPrices []float64, maxPanels int) ([]Point, error) {
	grid, err := NewGridSearch([]string{"panel_price", "buy_price"}, [][]float64{panelPrices, buyPrices})
	if err != nil {
		return nil, err
	}
	return grid.Evaluate(ctx, func(ctx context.Context, params map[string]float64) (float64, error) {
		econ := base
		econ.PanelPrice = params["panel_price"]
		econ.BuyPrice = params["buy_price"]
		best, _, err := OptimizePanels(ctx, profile, interval, econ, 1, maxPanels)
		if err != nil {
			return 0, err
		}
		return float64(best.Panels), nil
	})
}
