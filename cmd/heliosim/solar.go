package main

import (
	"fmt"
	"os"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/heliosim/internal/ephemeris"
	"github.com/san-kum/heliosim/internal/export"
	"github.com/san-kum/heliosim/internal/frames"
	"github.com/san-kum/heliosim/internal/optim"
	"github.com/san-kum/heliosim/internal/viz"
)

func newSiderealCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sidereal [timestamp]",
		Short: "print sidereal time for a UT instant",
		Long:  "Timestamp formats: 2006-01-02, 2006-01-02T15:04, 2006-01-02T15:04:05 or RFC 3339. Defaults to now.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts := frames.FromTime(time.Now().UTC())
			if len(args) == 1 {
				var err error
				if ts, err = frames.Parse(args[0]); err != nil {
					return err
				}
			}
			obs := current.cfg.Observer()
			rows := [][]string{
				{"greenwich", fmt.Sprintf("%.6f", frames.GreenwichSidereal(ts))},
				{"greenwich (meeus)", fmt.Sprintf("%.6f", frames.MeeusSidereal(ts))},
				{fmt.Sprintf("local (%.4f E)", obs.Longitude), fmt.Sprintf("%.6f", frames.LocalSidereal(ts, obs.Longitude))},
			}
			fmt.Println(viz.Title.Render("sidereal time at " + ts.String()))
			fmt.Print(viz.Table([]string{"FRAME", "DEGREES"}, rows))
			return nil
		},
	}
}

func newSunpathCmd() *cobra.Command {
	var (
		dates   []string
		minAlt  float64
		svgPath string
		meeus   bool
	)
	cmd := &cobra.Command{
		Use:   "sunpath",
		Short: "trace the Sun across the local sky on given dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("min-alt") {
				current.cfg.Sweep.MinAltitude = minAlt
			}
			exp, err := current.experiment()
			if err != nil {
				return err
			}
			sw, err := exp.Sweep(cmd.Context())
			if err != nil {
				return err
			}

			obs := sw.Observer()
			days := make([][]ephemeris.Reading, 0, len(dates))
			rows := make([][]string, 0, len(dates))
			for _, d := range dates {
				date, err := time.Parse(time.DateOnly, d)
				if err != nil {
					return fmt.Errorf("date %q: %w", d, err)
				}
				readings, err := sw.DayReadings(date)
				if err != nil {
					return err
				}
				days = append(days, readings)

				top, ok := ephemeris.Culmination(readings)
				if !ok {
					continue
				}
				visible := ephemeris.Visible(readings, 0)
				row := []string{
					d,
					top.Local.Format("15:04"),
					fmt.Sprintf("%+d", top.Offset),
					fmt.Sprintf("%.2f", top.Azimuth),
					fmt.Sprintf("%.2f", top.Altitude),
					(time.Duration(len(visible)) * sw.Interval()).String(),
				}
				if meeus {
					ref, err := frames.MeeusSolarPosition(frames.FromTime(top.UTC), obs)
					if err != nil {
						return err
					}
					row = append(row, fmt.Sprintf("%.2f / %.2f", ref.Azimuth, ref.Altitude))
				}
				rows = append(rows, row)
			}

			headers := []string{"DATE", "CULMINATION", "UTC OFFSET", "AZ", "ALT", "DAYLIGHT"}
			if meeus {
				headers = append(headers, "MEEUS AZ / ALT")
			}
			fmt.Println(viz.Title.Render(fmt.Sprintf("sun path at %.6f, %.6f", obs.Latitude, obs.Longitude)))
			fmt.Print(viz.Table(headers, rows))

			for i, readings := range days {
				alts := make([]float64, 0, len(readings))
				for _, r := range readings {
					alts = append(alts, r.Altitude)
				}
				fmt.Printf("%s %s\n", viz.Label.Render(dates[i]), viz.Sparkline(alts, 72))
			}

			if svgPath != "" {
				svg := export.SunPathSVG(days, 900, 500, current.cfg.Sweep.MinAltitude)
				if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
					return err
				}
				fmt.Printf("wrote %s\n", svgPath)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&dates, "date", []string{"2026-03-20", "2026-06-21", "2026-12-21"}, "local dates to trace")
	cmd.Flags().Float64Var(&minAlt, "min-alt", 0, "lowest altitude drawn in the svg, degrees")
	cmd.Flags().StringVar(&svgPath, "svg", "", "write the sun paths as SVG")
	cmd.Flags().BoolVar(&meeus, "meeus", false, "cross-check culmination against the Meeus solar theory")
	return cmd
}

func newYieldCmd() *cobra.Command {
	var panels int
	cmd := &cobra.Command{
		Use:   "yield",
		Short: "estimate the annual energy of the panel array",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("panels") {
				current.cfg.Panels.Panels = panels
			}
			exp, err := current.experiment()
			if err != nil {
				return err
			}
			sw, days, err := exp.Year(cmd.Context())
			if err != nil {
				return err
			}

			model := current.cfg.Panels
			daily, total := model.Annual(days, sw.Interval())

			var months [12]float64
			for _, d := range daily {
				months[d.Date.Month()-1] += d.EnergyWh / 1000
			}
			rows := make([][]string, 0, 12)
			for m, kwh := range months {
				if kwh == 0 {
					continue
				}
				rows = append(rows, []string{time.Month(m + 1).String(), fmt.Sprintf("%.1f", kwh)})
			}
			fmt.Println(viz.Title.Render(fmt.Sprintf("%d panels, %d days", model.Panels, len(daily))))
			fmt.Print(viz.Table([]string{"MONTH", "kWh"}, rows))

			series := make([]float64, len(daily))
			for i, d := range daily {
				series[i] = d.EnergyWh / 1000
			}
			if len(series) > 1 {
				fmt.Println(asciigraph.Plot(series,
					asciigraph.Height(10),
					asciigraph.Width(80),
					asciigraph.Caption("daily energy (kWh)"),
				))
			}
			fmt.Printf("%s %s kWh\n", viz.Label.Render("annual total:"), viz.Value.Render(fmt.Sprintf("%.1f", total)))
			return nil
		},
	}
	cmd.Flags().IntVar(&panels, "panels", 0, "override the panel count")
	return cmd
}

func newOptimizeCmd() *cobra.Command {
	var (
		sensitivity bool
		panelPrices []float64
		buyPrices   []float64
	)
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "find the panel count with the best lifetime net benefit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := current.experiment()
			if err != nil {
				return err
			}
			sw, days, err := exp.Year(cmd.Context())
			if err != nil {
				return err
			}

			cfg := current.cfg
			profile := cfg.Panels.UnitProfile(days)
			best, table, err := optim.OptimizePanels(cmd.Context(), profile, sw.Interval(), cfg.Economics, cfg.Optimize.MinPanels, cfg.Optimize.MaxPanels)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(table))
			for _, o := range table {
				rows = append(rows, []string{
					fmt.Sprintf("%d", o.Panels),
					fmt.Sprintf("%.1f", o.SelfConsumedKWh),
					fmt.Sprintf("%.1f", o.ExportedKWh),
					fmt.Sprintf("%.2f", o.AnnualCashFlow),
					fmt.Sprintf("%.2f", o.NetBenefit),
					fmt.Sprintf("%.1f%%", o.SelfSufficiency),
				})
			}
			fmt.Print(viz.Table([]string{"PANELS", "SELF kWh", "EXPORT kWh", "CASH/YR", "NET", "SELF-SUFF"}, rows))
			fmt.Printf("%s %s panels, net benefit %.2f over %g years\n",
				viz.Label.Render("best:"),
				viz.Value.Render(fmt.Sprintf("%d", best.Panels)),
				best.NetBenefit, cfg.Economics.LifetimeYears)

			if !sensitivity {
				return nil
			}
			points, err := optim.Sensitivity(cmd.Context(), profile, sw.Interval(), cfg.Economics, panelPrices, buyPrices, cfg.Optimize.MaxPanels)
			if err != nil {
				return err
			}
			srows := make([][]string, 0, len(points))
			for _, p := range points {
				srows = append(srows, []string{
					fmt.Sprintf("%.0f", p.Params["panel_price"]),
					fmt.Sprintf("%.2f", p.Params["buy_price"]),
					fmt.Sprintf("%.0f", p.Value),
				})
			}
			fmt.Println(viz.Title.Render("sensitivity"))
			fmt.Print(viz.Table([]string{"PANEL PRICE", "BUY PRICE", "BEST PANELS"}, srows))
			return nil
		},
	}
	cmd.Flags().BoolVar(&sensitivity, "sensitivity", false, "repeat the search over a price grid")
	cmd.Flags().Float64SliceVar(&panelPrices, "panel-prices", []float64{400, 600, 800}, "panel prices for the sensitivity grid")
	cmd.Flags().Float64SliceVar(&buyPrices, "buy-prices", []float64{0.15, 0.20, 0.30}, "grid prices for the sensitivity grid")
	return cmd
}
