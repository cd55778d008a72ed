package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/heliosim/internal/export"
	"github.com/san-kum/heliosim/internal/sim"
	"github.com/san-kum/heliosim/internal/viz"
)

type runFlags struct {
	scheme      string
	termination string
	days        float64
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.termination, "termination", "", "revolution or days")
	cmd.Flags().Float64Var(&f.days, "days", 0, "run length for the days termination")
}

// apply overrides the loaded configuration with the flags that were set.
func (f *runFlags) apply(cmd *cobra.Command) {
	if cmd.Flags().Changed("scheme") {
		current.cfg.Run.Scheme = f.scheme
	}
	if cmd.Flags().Changed("termination") {
		current.cfg.Run.Termination = f.termination
	}
	if cmd.Flags().Changed("days") {
		current.cfg.Run.Days = f.days
		if !cmd.Flags().Changed("termination") {
			current.cfg.Run.Termination = "days"
		}
	}
}

func newOrbitCmd() *cobra.Command {
	var (
		flags runFlags
		save  bool
		plot  bool
	)
	cmd := &cobra.Command{
		Use:   "orbit",
		Short: "integrate the orbit with one scheme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(cmd)
			exp, err := current.experiment()
			if err != nil {
				return err
			}

			fmt.Printf("integrating %s (%s)...\n", current.cfg.Run.Scheme, exp.Termination())
			start := time.Now()
			res, err := exp.Run(cmd.Context())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Printf("completed in %v\n", elapsed)
			printSummary([]*sim.Result{res})
			if plot {
				plotEnergy(res)
			}

			if save {
				st, err := current.store()
				if err != nil {
					return err
				}
				runID, err := st.Save(exp.Termination().String(), res)
				if err != nil {
					return err
				}
				fmt.Printf("run id: %s\n", runID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.scheme, "scheme", "", "explicit-euler, semi-implicit-euler or rk4")
	flags.register(cmd)
	cmd.Flags().BoolVar(&save, "save", true, "save the run to the data directory")
	cmd.Flags().BoolVar(&plot, "plot", false, "plot the energy error")
	return cmd
}

func newCompareCmd() *cobra.Command {
	var (
		flags   runFlags
		svgPath string
		plot    bool
	)
	cmd := &cobra.Command{
		Use:   "compare [scheme...]",
		Short: "run schemes side by side from the same initial state",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(cmd)
			exp, err := current.experiment()
			if err != nil {
				return err
			}
			results, err := exp.Compare(cmd.Context(), args)
			if err != nil {
				return err
			}

			printSummary(results)
			if plot {
				series := make([][]float64, len(results))
				for i, r := range results {
					series[i] = logErrors(r.EnergyErrors())
				}
				fmt.Println(asciigraph.PlotMany(series,
					asciigraph.Height(12),
					asciigraph.Width(80),
					asciigraph.SeriesColors(asciigraph.Red, asciigraph.Yellow, asciigraph.Green),
					asciigraph.Caption("log10 relative energy error"),
				))
			}
			if svgPath != "" {
				if err := os.WriteFile(svgPath, []byte(export.OrbitSVG(results, 800, 800)), 0644); err != nil {
					return err
				}
				fmt.Printf("wrote %s\n", svgPath)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&svgPath, "svg", "", "write the orbits as SVG")
	cmd.Flags().BoolVar(&plot, "plot", true, "plot the energy errors")
	return cmd
}

func newLiveCmd() *cobra.Command {
	var stepsPerFrame int
	cmd := &cobra.Command{
		Use:   "live",
		Short: "watch the three schemes integrate in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := current.cfg.Constants()
			if err != nil {
				return err
			}
			m, err := viz.NewLiveModel(c, current.cfg.InitialState(), stepsPerFrame)
			if err != nil {
				return err
			}
			return viz.Run(m)
		},
	}
	cmd.Flags().IntVar(&stepsPerFrame, "steps-per-frame", 2, "integration steps per frame")
	return cmd
}

func printSummary(results []*sim.Result) {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			viz.SchemeStyle(r.Scheme).Render(r.Scheme.String()),
			fmt.Sprintf("%d", r.StepsTaken),
			fmt.Sprintf("%.1f", r.Days()),
			fmt.Sprintf("%.3e", r.MaxEnergyError),
			fmt.Sprintf("%.6f", r.Eccentricity),
			fmt.Sprintf("%.6f", r.Constants.RadiusAU(r.FinalState.R)),
		})
	}
	fmt.Print(viz.Table([]string{"SCHEME", "STEPS", "DAYS", "MAX dE/E0", "ECC", "FINAL r (AU)"}, rows))
}

func plotEnergy(r *sim.Result) {
	fmt.Println(asciigraph.Plot(logErrors(r.EnergyErrors()),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(r.Scheme.Label()+": log10 relative energy error"),
	))
}

// logErrors maps errors onto a log scale; the first sample is exactly zero.
func logErrors(errs []float64) []float64 {
	out := make([]float64, len(errs))
	for i, e := range errs {
		out[i] = math.Log10(e + 1e-16)
	}
	return out
}
