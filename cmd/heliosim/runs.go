package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/heliosim/internal/automation"
	"github.com/san-kum/heliosim/internal/config"
	"github.com/san-kum/heliosim/internal/experiment"
	"github.com/san-kum/heliosim/internal/export"
	"github.com/san-kum/heliosim/internal/integrators"
	"github.com/san-kum/heliosim/internal/sim"
	"github.com/san-kum/heliosim/internal/viz"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := current.store()
			if err != nil {
				return err
			}
			runs, err := st.List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSCHEME\tTIME\tTERMINATION\tDAYS\tSTEPS\tMAX dE/E0\tECC")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1f\t%d\t%.3e\t%.6f\n",
					run.ID,
					run.Scheme,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Termination,
					run.Days,
					run.Steps,
					run.MaxEnergyError,
					run.Eccentricity,
				)
			}
			return w.Flush()
		},
	}
}

func newPlotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot radius and energy error of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := loadResult(args[0])
			if err != nil {
				return err
			}
			if res.Len() < 2 {
				return fmt.Errorf("run %s has too few samples to plot", args[0])
			}

			radii := make([]float64, res.Len())
			for i, s := range res.Samples {
				radii[i] = res.Constants.RadiusAU(s.State.R)
			}
			fmt.Println(asciigraph.Plot(radii,
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("%s: r (AU)", res.Scheme)),
			))
			fmt.Println()
			plotEnergy(res)
			return nil
		},
	}
}

func newExportJSONCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a saved run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := current.store()
			if err != nil {
				return err
			}
			return st.ExportRun(args[0], out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	return cmd
}

func newSVGCmd() *cobra.Command {
	var (
		out    string
		width  int
		height int
	)
	cmd := &cobra.Command{
		Use:   "svg [run_id...]",
		Short: "draw saved orbits as SVG",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]*sim.Result, 0, len(args))
			for _, id := range args {
				res, err := loadResult(id)
				if err != nil {
					return err
				}
				results = append(results, res)
			}
			if err := os.WriteFile(out, []byte(export.OrbitSVG(results, width, height)), 0644); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "orbit.svg", "output file")
	cmd.Flags().IntVar(&width, "width", 800, "image width")
	cmd.Flags().IntVar(&height, "height", 800, "image height")
	return cmd
}

// loadResult rebuilds enough of a result from disk to plot it.
func loadResult(runID string) (*sim.Result, error) {
	st, err := current.store()
	if err != nil {
		return nil, err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return nil, err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return nil, err
	}
	c, err := current.cfg.Constants()
	if err != nil {
		return nil, err
	}
	c.H, c.K, c.L = meta.H, meta.K, meta.L
	res := &sim.Result{
		Scheme:         integrators.Scheme(meta.Scheme),
		Constants:      c,
		Samples:        samples,
		Eccentricity:   meta.Eccentricity,
		InitialEnergy:  meta.InitialEnergy,
		MaxEnergyError: meta.MaxEnergyError,
		StepsTaken:     meta.Steps,
		Metrics:        meta.Metrics,
	}
	if n := len(samples); n > 0 {
		res.FinalState = samples[n-1].State
		res.FinalTime = samples[n-1].Time
	}
	return res, nil
}

func newPresetsCmd() *cobra.Command {
	var dump bool
	cmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets or show one as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, name := range config.ListPresets() {
					fmt.Println(name)
				}
				return nil
			}
			cfg := config.GetPreset(args[0])
			if cfg == nil {
				return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
			}
			if !dump {
				fmt.Printf("%s: %s, %s, observer %.6f %.6f\n", args[0], cfg.Run.Scheme, cfg.Run.Termination, cfg.Site.Latitude, cfg.Site.Longitude)
				return nil
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&dump, "dump", false, "print the full preset as yaml")
	return cmd
}

func newScenarioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "batch runs",
	}
	cmd.AddCommand(newScenarioRunCmd(), newStepSweepCmd(), newMonteCarloCmd())
	return cmd
}

func runner(save bool) (*automation.Runner, error) {
	r := &automation.Runner{
		Base:    current.cfg,
		Log:     current.log,
		Options: []experiment.Option{experiment.WithCollector(current.collector)},
	}
	if save {
		st, err := current.store()
		if err != nil {
			return nil, err
		}
		r.Store = st
	}
	return r, nil
}

func newScenarioRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [file]",
		Short: "execute a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}
			r, err := runner(true)
			if err != nil {
				return err
			}
			outcomes, runErr := r.RunScenario(cmd.Context(), sc)

			rows := make([][]string, 0, len(outcomes))
			for _, o := range outcomes {
				rows = append(rows, []string{
					o.Name,
					o.Result.Scheme.String(),
					fmt.Sprintf("%d", o.Result.StepsTaken),
					fmt.Sprintf("%.3e", o.Result.MaxEnergyError),
					o.RunID,
				})
			}
			if len(rows) > 0 {
				fmt.Print(viz.Table([]string{"RUN", "SCHEME", "STEPS", "MAX dE/E0", "RUN ID"}, rows))
			}
			return runErr
		},
	}
}

func newStepSweepCmd() *cobra.Command {
	sweep := automation.StepSweep{Scheme: "rk4", MinStep: 3600, MaxStep: 10 * 86400, NumSteps: 8, Days: config.DefaultDays}
	cmd := &cobra.Command{
		Use:   "step-sweep",
		Short: "energy error of one scheme across step sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := runner(false)
			if err != nil {
				return err
			}
			results, err := r.RunStepSweep(cmd.Context(), sweep)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(results))
			for _, res := range results {
				row := []string{fmt.Sprintf("%.0f", res.StepSeconds)}
				if res.Err != nil {
					row = append(row, "-", "-", res.Err.Error())
				} else {
					row = append(row, fmt.Sprintf("%d", res.Steps), fmt.Sprintf("%.3e", res.MaxEnergyError), fmt.Sprintf("%.6f", res.Eccentricity))
				}
				rows = append(rows, row)
			}
			fmt.Print(viz.Table([]string{"STEP (s)", "STEPS", "MAX dE/E0", "ECC"}, rows))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&sweep.Scheme, "scheme", sweep.Scheme, "scheme to sweep")
	f.Float64Var(&sweep.MinStep, "min-step", sweep.MinStep, "smallest step, seconds")
	f.Float64Var(&sweep.MaxStep, "max-step", sweep.MaxStep, "largest step, seconds")
	f.IntVar(&sweep.NumSteps, "n", sweep.NumSteps, "number of step sizes")
	f.Float64Var(&sweep.Days, "days", sweep.Days, "run length in days")
	return cmd
}

func newMonteCarloCmd() *cobra.Command {
	mc := automation.MonteCarlo{Scheme: "rk4", Perturbation: 0.05, Trials: 20, Days: config.DefaultDays, Seed: 1}
	cmd := &cobra.Command{
		Use:   "monte-carlo",
		Short: "count bounded orbits under perturbed initial states",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := runner(false)
			if err != nil {
				return err
			}
			results, err := r.RunMonteCarlo(cmd.Context(), mc)
			if err != nil {
				return err
			}
			stable, unstable := automation.MonteCarloStats(results)
			fmt.Printf("%d trials: %d stable, %d unstable\n", len(results), stable, unstable)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&mc.Scheme, "scheme", mc.Scheme, "scheme to run")
	f.Float64Var(&mc.Perturbation, "perturbation", mc.Perturbation, "absolute perturbation of r and v")
	f.IntVar(&mc.Trials, "trials", mc.Trials, "number of trials")
	f.Float64Var(&mc.Days, "days", mc.Days, "run length in days")
	f.Uint64Var(&mc.Seed, "seed", mc.Seed, "random seed")
	return cmd
}
