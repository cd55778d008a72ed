// Package automation runs scripted batches of orbit integrations described
// in YAML.
package automation

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/heliosim/internal/config"
	"github.com/san-kum/heliosim/internal/dynamo"
	"github.com/san-kum/heliosim/internal/experiment"
	"github.com/san-kum/heliosim/internal/logging"
	"github.com/san-kum/heliosim/internal/sim"
	"github.com/san-kum/heliosim/internal/storage"
)

// Scenario is a named list of runs applied on top of a base configuration.
type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Runs        []ScenarioRun `yaml:"runs"`
}

// ScenarioRun overrides the base configuration for one run. Zero values
// keep the base setting.
type ScenarioRun struct {
	Name        string  `yaml:"name"`
	Preset      string  `yaml:"preset"`
	Scheme      string  `yaml:"scheme"`
	Termination string  `yaml:"termination"`
	Days        float64 `yaml:"days"`
	StepSeconds float64 `yaml:"step_seconds"`
	Save        bool    `yaml:"save"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if len(scenario.Runs) == 0 {
		return nil, dynamo.Configuration("scenario %s has no runs", path)
	}
	return &scenario, nil
}

// Runner carries what every scenario run shares.
type Runner struct {
	Base    *config.Config
	Store   *storage.Store // nil disables saving
	Log     logging.Logger
	Options []experiment.Option
}

// Outcome is one executed scenario run.
type Outcome struct {
	Name   string
	Result *sim.Result
	RunID  string
}

// configFor resolves the configuration of one run.
func (r *Runner) configFor(run ScenarioRun) (*config.Config, error) {
	var cfg config.Config
	switch {
	case run.Preset != "":
		p := config.GetPreset(run.Preset)
		if p == nil {
			return nil, dynamo.Configuration("unknown preset %q", run.Preset)
		}
		cfg = *p
	case r.Base != nil:
		cfg = *r.Base
	default:
		cfg = *config.DefaultConfig()
	}

	if run.Scheme != "" {
		cfg.Run.Scheme = run.Scheme
	}
	if run.Termination != "" {
		cfg.Run.Termination = run.Termination
	}
	if run.Days > 0 {
		cfg.Run.Days = run.Days
	}
	if run.StepSeconds > 0 {
		cfg.Physics.StepSeconds = run.StepSeconds
	}
	return &cfg, nil
}

func (r *Runner) logger() logging.Logger {
	if r.Log == nil {
		return logging.Noop()
	}
	return r.Log
}

// RunScenario executes the runs in order. Results gathered before a failing
// run are returned with the error.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]Outcome, error) {
	log := r.logger().With(logging.String("scenario", scenario.Name))
	outcomes := make([]Outcome, 0, len(scenario.Runs))

	for i, run := range scenario.Runs {
		name := run.Name
		if name == "" {
			name = fmt.Sprintf("run-%d", i+1)
		}
		cfg, err := r.configFor(run)
		if err != nil {
			return outcomes, fmt.Errorf("%s: %w", name, err)
		}
		exp, err := experiment.New(cfg, append([]experiment.Option{experiment.WithLogger(log)}, r.Options...)...)
		if err != nil {
			return outcomes, fmt.Errorf("%s: %w", name, err)
		}

		log.Info(ctx, "scenario run",
			logging.Int("index", i+1),
			logging.Int("of", len(scenario.Runs)),
			logging.String("name", name),
			logging.String("scheme", cfg.Run.Scheme),
		)
		res, err := exp.Run(ctx)
		if err != nil {
			return outcomes, fmt.Errorf("%s: %w", name, err)
		}

		out := Outcome{Name: name, Result: res}
		if run.Save && r.Store != nil {
			if out.RunID, err = r.Store.Save(exp.Termination().String(), res); err != nil {
				return outcomes, fmt.Errorf("%s save: %w", name, err)
			}
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

// StepSweep integrates one scheme at several step sizes.
type StepSweep struct {
	Scheme   string
	MinStep  float64 // seconds
	MaxStep  float64
	NumSteps int
	Days     float64
}

type StepSweepResult struct {
	StepSeconds    float64
	Steps          int
	MaxEnergyError float64
	Eccentricity   float64
	Err            error
}

// RunStepSweep records the energy error of each step size. A run that
// fails is reported in its result instead of aborting the sweep.
func (r *Runner) RunStepSweep(ctx context.Context, sweep StepSweep) ([]StepSweepResult, error) {
	if sweep.NumSteps < 2 || !(sweep.MinStep > 0) || sweep.MaxStep < sweep.MinStep {
		return nil, dynamo.Configuration("step sweep needs at least two steps over a positive range")
	}
	days := sweep.Days
	if days <= 0 {
		days = config.DefaultDays
	}

	inc := (sweep.MaxStep - sweep.MinStep) / float64(sweep.NumSteps-1)
	results := make([]StepSweepResult, 0, sweep.NumSteps)
	for i := range sweep.NumSteps {
		step := sweep.MinStep + float64(i)*inc
		cfg, err := r.configFor(ScenarioRun{Scheme: sweep.Scheme, Termination: "days", Days: days, StepSeconds: step})
		if err != nil {
			return nil, err
		}
		exp, err := experiment.New(cfg, r.Options...)
		if err != nil {
			return nil, err
		}
		res, err := exp.Run(ctx)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		out := StepSweepResult{StepSeconds: step, Err: err}
		if err == nil {
			out.Steps = res.StepsTaken
			out.MaxEnergyError = res.MaxEnergyError
			out.Eccentricity = res.Eccentricity
		}
		results = append(results, out)
		r.logger().Debug(ctx, "step sweep",
			logging.Int("index", i+1),
			logging.Float64("step_seconds", step),
		)
	}
	return results, nil
}

// MonteCarlo perturbs the initial radial state and counts orbits that stay
// bounded.
type MonteCarlo struct {
	Scheme       string
	Perturbation float64 // absolute, applied to r and v
	Trials       int
	Days         float64
	Seed         uint64
}

type MonteCarloResult struct {
	Trial   int
	Initial dynamo.State
	Final   dynamo.State
	Stable  bool
}

func (r *Runner) RunMonteCarlo(ctx context.Context, mc MonteCarlo) ([]MonteCarloResult, error) {
	if mc.Trials <= 0 {
		return nil, dynamo.Configuration("monte carlo needs at least one trial")
	}
	rng := rand.New(rand.NewPCG(mc.Seed, mc.Seed^0x9e3779b97f4a7c15))

	results := make([]MonteCarloResult, 0, mc.Trials)
	for trial := range mc.Trials {
		cfg, err := r.configFor(ScenarioRun{Scheme: mc.Scheme, Termination: "days", Days: mc.Days})
		if err != nil {
			return nil, err
		}
		cfg.Initial.R += (rng.Float64()*2 - 1) * mc.Perturbation
		cfg.Initial.V += (rng.Float64()*2 - 1) * mc.Perturbation
		x0 := cfg.InitialState()

		out := MonteCarloResult{Trial: trial, Initial: x0}
		exp, err := experiment.New(cfg, r.Options...)
		if err != nil {
			// perturbed out of the domain
			results = append(results, out)
			continue
		}
		res, err := exp.Run(ctx)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err == nil {
			out.Final = res.FinalState
			out.Stable = res.Metrics["stability"] == 1
		}
		results = append(results, out)
	}
	return results, nil
}

func MonteCarloStats(results []MonteCarloResult) (stable, unstable int) {
	for _, r := range results {
		if r.Stable {
			stable++
		} else {
			unstable++
		}
	}
	return stable, unstable
}
