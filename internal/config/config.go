package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/heliosim/internal/clock"
	"github.com/san-kum/heliosim/internal/dynamo"
	"github.com/san-kum/heliosim/internal/frames"
	"github.com/san-kum/heliosim/internal/integrators"
	"github.com/san-kum/heliosim/internal/logging"
	"github.com/san-kum/heliosim/internal/optim"
	"github.com/san-kum/heliosim/internal/physics"
	"github.com/san-kum/heliosim/internal/sim"
	"github.com/san-kum/heliosim/internal/yield"
)

const (
	DefaultScheme          = "rk4"
	DefaultTermination     = "revolution"
	DefaultDays            = 365.0
	DefaultPeriapsis       = "2026-01-03"
	DefaultSweepStart      = "2026-01-01"
	DefaultSweepDays       = 365
	DefaultIntervalMinutes = 10
	DefaultMinAltitude     = -10.0
	DefaultMaxPanels       = 15

	dateLayout = "2006-01-02"
)

type Config struct {
	Run       RunConfig       `yaml:"run"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Initial   InitialConfig   `yaml:"initial"`
	Site      frames.Observer `yaml:"observer"`
	Frames    frames.Params   `yaml:"frames"`
	Clock     ClockConfig     `yaml:"clock"`
	Sweep     SweepConfig     `yaml:"sweep"`
	Panels    yield.Model     `yaml:"panels"`
	Economics optim.Economics `yaml:"economics"`
	Optimize  OptimizeConfig  `yaml:"optimize"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type RunConfig struct {
	Scheme      string  `yaml:"scheme"`
	Termination string  `yaml:"termination"` // revolution or days
	Days        float64 `yaml:"days"`
	MaxSteps    int     `yaml:"max_steps"`
}

type PhysicsConfig struct {
	GravitationalConstant float64 `yaml:"gravitational_constant"`
	CentralMass           float64 `yaml:"central_mass"`
	PeriapsisDistance     float64 `yaml:"periapsis_distance"`
	PeriapsisVelocity     float64 `yaml:"periapsis_velocity"`
	AstronomicalUnit      float64 `yaml:"astronomical_unit"`
	StepSeconds           float64 `yaml:"step_seconds"`
}

// InitialConfig is the normalized starting state; periapsis is r=1, v=0.
type InitialConfig struct {
	Theta float64 `yaml:"theta"`
	R     float64 `yaml:"r"`
	V     float64 `yaml:"v"`
}

type ClockConfig struct {
	Policy   string `yaml:"policy"` // eu, window or fixed
	Standard int    `yaml:"standard"`
	Summer   int    `yaml:"summer"`
	Start    string `yaml:"start"`
	End      string `yaml:"end"`
}

type SweepConfig struct {
	Periapsis       string  `yaml:"periapsis"`
	Start           string  `yaml:"start"`
	Days            int     `yaml:"days"`
	IntervalMinutes int     `yaml:"interval_minutes"`
	MinAltitude     float64 `yaml:"min_altitude"`
}

type OptimizeConfig struct {
	MinPanels int `yaml:"min_panels"`
	MaxPanels int `yaml:"max_panels"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type TelemetryConfig struct {
	MetricsFile string `yaml:"metrics_file"`
	Tracing     bool   `yaml:"tracing"`
}

// DefaultConfig is the Sun-Earth setup observed from Cardedeu in 2026.
func DefaultConfig() *Config {
	p := physics.EarthParams()
	return &Config{
		Run: RunConfig{
			Scheme:      DefaultScheme,
			Termination: DefaultTermination,
			Days:        DefaultDays,
			MaxSteps:    sim.DefaultConfig().MaxSteps,
		},
		Physics: PhysicsConfig{
			GravitationalConstant: p.GravitationalConstant,
			CentralMass:           p.CentralMass,
			PeriapsisDistance:     p.PeriapsisDistance,
			PeriapsisVelocity:     p.PeriapsisVelocity,
			AstronomicalUnit:      p.AstronomicalUnit,
			StepSeconds:           p.StepSeconds,
		},
		Initial:  InitialConfig{Theta: 0, R: 1, V: 0},
		Site:     frames.Observer{Latitude: 41.639852, Longitude: 2.359517},
		Frames:   frames.DefaultParams(),
		Clock: ClockConfig{
			Policy:   "window",
			Standard: 1,
			Summer:   2,
			Start:    "2026-03-29",
			End:      "2026-10-26",
		},
		Sweep: SweepConfig{
			Periapsis:       DefaultPeriapsis,
			Start:           DefaultSweepStart,
			Days:            DefaultSweepDays,
			IntervalMinutes: DefaultIntervalMinutes,
			MinAltitude:     DefaultMinAltitude,
		},
		Panels:    yield.DefaultModel(),
		Economics: optim.DefaultEconomics(),
		Optimize:  OptimizeConfig{MinPanels: 1, MaxPanels: DefaultMaxPanels},
		Logging:   LoggingConfig{Level: "info", Format: "text"},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(DefaultConfig(), path)
}

// LoadOver reads path on top of a copy of base; keys missing from the file
// keep the base values.
func LoadOver(base *Config, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks every section by building it.
func (c *Config) Validate() error {
	if _, err := c.Scheme(); err != nil {
		return err
	}
	consts, err := c.Constants()
	if err != nil {
		return err
	}
	if _, err := c.Termination(consts); err != nil {
		return err
	}
	if c.Run.MaxSteps <= 0 {
		return dynamo.Configuration("run.max_steps must be positive, got %d", c.Run.MaxSteps)
	}
	if x := c.InitialState(); !x.IsValid() || x.R <= 0 {
		return dynamo.Configuration("initial state %v outside the model domain", x)
	}
	if err := c.Site.Validate(); err != nil {
		return err
	}
	if err := c.Frames.Validate(); err != nil {
		return err
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	if _, err := c.PeriapsisDate(); err != nil {
		return err
	}
	if _, err := c.SweepStart(); err != nil {
		return err
	}
	if c.Sweep.Days <= 0 {
		return dynamo.Configuration("sweep.days must be positive, got %d", c.Sweep.Days)
	}
	if c.Sweep.IntervalMinutes <= 0 || c.Sweep.IntervalMinutes > 24*60 {
		return dynamo.Configuration("sweep.interval_minutes must be in (0, 1440], got %d", c.Sweep.IntervalMinutes)
	}
	if err := c.Panels.Validate(); err != nil {
		return err
	}
	if err := c.Economics.Validate(); err != nil {
		return err
	}
	if c.Optimize.MinPanels < 1 || c.Optimize.MaxPanels < c.Optimize.MinPanels {
		return dynamo.Configuration("optimize range [%d, %d] is empty", c.Optimize.MinPanels, c.Optimize.MaxPanels)
	}
	return nil
}

func (c *Config) Params() physics.Params {
	return physics.Params{
		GravitationalConstant: c.Physics.GravitationalConstant,
		CentralMass:           c.Physics.CentralMass,
		PeriapsisDistance:     c.Physics.PeriapsisDistance,
		PeriapsisVelocity:     c.Physics.PeriapsisVelocity,
		AstronomicalUnit:      c.Physics.AstronomicalUnit,
		StepSeconds:           c.Physics.StepSeconds,
	}
}

func (c *Config) Constants() (physics.Constants, error) {
	return physics.NewConstants(c.Params())
}

func (c *Config) Scheme() (integrators.Scheme, error) {
	return integrators.ParseScheme(c.Run.Scheme)
}

func (c *Config) InitialState() dynamo.State {
	return dynamo.State{Theta: c.Initial.Theta, R: c.Initial.R, V: c.Initial.V}
}

func (c *Config) Termination(consts physics.Constants) (sim.Termination, error) {
	return sim.ParseTermination(c.Run.Termination, consts, c.Run.Days)
}

func (c *Config) Policy() (clock.Policy, error) {
	return clock.ParsePolicy(c.Clock.Policy, c.Clock.Standard, c.Clock.Summer, c.Clock.Start, c.Clock.End)
}

func (c *Config) PeriapsisDate() (time.Time, error) {
	return parseDate("sweep.periapsis", c.Sweep.Periapsis)
}

func (c *Config) SweepStart() (time.Time, error) {
	return parseDate("sweep.start", c.Sweep.Start)
}

func (c *Config) Observer() frames.Observer { return c.Site }

func (c *Config) FrameParams() frames.Params { return c.Frames }

func (c *Config) Interval() time.Duration {
	return time.Duration(c.Sweep.IntervalMinutes) * time.Minute
}

func (c *Config) LoggerConfig() logging.Config {
	return logging.Config{Level: c.Logging.Level, Format: c.Logging.Format}
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, dynamo.Configuration("%s: %q is not a YYYY-MM-DD date", field, s)
	}
	return t, nil
}
