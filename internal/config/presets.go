package config

import (
	"math"
	"sort"

	"github.com/san-kum/heliosim/internal/frames"
)

// Presets adjust the default configuration.
var Presets = map[string]func(*Config){
	"cardedeu": func(*Config) {},
	"greenwich": func(c *Config) {
		c.Site = frames.Observer{Latitude: 51.476852, Longitude: 0}
		c.Clock = ClockConfig{Policy: "eu", Standard: 0}
	},
	// periapsis speed equal to the circular speed, so k = -1
	"circular": func(c *Config) {
		p := c.Physics
		c.Physics.PeriapsisVelocity = math.Sqrt(p.GravitationalConstant * p.CentralMass / p.PeriapsisDistance)
	},
	"stress": func(c *Config) {
		c.Run.Scheme = "explicit-euler"
		c.Run.Termination = "days"
		c.Run.Days = 3650
		c.Physics.StepSeconds = 5 * 86400
	},
}

// GetPreset returns a fresh configuration for name, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
