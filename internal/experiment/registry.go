package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/heliosim/internal/dynamo"
	"github.com/san-kum/heliosim/internal/integrators"
	"github.com/san-kum/heliosim/internal/metrics"
)

// DefaultStabilityRadius bounds the radius, in periapsis units, that the
// stability metric accepts.
const DefaultStabilityRadius = 10.0

type Registry struct {
	schemes map[string]integrators.Scheme
	metrics map[string]func() dynamo.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		schemes: make(map[string]integrators.Scheme),
		metrics: make(map[string]func() dynamo.Metric),
	}
	for _, s := range integrators.Schemes() {
		r.schemes[s.String()] = s
	}

	r.metrics["stability"] = func() dynamo.Metric { return metrics.NewStability(DefaultStabilityRadius) }
	r.metrics["eccentricity"] = func() dynamo.Metric { return metrics.NewEccentricity() }
	return r
}

// RegisterMetric adds a metric factory. Each run gets a fresh metric.
func (r *Registry) RegisterMetric(name string, fn func() dynamo.Metric) {
	r.metrics[name] = fn
}

// GetScheme resolves a registered name or any alias the integrators accept.
func (r *Registry) GetScheme(name string) (integrators.Scheme, error) {
	if s, ok := r.schemes[name]; ok {
		return s, nil
	}
	s, err := integrators.ParseScheme(name)
	if err != nil {
		return "", err
	}
	if _, ok := r.schemes[s.String()]; !ok {
		return "", fmt.Errorf("%w: %q", dynamo.ErrUnknownScheme, name)
	}
	return s, nil
}

func (r *Registry) GetMetric(name string) (dynamo.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, dynamo.Configuration("unknown metric: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListSchemes() []string {
	return sortedKeys(r.schemes)
}

func (r *Registry) ListMetrics() []string {
	return sortedKeys(r.metrics)
}

// DefaultMetrics returns a fresh instance of every registered metric.
func (r *Registry) DefaultMetrics() []dynamo.Metric {
	out := make([]dynamo.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		out = append(out, r.metrics[name]())
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
