package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/heliosim/internal/dynamo"
)

type Goal int

const (
	Minimize Goal = iota
	Maximize
)

// Point is one evaluated grid node.
type Point struct {
	Params map[string]float64
	Value  float64
}

// Objective scores one parameter assignment.
type Objective func(ctx context.Context, params map[string]float64) (float64, error)

// GridSearch evaluates an objective over the Cartesian product of named
// parameter ranges.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) == 0 || len(params) != len(ranges) {
		return nil, dynamo.Configuration("grid needs one range per parameter, got %d names and %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, dynamo.Configuration("parameter %q has an empty range", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Size is the number of grid nodes.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// node decodes a flat index into a parameter assignment, last parameter
// varying fastest.
func (g *GridSearch) node(idx int) map[string]float64 {
	params := make(map[string]float64, len(g.paramNames))
	for d := len(g.paramNames) - 1; d >= 0; d-- {
		r := g.ranges[d]
		params[g.paramNames[d]] = r[idx%len(r)]
		idx /= len(r)
	}
	return params
}

// Evaluate scores every node in parallel. Points are returned in grid order.
// The first objective error aborts the search.
func (g *GridSearch) Evaluate(ctx context.Context, objective Objective) ([]Point, error) {
	n := g.Size()
	points := make([]Point, n)
	errs := make([]error, n)

	dynamo.ParallelFor(n, 1, func(start, end int) {
		for i := start; i < end; i++ {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				continue
			}
			params := g.node(i)
			v, err := objective(ctx, params)
			points[i] = Point{Params: params, Value: v}
			errs[i] = err
		}
	})

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("grid node %v: %w", g.node(i), err)
		}
	}
	return points, nil
}

// Search evaluates the grid and returns the best node and all points.
// Ties keep the earliest node in grid order.
func (g *GridSearch) Search(ctx context.Context, objective Objective, goal Goal) (Point, []Point, error) {
	points, err := g.Evaluate(ctx, objective)
	if err != nil {
		return Point{}, nil, err
	}
	return Best(points, goal), points, nil
}

func Best(points []Point, goal Goal) Point {
	best := Point{Value: math.Inf(1)}
	if goal == Maximize {
		best.Value = math.Inf(-1)
	}
	for _, p := range points {
		if (goal == Minimize && p.Value < best.Value) || (goal == Maximize && p.Value > best.Value) {
			best = p
		}
	}
	return best
}

// Names returns the parameter names in sorted order.
func (p Point) Names() []string {
	names := make([]string, 0, len(p.Params))
	for k := range p.Params {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
