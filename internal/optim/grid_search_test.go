package optim

import (
	"context"
	"errors"
	"testing"
)

func TestGridSearchMinimize(t *testing.T) {
	g, err := NewGridSearch([]string{"x", "y"}, [][]float64{{0, 1, 2, 3}, {0, 1}})
	if err != nil {
		t.Fatalf("NewGridSearch: %v", err)
	}
	if g.Size() != 8 {
		t.Errorf("size = %d, want 8", g.Size())
	}

	best, points, err := g.Search(context.Background(), func(_ context.Context, p map[string]float64) (float64, error) {
		dx, dy := p["x"]-2, p["y"]-1
		return dx*dx + dy*dy, nil
	}, Minimize)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if best.Params["x"] != 2 || best.Params["y"] != 1 || best.Value != 0 {
		t.Errorf("best = %+v, want x=2 y=1 value=0", best)
	}
	if len(points) != 8 {
		t.Fatalf("points = %d, want 8", len(points))
	}
	// last parameter varies fastest
	if points[1].Params["x"] != 0 || points[1].Params["y"] != 1 {
		t.Errorf("points[1] = %v, want x=0 y=1", points[1].Params)
	}
	if names := best.Names(); len(names) != 2 || names[0] != "x" || names[1] != "y" {
		t.Errorf("names = %v", names)
	}
}

func TestGridSearchMaximizeTiesKeepFirst(t *testing.T) {
	g, _ := NewGridSearch([]string{"n"}, [][]float64{{1, 2, 3}})
	best, _, err := g.Search(context.Background(), func(context.Context, map[string]float64) (float64, error) {
		return 7, nil
	}, Maximize)
	if err != nil {
		t.Fatal(err)
	}
	if best.Params["n"] != 1 {
		t.Errorf("tie resolved to n=%v, want 1", best.Params["n"])
	}
}

func TestGridSearchPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	g, _ := NewGridSearch([]string{"n"}, [][]float64{{1, 2, 3}})
	_, _, err := g.Search(context.Background(), func(_ context.Context, p map[string]float64) (float64, error) {
		if p["n"] == 2 {
			return 0, boom
		}
		return p["n"], nil
	}, Maximize)
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want boom", err)
	}
}

func TestNewGridSearchValidation(t *testing.T) {
	if _, err := NewGridSearch(nil, nil); err == nil {
		t.Error("expected error for empty grid")
	}
	if _, err := NewGridSearch([]string{"a"}, [][]float64{{}}); err == nil {
		t.Error("expected error for empty range")
	}
	if _, err := NewGridSearch([]string{"a", "b"}, [][]float64{{1}}); err == nil {
		t.Error("expected error for mismatched ranges")
	}
}
