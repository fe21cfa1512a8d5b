package solver

import (
	"context"
	"time"

	"svw.info/gridsolve/internal/domain"
	"svw.info/gridsolve/internal/grid"
	"svw.info/gridsolve/internal/ports"
)

// PropagationSolver drives the constraint-grid engine: candidate
// propagation to a fixed point, then MRV backtracking search.
type PropagationSolver struct{}

func NewPropagationSolver() *PropagationSolver { return &PropagationSolver{} }

func (s *PropagationSolver) Solve(ctx context.Context, b *domain.Board) (*domain.Board, ports.Stats, error) {
	start := time.Now()
	g, err := grid.FromBoard(b)
	if err != nil {
		return nil, ports.Stats{}, err
	}
	out, err := g.Solve(ctx)
	st := ports.Stats{Nodes: g.Nodes(), Duration: time.Since(start)}
	if err != nil {
		return nil, st, err
	}
	out.Fixed = b.Fixed
	return out, st, nil
}

// Unique counts solutions up to 2 and reports whether exactly one exists.
func (s *PropagationSolver) Unique(ctx context.Context, b *domain.Board) (bool, ports.Stats, error) {
	start := time.Now()
	g, err := grid.FromBoard(b)
	if err != nil {
		return false, ports.Stats{}, err
	}
	n, err := g.CountSolutions(ctx, 2)
	st := ports.Stats{Nodes: g.Nodes(), Duration: time.Since(start)}
	if err != nil {
		return false, st, err
	}
	return n == 1, st, nil
}
