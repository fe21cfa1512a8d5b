package solver

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"svw.info/gridsolve/internal/domain"
	"svw.info/gridsolve/internal/grid"
	"svw.info/gridsolve/internal/ports"
)

// ParallelSolver explores the root branch candidates on separate workers.
// Each worker gets an independent deep copy of the grid, so no cell state
// is shared across branches. The first solution wins and cancels the rest.
type ParallelSolver struct {
	workers int
}

func NewParallelSolver(workers int) *ParallelSolver {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &ParallelSolver{workers: workers}
}

func (s *ParallelSolver) Solve(ctx context.Context, b *domain.Board) (*domain.Board, ports.Stats, error) {
	start := time.Now()
	g, err := grid.FromBoard(b)
	if err != nil {
		return nil, ports.Stats{}, err
	}
	if err := g.Propagate(); err != nil {
		return nil, ports.Stats{Nodes: g.Nodes(), Duration: time.Since(start)}, err
	}
	pos, vals, ok := g.Branch()
	if !ok {
		// Propagation alone solved it.
		out := g.Board()
		out.Fixed = b.Fixed
		return out, ports.Stats{Nodes: g.Nodes(), Duration: time.Since(start)}, nil
	}

	branchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		board *domain.Board
		nodes int
		err   error
	}
	results := make(chan result, len(vals))
	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup
	base := g.Nodes()
	for _, v := range vals {
		wg.Add(1)
		go func(v uint8) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			if err := branchCtx.Err(); err != nil {
				results <- result{err: err}
				return
			}
			clone := g.Clone()
			if err := clone.Apply(pos, v); err != nil {
				results <- result{nodes: 1, err: err}
				return
			}
			out, err := clone.Solve(branchCtx)
			results <- result{board: out, nodes: 1 + clone.Nodes() - base, err: err}
		}(v)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	nodes := g.Nodes()
	var solved *domain.Board
	var branchErr error
	for res := range results {
		nodes += res.nodes
		switch {
		case res.err == nil && solved == nil:
			solved = res.board
			cancel()
		case res.err != nil && !errors.Is(res.err, grid.ErrUnsatisfiable):
			branchErr = res.err
		}
	}
	st := ports.Stats{Nodes: nodes, Duration: time.Since(start)}
	if solved != nil {
		solved.Fixed = b.Fixed
		return solved, st, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, st, err
	}
	if branchErr != nil {
		return nil, st, branchErr
	}
	return nil, st, grid.ErrUnsatisfiable
}

// Unique needs an exhaustive count, so it delegates to the sequential
// engine rather than racing branches.
func (s *ParallelSolver) Unique(ctx context.Context, b *domain.Board) (bool, ports.Stats, error) {
	return NewPropagationSolver().Unique(ctx, b)
}
