package solver

import (
	"context"
	"time"

	"svw.info/gridsolve/internal/domain"
	"svw.info/gridsolve/internal/grid"
	"svw.info/gridsolve/internal/ports"
)

func (s *BacktrackingSolver) Solve(ctx context.Context, b *domain.Board) (*domain.Board, ports.Stats, error) {
	start := time.Now()
	if err := checkInput(b); err != nil {
		return nil, ports.Stats{}, err
	}
	work := b.Clone()
	size := uint8(work.Geometry.Size())
	nodes := 0
	var dfs func() bool
	dfs = func() bool {
		if ctx.Err() != nil {
			return false
		}
		r, c, ok := findEmpty(work)
		if !ok {
			return true
		}
		for v := uint8(1); v <= size; v++ {
			nodes++
			if isValid(work, r, c, v) {
				work.Set(r, c, v)
				if dfs() {
					return true
				}
				work.Set(r, c, 0)
			}
		}
		return false
	}
	if !dfs() {
		st := ports.Stats{Nodes: nodes, Duration: time.Since(start)}
		if err := ctx.Err(); err != nil {
			return nil, st, err
		}
		return nil, st, grid.ErrUnsatisfiable
	}
	work.Fixed = b.Fixed
	return work, ports.Stats{Nodes: nodes, Duration: time.Since(start)}, nil
}
