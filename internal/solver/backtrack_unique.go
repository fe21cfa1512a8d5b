package solver

import (
	"context"
	"time"

	"svw.info/gridsolve/internal/domain"
	"svw.info/gridsolve/internal/ports"
)

// Unique counts solutions up to 2 and reports whether exactly one exists.
func (s *BacktrackingSolver) Unique(ctx context.Context, b *domain.Board) (bool, ports.Stats, error) {
	start := time.Now()
	if err := checkInput(b); err != nil {
		return false, ports.Stats{}, err
	}
	work := b.Clone()
	size := uint8(work.Geometry.Size())
	nodes := 0
	count := 0

	var dfs func() bool
	dfs = func() bool {
		if ctx.Err() != nil || count >= 2 {
			return true // stop early
		}
		r, c, ok := findEmpty(work)
		if !ok {
			count++
			return count >= 2
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
	_ = dfs()
	st := ports.Stats{Nodes: nodes, Duration: time.Since(start)}
	if err := ctx.Err(); err != nil {
		return false, st, err
	}
	return count == 1, st, nil
}
