package generator

import (
	"context"
	"math/rand"
	"time"

	"svw.info/gridsolve/internal/domain"
	"svw.info/gridsolve/internal/ports"
)

// targetGivens returns the clue budget for a difficulty as a share of the
// cell count. For the classic 9x9 this lands on 40/34/28/24.
func targetGivens(geo domain.Geometry, d domain.Difficulty) int {
	cells := geo.CellCount()
	switch d {
	case domain.Easy:
		return cells * 50 / 100
	case domain.Medium:
		return cells * 42 / 100
	case domain.Hard:
		return cells * 35 / 100
	default:
		return cells * 30 / 100 // Expert
	}
}

// Generate creates a puzzle with a unique solution using seed and target difficulty.
func (g *UniqueGenerator) Generate(ctx context.Context, geo domain.Geometry, seed int64, diff domain.Difficulty) (*domain.Puzzle, ports.Stats, error) {
	start := time.Now()
	rng := rand.New(rand.NewSource(seed))
	// 1) full random solution
	full := domain.NewBoard(geo)
	if !fillRandom(ctx, rng, full) {
		return nil, ports.Stats{}, context.Canceled
	}
	// 2) carve out clues while preserving uniqueness
	puz := full.Clone()
	fixed := make([]bool, geo.CellCount())
	for i := range fixed {
		fixed[i] = true
	}
	positions := rng.Perm(geo.CellCount())

	target := targetGivens(geo, diff)
	deadline := start.Add(900 * time.Millisecond)
	nodes := 0

	for _, pos := range positions {
		if ctx.Err() != nil || time.Now().After(deadline) {
			break
		}
		if puz.Filled() <= target {
			break
		}
		if puz.Values[pos] == 0 {
			continue
		}
		old := puz.Values[pos]
		puz.Values[pos] = 0
		fixed[pos] = false
		unique, st, err := g.Solver.Unique(ctx, puz)
		nodes += st.Nodes
		if err != nil {
			// An oracle error says nothing about uniqueness; keep the
			// clue and stop carving.
			puz.Values[pos] = old
			fixed[pos] = true
			break
		}
		if !unique {
			// revert
			puz.Values[pos] = old
			fixed[pos] = true
		}
	}

	puz.Fixed = fixed
	p := &domain.Puzzle{
		Seed:       seed,
		Difficulty: diff,
		Board:      *puz,
		CreatedAt:  time.Now().UnixNano(),
	}
	return p, ports.Stats{Nodes: nodes, Duration: time.Since(start)}, nil
}

// fillRandom solves an empty grid into a full valid solution by trying
// values in random order per cell. Each call shuffles its own order; the
// slice must not be shared across recursion levels.
func fillRandom(ctx context.Context, rng *rand.Rand, b *domain.Board) bool {
	size := b.Geometry.Size()
	var dfs func(r, c int) bool
	dfs = func(r, c int) bool {
		if ctx.Err() != nil {
			return false
		}
		if r == size {
			return true
		}
		nr, nc := r, c+1
		if nc == size {
			nr, nc = r+1, 0
		}
		for _, k := range rng.Perm(size) {
			v := uint8(k + 1)
			if allowed(b, r, c, v) {
				b.Set(r, c, v)
				if dfs(nr, nc) {
					return true
				}
				b.Set(r, c, 0)
			}
		}
		return false
	}
	return dfs(0, 0)
}

// allowed mirrors row/col/box checks locally for the generator.
func allowed(b *domain.Board, r, c int, v uint8) bool {
	size := b.Geometry.Size()
	for i := 0; i < size; i++ {
		if b.At(r, i) == v || b.At(i, c) == v {
			return false
		}
	}
	br := (r / b.Geometry.BoxRows) * b.Geometry.BoxRows
	bc := (c / b.Geometry.BoxCols) * b.Geometry.BoxCols
	for dr := 0; dr < b.Geometry.BoxRows; dr++ {
		for dc := 0; dc < b.Geometry.BoxCols; dc++ {
			if b.At(br+dr, bc+dc) == v {
				return false
			}
		}
	}
	return true
}
