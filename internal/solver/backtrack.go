package solver

import (
	"svw.info/gridsolve/internal/domain"
	"svw.info/gridsolve/internal/grid"
)

// BacktrackingSolver is a straightforward recursive solver. It performs no
// candidate bookkeeping; admissibility is rechecked per placement.
type BacktrackingSolver struct{}

func NewBacktrackingSolver() *BacktrackingSolver { return &BacktrackingSolver{} }

// --- helpers used by Solve/Unique (in other files) ---

func isValid(b *domain.Board, r, c int, v uint8) bool {
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

func findEmpty(b *domain.Board) (int, int, bool) {
	size := b.Geometry.Size()
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if b.At(r, c) == 0 {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

// checkInput applies the same fail-fast validation as the grid engine so
// all solvers agree on what a malformed board is.
func checkInput(b *domain.Board) error {
	_, err := grid.FromBoard(b)
	return err
}
