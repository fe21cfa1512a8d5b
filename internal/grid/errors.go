package grid

import "errors"

var (
	// ErrInvalidPuzzle indicates structurally bad input: wrong shape,
	// values outside the alphabet, or duplicate givens inside a group.
	// Detected before any propagation work.
	ErrInvalidPuzzle = errors.New("grid: invalid puzzle")
	// ErrUnsatisfiable is the terminal result for a well-formed puzzle
	// with no valid completion. Not a defect.
	ErrUnsatisfiable = errors.New("grid: unsatisfiable")

	// errContradiction marks a dead branch during propagation or search.
	// It never escapes the solve call; the root converts exhaustion into
	// ErrUnsatisfiable.
	errContradiction = errors.New("grid: contradiction")
)
