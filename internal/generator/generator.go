package generator

import "svw.info/gridsolve/internal/ports"

// UniqueGenerator carves givens out of a full random solution while a
// uniqueness oracle (any ports.Solver) still confirms a single completion.
type UniqueGenerator struct {
	Solver ports.Solver
}

func NewUniqueGenerator(s ports.Solver) *UniqueGenerator {
	return &UniqueGenerator{Solver: s}
}
