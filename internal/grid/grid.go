// Package grid implements the constraint engine: cells with candidate
// sets, arc-consistency style propagation to a fixed point, and
// backtracking search with minimum-remaining-values cell selection.
package grid

import (
	"context"
	"errors"
	"fmt"

	"svw.info/gridsolve/internal/domain"
)

// Grid owns all cells of one puzzle instance plus precomputed peer lists
// (same row, column, and box) used for constraint lookups. A Grid is
// exclusively owned by the solving call for its duration; it is not safe
// for concurrent mutation.
type Grid struct {
	geo   domain.Geometry
	size  int
	cells []Cell
	peers [][]int

	// pending holds cells whose value is fixed but whose effects have
	// not been propagated yet. Seeded with the givens at construction.
	pending []int

	nodes int
}

// New returns an empty grid for the given geometry.
func New(geo domain.Geometry) (*Grid, error) {
	if !geo.Valid() {
		return nil, fmt.Errorf("%w: unsupported geometry %dx%d boxes", ErrInvalidPuzzle, geo.BoxRows, geo.BoxCols)
	}
	size := geo.Size()
	g := &Grid{
		geo:   geo,
		size:  size,
		cells: make([]Cell, geo.CellCount()),
		peers: buildPeers(geo),
	}
	full := fullMask(size)
	for i := range g.cells {
		g.cells[i] = newCell(full)
	}
	return g, nil
}

// FromBoard builds a grid from a board of optional givens. Structural
// problems (wrong shape, out-of-alphabet values, duplicate givens within
// a group) fail fast with ErrInvalidPuzzle before any propagation.
func FromBoard(b *domain.Board) (*Grid, error) {
	g, err := New(b.Geometry)
	if err != nil {
		return nil, err
	}
	if len(b.Values) != g.geo.CellCount() {
		return nil, fmt.Errorf("%w: expected %d cells, got %d", ErrInvalidPuzzle, g.geo.CellCount(), len(b.Values))
	}
	for i, v := range b.Values {
		if int(v) > g.size {
			return nil, fmt.Errorf("%w: value %d at cell %d outside alphabet 1..%d", ErrInvalidPuzzle, v, i, g.size)
		}
	}
	if err := checkGivens(b); err != nil {
		return nil, err
	}
	for i, v := range b.Values {
		if v == 0 {
			continue
		}
		// Cannot fail: candidates are still full and duplicates were
		// rejected above.
		if err := g.cells[i].Assign(v); err != nil {
			return nil, err
		}
		g.pending = append(g.pending, i)
	}
	return g, nil
}

// checkGivens rejects boards whose pre-filled values already violate a
// group-uniqueness invariant.
func checkGivens(b *domain.Board) error {
	size := b.Geometry.Size()
	rows := make([]uint32, size)
	cols := make([]uint32, size)
	boxes := make([]uint32, size)
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			v := b.At(r, c)
			if v == 0 {
				continue
			}
			m := bit(v)
			bx := b.Geometry.Box(r, c)
			if rows[r]&m != 0 {
				return fmt.Errorf("%w: duplicate %d in row %d", ErrInvalidPuzzle, v, r)
			}
			if cols[c]&m != 0 {
				return fmt.Errorf("%w: duplicate %d in column %d", ErrInvalidPuzzle, v, c)
			}
			if boxes[bx]&m != 0 {
				return fmt.Errorf("%w: duplicate %d in box %d", ErrInvalidPuzzle, v, bx)
			}
			rows[r] |= m
			cols[c] |= m
			boxes[bx] |= m
		}
	}
	return nil
}

func buildPeers(geo domain.Geometry) [][]int {
	size := geo.Size()
	peers := make([][]int, geo.CellCount())
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			i := r*size + c
			seen := make([]bool, geo.CellCount())
			seen[i] = true
			list := make([]int, 0, 3*size-3)
			add := func(j int) {
				if !seen[j] {
					seen[j] = true
					list = append(list, j)
				}
			}
			for k := 0; k < size; k++ {
				add(r*size + k)
				add(k*size + c)
			}
			br := (r / geo.BoxRows) * geo.BoxRows
			bc := (c / geo.BoxCols) * geo.BoxCols
			for dr := 0; dr < geo.BoxRows; dr++ {
				for dc := 0; dc < geo.BoxCols; dc++ {
					add((br+dr)*size + (bc + dc))
				}
			}
			peers[i] = list
		}
	}
	return peers
}

// Geometry returns the grid's geometry.
func (g *Grid) Geometry() domain.Geometry { return g.geo }

// Nodes returns the number of speculative assignments made so far.
func (g *Grid) Nodes() int { return g.nodes }

// Solved reports whether every cell holds a value.
func (g *Grid) Solved() bool {
	for i := range g.cells {
		if !g.cells[i].Solved() {
			return false
		}
	}
	return true
}

// CandidatesAt returns the remaining candidates of cell (row, col) in
// ascending order. Solved cells have none.
func (g *Grid) CandidatesAt(row, col int) []uint8 {
	return g.cells[row*g.size+col].Candidates()
}

// Board extracts the grid's current values.
func (g *Grid) Board() *domain.Board {
	b := domain.NewBoard(g.geo)
	for i := range g.cells {
		b.Values[i] = g.cells[i].Value()
	}
	return b
}

// Clone returns an independent deep copy. Peer lists are shared; they are
// immutable after construction.
func (g *Grid) Clone() *Grid {
	out := &Grid{
		geo:     g.geo,
		size:    g.size,
		cells:   append([]Cell(nil), g.cells...),
		peers:   g.peers,
		pending: append([]int(nil), g.pending...),
		nodes:   g.nodes,
	}
	return out
}

// Propagate drains the pending queue to a fixed point. Each newly fixed
// cell restricts every peer; a peer reduced to a single candidate is
// implicitly assigned and enqueued. Running Propagate again at a fixed
// point changes nothing. A contradiction means the puzzle as given has no
// completion, reported as ErrUnsatisfiable.
func (g *Grid) Propagate() error {
	q := g.pending
	g.pending = nil
	if err := g.propagate(q); err != nil {
		return ErrUnsatisfiable
	}
	return nil
}

func (g *Grid) propagate(queue []int) error {
	for head := 0; head < len(queue); head++ {
		i := queue[head]
		v := g.cells[i].Value()
		for _, p := range g.peers[i] {
			pc := &g.cells[p]
			changed, err := pc.Restrict(v)
			if err != nil {
				return err
			}
			if changed && pc.CandidateCount() == 1 {
				forced := pc.sole()
				if err := pc.Assign(forced); err != nil {
					return err
				}
				queue = append(queue, p)
			}
		}
	}
	return nil
}

// Apply fixes cell pos to v and propagates the effects. A contradiction
// is reported as ErrUnsatisfiable for this grid state.
func (g *Grid) Apply(pos int, v uint8) error {
	if err := g.cells[pos].Assign(v); err != nil {
		return ErrUnsatisfiable
	}
	if err := g.propagate([]int{pos}); err != nil {
		return ErrUnsatisfiable
	}
	return nil
}

// Branch returns the search branch point: the unsolved cell with the
// fewest remaining candidates (ties broken by lowest row-major index) and
// its candidate values in ascending order. ok is false when the grid is
// fully solved.
func (g *Grid) Branch() (pos int, vals []uint8, ok bool) {
	pos, ok = g.mrvCell()
	if !ok {
		return 0, nil, false
	}
	return pos, g.cells[pos].Candidates(), true
}

// Solve runs propagation to a fixed point and then backtracking search.
// It returns the solved board, ErrUnsatisfiable when the search space is
// exhausted, or the context error when cancelled. Cancellation is checked
// at branch boundaries only, never mid-propagation.
func (g *Grid) Solve(ctx context.Context) (*domain.Board, error) {
	if err := g.Propagate(); err != nil {
		return nil, err
	}
	if err := g.search(ctx); err != nil {
		if errors.Is(err, errContradiction) {
			return nil, ErrUnsatisfiable
		}
		return nil, err
	}
	return g.Board(), nil
}

func (g *Grid) search(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	pos, ok := g.mrvCell()
	if !ok {
		return nil
	}
	snap := g.snapshot()
	for _, v := range g.cells[pos].Candidates() {
		g.nodes++
		err := g.cells[pos].Assign(v)
		if err == nil {
			err = g.propagate([]int{pos})
		}
		if err == nil {
			err = g.search(ctx)
			if err == nil {
				return nil
			}
			if !errors.Is(err, errContradiction) {
				return err
			}
		}
		g.restore(snap)
	}
	return errContradiction
}

// CountSolutions explores the search space until limit solutions have
// been found, returning how many were seen. A grid whose givens already
// contradict counts zero solutions.
func (g *Grid) CountSolutions(ctx context.Context, limit int) (int, error) {
	if err := g.Propagate(); err != nil {
		if errors.Is(err, ErrUnsatisfiable) {
			return 0, nil
		}
		return 0, err
	}
	count := 0
	if err := g.countSearch(ctx, limit, &count); err != nil {
		return count, err
	}
	return count, nil
}

func (g *Grid) countSearch(ctx context.Context, limit int, count *int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if *count >= limit {
		return nil
	}
	pos, ok := g.mrvCell()
	if !ok {
		*count++
		return nil
	}
	snap := g.snapshot()
	for _, v := range g.cells[pos].Candidates() {
		g.nodes++
		err := g.cells[pos].Assign(v)
		if err == nil {
			err = g.propagate([]int{pos})
		}
		if err == nil {
			if err := g.countSearch(ctx, limit, count); err != nil {
				return err
			}
		}
		g.restore(snap)
		if *count >= limit {
			return nil
		}
	}
	return nil
}

// mrvCell picks the unsolved cell with the fewest candidates, tie-broken
// by lowest row-major index for reproducible search order.
func (g *Grid) mrvCell() (int, bool) {
	best := -1
	bestCount := 0
	for i := range g.cells {
		if g.cells[i].Solved() {
			continue
		}
		n := g.cells[i].CandidateCount()
		if best < 0 || n < bestCount {
			best = i
			bestCount = n
		}
	}
	return best, best >= 0
}

func (g *Grid) snapshot() []Cell { return append([]Cell(nil), g.cells...) }

func (g *Grid) restore(s []Cell) { copy(g.cells, s) }
