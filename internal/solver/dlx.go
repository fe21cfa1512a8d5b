package solver

import (
	"context"
	"errors"
	"time"

	"svw.info/gridsolve/internal/domain"
	"svw.info/gridsolve/internal/grid"
	"svw.info/gridsolve/internal/ports"
)

// DLXSolver implements Algorithm X / Dancing Links over the exact-cover
// formulation of the puzzle. For side length n there are 4*n*n constraint
// columns and n*n*n candidate rows (r,c,v):
//
//	0..n²-1        -> cell (r,c) holds some value
//	n²..2n²-1      -> row r has value v
//	2n²..3n²-1     -> col c has value v
//	3n²..4n²-1     -> box b has value v
type DLXSolver struct{}

func NewDLXSolver() *DLXSolver { return &DLXSolver{} }

// node/column structures (classic dancing links)
type node struct {
	left, right, up, down *node
	col                   *column
	rowIdx                int // identifies (r,c,v)
}
type column struct {
	node
	size   int
	name   int
	active bool // whether this constraint column is currently uncovered
}

type dlx struct {
	geo       domain.Geometry
	size      int
	cols      []*column
	rowHead   []*node
	sol       []*node
	solLen    int
	nodes     int
	activeCnt int // number of active (uncovered) columns
}

func newDLX(geo domain.Geometry) *dlx {
	n := geo.Size()
	nCells := n * n
	d := &dlx{
		geo:     geo,
		size:    n,
		cols:    make([]*column, 4*nCells),
		rowHead: make([]*node, nCells*n),
		sol:     make([]*node, nCells),
	}
	for i := range d.cols {
		c := &column{name: i, active: true}
		c.up = &c.node
		c.down = &c.node
		d.cols[i] = c
	}
	d.activeCnt = len(d.cols)

	// build rows for all (r,c,v)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			for v := 1; v <= n; v++ {
				row := d.rowIndex(r, c, v)
				cols := d.rowColumns(r, c, v)
				var first *node
				var prev *node
				for _, colID := range cols {
					col := d.cols[colID]
					nd := &node{col: col, rowIdx: row}
					// vertical insert (at bottom)
					nd.down = &col.node
					nd.up = col.node.up
					col.node.up.down = nd
					col.node.up = nd
					col.size++
					// horizontal ring for the 4 nodes of the row
					if first == nil {
						first = nd
						nd.left = nd
						nd.right = nd
					} else {
						nd.left = prev
						nd.right = prev.right
						prev.right.left = nd
						prev.right = nd
					}
					prev = nd
				}
				d.rowHead[row] = first
			}
		}
	}
	return d
}

func (d *dlx) rowIndex(r, c, v int) int {
	return (r*d.size+c)*d.size + (v - 1)
}

func (d *dlx) rowColumns(r, c, v int) [4]int {
	n := d.size
	nCells := n * n
	cell := r*n + c
	rowN := nCells + r*n + (v - 1)
	colN := 2*nCells + c*n + (v - 1)
	boxN := 3*nCells + d.geo.Box(r, c)*n + (v - 1)
	return [4]int{cell, rowN, colN, boxN}
}

func (d *dlx) decodeRow(row int) (r, c, v int) {
	cell := row / d.size
	v = (row % d.size) + 1
	r = cell / d.size
	c = cell % d.size
	return
}

// core operations
func cover(col *column, d *dlx) {
	if col.active {
		col.active = false
		d.activeCnt--
	}
	for i := col.down; i != &col.node; i = i.down {
		for j := i.right; j != i; j = j.right {
			j.down.up = j.up
			j.up.down = j.down
			j.col.size--
		}
	}
}

func uncover(col *column, d *dlx) {
	for i := col.up; i != &col.node; i = i.up {
		for j := i.left; j != i; j = j.left {
			j.col.size++
			j.down.up = j
			j.up.down = j
		}
	}
	if !col.active {
		col.active = true
		d.activeCnt++
	}
}

// choose the active column with the smallest size
func chooseColumn(d *dlx) *column {
	var best *column
	for _, c := range d.cols {
		if c.active {
			if best == nil || c.size < best.size {
				best = c
				if best.size == 0 {
					break
				}
			}
		}
	}
	return best
}

func (d *dlx) search(ctx context.Context, k int, wantCount int, found *int) bool {
	select {
	case <-ctx.Done():
		return true // stop search
	default:
	}
	// all constraints covered -> solution
	if d.activeCnt == 0 {
		d.solLen = k
		(*found)++
		return *found >= wantCount
	}

	c := chooseColumn(d)
	if c == nil || c.size == 0 {
		return false
	}
	cover(c, d)
	for r := c.down; r != &c.node; r = r.down {
		d.nodes++
		d.sol[k] = r
		for j := r.right; j != r; j = j.right {
			if j.col.active {
				cover(j.col, d)
			}
		}
		if d.search(ctx, k+1, wantCount, found) {
			for j := r.left; j != r; j = j.left {
				uncover(j.col, d)
			}
			uncover(c, d)
			return true
		}
		// backtrack: uncover in reverse order
		for j := r.left; j != r; j = j.left {
			uncover(j.col, d)
		}
	}
	uncover(c, d)
	return false
}

// apply givens by selecting corresponding rows and covering their columns
func (d *dlx) applyGiven(r, c, v int) error {
	row := d.rowIndex(r, c, v)
	head := d.rowHead[row]
	if head == nil {
		return errors.New("invalid row mapping")
	}
	for j := head; ; j = j.right {
		cover(j.col, d)
		if j.right == head {
			break
		}
	}
	return nil
}

func (d *dlx) seed(b *domain.Board) error {
	for r := 0; r < d.size; r++ {
		for c := 0; c < d.size; c++ {
			if v := int(b.At(r, c)); v > 0 {
				if err := d.applyGiven(r, c, v); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *DLXSolver) Solve(ctx context.Context, b *domain.Board) (*domain.Board, ports.Stats, error) {
	start := time.Now()
	if err := checkInput(b); err != nil {
		return nil, ports.Stats{}, err
	}
	d := newDLX(b.Geometry)
	if err := d.seed(b); err != nil {
		return nil, ports.Stats{}, err
	}
	found := 0
	_ = d.search(ctx, 0, 1, &found)
	st := ports.Stats{Nodes: d.nodes, Duration: time.Since(start)}
	if found < 1 {
		if err := ctx.Err(); err != nil {
			return nil, st, err
		}
		return nil, st, grid.ErrUnsatisfiable
	}
	// reconstruct board from chosen rows in d.sol
	out := domain.NewBoard(b.Geometry)
	for r := 0; r < d.size; r++ {
		for c := 0; c < d.size; c++ {
			out.Set(r, c, b.At(r, c))
		}
	}
	for i := 0; i < d.solLen; i++ {
		r, c, v := d.decodeRow(d.sol[i].rowIdx)
		out.Set(r, c, uint8(v))
	}
	out.Fixed = b.Fixed
	return out, st, nil
}

func (s *DLXSolver) Unique(ctx context.Context, b *domain.Board) (bool, ports.Stats, error) {
	start := time.Now()
	if err := checkInput(b); err != nil {
		return false, ports.Stats{}, err
	}
	d := newDLX(b.Geometry)
	if err := d.seed(b); err != nil {
		return false, ports.Stats{}, err
	}
	found := 0
	_ = d.search(ctx, 0, 2, &found) // stop after finding 2 solutions
	st := ports.Stats{Nodes: d.nodes, Duration: time.Since(start)}
	if err := ctx.Err(); err != nil {
		return false, st, err
	}
	return found == 1, st, nil
}
