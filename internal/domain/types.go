package domain

// Geometry describes the shape of a puzzle: boxes of BoxRows x BoxCols
// cells tiled into a square grid of side BoxRows*BoxCols. Classic Sudoku
// is Geometry{3, 3}; a 4x4 mini puzzle is Geometry{2, 2}.
type Geometry struct {
	BoxRows int `json:"boxRows"`
	BoxCols int `json:"boxCols"`
}

// MaxSize is the largest supported grid side length.
const MaxSize = 25

// Classic returns the standard 9x9 geometry with 3x3 boxes.
func Classic() Geometry { return Geometry{BoxRows: 3, BoxCols: 3} }

// Size returns the side length of the grid, which is also the alphabet size.
func (g Geometry) Size() int { return g.BoxRows * g.BoxCols }

// CellCount returns the total number of cells.
func (g Geometry) CellCount() int { return g.Size() * g.Size() }

// Valid reports whether the geometry is supported. The alphabet is capped
// at MaxSize so values fit a uint8 and candidate sets fit a 32-bit mask.
func (g Geometry) Valid() bool {
	return g.BoxRows >= 2 && g.BoxCols >= 2 && g.Size() <= MaxSize
}

// Box returns the box index of cell (row, col).
func (g Geometry) Box(row, col int) int {
	return (row/g.BoxRows)*g.BoxRows + col/g.BoxCols
}

// Board holds current values, which cells are fixed givens, and the
// geometry that interprets them. Values are row-major; 0 means empty.
// On the wire a board travels as its geometry plus the textual cell
// string (see MarshalJSON in text.go).
type Board struct {
	Geometry Geometry
	Values   []uint8
	Fixed    []bool
}

// NewBoard returns an empty board for the given geometry.
func NewBoard(geo Geometry) *Board {
	return &Board{Geometry: geo, Values: make([]uint8, geo.CellCount())}
}

// At returns the value at (row, col).
func (b *Board) At(row, col int) uint8 {
	return b.Values[row*b.Geometry.Size()+col]
}

// Set places v at (row, col) without any rule checks.
func (b *Board) Set(row, col int, v uint8) {
	b.Values[row*b.Geometry.Size()+col] = v
}

// Clone returns an independent deep copy of the board.
func (b *Board) Clone() *Board {
	out := &Board{Geometry: b.Geometry, Values: append([]uint8(nil), b.Values...)}
	if b.Fixed != nil {
		out.Fixed = append([]bool(nil), b.Fixed...)
	}
	return out
}

// Filled returns the number of non-empty cells.
func (b *Board) Filled() int {
	n := 0
	for _, v := range b.Values {
		if v != 0 {
			n++
		}
	}
	return n
}

// Complete reports whether every cell holds a value.
func (b *Board) Complete() bool {
	return b.Filled() == len(b.Values)
}

// CellCoord identifies a cell on the board.
type CellCoord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Hint describes a strategy suggestion for the caller.
type Hint struct {
	Message  string       `json:"message,omitempty"`
	Cells    []CellCoord  `json:"cells,omitempty"`
	Value    uint8        `json:"value,omitempty"`
	Strategy StrategyTier `json:"strategy,omitempty"`
}

// Puzzle is a persisted puzzle with metadata.
type Puzzle struct {
	ID         string     `json:"id,omitempty"`
	Seed       int64      `json:"seed,omitempty"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	Board      Board      `json:"board"`
	CreatedAt  int64      `json:"createdAt,omitempty"`
	// Optional user metadata
	Name  string `json:"name,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// PuzzleMeta is a lightweight listing entry.
type PuzzleMeta struct {
	ID         string     `json:"id"`
	Name       string     `json:"name,omitempty"`
	Difficulty Difficulty `json:"difficulty"`
	CreatedAt  int64      `json:"createdAt"`
}
