package grid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/gridsolve/internal/domain"
)

// A classic, solvable 9x9 puzzle with a unique solution.
const samplePuzzle = "" +
	"530070000" +
	"600195000" +
	"098000060" +
	"800060003" +
	"400803001" +
	"700020006" +
	"060000280" +
	"000419005" +
	"000080079"

const sampleSolution = "" +
	"534678912" +
	"672195348" +
	"198342567" +
	"859761423" +
	"426853791" +
	"713924856" +
	"961537284" +
	"287419635" +
	"345286179"

// A puzzle that propagation alone cannot finish; search has to guess.
const hardPuzzle = "" +
	"8........" +
	"..36....." +
	".7..9.2.." +
	".5...7..." +
	"....457.." +
	"...1...3." +
	"..1....68" +
	"..85...1." +
	".9....4.."

const hardSolution = "" +
	"864712953" +
	"923654871" +
	"175893246" +
	"352867194" +
	"619345782" +
	"487129635" +
	"231472568" +
	"248576319" +
	"596831427"

// No givens repeat, but cell (0,0) sees 1,2 in its row, 3 in its column,
// and 4 in its box, so no value fits.
const unsat4x4 = "..12" + ".4.." + "3..." + "...."

func mustParse(t *testing.T, geo domain.Geometry, s string) *domain.Board {
	t.Helper()
	b, err := domain.ParseBoard(geo, s)
	require.NoError(t, err)
	return b
}

func TestSolveClassicPuzzle(t *testing.T) {
	g, err := FromBoard(mustParse(t, domain.Classic(), samplePuzzle))
	require.NoError(t, err)

	out, err := g.Solve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleSolution, out.String())
}

func TestSolveHardPuzzleNeedsSearch(t *testing.T) {
	g, err := FromBoard(mustParse(t, domain.Classic(), hardPuzzle))
	require.NoError(t, err)

	out, err := g.Solve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, hardSolution, out.String())
	assert.Positive(t, g.Nodes(), "propagation alone cannot finish this one")
}

func TestSolveEmptyGridFindsSomeCompletion(t *testing.T) {
	g, err := New(domain.Classic())
	require.NoError(t, err)

	out, err := g.Solve(context.Background())
	require.NoError(t, err)
	require.True(t, out.Complete())
	assertAllGroupsDistinct(t, out)
}

func TestSolveIsDeterministic(t *testing.T) {
	solve := func() string {
		g, err := New(domain.Geometry{BoxRows: 2, BoxCols: 2})
		require.NoError(t, err)
		out, err := g.Solve(context.Background())
		require.NoError(t, err)
		return out.String()
	}
	assert.Equal(t, solve(), solve(), "MRV with index tie-break gives reproducible output")
}

func TestSolveAlreadySolvedReturnsUnchanged(t *testing.T) {
	g, err := FromBoard(mustParse(t, domain.Classic(), sampleSolution))
	require.NoError(t, err)

	out, err := g.Solve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleSolution, out.String())
	assert.Zero(t, g.Nodes(), "no guessing needed for a solved grid")
}

func TestSolveUnsatisfiable(t *testing.T) {
	g, err := FromBoard(mustParse(t, domain.Geometry{BoxRows: 2, BoxCols: 2}, unsat4x4))
	require.NoError(t, err, "the givens themselves do not clash")

	_, err = g.Solve(context.Background())
	assert.ErrorIs(t, err, ErrUnsatisfiable)
}

func TestFromBoardRejectsDuplicateGivens(t *testing.T) {
	tests := []struct {
		name  string
		cells string
	}{
		{"row", "11.." + "...." + "...." + "...."},
		{"column", "1..." + "...." + "...." + "1..."},
		{"box", "1..." + ".1.." + "...." + "...."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := mustParse(t, domain.Geometry{BoxRows: 2, BoxCols: 2}, tc.cells)
			_, err := FromBoard(b)
			assert.ErrorIs(t, err, ErrInvalidPuzzle)
		})
	}
}

func TestFromBoardRejectsOutOfAlphabetValue(t *testing.T) {
	b := domain.NewBoard(domain.Geometry{BoxRows: 2, BoxCols: 2})
	b.Values[0] = 5
	_, err := FromBoard(b)
	assert.ErrorIs(t, err, ErrInvalidPuzzle)
}

func TestFromBoardRejectsWrongShape(t *testing.T) {
	b := domain.NewBoard(domain.Classic())
	b.Values = b.Values[:80]
	_, err := FromBoard(b)
	assert.ErrorIs(t, err, ErrInvalidPuzzle)
}

func TestPropagateIdempotent(t *testing.T) {
	g, err := FromBoard(mustParse(t, domain.Classic(), samplePuzzle))
	require.NoError(t, err)

	require.NoError(t, g.Propagate())
	before := g.snapshot()

	require.NoError(t, g.Propagate())
	assert.Equal(t, before, g.cells, "a second pass at the fixed point changes nothing")
}

func TestPropagationAloneSolvesEasyGrid(t *testing.T) {
	// Blank a handful of cells from the solved grid; every blank is
	// recovered as a forced single without search.
	b := mustParse(t, domain.Classic(), sampleSolution)
	for _, pos := range []int{0, 10, 20, 30, 40, 50, 60, 70, 80} {
		b.Values[pos] = 0
	}
	g, err := FromBoard(b)
	require.NoError(t, err)

	require.NoError(t, g.Propagate())
	assert.True(t, g.Solved())
	assert.Equal(t, sampleSolution, g.Board().String())
}

func TestSolve4x4(t *testing.T) {
	geo := domain.Geometry{BoxRows: 2, BoxCols: 2}
	g, err := FromBoard(mustParse(t, geo, "1..."+"..2."+".3.."+"...4"))
	require.NoError(t, err)

	out, err := g.Solve(context.Background())
	require.NoError(t, err)
	require.True(t, out.Complete())
	assertAllGroupsDistinct(t, out)
}

func TestSolveRespectsCancellation(t *testing.T) {
	g, err := New(domain.Classic())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Solve(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCountSolutions(t *testing.T) {
	t.Run("unique puzzle", func(t *testing.T) {
		g, err := FromBoard(mustParse(t, domain.Classic(), samplePuzzle))
		require.NoError(t, err)
		n, err := g.CountSolutions(context.Background(), 2)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
	t.Run("empty grid has many", func(t *testing.T) {
		g, err := New(domain.Geometry{BoxRows: 2, BoxCols: 2})
		require.NoError(t, err)
		n, err := g.CountSolutions(context.Background(), 2)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})
	t.Run("unsatisfiable counts zero", func(t *testing.T) {
		g, err := FromBoard(mustParse(t, domain.Geometry{BoxRows: 2, BoxCols: 2}, unsat4x4))
		require.NoError(t, err)
		n, err := g.CountSolutions(context.Background(), 2)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestBranchPrefersFewestCandidates(t *testing.T) {
	g, err := FromBoard(mustParse(t, domain.Classic(), hardPuzzle))
	require.NoError(t, err)
	require.NoError(t, g.Propagate())

	pos, vals, ok := g.Branch()
	require.True(t, ok)
	n := len(vals)
	size := g.Geometry().Size()
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if cands := g.CandidatesAt(r, c); len(cands) > 0 {
				assert.GreaterOrEqual(t, len(cands), n)
				if len(cands) == n {
					// Ties break toward the lowest row-major index, so the
					// first such cell is the branch point.
					assert.Equal(t, r*size+c, pos)
					return
				}
			}
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g, err := FromBoard(mustParse(t, domain.Classic(), hardPuzzle))
	require.NoError(t, err)
	require.NoError(t, g.Propagate())

	clone := g.Clone()
	pos, vals, ok := clone.Branch()
	require.True(t, ok)
	require.NoError(t, clone.Apply(pos, vals[0]))

	assert.NotEqual(t, clone.Board().String(), g.Board().String(), "mutating the clone leaves the original alone")
}

// assertAllGroupsDistinct checks the completeness invariant: every row,
// column, and box contains each alphabet value exactly once.
func assertAllGroupsDistinct(t *testing.T, b *domain.Board) {
	t.Helper()
	size := b.Geometry.Size()
	full := uint32(1)<<size - 1
	for r := 0; r < size; r++ {
		var m uint32
		for c := 0; c < size; c++ {
			m |= 1 << (b.At(r, c) - 1)
		}
		assert.Equal(t, full, m, "row %d", r)
	}
	for c := 0; c < size; c++ {
		var m uint32
		for r := 0; r < size; r++ {
			m |= 1 << (b.At(r, c) - 1)
		}
		assert.Equal(t, full, m, "column %d", c)
	}
	for br := 0; br < size; br += b.Geometry.BoxRows {
		for bc := 0; bc < size; bc += b.Geometry.BoxCols {
			var m uint32
			for dr := 0; dr < b.Geometry.BoxRows; dr++ {
				for dc := 0; dc < b.Geometry.BoxCols; dc++ {
					m |= 1 << (b.At(br+dr, bc+dc) - 1)
				}
			}
			assert.Equal(t, full, m, "box at (%d,%d)", br, bc)
		}
	}
}
