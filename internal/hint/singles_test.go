package hint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/gridsolve/internal/domain"
)

func TestHintFindsNakedSingle(t *testing.T) {
	// (0,2) is the only empty cell in row 0; only 3 fits.
	b, err := domain.ParseBoard(domain.Geometry{BoxRows: 2, BoxCols: 2}, "12.4"+"...."+"...."+"....")
	require.NoError(t, err)

	h, ok, err := NewSingles().Hint(context.Background(), b, domain.StrategySingles)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []domain.CellCoord{{Row: 0, Col: 2}}, h.Cells)
	assert.Equal(t, uint8(3), h.Value)
	assert.Equal(t, domain.StrategySingles, h.Strategy)
	assert.Contains(t, h.Message, "3")
}

func TestHintNoneOnEmptyBoard(t *testing.T) {
	b := domain.NewBoard(domain.Classic())
	_, ok, err := NewSingles().Hint(context.Background(), b, domain.StrategyAdvanced)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHintRespectsTierCap(t *testing.T) {
	b, err := domain.ParseBoard(domain.Geometry{BoxRows: 2, BoxCols: 2}, "12.4"+"...."+"...."+"....")
	require.NoError(t, err)

	_, ok, err := NewSingles().Hint(context.Background(), b, domain.StrategyTier(-1))
	require.NoError(t, err)
	assert.False(t, ok)
}
