package hint

import (
	"context"
	"fmt"
	"math/bits"

	"svw.info/gridsolve/internal/domain"
)

// Singles implements a minimal Hinter that suggests naked singles: cells
// whose peer constraints leave exactly one admissible value.
type Singles struct{}

func NewSingles() *Singles { return &Singles{} }

// Hint returns the first found naked single if max tier allows it.
func (h *Singles) Hint(ctx context.Context, b *domain.Board, max domain.StrategyTier) (domain.Hint, bool, error) {
	if max < domain.StrategySingles {
		return domain.Hint{}, false, nil
	}
	size := b.Geometry.Size()
	rows, cols, boxes := unitMasks(b)
	full := uint32(1)<<size - 1
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if b.At(r, c) != 0 {
				continue
			}
			cands := full &^ rows[r] &^ cols[c] &^ boxes[b.Geometry.Box(r, c)]
			if bits.OnesCount32(cands) == 1 {
				v := uint8(bits.TrailingZeros32(cands)) + 1
				return domain.Hint{
					Message:  fmt.Sprintf("Single: only %c fits here", domain.ValueRune(v)),
					Cells:    []domain.CellCoord{{Row: r, Col: c}},
					Value:    v,
					Strategy: domain.StrategySingles,
				}, true, nil
			}
		}
	}
	return domain.Hint{}, false, nil
}

// unitMasks collects the placed values of every row, column, and box as
// bitmasks (bit v-1 set means v is taken).
func unitMasks(b *domain.Board) (rows, cols, boxes []uint32) {
	size := b.Geometry.Size()
	rows = make([]uint32, size)
	cols = make([]uint32, size)
	boxes = make([]uint32, size)
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			v := b.At(r, c)
			if v == 0 {
				continue
			}
			m := uint32(1) << (v - 1)
			rows[r] |= m
			cols[c] |= m
			boxes[b.Geometry.Box(r, c)] |= m
		}
	}
	return rows, cols, boxes
}
