package validator

import (
	"context"

	"svw.info/gridsolve/internal/domain"
)

// FastValidator scans rows, columns, and boxes with bitmasks and reports
// the coordinates of duplicated values. It does not solve anything.
type FastValidator struct{}

func New() *FastValidator { return &FastValidator{} }

func (v *FastValidator) Validate(ctx context.Context, b *domain.Board) (bool, []domain.CellCoord, error) {
	size := b.Geometry.Size()
	conf := make([]domain.CellCoord, 0, 8)
	// rows
	for r := 0; r < size; r++ {
		m := uint32(0)
		for c := 0; c < size; c++ {
			val := b.At(r, c)
			if val == 0 {
				continue
			}
			bit := uint32(1) << val
			if m&bit != 0 {
				conf = append(conf, domain.CellCoord{Row: r, Col: c})
			}
			m |= bit
		}
	}
	// cols
	for c := 0; c < size; c++ {
		m := uint32(0)
		for r := 0; r < size; r++ {
			val := b.At(r, c)
			if val == 0 {
				continue
			}
			bit := uint32(1) << val
			if m&bit != 0 {
				conf = append(conf, domain.CellCoord{Row: r, Col: c})
			}
			m |= bit
		}
	}
	// boxes
	for br := 0; br < size; br += b.Geometry.BoxRows {
		for bc := 0; bc < size; bc += b.Geometry.BoxCols {
			m := uint32(0)
			for dr := 0; dr < b.Geometry.BoxRows; dr++ {
				for dc := 0; dc < b.Geometry.BoxCols; dc++ {
					val := b.At(br+dr, bc+dc)
					if val == 0 {
						continue
					}
					bit := uint32(1) << val
					if m&bit != 0 {
						conf = append(conf, domain.CellCoord{Row: br + dr, Col: bc + dc})
					}
					m |= bit
				}
			}
		}
	}
	return len(conf) == 0, conf, nil
}
