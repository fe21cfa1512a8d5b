package grid

import "math/bits"

// Cell holds one grid position: either a fixed value, or a bitmask of
// still-possible values (bit v-1 set means value v is admissible).
// Once a value is set the candidate mask is cleared.
type Cell struct {
	value uint8
	cands uint32
}

// Snapshot is an exact copy of a cell's state, used by search to roll
// back speculative assignments.
type Snapshot struct {
	value uint8
	cands uint32
}

func newCell(full uint32) Cell { return Cell{cands: full} }

// Solved reports whether the cell holds a value.
func (c *Cell) Solved() bool { return c.value != 0 }

// Value returns the cell's value, 0 if unset.
func (c *Cell) Value() uint8 { return c.value }

// Assign fixes the cell to v. It fails with a contradiction when v is not
// among the remaining candidates, or when the cell is already solved with
// a different value. Assigning the current value again is a no-op.
func (c *Cell) Assign(v uint8) error {
	if c.value != 0 {
		if c.value == v {
			return nil
		}
		return errContradiction
	}
	if c.cands&bit(v) == 0 {
		return errContradiction
	}
	c.value = v
	c.cands = 0
	return nil
}

// Restrict removes v from the candidate set and reports whether the set
// changed. Emptying the set of an unset cell is a contradiction. For a
// solved cell, Restrict only fails when v is the cell's own value (a peer
// claimed the same value in a shared group).
func (c *Cell) Restrict(v uint8) (bool, error) {
	if c.value != 0 {
		if c.value == v {
			return false, errContradiction
		}
		return false, nil
	}
	m := bit(v)
	if c.cands&m == 0 {
		return false, nil
	}
	c.cands &^= m
	if c.cands == 0 {
		return true, errContradiction
	}
	return true, nil
}

// CandidateCount returns the number of remaining candidates.
func (c *Cell) CandidateCount() int { return bits.OnesCount32(c.cands) }

// Has reports whether v is still a candidate.
func (c *Cell) Has(v uint8) bool { return c.cands&bit(v) != 0 }

// Candidates returns the remaining candidates in ascending order.
func (c *Cell) Candidates() []uint8 {
	out := make([]uint8, 0, c.CandidateCount())
	for m := c.cands; m != 0; m &= m - 1 {
		out = append(out, uint8(bits.TrailingZeros32(m))+1)
	}
	return out
}

// sole returns the single remaining candidate. Only meaningful when
// CandidateCount() == 1.
func (c *Cell) sole() uint8 {
	return uint8(bits.TrailingZeros32(c.cands)) + 1
}

// Snapshot captures the cell's exact state.
func (c *Cell) Snapshot() Snapshot { return Snapshot{value: c.value, cands: c.cands} }

// Restore returns the cell to a previously captured state.
func (c *Cell) Restore(s Snapshot) { c.value, c.cands = s.value, s.cands }

func bit(v uint8) uint32 { return 1 << (v - 1) }

func fullMask(size int) uint32 { return (1 << size) - 1 }
