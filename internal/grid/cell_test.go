package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellAssign(t *testing.T) {
	c := newCell(fullMask(9))
	require.False(t, c.Solved())
	require.Equal(t, 9, c.CandidateCount())

	require.NoError(t, c.Assign(5))
	assert.True(t, c.Solved())
	assert.Equal(t, uint8(5), c.Value())
	assert.Equal(t, 0, c.CandidateCount(), "assignment clears the candidate set")

	assert.NoError(t, c.Assign(5), "re-assigning the same value is a no-op")
	assert.Error(t, c.Assign(6), "conflicting assignment is a contradiction")
}

func TestCellAssignOutsideCandidates(t *testing.T) {
	c := newCell(fullMask(9))
	_, err := c.Restrict(3)
	require.NoError(t, err)
	assert.ErrorIs(t, c.Assign(3), errContradiction)
}

func TestCellRestrict(t *testing.T) {
	c := newCell(fullMask(4))

	changed, err := c.Restrict(2)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = c.Restrict(2)
	require.NoError(t, err)
	assert.False(t, changed, "removing an absent candidate changes nothing")

	assert.Equal(t, []uint8{1, 3, 4}, c.Candidates())
}

func TestCellRestrictToEmptyIsContradiction(t *testing.T) {
	c := newCell(fullMask(4))
	for _, v := range []uint8{1, 2, 3} {
		_, err := c.Restrict(v)
		require.NoError(t, err)
	}
	changed, err := c.Restrict(4)
	assert.True(t, changed)
	assert.ErrorIs(t, err, errContradiction)
}

func TestCellRestrictSolved(t *testing.T) {
	c := newCell(fullMask(9))
	require.NoError(t, c.Assign(7))

	changed, err := c.Restrict(3)
	assert.NoError(t, err)
	assert.False(t, changed)

	_, err = c.Restrict(7)
	assert.ErrorIs(t, err, errContradiction, "a peer claiming the cell's value conflicts")
}

func TestCellSnapshotRestore(t *testing.T) {
	c := newCell(fullMask(9))
	_, err := c.Restrict(1)
	require.NoError(t, err)
	snap := c.Snapshot()

	require.NoError(t, c.Assign(4))
	require.True(t, c.Solved())

	c.Restore(snap)
	assert.False(t, c.Solved())
	assert.Equal(t, []uint8{2, 3, 4, 5, 6, 7, 8, 9}, c.Candidates())
}
