package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boardWith(marks map[int]Mark) Board {
	var board Board
	for cell, mark := range marks {
		board[cell] = mark
	}
	return board
}

func TestNewHistory(t *testing.T) {
	// When: creating a new ledger
	history := NewHistory()

	// Then: it holds one empty board with the cursor on it
	assert.Equal(t, 1, history.Len())
	assert.Equal(t, 0, history.Ply())
	assert.Equal(t, Board{}, history.Current())
	assert.Equal(t, PlayerX, history.NextMark())
}

func TestHistory_Append(t *testing.T) {
	t.Run("Append advances the cursor", func(t *testing.T) {
		// Given: a new ledger
		history := NewHistory()
		first := boardWith(map[int]Mark{0: PlayerX})

		// When: appending a snapshot
		history.Append(first)

		// Then: the cursor points at the new snapshot and O is next
		assert.Equal(t, 2, history.Len())
		assert.Equal(t, 1, history.Ply())
		assert.Equal(t, first, history.Current())
		assert.Equal(t, PlayerO, history.NextMark())
	})

	t.Run("Append after rewind discards the future", func(t *testing.T) {
		// Given: a ledger with four plies
		history := NewHistory()
		history.Append(boardWith(map[int]Mark{0: PlayerX}))
		history.Append(boardWith(map[int]Mark{0: PlayerX, 4: PlayerO}))
		history.Append(boardWith(map[int]Mark{0: PlayerX, 4: PlayerO, 1: PlayerX}))
		history.Append(boardWith(map[int]Mark{0: PlayerX, 4: PlayerO, 1: PlayerX, 3: PlayerO}))
		require.Equal(t, 5, history.Len())

		// When: rewinding to ply 1 and playing a new move
		require.NoError(t, history.Rewind(1))
		branch := boardWith(map[int]Mark{0: PlayerX, 8: PlayerO})
		history.Append(branch)

		// Then: the ledger has length k+2 and ends with the branch
		assert.Equal(t, 3, history.Len())
		assert.Equal(t, 2, history.Ply())
		assert.Equal(t, branch, history.Current())
		assert.Equal(t, boardWith(map[int]Mark{0: PlayerX}), history.All()[1])
	})

	t.Run("Snapshots returned earlier are not affected by branching", func(t *testing.T) {
		// Given: a ledger and a copy of its snapshots
		history := NewHistory()
		history.Append(boardWith(map[int]Mark{0: PlayerX}))
		history.Append(boardWith(map[int]Mark{0: PlayerX, 4: PlayerO}))
		before := history.All()

		// When: rewinding and branching
		require.NoError(t, history.Rewind(1))
		history.Append(boardWith(map[int]Mark{0: PlayerX, 2: PlayerO}))

		// Then: the earlier copy still shows the old future
		assert.Equal(t, boardWith(map[int]Mark{0: PlayerX, 4: PlayerO}), before[2])
	})
}

func TestHistory_Rewind(t *testing.T) {
	t.Run("Rewind keeps the future until the next append", func(t *testing.T) {
		// Given: a ledger with two plies
		history := NewHistory()
		history.Append(boardWith(map[int]Mark{0: PlayerX}))
		history.Append(boardWith(map[int]Mark{0: PlayerX, 4: PlayerO}))

		// When: rewinding to the start
		err := history.Rewind(0)

		// Then: the cursor moves but nothing is truncated
		require.NoError(t, err)
		assert.Equal(t, 3, history.Len())
		assert.Equal(t, Board{}, history.Current())
	})

	t.Run("Rewind out of range is rejected", func(t *testing.T) {
		// Given: a new ledger
		history := NewHistory()
		version := history.Version

		// When: rewinding past the end or before the start
		errPast := history.Rewind(1)
		errNegative := history.Rewind(-1)

		// Then: both calls fail and the ledger is unchanged
		require.ErrorIs(t, errPast, ErrPlyOutOfRange)
		require.ErrorIs(t, errNegative, ErrPlyOutOfRange)
		assert.Equal(t, version, history.Version)
		assert.Equal(t, 0, history.Ply())
	})
}

func TestHistory_Reset(t *testing.T) {
	// Given: a ledger with moves
	history := NewHistory()
	history.Append(boardWith(map[int]Mark{0: PlayerX}))

	// When: resetting twice
	history.Reset()
	once := *history
	once.Snapshots = history.All()
	history.Reset()

	// Then: both resets yield a single empty board at cursor 0
	assert.Equal(t, once.Snapshots, history.All())
	assert.Equal(t, once.Cursor, history.Cursor)
	assert.Equal(t, 1, history.Len())
	assert.Equal(t, Board{}, history.Current())
}

func TestHistory_Version(t *testing.T) {
	// Given: a new ledger
	history := NewHistory()
	seen := map[uint64]bool{history.Version: true}

	// When: mutating it in every possible way
	history.Append(boardWith(map[int]Mark{0: PlayerX}))
	assert.False(t, seen[history.Version])
	seen[history.Version] = true

	require.NoError(t, history.Rewind(0))
	assert.False(t, seen[history.Version])
	seen[history.Version] = true

	history.Reset()

	// Then: every mutation produced a fresh version
	assert.False(t, seen[history.Version])
}
