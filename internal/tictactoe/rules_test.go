package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

const (
	x = entity.PlayerX
	o = entity.PlayerO
	e = entity.EmptyCell
)

func TestEvaluate(t *testing.T) {
	t.Run("Every line is detected for both players", func(t *testing.T) {
		for _, mark := range []entity.Mark{x, o} {
			for _, combo := range WinCombos {
				// Given: a board with only this line filled
				var board entity.Board
				for _, cell := range combo {
					board[cell] = mark
				}

				// When: evaluating it
				result, won := Evaluate(board)

				// Then: the line and its owner are reported
				require.True(t, won)
				assert.Equal(t, entity.WinResult{Winner: mark, Line: combo}, result)
			}
		}
	})

	t.Run("No winner on an ongoing board", func(t *testing.T) {
		// Given: a board where there is no winner yet
		board := entity.Board{x, o, x, e, o, e, x, e, e}

		// When: evaluating it
		_, won := Evaluate(board)

		// Then: no result is returned
		assert.False(t, won)
	})

	t.Run("First line in fixed order wins the tie-break", func(t *testing.T) {
		// Given: a board with the top row and the left column both complete
		board := entity.Board{
			x, x, x,
			x, o, o,
			x, o, o,
		}

		// When: evaluating it
		result, won := Evaluate(board)

		// Then: the row is reported because rows are checked before columns
		require.True(t, won)
		assert.Equal(t, [3]int{0, 1, 2}, result.Line)
	})

	t.Run("Column reported before diagonal", func(t *testing.T) {
		// Given: a board with the right column and the anti-diagonal complete
		board := entity.Board{
			e, x, o,
			x, o, o,
			o, x, o,
		}

		// When: evaluating it
		result, won := Evaluate(board)

		// Then: the column comes first
		require.True(t, won)
		assert.Equal(t, entity.WinResult{Winner: o, Line: [3]int{2, 5, 8}}, result)
	})

	t.Run("Scenario: X completes the top row", func(t *testing.T) {
		// Given: an empty board and the moves 0(X) 4(O) 1(X) 3(O) 2(X)
		var board entity.Board
		var err error
		for ply, cell := range []int{0, 4, 1, 3, 2} {
			board, err = ProposeMove(board, cell, entity.MarkForPly(ply))
			require.NoError(t, err)
		}

		// When: evaluating the final board
		result, won := Evaluate(board)

		// Then: X wins on line 0,1,2
		require.True(t, won)
		assert.Equal(t, entity.WinResult{Winner: x, Line: [3]int{0, 1, 2}}, result)
	})
}

func TestStatus(t *testing.T) {
	t.Run("Draw when the board is full without a line", func(t *testing.T) {
		// Given: X at 0,1,5,6,8 and O at 2,3,4,7
		board := entity.Board{
			x, x, o,
			o, o, x,
			x, o, x,
		}

		// When: computing the status
		status := Status(board)

		// Then: it is a draw
		assert.Equal(t, entity.Status{State: entity.StateDraw}, status)
		assert.True(t, IsDraw(board))
		assert.True(t, status.IsFinished())
	})

	t.Run("Full board with a line is a win, not a draw", func(t *testing.T) {
		// Given: a full board where X completed the diagonal
		board := entity.Board{
			x, o, x,
			o, x, o,
			o, x, x,
		}

		// When: computing the status
		status := Status(board)

		// Then: X has won
		assert.Equal(t, entity.StateWon, status.State)
		assert.Equal(t, x, status.Winner)
		assert.Equal(t, []int{0, 4, 8}, status.Line)
		assert.False(t, IsDraw(board))
	})

	t.Run("In progress with next mark from parity", func(t *testing.T) {
		// Given: boards with an even and an odd number of marks
		even := entity.Board{x, o, e, e, e, e, e, e, e}
		odd := entity.Board{x, o, x, e, e, e, e, e, e}

		// When: computing their status
		evenStatus := Status(even)
		oddStatus := Status(odd)

		// Then: X is next on even plies and O on odd ones
		assert.Equal(t, entity.Status{State: entity.StateInProgress, Next: x}, evenStatus)
		assert.Equal(t, entity.Status{State: entity.StateInProgress, Next: o}, oddStatus)
		assert.False(t, evenStatus.IsFinished())
	})
}
