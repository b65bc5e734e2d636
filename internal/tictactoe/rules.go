package tictactoe

import "github.com/rocketscienceinc/tictactoe-core/internal/entity"

// WinCombos is checked in order: rows, columns, diagonals. The first complete
// line is the one reported.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Evaluate returns the first complete line on the board, if any.
func Evaluate(board entity.Board) (entity.WinResult, bool) {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return entity.WinResult{Winner: a, Line: combo}, true
		}
	}

	return entity.WinResult{}, false
}

func IsFull(board entity.Board) bool {
	for _, cell := range board {
		if cell == entity.EmptyCell {
			return false
		}
	}
	return true
}

// IsDraw - no winner and no empty cell left.
func IsDraw(board entity.Board) bool {
	if _, won := Evaluate(board); won {
		return false
	}
	return IsFull(board)
}

// Status derives the game status from the board alone; the next mark comes
// from the parity of the number of marks played.
func Status(board entity.Board) entity.Status {
	if result, won := Evaluate(board); won {
		return entity.Status{
			State:  entity.StateWon,
			Winner: result.Winner,
			Line:   result.Line[:],
		}
	}

	if IsFull(board) {
		return entity.Status{State: entity.StateDraw}
	}

	return entity.Status{
		State: entity.StateInProgress,
		Next:  entity.MarkForPly(board.Marks()),
	}
}
