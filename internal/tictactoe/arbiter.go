package tictactoe

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

var (
	ErrInvalidCell  = errors.New("invalid cell index")
	ErrInvalidMark  = errors.New("mark must be X or O")
	ErrGameFinished = errors.New("game is already finished")
	ErrBoardFull    = errors.New("board is full")
	ErrCellOccupied = errors.New("cell is already occupied")
)

// ProposeMove returns board with mark placed at cell. A rejected move returns
// the input board unchanged together with the reason. The caller picks the
// mark from the ply parity.
func ProposeMove(board entity.Board, cell int, mark entity.Mark) (entity.Board, error) {
	if err := validateMove(board, cell, mark); err != nil {
		return board, fmt.Errorf("invalid turn: %w", err)
	}

	next := board
	next[cell] = mark

	return next, nil
}

// validateMove - checks the preconditions in a fixed order.
func validateMove(board entity.Board, cell int, mark entity.Mark) error {
	if cell < 0 || cell >= len(board) {
		return fmt.Errorf("%w: cell %d", ErrInvalidCell, cell)
	}

	if _, won := Evaluate(board); won {
		return ErrGameFinished
	}

	if IsFull(board) {
		return ErrBoardFull
	}

	if board[cell] != entity.EmptyCell {
		return ErrCellOccupied
	}

	if !mark.IsPlayer() {
		return fmt.Errorf("%w: %q", ErrInvalidMark, mark)
	}

	return nil
}
