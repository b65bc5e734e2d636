package entity

import (
	"encoding/json"
	"errors"
	"fmt"
)

type Mark string

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
)

const BoardSize = 9

var (
	ErrInvalidBoardSize = errors.New("board must have exactly 9 cells")
	ErrInvalidMark      = errors.New("invalid mark")
)

// IsPlayer reports whether the mark belongs to one of the two players.
func (that Mark) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

// Opponent returns the other player's mark.
func (that Mark) Opponent() Mark {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// MarkForPly - player X moves on even plies, player O on odd ones.
func MarkForPly(ply int) Mark {
	if ply%2 == 0 {
		return PlayerX
	}
	return PlayerO
}

// Board is a row-major 3x3 snapshot. It is a value type, so every copy is
// independent of the one it was taken from.
type Board [BoardSize]Mark

// Marks returns the number of occupied cells.
func (that Board) Marks() int {
	count := 0
	for _, cell := range that {
		if cell != EmptyCell {
			count++
		}
	}
	return count
}

// FreeCells returns the indices of empty cells in ascending order.
func (that Board) FreeCells() []int {
	cells := make([]int, 0, BoardSize)
	for i, cell := range that {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}
	return cells
}

// MarshalJSON encodes empty cells as null.
func (that Board) MarshalJSON() ([]byte, error) {
	cells := make([]*string, BoardSize)
	for i, cell := range that {
		if cell == EmptyCell {
			continue
		}
		value := string(cell)
		cells[i] = &value
	}
	return json.Marshal(cells)
}

// UnmarshalJSON accepts null or "" for empty cells.
func (that *Board) UnmarshalJSON(data []byte) error {
	var cells []*string
	if err := json.Unmarshal(data, &cells); err != nil {
		return fmt.Errorf("could not unmarshal board: %w", err)
	}

	if len(cells) != BoardSize {
		return fmt.Errorf("%w: got %d", ErrInvalidBoardSize, len(cells))
	}

	var board Board
	for i, cell := range cells {
		if cell == nil || *cell == "" {
			continue
		}

		mark := Mark(*cell)
		if !mark.IsPlayer() {
			return fmt.Errorf("%w %q at cell %d", ErrInvalidMark, *cell, i)
		}
		board[i] = mark
	}

	*that = board
	return nil
}

// WinResult names the winner and the three cells of the completed line.
type WinResult struct {
	Winner Mark   `json:"winner"`
	Line   [3]int `json:"line"`
}

const (
	StateInProgress = "in_progress"
	StateWon        = "won"
	StateDraw       = "draw"
)

type Status struct {
	State  string `json:"state"`
	Next   Mark   `json:"next,omitempty"`
	Winner Mark   `json:"winner,omitempty"`
	Line   []int  `json:"line,omitempty"`
}

func (that Status) IsFinished() bool {
	return that.State == StateWon || that.State == StateDraw
}
