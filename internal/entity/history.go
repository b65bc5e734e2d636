package entity

import (
	"errors"
	"fmt"
)

var ErrPlyOutOfRange = errors.New("ply index out of range")

// History is the ledger of board snapshots, one per ply, with a cursor on the
// active one. Fields are exported for storage; mutate only through methods.
type History struct {
	Snapshots []Board `json:"snapshots"`
	Cursor    int     `json:"cursor"`
	// Version changes on every mutation and identifies the exact state a
	// pending remote move was requested for.
	Version uint64 `json:"version"`
}

func NewHistory() *History {
	return &History{
		Snapshots: []Board{{}},
	}
}

// Append drops every snapshot after the cursor, appends board and moves the
// cursor onto it.
func (that *History) Append(board Board) {
	that.Snapshots = append(that.Snapshots[:that.Cursor+1:that.Cursor+1], board)
	that.Cursor = len(that.Snapshots) - 1
	that.Version++
}

// Rewind moves the cursor without truncating; truncation happens on the next Append.
func (that *History) Rewind(index int) error {
	if index < 0 || index >= len(that.Snapshots) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrPlyOutOfRange, index, len(that.Snapshots)-1)
	}

	that.Cursor = index
	that.Version++

	return nil
}

func (that *History) Reset() {
	that.Snapshots = []Board{{}}
	that.Cursor = 0
	that.Version++
}

func (that *History) Current() Board {
	return that.Snapshots[that.Cursor]
}

// Ply is the number of moves played up to the cursor.
func (that *History) Ply() int {
	return that.Cursor
}

func (that *History) Len() int {
	return len(that.Snapshots)
}

// NextMark derives whose turn it is from the cursor parity.
func (that *History) NextMark() Mark {
	return MarkForPly(that.Cursor)
}

// All returns a copy of the stored snapshots.
func (that *History) All() []Board {
	return append([]Board(nil), that.Snapshots...)
}
