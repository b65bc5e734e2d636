package movesource

import (
	"context"
	"errors"
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

var ErrNoAvailableMoves = errors.New("no available moves")

// MoveSource supplies a cell index for the non-human player. The answer gets
// no special trust: callers validate it like any other move.
type MoveSource interface {
	RequestMove(ctx context.Context, board entity.Board) (int, error)
}

// Func adapts a plain function to MoveSource.
type Func func(ctx context.Context, board entity.Board) (int, error)

func (that Func) RequestMove(ctx context.Context, board entity.Board) (int, error) {
	return that(ctx, board)
}

// PickRandom returns a random free cell.
func PickRandom(board entity.Board) (int, error) {
	availableCells := board.FreeCells()
	if len(availableCells) == 0 {
		return -1, ErrNoAvailableMoves
	}

	return availableCells[rand.Intn(len(availableCells))], nil //nolint: gosec // it's ok
}

// Random is a MoveSource that plays a random free cell.
var Random = Func(func(_ context.Context, board entity.Board) (int, error) {
	return PickRandom(board)
})
