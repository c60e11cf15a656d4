package eval

import (
	"context"
	"math/rand"

	"github.com/halfmove/chesscore/pkg/board"
)

// Random is a randomized noise generator, used to add a small amount of
// randomness to evaluations so that repeated games against the same
// opponent don't collapse into an identical line every time. limit bounds
// the centipawn noise to the range [-limit/2; limit-limit/2). The zero value
// always returns zero.
type Random struct {
	rand  *rand.Rand
	limit int
}

func NewRandom(limit int, seed int64) Random {
	return Random{
		limit: limit,
		rand:  rand.New(rand.NewSource(seed)),
	}
}

func (n Random) Evaluate(ctx context.Context, b *board.Board) Score {
	if n.limit <= 0 {
		return 0
	}
	return Score(n.rand.Intn(n.limit) - n.limit/2)
}
