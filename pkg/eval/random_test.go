package eval_test

import (
	"context"
	"testing"

	"github.com/halfmove/chesscore/pkg/board"
	"github.com/halfmove/chesscore/pkg/board/fen"
	"github.com/halfmove/chesscore/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandom_ZeroValueIsAlwaysZero(t *testing.T) {
	var n eval.Random
	b := newRandomTestBoard(t)
	for i := 0; i < 10; i++ {
		assert.Equal(t, eval.Score(0), n.Evaluate(context.Background(), b))
	}
}

func TestRandom_NewRandomBoundedByLimit(t *testing.T) {
	n := eval.NewRandom(20, 1)
	b := newRandomTestBoard(t)
	for i := 0; i < 100; i++ {
		s := n.Evaluate(context.Background(), b)
		assert.GreaterOrEqual(t, s, eval.Score(-10))
		assert.Less(t, s, eval.Score(10))
	}
}

func TestRandom_ZeroLimitIsZero(t *testing.T) {
	n := eval.NewRandom(0, 1)
	b := newRandomTestBoard(t)
	assert.Equal(t, eval.Score(0), n.Evaluate(context.Background(), b))
}

func newRandomTestBoard(t *testing.T) *board.Board {
	t.Helper()
	pos, turn, noprogress, fullmoves, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	zt := board.NewZobristTable(1)
	return board.NewBoard(zt, pos, turn, noprogress, fullmoves)
}
