package eval_test

import (
	"testing"

	"github.com/halfmove/chesscore/pkg/board"
	"github.com/halfmove/chesscore/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_IsMate(t *testing.T) {
	assert.True(t, (eval.Mate).IsMate())
	assert.True(t, (eval.MateThreshold + 1).IsMate())
	assert.False(t, (eval.MateThreshold).IsMate())
	assert.False(t, eval.Score(0).IsMate())
	assert.True(t, (-eval.MateThreshold - 1).IsMate())
}

func TestScore_MateDistance(t *testing.T) {
	d, ok := (eval.Mate - 1).MateDistance()
	require.True(t, ok)
	assert.Equal(t, 1, d)

	d, ok = (-eval.Mate + 1).MateDistance()
	require.True(t, ok)
	assert.Equal(t, -1, d)

	_, ok = eval.Score(100).MateDistance()
	assert.False(t, ok)
}

func TestScore_Unit(t *testing.T) {
	assert.Equal(t, eval.Score(1), eval.Unit(board.White))
	assert.Equal(t, eval.Score(-1), eval.Unit(board.Black))
}

func TestScore_Crop(t *testing.T) {
	assert.Equal(t, eval.MaxScore, eval.Crop(eval.MaxScore+1000))
	assert.Equal(t, eval.MinScore, eval.Crop(eval.MinScore-1000))
	assert.Equal(t, eval.Score(42), eval.Crop(42))
	// Mate scores lie inside [MinScore, MaxScore] and must pass through
	// uncropped.
	assert.Equal(t, eval.Mate, eval.Crop(eval.Mate))
}

func TestScore_MaxMin(t *testing.T) {
	assert.Equal(t, eval.Score(5), eval.Max(5, 3))
	assert.Equal(t, eval.Score(3), eval.Min(5, 3))
}

func TestScore_String(t *testing.T) {
	assert.Equal(t, "1.00", eval.Score(100).String())
	assert.Contains(t, (eval.Mate - 1).String(), "mate(")
	assert.Contains(t, (-eval.Mate + 1).String(), "-mate(")
}
