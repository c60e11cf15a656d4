package eval_test

import (
	"testing"

	"github.com/halfmove/chesscore/pkg/board/fen"
	"github.com/halfmove/chesscore/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectPhase_InitialPositionIsOpening(t *testing.T) {
	pos, _, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	assert.Equal(t, eval.Opening, eval.DetectPhase(pos))
}

func TestDetectPhase_BareKingsIsEndgame(t *testing.T) {
	pos, _, _, _, err := fen.Decode("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)
	assert.Equal(t, eval.Endgame, eval.DetectPhase(pos))
}

func TestDetectPhase_ReducedMaterialIsMiddlegame(t *testing.T) {
	// Non-king material totals 2900 (white: 2 rooks + queen; black: 2
	// rooks), comfortably inside the (2000, 7800) middlegame band.
	pos, _, _, _, err := fen.Decode("r3k2r/8/8/8/8/8/8/R2QK2R w KQkq - 0 1")
	require.NoError(t, err)
	assert.Equal(t, eval.Middlegame, eval.DetectPhase(pos))
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "opening", eval.Opening.String())
	assert.Equal(t, "middlegame", eval.Middlegame.String())
	assert.Equal(t, "endgame", eval.Endgame.String())
}

func TestPositionType_String(t *testing.T) {
	assert.Equal(t, "balanced", eval.Balanced.String())
	assert.Equal(t, "open", eval.Open.String())
	assert.Equal(t, "closed", eval.Closed.String())
	assert.Equal(t, "tactical", eval.Tactical.String())
}
