package eval_test

import (
	"testing"

	"github.com/halfmove/chesscore/pkg/board"
	"github.com/halfmove/chesscore/pkg/board/fen"
	"github.com/halfmove/chesscore/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterial_InitialPositionIsBalanced(t *testing.T) {
	pos, _, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	assert.Equal(t, eval.Score(0), eval.Material(pos))
}

func TestMaterial_WhiteUpAQueen(t *testing.T) {
	pos, _, _, _, err := fen.Decode("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	require.NoError(t, err)
	assert.Equal(t, eval.NominalValue(board.Queen), eval.Material(pos))
}

func TestMaterial_BlackUpARook(t *testing.T) {
	pos, _, _, _, err := fen.Decode("3rk3/8/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)
	assert.Equal(t, -eval.NominalValue(board.Rook), eval.Material(pos))
}

func TestNominalValueGain(t *testing.T) {
	capture := board.Move{Type: board.Capture, Capture: board.Knight}
	assert.Equal(t, eval.NominalValue(board.Knight), eval.NominalValueGain(capture))

	promotion := board.Move{Type: board.Promotion, Promotion: board.Queen}
	assert.Equal(t, eval.NominalValue(board.Queen)-eval.NominalValue(board.Pawn), eval.NominalValueGain(promotion))

	capturePromotion := board.Move{Type: board.CapturePromotion, Capture: board.Rook, Promotion: board.Queen}
	assert.Equal(t,
		eval.NominalValue(board.Rook)+eval.NominalValue(board.Queen)-eval.NominalValue(board.Pawn),
		eval.NominalValueGain(capturePromotion))

	enPassant := board.Move{Type: board.EnPassant}
	assert.Equal(t, eval.NominalValue(board.Pawn), eval.NominalValueGain(enPassant))

	quiet := board.Move{Type: board.Normal}
	assert.Equal(t, eval.Score(0), eval.NominalValueGain(quiet))
}
