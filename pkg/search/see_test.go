package search_test

import (
	"testing"

	"github.com/halfmove/chesscore/pkg/board"
	"github.com/halfmove/chesscore/pkg/eval"
	"github.com/halfmove/chesscore/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestSEE_NonCaptureIsZero(t *testing.T) {
	b := newTestBoard(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	m := board.Move{From: board.E1, To: board.E2, Piece: board.King}
	assert.Equal(t, eval.Score(0), search.SEE(b, m))
}

func TestSEE_UndefendedCaptureWinsFullValue(t *testing.T) {
	// Rook takes an undefended queen: nothing recaptures on d5.
	b := newTestBoard(t, "4k3/8/8/3q4/3R4/8/8/4K3 w - - 0 1")
	m := board.Move{From: board.D4, To: board.D5, Piece: board.Rook, Capture: board.Queen, Type: board.Capture}
	assert.Equal(t, eval.NominalValue(board.Queen), search.SEE(b, m))
}

func TestSEE_DefendedCaptureAccountsForRecapture(t *testing.T) {
	// White rook takes a black knight on d5, but a black pawn on c6
	// recaptures: the exchange nets knight-for-rook, a losing trade.
	b := newTestBoard(t, "4k3/8/2p5/3n4/3R4/8/8/4K3 w - - 0 1")
	m := board.Move{From: board.D4, To: board.D5, Piece: board.Rook, Capture: board.Knight, Type: board.Capture}

	s := search.SEE(b, m)
	assert.Less(t, s, eval.NominalValue(board.Knight))
}

func TestSEE_EnPassantUsesPawnValue(t *testing.T) {
	// Black just played d7-d5; white's e5 pawn captures en passant on d6,
	// removing the d5 pawn, and nothing recaptures on d6.
	b := newTestBoard(t, "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1")
	m := board.Move{From: board.E5, To: board.D6, Piece: board.Pawn, Capture: board.Pawn, Type: board.EnPassant}
	assert.Equal(t, eval.NominalValue(board.Pawn), search.SEE(b, m))
}

func TestSEE_IllegalCaptureLeavesOwnKingInCheckIsZero(t *testing.T) {
	// White rook on c4 is pinned to its own king by the black rook on h4
	// along the 4th rank: taking the knight on c5 steps off the rank and
	// exposes the king, so the move is illegal.
	b := newTestBoard(t, "4k3/8/8/2n5/K1R4r/8/8/8 w - - 0 1")
	m := board.Move{From: board.C4, To: board.C5, Piece: board.Rook, Capture: board.Knight, Type: board.Capture}
	assert.Equal(t, eval.Score(0), search.SEE(b, m))
}
