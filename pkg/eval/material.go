package eval

import "github.com/halfmove/chesscore/pkg/board"

// NominalValue is the absolute centipawn value of a piece kind. The king's
// value is used only for safety/attack comparisons, never summed into
// material balance.
func NominalValue(p board.Piece) Score {
	switch p {
	case board.Pawn:
		return 100
	case board.Knight:
		return 320
	case board.Bishop:
		return 330
	case board.Rook:
		return 500
	case board.Queen:
		return 900
	case board.King:
		return 20000
	default:
		return 0
	}
}

// NominalValueGain is the material gain of making m, ignoring subsequent
// recapture (used by move ordering, not by Material itself).
func NominalValueGain(m board.Move) Score {
	switch m.Type {
	case board.CapturePromotion:
		return NominalValue(m.Capture) + NominalValue(m.Promotion) - NominalValue(board.Pawn)
	case board.Promotion:
		return NominalValue(m.Promotion) - NominalValue(board.Pawn)
	case board.Capture:
		return NominalValue(m.Capture)
	case board.EnPassant:
		return NominalValue(board.Pawn)
	default:
		return 0
	}
}

// Material returns the white-perspective signed material balance: Σ value of
// white pieces − Σ value of black pieces. King value is excluded since both
// sides always have exactly one.
func Material(pos *board.Position) Score {
	var s Score
	for p := board.Pawn; p < board.King; p++ {
		white := pos.Piece(board.White, p).PopCount()
		black := pos.Piece(board.Black, p).PopCount()
		s += Score(white-black) * NominalValue(p)
	}
	return s
}
