package eval

import "github.com/halfmove/chesscore/pkg/board"

// centreDistance is the Chebyshev distance from the square to the nearest of
// the four central squares (d4/d5/e4/e5), 0..3.
func centreDistance(sq board.Square) int {
	dist := func(v int) int {
		switch {
		case v <= 3:
			return 3 - v
		default:
			return v - 4
		}
	}

	dr := dist(int(sq.Rank()))
	df := dist(int(sq.File()))
	if df > dr {
		return df
	}
	return dr
}

// PieceSquare returns the white-perspective piece-square component: a small
// centre-distance bonus per piece, scaled by piece kind.
func PieceSquare(pos *board.Position) Score {
	var s Score
	for _, c := range [...]board.Color{board.White, board.Black} {
		sign := Score(1)
		if c == board.Black {
			sign = -1
		}
		for p := board.Pawn; p <= board.King; p++ {
			bb := pos.Piece(c, p)
			for bb != 0 {
				sq := bb.LastPopSquare()
				bb ^= board.BitMask(sq)
				s += sign * Score(5*(4-centreDistance(sq))) * psqtScale(p)
			}
		}
	}
	return s
}

func psqtScale(p board.Piece) Score {
	switch p {
	case board.Pawn:
		return 1
	case board.Knight, board.Bishop:
		return 2
	case board.Queen:
		return 1
	default:
		return 1
	}
}
