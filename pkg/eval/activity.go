package eval

import "github.com/halfmove/chesscore/pkg/board"

// backRank returns the home rank for a color's officers.
func backRank(c board.Color) board.Rank {
	if c == board.White {
		return board.Rank1
	}
	return board.Rank8
}

// Activity estimates piece mobility, space, development, and the bishop-pair
// /outpost bonuses, white-perspective.
func Activity(pos *board.Position) Score {
	var s Score
	for _, c := range [...]board.Color{board.White, board.Black} {
		sign := Score(1)
		if c == board.Black {
			sign = -1
		}
		s += sign * activityFor(pos, c)
	}
	return s
}

func activityFor(pos *board.Position, c board.Color) Score {
	var s Score
	own := pos.Color(c)

	for _, piece := range [...]board.Piece{board.Knight, board.Bishop, board.Rook, board.Queen} {
		bb := pos.Piece(c, piece)
		for bb != 0 {
			sq := bb.LastPopSquare()
			bb ^= board.BitMask(sq)

			mobility := (board.Attackboard(pos.Rotated(), sq, piece) &^ own).PopCount()
			s += Score(mobility)

			if sq.Rank() >= board.Rank3 && sq.Rank() <= board.Rank6 {
				s += 2 // space
			}
			if (piece == board.Knight || piece == board.Bishop) && sq.Rank() != backRank(c) {
				s += 10 // development
			}
		}
	}

	if pos.Piece(c, board.Bishop).PopCount() >= 2 {
		s += 30 // bishop pair
	}

	s += knightOutposts(pos, c)
	s += centreOccupation(pos, c)
	return s
}

// knightOutposts rewards knights on the 6th rank (White) or 3rd rank (Black)
// that are defended by one of their own pawns. Whether an enemy pawn could
// later attack the square is not checked.
func knightOutposts(pos *board.Position, c board.Color) Score {
	outpostRank := board.Rank6
	if c == board.Black {
		outpostRank = board.Rank3
	}

	var s Score
	bb := pos.Piece(c, board.Knight)
	for bb != 0 {
		sq := bb.LastPopSquare()
		bb ^= board.BitMask(sq)

		if sq.Rank() != outpostRank {
			continue
		}
		if board.PawnCaptureboard(c.Opponent(), board.BitMask(sq))&pos.Piece(c, board.Pawn) != 0 {
			s += 20
		}
	}
	return s
}

// centreOccupation rewards non-pawn pieces physically sitting on d4/d5/e4/e5.
func centreOccupation(pos *board.Position, c board.Color) Score {
	centre := board.BitMask(board.NewSquare(board.FileD, board.Rank4)) |
		board.BitMask(board.NewSquare(board.FileE, board.Rank4)) |
		board.BitMask(board.NewSquare(board.FileD, board.Rank5)) |
		board.BitMask(board.NewSquare(board.FileE, board.Rank5))

	var s Score
	for p := board.Bishop; p <= board.King; p++ {
		if (pos.Piece(c, p) & centre) != 0 {
			s += 15
		}
	}
	return s
}
