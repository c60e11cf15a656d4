package eval

import "github.com/halfmove/chesscore/pkg/board"

// KingSafety computes the white-perspective king-safety component. Its shape
// differs by phase: pawn shield and whether the king is attacked outside the endgame, king
// centralization once the endgame phase is reached.
func KingSafety(pos *board.Position, phase Phase) Score {
	return kingSafetyFor(pos, board.White, phase) - kingSafetyFor(pos, board.Black, phase)
}

func kingSafetyFor(pos *board.Position, c board.Color, phase Phase) Score {
	king := pos.Piece(c, board.King).LastPopSquare()

	if phase == Endgame {
		return 20 - Score(2*centreDistance(king))
	}

	var s Score
	if pos.IsAttacked(c, king) {
		s -= 50
	} else {
		s += 30
	}

	own := pos.Piece(c, board.Pawn)
	shield := 0
	for _, sq := range board.KingAttackboard(king).ToSquares() {
		if within3Ranks(sq, king) && own.IsSet(sq) {
			shield++
		}
	}
	s += Score(shield) * 20
	return s
}

func within3Ranks(sq, of board.Square) bool {
	dr := int(sq.Rank()) - int(of.Rank())
	if dr < 0 {
		dr = -dr
	}
	return dr <= 3
}
