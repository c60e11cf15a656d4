package eval

import "github.com/halfmove/chesscore/pkg/board"

// endgameClass names the specialized endgame evaluator a position falls into,
// decided by which piece kinds remain on the board.
type endgameClass int

const (
	classMixed endgameClass = iota
	classKingPawn
	classRookPawn
	classQueen
	classBishop
	classKnight
)

func classify(pos *board.Position) endgameClass {
	var rooks, queens, bishops, knights int
	for _, c := range [...]board.Color{board.White, board.Black} {
		rooks += pos.Piece(c, board.Rook).PopCount()
		queens += pos.Piece(c, board.Queen).PopCount()
		bishops += pos.Piece(c, board.Bishop).PopCount()
		knights += pos.Piece(c, board.Knight).PopCount()
	}

	switch {
	case rooks == 0 && queens == 0 && bishops == 0 && knights == 0:
		return classKingPawn
	case rooks > 0 && queens == 0 && bishops == 0 && knights == 0:
		return classRookPawn
	case queens > 0 && rooks == 0 && bishops == 0 && knights == 0:
		return classQueen
	case bishops > 0 && rooks == 0 && queens == 0 && knights == 0:
		return classBishop
	case knights > 0 && rooks == 0 && queens == 0 && bishops == 0:
		return classKnight
	default:
		return classMixed
	}
}

// EndgameScore supplies the specialized endgame knowledge components: king
// activity, opposition, and passed-pawn-with-king-support. Only meaningful
// once DetectPhase has already classified the position as Endgame; outside
// the endgame phase the composite evaluator gives this component a zero
// weight instead of a zero return here, so this always computes.
func EndgameScore(pos *board.Position) Score {
	var s Score
	s += kingActivity(pos, board.White) - kingActivity(pos, board.Black)
	s += oppositionBonus(pos)
	s += passedPawnSupport(pos, board.White) - passedPawnSupport(pos, board.Black)
	s += classBonus(pos)
	return s
}

func kingActivity(pos *board.Position, c board.Color) Score {
	king := pos.Piece(c, board.King).LastPopSquare()
	return Score(3 * (3 - centreDistance(king)))
}

// oppositionBonus rewards the side to... well, opposition has no side to
// move dependency in static eval: it rewards whichever king has the "far"
// side of a same-file, even-rank-gap standoff, the classic king-and-pawn
// opposition motif.
func oppositionBonus(pos *board.Position) Score {
	wk := pos.Piece(board.White, board.King).LastPopSquare()
	bk := pos.Piece(board.Black, board.King).LastPopSquare()

	if wk.File() != bk.File() {
		return 0
	}
	gap := int(wk.Rank()) - int(bk.Rank())
	if gap < 0 {
		gap = -gap
	}
	if gap%2 != 0 || gap == 0 {
		return 0
	}
	// Even gap on the same file: the side NOT to be forced to move away
	// holds the opposition. Without a side-to-move argument, award it to
	// the king further from the board edge (slightly more central).
	if centreDistance(wk) < centreDistance(bk) {
		return 25
	}
	return -25
}

func passedPawnSupport(pos *board.Position, c board.Color) Score {
	own := pos.Piece(c, board.Pawn)
	opp := pos.Piece(c.Opponent(), board.Pawn)
	king := pos.Piece(c, board.King).LastPopSquare()

	var s Score
	bb := own
	for bb != 0 {
		sq := bb.LastPopSquare()
		bb ^= board.BitMask(sq)

		if !isPassed(sq, c, opp) {
			continue
		}
		d := fileRankDistance(sq, king)
		s += Score(30 - 5*d)
	}
	return s
}

func fileRankDistance(a, b board.Square) int {
	df := int(a.File()) - int(b.File())
	if df < 0 {
		df = -df
	}
	dr := int(a.Rank()) - int(b.Rank())
	if dr < 0 {
		dr = -dr
	}
	if df > dr {
		return df
	}
	return dr
}

// classBonus applies small, class-specific knowledge: rook behind a passed
// pawn, a lone wrong-colored bishop unable to support its rook pawn, and so
// on. Kept intentionally small — these are corrections to the generic
// evaluators above, not a full tablebase substitute.
func classBonus(pos *board.Position) Score {
	var s Score
	switch classify(pos) {
	case classRookPawn:
		s += rookBehindPassedPawn(pos, board.White) - rookBehindPassedPawn(pos, board.Black)
	case classBishop:
		s += wrongBishopPenalty(pos, board.White) - wrongBishopPenalty(pos, board.Black)
	}
	return s
}

func rookBehindPassedPawn(pos *board.Position, c board.Color) Score {
	own := pos.Piece(c, board.Pawn)
	opp := pos.Piece(c.Opponent(), board.Pawn)
	rooks := pos.Piece(c, board.Rook)

	var s Score
	bb := own
	for bb != 0 {
		sq := bb.LastPopSquare()
		bb ^= board.BitMask(sq)
		if !isPassed(sq, c, opp) {
			continue
		}
		if rooks&board.BitFile(sq.File()) != 0 {
			s += 20
		}
	}
	return s
}

// wrongBishopPenalty detects the classic drawn ending: a single bishop and
// an edge pawn where the bishop cannot control the pawn's promotion square.
func wrongBishopPenalty(pos *board.Position, c board.Color) Score {
	bishops := pos.Piece(c, board.Bishop)
	if bishops.PopCount() != 1 {
		return 0
	}
	pawns := pos.Piece(c, board.Pawn)
	if pawns&board.BitFile(board.FileA) == 0 && pawns&board.BitFile(board.FileH) == 0 {
		return 0
	}

	bishopSq := bishops.LastPopSquare()
	bishopLight := (int(bishopSq.Rank())+int(bishopSq.File()))%2 == 0

	promoRank := board.Rank8
	if c == board.Black {
		promoRank = board.Rank1
	}

	var penalty Score
	if pawns&board.BitFile(board.FileA) != 0 {
		promoSq := board.NewSquare(board.FileA, promoRank)
		promoLight := (int(promoSq.Rank())+int(promoSq.File()))%2 == 0
		if promoLight != bishopLight {
			penalty -= 60
		}
	}
	if pawns&board.BitFile(board.FileH) != 0 {
		promoSq := board.NewSquare(board.FileH, promoRank)
		promoLight := (int(promoSq.Rank())+int(promoSq.File()))%2 == 0
		if promoLight != bishopLight {
			penalty -= 60
		}
	}
	return penalty
}
