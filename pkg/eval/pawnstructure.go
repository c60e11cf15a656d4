package eval

import "github.com/halfmove/chesscore/pkg/board"

// PawnStructure computes the white-perspective pawn-structure component:
// doubled, isolated, passed, connected, central, backward, chained, storming,
// islands, rook-pawn, lever and advancement bonuses/penalties.
func PawnStructure(pos *board.Position) Score {
	return pawnStructureFor(pos, board.White) - pawnStructureFor(pos, board.Black)
}

func pawnStructureFor(pos *board.Position, c board.Color) Score {
	own := pos.Piece(c, board.Pawn)
	opp := pos.Piece(c.Opponent(), board.Pawn)

	var s Score
	islands := 0
	prevFileHadPawn := false

	for f := board.ZeroFile; f < board.NumFiles; f++ {
		file := board.BitFile(f)
		count := (own & file).PopCount()

		if count == 0 {
			prevFileHadPawn = false
			continue
		}
		if !prevFileHadPawn {
			islands++
		}
		prevFileHadPawn = true

		if count > 1 {
			s -= 25 * Score(count-1) // doubled
		}

		isolated := true
		if f > 0 && own&board.BitFile(f-1) != 0 {
			isolated = false
		}
		if f < board.NumFiles-1 && own&board.BitFile(f+1) != 0 {
			isolated = false
		}
		if isolated {
			s -= 20
		}
		if f == board.FileA || f == board.FileH {
			s -= 8 // rook pawn
		}
	}
	if islands > 1 {
		s -= 15 * Score(islands-1)
	}

	bb := own
	for bb != 0 {
		sq := bb.LastPopSquare()
		bb ^= board.BitMask(sq)

		if isPassed(sq, c, opp) {
			s += passedPawnBonus(sq, c, own)
		}
		if isConnected(sq, c, own) {
			s += 15
		}
		if isBackward(sq, c, own, opp) {
			s -= 18
		}
		if isChained(sq, c, own) {
			s += 20
		}
		if sq.File() == board.FileD || sq.File() == board.FileE {
			s += 10 // central
		}
		if hasLever(sq, c, opp) {
			s += 12
		}
		s += advancementBonus(sq, c)
		if isStorming(sq, c) {
			s += 25
		}
	}
	return s
}

// isPassed returns true iff no enemy pawn can stop or capture this pawn on
// its way to promotion (its own file and the two adjacent files, ahead of it).
func isPassed(sq board.Square, c board.Color, opp board.Bitboard) bool {
	f := sq.File()
	var files board.Bitboard
	files |= board.BitFile(f)
	if f > 0 {
		files |= board.BitFile(f - 1)
	}
	if f < board.NumFiles-1 {
		files |= board.BitFile(f + 1)
	}

	var ahead board.Bitboard
	if c == board.White {
		for r := sq.Rank() + 1; r < board.NumRanks; r++ {
			ahead |= board.BitRank(r)
		}
	} else {
		for r := board.ZeroRank; r < sq.Rank(); r++ {
			ahead |= board.BitRank(r)
		}
	}
	return opp&files&ahead == 0
}

func passedPawnBonus(sq board.Square, c board.Color, own board.Bitboard) Score {
	advance := int(sq.Rank())
	if c == board.Black {
		advance = int(board.Rank8 - sq.Rank())
	}

	bonus := Score(40 + 8*advance)
	if isConnected(sq, c, own) {
		bonus += 10 // supported passer
	}
	return bonus
}

func isConnected(sq board.Square, c board.Color, own board.Bitboard) bool {
	f := sq.File()
	var neighbors board.Bitboard
	if f > 0 {
		neighbors |= board.BitFile(f - 1)
	}
	if f < board.NumFiles-1 {
		neighbors |= board.BitFile(f + 1)
	}
	around := board.BitRank(sq.Rank())
	return own&neighbors&around != 0
}

func isChained(sq board.Square, c board.Color, own board.Bitboard) bool {
	return board.PawnCaptureboard(c.Opponent(), board.BitMask(sq))&own != 0
}

func isBackward(sq board.Square, c board.Color, own, opp board.Bitboard) bool {
	if isChained(sq, c, own) {
		return false
	}

	forward := board.PawnMoveboard(board.EmptyBitboard, c, board.BitMask(sq))
	if forward == 0 {
		return false
	}
	target := forward.LastPopSquare()
	return board.PawnCaptureboard(c.Opponent(), board.BitMask(target))&opp != 0
}

func hasLever(sq board.Square, c board.Color, opp board.Bitboard) bool {
	return board.PawnCaptureboard(c, board.BitMask(sq))&opp != 0
}

func isStorming(sq board.Square, c board.Color) bool {
	r := int(sq.Rank())
	if c == board.White {
		return r >= 4
	}
	return r <= 3
}

func advancementBonus(sq board.Square, c board.Color) Score {
	advance := int(sq.Rank())
	if c == board.Black {
		advance = int(board.Rank8 - sq.Rank())
	}
	return Score(advance * 25)
}
