package eval

import "github.com/halfmove/chesscore/pkg/board"

// Phase classifies the game stage by remaining non-king material.
type Phase uint8

const (
	Opening Phase = iota
	Middlegame
	Endgame
)

func (p Phase) String() string {
	switch p {
	case Opening:
		return "opening"
	case Endgame:
		return "endgame"
	default:
		return "middlegame"
	}
}

// PositionType classifies pawn/piece structure for component weighting.
type PositionType uint8

const (
	Balanced PositionType = iota
	Open
	Closed
	Tactical
)

func (t PositionType) String() string {
	switch t {
	case Open:
		return "open"
	case Closed:
		return "closed"
	case Tactical:
		return "tactical"
	default:
		return "balanced"
	}
}

// nonKingMaterial sums the nominal value of every piece but the kings.
func nonKingMaterial(pos *board.Position) Score {
	var s Score
	for p := board.Pawn; p < board.King; p++ {
		s += Score(pos.Piece(board.White, p).PopCount()+pos.Piece(board.Black, p).PopCount()) * NominalValue(p)
	}
	return s
}

// DetectPhase classifies the game phase from total non-king material left on
// the board, per the opening/middlegame/endgame thresholds.
func DetectPhase(pos *board.Position) Phase {
	m := nonKingMaterial(pos)
	switch {
	case m >= 7800:
		return Opening
	case m <= 2000:
		return Endgame
	default:
		return Middlegame
	}
}

// openFileCount returns the number of files with no pawn of either color.
func openFileCount(pos *board.Position) int {
	count := 0
	for f := board.ZeroFile; f < board.NumFiles; f++ {
		file := board.BitFile(f)
		if pos.Piece(board.White, board.Pawn)&file == 0 && pos.Piece(board.Black, board.Pawn)&file == 0 {
			count++
		}
	}
	return count
}

// totalPieceCount counts every piece on the board, including kings and pawns.
func totalPieceCount(pos *board.Position) int {
	return pos.Color(board.White).PopCount() + pos.Color(board.Black).PopCount()
}

// DetectPositionType classifies the position's structural character, used to
// weight evaluation components per the spec's phase/position-weight table.
func DetectPositionType(pos *board.Position) PositionType {
	pieces := totalPieceCount(pos)
	open := openFileCount(pos)

	switch {
	case pieces < 20 && capturesAvailable(pos) >= 4:
		return Tactical
	case open >= 4:
		return Open
	case open <= 2:
		return Closed
	default:
		return Balanced
	}
}

// capturesAvailable estimates the number of pseudo-legal captures available to
// either side, a cheap proxy for tactical sharpness.
func capturesAvailable(pos *board.Position) int {
	count := 0
	for _, c := range [...]board.Color{board.White, board.Black} {
		opp := pos.Color(c.Opponent())
		for _, piece := range board.KingQueenRookKnightBishop {
			bb := pos.Piece(c, piece)
			for bb != 0 {
				sq := bb.LastPopSquare()
				bb ^= board.BitMask(sq)
				count += (board.Attackboard(pos.Rotated(), sq, piece) & opp).PopCount()
			}
			if count >= 4 {
				return count
			}
		}
	}
	return count
}

// weight looks up the phase/position-type multiplier for a named component,
// per the spec's weight table. A component name missing from the table gets a
// flat 1.0 multiplier, as does a phase or position type missing from a row.
func weight(component string, phase Phase, pt PositionType) float64 {
	table, ok := weights[component]
	if !ok {
		return 1.0
	}

	m := 1.0
	if v, ok := table.byPhase[phase]; ok {
		m *= v
	}
	if v, ok := table.byType[pt]; ok {
		m *= v
	}
	return m
}

type weightRow struct {
	byPhase map[Phase]float64
	byType  map[PositionType]float64
}

var weights = map[string]weightRow{
	"tactical": {
		byPhase: map[Phase]float64{Opening: 0.8, Middlegame: 1.2, Endgame: 0.9},
		byType:  map[PositionType]float64{Closed: 0.9, Open: 1.1, Tactical: 1.3},
	},
	"activity": {
		byPhase: map[Phase]float64{Opening: 1.5, Middlegame: 1.1, Endgame: 1.0},
		byType:  map[PositionType]float64{Open: 1.2},
	},
	"king": {
		byPhase: map[Phase]float64{Opening: 1.2, Endgame: 1.4},
		byType:  map[PositionType]float64{Tactical: 1.1},
	},
	"pawns": {
		byPhase: map[Phase]float64{Endgame: 1.3},
		byType:  map[PositionType]float64{Closed: 1.2},
	},
	"material": {},
}

// positionBonus is the additive phase/position bonus (not a multiplier) that
// the spec layers on top of the weighted component sum.
func positionBonus(b *board.Board, phase Phase, pt PositionType) Score {
	pos := b.Position()

	var bonus Score
	switch phase {
	case Opening:
		if b.HasCastled(board.White) {
			bonus += 50
		}
		if b.HasCastled(board.Black) {
			bonus -= 50
		}
		if pos.Castling().IsAllowed(board.WhiteKingSideCastle | board.WhiteQueenSideCastle) {
			bonus += 50
		}
		if pos.Castling().IsAllowed(board.BlackKingSideCastle | board.BlackQueenSideCastle) {
			bonus -= 50
		}
	case Endgame:
		// No additive bonus in the endgame: king activity and passed pawns
		// are scored only by their own components.
	}

	switch pt {
	case Closed:
		bonus += 50
	case Open:
		bonus += 30
	case Tactical:
		bonus += 100
	case Balanced:
		bonus += 10
	}

	return bonus
}
