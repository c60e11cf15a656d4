package search

import (
	"github.com/halfmove/chesscore/pkg/board"
	"github.com/halfmove/chesscore/pkg/eval"
)

// SEE estimates the net material gain of playing m, a capture or
// en-passant move, via a one-ply static exchange evaluation: it asks
// whether the mover's landing square is recaptured, and if so by how
// cheap an attacker. This is the "simplified" variant spec.md allows in
// place of a full iterative swap-off list.
func SEE(b *board.Board, m board.Move) eval.Score {
	if !m.IsCapture() {
		return 0
	}

	victim := m.Capture
	if m.Type == board.EnPassant {
		victim = board.Pawn
	}
	gain := eval.NominalValue(victim)

	if !b.PushMove(m) {
		return 0
	}
	defer b.PopMove()

	pos := b.Position()
	mover := m.Piece
	defender := b.Turn() // side to move now is the opponent, who may recapture

	if pos.AttackersTo(m.To, defender) == 0 {
		return gain
	}

	attacker, _ := cheapestAttackerValue(pos, m.To, defender)
	loss := gain - eval.NominalValue(mover)
	if attacker > eval.NominalValue(mover) {
		loss -= (attacker - eval.NominalValue(mover)) / 2
	}
	return loss
}

func cheapestAttackerValue(pos *board.Position, sq board.Square, by board.Color) (eval.Score, bool) {
	attackers := pos.AttackersTo(sq, by)
	if attackers == 0 {
		return 0, false
	}

	best := eval.Score(-1)
	for _, from := range attackers.ToSquares() {
		_, piece, ok := pos.Square(from)
		if !ok {
			continue
		}
		v := eval.NominalValue(piece)
		if best < 0 || v < best {
			best = v
		}
	}
	return best, true
}
