// Package book implements a hard-coded opening book (spec.md §4.6): a fixed
// set of opening lines, played out once at construction from the initial
// position to build a Zobrist-keyed move table, consulted at the live search
// root while still within book range.
package book

import (
	"math/rand"
	"strings"

	"github.com/halfmove/chesscore/pkg/board"
	"github.com/halfmove/chesscore/pkg/board/fen"
)

// MaxFullmoves gates book consultation: the book is only consulted while
// root.fullmove_number <= MaxFullmoves (spec.md §4.6).
const MaxFullmoves = 12

// Line is one opening line, given as a sequence of coordinate moves played
// from the initial position (e.g. "e2e4").
type Line []string

func (l Line) String() string {
	return strings.Join(l, " ")
}

// packed is the book's in-memory move representation: just enough to match
// against a live pseudo-legal move, not a full board.Move (no captured
// piece, no move-type tag -- those are reconstructed from the live position).
type packed struct {
	From, To  board.Square
	Promotion board.Piece
}

// Book is a Zobrist-keyed map from position to the candidate replies known
// at that position, merged across every line that passes through it.
type Book struct {
	replies map[board.ZobristHash][]packed
}

// New builds a Book by replaying lines against a fresh board using zt. Every
// prefix position of every line contributes its next move to that
// position's reply list (so two lines sharing an opening contribute to the
// same entry), deduplicated.
func New(zt *board.ZobristTable, lines []Line) (*Book, error) {
	replies := map[board.ZobristHash][]packed{}
	seen := map[board.ZobristHash]map[packed]bool{}

	for _, line := range lines {
		pos, turn, _, _, err := fen.Decode(fen.Initial)
		if err != nil {
			return nil, err
		}
		b := board.NewBoard(zt, pos, turn, 0, 1)

		for _, str := range line {
			m, err := board.ParseMove(str)
			if err != nil {
				return nil, err
			}

			candidates := b.Position().PseudoLegalMoves(b.Turn())
			var match board.Move
			found := false
			for _, c := range candidates {
				if c.From == m.From && c.To == m.To && c.Promotion == m.Promotion {
					match, found = c, true
					break
				}
			}
			if !found {
				return nil, &LineError{Line: line, Move: str}
			}

			hash := b.Hash()
			p := packed{From: match.From, To: match.To, Promotion: match.Promotion}
			if seen[hash] == nil {
				seen[hash] = map[packed]bool{}
			}
			if !seen[hash][p] {
				seen[hash][p] = true
				replies[hash] = append(replies[hash], p)
			}

			if !b.PushMove(match) {
				return nil, &LineError{Line: line, Move: str}
			}
		}
	}

	return &Book{replies: replies}, nil
}

// LineError reports a hard-coded opening line that doesn't correspond to a
// sequence of legal moves; a construction-time bug in lines.go.
type LineError struct {
	Line Line
	Move string
}

func (e *LineError) Error() string {
	return "book: invalid line " + e.Line.String() + ": move " + e.Move + " not legal"
}

// Select returns a uniformly-chosen legal reply to b's current position, if
// the book has one and b is still within book range. Packed replies that no
// longer match a legal move (shouldn't happen, given New's validation, but
// cheap to guard) are skipped in favor of the next candidate.
func (bk *Book) Select(b *board.Board, rng *rand.Rand) (board.Move, bool) {
	if b.FullMoves() > MaxFullmoves {
		return board.Move{}, false
	}

	candidates := bk.replies[b.Hash()]
	if len(candidates) == 0 {
		return board.Move{}, false
	}

	legal := b.Position().PseudoLegalMoves(b.Turn())
	for _, idx := range rng.Perm(len(candidates)) {
		p := candidates[idx]
		for _, m := range legal {
			if m.From == p.From && m.To == p.To && m.Promotion == p.Promotion {
				return m, true
			}
		}
	}
	return board.Move{}, false
}
