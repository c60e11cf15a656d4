package search

import (
	"context"

	"github.com/halfmove/chesscore/pkg/board"
	"github.com/halfmove/chesscore/pkg/eval"
)

// QMaxDepth bounds how deep quiescence search may recurse below the
// horizon, guaranteeing termination (spec.md §4.4.3, §8 invariant 6).
const QMaxDepth = 8

// deltaMargin is the "even a queen capture can't help" cutoff quiescence
// uses to skip evaluating hopeless positions outright.
const deltaMargin = 900

// captureDeltaMargin is the per-capture margin added to the delta-pruning
// test to avoid excluding sequences that reach but don't exceed alpha.
const captureDeltaMargin = 200

// seeFloor is the minimum tolerated SEE for a tactical move to be searched
// at all in quiescence.
const seeFloor = -50

// quiescence runs the evaluate-and-capture-only search at the horizon. It
// returns the side-to-move-relative score. depth counts down from 0 and is
// clamped at -QMaxDepth.
func quiescence(ctx context.Context, sctx *Context, b *board.Board, alpha, beta eval.Score, depth int) eval.Score {
	sctx.stats.nodes.Add(1)

	if sctx.Cancel != nil && sctx.stats.nodes.Load()%NodesCheckInterval == 0 && sctx.Cancel.ShouldStop() {
		return evaluate(ctx, sctx, b)
	}

	if b.Position().IsChecked(b.Turn()) {
		return quiescenceEvasion(ctx, sctx, b, alpha, beta, depth)
	}

	stand := evaluate(ctx, sctx, b)
	if stand >= beta {
		return beta
	}
	if stand > alpha {
		alpha = stand
	}
	if stand+deltaMargin < alpha {
		return alpha
	}
	if depth <= -QMaxDepth {
		return alpha
	}

	moves := tacticalMoves(b, depth)
	board.SortByPriority(moves, func(m board.Move) board.MovePriority {
		return board.MovePriority(1000*eval.NominalValueGain(m) - eval.NominalValue(m.Piece))
	})

	for _, m := range moves {
		if m.IsCapture() {
			victim := m.Capture
			if m.Type == board.EnPassant {
				victim = board.Pawn
			}
			if stand+eval.NominalValue(victim)+captureDeltaMargin < alpha {
				continue
			}
			if SEE(b, m) < seeFloor {
				continue
			}
		}

		if !b.PushMove(m) {
			continue
		}
		score := -quiescence(ctx, sctx, b, -beta, -alpha, depth-1)
		b.PopMove()

		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			return beta
		}
	}
	return alpha
}

// quiescenceEvasion searches every legal move as a check evasion; quiescence
// does not stand pat while in check. A perpetual-check line would otherwise
// recurse through quiescence/quiescenceEvasion forever, so this enforces the
// same -QMaxDepth bound the non-check branch of quiescence does.
func quiescenceEvasion(ctx context.Context, sctx *Context, b *board.Board, alpha, beta eval.Score, depth int) eval.Score {
	if depth <= -QMaxDepth {
		return evaluate(ctx, sctx, b)
	}

	turn := b.Turn()
	moves := b.Position().PseudoLegalMoves(turn)

	hasLegal := false
	for _, m := range moves {
		if !b.PushMove(m) {
			continue
		}
		hasLegal = true
		score := -quiescence(ctx, sctx, b, -beta, -alpha, depth-1)
		b.PopMove()

		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			return beta
		}
	}

	if !hasLegal {
		return -eval.Mate + eval.Score(mateSearchPly(depth))
	}
	return alpha
}

// mateSearchPly approximates the ply count for mate-distance scoring inside
// quiescence, where depth runs negative from the horizon.
func mateSearchPly(depth int) int {
	if depth >= 0 {
		return depth
	}
	return -depth
}

// tacticalMoves returns captures, promotions, and — within two plies of the
// quiescence root — non-capture checks.
func tacticalMoves(b *board.Board, depth int) []board.Move {
	all := b.Position().PseudoLegalMoves(b.Turn())

	var ret []board.Move
	for _, m := range all {
		if m.IsCapture() || m.IsPromotion() {
			ret = append(ret, m)
			continue
		}
		if depth > -2 && m.IsQuiet() && givesCheck(b, m) {
			ret = append(ret, m)
		}
	}
	return ret
}
