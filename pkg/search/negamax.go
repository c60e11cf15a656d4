package search

import (
	"context"

	"github.com/halfmove/chesscore/pkg/board"
	"github.com/halfmove/chesscore/pkg/eval"
)

// Null-move pruning parameters.
const (
	nullMoveMinDepth  = 3
	nullMoveReduction = 3
)

// Razoring and reverse-futility margins.
const (
	razorMaxDepth           = 2
	razorMargin             = 800
	reverseFutilityMaxDepth = 3
	reverseFutilityMargin   = 1200
)

// Late-move reduction tuning (spec.md §4.4.2).
const (
	lmrSkipMoves           = 3
	lmrMinDepth            = 3
	lmrAggressiveThreshold = 6
	lmrDepthThreshold      = 12
	lmrMaxReduction        = 3
)

// Late-move pruning tuning.
const (
	lmpMaxDepth      = 8
	lmpMoveThreshold = 12
)

// maxExtension caps how many plies of search extension (check, singular,
// promotion) a single line may accumulate, bounding the worst-case tree blowup.
const maxExtension = 2

// futilityMargin[d] is the margin added to a static eval at depth d (1-based,
// index 0 unused) to decide whether quiet moves can be skipped outright.
var futilityMargin = [...]eval.Score{0, 200, 300, 500, 800, 1200, 1700}

// negamaxSearcher implements Searcher as a PVS/negamax tree walk with the
// pruning and reduction package spec.md §4.4.2 describes.
type negamaxSearcher struct{}

// NewSearcher returns the default negamax/PVS Searcher.
func NewSearcher() Searcher {
	return negamaxSearcher{}
}

func (negamaxSearcher) Search(ctx context.Context, sctx *Context, b *board.Board, depth int, alpha, beta eval.Score) (uint64, eval.Score, []board.Move, error) {
	before := sctx.stats.nodes.Load()
	var pv []board.Move
	score := negamax(ctx, sctx, b, depth, 0, alpha, beta, &pv, true, 0)
	if sctx.Cancel != nil && sctx.Cancel.ShouldStop() {
		return sctx.stats.nodes.Load() - before, score, pv, ErrHalted
	}
	return sctx.stats.nodes.Load() - before, score, pv, nil
}

// negamax implements the 12-step node contract: time check, draw detection,
// TT probe, horizon cutoff into quiescence, static eval, reverse futility
// pruning, razoring, null-move pruning, move generation/ordering, the main
// PVS loop (extensions, LMR, LMP, futility), and the TT store.
func negamax(ctx context.Context, sctx *Context, b *board.Board, depth, ply int, alpha, beta eval.Score, pv *[]board.Move, allowNull bool, extsUsed int) eval.Score {
	// (1) Time / cancellation check, every NodesCheckInterval nodes.
	n := sctx.stats.nodes.Add(1)
	if sctx.Cancel != nil && n%NodesCheckInterval == 0 && sctx.Cancel.ShouldStop() {
		return evaluate(ctx, sctx, b)
	}

	isPV := beta-alpha > 1
	inCheck := b.Position().IsChecked(b.Turn())

	// (2) Draw detection.
	if ply > 0 {
		if r := b.Result(); r.Outcome == board.Draw {
			return eval.Draw
		}
	}

	// (3) Transposition table probe.
	hash := b.Hash()
	var ttMove board.Move
	var hasTTMove bool
	if sctx.TT != nil {
		sctx.stats.ttProbes.Add(1)
		if e, ok := sctx.TT.Probe(hash); ok {
			ttMove, hasTTMove = e.Move, e.HasMove
			if e.Depth >= depth && ply > 0 {
				sctx.stats.ttHits.Add(1)
				switch e.Bound {
				case ExactBound:
					return e.Score
				case LowerBound:
					if e.Score >= beta {
						return e.Score
					}
				case UpperBound:
					if e.Score <= alpha {
						return e.Score
					}
				}
			}
		}
	}

	// (4) Horizon: drop into quiescence search.
	if depth <= 0 {
		return quiescence(ctx, sctx, b, alpha, beta, 0)
	}

	// (5) Static evaluation, used by the pruning heuristics below.
	staticEval := evaluate(ctx, sctx, b)

	if !isPV && !inCheck {
		// (6) Reverse futility pruning: a position so good even after giving
		// the opponent a free tempo-sized margin cuts off a shallow subtree.
		if depth <= reverseFutilityMaxDepth && staticEval >= beta+reverseFutilityMargin {
			sctx.stats.reverseFutility.Add(1)
			return staticEval
		}

		// (7) Razoring: a position so bad it's not worth a full search; fall
		// through to quiescence to confirm there's no tactical save.
		if depth <= razorMaxDepth && staticEval+razorMargin < alpha {
			sctx.stats.razorCutoffs.Add(1)
			q := quiescence(ctx, sctx, b, alpha, beta, 0)
			if q < alpha {
				return q
			}
		}

		// (8) Null-move pruning: let the opponent move twice in a row; if
		// we're still winning we can safely prune.
		if allowNull && depth >= nullMoveMinDepth && staticEval >= beta && !zugzwangRisk(b.Position(), b.Turn()) {
			b.PushNullMove()
			var nullPV []board.Move
			score := -negamax(ctx, sctx, b, depth-1-nullMoveReduction, ply+1, -beta, -beta+1, &nullPV, false, extsUsed)
			b.PopNullMove()
			if score >= beta {
				sctx.stats.nullMoveCutoffs.Add(1)
				return score
			}
		}
	}

	// (9) Legal move enumeration.
	candidates := b.Position().PseudoLegalMoves(b.Turn())
	if len(candidates) == 0 {
		return staleOrMateScore(b, ply)
	}

	ordering := board.NewMoveList(candidates, func(m board.Move) board.MovePriority {
		return sctx.Ordering.Score(b, ply, m, ttMove, hasTTMove)
	})

	best := eval.NegInf
	var bestMove board.Move
	hasBestMove := false
	bound := UpperBound
	legal := 0

	for {
		m, ok := ordering.Next()
		if !ok {
			break
		}
		if !b.PushMove(m) {
			continue
		}
		legal++

		quiet := m.IsQuiet()
		gives := b.Position().IsChecked(b.Turn()) // m already applied: checks the mover we just displaced
		threat := quiet && ThreatensAfterMove(b, m)
		ext := 0
		if gives && extsUsed < maxExtension {
			ext = 1
		} else if m.IsPromotion() && m.Promotion == board.Queen && extsUsed < maxExtension {
			ext = 1
		}

		// (10) Late-move pruning: in the late game tree, skip further quiet
		// moves outright once several have already failed to raise alpha.
		if !isPV && !inCheck && quiet && ext == 0 && depth <= lmpMaxDepth && legal > lmpMoveThreshold {
			b.PopMove()
			sctx.stats.lateMovePrunes.Add(1)
			continue
		}

		// (11) Futility pruning: a quiet move can't possibly recover enough
		// material/positional ground to matter near the horizon.
		if !isPV && !inCheck && quiet && ext == 0 && depth > 0 && depth < len(futilityMargin) &&
			staticEval+futilityMargin[depth] <= alpha {
			b.PopMove()
			sctx.stats.futilitySkips.Add(1)
			continue
		}

		reduction := 0
		if quiet && ext == 0 && legal > lmrSkipMoves && depth >= lmrMinDepth {
			reduction = 1
			if legal > lmrAggressiveThreshold {
				reduction++
			}
			if depth >= lmrDepthThreshold {
				reduction++
			}
			if reduction > lmrMaxReduction {
				reduction = lmrMaxReduction
			}
			if reduction > depth-1 {
				reduction = depth - 1
			}
		}

		childDepth := depth - 1 + ext
		childExts := extsUsed + ext
		var childPV []board.Move
		var score eval.Score

		if legal == 1 {
			score = -negamax(ctx, sctx, b, childDepth, ply+1, -beta, -alpha, &childPV, true, childExts)
		} else {
			// Search with a reduced/null window first; re-search on fail-high.
			searchDepth := childDepth - reduction
			if searchDepth < 0 {
				searchDepth = 0
			}
			score = -negamax(ctx, sctx, b, searchDepth, ply+1, -alpha-1, -alpha, &childPV, true, childExts)
			if score > alpha && (reduction > 0 || isPV) {
				if reduction > 0 {
					sctx.stats.lateMoveReduced.Add(1)
				}
				score = -negamax(ctx, sctx, b, childDepth, ply+1, -beta, -alpha, &childPV, true, childExts)
			}
		}

		b.PopMove()

		if quiet {
			sctx.Ordering.RecordQuietSearched(b.Turn(), m)
		}

		if score > best {
			best = score
			bestMove = m
			hasBestMove = true
			*pv = append([]board.Move{m}, childPV...)
		}
		if score > alpha {
			alpha = score
			bound = ExactBound
		}
		if alpha >= beta {
			bound = LowerBound
			if quiet {
				killers := sctx.Ordering.Killers(ply)
				if killers[0].Equals(m) || killers[1].Equals(m) {
					sctx.stats.killerHits.Add(1)
				} else if sctx.Ordering.History(b.Turn(), m.From, m.To) > 0 {
					sctx.stats.historyHits.Add(1)
				}
				if last, ok := b.LastMove(); ok {
					if cm, ok := sctx.Ordering.Countermove(last); ok && cm.Equals(m) {
						sctx.stats.countermoveHits.Add(1)
					}
					sctx.Ordering.UpdateCountermove(last, m)
				}

				sctx.Ordering.UpdateKillers(ply, m)
				sctx.Ordering.UpdateHistory(b.Turn(), m, depth)
				if threat {
					sctx.Ordering.UpdateThreat(b.Turn(), m, depth)
				}
				if prev, ok := b.PenultimateMove(); ok {
					sctx.Ordering.UpdateFollowup(prev, m)
				}
			}
			break
		}
	}

	if legal == 0 {
		return staleOrMateScore(b, ply)
	}
	if !hasBestMove {
		// Every legal move was pruned (late-move or futility pruning): fail
		// low with the static evaluation those pruning tests were based on.
		best = staticEval
	}

	// (12) Transposition table store.
	if sctx.TT != nil {
		sctx.TT.Store(hash, bound, depth, best, bestMove, hasBestMove)
	}

	return best
}

// zugzwangRisk reports whether c has only king and pawns left, the classic
// case where a null move's "free tempo" assumption doesn't hold.
func zugzwangRisk(pos *board.Position, c board.Color) bool {
	for _, p := range [...]board.Piece{board.Queen, board.Rook, board.Bishop, board.Knight} {
		if pos.Piece(c, p) != 0 {
			return false
		}
	}
	return true
}

// staleOrMateScore resolves the score of a position with no legal moves:
// checkmate (a mate score adjusted for distance from root) or stalemate.
func staleOrMateScore(b *board.Board, ply int) eval.Score {
	if b.Position().IsChecked(b.Turn()) {
		return eval.LossIn(ply)
	}
	return eval.Draw
}
