package search

import (
	"context"

	"github.com/halfmove/chesscore/pkg/board"
	"github.com/halfmove/chesscore/pkg/eval"
)

// evaluate returns the side-to-move-relative static score for b, using the
// Context's composite evaluator plus its configured noise term (used to
// vary otherwise-deterministic play across games).
func evaluate(ctx context.Context, sctx *Context, b *board.Board) eval.Score {
	s := eval.PerspectiveScore(sctx.Evaluator.Evaluate(ctx, b), b.Turn())
	s += sctx.Noise.Evaluate(ctx, b)
	if sctx.Ordering != nil {
		sctx.Ordering.RecordEvaluation()
	}
	return s
}
