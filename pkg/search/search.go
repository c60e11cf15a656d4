// Package search contains the negamax/PVS search engine core: transposition
// table, move ordering, quiescence search and the iterative-deepening node
// contract.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/halfmove/chesscore/pkg/board"
	"github.com/halfmove/chesscore/pkg/eval"
)

// ErrHalted indicates that the search was halted before completing the
// requested depth.
var ErrHalted = errors.New("search halted")

// PV represents the principal variation found at some completed depth.
type PV struct {
	Depth int
	Moves []board.Move
	Score eval.Score
	Nodes uint64
	Time  time.Duration
}

func (p PV) String() string {
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v pv=%v", p.Depth, p.Score, p.Nodes, p.Time, board.PrintMoves(p.Moves))
}

// BestMove returns the first move of the principal variation, if any.
func (p PV) BestMove() (board.Move, bool) {
	if len(p.Moves) == 0 {
		return board.Move{}, false
	}
	return p.Moves[0], true
}

// Searcher searches the game tree to a fixed depth from the board's current
// position, within the given aspiration window [alpha, beta]. It returns the
// node count, the side-to-move-relative score, the principal variation, and
// an error (ErrHalted on cancellation). A caller with no prior score should
// pass (eval.NegInf, eval.Inf) for a full-width search.
//
// The iterative-deepening loop that drives repeated Search calls, and the
// Launcher/Handle pair that exposes it asynchronously, live in package
// searchctl rather than here: this package owns one fixed-depth search, not
// the policy for sequencing or time-bounding a series of them.
type Searcher interface {
	Search(ctx context.Context, sctx *Context, b *board.Board, depth int, alpha, beta eval.Score) (uint64, eval.Score, []board.Move, error)
}
