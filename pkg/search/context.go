package search

import (
	"github.com/halfmove/chesscore/pkg/eval"
)

// Context carries everything a search shares across its whole tree walk —
// and, under lazy-SMP, across helper threads: the transposition table, move
// ordering tables, evaluator, cancellation signal, and running statistics.
// A *board.Board is never part of Context; each thread keeps its own.
type Context struct {
	TT        TranspositionTable
	Ordering  *Ordering
	Evaluator eval.Evaluator
	Noise     eval.Random
	Cancel    *Cancellation

	stats *atomicStats
}

// NewContext builds a Context around the given shared tables.
func NewContext(tt TranspositionTable, ordering *Ordering, evaluator eval.Evaluator, noise eval.Random, cancel *Cancellation) *Context {
	return &Context{
		TT:        tt,
		Ordering:  ordering,
		Evaluator: evaluator,
		Noise:     noise,
		Cancel:    cancel,
		stats:     newAtomicStats(),
	}
}

// Stats returns a point-in-time snapshot of the shared statistics.
func (c *Context) Stats() Stats {
	return c.stats.snapshot()
}
