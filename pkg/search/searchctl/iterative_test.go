package searchctl_test

import (
	"context"
	"testing"
	"time"

	"github.com/halfmove/chesscore/pkg/board"
	"github.com/halfmove/chesscore/pkg/board/fen"
	"github.com/halfmove/chesscore/pkg/eval"
	"github.com/halfmove/chesscore/pkg/search"
	"github.com/halfmove/chesscore/pkg/search/searchctl"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRootBoard(t *testing.T) *board.Board {
	t.Helper()

	zt := board.NewZobristTable(1)
	pos, turn, noprogress, fullmoves, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	return board.NewBoard(zt, pos, turn, noprogress, fullmoves)
}

func newRootContext() *search.Context {
	return search.NewContext(
		search.NewTranspositionTable(1<<14),
		search.NewOrdering(64),
		eval.NewComposite(nil),
		eval.Random{},
		search.NewCancellation(),
	)
}

func TestIterative_DepthLimitClosesChannel(t *testing.T) {
	l := &searchctl.Iterative{Root: search.NewSearcher()}
	sctx := newRootContext()

	var opt searchctl.Options
	opt.DepthLimit = lang.Some(uint(3))

	h, out := l.Launch(context.Background(), sctx, newRootBoard(t), opt)

	var last search.PV
	for pv := range out {
		last = pv
		assert.LessOrEqual(t, pv.Depth, 3)
	}
	assert.Equal(t, 3, last.Depth)

	// Halt after completion is idempotent and returns the same final PV.
	assert.Equal(t, last, h.Halt())
}

func TestIterative_HaltStopsSharedCancellation(t *testing.T) {
	l := &searchctl.Iterative{Root: search.NewSearcher()}
	sctx := newRootContext()

	var opt searchctl.Options // no depth limit: would otherwise run forever
	h, out := l.Launch(context.Background(), sctx, newRootBoard(t), opt)

	// Let it get at least one depth in before halting.
	<-out

	h.Halt()
	assert.True(t, sctx.Cancel.ShouldStop())

	// The channel must eventually close once halted.
	for range out {
	}
}

func TestIterative_TimeControlProducesAtLeastOneDepth(t *testing.T) {
	l := &searchctl.Iterative{Root: search.NewSearcher()}
	sctx := newRootContext()

	var opt searchctl.Options
	opt.TimeControl = lang.Some(searchctl.TimeControl{
		White: 200 * time.Millisecond,
		Black: 200 * time.Millisecond,
	})

	_, out := l.Launch(context.Background(), sctx, newRootBoard(t), opt)

	var count int
	for range out {
		count++
	}
	assert.Greater(t, count, 0)
}
