package searchctl_test

import (
	"context"
	"testing"

	"github.com/halfmove/chesscore/pkg/search"
	"github.com/halfmove/chesscore/pkg/search/searchctl"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
)

func TestSMP_SingleThreadDegradesToIterative(t *testing.T) {
	l := &searchctl.SMP{Root: search.NewSearcher(), Threads: 1}
	sctx := newRootContext()

	var opt searchctl.Options
	opt.DepthLimit = lang.Some(uint(2))

	_, out := l.Launch(context.Background(), sctx, newRootBoard(t), opt)

	var last search.PV
	for pv := range out {
		last = pv
	}
	assert.Equal(t, 2, last.Depth)
}

func TestSMP_OnlyRootPublishesAndRespectsDepthLimit(t *testing.T) {
	l := &searchctl.SMP{Root: search.NewSearcher(), Threads: 3}
	sctx := newRootContext()

	var opt searchctl.Options
	opt.DepthLimit = lang.Some(uint(2))

	_, out := l.Launch(context.Background(), sctx, newRootBoard(t), opt)

	var count int
	var last search.PV
	for pv := range out {
		last = pv
		count++
		assert.LessOrEqual(t, pv.Depth, 2)
	}
	assert.Equal(t, 2, last.Depth)
	assert.Greater(t, count, 0)
}

func TestSMP_HaltStopsAllHelperThreads(t *testing.T) {
	l := &searchctl.SMP{Root: search.NewSearcher(), Threads: 3}
	sctx := newRootContext()

	var opt searchctl.Options // unbounded: helpers would otherwise spin forever
	h, out := l.Launch(context.Background(), sctx, newRootBoard(t), opt)

	<-out
	h.Halt()
	assert.True(t, sctx.Cancel.ShouldStop())

	for range out {
	}
}
