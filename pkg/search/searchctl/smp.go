package searchctl

import (
	"context"
	"time"

	"github.com/halfmove/chesscore/pkg/board"
	"github.com/halfmove/chesscore/pkg/eval"
	"github.com/halfmove/chesscore/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// SMP is a lazy-SMP Launcher (spec.md §5): it runs opt.Threads-1 helper
// iterative-deepening loops alongside the root loop, each with its own
// forked Position and a depth perturbed by thread id (±0 or -1), all
// sharing one Context (transposition table, ordering tables, cancellation).
// Only the root thread's PVs are published; helpers exist purely to warm
// the shared tables. A thread count of 1 degrades to plain Iterative.
type SMP struct {
	Root    search.Searcher
	Threads int
}

func (s *SMP) Launch(ctx context.Context, sctx *search.Context, b *board.Board, opt Options) (Handle, <-chan search.PV) {
	threads := s.Threads
	if threads < 1 {
		threads = 1
	}
	if threads == 1 {
		return (&Iterative{Root: s.Root}).Launch(ctx, sctx, b, opt)
	}

	out := make(chan search.PV, 1)
	h := &handle{
		init:   iox.NewAsyncCloser(),
		quit:   iox.NewAsyncCloser(),
		cancel: sctx.Cancel,
	}

	for id := 0; id < threads; id++ {
		bias := 0
		if id > 0 && id%2 == 1 {
			bias = -1
		}
		go runHelper(ctx, sctx, s.Root, b.Fork(), opt, h, out, id == 0, bias)
	}

	return h, out
}

// runHelper runs one lazy-SMP thread's iterative-deepening loop. Only the
// root thread (isRoot) publishes to h/out and respects the time control;
// helpers run until the shared Cancellation fires and exist only to
// populate the transposition and ordering tables the root thread reads.
func runHelper(ctx context.Context, sctx *search.Context, root search.Searcher, b *board.Board, opt Options, h *handle, out chan search.PV, isRoot bool, depthBias int) {
	var soft time.Duration
	var useSoft bool
	if isRoot {
		defer h.init.Close()
		defer close(out)
		phase := eval.DetectPhase(b.Position())
		critical := b.Position().IsChecked(b.Turn())
		soft, useSoft = EnforceTimeControl(ctx, h, opt.TimeControl, b.Turn(), phase, critical)
	}

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	var prev eval.Score
	havePrev := false

	depth := 1
	for !h.quit.IsClosed() {
		start := time.Now()

		d := depth + depthBias
		if d < 1 {
			d = 1
		}

		nodes, score, moves, err := searchDepth(wctx, sctx, root, b, d, prev, havePrev)
		if err != nil {
			if err != search.ErrHalted && isRoot {
				logw.Errorf(ctx, "Search failed on %v at depth=%v: %v", b, d, err)
			}
			return
		}
		prev, havePrev = score, true

		if isRoot {
			pv := search.PV{Depth: d, Nodes: nodes, Score: score, Moves: moves, Time: time.Since(start)}

			h.mu.Lock()
			h.pv = pv
			h.mu.Unlock()

			select {
			case <-out:
			default:
			}
			out <- pv

			h.init.Close()

			if limit, ok := opt.DepthLimit.V(); ok && uint(d) == limit {
				return
			}
			if md, ok := score.MateDistance(); ok && abs(md) <= d {
				return
			}
			if useSoft && soft < time.Since(start) {
				return
			}
		}
		depth++
	}
}
