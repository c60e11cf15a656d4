package searchctl

import (
	"context"
	"sync"
	"time"

	"github.com/halfmove/chesscore/pkg/board"
	"github.com/halfmove/chesscore/pkg/eval"
	"github.com/halfmove/chesscore/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// aspirationWindow is the initial half-width around the previous depth's
// score an aspiration search opens with.
const aspirationWindow = 50

// maxAspirationAttempts bounds how many times a failed aspiration search
// re-opens with a wider window before falling back to full width.
const maxAspirationAttempts = 3

// Iterative is a search harness for iterative deepening search with
// aspiration windows (spec.md §4.4.1): each depth after the first opens a
// narrow window around the previous score, widening geometrically on a
// fail-low/fail-high before giving up and searching full width.
type Iterative struct {
	Root search.Searcher
}

func (i *Iterative) Launch(ctx context.Context, sctx *search.Context, b *board.Board, opt Options) (Handle, <-chan search.PV) {
	out := make(chan search.PV, 1)
	h := &handle{
		init:   iox.NewAsyncCloser(),
		quit:   iox.NewAsyncCloser(),
		cancel: sctx.Cancel,
	}
	go h.process(ctx, i.Root, sctx, b, opt, out)

	return h, out
}

type handle struct {
	init, quit iox.AsyncCloser
	cancel     *search.Cancellation

	pv search.PV
	mu sync.Mutex
}

func (h *handle) process(ctx context.Context, root search.Searcher, sctx *search.Context, b *board.Board, opt Options, out chan search.PV) {
	defer h.init.Close()
	defer close(out)

	phase := eval.DetectPhase(b.Position())
	critical := b.Position().IsChecked(b.Turn())
	soft, useSoft := EnforceTimeControl(ctx, h, opt.TimeControl, b.Turn(), phase, critical)

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	var prev eval.Score
	havePrev := false

	depth := 1
	for !h.quit.IsClosed() {
		start := time.Now()

		nodes, score, moves, err := searchDepth(wctx, sctx, root, b, depth, prev, havePrev)
		if err != nil {
			if err == search.ErrHalted {
				return // Halt was called.
			}
			logw.Errorf(ctx, "Search failed on %v at depth=%v: %v", b, depth, err)
			return
		}

		pv := search.PV{
			Depth: depth,
			Nodes: nodes,
			Score: score,
			Moves: moves,
			Time:  time.Since(start),
		}

		logw.Debugf(ctx, "Searched %v: %v", b.Position(), pv)

		h.mu.Lock()
		h.pv = pv
		h.mu.Unlock()

		select {
		case <-out:
		default:
		}
		out <- pv

		h.init.Close()
		prev, havePrev = score, true

		if limit, ok := opt.DepthLimit.V(); ok && uint(depth) == limit {
			return // halt: reached max depth
		}
		if md, ok := score.MateDistance(); ok && md != 0 && abs(md) <= depth {
			return // halt: forced mate found within full-width search. Exact result.
		}
		if useSoft && soft < time.Since(start) {
			return // halt: exceeded soft time limit. Do not start new search.
		}
		depth++
	}
}

// searchDepth runs one iterative-deepening depth, retrying with a widened
// aspiration window on fail-low/fail-high, per spec.md §4.4.1.
func searchDepth(ctx context.Context, sctx *search.Context, root search.Searcher, b *board.Board, depth int, prev eval.Score, havePrev bool) (uint64, eval.Score, []board.Move, error) {
	if !havePrev || depth < 2 {
		return root.Search(ctx, sctx, b, depth, eval.NegInf, eval.Inf)
	}

	window := eval.Score(aspirationWindow)
	alpha, beta := prev-window, prev+window

	var totalNodes uint64
	for attempt := 0; attempt < maxAspirationAttempts; attempt++ {
		nodes, score, moves, err := root.Search(ctx, sctx, b, depth, alpha, beta)
		totalNodes += nodes
		if err != nil {
			return totalNodes, score, moves, err
		}

		if score <= alpha {
			window *= 2
			alpha = prev - window
			continue
		}
		if score >= beta {
			window *= 2
			beta = prev + window
			continue
		}
		return totalNodes, score, moves, nil
	}

	nodes, score, moves, err := root.Search(ctx, sctx, b, depth, eval.NegInf, eval.Inf)
	return totalNodes + nodes, score, moves, err
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Halt blocks until the search has produced at least one PV, then stops it:
// the shared Cancellation is flagged immediately so any in-flight negamax or
// quiescence recursion aborts at its next node-count check, while closing
// quit keeps the iterative-deepening loop from starting a new depth.
func (h *handle) Halt() search.PV {
	<-h.init.Closed()
	if h.cancel != nil {
		h.cancel.Stop()
	}
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.pv
}
