package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/halfmove/chesscore/pkg/board"
	"github.com/halfmove/chesscore/pkg/board/fen"
	"github.com/halfmove/chesscore/pkg/book"
	"github.com/halfmove/chesscore/pkg/eval"
	"github.com/halfmove/chesscore/pkg/search"
	"github.com/halfmove/chesscore/pkg/search/searchctl"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

var version = build.NewVersion(0, 89, 3)

// Options are search creation options.
type Options struct {
	// Depth is the search depth limit. If zero, there is no limit. Overridden by search
	// options if provided.
	Depth uint
	// Hash is the transposition table size in MB. If zero, the engine will not use
	// a transposition table.
	Hash uint
	// Noise adds some millipawn randomness to the leaf evaluations.
	Noise uint
	// Threads selects sequential (1) or lazy-SMP (>1) search.
	Threads uint
	// UseBook enables opening book consultation at the root.
	UseBook bool
	// EvalCache enables the static evaluation cache.
	EvalCache bool
	// EvalCacheCapacity is the evaluation cache size in entries, if enabled.
	EvalCacheCapacity int
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v, hash=%v, noise=%v, threads=%v, book=%v, evalcache=%v}",
		o.Depth, o.Hash, o.Noise, o.Threads, o.UseBook, o.EvalCache)
}

// defaultEvalCacheCapacity is used when EvalCache is enabled but no explicit
// capacity is given.
const defaultEvalCacheCapacity = 1 << 20

// bytesPerTTEntry approximates the transposition table's per-slot footprint
// (node struct plus its atomic.Pointer slot), used to translate a hash-size
// option in MB into a requested entry count.
const bytesPerTTEntry = 48

// Engine encapsulates game-playing logic, search and evaluation.
type Engine struct {
	name, author string

	root search.Searcher
	book *book.Book
	zt   *board.ZobristTable
	seed int64
	opts Options

	b        *board.Board
	tt       search.TranspositionTable
	ordering *search.Ordering
	cache    *eval.Cache
	noise    eval.Random
	rng      *rand.Rand

	active    searchctl.Handle
	activeCtx *search.Context
	mu        sync.Mutex
}

// Option is an engine creation option.
type Option func(*Engine)

// WithOptions sets default runtime options.
func WithOptions(opts Options) Option {
	return func(e *Engine) {
		e.opts = opts
	}
}

// WithZobrist configures the engine to use the given random seed instead of the
// default seed of zero.
func WithZobrist(seed int64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

func New(ctx context.Context, name, author string, root search.Searcher, opts ...Option) *Engine {
	e := &Engine{
		name:   name,
		author: author,
		root:   root,
	}
	for _, fn := range opts {
		fn(e)
	}
	e.zt = board.NewZobristTable(e.seed)
	e.rng = rand.New(rand.NewSource(e.seed))

	if bk, err := book.New(e.zt, book.StandardLines); err != nil {
		logw.Errorf(ctx, "Failed to build opening book: %v", err)
	} else {
		e.book = bk
	}

	_ = e.Reset(ctx, fen.Initial)

	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), e.opts)
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author.
func (e *Engine) Author() string {
	return e.author
}

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.opts
}

func (e *Engine) SetDepth(depth uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Depth = depth
}

func (e *Engine) SetHash(size uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Hash = size
}

func (e *Engine) SetNoise(millipawns uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Noise = millipawns
}

func (e *Engine) SetThreads(threads uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Threads = threads
}

// Board returns a forked board.
func (e *Engine) Board() *board.Board {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.b.Fork()
}

// Position returns the current position in FEN format. Convenience function.
func (e *Engine) Position() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return fen.Encode(e.b.Position(), e.b.Turn(), e.b.NoProgress(), e.b.FullMoves())
}

// Reset resets the engine to a new starting position in FEN format. It is
// also the first half of NewGame: a reset always rebuilds the transposition
// table, ordering tables and evaluation cache from scratch, since a new root
// position invalidates anything they hold.
func (e *Engine) Reset(ctx context.Context, position string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Reset %v, %v", position, e.opts)

	_, _ = e.haltSearchIfActive(ctx)

	pos, turn, noprogress, fullmoves, err := fen.Decode(position)
	if err != nil {
		return err
	}
	e.b = board.NewBoard(e.zt, pos, turn, noprogress, fullmoves)

	e.tt = search.NoTranspositionTable{}
	if e.opts.Hash > 0 {
		e.tt = search.NewTranspositionTable(uint64(e.opts.Hash) << 20 / bytesPerTTEntry)
	}
	e.ordering = search.NewOrdering(256)

	e.cache = nil
	if e.opts.EvalCache {
		capacity := e.opts.EvalCacheCapacity
		if capacity <= 0 {
			capacity = defaultEvalCacheCapacity
		}
		e.cache = eval.NewCache(capacity)
	}

	e.noise = eval.Random{}
	if e.opts.Noise > 0 {
		// Noise is in millipawns; Random's limit is in centipawns.
		e.noise = eval.NewRandom(int(e.opts.Noise)/10, e.seed)
	}

	logw.Infof(ctx, "New board: %v", e.b)
	return nil
}

// NewGame resets the engine for a fresh game against (possibly) a new
// opponent: the starting position is restored and every table that could
// leak information between unrelated games -- transposition table, move
// ordering history, evaluation cache -- is cleared or reallocated rather
// than merely invalidated lazily.
func (e *Engine) NewGame(ctx context.Context) error {
	return e.Reset(ctx, fen.Initial)
}

// Move selects the given move, usually an opponent move.
func (e *Engine) Move(ctx context.Context, move string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Move %v", move)

	candidate, err := board.ParseMove(move)
	if err != nil {
		return fmt.Errorf("invalid move: %v", err)
	}

	_, _ = e.haltSearchIfActive(ctx)

	moves := e.b.Position().PseudoLegalMoves(e.b.Turn())
	for _, m := range moves {
		if !candidate.Equals(m) {
			continue
		}

		// Candidate is at least pseudo-legal.

		if !e.b.PushMove(m) {
			return fmt.Errorf("illegal move: %v", m)
		}

		logw.Infof(ctx, "Move %v: %v", m, e.b)
		return nil
	}
	return fmt.Errorf("invalid move: %v", candidate)
}

// TakeBack undoes the latest move.
func (e *Engine) TakeBack(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, _ = e.haltSearchIfActive(ctx)

	m, ok := e.b.PopMove()
	if !ok {
		return fmt.Errorf("no move to take back")
	}

	logw.Infof(ctx, "Takeback %v", m)
	return nil
}

// Analyze starts an asynchronous search of the current position, streaming
// progressively deeper principal variations on the returned channel.
func (e *Engine) Analyze(ctx context.Context, opt searchctl.Options) (<-chan search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := opt.DepthLimit.V(); !ok && e.opts.Depth > 0 {
		opt.DepthLimit = lang.Some(e.opts.Depth)
	}

	logw.Infof(ctx, "Analyze %v, opt=%v", e.b, opt)

	if e.active != nil {
		return nil, fmt.Errorf("search already active")
	}

	sctx := e.newSearchContext()
	handle, out := e.launcher().Launch(ctx, sctx, e.b.Fork(), opt)
	e.active = handle
	e.activeCtx = sctx
	return out, nil
}

// Halt halts the active search and returns the principal variation, if any.
func (e *Engine) Halt(ctx context.Context) (search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Halt")

	pv, ok := e.haltSearchIfActive(ctx)
	if !ok {
		return search.PV{}, fmt.Errorf("no active search")
	}
	return pv, nil
}

// Stop is an alias for Halt that discards the result, matching the external
// Engine::stop operation.
func (e *Engine) Stop(ctx context.Context) {
	_, _ = e.Halt(ctx)
}

// BestMove runs a search of the current position to exhaustion of the given
// budget (time control and/or depth limit in opt) and returns its best move.
// If UseBook is set and the live position is still within book range, the
// book reply is returned directly without searching.
func (e *Engine) BestMove(ctx context.Context, opt searchctl.Options) (board.Move, error) {
	e.mu.Lock()
	useBook, bk, b := e.opts.UseBook, e.book, e.b.Fork()
	rng := e.rng
	e.mu.Unlock()

	if useBook && bk != nil {
		if m, ok := bk.Select(b, rng); ok {
			logw.Infof(ctx, "Book move %v: %v", b, m)
			return m, nil
		}
	}

	out, err := e.Analyze(ctx, opt)
	if err != nil {
		return board.Move{}, err
	}

	var last search.PV
	for pv := range out {
		last = pv
	}

	m, ok := last.BestMove()
	if !ok {
		return board.Move{}, fmt.Errorf("search produced no move")
	}
	return m, nil
}

// Statistics returns a point-in-time snapshot of the active (or most
// recently launched) search's node and pruning counters.
func (e *Engine) Statistics() search.Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.activeCtx == nil {
		return search.Stats{}
	}
	return e.activeCtx.Stats()
}

func (e *Engine) launcher() searchctl.Launcher {
	threads := int(e.opts.Threads)
	if threads <= 1 {
		return &searchctl.Iterative{Root: e.root}
	}
	return &searchctl.SMP{Root: e.root, Threads: threads}
}

// newSearchContext builds a fresh Context around the engine's long-lived
// tables (TT, ordering, eval cache survive across searches within a game;
// only the per-search node/pruning stats and cancellation signal are new).
func (e *Engine) newSearchContext() *search.Context {
	if e.tt != nil {
		e.tt.NewSearch()
	}
	evaluator := eval.NewComposite(e.cache)
	cancel := search.NewCancellation()
	return search.NewContext(e.tt, e.ordering, evaluator, e.noise, cancel)
}

func (e *Engine) haltSearchIfActive(ctx context.Context) (search.PV, bool) {
	if e.active != nil {
		pv := e.active.Halt()
		logw.Infof(ctx, "Search %v halted: %v", e.b, pv)

		e.active = nil
		return pv, true
	}
	return search.PV{}, false
}
