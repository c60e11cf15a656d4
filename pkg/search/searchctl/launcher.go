// Package searchctl contains search functionality and utilities.
package searchctl

import (
	"context"
	"fmt"
	"strings"

	"github.com/halfmove/chesscore/pkg/board"
	"github.com/halfmove/chesscore/pkg/search"
	"github.com/seekerror/stdlib/pkg/lang"
)

// Options hold dynamic search options. The user may change these on a particular search.
type Options struct {
	// DepthLimit, if set, limits the search to the given ply depth. Zero means no limit.
	DepthLimit lang.Optional[uint]
	// TimeControl, if set, limits the search to the given time parameters.
	TimeControl lang.Optional[TimeControl]
}

func (o Options) String() string {
	var ret []string
	if v, ok := o.DepthLimit.V(); ok {
		ret = append(ret, fmt.Sprintf("depth=%v", v))
	}

	if v, ok := o.TimeControl.V(); ok {
		ret = append(ret, fmt.Sprintf("time=%v", v))
	}
	return fmt.Sprintf("[%v]", strings.Join(ret, ", "))
}

// Launcher is an interface for managing searches.
type Launcher interface {
	// Launch a new search from the given position. It expects an exclusive
	// (forked) board and a Context shared across the engine's searches
	// (transposition table, ordering tables, evaluator, noise, cancellation).
	// It returns a PV channel for iteratively deeper searches; the channel is
	// closed when the search is exhausted. The search can be stopped at any
	// time via the returned Handle.
	Launch(ctx context.Context, sctx *search.Context, b *board.Board, opt Options) (Handle, <-chan search.PV)
}

// Handle is an interface for the engine to manage searches. The engine is expected to spin off
// searches with forked boards and close/abandon them when no longer needed. This design keeps
// stopping conditions and re-synchronization trivial.
type Handle interface {
	// Halt halts the search, if running. Idempotent.
	Halt() search.PV
}
