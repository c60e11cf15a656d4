package searchctl

import (
	"context"
	"fmt"
	"time"

	"github.com/halfmove/chesscore/pkg/board"
	"github.com/halfmove/chesscore/pkg/eval"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

// TimeControl represents time control information.
type TimeControl struct {
	White, Black time.Duration
	Moves        int // 0 == rest of game
}

// endgameBonus is added to the budget once material has thinned out: mating
// technique and won endgames are worth searching deeper for, and there are
// fewer pieces to search per node.
const endgameBonus = 3 * time.Second

// Limits returns a soft and hard limit for making a move with the given
// color, game phase, and critical flag (spec.md §4.7's budget
// classification: king-in-check or an otherwise tagged-critical position).
// After the soft limit, no new iterative-deepening depth should be started;
// the hard limit force-halts an in-flight search.
func (t TimeControl) Limits(c board.Color, phase eval.Phase, critical bool) (soft, hard time.Duration) {
	remainder := t.White
	if c == board.Black {
		remainder = t.Black
	}

	// Assume 40 moves to the end of the game if nothing else is known.
	moves := time.Duration(40)
	if t.Moves > 0 {
		moves = time.Duration(t.Moves) + 1
	}

	base := remainder / moves

	switch {
	case critical:
		soft = 3 * base
	case phase == eval.Opening:
		soft = base / 2
	case phase == eval.Endgame:
		soft = base + endgameBonus
	default:
		soft = base
	}

	hard = 3 * soft
	if hard > remainder {
		hard = remainder
	}
	return soft, hard
}

func (t TimeControl) String() string {
	if t.Moves == 0 {
		return fmt.Sprintf("%.1f<>%.1f", t.White.Seconds(), t.Black.Seconds())
	}
	return fmt.Sprintf("%.1f<>%.1f[moves=%v]", t.White.Seconds(), t.Black.Seconds(), t.Moves)
}

// EnforceTimeControl enforces the time control limits, if any, scheduling a
// hard-limit Halt. Returns the soft limit and whether a time control was set.
func EnforceTimeControl(ctx context.Context, h Handle, tc lang.Optional[TimeControl], turn board.Color, phase eval.Phase, critical bool) (time.Duration, bool) {
	c, ok := tc.V()
	if !ok {
		return 0, false
	}

	soft, hard := c.Limits(turn, phase, critical)
	timer := time.AfterFunc(hard, func() {
		h.Halt()
	})
	go func() {
		<-ctx.Done()
		timer.Stop()
	}()

	logw.Debugf(ctx, "Time control limits for %v: [%v; %v]", c, soft, hard)
	return soft, true
}
