package searchctl_test

import (
	"testing"
	"time"

	"github.com/halfmove/chesscore/pkg/board"
	"github.com/halfmove/chesscore/pkg/eval"
	"github.com/halfmove/chesscore/pkg/search/searchctl"
	"github.com/stretchr/testify/assert"
)

func TestTimeControl_Limits_Critical(t *testing.T) {
	tc := searchctl.TimeControl{White: 60 * time.Second, Black: 60 * time.Second}

	soft, hard := tc.Limits(board.White, eval.Middlegame, true)
	base := tc.White / 40

	assert.Equal(t, 3*base, soft)
	assert.Equal(t, 3*soft, hard)
}

func TestTimeControl_Limits_Opening(t *testing.T) {
	tc := searchctl.TimeControl{White: 60 * time.Second, Black: 60 * time.Second}

	soft, _ := tc.Limits(board.White, eval.Opening, false)
	base := tc.White / 40

	assert.Equal(t, base/2, soft)
}

func TestTimeControl_Limits_Endgame(t *testing.T) {
	tc := searchctl.TimeControl{White: 60 * time.Second, Black: 60 * time.Second}

	soft, _ := tc.Limits(board.White, eval.Endgame, false)
	base := tc.White / 40

	assert.Equal(t, base+3*time.Second, soft)
}

func TestTimeControl_Limits_Middlegame(t *testing.T) {
	tc := searchctl.TimeControl{White: 60 * time.Second, Black: 60 * time.Second}

	soft, _ := tc.Limits(board.White, eval.Middlegame, false)
	base := tc.White / 40

	assert.Equal(t, base, soft)
}

func TestTimeControl_Limits_HardCappedByRemainder(t *testing.T) {
	tc := searchctl.TimeControl{White: 2 * time.Second, Black: 2 * time.Second, Moves: 1}

	_, hard := tc.Limits(board.White, eval.Middlegame, true)
	assert.Equal(t, tc.White, hard)
}

func TestTimeControl_Limits_UsesMovesToGo(t *testing.T) {
	tc := searchctl.TimeControl{White: 60 * time.Second, Black: 60 * time.Second, Moves: 9}

	soft, _ := tc.Limits(board.White, eval.Middlegame, false)
	assert.Equal(t, tc.White/10, soft)
}

func TestTimeControl_Limits_SelectsColor(t *testing.T) {
	tc := searchctl.TimeControl{White: 60 * time.Second, Black: 30 * time.Second}

	whiteSoft, _ := tc.Limits(board.White, eval.Middlegame, false)
	blackSoft, _ := tc.Limits(board.Black, eval.Middlegame, false)

	assert.Greater(t, whiteSoft, blackSoft)
}
