package search_test

import (
	"testing"

	"github.com/halfmove/chesscore/pkg/board"
	"github.com/halfmove/chesscore/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrdering_HashMoveOutranksEverything(t *testing.T) {
	o := search.NewOrdering(32)
	b := newTestBoard(t, "4k3/8/8/3q4/3R4/8/8/4K3 w - - 0 1")

	capture := board.Move{From: board.D4, To: board.D5, Piece: board.Rook, Capture: board.Queen, Type: board.Capture}
	quiet := board.Move{From: board.E1, To: board.E2, Piece: board.King}

	withTT := o.Score(b, 0, quiet, quiet, true)
	withoutTT := o.Score(b, 0, capture, board.Move{}, false)

	assert.Greater(t, int64(withTT), int64(withoutTT))
}

func TestOrdering_CaptureOutranksQuiet(t *testing.T) {
	o := search.NewOrdering(32)
	b := newTestBoard(t, "4k3/8/8/3q4/3R4/8/8/4K3 w - - 0 1")

	capture := board.Move{From: board.D4, To: board.D5, Piece: board.Rook, Capture: board.Queen, Type: board.Capture}
	quiet := board.Move{From: board.E1, To: board.E2, Piece: board.King}

	cs := o.Score(b, 0, capture, board.Move{}, false)
	qs := o.Score(b, 0, quiet, board.Move{}, false)
	assert.Greater(t, int64(cs), int64(qs))
}

func TestOrdering_KillerOutranksOtherQuiets(t *testing.T) {
	o := search.NewOrdering(32)
	b := newTestBoard(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")

	killer := board.Move{From: board.E1, To: board.E2, Piece: board.King}
	other := board.Move{From: board.E1, To: board.D2, Piece: board.King}

	o.UpdateKillers(3, killer)

	ks := o.Score(b, 3, killer, board.Move{}, false)
	os := o.Score(b, 3, other, board.Move{}, false)
	assert.Greater(t, int64(ks), int64(os))
}

func TestOrdering_HistoryAccumulatesOnCutoff(t *testing.T) {
	o := search.NewOrdering(32)
	b := newTestBoard(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")

	m := board.Move{From: board.E1, To: board.E2, Piece: board.King}

	before := o.Score(b, 0, m, board.Move{}, false)
	o.UpdateHistory(board.White, m, 4)
	after := o.Score(b, 0, m, board.Move{}, false)

	assert.Greater(t, int64(after), int64(before))
}

func TestOrdering_Reset_ClearsTables(t *testing.T) {
	o := search.NewOrdering(32)
	m := board.Move{From: board.E1, To: board.E2, Piece: board.King}
	o.UpdateKillers(0, m)
	o.UpdateHistory(board.White, m, 4)

	o.Reset()

	killers := o.Killers(0)
	assert.Equal(t, board.Move{}, killers[0])
	assert.Equal(t, int32(0), o.History(board.White, m.From, m.To))
}

func TestOrdering_FollowupRoundTrip(t *testing.T) {
	o := search.NewOrdering(32)

	prev := board.Move{From: board.E1, To: board.D1, Piece: board.King}
	followup := board.Move{From: board.D1, To: board.D2, Piece: board.King}

	_, ok := o.Followup(prev)
	assert.False(t, ok)

	o.UpdateFollowup(prev, followup)

	m, ok := o.Followup(prev)
	require.True(t, ok)
	assert.Equal(t, followup, m)
}

func TestOrdering_FollowupBonusAppliesAtLiveBoard(t *testing.T) {
	o := search.NewOrdering(32)
	b := newTestBoard(t, "6k1/8/8/8/8/8/4K3/8 w - - 0 1")

	firstWhite := board.Move{From: board.E2, To: board.D2, Piece: board.King}
	require.True(t, b.PushMove(firstWhite))
	firstBlack := board.Move{From: board.G8, To: board.G7, Piece: board.King}
	require.True(t, b.PushMove(firstBlack))

	prev, ok := b.PenultimateMove()
	require.True(t, ok)
	assert.Equal(t, firstWhite, prev)

	followup := board.Move{From: board.D2, To: board.D3, Piece: board.King}
	other := board.Move{From: board.D2, To: board.C2, Piece: board.King}

	before := o.Score(b, 0, followup, board.Move{}, false)
	o.UpdateFollowup(prev, followup)
	after := o.Score(b, 0, followup, board.Move{}, false)
	unrelated := o.Score(b, 0, other, board.Move{}, false)

	assert.Greater(t, int64(after), int64(before))
	assert.Greater(t, int64(after), int64(unrelated))
}
