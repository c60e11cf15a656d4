package engine_test

import (
	"context"
	"testing"

	"github.com/halfmove/chesscore/pkg/board"
	"github.com/halfmove/chesscore/pkg/board/fen"
	"github.com/halfmove/chesscore/pkg/engine"
	"github.com/halfmove/chesscore/pkg/search"
	"github.com/halfmove/chesscore/pkg/search/searchctl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(opts engine.Options) *engine.Engine {
	return engine.New(context.Background(), "test", "tester", search.NewSearcher(), engine.WithOptions(opts))
}

func TestEngine_NewStartsAtInitialPosition(t *testing.T) {
	e := newTestEngine(engine.Options{})
	assert.Equal(t, fen.Initial, e.Position())
}

func TestEngine_MoveThenTakeBackRoundTrips(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(engine.Options{})

	require.NoError(t, e.Move(ctx, "e2e4"))
	assert.NotEqual(t, fen.Initial, e.Position())

	require.NoError(t, e.TakeBack(ctx))
	assert.Equal(t, fen.Initial, e.Position())
}

func TestEngine_MoveRejectsIllegalMove(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(engine.Options{})
	assert.Error(t, e.Move(ctx, "e2e5"))
}

func TestEngine_TakeBackWithNoHistoryErrors(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(engine.Options{})
	assert.Error(t, e.TakeBack(ctx))
}

func TestEngine_ResetChangesPosition(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(engine.Options{})

	const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	require.NoError(t, e.Reset(ctx, kiwipete))
	assert.Equal(t, kiwipete, e.Position())
}

func TestEngine_BestMoveUsesBookInOpeningPhase(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(engine.Options{UseBook: true})

	m, err := e.BestMove(ctx, searchctl.Options{})
	require.NoError(t, err)
	assert.NotEqual(t, board.Move{}, m)
}

func TestEngine_BestMoveSearchesWhenBookDisabled(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(engine.Options{UseBook: false, Depth: 2})

	m, err := e.BestMove(ctx, searchctl.Options{})
	require.NoError(t, err)
	assert.NotEqual(t, board.Move{}, m)
}

func TestEngine_StatisticsEmptyBeforeAnySearch(t *testing.T) {
	e := newTestEngine(engine.Options{})
	assert.Equal(t, search.Stats{}, e.Statistics())
}

func TestEngine_StatisticsPopulatedAfterSearch(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(engine.Options{UseBook: false, Depth: 2})

	_, err := e.BestMove(ctx, searchctl.Options{})
	require.NoError(t, err)

	assert.Greater(t, e.Statistics().Nodes, uint64(0))
}

func TestEngine_NewGameRestoresInitialPosition(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(engine.Options{})

	require.NoError(t, e.Move(ctx, "e2e4"))
	require.NoError(t, e.NewGame(ctx))
	assert.Equal(t, fen.Initial, e.Position())
}
