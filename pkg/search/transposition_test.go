package search_test

import (
	"math/rand"
	"testing"

	"github.com/halfmove/chesscore/pkg/board"
	"github.com/halfmove/chesscore/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestTranspositionTable_RoundsCapacityDownToPowerOfTwo(t *testing.T) {
	tt := search.NewTranspositionTable(0x1000)
	assert.Equal(t, uint64(0x1000), tt.Size())

	tt2 := search.NewTranspositionTable(0x1f00)
	assert.Equal(t, uint64(0x1000), tt2.Size())
}

func TestTranspositionTable_ProbeMiss(t *testing.T) {
	tt := search.NewTranspositionTable(0x1000)

	a := board.ZobristHash(rand.Uint64())
	_, ok := tt.Probe(a)
	assert.False(t, ok)
}

func TestTranspositionTable_StoreThenProbe(t *testing.T) {
	tt := search.NewTranspositionTable(0x1000)

	a := board.ZobristHash(rand.Uint64())
	m := board.Move{From: board.G4, To: board.G8, Promotion: board.Queen}

	tt.Store(a, search.ExactBound, 5, 120, m, true)

	e, ok := tt.Probe(a)
	assert.True(t, ok)
	assert.Equal(t, search.ExactBound, e.Bound)
	assert.Equal(t, 5, e.Depth)
	assert.EqualValues(t, 120, e.Score)
	assert.Equal(t, m, e.Move)
	assert.True(t, e.HasMove)
}

func TestTranspositionTable_DeeperWriteReplaces(t *testing.T) {
	tt := search.NewTranspositionTable(0x1000)

	a := board.ZobristHash(rand.Uint64())
	m := board.Move{From: board.E2, To: board.E4}

	tt.Store(a, search.ExactBound, 2, 10, m, true)
	tt.Store(a, search.ExactBound, 6, 20, m, true)

	e, ok := tt.Probe(a)
	assert.True(t, ok)
	assert.Equal(t, 6, e.Depth)
	assert.EqualValues(t, 20, e.Score)
}

func TestTranspositionTable_ClearEmptiesTable(t *testing.T) {
	tt := search.NewTranspositionTable(0x1000)

	a := board.ZobristHash(rand.Uint64())
	tt.Store(a, search.ExactBound, 4, 10, board.Move{}, false)
	tt.Clear()

	_, ok := tt.Probe(a)
	assert.False(t, ok)
	assert.Equal(t, float64(0), tt.Used())
}
