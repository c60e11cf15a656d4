package eval_test

import (
	"testing"

	"github.com/halfmove/chesscore/pkg/board"
	"github.com/halfmove/chesscore/pkg/eval"
	"github.com/stretchr/testify/assert"
)

func TestCache_MissThenHit(t *testing.T) {
	c := eval.NewCache(16)

	_, ok := c.Get(board.ZobristHash(1))
	assert.False(t, ok)

	c.Put(board.ZobristHash(1), 123)
	s, ok := c.Get(board.ZobristHash(1))
	assert.True(t, ok)
	assert.Equal(t, eval.Score(123), s)

	hits, misses := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestCache_LenTracksEntries(t *testing.T) {
	c := eval.NewCache(16)
	assert.Equal(t, 0, c.Len())

	c.Put(board.ZobristHash(1), 1)
	c.Put(board.ZobristHash(2), 2)
	assert.Equal(t, 2, c.Len())
}

func TestCache_EvictsOldestNearCapacity(t *testing.T) {
	c := eval.NewCache(4)
	for i := board.ZobristHash(0); i < 4; i++ {
		c.Put(i, eval.Score(i))
	}
	// Crosses the high watermark: the next Put triggers an eviction sweep
	// before inserting, so the cache never grows past its capacity.
	c.Put(board.ZobristHash(4), 4)
	assert.LessOrEqual(t, c.Len(), 4)
}
