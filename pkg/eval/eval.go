// Package eval contains position evaluation logic and utilities.
package eval

import (
	"context"

	"github.com/halfmove/chesscore/pkg/board"
)

// Evaluator is a static position evaluator.
type Evaluator interface {
	// Evaluate returns the position score, in centipawns, from White's
	// perspective.
	Evaluate(ctx context.Context, b *board.Board) Score
}

// Component is one named, independently-weighted term of the composite
// evaluator. Weight is looked up per phase/position-type from the table in
// phase.go; Eval computes the raw, white-perspective contribution.
type Component struct {
	Name   string
	Weight func(Phase, PositionType) float64
	Eval   func(b *board.Board) Score
}

// Composite is the default Evaluator: a fixed, closed set of Components,
// dispatched once per call and combined with the phase/position-type weight
// table and an optional evaluation cache.
type Composite struct {
	components []Component
	cache      *Cache
}

// NewComposite builds the standard evaluator. cache may be nil to disable
// caching.
func NewComposite(cache *Cache) *Composite {
	return &Composite{components: standardComponents(), cache: cache}
}

func standardComponents() []Component {
	return []Component{
		{
			Name:   "material",
			Weight: func(p Phase, t PositionType) float64 { return weight("material", p, t) },
			Eval:   func(b *board.Board) Score { return Material(b.Position()) },
		},
		{
			Name:   "piece-square",
			Weight: func(p Phase, t PositionType) float64 { return weight("material", p, t) },
			Eval:   func(b *board.Board) Score { return PieceSquare(b.Position()) },
		},
		{
			Name:   "activity",
			Weight: func(p Phase, t PositionType) float64 { return weight("activity", p, t) },
			Eval:   func(b *board.Board) Score { return Activity(b.Position()) },
		},
		{
			Name:   "pawns",
			Weight: func(p Phase, t PositionType) float64 { return weight("pawns", p, t) },
			Eval:   func(b *board.Board) Score { return PawnStructure(b.Position()) },
		},
		{
			Name: "king",
			Weight: func(p Phase, t PositionType) float64 { return weight("king", p, t) },
			Eval: func(b *board.Board) Score {
				return KingSafety(b.Position(), DetectPhase(b.Position()))
			},
		},
		{
			Name:   "tactical-safety",
			Weight: func(p Phase, t PositionType) float64 { return weight("tactical", p, t) },
			Eval:   func(b *board.Board) Score { return TacticalSafety(b.Position()) },
		},
		{
			Name:   "blunder-prevention",
			Weight: func(p Phase, t PositionType) float64 { return 10 * weight("tactical", p, t) },
			Eval:   func(b *board.Board) Score { return BlunderPrevention(b.Position()) },
		},
		{
			Name:   "safe-check",
			Weight: func(p Phase, t PositionType) float64 { return weight("tactical", p, t) },
			Eval:   func(b *board.Board) Score { return SafeCheckPenalty(b) },
		},
		{
			Name:   "simple-tactics",
			Weight: func(p Phase, t PositionType) float64 { return weight("tactical", p, t) },
			Eval:   func(b *board.Board) Score { return SimpleTacticalPatterns(b.Position()) },
		},
		{
			Name:   "tactical-patterns",
			Weight: func(p Phase, t PositionType) float64 { return weight("tactical", p, t) },
			Eval:   func(b *board.Board) Score { return TacticalPatterns(b.Position()) },
		},
		{
			Name: "endgame",
			Weight: func(p Phase, t PositionType) float64 {
				if p != Endgame {
					return 0
				}
				return 1.0
			},
			Eval: func(b *board.Board) Score { return EndgameScore(b.Position()) },
		},
	}
}

// Evaluate combines every component's weighted contribution plus the
// additive phase/position-type bonus, from White's perspective. Callers
// needing the side-to-move-relative score negamax requires should wrap the
// result in PerspectiveScore.
func (c *Composite) Evaluate(ctx context.Context, b *board.Board) Score {
	pos := b.Position()

	if c.cache != nil {
		if s, ok := c.cache.Get(b.Hash()); ok {
			return s
		}
	}

	phase := DetectPhase(pos)
	pt := DetectPositionType(pos)

	var total Score
	for _, comp := range c.components {
		w := comp.Weight(phase, pt)
		total += Score(float64(comp.Eval(b)) * w)
	}
	total += positionBonus(b, phase, pt)
	total = Crop(total)

	if c.cache != nil {
		c.cache.Put(b.Hash(), total)
	}
	return total
}

// PerspectiveScore flips a White-perspective score to the side to move's
// perspective, the convention negamax search requires.
func PerspectiveScore(s Score, turn board.Color) Score {
	return s * Unit(turn)
}
