package eval

import (
	"fmt"

	"github.com/halfmove/chesscore/pkg/board"
)

// Score is a signed position or move score in centipawns. Evaluators produce
// White-perspective scores; the search works with side-to-move-relative
// scores (negamax convention: the sign flips between plies), obtained via
// PerspectiveScore.
type Score int32

const (
	// Mate is the score magnitude assigned to a forced mate at ply 0; a mate
	// in n plies scores ±(Mate-n), so shallower mates score higher in
	// magnitude than deeper ones.
	Mate Score = 20000

	// MateThreshold marks a score as "mate-sensitive": any |score| above this
	// value reports a forced mate rather than a material/positional edge.
	MateThreshold Score = 9000

	NegInf   Score = -1 << 30
	Inf      Score = 1 << 30
	MinScore Score = -30000
	MaxScore Score = 30000

	Draw Score = 0
)

func (s Score) String() string {
	if s > MateThreshold {
		return fmt.Sprintf("mate(%d)", (Mate-s+1)/2)
	}
	if s < -MateThreshold {
		return fmt.Sprintf("-mate(%d)", (Mate+s+1)/2)
	}
	return fmt.Sprintf("%.2f", float64(s)/100)
}

// IsMate returns true iff the score reports a forced mate rather than a
// material/positional evaluation.
func (s Score) IsMate() bool {
	return s > MateThreshold || s < -MateThreshold
}

// MateDistance returns the number of plies to a forced mate this score
// reports, signed: positive when the side to move delivers it, negative
// when the side to move is mated. ok is false for a non-mate score.
func (s Score) MateDistance() (int, bool) {
	switch {
	case s > MateThreshold:
		return int(Mate - s), true
	case s < -MateThreshold:
		return -int(Mate + s), true
	default:
		return 0, false
	}
}

// LossIn returns the mate score for being mated in ply plies from the root,
// from the mated side's point of view (always a large negative number).
func LossIn(ply int) Score {
	return -Mate + Score(ply)
}

// Unit returns the signed unit for the color: +1 for White, -1 for Black. Used
// to fold a white-perspective evaluation into the side-to-move POV required
// by negamax.
func Unit(c board.Color) Score {
	if c == board.White {
		return 1
	}
	return -1
}

// Crop clamps a score into [MinScore, MaxScore]. Mate scores lie inside that
// range and pass through unchanged.
func Crop(s Score) Score {
	switch {
	case s > MaxScore:
		return MaxScore
	case s < MinScore:
		return MinScore
	default:
		return s
	}
}

func Max(a, b Score) Score {
	if a < b {
		return b
	}
	return a
}

func Min(a, b Score) Score {
	if a < b {
		return a
	}
	return b
}
