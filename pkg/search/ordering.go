package search

import (
	"sync"

	"github.com/halfmove/chesscore/pkg/board"
	"github.com/halfmove/chesscore/pkg/eval"
)

// MaxHistory caps every history-family table entry.
const MaxHistory = 1 << 15

// HistoryAgingThreshold triggers a halving of every history-family table
// once any entry crosses it (in addition to the periodic 1000-eval aging).
const HistoryAgingThreshold = MaxHistory

// AgeEveryEvals is how often (in evaluated nodes) the ordering tables age
// unconditionally.
const AgeEveryEvals = 1000

type squarePair struct {
	from, to board.Square
}

// Ordering holds the mutable move-ordering tables a search accumulates as it
// walks the tree: killers, history/butterfly, piece-history, countermove,
// followup, and threat tables. Shared across lazy-SMP helper threads;
// updates are serialized by a coarse mutex rather than per-cell atomics —
// acceptable since the spec tolerates lossy ordering-table races.
type Ordering struct {
	mu sync.Mutex

	killers [][2]board.Move

	history   [2][64][64]int32
	butterfly [2][64][64]int32

	pieceHistory [2][board.NumPieces][64][64]int32

	countermove map[squarePair]board.Move
	followup    map[squarePair]board.Move

	threat [2][64][64]int32

	evalCount uint64
}

// NewOrdering allocates ordering tables for a search tree of up to maxPly
// plies.
func NewOrdering(maxPly int) *Ordering {
	if maxPly < 1 {
		maxPly = 1
	}
	return &Ordering{
		killers:     make([][2]board.Move, maxPly),
		countermove: make(map[squarePair]board.Move),
		followup:    make(map[squarePair]board.Move),
	}
}

// Reset clears every table, used on Engine.NewGame.
func (o *Ordering) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i := range o.killers {
		o.killers[i] = [2]board.Move{}
	}
	o.history = [2][64][64]int32{}
	o.butterfly = [2][64][64]int32{}
	o.pieceHistory = [2][board.NumPieces][64][64]int32{}
	o.countermove = make(map[squarePair]board.Move)
	o.followup = make(map[squarePair]board.Move)
	o.threat = [2][64][64]int32{}
	o.evalCount = 0
}

// Killers returns the two killer moves recorded at ply.
func (o *Ordering) Killers(ply int) [2]board.Move {
	o.mu.Lock()
	defer o.mu.Unlock()

	if ply < 0 || ply >= len(o.killers) {
		return [2]board.Move{}
	}
	return o.killers[ply]
}

// UpdateKillers records m as a killer at ply, sliding the existing slots;
// no duplicate is kept.
func (o *Ordering) UpdateKillers(ply int, m board.Move) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if ply < 0 || ply >= len(o.killers) {
		return
	}
	slots := &o.killers[ply]
	if slots[0].Equals(m) {
		return
	}
	slots[1] = slots[0]
	slots[0] = m
}

// History returns the plain history score for a quiet (color, from, to).
func (o *Ordering) History(c board.Color, from, to board.Square) int32 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.history[c][from][to]
}

// Butterfly returns the butterfly (times-searched) count for (color, from, to).
func (o *Ordering) Butterfly(c board.Color, from, to board.Square) int32 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.butterfly[c][from][to]
}

// RecordQuietSearched increments the butterfly table for every quiet move
// considered at a node, regardless of outcome.
func (o *Ordering) RecordQuietSearched(c board.Color, m board.Move) {
	if !m.IsQuiet() {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.butterfly[c][m.From][m.To]++
}

// UpdateHistory rewards a quiet move that caused a beta cutoff at depth d.
func (o *Ordering) UpdateHistory(c board.Color, m board.Move, depth int) {
	if !m.IsQuiet() {
		return
	}
	bonus := int32(depth*depth + depth)

	o.mu.Lock()
	defer o.mu.Unlock()

	v := o.history[c][m.From][m.To] + bonus
	if v > MaxHistory {
		v = MaxHistory
	}
	o.history[c][m.From][m.To] = v
	o.pieceHistory[c][m.Piece][m.From][m.To] = clampHistory(o.pieceHistory[c][m.Piece][m.From][m.To] + bonus)

	o.maybeAge()
}

func clampHistory(v int32) int32 {
	if v > MaxHistory {
		return MaxHistory
	}
	return v
}

// PieceHistory returns the piece-from-to history score.
func (o *Ordering) PieceHistory(c board.Color, p board.Piece, from, to board.Square) int32 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.pieceHistory[c][p][from][to]
}

// UpdateCountermove records ourReply as the countermove to oppLast.
func (o *Ordering) UpdateCountermove(oppLast, ourReply board.Move) {
	if oppLast.IsZero() {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.countermove[squarePair{oppLast.From, oppLast.To}] = ourReply
}

// Countermove returns the recorded countermove to oppLast, if any.
func (o *Ordering) Countermove(oppLast board.Move) (board.Move, bool) {
	if oppLast.IsZero() {
		return board.Move{}, false
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	m, ok := o.countermove[squarePair{oppLast.From, oppLast.To}]
	return m, ok
}

// UpdateFollowup records ourFollowup as the reply to our own previous move.
func (o *Ordering) UpdateFollowup(ourPrev, ourFollowup board.Move) {
	if ourPrev.IsZero() {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.followup[squarePair{ourPrev.From, ourPrev.To}] = ourFollowup
}

// Followup returns the recorded followup to ourPrev, if any.
func (o *Ordering) Followup(ourPrev board.Move) (board.Move, bool) {
	if ourPrev.IsZero() {
		return board.Move{}, false
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	m, ok := o.followup[squarePair{ourPrev.From, ourPrev.To}]
	return m, ok
}

// Threat returns the threat-table score for (color, from, to).
func (o *Ordering) Threat(c board.Color, from, to board.Square) int32 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.threat[c][from][to]
}

// UpdateThreat rewards a quiet move that left an enemy piece undefended and
// attacked (see ThreatensAfterMove) and went on to cause a beta cutoff, the
// same way UpdateHistory rewards a plain cutoff.
func (o *Ordering) UpdateThreat(c board.Color, m board.Move, depth int) {
	if !m.IsQuiet() {
		return
	}
	bonus := int32(depth*depth + depth)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.threat[c][m.From][m.To] = clampHistory(o.threat[c][m.From][m.To] + bonus)
}

// ThreatensAfterMove reports whether, in the current position with m already
// pushed, the piece that just moved to m.To attacks an enemy piece with no
// defender of its own — an unanswered threat. Callers probe this while m is
// still pushed (e.g. right after the PushMove a search already performed),
// so it costs no extra push/pop.
func ThreatensAfterMove(b *board.Board, m board.Move) bool {
	pos := b.Position()
	opp := b.Turn() // side to move now is the opponent of the mover
	us := opp.Opponent()

	for pc := board.Pawn; pc <= board.King; pc++ {
		bb := pos.Piece(opp, pc)
		for bb != 0 {
			sq := bb.LastPopSquare()
			bb ^= board.BitMask(sq)
			if pos.AttackersTo(sq, us)&board.BitMask(m.To) == 0 {
				continue
			}
			if pos.AttackersTo(sq, opp) == 0 {
				return true
			}
		}
	}
	return false
}

// RecordEvaluation counts one evaluated node towards the periodic aging
// sweep; call once per leaf/quiescence evaluation.
func (o *Ordering) RecordEvaluation() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.evalCount++
	o.maybeAge()
}

// maybeAge halves every history-family table when either the periodic
// eval-count threshold or the per-entry overflow threshold is hit. Caller
// must hold o.mu.
func (o *Ordering) maybeAge() {
	age := o.evalCount%AgeEveryEvals == 0 && o.evalCount > 0
	if !age {
		age = o.anyOverThreshold()
	}
	if !age {
		return
	}
	for c := 0; c < 2; c++ {
		for f := 0; f < 64; f++ {
			for t := 0; t < 64; t++ {
				o.history[c][f][t] /= 2
				o.butterfly[c][f][t] /= 2
				o.threat[c][f][t] /= 2
			}
		}
		for p := 0; p < int(board.NumPieces); p++ {
			for f := 0; f < 64; f++ {
				for t := 0; t < 64; t++ {
					o.pieceHistory[c][p][f][t] /= 2
				}
			}
		}
	}
}

func (o *Ordering) anyOverThreshold() bool {
	for c := 0; c < 2; c++ {
		for f := 0; f < 64; f++ {
			for t := 0; t < 64; t++ {
				if o.history[c][f][t] >= HistoryAgingThreshold {
					return true
				}
			}
		}
	}
	return false
}

// Weights for the move-ordering score table (spec.md §4.3).
const (
	hashMoveBonus       = 10_000_000
	captureBase         = 5_000_000
	rookCaptureBonus    = 2_000_000
	queenCaptureBonus   = 3_000_000
	promotionBonus      = 4_000_000
	killerBase          = 800_000
	killerSlotPenalty   = 50_000
	countermoveBonus    = 50_000
	followupBonus       = 30_000
	developmentKnight   = 800_000
	developmentQueen    = 200_000
	centralizationBonus = 50_000
	extendedCentre      = 25_000
	givesCheckBonus     = 25_000
	passedPawnBonus     = 40_000
	attacksAfterMove    = 15_000
)

// Score computes the full move-ordering priority of m at the given ply,
// using the board position *before* m is made. b.PushMove(m) is called
// internally to probe "gives check" and "attacks after move", then undone;
// "creates passed pawn" (pawn moves only) is read from the pre-move position.
func (o *Ordering) Score(b *board.Board, ply int, m board.Move, ttMove board.Move, hasTTMove bool) board.MovePriority {
	var p int64

	if hasTTMove && ttMove.Equals(m) {
		p += hashMoveBonus
	}

	if m.IsCapture() || m.IsPromotion() {
		if m.IsCapture() {
			victim := eval.NominalValue(m.Capture)
			attacker := eval.NominalValue(m.Piece)
			p += captureBase + int64(1000*victim-attacker)
			switch {
			case m.Capture == board.Queen:
				p += queenCaptureBonus
			case m.Capture == board.Rook:
				p += rookCaptureBonus
			}
		}
		if m.IsPromotion() {
			p += promotionBonus
		}
	} else {
		killers := o.Killers(ply)
		for i, k := range killers {
			if k.Equals(m) {
				p += killerBase - int64(i)*killerSlotPenalty
				break
			}
		}

		c := b.Turn()
		hist := int64(o.History(c, m.From, m.To))
		if bf := o.Butterfly(c, m.From, m.To); bf > 0 {
			hist += (1024 * int64(hist)) / int64(bf) * 2
		}
		p += hist
		p += int64(o.PieceHistory(c, m.Piece, m.From, m.To))

		if last, ok := b.LastMove(); ok {
			if cm, ok := o.Countermove(last); ok && cm.Equals(m) {
				p += countermoveBonus
			}
		}
		if prev, ok := b.PenultimateMove(); ok {
			if fu, ok := o.Followup(prev); ok && fu.Equals(m) {
				p += followupBonus
			}
		}
		p += int64(o.Threat(c, m.From, m.To)) * 10
	}

	if m.Piece != board.Pawn && m.Piece != board.King && m.From.Rank() == backRankOf(m.Piece, b.Turn()) {
		if m.Piece == board.Knight {
			p += developmentKnight
		} else {
			p += developmentQueen
		}
	}

	if isCentral2x2(m.To) {
		p += centralizationBonus
	} else if isCentral4x4(m.To) {
		p += extendedCentre
	}

	if m.Piece == board.Pawn {
		p += pawnAdvanceBonus(m, b.Turn())
		if rankDelta(m) == 2 {
			p += 5
		}
		if createsPassedPawn(b, m) {
			p += passedPawnBonus
		}
	}

	check, attacked := moveConsequences(b, m)
	if check {
		p += givesCheckBonus
	}
	p += int64(attacked) * attacksAfterMove

	return board.MovePriority(clampPriority(p))
}

// createsPassedPawn reports whether moving m's pawn to m.To leaves it
// passed: no enemy pawn on its file or either adjacent file can still
// stop or capture it before promotion. Mirrors eval.isPassed's test.
func createsPassedPawn(b *board.Board, m board.Move) bool {
	opp := b.Position().Piece(b.Turn().Opponent(), board.Pawn)
	return isPassedAfterMove(m.To, b.Turn(), opp)
}

func isPassedAfterMove(sq board.Square, c board.Color, opp board.Bitboard) bool {
	f := sq.File()
	files := board.BitFile(f)
	if f > board.ZeroFile {
		files |= board.BitFile(f - 1)
	}
	if f < board.NumFiles-1 {
		files |= board.BitFile(f + 1)
	}

	var ahead board.Bitboard
	if c == board.White {
		for r := sq.Rank() + 1; r < board.NumRanks; r++ {
			ahead |= board.BitRank(r)
		}
	} else {
		for r := board.ZeroRank; r < sq.Rank(); r++ {
			ahead |= board.BitRank(r)
		}
	}
	return opp&files&ahead == 0
}

// moveConsequences pushes m, reports whether it checks the opponent and how
// many enemy pieces the mover now attacks from m.To, then pops it. Returns
// false, 0 if m turns out illegal (leaves the mover's own king in check).
func moveConsequences(b *board.Board, m board.Move) (givesCheck bool, attacked int) {
	if !b.PushMove(m) {
		return false, 0
	}
	defer b.PopMove()

	opp := b.Turn()
	us := opp.Opponent()
	pos := b.Position()

	givesCheck = pos.IsChecked(opp)
	for pc := board.Pawn; pc <= board.King; pc++ {
		bb := pos.Piece(opp, pc)
		for bb != 0 {
			sq := bb.LastPopSquare()
			bb ^= board.BitMask(sq)
			if pos.AttackersTo(sq, us)&board.BitMask(m.To) != 0 {
				attacked++
			}
		}
	}
	return givesCheck, attacked
}

func clampPriority(p int64) int64 {
	const max = 1<<31 - 1
	if p > max {
		return max
	}
	if p < -max {
		return -max
	}
	return p
}

func backRankOf(p board.Piece, c board.Color) board.Rank {
	_ = p
	if c == board.White {
		return board.Rank1
	}
	return board.Rank8
}

func isCentral2x2(sq board.Square) bool {
	switch sq.File() {
	case board.FileD, board.FileE:
		return sq.Rank() == board.Rank4 || sq.Rank() == board.Rank5
	default:
		return false
	}
}

func isCentral4x4(sq board.Square) bool {
	f, r := sq.File(), sq.Rank()
	return f >= board.FileD-1 && f <= board.FileE+1 && r >= board.Rank3 && r <= board.Rank6
}

func rankDelta(m board.Move) int {
	d := int(m.To.Rank()) - int(m.From.Rank())
	if d < 0 {
		d = -d
	}
	return d
}

func pawnAdvanceBonus(m board.Move, c board.Color) int64 {
	advance := int(m.To.Rank())
	if c == board.Black {
		advance = int(board.Rank8 - m.To.Rank())
	}
	return int64(2 + 28*advance) // +2 .. +198, roughly matching the "+2..+200" table
}

// givesCheck makes and immediately unmakes m to see whether it leaves the
// opponent in check.
func givesCheck(b *board.Board, m board.Move) bool {
	if !b.PushMove(m) {
		return false
	}
	defer b.PopMove()
	return b.Position().IsChecked(b.Turn())
}
