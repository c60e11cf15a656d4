package search

import "go.uber.org/atomic"

// Stats accumulates search telemetry across one or more searches sharing a
// Context. Safe for concurrent increment from lazy-SMP helper threads.
type Stats struct {
	Nodes uint64

	TTProbes uint64
	TTHits   uint64

	KillerHits      uint64
	HistoryHits     uint64
	CountermoveHits uint64

	NullMoveCutoffs uint64
	RazorCutoffs    uint64
	ReverseFutility uint64
	FutilitySkips   uint64
	LateMovePrunes  uint64
	LateMoveReduced uint64
}

// atomicStats is the mutable, concurrency-safe counter set a running search
// writes to; Stats is its point-in-time snapshot.
type atomicStats struct {
	nodes atomic.Uint64

	ttProbes atomic.Uint64
	ttHits   atomic.Uint64

	killerHits      atomic.Uint64
	historyHits     atomic.Uint64
	countermoveHits atomic.Uint64

	nullMoveCutoffs uint64Counter
	razorCutoffs    uint64Counter
	reverseFutility uint64Counter
	futilitySkips   uint64Counter
	lateMovePrunes  uint64Counter
	lateMoveReduced uint64Counter
}

type uint64Counter = atomic.Uint64

func newAtomicStats() *atomicStats {
	return &atomicStats{}
}

func (s *atomicStats) snapshot() Stats {
	return Stats{
		Nodes:           s.nodes.Load(),
		TTProbes:        s.ttProbes.Load(),
		TTHits:          s.ttHits.Load(),
		KillerHits:      s.killerHits.Load(),
		HistoryHits:     s.historyHits.Load(),
		CountermoveHits: s.countermoveHits.Load(),
		NullMoveCutoffs: s.nullMoveCutoffs.Load(),
		RazorCutoffs:    s.razorCutoffs.Load(),
		ReverseFutility: s.reverseFutility.Load(),
		FutilitySkips:   s.futilitySkips.Load(),
		LateMovePrunes:  s.lateMovePrunes.Load(),
		LateMoveReduced: s.lateMoveReduced.Load(),
	}
}

// TTHitRate returns TTHits/TTProbes, or 0 if there were no probes.
func (s Stats) TTHitRate() float64 {
	if s.TTProbes == 0 {
		return 0
	}
	return float64(s.TTHits) / float64(s.TTProbes)
}
