package book

// StandardLines is a small set of well-known main-line openings, covering
// the first several moves of the most common replies to 1.e4 and 1.d4. Not
// meant to be exhaustive -- depth and coverage are a tuning knob, not a
// correctness requirement.
var StandardLines = []Line{
	// Open games.
	{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5"},                  // Ruy Lopez
	{"e2e4", "e7e5", "g1f3", "b8c6", "f1c4"},                  // Italian
	{"e2e4", "e7e5", "g1f3", "g8f6"},                          // Petrov
	{"e2e4", "e7e5", "f2f4"},                                  // King's Gambit
	{"e2e4", "e7e5", "g1f3", "b8c6", "d2d4"},                  // Scotch

	// Sicilian.
	{"e2e4", "c7c5", "g1f3", "d7d6", "d2d4", "c5d4", "f3d4", "g8f6", "b1c3"},
	{"e2e4", "c7c5", "g1f3", "b8c6", "d2d4", "c5d4", "f3d4", "g8f6", "b1c3", "e7e5"}, // Sveshnikov
	{"e2e4", "c7c5", "c2c3"},                                                        // Alapin
	{"e2e4", "c7c5", "b1c3"},                                                        // Closed Sicilian

	// French / Caro-Kann / other semi-open.
	{"e2e4", "e7e6", "d2d4", "d7d5"},
	{"e2e4", "c7c6", "d2d4", "d7d5"},
	{"e2e4", "d7d6", "d2d4", "g8f6"}, // Pirc
	{"e2e4", "g7g6"},                 // Modern

	// Queen's pawn.
	{"d2d4", "d7d5", "c2c4", "e7e6"},       // QGD
	{"d2d4", "d7d5", "c2c4", "c7c6"},       // Slav
	{"d2d4", "g8f6", "c2c4", "g7g6"},       // King's Indian / Gruenfeld family
	{"d2d4", "g8f6", "c2c4", "e7e6"},       // Nimzo/Bogo-Indian family
	{"d2d4", "f7f5"},                       // Dutch

	// Flank openings.
	{"c2c4", "e7e5"},
	{"c2c4", "g8f6", "b1c3", "e7e5"},
	{"g1f3", "d7d5", "c2c4"},
	{"g1f3", "g8f6", "c2c4", "g7g6"},
}
