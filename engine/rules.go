package engine

// Rules holds the configurable game parameters. A Rules value is passed to
// NewGameState and travels with the serialized state, so a restored game
// keeps the settings it was created with.
type Rules struct {
	TargetScore int `json:"target_score"` // cumulative team score that ends the game
	HandSize    int `json:"hand_size"`    // cards dealt to each player
}

// DefaultRules returns the Pagat Classic 4-player settings.
func DefaultRules() Rules {
	return Rules{
		TargetScore: 5000,
		HandSize:    11,
	}
}

// normalized returns the rules with zero fields replaced by defaults, so a
// zero Rules value (e.g. from an old blob) still plays a standard game.
func (r Rules) normalized() Rules {
	d := DefaultRules()
	if r.TargetScore == 0 {
		r.TargetScore = d.TargetScore
	}
	if r.HandSize == 0 {
		r.HandSize = d.HandSize
	}
	return r
}
