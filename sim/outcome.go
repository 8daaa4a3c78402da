package sim

// Outcome is a single pitch or at-bat result produced by the sampler
// and consumed by the game state.
type Outcome int

const (
	OutcomeBall Outcome = iota
	OutcomeStrike
	OutcomeFoul
	OutcomeWalk
	OutcomeStrikeout
	OutcomeSingle
	OutcomeDouble
	OutcomeTriple
	OutcomeHomeRun
	OutcomeGroundOut
	OutcomeFlyOut
)

func (o Outcome) String() string {
	switch o {
	case OutcomeBall:
		return "ball"
	case OutcomeStrike:
		return "strike"
	case OutcomeFoul:
		return "foul"
	case OutcomeWalk:
		return "walk"
	case OutcomeStrikeout:
		return "strikeout"
	case OutcomeSingle:
		return "single"
	case OutcomeDouble:
		return "double"
	case OutcomeTriple:
		return "triple"
	case OutcomeHomeRun:
		return "home run"
	case OutcomeGroundOut:
		return "ground out"
	case OutcomeFlyOut:
		return "fly out"
	default:
		return "unknown"
	}
}

// EndsAtBat reports whether the outcome retires or advances the batter
// rather than just running the count.
func (o Outcome) EndsAtBat() bool {
	switch o {
	case OutcomeBall, OutcomeStrike, OutcomeFoul:
		return false
	default:
		return true
	}
}
