package sim

const (
	InningsPerGame = 9
	OutsPerHalf    = 3
	StrikesPerOut  = 3
	BallsPerWalk   = 4
)

// Half is which side of the inning is batting: the away team bats the
// top, the home team the bottom.
type Half string

const (
	HalfTop    Half = "top"
	HalfBottom Half = "bottom"
)

// Count is the balls-strikes count on the current batter.
type Count struct {
	Balls   int `json:"balls"`
	Strikes int `json:"strikes"`
}

type Score struct {
	Away int `json:"away"`
	Home int `json:"home"`
}

// State is the live scoreboard of a simulated game. It is a plain
// value; the Runner owns synchronization.
type State struct {
	Inning   int    `json:"inning"`
	Half     Half   `json:"half"`
	Outs     int    `json:"outs"`
	Count    Count  `json:"count"`
	Bases    Bases  `json:"bases"`
	Score    Score  `json:"score"`
	LastPlay string `json:"lastPlay"`
	Complete bool   `json:"complete"`
}

func NewState() *State {
	return &State{
		Inning: 1,
		Half:   HalfTop,
	}
}

// NeedsTurnover reports whether the half inning is over and the next
// advance should switch sides instead of pitching.
func (s *State) NeedsTurnover() bool {
	return s.Outs >= OutsPerHalf
}

// Turnover switches sides. Rolling past the bottom of the final inning
// completes the game instead, leaving the final slate untouched.
func (s *State) Turnover() {
	if s.Complete {
		return
	}

	if s.Half == HalfTop {
		s.Half = HalfBottom
	} else {
		if s.Inning >= InningsPerGame {
			s.Complete = true
			return
		}
		s.Half = HalfTop
		s.Inning++
	}

	s.Outs = 0
	s.Count = Count{}
	s.Bases = Bases{}
}

// Apply resolves one outcome against the state and returns the runs it
// scored for the batting team. It never fails: out-of-range inputs are
// clamped and applying to a completed game changes nothing.
func (s *State) Apply(o Outcome) int {
	if s.Complete {
		return 0
	}

	runs := 0
	switch o {
	case OutcomeStrike:
		s.Count.Strikes++
		if s.Count.Strikes >= StrikesPerOut {
			s.recordOut()
		}
	case OutcomeFoul:
		// a foul never rings up strike three
		if s.Count.Strikes < StrikesPerOut-1 {
			s.Count.Strikes++
		}
	case OutcomeBall:
		s.Count.Balls++
		if s.Count.Balls >= BallsPerWalk {
			runs = s.advance(1)
			s.Count = Count{}
		}
	case OutcomeWalk, OutcomeSingle:
		runs = s.advance(1)
		s.Count = Count{}
	case OutcomeDouble:
		runs = s.advance(2)
		s.Count = Count{}
	case OutcomeTriple:
		runs = s.advance(3)
		s.Count = Count{}
	case OutcomeHomeRun:
		runs = s.advance(4) + 1
		s.Count = Count{}
	case OutcomeStrikeout, OutcomeGroundOut, OutcomeFlyOut:
		s.recordOut()
	}

	if runs > 0 {
		if s.Half == HalfTop {
			s.Score.Away += runs
		} else {
			s.Score.Home += runs
		}
	}
	return runs
}

func (s *State) advance(n int) int {
	bases, runs := s.Bases.Advance(n)
	s.Bases = bases
	return runs
}

func (s *State) recordOut() {
	s.Outs = min(s.Outs+1, OutsPerHalf)
	s.Count = Count{}
}
