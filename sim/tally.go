package sim

import "github.com/tifye/dugout/bullpen"

// Tally folds one outcome into the reliever's live counters. Fouls and
// balls put in play for outs leave the counters alone; the scoreboard
// side of those plays lives in State.Apply.
func Tally(r *bullpen.Reliever, o Outcome) {
	switch o {
	case OutcomeStrike, OutcomeStrikeout:
		r.Strikes++
	case OutcomeBall:
		r.Balls++
	case OutcomeWalk:
		r.Balls++
		r.Walks++
	case OutcomeSingle:
		r.Hits++
		r.TotalBases++
	case OutcomeDouble:
		r.Hits++
		r.ExtraBaseHits++
		r.TotalBases += 2
	case OutcomeTriple:
		r.Hits++
		r.ExtraBaseHits++
		r.TotalBases += 3
	case OutcomeHomeRun:
		r.Hits++
		r.ExtraBaseHits++
		r.HomeRuns++
		r.TotalBases += 4
		r.RunsBattedIn++
	}
}
