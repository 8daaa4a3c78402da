package sim

import (
	"math/rand/v2"

	"github.com/tifye/dugout/assert"
	"github.com/tifye/dugout/bullpen"
)

// Stat-derived band rates. Per-9 rates divide by 27 outs, contact
// bands scale off the matchup wOBA split.
const (
	contactScale  = 0.4
	homeRunShare  = 0.1
	doubleShare   = 0.2
	singleShare   = 0.2
	strikeBand    = 0.2
	foulBand      = 0.15
	ballBand      = 0.15
	groundOutOdds = 0.5
)

// Sampler draws pitch outcomes for a reliever and batter matchup. It
// is not safe for concurrent use; callers serialize.
type Sampler struct {
	rnd *rand.Rand
}

func NewSampler(seed1, seed2 uint64) *Sampler {
	return &Sampler{
		rnd: rand.New(rand.NewPCG(seed1, seed2)),
	}
}

// Sample draws one outcome. Bands are cumulative in a fixed order and
// deliberately not normalized: a candidate's early bands can crowd out
// later ones entirely, which is how extreme stat lines are meant to
// play.
func (s *Sampler) Sample(r bullpen.Reliever, batter bullpen.Hand) Outcome {
	return outcomeForDraw(r, batter, s.rnd.Float64(), s.rnd.Float64())
}

func outcomeForDraw(r bullpen.Reliever, batter bullpen.Hand, draw, flip float64) Outcome {
	assert.AssertInRange(draw, 0, 1)
	assert.AssertInRange(flip, 0, 1)

	contact := r.SplitWOBA(batter) * contactScale

	cum := r.KPer9 / 27.0
	if draw < cum {
		return OutcomeStrikeout
	}
	cum += r.BBPer9 / 27.0
	if draw < cum {
		return OutcomeWalk
	}
	cum += contact * homeRunShare
	if draw < cum {
		return OutcomeHomeRun
	}
	cum += contact * doubleShare
	if draw < cum {
		return OutcomeDouble
	}
	cum += contact * singleShare
	if draw < cum {
		return OutcomeSingle
	}
	cum += strikeBand
	if draw < cum {
		return OutcomeStrike
	}
	cum += foulBand
	if draw < cum {
		return OutcomeFoul
	}
	cum += ballBand
	if draw < cum {
		return OutcomeBall
	}

	if flip < groundOutOdds {
		return OutcomeGroundOut
	}
	return OutcomeFlyOut
}
