package bullpen

import (
	"cmp"
	"math"
	"slices"
	"strings"
)

// Leverage is how much the current game situation matters,
// "low", "medium" or "high".
type Leverage string

const (
	LeverageLow    Leverage = "low"
	LeverageMedium Leverage = "medium"
	LeverageHigh   Leverage = "high"
)

type scoreWeights struct {
	era     float64
	whip    float64
	kbb     float64
	platoon float64
	rest    float64
}

// Base weights sum to 1.0. Leverage shifts trade run prevention
// against matchup fit and are intentionally not re-normalized.
func weightsFor(leverage Leverage) scoreWeights {
	w := scoreWeights{
		era:     0.30,
		whip:    0.25,
		kbb:     0.20,
		platoon: 0.20,
		rest:    0.05,
	}
	switch leverage {
	case LeverageHigh:
		w.platoon += 0.05
		w.whip += 0.05
		w.kbb -= 0.05
	case LeverageLow:
		w.platoon -= 0.05
		w.kbb += 0.05
	}
	return w
}

// Lower wOBA allowed is better for the pitcher. Normalized so that
// holding batters to .000 wOBA scores 1 and .450 or worse scores 0.
func platoonAdvantage(r Reliever, batter Hand) float64 {
	return clamp01((0.450 - r.SplitWOBA(batter)) / 0.450)
}

// Score rates a reliever for the given matchup on a 0-1-ish scale,
// rounded to 4 decimals. A reliever pitching on no rest is penalized
// below what the rate stats alone would give.
func Score(r Reliever, batter Hand, leverage Leverage) float64 {
	w := weightsFor(leverage)

	eraTerm := clamp01(3.5 / math.Max(0.01, r.ERA))
	whipTerm := clamp01(1.3 / math.Max(0.01, r.WHIP))
	kbbTerm := clamp01((r.KPer9 - r.BBPer9 + 5) / 15)
	platoonTerm := platoonAdvantage(r, batter)
	restTerm := 0.0
	if r.DaysRest < 1 {
		restTerm = -0.5
	}

	score := w.era*eraTerm +
		w.whip*whipTerm +
		w.kbb*kbbTerm +
		w.platoon*platoonTerm +
		w.rest*restTerm
	return math.Round(score*10000) / 10000
}

// Rank scores every reliever not excluded by name and returns the top
// three, highest score first. Each returned reliever carries its score.
// Ties keep their input order.
func Rank(relievers []Reliever, batter Hand, leverage Leverage, exclude []string) []Reliever {
	excluded := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			excluded[name] = struct{}{}
		}
	}

	ranked := make([]Reliever, 0, len(relievers))
	for _, r := range relievers {
		if _, skip := excluded[strings.ToLower(r.Name)]; skip {
			continue
		}
		r.Score = Score(r, batter, leverage)
		ranked = append(ranked, r)
	}

	slices.SortStableFunc(ranked, func(a, b Reliever) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if len(ranked) > 3 {
		ranked = ranked[:3]
	}
	return ranked
}

func clamp01(v float64) float64 {
	return math.Max(0.0, math.Min(1.0, v))
}
