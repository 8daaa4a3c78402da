package sim

import "fmt"

// Describe renders a fixed broadcast line for an outcome. Every line
// names the pitcher and carries the count as it stands after the
// outcome was applied, so at-bat-ending plays read "resets 0-0".
func Describe(o Outcome, pitcher string, c Count) string {
	switch o {
	case OutcomeBall:
		return fmt.Sprintf("Ball from %s, just off the plate. Count %d-%d.", pitcher, c.Balls, c.Strikes)
	case OutcomeStrike:
		return fmt.Sprintf("Called strike from %s. Count %d-%d.", pitcher, c.Balls, c.Strikes)
	case OutcomeFoul:
		return fmt.Sprintf("Fouled off against %s. Count %d-%d.", pitcher, c.Balls, c.Strikes)
	case OutcomeWalk:
		return fmt.Sprintf("Ball four from %s and the batter takes first. Count resets %d-%d.", pitcher, c.Balls, c.Strikes)
	case OutcomeStrikeout:
		return fmt.Sprintf("Strike three! %s gets the strikeout. Count resets %d-%d.", pitcher, c.Balls, c.Strikes)
	case OutcomeSingle:
		return fmt.Sprintf("Lined off %s for a single. Count resets %d-%d.", pitcher, c.Balls, c.Strikes)
	case OutcomeDouble:
		return fmt.Sprintf("Driven into the gap off %s, a stand-up double. Count resets %d-%d.", pitcher, c.Balls, c.Strikes)
	case OutcomeTriple:
		return fmt.Sprintf("Into the corner off %s and the batter digs for three. Count resets %d-%d.", pitcher, c.Balls, c.Strikes)
	case OutcomeHomeRun:
		return fmt.Sprintf("Deep off %s... gone! Home run. Count resets %d-%d.", pitcher, c.Balls, c.Strikes)
	case OutcomeGroundOut:
		return fmt.Sprintf("Chopped off %s, ground out. Count resets %d-%d.", pitcher, c.Balls, c.Strikes)
	case OutcomeFlyOut:
		return fmt.Sprintf("Lifted off %s and run down for the out. Count resets %d-%d.", pitcher, c.Balls, c.Strikes)
	default:
		return fmt.Sprintf("%s delivers. Count %d-%d.", pitcher, c.Balls, c.Strikes)
	}
}

// DescribeTurnover renders the side-change line, or the final call once
// the game is over.
func DescribeTurnover(s *State) string {
	if s.Complete {
		return fmt.Sprintf("That's the ballgame. Final score: away %d, home %d.", s.Score.Away, s.Score.Home)
	}
	side := "Top"
	if s.Half == HalfBottom {
		side = "Bottom"
	}
	return fmt.Sprintf("Three away. %s of the %s.", side, ordinal(s.Inning))
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 10 {
	case 1:
		suffix = "st"
	case 2:
		suffix = "nd"
	case 3:
		suffix = "rd"
	}
	if n%100 >= 11 && n%100 <= 13 {
		suffix = "th"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
