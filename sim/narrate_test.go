package sim

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribeNamesPitcherAndCount(t *testing.T) {
	outcomes := []Outcome{
		OutcomeBall, OutcomeStrike, OutcomeFoul,
		OutcomeWalk, OutcomeStrikeout,
		OutcomeSingle, OutcomeDouble, OutcomeTriple, OutcomeHomeRun,
		OutcomeGroundOut, OutcomeFlyOut,
	}

	for _, o := range outcomes {
		t.Run(o.String(), func(t *testing.T) {
			line := Describe(o, "Riku Mori", Count{Balls: 2, Strikes: 1})
			assert.Contains(t, line, "Riku Mori")
			assert.Contains(t, line, "2-1")
			if o.EndsAtBat() {
				assert.Contains(t, line, "resets")
			} else {
				assert.NotContains(t, line, "resets")
			}
		})
	}
}

func TestDescribeTurnover(t *testing.T) {
	t.Run("mid game", func(t *testing.T) {
		s := NewState()
		s.Inning = 3
		s.Half = HalfBottom
		assert.Equal(t, "Three away. Bottom of the 3rd.", DescribeTurnover(s))

		s.Half = HalfTop
		s.Inning = 1
		assert.Equal(t, "Three away. Top of the 1st.", DescribeTurnover(s))
	})

	t.Run("final", func(t *testing.T) {
		s := NewState()
		s.Complete = true
		s.Score = Score{Away: 2, Home: 6}
		assert.Equal(t, "That's the ballgame. Final score: away 2, home 6.", DescribeTurnover(s))
	})
}

func TestOrdinal(t *testing.T) {
	tests := map[int]string{
		1:  "1st",
		2:  "2nd",
		3:  "3rd",
		4:  "4th",
		9:  "9th",
		11: "11th",
		12: "12th",
		13: "13th",
		21: "21st",
	}
	for n, want := range tests {
		assert.Equal(t, want, ordinal(n), fmt.Sprintf("ordinal(%d)", n))
	}
}
