package bullpen

import (
	"fmt"
	"strconv"
	"strings"
)

// Hand is a batter or pitcher handedness, "L" or "R".
type Hand string

const (
	HandLeft  Hand = "L"
	HandRight Hand = "R"
)

// Reliever is a relief pitcher candidate. The top block comes from the
// reliever CSV and never changes after load; the counters below are live
// game tallies owned by whoever holds the working copy.
type Reliever struct {
	Team        string  `json:"team,omitempty"`
	Name        string  `json:"name"`
	Throws      Hand    `json:"throws"`
	ERA         float64 `json:"era"`
	WHIP        float64 `json:"whip"`
	KPer9       float64 `json:"k9"`
	BBPer9      float64 `json:"bb9"`
	VsLeftWOBA  float64 `json:"vsL_woba"`
	VsRightWOBA float64 `json:"vsR_woba"`
	DaysRest    int     `json:"days_rest"`
	Score       float64 `json:"score"`

	Hits          int `json:"hits"`
	ExtraBaseHits int `json:"extra_base_hits"`
	HomeRuns      int `json:"home_runs"`
	TotalBases    int `json:"total_bases"`
	RunsBattedIn  int `json:"runs_batted_in"`
	Walks         int `json:"walks"`
	Balls         int `json:"balls"`
	Strikes       int `json:"strikes"`
}

// SplitWOBA returns the wOBA the reliever allows against the given
// batter side. Anything other than "L" reads the right-handed split.
func (r Reliever) SplitWOBA(batter Hand) float64 {
	if batter == HandLeft {
		return r.VsLeftWOBA
	}
	return r.VsRightWOBA
}

// ResetCounters zeroes the live tallies, leaving the loaded stats as-is.
func (r *Reliever) ResetCounters() {
	r.Hits = 0
	r.ExtraBaseHits = 0
	r.HomeRuns = 0
	r.TotalBases = 0
	r.RunsBattedIn = 0
	r.Walks = 0
	r.Balls = 0
	r.Strikes = 0
}

func relieverFromRecord(columns map[string]int, record []string) (Reliever, error) {
	str := func(name string) (string, error) {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return "", fmt.Errorf("missing column %q", name)
		}
		return strings.TrimSpace(record[i]), nil
	}
	float := func(name string) (float64, error) {
		s, err := str(name)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("column %q: %s", name, err)
		}
		return v, nil
	}

	var r Reliever
	var err error
	if r.Name, err = str("name"); err != nil {
		return Reliever{}, err
	}

	throws, err := str("throws")
	if err != nil {
		return Reliever{}, err
	}
	r.Throws = Hand(strings.ToUpper(throws))

	if r.ERA, err = float("era"); err != nil {
		return Reliever{}, err
	}
	if r.WHIP, err = float("whip"); err != nil {
		return Reliever{}, err
	}
	if r.KPer9, err = float("k9"); err != nil {
		return Reliever{}, err
	}
	if r.BBPer9, err = float("bb9"); err != nil {
		return Reliever{}, err
	}
	if r.VsLeftWOBA, err = float("vsL_woba"); err != nil {
		return Reliever{}, err
	}
	if r.VsRightWOBA, err = float("vsR_woba"); err != nil {
		return Reliever{}, err
	}

	rest, err := float("days_rest")
	if err != nil {
		return Reliever{}, err
	}
	r.DaysRest = int(rest)

	// team is present in some datasets only
	if _, ok := columns["team"]; ok {
		r.Team, _ = str("team")
	}

	return r, nil
}
