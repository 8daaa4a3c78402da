package sim

// Bases is the current base occupancy.
type Bases struct {
	First  bool `json:"first"`
	Second bool `json:"second"`
	Third  bool `json:"third"`
}

// Advance pushes every runner ahead n bases and puts the batter on
// base n, with 4 meaning home. It returns the new occupancy and the
// runs scored by the existing runners; on n of 4 the batter's own run
// is the caller's to credit.
func (b Bases) Advance(n int) (Bases, int) {
	if n < 1 {
		return b, 0
	}
	if n > 4 {
		n = 4
	}

	runs := 0
	if b.Third {
		runs++
	}
	if b.Second && n >= 2 {
		runs++
	}
	if b.First && n >= 3 {
		runs++
	}

	switch n {
	case 4:
		return Bases{}, runs
	case 3:
		return Bases{Third: true}, runs
	case 2:
		return Bases{Second: true, Third: b.First}, runs
	default:
		return Bases{First: true, Second: b.First, Third: b.Second}, runs
	}
}

// Runners counts occupied bases.
func (b Bases) Runners() int {
	n := 0
	if b.First {
		n++
	}
	if b.Second {
		n++
	}
	if b.Third {
		n++
	}
	return n
}
