package sim

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tifye/dugout/bullpen"
)

// strikeoutMachine pitches nothing but strike three, which makes a full
// game exactly 72 advances: 18 halves of three strikeouts plus the
// turnover that consumes its own advance.
func strikeoutMachine() []bullpen.Reliever {
	return []bullpen.Reliever{
		{Name: "Riku Mori", Throws: bullpen.HandRight, KPer9: 27},
		{Name: "Lev Haas", Throws: bullpen.HandLeft, KPer9: 27},
	}
}

const advancesPerGame = 2 * InningsPerGame * (OutsPerHalf + 1)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	return NewRunner(log.New(io.Discard), NewSampler(3, 9), time.Hour)
}

func TestRunnerRefusesWithoutRelievers(t *testing.T) {
	r := newTestRunner(t)

	assert.ErrorIs(t, r.Start(), ErrNoData)
	assert.ErrorIs(t, r.Step(), ErrNoData)
	assert.ErrorIs(t, r.Load(nil, bullpen.HandRight), ErrNoData)
}

func TestRunnerLoad(t *testing.T) {
	t.Run("defaults unknown batter hands to right", func(t *testing.T) {
		r := newTestRunner(t)
		require.NoError(t, r.Load(strikeoutMachine(), bullpen.Hand("X")))
		assert.Equal(t, bullpen.HandRight, r.Snapshot().Batter)

		require.NoError(t, r.Load(strikeoutMachine(), bullpen.HandLeft))
		assert.Equal(t, bullpen.HandLeft, r.Snapshot().Batter)
	})

	t.Run("zeroes pitch counters on its private copies", func(t *testing.T) {
		r := newTestRunner(t)
		relievers := strikeoutMachine()
		relievers[0].Hits = 5
		relievers[0].Strikes = 12

		require.NoError(t, r.Load(relievers, bullpen.HandRight))

		snap := r.Snapshot()
		assert.Zero(t, snap.Relievers[0].Hits)
		assert.Zero(t, snap.Relievers[0].Strikes)
		assert.Equal(t, 5, relievers[0].Hits, "the caller's slice is left alone")
	})
}

func TestRunnerStep(t *testing.T) {
	r := newTestRunner(t)
	require.NoError(t, r.Load(strikeoutMachine(), bullpen.HandRight))

	var published []Snapshot
	r.OnPublish(func(s Snapshot) { published = append(published, s) })

	for range OutsPerHalf {
		require.NoError(t, r.Step())
	}

	snap := r.Snapshot()
	assert.Equal(t, StatusIdle, snap.Status)
	assert.Equal(t, OutsPerHalf, snap.State.Outs)
	assert.Equal(t, OutsPerHalf, snap.Relievers[0].Strikes, "strikeouts land on the mound pitcher")
	assert.Zero(t, snap.Relievers[1].Strikes)
	assert.Contains(t, snap.State.LastPlay, "Riku Mori")
	require.Len(t, published, OutsPerHalf)

	// the due turnover consumes the next step
	require.NoError(t, r.Step())
	snap = r.Snapshot()
	assert.Zero(t, snap.State.Outs)
	assert.Equal(t, HalfBottom, snap.State.Half)
	assert.Equal(t, "Three away. Bottom of the 1st.", snap.State.LastPlay)
}

func TestRunnerStepRefusedWhileLive(t *testing.T) {
	r := newTestRunner(t)
	require.NoError(t, r.Load(strikeoutMachine(), bullpen.HandRight))

	require.NoError(t, r.Start())
	assert.ErrorIs(t, r.Step(), ErrLive)

	r.Stop()
	assert.NoError(t, r.Step())
}

func TestRunnerGameCompletesByStepping(t *testing.T) {
	r := newTestRunner(t)
	require.NoError(t, r.Load(strikeoutMachine(), bullpen.HandRight))

	for range advancesPerGame {
		require.NoError(t, r.Step())
	}

	snap := r.Snapshot()
	require.True(t, snap.State.Complete)
	assert.Equal(t, Score{}, snap.State.Score, "nobody reaches base against strike three")
	assert.Equal(t, 2*InningsPerGame*OutsPerHalf, snap.Relievers[0].Strikes)
	assert.Equal(t, "That's the ballgame. Final score: away 0, home 0.", snap.State.LastPlay)

	// further steps leave the finished game alone
	require.NoError(t, r.Step())
	assert.Equal(t, snap, r.Snapshot())
}

func TestRunnerStopRetainsState(t *testing.T) {
	r := newTestRunner(t)
	require.NoError(t, r.Load(strikeoutMachine(), bullpen.HandRight))
	require.NoError(t, r.Step())
	require.NoError(t, r.Step())

	before := r.Snapshot()
	r.Stop() // not live, no-op
	assert.Equal(t, before.State, r.Snapshot().State)

	require.NoError(t, r.Start())
	r.Stop()

	snap := r.Snapshot()
	assert.Equal(t, StatusIdle, snap.Status)
	assert.Equal(t, 1, snap.State.Inning, "start reset the game before stop froze it")
}

func TestRunnerStartResets(t *testing.T) {
	r := newTestRunner(t)
	require.NoError(t, r.Load(strikeoutMachine(), bullpen.HandRight))

	for range 5 {
		require.NoError(t, r.Step())
	}
	require.NotZero(t, r.Snapshot().Relievers[0].Strikes)

	require.NoError(t, r.Start())
	defer r.Stop()

	snap := r.Snapshot()
	assert.Equal(t, StatusLive, snap.Status)
	assert.Equal(t, 1, snap.State.Inning)
	assert.Equal(t, HalfTop, snap.State.Half)
	assert.Zero(t, snap.State.Outs)
	assert.Zero(t, snap.Relievers[0].Strikes)
}

func TestRunnerLiveRunsToCompletion(t *testing.T) {
	r := NewRunner(log.New(io.Discard), NewSampler(3, 9), time.Millisecond)
	require.NoError(t, r.Load(strikeoutMachine(), bullpen.HandRight))

	var (
		mu        sync.Mutex
		published int
	)
	r.OnPublish(func(Snapshot) {
		mu.Lock()
		published++
		mu.Unlock()
	})

	require.NoError(t, r.Start())

	require.Eventually(t, func() bool {
		snap := r.Snapshot()
		return snap.State.Complete && snap.Status == StatusIdle
	}, 5*time.Second, 10*time.Millisecond, "the ticker should stop itself at the final out")

	mu.Lock()
	count := published
	mu.Unlock()
	// one publish from Start plus one per advance
	assert.GreaterOrEqual(t, count, advancesPerGame+1)
}

func TestRunnerStaleTickIsDropped(t *testing.T) {
	r := newTestRunner(t)
	require.NoError(t, r.Load(strikeoutMachine(), bullpen.HandRight))

	require.NoError(t, r.Start())
	stale := r.epoch
	require.NoError(t, r.Start()) // abandons the first run
	defer r.Stop()

	before := r.Snapshot()
	assert.False(t, r.tick(stale), "a tick from an abandoned run must die")
	assert.Equal(t, before.State, r.Snapshot().State)

	assert.True(t, r.tick(r.epoch))
	assert.Equal(t, 1, r.Snapshot().State.Outs)
}

func TestRunnerAnnotations(t *testing.T) {
	t.Run("a fetched line lands on the snapshot", func(t *testing.T) {
		r := newTestRunner(t)
		require.NoError(t, r.Load(strikeoutMachine(), bullpen.HandRight))

		plays := make(chan string, 1)
		r.OnAnnotate(func(_ context.Context, snap Snapshot) (string, error) {
			plays <- snap.State.LastPlay
			return "What a pitch to end the at-bat.", nil
		})

		require.NoError(t, r.Step())

		select {
		case play := <-plays:
			assert.Contains(t, play, "Riku Mori")
		case <-time.After(time.Second):
			t.Fatal("annotate hook was never called")
		}
		require.Eventually(t, func() bool {
			return r.Snapshot().Annotation == "What a pitch to end the at-bat."
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("fetch errors are swallowed", func(t *testing.T) {
		r := newTestRunner(t)
		require.NoError(t, r.Load(strikeoutMachine(), bullpen.HandRight))

		r.OnAnnotate(func(context.Context, Snapshot) (string, error) {
			return "", context.DeadlineExceeded
		})

		require.NoError(t, r.Step())
		assert.Never(t, func() bool {
			return r.Snapshot().Annotation != ""
		}, 100*time.Millisecond, 10*time.Millisecond)
	})

	t.Run("lines from an abandoned run are dropped", func(t *testing.T) {
		r := newTestRunner(t)
		require.NoError(t, r.Load(strikeoutMachine(), bullpen.HandRight))

		stale := r.epoch
		r.setAnnotation(stale, "fresh")
		assert.Equal(t, "fresh", r.Snapshot().Annotation)

		require.NoError(t, r.Load(strikeoutMachine(), bullpen.HandRight))
		r.setAnnotation(stale, "stale")
		assert.Empty(t, r.Snapshot().Annotation)
	})
}
