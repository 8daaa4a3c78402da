package sim

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tifye/dugout/assert"
	"github.com/tifye/dugout/bullpen"
)

const (
	DefaultTickInterval = 3 * time.Second
	annotationTimeout   = 10 * time.Second
)

var (
	// ErrNoData means no reliever list has been loaded yet.
	ErrNoData = errors.New("no relievers loaded")
	// ErrLive means the simulation is ticking on its own and manual
	// stepping is refused.
	ErrLive = errors.New("simulation is live")
)

type Status string

const (
	StatusIdle Status = "idle"
	StatusLive Status = "live"
)

// Snapshot is the full read model published after every advance.
type Snapshot struct {
	Status     Status             `json:"status"`
	Batter     bullpen.Hand       `json:"batter"`
	State      State              `json:"state"`
	Relievers  []bullpen.Reliever `json:"relievers"`
	Annotation string             `json:"annotation,omitempty"`
}

// Runner drives a simulated game. It owns private copies of the loaded
// relievers, with the top-ranked one on the mound, and advances the
// game either on a fixed live ticker or one step at a time.
//
// Every advance runs under one mutex so ticks never interleave, and
// each live run carries an epoch; ticks from an abandoned run see a
// newer epoch and die without touching the state.
type Runner struct {
	logger  *log.Logger
	sampler *Sampler

	interval time.Duration

	publish  func(Snapshot)
	annotate func(context.Context, Snapshot) (string, error)

	mu         sync.Mutex
	epoch      uint64
	status     Status
	state      *State
	batter     bullpen.Hand
	source     []bullpen.Reliever
	working    []bullpen.Reliever
	annotation string
}

func NewRunner(logger *log.Logger, sampler *Sampler, interval time.Duration) *Runner {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(sampler)

	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Runner{
		logger:   logger,
		sampler:  sampler,
		interval: interval,
		status:   StatusIdle,
		state:    NewState(),
		batter:   bullpen.HandRight,
	}
}

// OnPublish sets the subscriber notified with a snapshot after every
// advance. Set before the first Start or Step.
func (r *Runner) OnPublish(fn func(Snapshot)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.publish = fn
}

// OnAnnotate sets the narrative fetcher consulted after each play. The
// fetch runs on its own goroutine; errors are logged and dropped.
func (r *Runner) OnAnnotate(fn func(context.Context, Snapshot) (string, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.annotate = fn
}

// Load replaces the working reliever list with private copies, putting
// the first (top ranked) reliever on the mound, and resets the game.
// A live run is abandoned.
func (r *Runner) Load(relievers []bullpen.Reliever, batter bullpen.Hand) error {
	if len(relievers) == 0 {
		return ErrNoData
	}
	if batter != bullpen.HandLeft {
		batter = bullpen.HandRight
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.epoch++
	r.status = StatusIdle
	r.batter = batter
	r.source = slices.Clone(relievers)
	for i := range r.source {
		r.source[i].ResetCounters()
	}
	r.resetLocked()

	r.logger.Debug("loaded relievers", "count", len(r.source), "batter", batter, "onMound", r.source[0].Name)
	return nil
}

// Start resets the game and begins live ticking. Starting while live
// abandons the old run and begins fresh.
func (r *Runner) Start() error {
	r.mu.Lock()
	if len(r.source) == 0 {
		r.mu.Unlock()
		return ErrNoData
	}

	r.epoch++
	epoch := r.epoch
	r.resetLocked()
	r.status = StatusLive
	snap := r.snapshotLocked()
	r.mu.Unlock()

	go r.live(epoch)

	r.logger.Info("simulation live", "interval", r.interval, "relievers", len(snap.Relievers))
	r.emit(snap, epoch)
	return nil
}

// Stop halts live ticking. The game state is retained and can be
// inspected, stepped, or restarted.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusLive {
		return
	}
	r.epoch++
	r.status = StatusIdle
	r.logger.Info("simulation stopped", "inning", r.state.Inning, "half", r.state.Half)
}

// Step advances the game by one outcome. Only honored while not live.
func (r *Runner) Step() error {
	r.mu.Lock()
	if r.status == StatusLive {
		r.mu.Unlock()
		return ErrLive
	}
	if len(r.source) == 0 {
		r.mu.Unlock()
		return ErrNoData
	}

	snap := r.advanceLocked()
	epoch := r.epoch
	r.mu.Unlock()

	r.emit(snap, epoch)
	return nil
}

// Snapshot returns the current read model.
func (r *Runner) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Runner) live(epoch uint64) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for range ticker.C {
		if !r.tick(epoch) {
			return
		}
	}
}

// tick runs one scheduled advance. Reports false once this loop's
// epoch is stale or the game has finished, which stops the loop.
func (r *Runner) tick(epoch uint64) bool {
	r.mu.Lock()
	if epoch != r.epoch || r.status != StatusLive {
		r.mu.Unlock()
		return false
	}

	snap := r.advanceLocked()
	done := r.state.Complete
	if done {
		r.status = StatusIdle
		r.logger.Info("game complete",
			"away", r.state.Score.Away,
			"home", r.state.Score.Home,
		)
	}
	r.mu.Unlock()

	r.emit(snap, epoch)
	return !done
}

// advanceLocked consumes one scheduled advance: a due half-inning
// turnover takes the whole advance, otherwise one outcome is sampled
// and applied.
func (r *Runner) advanceLocked() Snapshot {
	if r.state.Complete {
		return r.snapshotLocked()
	}

	if r.state.NeedsTurnover() {
		r.state.Turnover()
		r.state.LastPlay = DescribeTurnover(r.state)
		return r.snapshotLocked()
	}

	pitcher := &r.working[0]
	outcome := r.sampler.Sample(*pitcher, r.batter)
	r.state.Apply(outcome)
	Tally(pitcher, outcome)
	r.state.LastPlay = Describe(outcome, pitcher.Name, r.state.Count)

	r.logger.Debug("advance",
		"outcome", outcome,
		"inning", r.state.Inning,
		"half", r.state.Half,
		"outs", r.state.Outs,
	)
	return r.snapshotLocked()
}

func (r *Runner) resetLocked() {
	r.state = NewState()
	r.working = slices.Clone(r.source)
	r.annotation = ""
}

func (r *Runner) snapshotLocked() Snapshot {
	return Snapshot{
		Status:     r.status,
		Batter:     r.batter,
		State:      *r.state,
		Relievers:  slices.Clone(r.working),
		Annotation: r.annotation,
	}
}

// emit pushes the snapshot to the publish hook and kicks off the
// fire-and-forget narrative fetch. Runs outside the runner mutex.
func (r *Runner) emit(snap Snapshot, epoch uint64) {
	if r.publish != nil {
		r.publish(snap)
	}

	if r.annotate == nil || snap.State.LastPlay == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), annotationTimeout)
		defer cancel()

		text, err := r.annotate(ctx, snap)
		if err != nil {
			r.logger.Debug("annotation fetch dropped", "err", err)
			return
		}
		if text == "" {
			return
		}
		r.setAnnotation(epoch, text)
	}()
}

// setAnnotation attaches a narrative line to the run it was fetched
// for. Annotations racing in from an abandoned run are dropped.
func (r *Runner) setAnnotation(epoch uint64, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if epoch != r.epoch {
		return
	}
	r.annotation = text
}
