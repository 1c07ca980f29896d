// Package round implements the ball lifecycle and scoring engine: spawning,
// expiry, combos, power-ups and the round clock. A Round is single-threaded;
// the caller serializes Start, Click and Advance.
package round

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/tomz197/ballrush/internal/ball"
	"github.com/tomz197/ballrush/internal/loop/config"
)

// Recorder persists personal bests. Calls happen on the round's goroutine
// and must not block.
type Recorder interface {
	RecordBestCombo(combo int)
	RecordHighScore(score int)
}

// Options configures a Round.
type Options struct {
	Tuning    config.Tuning
	Rand      *rand.Rand // nil seeds from the wall clock
	Sink      Sink
	Recorder  Recorder
	HighScore int // Persisted bests loaded at session start
	BestCombo int
}

// Round is the controller owning a player's RoundState, ball registry and
// timers. It survives across rounds; Start resets it.
type Round struct {
	tuning   config.Tuning
	selector *ball.Selector
	placer   *ball.Placer
	sched    *Scheduler
	reg      *Registry
	sink     Sink
	recorder Recorder

	state  State
	gen    uint64 // Bumped on every start and end; stale callbacks compare it
	nextID uint64

	clockTask TaskID
	spawnTask TaskID
}

// New creates an idle round controller.
func New(opts Options) *Round {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	sink := opts.Sink
	if sink == nil {
		sink = discardSink{}
	}

	placer := ball.NewPlacer(rng)
	placer.Padding = opts.Tuning.Padding
	placer.Gap = opts.Tuning.Gap

	r := &Round{
		tuning:   opts.Tuning,
		selector: ball.NewSelector(opts.Tuning.Balls, rng),
		placer:   placer,
		sched:    NewScheduler(),
		sink:     sink,
		recorder: opts.Recorder,
		state: State{
			HighScore: opts.HighScore,
			BestCombo: opts.BestCombo,
		},
	}
	r.reg = NewRegistry(r.sched, opts.Tuning.BallLifetime, r.ballExpired)
	return r
}

// Start begins a new round. It is ignored while a round is running.
func (r *Round) Start() bool {
	if r.state.Running() {
		return false
	}

	r.sched.Reset()
	r.reg.Clear()
	r.gen++

	r.state = State{
		ID:        uuid.New(),
		Phase:     PhaseRunning,
		TimeLeft:  r.tuning.RoundSeconds,
		HighScore: r.state.HighScore,
		BestCombo: r.state.BestCombo,
	}

	r.sink.Emit(RoundStarted{ID: r.state.ID, TimeLeft: r.state.TimeLeft})
	r.sink.Emit(ScoreChanged{Score: 0})
	r.sink.Emit(ComboChanged{Combo: 0, BestCombo: r.state.BestCombo})
	r.sink.Emit(TimeChanged{TimeLeft: r.state.TimeLeft})

	r.startClock()
	r.startSpawner()
	return true
}

// Advance moves round time forward by d, firing due timers.
func (r *Round) Advance(d time.Duration) {
	r.sched.Advance(d)
}

// Now returns the round controller's virtual time.
func (r *Round) Now() time.Duration {
	return r.sched.Now()
}

// State returns a copy of the round state.
func (r *Round) State() State {
	return r.state
}

// Balls returns the live balls in spawn order.
func (r *Round) Balls() []ball.Ball {
	return r.reg.Balls()
}

// Ball returns the live ball with the given id.
func (r *Round) Ball(id uint64) (ball.Ball, bool) {
	return r.reg.Get(id)
}

// Field returns the play field dimensions.
func (r *Round) Field() (width, height float64) {
	return r.tuning.FieldWidth, r.tuning.FieldHeight
}

// Tuning returns the rules this round plays by.
func (r *Round) Tuning() config.Tuning {
	return r.tuning
}

// Click handles a click on ball id at the current round time. It reports
// false and changes nothing when the round is not running or the ball is
// already gone.
func (r *Round) Click(id uint64) bool {
	if !r.state.Running() {
		return false
	}
	b, ok := r.reg.Remove(id)
	if !ok {
		return false
	}
	r.sink.Emit(BallRemoved{ID: id, Reason: RemovedClicked})

	r.registerClick(r.sched.Now())

	if b.Kind.Special() {
		r.activate(b.Kind)
	} else {
		r.award(b, r.points(b.Points))
	}

	if r.state.Running() {
		r.scheduleRefill()
	}
	return true
}

// end stops the round: timers are cancelled, the field is cleared and the
// high score is settled.
func (r *Round) end() {
	if !r.state.Running() {
		return
	}
	r.gen++
	r.state.Phase = PhaseEnded
	r.sched.Reset()
	r.clockTask, r.spawnTask = 0, 0

	for _, b := range r.reg.Clear() {
		r.sink.Emit(BallRemoved{ID: b.ID, Reason: RemovedCleared})
	}
	for _, kind := range r.state.Active.Kinds() {
		r.state.Active.remove(kind)
		r.sink.Emit(PowerUpExpired{Kind: kind})
	}

	newHigh := r.state.Score > r.state.HighScore
	if newHigh {
		r.state.HighScore = r.state.Score
		if r.recorder != nil {
			r.recorder.RecordHighScore(r.state.HighScore)
		}
	}

	r.sink.Emit(RoundEnded{
		ID:           r.state.ID,
		Score:        r.state.Score,
		Combo:        r.state.Combo,
		HighScore:    r.state.HighScore,
		NewHighScore: newHigh,
	})
}

// guard wraps a deferred callback so it only runs inside the round that
// scheduled it.
func (r *Round) guard(fn func()) func() {
	gen := r.gen
	return func() {
		if r.gen != gen || !r.state.Running() {
			return
		}
		fn()
	}
}
