package round

import (
	"slices"
	"time"

	"github.com/tomz197/ballrush/internal/ball"
)

// Registry owns the live balls of a round and their expiry timers.
// It never refuses an Add; the concurrency cap is the spawner's business.
type Registry struct {
	sched    *Scheduler
	lifetime time.Duration
	onExpire func(ball.Ball)

	balls  map[uint64]ball.Ball
	timers map[uint64]TaskID
}

// NewRegistry creates a registry whose balls expire lifetime after their
// spawn time. onExpire runs after an expired ball has been removed.
func NewRegistry(sched *Scheduler, lifetime time.Duration, onExpire func(ball.Ball)) *Registry {
	return &Registry{
		sched:    sched,
		lifetime: lifetime,
		onExpire: onExpire,
		balls:    make(map[uint64]ball.Ball),
		timers:   make(map[uint64]TaskID),
	}
}

// Add registers b and arms its expiry timer at SpawnTime + lifetime.
func (r *Registry) Add(b ball.Ball) {
	r.balls[b.ID] = b

	id := b.ID
	due := b.SpawnTime + r.lifetime - r.sched.Now()
	r.timers[id] = r.sched.After(due, func() {
		delete(r.timers, id)
		expired, ok := r.balls[id]
		if !ok {
			return
		}
		delete(r.balls, id)
		if r.onExpire != nil {
			r.onExpire(expired)
		}
	})
}

// Remove drops the ball and cancels its timer. Removing an absent ball is a
// no-op that reports false.
func (r *Registry) Remove(id uint64) (ball.Ball, bool) {
	b, ok := r.balls[id]
	if !ok {
		return ball.Ball{}, false
	}
	delete(r.balls, id)
	if timer, armed := r.timers[id]; armed {
		r.sched.Cancel(timer)
		delete(r.timers, id)
	}
	return b, true
}

// Get returns the live ball with the given id.
func (r *Registry) Get(id uint64) (ball.Ball, bool) {
	b, ok := r.balls[id]
	return b, ok
}

// Len returns the number of live balls.
func (r *Registry) Len() int {
	return len(r.balls)
}

// Balls returns the live balls ordered by id (spawn order).
func (r *Registry) Balls() []ball.Ball {
	out := make([]ball.Ball, 0, len(r.balls))
	for _, b := range r.balls {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b ball.Ball) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})
	return out
}

// Each calls fn for every live ball in spawn order. fn may remove balls.
func (r *Registry) Each(fn func(ball.Ball)) {
	for _, b := range r.Balls() {
		fn(b)
	}
}

// Clear removes every ball and cancels every expiry timer, returning the
// removed balls in spawn order.
func (r *Registry) Clear() []ball.Ball {
	removed := r.Balls()
	for id, timer := range r.timers {
		r.sched.Cancel(timer)
		delete(r.timers, id)
	}
	clear(r.balls)
	return removed
}
