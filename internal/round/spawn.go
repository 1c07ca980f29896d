package round

import "github.com/tomz197/ballrush/internal/ball"

// startSpawner issues the opening burst, which ignores the cap, and arms
// the periodic spawn tick.
func (r *Round) startSpawner() {
	for i := 0; i < r.tuning.InitialBalls; i++ {
		r.spawn()
	}
	r.spawnTask = r.sched.Every(r.tuning.SpawnInterval, r.guard(r.spawnIfRoom))
}

// scheduleRefill queues the supplementary spawn that follows a click.
func (r *Round) scheduleRefill() {
	r.sched.After(r.tuning.RefillDelay, r.guard(r.spawnIfRoom))
}

func (r *Round) spawnIfRoom() {
	if r.reg.Len() < r.tuning.MaxBalls {
		r.spawn()
	}
}

// spawn attempts one ball. A placement that collides with a live ball is
// dropped without retry.
func (r *Round) spawn() {
	def := r.selector.Next()
	b, ok := r.placer.Place(def, r.tuning.FieldWidth, r.tuning.FieldHeight, r.reg.Balls())
	if !ok {
		return
	}
	r.place(b)
}

// place assigns identity and spawn time to a positioned ball and registers it.
func (r *Round) place(b ball.Ball) ball.Ball {
	r.nextID++
	b.ID = r.nextID
	b.SpawnTime = r.sched.Now()

	r.reg.Add(b)
	r.sink.Emit(BallSpawned{Ball: b})
	return b
}

func (r *Round) ballExpired(b ball.Ball) {
	r.sink.Emit(BallRemoved{ID: b.ID, Reason: RemovedExpired})
}
