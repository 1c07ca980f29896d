package round

// startClock arms the once-per-tick countdown.
func (r *Round) startClock() {
	r.clockTask = r.sched.Every(r.tuning.ClockTick, r.guard(r.tick))
}

// tick decrements the remaining time and ends the round at zero.
func (r *Round) tick() {
	if r.state.TimeLeft > 0 {
		r.state.TimeLeft--
		r.sink.Emit(TimeChanged{TimeLeft: r.state.TimeLeft})
	}
	if r.state.TimeLeft <= 0 {
		r.end()
	}
}

// adjustTime applies an out-of-band time change, flooring at zero. Driving
// the clock to zero ends the round immediately.
func (r *Round) adjustTime(delta int) {
	r.state.TimeLeft += delta
	if r.state.TimeLeft < 0 {
		r.state.TimeLeft = 0
	}
	r.sink.Emit(TimeChanged{TimeLeft: r.state.TimeLeft})

	if r.state.TimeLeft == 0 {
		r.end()
	}
}
