package round

import (
	"math"
	"time"

	"github.com/tomz197/ballrush/internal/ball"
)

// registerClick advances the combo streak: a click inside the combo window
// of the previous one extends it, anything else restarts it at one.
func (r *Round) registerClick(now time.Duration) {
	if r.state.HasClick && now-r.state.LastClick < r.tuning.ComboWindow {
		r.state.Combo++
		if r.state.Combo > r.state.BestCombo {
			r.state.BestCombo = r.state.Combo
			if r.recorder != nil {
				r.recorder.RecordBestCombo(r.state.BestCombo)
			}
		}
	} else {
		r.state.Combo = 1
	}
	r.state.LastClick = now
	r.state.HasClick = true

	r.sink.Emit(ComboChanged{Combo: r.state.Combo, BestCombo: r.state.BestCombo})
}

// Multiplier returns min(limit, 1 + combo*step).
func Multiplier(combo int, step, limit float64) float64 {
	return math.Min(limit, 1+float64(combo)*step)
}

// points scales base points by the current combo multiplier.
func (r *Round) points(base int) int {
	m := Multiplier(r.state.Combo, r.tuning.ComboStep, r.tuning.MaxMultiplier)
	return int(math.Floor(float64(base) * m))
}

// award credits points collected from b.
func (r *Round) award(b ball.Ball, points int) {
	if points <= 0 {
		return
	}
	r.state.Score += points
	r.sink.Emit(ScoreChanged{Score: r.state.Score})
	r.sink.Emit(PointsAwarded{
		BallID: b.ID,
		X:      b.X,
		Y:      b.Y,
		Points: points,
		Combo:  r.state.Combo,
	})
}
