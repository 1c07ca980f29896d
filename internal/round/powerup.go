package round

import (
	"fmt"
	"time"

	"github.com/tomz197/ballrush/internal/ball"
)

// powerUp describes the display side of an effect.
type powerUp struct {
	label    string
	duration time.Duration // How long the kind stays in State.Active
}

func (r *Round) powerUpFor(kind ball.Kind) (powerUp, bool) {
	switch kind {
	case ball.KindTimeFreeze:
		return powerUp{label: fmt.Sprintf("+%d Seconds", r.tuning.TimeFreezeBonus), duration: r.tuning.TimeFreezeDuration}, true
	case ball.KindStrike:
		return powerUp{label: "Strike!", duration: r.tuning.StrikeDuration}, true
	case ball.KindBomb:
		return powerUp{label: fmt.Sprintf("-%d Seconds", r.tuning.BombPenalty), duration: r.tuning.BombDuration}, true
	default:
		return powerUp{}, false
	}
}

// activate resolves the effect of a clicked special ball. Unknown kinds are
// ignored.
func (r *Round) activate(kind ball.Kind) {
	pu, ok := r.powerUpFor(kind)
	if !ok {
		return
	}

	r.state.Active.add(kind)
	r.sink.Emit(PowerUpActivated{Kind: kind, Label: pu.label})

	switch kind {
	case ball.KindTimeFreeze:
		r.adjustTime(r.tuning.TimeFreezeBonus)
	case ball.KindStrike:
		r.sched.After(r.tuning.StrikeDelay, r.guard(r.strike))
	case ball.KindBomb:
		r.adjustTime(-r.tuning.BombPenalty)
	}

	// A bomb may have ended the round; end() already cleared the set.
	if !r.state.Running() {
		return
	}
	if pu.duration <= 0 {
		r.expirePowerUp(kind)
		return
	}
	r.sched.After(pu.duration, r.guard(func() { r.expirePowerUp(kind) }))
}

func (r *Round) expirePowerUp(kind ball.Kind) {
	if !r.state.Active.Has(kind) {
		return
	}
	r.state.Active.remove(kind)
	r.sink.Emit(PowerUpExpired{Kind: kind})
}

// strike collects every live non-bomb ball. Time-freeze balls grant their
// bonus; the rest pay out at the multiplier current at collection time, not
// at the time the strike ball was clicked.
func (r *Round) strike() {
	for _, b := range r.reg.Balls() {
		if b.Kind == ball.KindBomb {
			continue
		}
		if _, ok := r.reg.Remove(b.ID); !ok {
			continue
		}
		r.sink.Emit(BallRemoved{ID: b.ID, Reason: RemovedStruck})

		if b.Kind == ball.KindTimeFreeze {
			r.adjustTime(r.tuning.TimeFreezeBonus)
			continue
		}
		r.award(b, r.points(b.Points))
	}
}
