package round

import (
	"time"

	"github.com/google/uuid"
	"github.com/tomz197/ballrush/internal/ball"
)

// Phase is the round clock's lifecycle stage.
type Phase int

const (
	PhaseNotRunning Phase = iota // No round played yet
	PhaseRunning
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseNotRunning:
		return "notRunning"
	case PhaseRunning:
		return "running"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// PowerUps is a small set of active power-up kinds.
type PowerUps uint8

// Has reports whether kind is active.
func (p PowerUps) Has(kind ball.Kind) bool {
	return kind.Valid() && p&(1<<uint(kind)) != 0
}

func (p *PowerUps) add(kind ball.Kind) {
	*p |= 1 << uint(kind)
}

func (p *PowerUps) remove(kind ball.Kind) {
	*p &^= 1 << uint(kind)
}

// Kinds lists the active kinds in definition order.
func (p PowerUps) Kinds() []ball.Kind {
	var kinds []ball.Kind
	for k := ball.KindNormal; k.Valid(); k++ {
		if p.Has(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// State is the mutable state of one round. Only the Round mutates it; callers
// get copies.
type State struct {
	ID        uuid.UUID
	Phase     Phase
	Score     int
	Combo     int
	TimeLeft  int // Seconds
	LastClick time.Duration
	HasClick  bool // LastClick is meaningful
	Active    PowerUps

	// Mirrors of the persistent record, kept current during play.
	HighScore int
	BestCombo int
}

// Running reports whether the round accepts clicks.
func (s State) Running() bool {
	return s.Phase == PhaseRunning
}
