package round

import (
	"github.com/google/uuid"
	"github.com/tomz197/ballrush/internal/ball"
)

// Event is a notification from a round to its presentation layer.
type Event interface {
	EventName() string
}

// Sink receives round events. Emit is called on the goroutine driving the
// round and must not block.
type Sink interface {
	Emit(ev Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ev Event)

// Emit calls f(ev).
func (f SinkFunc) Emit(ev Event) { f(ev) }

type discardSink struct{}

func (discardSink) Emit(Event) {}

// RemoveReason tells why a ball left the registry.
type RemoveReason int

const (
	RemovedClicked RemoveReason = iota
	RemovedExpired
	RemovedStruck
	RemovedCleared // Round ended
)

func (r RemoveReason) String() string {
	switch r {
	case RemovedClicked:
		return "clicked"
	case RemovedExpired:
		return "expired"
	case RemovedStruck:
		return "struck"
	case RemovedCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

type RoundStarted struct {
	ID       uuid.UUID
	TimeLeft int
}

type RoundEnded struct {
	ID           uuid.UUID
	Score        int
	Combo        int
	HighScore    int
	NewHighScore bool
}

type BallSpawned struct {
	Ball ball.Ball
}

type BallRemoved struct {
	ID     uint64
	Reason RemoveReason
}

type ScoreChanged struct {
	Score int
}

type ComboChanged struct {
	Combo     int
	BestCombo int
}

type TimeChanged struct {
	TimeLeft int
}

// PointsAwarded drives the floating "+N" popup at the collected ball.
type PointsAwarded struct {
	BallID uint64
	X, Y   float64
	Points int
	Combo  int
}

type PowerUpActivated struct {
	Kind  ball.Kind
	Label string
}

type PowerUpExpired struct {
	Kind ball.Kind
}

func (RoundStarted) EventName() string     { return "roundStarted" }
func (RoundEnded) EventName() string       { return "roundEnded" }
func (BallSpawned) EventName() string      { return "ballSpawned" }
func (BallRemoved) EventName() string      { return "ballRemoved" }
func (ScoreChanged) EventName() string     { return "scoreChanged" }
func (ComboChanged) EventName() string     { return "comboChanged" }
func (TimeChanged) EventName() string      { return "timeChanged" }
func (PointsAwarded) EventName() string    { return "pointsAwarded" }
func (PowerUpActivated) EventName() string { return "powerUpActivated" }
func (PowerUpExpired) EventName() string   { return "powerUpExpired" }
