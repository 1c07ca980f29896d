package server

import (
	"time"

	"github.com/tomz197/ballrush/internal/ball"
	"github.com/tomz197/ballrush/internal/physics"
	"github.com/tomz197/ballrush/internal/round"
	"github.com/tomz197/ballrush/internal/store"
)

// SessionSnapshot is an immutable view of one client's session for rendering.
type SessionSnapshot struct {
	State       round.State
	Balls       []ball.Ball // Spawn order
	Definitions ball.Definitions
	FieldWidth  float64
	FieldHeight float64
	Now         time.Duration // Round virtual time
	Record      store.Record  // Persisted bests and theme, as last known
	Players     int           // Connected clients
	TopScores   []store.Record
}

// BallAt returns the topmost live ball whose circle, grown by slack,
// contains the field point (x, y). Later spawns are drawn on top, so they win.
func (s *SessionSnapshot) BallAt(x, y, slack float64) (ball.Ball, bool) {
	for i := len(s.Balls) - 1; i >= 0; i-- {
		b := s.Balls[i]
		cx, cy := b.Center()
		if physics.PointInCircle(x, y, cx, cy, b.Radius()+slack) {
			return b, true
		}
	}
	return ball.Ball{}, false
}
