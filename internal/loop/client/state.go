package client

import (
	"time"

	"github.com/tomz197/ballrush/internal/input"
	"github.com/tomz197/ballrush/internal/round"
	"github.com/tomz197/ballrush/internal/store"
)

// GameState represents the current screen for a client.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // Round running
	GameStateOver                      // Round ended, show results
	GameStateShutdown                  // Server is shutting down
)

// popup is a floating "+N" label at the spot a ball was collected.
type popup struct {
	x, y  float64 // Field coordinates
	text  string
	combo bool
	ttl   float64 // Seconds left
}

// notification is a power-up banner.
type notification struct {
	text string
	ttl  float64
}

// ClientState holds per-connection presentation state. Game rules live on
// the server; this is only what the terminal needs to draw.
type ClientState struct {
	Input         input.Input
	GameState     GameState
	prevGameState GameState
	Running       bool
	Theme         store.Theme
	ShowHelp      bool

	LastRound   round.RoundEnded // Results shown on the game-over screen
	popups      []popup
	banner      *notification
	themeLoaded bool // Theme taken from the stored record once

	delta         time.Duration
	shutdownTimer float64
	isInactive    bool
	wasInactive   bool
	helpChanged   bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState: GameStateStart,
		Running:   true,
		Theme:     store.ThemeDark,
	}
}

// age advances popup and banner timers by dt seconds and drops expired ones.
func (s *ClientState) age(dt float64) {
	kept := s.popups[:0]
	for _, p := range s.popups {
		p.ttl -= dt
		if p.ttl > 0 {
			kept = append(kept, p)
		}
	}
	s.popups = kept

	if s.banner != nil {
		s.banner.ttl -= dt
		if s.banner.ttl <= 0 {
			s.banner = nil
		}
	}
}
