// Package config centralizes all tunable game parameters.
package config

import "time"

// Play field in logical units. Renderers scale it to fit their surface.
const (
	FieldWidth  = 800
	FieldHeight = 480
)

// Round
const (
	RoundSeconds = 30
	ClockTick    = time.Second
)

// Spawning
const (
	MaxBalls      = 5
	InitialBalls  = 3
	SpawnInterval = 1500 * time.Millisecond
	RefillDelay   = 300 * time.Millisecond // Supplementary spawn after a click
	BallLifetime  = 3000 * time.Millisecond
	Padding       = 10.0
	Gap           = 20.0
)

// Scoring
const (
	ComboWindow   = time.Second
	ComboStep     = 0.2
	MaxMultiplier = 3.0
)

// Power-ups
const (
	TimeFreezeBonus    = 3 // Seconds
	BombPenalty        = 5 // Seconds
	StrikeDelay        = time.Second
	TimeFreezeDuration = 5000 * time.Millisecond
	StrikeDuration     = 2000 * time.Millisecond
	BombDuration       = 0
)

// Presentation
const (
	PopupSeconds        = 0.5 // Floating "+N" lifetime
	NotificationSeconds = 2.0 // Power-up banner lifetime
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	MaxTermWidth          = 160
	MaxTermHeight         = 50
)

// Server tick rate
const (
	ServerTickRate = 60
	ServerTickTime = time.Second / ServerTickRate
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)
