package server

import (
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/tomz197/ballrush/internal/loop/config"
	"github.com/tomz197/ballrush/internal/round"
	"github.com/tomz197/ballrush/internal/store"
)

// session is one client's game: its round controller and the record it
// plays against. Only the server goroutine touches it after registration.
type session struct {
	handle  *ClientHandle
	round   *round.Round
	record  store.Record
	persist *persister
	logger  *log.Logger
}

func newSession(handle *ClientHandle, rec store.Record, tuning config.Tuning, rng *rand.Rand, p *persister, logger *log.Logger) *session {
	sess := &session{
		handle:  handle,
		record:  rec,
		persist: p,
		logger:  logger.With("player", handle.Player),
	}
	sess.round = round.New(round.Options{
		Tuning:    tuning,
		Rand:      rng,
		Sink:      sess,
		Recorder:  sess,
		HighScore: rec.HighScore,
		BestCombo: rec.BestCombo,
	})
	return sess
}

// Emit forwards round events to the client. A client that stops draining
// its channel loses events rather than stalling the server.
func (s *session) Emit(ev round.Event) {
	if ended, ok := ev.(round.RoundEnded); ok {
		s.logger.Info("round ended", "score", ended.Score, "combo", ended.Combo, "highScore", ended.HighScore)
	}
	select {
	case s.handle.EventsCh <- ClientEvent{Type: EventRound, Round: ev}:
	default:
		s.logger.Debug("client event dropped", "event", ev.EventName())
	}
}

// RecordBestCombo persists a new best combo as soon as it is reached.
func (s *session) RecordBestCombo(combo int) {
	s.record.BestCombo = combo
	s.persist.enqueue(persistJob{kind: jobCombo, player: s.handle.Player, combo: combo})
}

// RecordHighScore runs at round end and writes both bests together.
func (s *session) RecordHighScore(score int) {
	s.record.HighScore = score
	s.persist.enqueue(persistJob{
		kind:   jobRound,
		player: s.handle.Player,
		score:  score,
		combo:  s.record.BestCombo,
	})
}

func (s *session) setTheme(theme store.Theme) {
	if !theme.Valid() {
		s.logger.Warn("ignoring theme", "theme", theme)
		return
	}
	s.record.Theme = theme
	s.persist.enqueue(persistJob{kind: jobTheme, player: s.handle.Player, theme: theme})
}

func (s *session) snapshot(top []store.Record, players int) *SessionSnapshot {
	w, h := s.round.Field()
	return &SessionSnapshot{
		State:       s.round.State(),
		Balls:       s.round.Balls(),
		Definitions: s.round.Tuning().Balls,
		FieldWidth:  w,
		FieldHeight: h,
		Now:         s.round.Now(),
		Record:      s.record,
		Players:     players,
		TopScores:   top,
	}
}

var (
	_ round.Sink     = (*session)(nil)
	_ round.Recorder = (*session)(nil)
)
