package web

import (
	"github.com/tomz197/ballrush/internal/ball"
	"github.com/tomz197/ballrush/internal/loop/server"
	"github.com/tomz197/ballrush/internal/round"
	"github.com/tomz197/ballrush/internal/store"
)

func toBall(b ball.Ball) BallDTO {
	return BallDTO{
		ID:     b.ID,
		Kind:   b.Kind.String(),
		Points: b.Points,
		Size:   b.Size,
		X:      b.X,
		Y:      b.Y,
	}
}

func toDefinitions(defs ball.Definitions) []DefinitionDTO {
	out := make([]DefinitionDTO, 0, len(defs))
	for _, def := range defs {
		d := DefinitionDTO{
			Kind:   def.Kind.String(),
			Points: def.Points,
			Color:  def.Color.Hex(),
		}
		if def.Glyph != 0 {
			d.Glyph = string(def.Glyph)
		}
		out = append(out, d)
	}
	return out
}

func toRecord(rec store.Record) RecordDTO {
	return RecordDTO{
		Player:    rec.Player,
		HighScore: rec.HighScore,
		BestCombo: rec.BestCombo,
		Theme:     string(rec.Theme),
	}
}

func toRecords(recs []store.Record) []RecordDTO {
	out := make([]RecordDTO, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toRecord(rec))
	}
	return out
}

func toWelcome(snap *server.SessionSnapshot, roundTime int) Message {
	return Message{Type: "welcome", Data: WelcomeDTO{
		FieldWidth:  snap.FieldWidth,
		FieldHeight: snap.FieldHeight,
		RoundTime:   roundTime,
		Balls:       toDefinitions(snap.Definitions),
		Record:      toRecord(snap.Record),
		Top:         toRecords(snap.TopScores),
	}}
}

// toMessage converts a round event to its wire form. ok is false for events
// the browser has no use for.
func toMessage(ev round.Event) (msg Message, ok bool) {
	msg.Type = ev.EventName()
	switch e := ev.(type) {
	case round.RoundStarted:
		msg.Data = RoundStartedDTO{ID: e.ID.String(), TimeLeft: e.TimeLeft}
	case round.RoundEnded:
		msg.Data = RoundEndedDTO{
			ID:           e.ID.String(),
			Score:        e.Score,
			Combo:        e.Combo,
			HighScore:    e.HighScore,
			NewHighScore: e.NewHighScore,
		}
	case round.BallSpawned:
		msg.Data = toBall(e.Ball)
	case round.BallRemoved:
		msg.Data = BallRemovedDTO{ID: e.ID, Reason: e.Reason.String()}
	case round.ScoreChanged:
		msg.Data = ScoreDTO{Score: e.Score}
	case round.ComboChanged:
		msg.Data = ComboDTO{Combo: e.Combo, BestCombo: e.BestCombo}
	case round.TimeChanged:
		msg.Data = TimeDTO{TimeLeft: e.TimeLeft}
	case round.PointsAwarded:
		msg.Data = PointsDTO{BallID: e.BallID, X: e.X, Y: e.Y, Points: e.Points, Combo: e.Combo}
	case round.PowerUpActivated:
		msg.Data = PowerUpDTO{Kind: e.Kind.String(), Label: e.Label}
	case round.PowerUpExpired:
		msg.Data = PowerUpDTO{Kind: e.Kind.String()}
	default:
		return Message{}, false
	}
	return msg, true
}
