package server

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/ballrush/internal/ball"
	"github.com/tomz197/ballrush/internal/loop/config"
	"github.com/tomz197/ballrush/internal/round"
	"github.com/tomz197/ballrush/internal/store"
)

// normalOnly plays with a single ball kind so scores are predictable.
func normalOnly() config.Tuning {
	t := config.DefaultTuning()
	t.Balls = ball.Definitions{{
		Kind:        ball.KindNormal,
		MinSize:     40,
		MaxSize:     70,
		Points:      3,
		Probability: 1,
	}}
	return t
}

func newTestServer(t *testing.T, records *store.Memory) *Server {
	t.Helper()
	return NewServer(Options{
		Tuning:  normalOnly(),
		Records: records,
		Logger:  log.New(io.Discard),
		Seed:    7,
	})
}

func drainEvents(h *ClientHandle) []ClientEvent {
	var out []ClientEvent
	for {
		select {
		case ev, ok := <-h.EventsCh:
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestClickThroughServer(t *testing.T) {
	s := newTestServer(t, store.NewMemory())
	h := s.RegisterClient(context.Background(), "ada")
	if h.Snapshot() == nil {
		t.Fatalf("handle has no initial snapshot")
	}

	s.tick(0)
	s.StartRound(h.ID)
	s.tick(0)

	snap := s.GetSnapshot(h.ID)
	if snap == nil || !snap.State.Running() {
		t.Fatalf("round not running after start: %+v", snap)
	}
	if len(snap.Balls) == 0 {
		t.Fatalf("opening burst spawned nothing")
	}

	target := snap.Balls[0]
	s.Click(h.ID, target.ID)
	s.tick(0)

	snap = h.Snapshot()
	if _, ok := findBall(snap.Balls, target.ID); ok {
		t.Fatalf("clicked ball still live")
	}
	if snap.State.Score != 3 || snap.State.Combo != 1 {
		t.Fatalf("score=%d combo=%d", snap.State.Score, snap.State.Combo)
	}

	var removed bool
	for _, ev := range drainEvents(h) {
		if rm, ok := ev.Round.(round.BallRemoved); ok && rm.ID == target.ID && rm.Reason == round.RemovedClicked {
			removed = true
		}
	}
	if !removed {
		t.Fatalf("no clicked removal event delivered")
	}
}

func TestRoundEndPersistsRecord(t *testing.T) {
	mem := store.NewMemory()
	s := newTestServer(t, mem)
	h := s.RegisterClient(context.Background(), "ada")
	s.tick(0)
	s.StartRound(h.ID)
	s.tick(0)

	s.Click(h.ID, h.Snapshot().Balls[0].ID)
	s.tick(0)
	s.tick(31 * time.Second)

	if h.Snapshot().State.Running() {
		t.Fatalf("round still running after 31s")
	}

	s.persist.drain(context.Background())
	rec, err := mem.Load(context.Background(), "ada")
	if err != nil {
		t.Fatal(err)
	}
	if rec.HighScore != 3 {
		t.Fatalf("stored high score = %d, want 3", rec.HighScore)
	}
	top := s.TopScores()
	if len(top) != 1 || top[0].Player != "ada" {
		t.Fatalf("leaderboard = %+v", top)
	}
}

func TestRegisterLoadsRecord(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()
	if err := mem.SubmitRound(ctx, "bo", 40, 6); err != nil {
		t.Fatal(err)
	}
	if err := mem.SetTheme(ctx, "bo", store.ThemeLight); err != nil {
		t.Fatal(err)
	}

	s := newTestServer(t, mem)
	h := s.RegisterClient(ctx, "bo")
	snap := h.Snapshot()
	if snap.State.HighScore != 40 || snap.State.BestCombo != 6 || snap.Record.Theme != store.ThemeLight {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestSetTheme(t *testing.T) {
	mem := store.NewMemory()
	s := newTestServer(t, mem)
	h := s.RegisterClient(context.Background(), "cy")
	s.tick(0)

	s.SetTheme(h.ID, store.ThemeLight)
	s.SetTheme(h.ID, store.Theme("neon"))
	s.tick(0)

	if got := h.Snapshot().Record.Theme; got != store.ThemeLight {
		t.Fatalf("snapshot theme = %s", got)
	}
	s.persist.drain(context.Background())
	rec, err := mem.Load(context.Background(), "cy")
	if err != nil || rec.Theme != store.ThemeLight {
		t.Fatalf("stored record = %+v, err = %v", rec, err)
	}
}

func TestUnregisterClosesEvents(t *testing.T) {
	s := newTestServer(t, store.NewMemory())
	h := s.RegisterClient(context.Background(), "dee")
	s.UnregisterClient(h.ID)
	s.tick(0)

	if s.GetSnapshot(h.ID) != nil {
		t.Fatalf("session survived unregister")
	}
	select {
	case _, ok := <-h.EventsCh:
		if ok {
			t.Fatalf("unexpected event")
		}
	default:
		t.Fatalf("events channel not closed")
	}
	if s.clients.Load() != 0 {
		t.Fatalf("client count = %d", s.clients.Load())
	}
}

func TestUnregisterAfterRunReturns(t *testing.T) {
	s := newTestServer(t, store.NewMemory())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Run(ctx)

	// More calls than the channel buffers must still return.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for id := 1; id <= 64; id++ {
			s.UnregisterClient(id)
		}
		s.RegisterClient(context.Background(), "late")
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("calls blocked after Run returned")
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	s := newTestServer(t, store.NewMemory())
	a := s.RegisterClient(context.Background(), "a")
	b := s.RegisterClient(context.Background(), "b")
	s.tick(0)

	s.StartRound(a.ID)
	s.tick(10 * time.Second)

	if !a.Snapshot().State.Running() || b.Snapshot().State.Running() {
		t.Fatalf("start leaked between sessions")
	}
	if a.Snapshot().State.TimeLeft != 20 {
		t.Fatalf("TimeLeft = %d", a.Snapshot().State.TimeLeft)
	}
	if a.Snapshot().Players != 2 {
		t.Fatalf("Players = %d", a.Snapshot().Players)
	}
}

func TestShutdownNotifiesClients(t *testing.T) {
	s := newTestServer(t, store.NewMemory())
	h := s.RegisterClient(context.Background(), "eve")
	s.tick(0)

	s.Shutdown(10 * time.Millisecond)

	var got bool
	for _, ev := range drainEvents(h) {
		if ev.Type == EventServerShutdown {
			got = true
		}
	}
	if !got {
		t.Fatalf("no shutdown event")
	}
}

func TestBallAt(t *testing.T) {
	snap := &SessionSnapshot{Balls: []ball.Ball{
		{ID: 1, Size: 40, X: 0, Y: 0},
		{ID: 2, Size: 40, X: 20, Y: 0},
	}}

	if b, ok := snap.BallAt(30, 20, 0); !ok || b.ID != 2 {
		t.Fatalf("overlap should pick the later ball, got %+v %v", b, ok)
	}
	if b, ok := snap.BallAt(5, 20, 0); !ok || b.ID != 1 {
		t.Fatalf("got %+v %v", b, ok)
	}
	if _, ok := snap.BallAt(100, 100, 0); ok {
		t.Fatalf("hit in empty space")
	}
	if b, ok := snap.BallAt(65, 20, 6); !ok || b.ID != 2 {
		t.Fatalf("slack should extend the hit area, got %+v %v", b, ok)
	}
}

func findBall(balls []ball.Ball, id uint64) (ball.Ball, bool) {
	for _, b := range balls {
		if b.ID == id {
			return b, true
		}
	}
	return ball.Ball{}, false
}
