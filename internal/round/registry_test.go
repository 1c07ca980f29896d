package round

import (
	"testing"
	"time"

	"github.com/tomz197/ballrush/internal/ball"
)

func TestRegistryExpiry(t *testing.T) {
	s := NewScheduler()
	var expired []uint64
	reg := NewRegistry(s, 3*time.Second, func(b ball.Ball) { expired = append(expired, b.ID) })

	reg.Add(ball.Ball{ID: 1})
	s.Advance(time.Second)
	reg.Add(ball.Ball{ID: 2, SpawnTime: s.Now()})

	s.Advance(2 * time.Second)
	if len(expired) != 1 || expired[0] != 1 {
		t.Fatalf("expired = %v, want [1]", expired)
	}
	if reg.Len() != 1 {
		t.Fatalf("Len = %d, want 1", reg.Len())
	}

	s.Advance(time.Second)
	if len(expired) != 2 || reg.Len() != 0 {
		t.Fatalf("expired = %v, Len = %d", expired, reg.Len())
	}
}

func TestRegistryRemoveCancelsTimer(t *testing.T) {
	s := NewScheduler()
	called := false
	reg := NewRegistry(s, time.Second, func(ball.Ball) { called = true })

	reg.Add(ball.Ball{ID: 7, Kind: ball.KindSmall})
	b, ok := reg.Remove(7)
	if !ok || b.Kind != ball.KindSmall {
		t.Fatalf("Remove = %+v, %v", b, ok)
	}
	if _, ok := reg.Remove(7); ok {
		t.Fatalf("second Remove reported true")
	}
	if s.Pending() != 0 {
		t.Fatalf("expiry timer still pending")
	}

	s.Advance(2 * time.Second)
	if called {
		t.Fatalf("removed ball expired")
	}
}

func TestRegistryOrderAndClear(t *testing.T) {
	s := NewScheduler()
	reg := NewRegistry(s, time.Second, nil)
	for _, id := range []uint64{5, 2, 9} {
		reg.Add(ball.Ball{ID: id})
	}

	var order []uint64
	reg.Each(func(b ball.Ball) {
		order = append(order, b.ID)
		reg.Remove(b.ID)
	})
	if len(order) != 3 || order[0] != 2 || order[1] != 5 || order[2] != 9 {
		t.Fatalf("order = %v", order)
	}
	if reg.Len() != 0 {
		t.Fatalf("Each with removal left %d balls", reg.Len())
	}

	reg.Add(ball.Ball{ID: 10})
	reg.Add(ball.Ball{ID: 11})
	removed := reg.Clear()
	if len(removed) != 2 || reg.Len() != 0 || s.Pending() != 0 {
		t.Fatalf("Clear removed %d, Len %d, pending %d", len(removed), reg.Len(), s.Pending())
	}
}
