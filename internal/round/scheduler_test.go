package round

import (
	"slices"
	"testing"
	"time"
)

func TestSchedulerFiresInOrder(t *testing.T) {
	s := NewScheduler()
	var got []string

	s.After(300*time.Millisecond, func() { got = append(got, "c") })
	s.After(100*time.Millisecond, func() { got = append(got, "a") })
	s.After(200*time.Millisecond, func() { got = append(got, "b1") })
	s.After(200*time.Millisecond, func() { got = append(got, "b2") })

	s.Advance(250 * time.Millisecond)
	if want := []string{"a", "b1", "b2"}; !slices.Equal(got, want) {
		t.Fatalf("after 250ms got %v, want %v", got, want)
	}
	if s.Now() != 250*time.Millisecond {
		t.Fatalf("Now = %v", s.Now())
	}

	s.Advance(50 * time.Millisecond)
	if want := []string{"a", "b1", "b2", "c"}; !slices.Equal(got, want) {
		t.Fatalf("after 300ms got %v, want %v", got, want)
	}
	if s.Pending() != 0 {
		t.Fatalf("expected no pending tasks, got %d", s.Pending())
	}
}

func TestSchedulerCallbackSeesItsOwnTime(t *testing.T) {
	s := NewScheduler()
	var at time.Duration
	s.After(400*time.Millisecond, func() { at = s.Now() })

	s.Advance(time.Second)
	if at != 400*time.Millisecond {
		t.Fatalf("callback ran at %v, want 400ms", at)
	}
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler()
	fired := false
	id := s.After(time.Second, func() { fired = true })

	if !s.Cancel(id) {
		t.Fatalf("Cancel of pending task returned false")
	}
	if s.Cancel(id) {
		t.Fatalf("second Cancel returned true")
	}
	s.Advance(2 * time.Second)
	if fired {
		t.Fatalf("cancelled task fired")
	}
}

func TestSchedulerEvery(t *testing.T) {
	s := NewScheduler()
	count := 0
	var id TaskID
	id = s.Every(time.Second, func() {
		count++
		if count == 3 {
			s.Cancel(id)
		}
	})

	s.Advance(2500 * time.Millisecond)
	if count != 2 {
		t.Fatalf("after 2.5s count = %d, want 2", count)
	}
	s.Advance(10 * time.Second)
	if count != 3 {
		t.Fatalf("self-cancelling task ran %d times, want 3", count)
	}
}

func TestSchedulerNestedScheduling(t *testing.T) {
	s := NewScheduler()
	var got []time.Duration
	s.After(100*time.Millisecond, func() {
		got = append(got, s.Now())
		s.After(100*time.Millisecond, func() { got = append(got, s.Now()) })
	})

	s.Advance(time.Second)
	if want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}; !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSchedulerResetFromCallback(t *testing.T) {
	s := NewScheduler()
	later := false
	s.Every(time.Second, func() { s.Reset() })
	s.After(1500*time.Millisecond, func() { later = true })

	s.Advance(5 * time.Second)
	if later {
		t.Fatalf("task survived Reset")
	}
	if s.Pending() != 0 {
		t.Fatalf("Pending = %d after Reset", s.Pending())
	}
}
