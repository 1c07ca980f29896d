package round

import (
	"container/heap"
	"time"
)

// TaskID identifies a scheduled task. The zero value is never issued.
type TaskID uint64

// Scheduler runs deferred callbacks against a virtual clock. Time only moves
// inside Advance, so callbacks never overlap and fire in timestamp order
// (scheduling order for equal timestamps).
type Scheduler struct {
	now    time.Duration
	nextID TaskID
	seq    uint64
	queue  taskQueue
	tasks  map[TaskID]*task
}

type task struct {
	id     TaskID
	at     time.Duration
	period time.Duration // 0 for one-shot
	seq    uint64
	fn     func()
	index  int
}

// NewScheduler creates an empty scheduler at virtual time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{
		tasks: make(map[TaskID]*task),
	}
}

// Now returns the current virtual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After runs fn once, d after the current time.
func (s *Scheduler) After(d time.Duration, fn func()) TaskID {
	return s.schedule(d, 0, fn)
}

// Every runs fn every period, first at now+period, until cancelled.
func (s *Scheduler) Every(period time.Duration, fn func()) TaskID {
	if period <= 0 {
		panic("round: non-positive scheduler period")
	}
	return s.schedule(period, period, fn)
}

func (s *Scheduler) schedule(d, period time.Duration, fn func()) TaskID {
	if d < 0 {
		d = 0
	}
	s.nextID++
	t := &task{
		id:     s.nextID,
		at:     s.now + d,
		period: period,
		fn:     fn,
	}
	s.push(t)
	s.tasks[t.id] = t
	return t.id
}

func (s *Scheduler) push(t *task) {
	s.seq++
	t.seq = s.seq
	heap.Push(&s.queue, t)
}

// Cancel drops a pending task. It reports false if the task already ran
// (one-shot) or was cancelled before.
func (s *Scheduler) Cancel(id TaskID) bool {
	t, ok := s.tasks[id]
	if !ok {
		return false
	}
	delete(s.tasks, id)
	if t.index >= 0 {
		heap.Remove(&s.queue, t.index)
	}
	return true
}

// Reset cancels every pending task. The clock keeps its value.
func (s *Scheduler) Reset() {
	for _, t := range s.queue {
		t.index = -1
	}
	s.queue = nil
	clear(s.tasks)
}

// Pending returns the number of scheduled tasks.
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// Advance moves the clock forward by d, firing every task due on the way.
// Tasks scheduled by callbacks fire in the same call if they fall due.
func (s *Scheduler) Advance(d time.Duration) {
	if d < 0 {
		d = 0
	}
	target := s.now + d

	for len(s.queue) > 0 && s.queue[0].at <= target {
		t := heap.Pop(&s.queue).(*task)
		s.now = t.at

		if t.period == 0 {
			delete(s.tasks, t.id)
		}
		t.fn()

		// Re-arm periodic tasks unless the callback cancelled them.
		if t.period > 0 {
			if _, alive := s.tasks[t.id]; alive {
				t.at += t.period
				s.push(t)
			}
		}
	}

	s.now = target
}

// taskQueue is a min-heap ordered by (at, seq).
type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x any) {
	t := x.(*task)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
