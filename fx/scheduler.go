package fx

import (
	"sort"
	"time"
)

// TaskID identifies a scheduled task.
type TaskID uint64

type task struct {
	id  TaskID
	due time.Duration
	fn  func()
}

// Scheduler runs one-shot tasks on the simulation clock. Tasks fire from
// Advance in due order; tasks due at the same instant fire in the order they
// were scheduled. A task may schedule further tasks.
type Scheduler struct {
	now   time.Duration
	next  TaskID
	tasks []task
}

// NewScheduler creates an empty scheduler at time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the time of the last Advance.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After schedules fn to run delay after the current time.
func (s *Scheduler) After(delay time.Duration, fn func()) TaskID {
	s.next++
	t := task{id: s.next, due: s.now + delay, fn: fn}
	i := sort.Search(len(s.tasks), func(i int) bool { return s.tasks[i].due > t.due })
	s.tasks = append(s.tasks, task{})
	copy(s.tasks[i+1:], s.tasks[i:])
	s.tasks[i] = t
	return t.id
}

// Cancel removes a pending task. It reports whether the task was pending.
func (s *Scheduler) Cancel(id TaskID) bool {
	for i := range s.tasks {
		if s.tasks[i].id == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Advance moves the clock to now and runs every task due at or before it.
func (s *Scheduler) Advance(now time.Duration) int {
	if now > s.now {
		s.now = now
	}
	ran := 0
	for len(s.tasks) > 0 && s.tasks[0].due <= s.now {
		t := s.tasks[0]
		s.tasks = s.tasks[1:]
		t.fn()
		ran++
	}
	return ran
}

// Pending returns the number of tasks not yet run.
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// Clear drops all pending tasks without running them.
func (s *Scheduler) Clear() {
	s.tasks = nil
}
