package core

// Task is a periodic job run from the poll loop
type Task struct {
	WakeTick uint32
	Handler  func(*Task) uint8
	Next     *Task
}

const (
	SF_DONE       = 0
	SF_RESCHEDULE = 1
)

// Scheduler keeps tasks sorted by wake tick
type Scheduler struct {
	tasks *Task
}

// Schedule adds a task to the schedule
func (s *Scheduler) Schedule(t *Task) {
	t.Next = nil
	s.insert(t)
}

// insert inserts a task in sorted order by WakeTick
func (s *Scheduler) insert(t *Task) {
	if s.tasks == nil || before(t.WakeTick, s.tasks.WakeTick) {
		t.Next = s.tasks
		s.tasks = t
		return
	}

	current := s.tasks
	for current.Next != nil && !before(t.WakeTick, current.Next.WakeTick) {
		current = current.Next
	}

	t.Next = current.Next
	current.Next = t
}

// Dispatch runs every task whose wake tick is at or before now
func (s *Scheduler) Dispatch(now uint32) {
	for s.tasks != nil && !before(now, s.tasks.WakeTick) {
		task := s.tasks
		s.tasks = task.Next
		task.Next = nil

		if task.Handler(task) == SF_RESCHEDULE {
			s.insert(task)
		}
	}
}

// Pending returns the number of scheduled tasks
func (s *Scheduler) Pending() int {
	n := 0
	for t := s.tasks; t != nil; t = t.Next {
		n++
	}
	return n
}

// before compares tick counts across wraparound
func before(a, b uint32) bool {
	return int32(a-b) < 0
}
