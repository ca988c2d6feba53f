// This file is part of Gopher Advance.
//
// Gopher Advance is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher Advance is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher Advance.  If not, see <https://www.gnu.org/licenses/>.

// Package scheduler paces every piece of emulated hardware. It maintains a
// virtual cycle counter and a queue of timestamped events, each with a
// handler that is invoked when the counter reaches the event's timestamp.
//
// Handlers for periodic work (the CPU step, the audio mixer) are expected to
// reschedule themselves, subtracting the cyclesLate argument from the next
// interval:
//
//	func (m *Mixer) StepMixer(_ interface{}, cyclesLate int) {
//		...
//		m.sched.Add(sampleInterval-cyclesLate, m.StepMixer, nil)
//	}
//
// The subtraction is what keeps periodic emitters phase-stable when dispatch
// is delayed by an earlier, slower handler.
//
// Everything in this package runs on the emulation goroutine. None of the
// functions are safe for concurrent use.
package scheduler

import "container/heap"

// Handler is the function signature for event delivery. The user argument is
// the opaque value given to Add(). cyclesLate is the number of cycles the
// delivery is behind the requested timestamp. It is never negative.
type Handler func(user interface{}, cyclesLate int)

// Event is an opaque handle to a scheduled event, suitable for Cancel().
type Event struct {
	timestamp uint64
	seq       uint64
	handler   Handler
	user      interface{}
	cancelled bool

	// index of the event in the heap. -1 once popped
	index int
}

// events are ordered by timestamp. the seq field breaks ties, preserving
// insertion order for events scheduled on the same cycle.
type eventQueue []*Event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].timestamp != q[j].timestamp {
		return q[i].timestamp < q[j].timestamp
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *eventQueue) Push(x interface{}) {
	e := x.(*Event)
	e.index = len(*q)
	*q = append(*q, e)
}

func (q *eventQueue) Pop() interface{} {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*q = old[:n-1]
	return e
}

// Scheduler is a timestamped min-heap of pending events.
type Scheduler struct {
	now   uint64
	seq   uint64
	queue eventQueue
}

// NewScheduler is the preferred method of initialisation for the Scheduler
// type.
func NewScheduler() *Scheduler {
	s := &Scheduler{
		queue: make(eventQueue, 0, 64),
	}
	heap.Init(&s.queue)
	return s
}

// Now returns the current value of the virtual cycle counter. The counter is
// monotonically non-decreasing across any handler boundary.
func (s *Scheduler) Now() uint64 {
	return s.now
}

// Add schedules an event delta cycles from now. The returned handle can be
// given to Cancel().
//
// A delta of zero schedules the event for the current cycle, meaning it will
// run after the currently executing handler returns, never reentrantly.
//
// A negative delta is valid too. A handler rescheduling itself with
// Add(interval-cyclesLate, …) can legitimately produce one after a long
// stall. The event is timestamped in the past and delivered as soon as
// possible, with the deficit carried in its cyclesLate argument so that the
// next reschedule can absorb it.
func (s *Scheduler) Add(delta int, handler Handler, user interface{}) *Event {
	var ts uint64
	if delta >= 0 {
		ts = s.now + uint64(delta)
	} else if uint64(-delta) > s.now {
		ts = 0
	} else {
		ts = s.now - uint64(-delta)
	}

	e := &Event{
		timestamp: ts,
		seq:       s.seq,
		handler:   handler,
		user:      user,
	}
	s.seq++

	heap.Push(&s.queue, e)

	return e
}

// Cancel a pending event. Cancellation is lazy: the event remains in the
// queue as a tombstone and is discarded when it reaches the head. Cancelling
// an already delivered or already cancelled event is a no-op.
func (s *Scheduler) Cancel(e *Event) {
	if e == nil {
		return
	}
	e.cancelled = true
}

// RunUntil delivers every pending event with a timestamp at or before the
// deadline, in (timestamp, seq) order, and then advances the cycle counter to
// the deadline.
//
// Events added during delivery take part in the same run if their timestamp
// is within the deadline.
func (s *Scheduler) RunUntil(deadline uint64) {
	for len(s.queue) > 0 && s.queue[0].timestamp <= deadline {
		e := heap.Pop(&s.queue).(*Event)
		if e.cancelled {
			continue
		}

		// an event timestamped in the past (a negative delta to Add()) is
		// serviced behind schedule. the counter never moves backwards
		if e.timestamp > s.now {
			s.now = e.timestamp
		}

		e.handler(e.user, int(s.now-e.timestamp))
	}

	if deadline > s.now {
		s.now = deadline
	}
}

// Pending returns the number of events in the queue, including tombstones.
// Useful for tests and for the debugger's scheduler view.
func (s *Scheduler) Pending() int {
	return len(s.queue)
}
