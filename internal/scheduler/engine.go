package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandeepkv93/lifehub/internal/model"
)

var (
	ErrInvalidTriggerTime = errors.New("scheduler: invalid trigger time")
	ErrStopped            = errors.New("scheduler: engine stopped")
)

type Kind string

const (
	KindTaskStart Kind = "task_start"
	KindDayChange Kind = "day_change"
)

// Event fires at At. Date is the routine date it was planned for, so
// consumers can ignore events that belong to a date no longer shown.
type Event struct {
	ID     string
	TaskID string
	Title  string
	Kind   Kind
	Date   model.DateKey
	At     time.Time
}

// before orders events by trigger time. At the same instant task reminders
// come before the day change, then ids decide.
func (e Event) before(o Event) bool {
	if !e.At.Equal(o.At) {
		return e.At.Before(o.At)
	}
	if e.Kind != o.Kind {
		return o.Kind == KindDayChange
	}
	return e.ID < o.ID
}

// reminderQueue is a min-heap of events with an id index, so rescheduling
// a task replaces its pending reminder.
type reminderQueue struct {
	events []Event
	index  map[string]int
}

func newReminderQueue() *reminderQueue {
	return &reminderQueue{index: make(map[string]int)}
}

func (q *reminderQueue) Len() int           { return len(q.events) }
func (q *reminderQueue) Less(i, j int) bool { return q.events[i].before(q.events[j]) }

func (q *reminderQueue) Swap(i, j int) {
	q.events[i], q.events[j] = q.events[j], q.events[i]
	q.index[q.events[i].ID] = i
	q.index[q.events[j].ID] = j
}

func (q *reminderQueue) Push(x any) {
	ev := x.(Event)
	q.index[ev.ID] = len(q.events)
	q.events = append(q.events, ev)
}

func (q *reminderQueue) Pop() any {
	n := len(q.events)
	ev := q.events[n-1]
	q.events = q.events[:n-1]
	delete(q.index, ev.ID)
	return ev
}

func (q *reminderQueue) upsert(ev Event) {
	if i, ok := q.index[ev.ID]; ok {
		q.events[i] = ev
		heap.Fix(q, i)
		return
	}
	heap.Push(q, ev)
}

func (q *reminderQueue) peek() (Event, bool) {
	if len(q.events) == 0 {
		return Event{}, false
	}
	return q.events[0], true
}

func (q *reminderQueue) reset() {
	q.events = q.events[:0]
	clear(q.index)
}

// Engine delivers planned reminders on C when they come due. Delivery never
// blocks: an event that finds the buffer full is counted as dropped.
type Engine struct {
	mu      sync.Mutex
	queue   *reminderQueue
	out     chan Event
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:  newReminderQueue(),
		out:    make(chan Event, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (e *Engine) C() <-chan Event {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	go e.run()
}

// Stop waits for the delivery goroutine to exit and closes C.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Schedule queues ev, replacing a pending event with the same id.
func (e *Engine) Schedule(ev Event) error {
	if ev.At.IsZero() {
		return ErrInvalidTriggerTime
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}
	e.queue.upsert(ev)
	e.poke()
	return nil
}

// Replace swaps the whole plan for evs. Events with a zero time are skipped
// and a repeated id keeps its last occurrence.
func (e *Engine) Replace(evs []Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}
	e.queue.reset()
	for _, ev := range evs {
		if ev.At.IsZero() {
			continue
		}
		e.queue.upsert(ev)
	}
	e.poke()
	return nil
}

func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Len()
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) run() {
	defer close(e.doneCh)
	defer close(e.out)

	timer := time.NewTimer(time.Hour)
	stopTimer(timer)
	defer stopTimer(timer)

	for {
		e.mu.Lock()
		next, ok := e.queue.peek()
		e.mu.Unlock()

		var fire <-chan time.Time
		if ok {
			stopTimer(timer)
			timer.Reset(max(time.Until(next.At), 0))
			fire = timer.C
		}

		select {
		case <-fire:
			for _, ev := range e.takeDue(time.Now()) {
				select {
				case e.out <- ev:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
		case <-e.stopCh:
			return
		}
	}
}

func (e *Engine) poke() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) takeDue(now time.Time) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	var due []Event
	for {
		next, ok := e.queue.peek()
		if !ok || next.At.After(now) {
			return due
		}
		due = append(due, heap.Pop(e.queue).(Event))
	}
}

func stopTimer(timer *time.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
