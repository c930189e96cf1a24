// Package scheduler emits "task starts soon" reminders for timed tasks.
package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidTriggerTime = errors.New("scheduler: invalid trigger time")
	ErrStopped            = errors.New("scheduler: engine stopped")
)

// Reminder fires at TriggerAt for the task starting at StartsAt. There is at
// most one pending reminder per task.
type Reminder struct {
	TaskID    string
	Title     string
	StartsAt  time.Time
	TriggerAt time.Time
}

func (r Reminder) key() firedKey {
	return firedKey{taskID: r.TaskID, startsAt: r.StartsAt.UnixNano()}
}

type firedKey struct {
	taskID   string
	startsAt int64
}

type queueItem struct {
	reminder Reminder
	index    int
}

type priorityQueue []*queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].reminder.TriggerAt.Before(pq[j].reminder.TriggerAt)
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	item := x.(*queueItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[0 : n-1]
	return item
}

type Engine struct {
	mu      sync.Mutex
	queue   priorityQueue
	byTask  map[string]*queueItem
	fired   map[firedKey]struct{}
	out     chan Reminder
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
		queue:  make(priorityQueue, 0),
		byTask: make(map[string]*queueItem),
		fired:  make(map[firedKey]struct{}),
		out:    make(chan Reminder, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (e *Engine) C() <-chan Reminder {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

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

// Schedule queues r, replacing any pending reminder for the same task.
func (e *Engine) Schedule(r Reminder) error {
	if r.TriggerAt.IsZero() {
		return ErrInvalidTriggerTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}
	e.scheduleLocked(r)
	e.signalWakeup()
	return nil
}

// Cancel drops the pending reminder of taskID, if any.
func (e *Engine) Cancel(taskID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	item, ok := e.byTask[taskID]
	if !ok {
		return false
	}
	heap.Remove(&e.queue, item.index)
	delete(e.byTask, taskID)
	e.signalWakeup()
	return true
}

// Replace swaps the whole pending set for reminders and reports how many were
// queued. Reminders that already fired for the same task and start time are
// not queued again.
func (e *Engine) Replace(reminders []Reminder) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return 0, ErrStopped
	}
	e.queue = e.queue[:0]
	clear(e.byTask)
	for _, r := range reminders {
		if r.TriggerAt.IsZero() {
			continue
		}
		if _, done := e.fired[r.key()]; done {
			continue
		}
		e.scheduleLocked(r)
	}
	e.signalWakeup()
	return len(e.queue), nil
}

func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) scheduleLocked(r Reminder) {
	if item, ok := e.byTask[r.TaskID]; ok {
		item.reminder = r
		heap.Fix(&e.queue, item.index)
		return
	}
	item := &queueItem{reminder: r}
	heap.Push(&e.queue, item)
	e.byTask[r.TaskID] = item
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.TriggerAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			due := e.popDue(time.Now())
			for _, r := range due {
				select {
				case e.out <- r:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (Reminder, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return Reminder{}, false
	}
	return e.queue[0].reminder, true
}

func (e *Engine) popDue(now time.Time) []Reminder {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Reminder, 0)
	for len(e.queue) > 0 {
		next := e.queue[0].reminder
		if next.TriggerAt.After(now) {
			break
		}
		item := heap.Pop(&e.queue).(*queueItem)
		delete(e.byTask, item.reminder.TaskID)
		e.fired[item.reminder.key()] = struct{}{}
		out = append(out, item.reminder)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
