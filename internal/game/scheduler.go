package game

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var errTaskPanicked = errors.New("scheduler: task panicked")

// TaskHandle identifies a recurring task. The zero handle is never issued.
type TaskHandle uint64

type task struct {
	id       TaskHandle
	period   int64
	next     int64
	fn       func()
	canceled bool
}

// Scheduler is the single executor every loop, event and request runs on.
// Time is derived from the tick counter: Now() = epoch + ticks*tickDuration,
// so deadlines and tick periods cannot drift apart.
//
// Every, Cancel and Tick must be called from the executor (a running task,
// a Submit/Do closure, or setup code before Run starts). Submit and Do are
// safe from any goroutine.
type Scheduler struct {
	epoch        time.Time
	tickDuration time.Duration
	ticks        atomic.Int64
	log          Logger

	tasks  []*task
	byID   map[TaskHandle]*task
	nextID TaskHandle

	mu    sync.Mutex
	inbox []func()
}

func NewScheduler(epoch time.Time, tickDuration time.Duration, logger Logger) *Scheduler {
	if tickDuration <= 0 {
		tickDuration = DefaultTickDuration
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &Scheduler{
		epoch:        epoch,
		tickDuration: tickDuration,
		log:          logger,
		byID:         map[TaskHandle]*task{},
	}
}

func (s *Scheduler) Now() time.Time {
	return s.epoch.Add(time.Duration(s.ticks.Load()) * s.tickDuration)
}

func (s *Scheduler) Ticks() int64 { return s.ticks.Load() }

func (s *Scheduler) TickDuration() time.Duration { return s.tickDuration }

// TicksFor converts a duration to a tick count, rounding up.
func (s *Scheduler) TicksFor(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64((d + s.tickDuration - 1) / s.tickDuration)
}

// Every runs fn on the next tick and then every period ticks.
func (s *Scheduler) Every(period int, fn func()) TaskHandle {
	if period < 1 {
		period = 1
	}
	s.nextID++
	t := &task{
		id:     s.nextID,
		period: int64(period),
		next:   s.ticks.Load() + 1,
		fn:     fn,
	}
	s.tasks = append(s.tasks, t)
	s.byID[t.id] = t
	return t.id
}

// Cancel stops a task. Unknown or already canceled handles are ignored.
func (s *Scheduler) Cancel(h TaskHandle) {
	t, ok := s.byID[h]
	if !ok {
		return
	}
	t.canceled = true
	delete(s.byID, h)
	kept := make([]*task, 0, len(s.tasks))
	for _, other := range s.tasks {
		if other.id != h {
			kept = append(kept, other)
		}
	}
	s.tasks = kept
}

func (s *Scheduler) Active(h TaskHandle) bool {
	_, ok := s.byID[h]
	return ok
}

// Submit queues fn to run at the start of the next tick.
func (s *Scheduler) Submit(fn func()) {
	s.mu.Lock()
	s.inbox = append(s.inbox, fn)
	s.mu.Unlock()
}

// Do runs fn on the executor and waits for its result. If ctx ends before
// fn starts, fn never runs; once started, Do waits for it to finish.
func (s *Scheduler) Do(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	const (
		pending int32 = iota
		running
		abandoned
	)
	var state atomic.Int32
	done := make(chan error, 1)
	s.Submit(func() {
		if !state.CompareAndSwap(pending, running) {
			return
		}
		err := errTaskPanicked
		defer func() { done <- err }()
		err = fn()
	})
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if state.CompareAndSwap(pending, abandoned) {
			return ctx.Err()
		}
		return <-done
	}
}

// Tick advances the clock by one tick, drains submitted work, then runs due tasks
// in registration order.
func (s *Scheduler) Tick() {
	now := s.ticks.Add(1)

	s.mu.Lock()
	inbox := s.inbox
	s.inbox = nil
	s.mu.Unlock()
	for _, fn := range inbox {
		s.run(0, fn)
	}

	for _, t := range s.tasks {
		if t.canceled || now < t.next {
			continue
		}
		t.next = now + t.period
		s.run(t.id, t.fn)
	}
}

func (s *Scheduler) run(id TaskHandle, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Printf("scheduler: task %d panicked: %v", id, r)
		}
	}()
	fn()
}

// Run ticks at the configured rate until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.tickDuration)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Tick()
		}
	}
}
