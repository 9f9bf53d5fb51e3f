package game

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerClockFollowsTicks(t *testing.T) {
	s := NewScheduler(testEpoch, 50*time.Millisecond, nil)
	assert.Equal(t, testEpoch, s.Now())
	for i := 0; i < 20; i++ {
		s.Tick()
	}
	assert.Equal(t, int64(20), s.Ticks())
	assert.Equal(t, testEpoch.Add(time.Second), s.Now())
	assert.Equal(t, int64(100), s.TicksFor(5*time.Second))
	assert.Equal(t, int64(1), s.TicksFor(time.Millisecond))
}

func TestSchedulerEveryRunsNextTickThenPeriodically(t *testing.T) {
	s := NewScheduler(testEpoch, DefaultTickDuration, nil)
	var ran []int64
	s.Every(5, func() { ran = append(ran, s.Ticks()) })
	for i := 0; i < 12; i++ {
		s.Tick()
	}
	assert.Equal(t, []int64{1, 6, 11}, ran)
}

func TestSchedulerCancelIsIdempotentAndTakesEffectWithinTick(t *testing.T) {
	s := NewScheduler(testEpoch, DefaultTickDuration, nil)
	var second int
	var h2 TaskHandle
	s.Every(1, func() { s.Cancel(h2) })
	h2 = s.Every(1, func() { second++ })

	s.Tick()
	assert.Equal(t, 0, second, "task canceled earlier in the same tick must not run")
	assert.False(t, s.Active(h2))
	s.Cancel(h2)
	s.Cancel(TaskHandle(999))
}

func TestSchedulerTaskCanCancelItself(t *testing.T) {
	s := NewScheduler(testEpoch, DefaultTickDuration, nil)
	runs := 0
	var h TaskHandle
	h = s.Every(1, func() {
		runs++
		if runs == 3 {
			s.Cancel(h)
		}
	})
	for i := 0; i < 10; i++ {
		s.Tick()
	}
	assert.Equal(t, 3, runs)
}

func TestSchedulerRecoversPanics(t *testing.T) {
	var logged []string
	s := NewScheduler(testEpoch, DefaultTickDuration, LoggerFunc(func(format string, args ...any) {
		logged = append(logged, format)
	}))
	after := 0
	s.Every(1, func() { panic("boom") })
	s.Every(1, func() { after++ })
	s.Tick()
	assert.Equal(t, 1, after)
	assert.Len(t, logged, 1)
}

func TestSchedulerSubmitRunsAtNextTick(t *testing.T) {
	s := NewScheduler(testEpoch, DefaultTickDuration, nil)
	var order []string
	s.Every(1, func() { order = append(order, "task") })
	s.Submit(func() { order = append(order, "submitted") })
	s.Tick()
	assert.Equal(t, []string{"submitted", "task"}, order)
}

func TestSchedulerDo(t *testing.T) {
	s := NewScheduler(testEpoch, time.Millisecond, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Run(ctx) }()

	want := errors.New("from executor")
	err := s.Do(context.Background(), func() error { return want })
	require.ErrorIs(t, err, want)

	expired, cancelDo := context.WithCancel(context.Background())
	cancelDo()
	stalled := NewScheduler(testEpoch, time.Millisecond, nil)
	assert.ErrorIs(t, stalled.Do(expired, func() error { return nil }), context.Canceled)
}

// tickUntil drives s by hand until errc yields.
func tickUntil(t *testing.T, s *Scheduler, errc <-chan error) error {
	t.Helper()
	for i := 0; i < 1000; i++ {
		s.Tick()
		select {
		case err := <-errc:
			return err
		case <-time.After(time.Millisecond):
		}
	}
	t.Fatal("Do never returned")
	return nil
}

func TestSchedulerDoSkipsWorkAfterCallerGivesUp(t *testing.T) {
	s := NewScheduler(testEpoch, time.Millisecond, nil)
	var ran atomic.Bool
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- s.Do(ctx, func() error {
			ran.Store(true)
			return nil
		})
	}()

	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)
	s.Tick()
	s.Tick()
	assert.False(t, ran.Load(), "abandoned work must not touch state")
}

func TestSchedulerDoWaitsForStartedWork(t *testing.T) {
	s := NewScheduler(testEpoch, time.Millisecond, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	want := errors.New("finished")
	errc := make(chan error, 1)
	go func() {
		errc <- s.Do(ctx, func() error {
			cancel()
			return want
		})
	}()

	assert.ErrorIs(t, tickUntil(t, s, errc), want)
}

func TestSchedulerDoReportsPanics(t *testing.T) {
	s := NewScheduler(testEpoch, time.Millisecond, nil)
	errc := make(chan error, 1)
	go func() {
		errc <- s.Do(context.Background(), func() error { panic("boom") })
	}()

	assert.ErrorIs(t, tickUntil(t, s, errc), errTaskPanicked)
}
