package anim

import (
	"sync"
	"time"
)

// Scheduler runs fn once at the next frame with a monotonic timestamp.
// Callbacks must run on the thread that owns the animation state.
type Scheduler interface {
	RequestFrame(fn func(ts time.Duration))
}

// FrameTask drives an Animator one frame at a time. It asks for the next
// frame only while the animator is active and the task has not been
// cancelled, so at most one request is in flight.
type FrameTask struct {
	anim     *Animator
	sched    Scheduler
	onFrame  func(*Animator)
	last     time.Duration
	started  bool
	canceled bool
}

// Start requests the first frame for a and returns the running task.
// onFrame is called after every advance, typically to redraw.
func Start(a *Animator, s Scheduler, onFrame func(*Animator)) *FrameTask {
	t := &FrameTask{anim: a, sched: s, onFrame: onFrame}
	if a.Active() {
		s.RequestFrame(t.tick)
	}
	return t
}

// Animator returns the animator the task drives.
func (t *FrameTask) Animator() *Animator { return t.anim }

// Active reports whether the task will keep scheduling frames.
func (t *FrameTask) Active() bool {
	return t != nil && !t.canceled && t.anim.Active()
}

// Cancel stops the task. A frame already requested runs as a no-op.
func (t *FrameTask) Cancel() {
	if t != nil {
		t.canceled = true
	}
}

func (t *FrameTask) tick(ts time.Duration) {
	if t.canceled {
		return
	}
	var dt time.Duration
	if t.started {
		dt = ts - t.last
	}
	t.started = true
	t.last = ts

	t.anim.Advance(dt)
	if t.onFrame != nil {
		t.onFrame(t.anim)
	}
	if t.Active() {
		t.sched.RequestFrame(t.tick)
	}
}

// ManualScheduler queues frame requests until Frame is called. Tests use it
// to step animations deterministically.
type ManualScheduler struct {
	pending []func(time.Duration)
}

// RequestFrame queues fn.
func (m *ManualScheduler) RequestFrame(fn func(time.Duration)) {
	m.pending = append(m.pending, fn)
}

// Pending returns the number of queued requests.
func (m *ManualScheduler) Pending() int { return len(m.pending) }

// Frame runs the queued callbacks with ts. Requests made while they run wait
// for the next Frame.
func (m *ManualScheduler) Frame(ts time.Duration) {
	run := m.pending
	m.pending = nil
	for _, fn := range run {
		fn(ts)
	}
}

// TickScheduler fires frames from a timer and hands each callback to Post,
// which must run it on the owner's event loop.
type TickScheduler struct {
	Interval time.Duration
	Post     func(func())

	once   sync.Once
	origin time.Time
}

// RequestFrame schedules fn one interval from now.
func (s *TickScheduler) RequestFrame(fn func(time.Duration)) {
	s.once.Do(func() { s.origin = time.Now() })
	time.AfterFunc(s.Interval, func() {
		s.Post(func() { fn(time.Since(s.origin)) })
	})
}
