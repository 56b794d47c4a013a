package engine

import (
	"sort"
	"time"
)

// FrameInterval is how far FrameLoop advances its virtual time per frame.
const FrameInterval = 16 * time.Millisecond

// Clock schedules deferred work on the host's event loop.
type Clock interface {
	// RequestFrame runs fn on the next animation frame.
	RequestFrame(fn func())

	// AfterFunc runs fn once d has elapsed, after any frame callbacks that
	// are due at the same time.
	AfterFunc(d time.Duration, fn func())
}

type timer struct {
	at  time.Duration
	seq int
	fn  func()
}

// FrameLoop is a manually pumped Clock. Nothing runs until RunFrame is
// called, which makes every interleaving reproducible.
type FrameLoop struct {
	now    time.Duration
	frame  []func()
	timers []timer
	seq    int
}

// NewFrameLoop creates an idle loop at virtual time zero.
func NewFrameLoop() *FrameLoop {
	return &FrameLoop{}
}

// RequestFrame queues fn for the next RunFrame.
func (l *FrameLoop) RequestFrame(fn func()) {
	l.frame = append(l.frame, fn)
}

// AfterFunc queues fn to run once virtual time reaches now+d.
func (l *FrameLoop) AfterFunc(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	l.seq++
	l.timers = append(l.timers, timer{at: l.now + d, seq: l.seq, fn: fn})
}

// Now returns the loop's virtual time.
func (l *FrameLoop) Now() time.Duration {
	return l.now
}

// Pending reports whether any frame callback or timer is queued.
func (l *FrameLoop) Pending() bool {
	return len(l.frame) > 0 || len(l.timers) > 0
}

// RunFrame advances virtual time by one frame, runs the frame callbacks that
// were queued before the call, then every timer that has come due, including
// timers those callbacks scheduled. It returns the number of callbacks run.
func (l *FrameLoop) RunFrame() int {
	l.now += FrameInterval
	callbacks := l.frame
	l.frame = nil
	for _, fn := range callbacks {
		fn()
	}
	return len(callbacks) + l.RunTimers()
}

// RunTimers runs every due timer without advancing time.
func (l *FrameLoop) RunTimers() int {
	ran := 0
	for {
		idx := l.nextDue()
		if idx < 0 {
			return ran
		}
		t := l.timers[idx]
		l.timers = append(l.timers[:idx], l.timers[idx+1:]...)
		t.fn()
		ran++
	}
}

func (l *FrameLoop) nextDue() int {
	if len(l.timers) == 0 {
		return -1
	}
	sort.SliceStable(l.timers, func(i, j int) bool {
		if l.timers[i].at != l.timers[j].at {
			return l.timers[i].at < l.timers[j].at
		}
		return l.timers[i].seq < l.timers[j].seq
	})
	if l.timers[0].at > l.now {
		return -1
	}
	return 0
}

// Settle runs frames until nothing is queued, at most maxFrames times, and
// returns how many frames ran.
func (l *FrameLoop) Settle(maxFrames int) int {
	frames := 0
	for frames < maxFrames && l.Pending() {
		l.RunFrame()
		frames++
	}
	return frames
}
