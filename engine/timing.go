package engine

import "time"

// Clock abstracts wall time so trial timing is testable without sleeping.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// NewClock returns the wall clock used outside of tests.
func NewClock() Clock { return realClock{} }

type KeyKind int

const (
	KeyNone KeyKind = iota
	KeyDigit
	KeyOther
	KeyAbort
)

// KeyEvent is the result of one non-blocking input poll.
type KeyEvent struct {
	Kind  KeyKind
	Digit int
}

// waitFor blocks for at least ms milliseconds; it never returns early.
func waitFor(c Clock, ms int) {
	if ms > 0 {
		c.Sleep(time.Duration(ms) * time.Millisecond)
	}
}

// pollUntil calls poll until it reports something other than KeyNone or the
// deadline passes, sleeping interval between polls. The interval bounds both
// the reaction-time measurement error and the abort-key latency. On timeout
// the zero KeyEvent (KeyNone) is returned.
func pollUntil(c Clock, deadline time.Time, interval time.Duration, poll func() KeyEvent) KeyEvent {
	for {
		if ev := poll(); ev.Kind != KeyNone {
			return ev
		}
		if !c.Now().Before(deadline) {
			return KeyEvent{}
		}
		c.Sleep(interval)
	}
}
