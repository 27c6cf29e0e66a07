package engine

import (
	"log/slog"
	"time"
)

// fakeClock advances only through Sleep, so every blocking wait is exact and
// tests run instantly.
type fakeClock struct {
	now   time.Time
	slept time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
	c.slept += d
}

// scriptScreen is a Presenter that pops one scripted key event per poll and
// records what was shown and played.
type scriptScreen struct {
	events       []KeyEvent
	pendingAbort bool

	shown    []string
	lastText string
	played   []int
	stopped  int
}

func (s *scriptScreen) ShowFixation() { s.shown = append(s.shown, "fixation") }

func (s *scriptScreen) ShowCircle(radius int) { s.shown = append(s.shown, "circle") }

func (s *scriptScreen) ShowText(msg string) {
	s.shown = append(s.shown, "text")
	s.lastText = msg
}

func (s *scriptScreen) ClearScreen() { s.shown = append(s.shown, "clear") }

func (s *scriptScreen) PlayAudio(st *Stimulus) { s.played = append(s.played, st.Index) }

func (s *scriptScreen) StopAudio() { s.stopped++ }

func (s *scriptScreen) PollKey() KeyEvent {
	if len(s.events) == 0 {
		return KeyEvent{}
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev
}

func (s *scriptScreen) FlushInput() bool {
	p := s.pendingAbort
	s.pendingAbort = false
	return p
}

func digit(d int) KeyEvent { return KeyEvent{Kind: KeyDigit, Digit: d} }

func anyKey() KeyEvent { return KeyEvent{Kind: KeyOther} }

func abortKey() KeyEvent { return KeyEvent{Kind: KeyAbort} }

func testLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }
