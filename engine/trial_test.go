package engine

import (
	"errors"
	"math/rand"
	"testing"
	"time"
)

func newTestTrial(t *testing.T, screen *scriptScreen, clock *fakeClock, seed int64) *Trial {
	t.Helper()
	p := DefaultParams()
	bank, err := GenerateSyllables(p)
	if err != nil {
		t.Fatalf("generating bank: %v", err)
	}
	return &Trial{
		Params: p,
		Bank:   bank,
		Screen: screen,
		Clock:  clock,
		Rand:   rand.New(rand.NewSource(seed)),
		Log:    testLogger(),
	}
}

// predictSpec replays the trial's random draws so a test can script the
// matching response in advance.
func predictSpec(t *testing.T, seed int64, bankSize, numSyllables int) TrialSpec {
	t.Helper()
	spec, err := NewTrialSpec(rand.New(rand.NewSource(seed)), bankSize, numSyllables)
	if err != nil {
		t.Fatalf("predicting spec: %v", err)
	}
	return spec
}

func TestTrialSpecInvariants(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		spec, err := NewTrialSpec(rand.New(rand.NewSource(seed)), 8, 4)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if len(spec.Sequence) != 4 {
			t.Fatalf("seed %d: sequence length %d, want 4", seed, len(spec.Sequence))
		}
		seen := map[int]bool{}
		for _, idx := range spec.Sequence {
			if idx < 0 || idx >= 8 {
				t.Fatalf("seed %d: index %d out of bank range", seed, idx)
			}
			if seen[idx] {
				t.Fatalf("seed %d: duplicate index %d in %v", seed, idx, spec.Sequence)
			}
			seen[idx] = true
		}
		if spec.CuedPos < 1 || spec.CuedPos > 4 {
			t.Fatalf("seed %d: cued position %d out of range", seed, spec.CuedPos)
		}
	}
}

func TestTrialSpecBankTooSmall(t *testing.T) {
	_, err := NewTrialSpec(rand.New(rand.NewSource(1)), 4, 5)
	if err == nil {
		t.Fatal("expected error for 5 syllables over a 4-stimulus bank")
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %T: %v", err, err)
	}
}

func TestCueIndexMatchesSequence(t *testing.T) {
	// Bank indices 2,6,0,4 are positions 3,7,1,5 counted 1-indexed.
	spec := TrialSpec{Sequence: []int{2, 6, 0, 4}, CuedPos: 2}
	if got := spec.CueIndex(); got != 6 {
		t.Fatalf("cue index = %d, want 6", got)
	}
}

func TestTrialCorrectResponse(t *testing.T) {
	const seed = 7
	spec := predictSpec(t, seed, 8, 4)

	screen := &scriptScreen{events: []KeyEvent{digit(spec.CuedPos)}}
	trial := newTestTrial(t, screen, &fakeClock{}, seed)

	res, err := trial.Run(1, false)
	if err != nil {
		t.Fatalf("trial: %v", err)
	}
	if res.CuedPosition != spec.CuedPos {
		t.Errorf("cued position = %d, want %d", res.CuedPosition, spec.CuedPos)
	}
	if res.Response == nil || *res.Response != spec.CuedPos {
		t.Errorf("response = %v, want %d", res.Response, spec.CuedPos)
	}
	if !res.Correct {
		t.Error("expected correct result")
	}
	if res.ReactionTime == nil || *res.ReactionTime < 0 {
		t.Errorf("reaction time = %v, want defined and non-negative", res.ReactionTime)
	}
}

func TestTrialIncorrectResponse(t *testing.T) {
	const seed = 7
	spec := predictSpec(t, seed, 8, 4)
	wrong := spec.CuedPos%4 + 1

	screen := &scriptScreen{events: []KeyEvent{digit(wrong)}}
	trial := newTestTrial(t, screen, &fakeClock{}, seed)

	res, err := trial.Run(1, false)
	if err != nil {
		t.Fatalf("trial: %v", err)
	}
	if res.Correct {
		t.Errorf("response %d against cued position %d counted as correct", wrong, res.CuedPosition)
	}
	if res.Response == nil || *res.Response != wrong {
		t.Errorf("response = %v, want %d", res.Response, wrong)
	}
}

func TestTrialTimeout(t *testing.T) {
	screen := &scriptScreen{} // no keypress at all
	trial := newTestTrial(t, screen, &fakeClock{}, 3)

	res, err := trial.Run(1, false)
	if err != nil {
		t.Fatalf("trial: %v", err)
	}
	if res.Response != nil {
		t.Errorf("response = %v, want undefined", *res.Response)
	}
	if res.ReactionTime != nil {
		t.Errorf("reaction time = %v, want undefined", *res.ReactionTime)
	}
	if res.Correct {
		t.Error("timeout counted as correct")
	}
}

func TestTrialIgnoresInvalidKeys(t *testing.T) {
	const seed = 11
	spec := predictSpec(t, seed, 8, 4)

	// An out-of-range digit and a non-response key arrive first; only the
	// valid digit decides.
	screen := &scriptScreen{events: []KeyEvent{digit(9), anyKey(), digit(spec.CuedPos)}}
	trial := newTestTrial(t, screen, &fakeClock{}, seed)

	res, err := trial.Run(1, false)
	if err != nil {
		t.Fatalf("trial: %v", err)
	}
	if res.Response == nil || *res.Response != spec.CuedPos {
		t.Errorf("response = %v, want %d", res.Response, spec.CuedPos)
	}
	if !res.Correct {
		t.Error("expected correct result")
	}
}

func TestTrialAbortDuringReport(t *testing.T) {
	screen := &scriptScreen{events: []KeyEvent{abortKey()}}
	trial := newTestTrial(t, screen, &fakeClock{}, 5)

	_, err := trial.Run(1, false)
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestTrialDeterminism(t *testing.T) {
	const seed = 42
	run := func() TrialResult {
		spec := predictSpec(t, seed, 8, 4)
		screen := &scriptScreen{events: []KeyEvent{digit(spec.CuedPos)}}
		trial := newTestTrial(t, screen, &fakeClock{}, seed)
		res, err := trial.Run(1, false)
		if err != nil {
			t.Fatalf("trial: %v", err)
		}
		return res
	}

	a, b := run(), run()
	if a.CuedPosition != b.CuedPosition || a.Correct != b.Correct ||
		*a.Response != *b.Response || *a.ReactionTime != *b.ReactionTime {
		t.Fatalf("re-run with the same seed diverged: %+v vs %+v", a, b)
	}
}

func TestTrialPlaysSequenceThenCue(t *testing.T) {
	const seed = 13
	spec := predictSpec(t, seed, 8, 4)

	screen := &scriptScreen{events: []KeyEvent{digit(1)}}
	trial := newTestTrial(t, screen, &fakeClock{}, seed)

	if _, err := trial.Run(1, false); err != nil {
		t.Fatalf("trial: %v", err)
	}

	want := append(append([]int{}, spec.Sequence...), spec.CueIndex())
	if len(screen.played) != len(want) {
		t.Fatalf("played %d stimuli, want %d", len(screen.played), len(want))
	}
	for i, idx := range want {
		if screen.played[i] != idx {
			t.Fatalf("playback order %v, want %v", screen.played, want)
		}
	}
	if screen.stopped != len(want) {
		t.Errorf("StopAudio called %d times, want %d", screen.stopped, len(want))
	}
}

func TestTrialBlockingTime(t *testing.T) {
	clock := &fakeClock{}
	screen := &scriptScreen{events: []KeyEvent{digit(1)}}
	trial := newTestTrial(t, screen, clock, 1)
	p := trial.Params

	if _, err := trial.Run(1, false); err != nil {
		t.Fatalf("trial: %v", err)
	}

	encoding := p.EncodingFixationMS + p.NumSyllables*p.SyllableMS +
		(p.NumSyllables-1)*p.InterSyllableMS
	// Response arrived on the first poll, so the report wait contributes
	// nothing.
	wantMS := encoding + p.CueSyllableMS + p.RetentionDelayMS +
		p.NeutralImpulseMS + p.PostImpulseFixationMS + p.ReportHoldMS

	if got := clock.slept; got != time.Duration(wantMS)*time.Millisecond {
		t.Fatalf("blocked for %v, want %dms", got, wantMS)
	}
}

func TestTrialTimeoutBlockingTime(t *testing.T) {
	clock := &fakeClock{}
	screen := &scriptScreen{}
	trial := newTestTrial(t, screen, clock, 1)
	p := trial.Params

	if _, err := trial.Run(1, false); err != nil {
		t.Fatalf("trial: %v", err)
	}

	wantMS := p.EncodingFixationMS + p.NumSyllables*p.SyllableMS +
		(p.NumSyllables-1)*p.InterSyllableMS + p.CueSyllableMS +
		p.RetentionDelayMS + p.NeutralImpulseMS + p.PostImpulseFixationMS +
		p.MaxResponseMS + p.ReportHoldMS

	if got := clock.slept; got != time.Duration(wantMS)*time.Millisecond {
		t.Fatalf("blocked for %v, want %dms", got, wantMS)
	}
}

func TestTrialReactionTimeFromPolls(t *testing.T) {
	clock := &fakeClock{}
	// Two empty polls before the response: RT is two poll intervals.
	screen := &scriptScreen{events: []KeyEvent{{}, {}, digit(2)}}
	trial := newTestTrial(t, screen, clock, 9)

	res, err := trial.Run(1, false)
	if err != nil {
		t.Fatalf("trial: %v", err)
	}
	if res.ReactionTime == nil {
		t.Fatal("expected a defined reaction time")
	}
	want := float64(2*trial.Params.PollIntervalMS) / 1000
	if *res.ReactionTime != want {
		t.Fatalf("reaction time = %v, want %v", *res.ReactionTime, want)
	}
}

func TestPracticeFeedback(t *testing.T) {
	t.Run("too slow", func(t *testing.T) {
		screen := &scriptScreen{}
		trial := newTestTrial(t, screen, &fakeClock{}, 2)
		if _, err := trial.Run(1, true); err != nil {
			t.Fatalf("trial: %v", err)
		}
		if screen.lastText != "Too slow! Please respond faster." {
			t.Errorf("feedback = %q", screen.lastText)
		}
	})

	t.Run("correct", func(t *testing.T) {
		const seed = 21
		spec := predictSpec(t, seed, 8, 4)
		screen := &scriptScreen{events: []KeyEvent{digit(spec.CuedPos)}}
		trial := newTestTrial(t, screen, &fakeClock{}, seed)
		if _, err := trial.Run(1, true); err != nil {
			t.Fatalf("trial: %v", err)
		}
		want := feedbackMessage(spec.CuedPos, &spec.CuedPos, true)
		if screen.lastText != want {
			t.Errorf("feedback = %q, want %q", screen.lastText, want)
		}
	})
}
