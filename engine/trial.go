package engine

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"time"
)

// FeedbackMS is the fixed hold of the practice feedback display.
const FeedbackMS = 2000

// TrialSpec is the randomized plan for one trial: which bank stimuli play in
// which order, and which sequence position is probed afterwards. It is
// created at trial start and discarded once the result is built.
type TrialSpec struct {
	Sequence []int // bank indices, pairwise distinct
	CuedPos  int   // 1-indexed into Sequence
}

// CueIndex returns the bank index of the stimulus replayed as the cue. The
// cue is always one of the presented stimuli.
func (s TrialSpec) CueIndex() int { return s.Sequence[s.CuedPos-1] }

// NewTrialSpec draws numSyllables distinct bank indices without replacement
// and a uniform cued position in 1..numSyllables.
func NewTrialSpec(rng *rand.Rand, bankSize, numSyllables int) (TrialSpec, error) {
	if numSyllables < 1 || numSyllables > bankSize {
		return TrialSpec{}, &ConfigError{
			Param:  "num_syllables",
			Reason: fmt.Sprintf("%d not drawable from stimulus bank of size %d", numSyllables, bankSize),
		}
	}
	seq := rng.Perm(bankSize)[:numSyllables]
	return TrialSpec{Sequence: seq, CuedPos: rng.Intn(numSyllables) + 1}, nil
}

// Trial runs single trials of the sequence memory protocol against a
// Presenter. All blocking waits go through Clock, all randomness through
// Rand, so a fixed seed with scripted input replays identically.
type Trial struct {
	Params  *Params
	Bank    []Stimulus
	Screen  Presenter
	Clock   Clock
	Rand    *rand.Rand
	Trigger *DLPIO8G
	Log     *slog.Logger
}

func (t *Trial) pulse(line string) {
	if t.Trigger != nil {
		t.Trigger.Pulse(line)
	}
}

// Run executes one trial through encoding, retention and report and returns
// its result. ErrAborted is returned when the subject hits the abort key;
// the caller discards the partial trial.
func (t *Trial) Run(trialNum int, practice bool) (TrialResult, error) {
	p := t.Params
	spec, err := NewTrialSpec(t.Rand, len(t.Bank), p.NumSyllables)
	if err != nil {
		return TrialResult{}, err
	}

	t.Log.Info("encoding phase", "trial", trialNum, "practice", practice)

	// Encoding: initial fixation, then the syllable sequence. Playback is
	// stopped explicitly after SyllableMS even if the buffer is longer, so
	// no stimulus bleeds into the next interval.
	t.Screen.ShowFixation()
	waitFor(t.Clock, p.EncodingFixationMS)

	for i, idx := range spec.Sequence {
		t.Screen.ShowFixation()
		t.Screen.PlayAudio(&t.Bank[idx])
		waitFor(t.Clock, p.SyllableMS)
		t.Screen.StopAudio()
		if i < len(spec.Sequence)-1 {
			waitFor(t.Clock, p.InterSyllableMS)
		}
	}

	// Retention: cue excerpt, delay, neutral impulse, post-impulse fixation.
	t.Log.Info("retention phase", "trial", trialNum, "cued_position", spec.CuedPos)

	cue := &t.Bank[spec.CueIndex()]
	t.Screen.ShowFixation()
	t.pulse(LineCue)
	t.Screen.PlayAudio(cue)
	waitFor(t.Clock, p.CueSyllableMS)
	t.Screen.StopAudio()

	waitFor(t.Clock, p.RetentionDelayMS)

	t.pulse(LineImpulse)
	t.Screen.ShowCircle(p.CircleRadius)
	waitFor(t.Clock, p.NeutralImpulseMS)

	t.Screen.ShowFixation()
	waitFor(t.Clock, p.PostImpulseFixationMS)

	// Report: stale keypresses must not count as responses.
	t.Log.Info("report phase", "trial", trialNum)

	if t.Screen.FlushInput() {
		return TrialResult{}, ErrAborted
	}
	t.Screen.ShowText(reportPrompt(p.NumSyllables))
	t.pulse(LinePrompt)

	start := t.Clock.Now()
	deadline := start.Add(time.Duration(p.MaxResponseMS) * time.Millisecond)
	interval := time.Duration(p.PollIntervalMS) * time.Millisecond

	ev := pollUntil(t.Clock, deadline, interval, func() KeyEvent {
		ev := t.Screen.PollKey()
		if ev.Kind == KeyOther {
			return KeyEvent{}
		}
		if ev.Kind == KeyDigit && (ev.Digit < 1 || ev.Digit > p.NumSyllables) {
			return KeyEvent{}
		}
		return ev
	})
	if ev.Kind == KeyAbort {
		return TrialResult{}, ErrAborted
	}

	var response *int
	var rt *float64
	if ev.Kind == KeyDigit {
		r := ev.Digit
		sec := t.Clock.Now().Sub(start).Seconds()
		response, rt = &r, &sec
		t.pulse(LineResponse)
	}

	waitFor(t.Clock, p.ReportHoldMS)

	correct := response != nil && *response == spec.CuedPos

	if practice {
		t.Screen.ShowText(feedbackMessage(spec.CuedPos, response, correct))
		waitFor(t.Clock, FeedbackMS)
	}

	res := TrialResult{
		Trial:        trialNum,
		CuedPosition: spec.CuedPos,
		Response:     response,
		Correct:      correct,
		ReactionTime: rt,
	}
	t.Log.Info("trial complete",
		"trial", trialNum,
		"cued_position", res.CuedPosition,
		"response", responseLabel(response),
		"correct", correct)
	return res, nil
}

func reportPrompt(n int) string {
	keys := "1"
	for i := 2; i <= n; i++ {
		keys += fmt.Sprintf(", %d", i)
	}
	return "What was the temporal position\nof the cued syllable?\n\nPress " + keys
}

func feedbackMessage(cued int, response *int, correct bool) string {
	switch {
	case response == nil:
		return "Too slow! Please respond faster."
	case correct:
		return fmt.Sprintf("Correct! The cued syllable was in position %d.", cued)
	default:
		return fmt.Sprintf("Incorrect. The cued syllable was in position %d,\nyou answered %d.", cued, *response)
	}
}

func responseLabel(r *int) string {
	if r == nil {
		return "none"
	}
	return strconv.Itoa(*r)
}
