package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"
)

// Session runs the practice and main trial loops and owns the append-only
// result log. Practice trials show feedback and are never recorded; main
// trials record one TrialResult each. An abort ends the loop early with the
// results collected so far.
type Session struct {
	Params  *Params
	Bank    []Stimulus
	Screen  Presenter
	Clock   Clock
	Rand    *rand.Rand
	Trigger *DLPIO8G
	Log     *slog.Logger
	Results *ResultLog

	Aborted bool
}

// Run executes the whole session. A subject abort is not an error: Run
// returns nil and Aborted reports it. Only configuration failures surface.
func (s *Session) Run() error {
	trial := &Trial{
		Params:  s.Params,
		Bank:    s.Bank,
		Screen:  s.Screen,
		Clock:   s.Clock,
		Rand:    s.Rand,
		Trigger: s.Trigger,
		Log:     s.Log,
	}

	if !s.waitAnyKey(instructions(s.Params.NumSyllables)) {
		s.Aborted = true
		return nil
	}

	if s.Params.PracticeTrials > 0 {
		s.Log.Info("practice trials", "count", s.Params.PracticeTrials)
		for i := 1; i <= s.Params.PracticeTrials; i++ {
			if _, err := trial.Run(i, true); err != nil {
				if errors.Is(err, ErrAborted) {
					s.Aborted = true
					return nil
				}
				return err
			}
			s.interTrial()
		}

		if !s.waitAnyKey("Practice complete!\n\nPress any key to start the main experiment.") {
			s.Aborted = true
			return nil
		}
	}

	s.Log.Info("main trials", "count", s.Params.NumTrials)
	for i := 1; i <= s.Params.NumTrials; i++ {
		if s.Screen.FlushInput() {
			s.Aborted = true
			break
		}
		res, err := trial.Run(i, false)
		if err != nil {
			if errors.Is(err, ErrAborted) {
				s.Aborted = true
				break
			}
			return err
		}
		s.Results.Append(res)
		s.interTrial()
	}

	sum := s.Results.Summary()
	s.Log.Info("session complete",
		"trials", sum.Trials,
		"correct", sum.Correct,
		"accuracy", sum.Accuracy,
		"mean_rt", sum.MeanRT,
		"aborted", s.Aborted)

	if !s.Aborted && sum.Trials > 0 {
		s.waitAnyKey(summaryText(sum))
	}
	return nil
}

// interTrial blanks the screen between trials.
func (s *Session) interTrial() {
	s.Screen.ClearScreen()
	waitFor(s.Clock, s.Params.InterTrialMS)
}

// waitAnyKey shows a message and blocks until any key is pressed. It reports
// false when the subject aborts instead.
func (s *Session) waitAnyKey(msg string) bool {
	if s.Screen.FlushInput() {
		return false
	}
	s.Screen.ShowText(msg)
	interval := time.Duration(s.Params.PollIntervalMS) * time.Millisecond
	for {
		ev := pollUntil(s.Clock, s.Clock.Now().Add(time.Hour), interval, s.Screen.PollKey)
		switch ev.Kind {
		case KeyAbort:
			return false
		case KeyNone:
			// no deadline for the subject here; keep waiting
		default:
			return true
		}
	}
}

func instructions(n int) string {
	return fmt.Sprintf(`Welcome to the Auditory Sequence Memory Experiment!

You will hear a sequence of %d different syllables.
After a delay, you will hear one of these syllables again as a cue.
Your task is to report the temporal position
of the cued syllable in the original sequence.

Press keys 1-%d to respond.
Press ESC at any time to quit the experiment.

We will start with a few practice trials.

Press any key to begin.`, n, n)
}

func summaryText(sum SessionSummary) string {
	return fmt.Sprintf(`Experiment Complete!

Accuracy: %.1f%%
Average Response Time: %.2f seconds

Press any key to exit.`, sum.Accuracy*100, sum.MeanRT)
}
