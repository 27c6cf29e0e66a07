package engine

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// TrialResult is the record of one completed trial. Response and
// ReactionTime are nil when the response window elapsed without a valid
// keypress. Records are never mutated after creation.
type TrialResult struct {
	Trial        int      `json:"trial"`
	CuedPosition int      `json:"cued_position"`
	Response     *int     `json:"response"`
	Correct      bool     `json:"correct"`
	ReactionTime *float64 `json:"reaction_time"`
}

// SessionSummary is derived from the recorded main trials at session end.
// Accuracy is computed over all completed trials, so a timeout counts as an
// incorrect answer rather than being excluded; MeanRT averages only trials
// with a defined reaction time.
type SessionSummary struct {
	Trials   int     `json:"trials"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
	ValidRTs int     `json:"valid_rts"`
	MeanRT   float64 `json:"mean_rt"`
}

// ResultLog is the append-only session record: the parameter set plus one
// entry per completed main trial.
type ResultLog struct {
	SubjectID string        `json:"subject_id,omitempty"`
	Params    *Params       `json:"params"`
	Timestamp string        `json:"timestamp"`
	Results   []TrialResult `json:"results"`
}

func (l *ResultLog) Append(r TrialResult) {
	l.Results = append(l.Results, r)
}

func (l *ResultLog) Summary() SessionSummary {
	sum := SessionSummary{Trials: len(l.Results)}
	var rtTotal float64
	for _, r := range l.Results {
		if r.Correct {
			sum.Correct++
		}
		if r.ReactionTime != nil {
			sum.ValidRTs++
			rtTotal += *r.ReactionTime
		}
	}
	if sum.Trials > 0 {
		sum.Accuracy = float64(sum.Correct) / float64(sum.Trials)
	}
	if sum.ValidRTs > 0 {
		sum.MeanRT = rtTotal / float64(sum.ValidRTs)
	}
	return sum
}

// OutputName inserts a run timestamp before the extension so repeated runs
// never overwrite each other.
func OutputName(base string, t time.Time) string {
	stamp := t.Format("20060102-150405")
	if i := strings.LastIndex(base, "."); i > 0 {
		return base[:i] + "_" + stamp + base[i:]
	}
	return base + "_" + stamp
}

// SaveJSON writes the full session record.
func (l *ResultLog) SaveJSON(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SaveCSV writes the flat trial table for quick inspection. Undefined
// responses and reaction times become empty cells.
func (l *ResultLog) SaveCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	w.Write([]string{"trial", "cued_position", "response", "correct", "reaction_time"})
	for _, r := range l.Results {
		response, rt := "", ""
		if r.Response != nil {
			response = strconv.Itoa(*r.Response)
		}
		if r.ReactionTime != nil {
			rt = fmt.Sprintf("%.4f", *r.ReactionTime)
		}
		w.Write([]string{
			strconv.Itoa(r.Trial),
			strconv.Itoa(r.CuedPosition),
			response,
			strconv.FormatBool(r.Correct),
			rt,
		})
	}
	w.Flush()
	return w.Error()
}
