package engine

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func ptrInt(v int) *int { return &v }

func ptrFloat(v float64) *float64 { return &v }

func TestSummaryCountsTimeoutsAsIncorrect(t *testing.T) {
	log := &ResultLog{Params: DefaultParams()}
	log.Append(TrialResult{Trial: 1, CuedPosition: 2, Response: ptrInt(2), Correct: true, ReactionTime: ptrFloat(1.0)})
	log.Append(TrialResult{Trial: 2, CuedPosition: 1, Response: ptrInt(3), Correct: false, ReactionTime: ptrFloat(2.0)})
	log.Append(TrialResult{Trial: 3, CuedPosition: 4, Response: ptrInt(4), Correct: true, ReactionTime: ptrFloat(3.0)})
	log.Append(TrialResult{Trial: 4, CuedPosition: 3}) // timeout

	sum := log.Summary()
	if sum.Trials != 4 {
		t.Fatalf("trials = %d, want 4", sum.Trials)
	}
	if sum.Correct != 2 {
		t.Errorf("correct = %d, want 2", sum.Correct)
	}
	if sum.Accuracy != 0.5 {
		t.Errorf("accuracy = %v, want 0.5 (timeout counts as incorrect)", sum.Accuracy)
	}
	if sum.ValidRTs != 3 {
		t.Errorf("valid RTs = %d, want 3", sum.ValidRTs)
	}
	if sum.MeanRT != 2.0 {
		t.Errorf("mean RT = %v, want 2.0", sum.MeanRT)
	}
}

func TestSummaryEmpty(t *testing.T) {
	sum := (&ResultLog{}).Summary()
	if sum.Trials != 0 || sum.Accuracy != 0 || sum.MeanRT != 0 {
		t.Fatalf("empty summary not zero: %+v", sum)
	}
}

func TestOutputName(t *testing.T) {
	at := time.Date(2026, 8, 27, 15, 4, 5, 0, time.UTC)
	if got := OutputName("results.json", at); got != "results_20260827-150405.json" {
		t.Errorf("got %q", got)
	}
	if got := OutputName("results", at); got != "results_20260827-150405" {
		t.Errorf("got %q", got)
	}
}

func TestSaveJSONRoundTrip(t *testing.T) {
	log := &ResultLog{
		SubjectID: "s01",
		Params:    DefaultParams(),
		Timestamp: "20260827-150405",
	}
	log.Append(TrialResult{Trial: 1, CuedPosition: 2, Response: ptrInt(2), Correct: true, ReactionTime: ptrFloat(0.82)})
	log.Append(TrialResult{Trial: 2, CuedPosition: 3}) // timeout

	path := filepath.Join(t.TempDir(), "results.json")
	if err := log.SaveJSON(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var loaded ResultLog
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if loaded.SubjectID != "s01" {
		t.Errorf("subject = %q", loaded.SubjectID)
	}
	if loaded.Params == nil || loaded.Params.NumSyllables != 4 {
		t.Error("parameter set not persisted")
	}
	if len(loaded.Results) != 2 {
		t.Fatalf("loaded %d results, want 2", len(loaded.Results))
	}
	if loaded.Results[0].Response == nil || *loaded.Results[0].Response != 2 {
		t.Errorf("result 1 response = %v", loaded.Results[0].Response)
	}
	if loaded.Results[1].Response != nil || loaded.Results[1].ReactionTime != nil {
		t.Error("timeout did not round-trip as undefined")
	}
}

func TestSaveCSV(t *testing.T) {
	log := &ResultLog{Params: DefaultParams()}
	log.Append(TrialResult{Trial: 1, CuedPosition: 2, Response: ptrInt(2), Correct: true, ReactionTime: ptrFloat(0.5)})
	log.Append(TrialResult{Trial: 2, CuedPosition: 1}) // timeout

	path := filepath.Join(t.TempDir(), "results.csv")
	if err := log.SaveCSV(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header plus 2 rows:\n%s", len(lines), data)
	}
	if lines[0] != "trial,cued_position,response,correct,reaction_time" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "1,2,2,true,0.5000" {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != "2,1,,false," {
		t.Errorf("timeout row = %q", lines[2])
	}
}
