package engine

import (
	"fmt"
	"os"
	"strings"

	"github.com/Zyko0/go-sdl3/sdl"
	"gopkg.in/yaml.v3"
)

// Params holds the experimental protocol parameters. They are fixed before
// the first trial runs and read-only afterwards; the full set is embedded in
// the saved result record so every run is self-describing.
type Params struct {
	// Encoding phase (ms)
	EncodingFixationMS int `yaml:"encoding_fixation_ms" json:"encoding_fixation_ms"`
	SyllableMS         int `yaml:"syllable_ms" json:"syllable_ms"`
	InterSyllableMS    int `yaml:"inter_syllable_ms" json:"inter_syllable_ms"`
	NumSyllables       int `yaml:"num_syllables" json:"num_syllables"`

	// Retention phase (ms)
	CueSyllableMS         int `yaml:"cue_syllable_ms" json:"cue_syllable_ms"`
	RetentionDelayMS      int `yaml:"retention_delay_ms" json:"retention_delay_ms"`
	NeutralImpulseMS      int `yaml:"neutral_impulse_ms" json:"neutral_impulse_ms"`
	PostImpulseFixationMS int `yaml:"post_impulse_fixation_ms" json:"post_impulse_fixation_ms"`

	// Report phase (ms)
	ReportHoldMS   int `yaml:"report_hold_ms" json:"report_hold_ms"`
	MaxResponseMS  int `yaml:"max_response_ms" json:"max_response_ms"`
	InterTrialMS   int `yaml:"inter_trial_ms" json:"inter_trial_ms"`
	PollIntervalMS int `yaml:"poll_interval_ms" json:"poll_interval_ms"`

	// Trial counts
	NumTrials      int `yaml:"num_trials" json:"num_trials"`
	PracticeTrials int `yaml:"practice_trials" json:"practice_trials"`

	// Audio
	SampleRate  int     `yaml:"sample_rate" json:"sample_rate"`
	AudioVolume float64 `yaml:"audio_volume" json:"audio_volume"`

	// Visual (px)
	CircleRadius int `yaml:"circle_radius" json:"circle_radius"`
}

// DefaultParams is the standard protocol timing.
func DefaultParams() *Params {
	return &Params{
		EncodingFixationMS:    600,
		SyllableMS:            1600,
		InterSyllableMS:       2000,
		NumSyllables:          4,
		CueSyllableMS:         200,
		RetentionDelayMS:      3000,
		NeutralImpulseMS:      100,
		PostImpulseFixationMS: 800,
		ReportHoldMS:          200,
		MaxResponseMS:         5000,
		InterTrialMS:          1000,
		PollIntervalMS:        2,
		NumTrials:             20,
		PracticeTrials:        3,
		SampleRate:            44100,
		AudioVolume:           0.5,
		CircleRadius:          120,
	}
}

// Validate checks the parameter set before any trial runs.
func (p *Params) Validate() error {
	durations := []struct {
		name string
		ms   int
	}{
		{"encoding_fixation_ms", p.EncodingFixationMS},
		{"syllable_ms", p.SyllableMS},
		{"inter_syllable_ms", p.InterSyllableMS},
		{"cue_syllable_ms", p.CueSyllableMS},
		{"retention_delay_ms", p.RetentionDelayMS},
		{"neutral_impulse_ms", p.NeutralImpulseMS},
		{"post_impulse_fixation_ms", p.PostImpulseFixationMS},
		{"report_hold_ms", p.ReportHoldMS},
		{"max_response_ms", p.MaxResponseMS},
	}
	for _, d := range durations {
		if d.ms <= 0 {
			return &ConfigError{Param: d.name, Reason: "duration must be positive"}
		}
	}
	if p.InterTrialMS < 0 {
		return &ConfigError{Param: "inter_trial_ms", Reason: "must not be negative"}
	}
	if p.PollIntervalMS < 1 {
		return &ConfigError{Param: "poll_interval_ms", Reason: "must be at least 1"}
	}
	if p.NumSyllables < 1 {
		return &ConfigError{Param: "num_syllables", Reason: "must be at least 1"}
	}
	if p.NumSyllables > BankSize() {
		return &ConfigError{
			Param:  "num_syllables",
			Reason: fmt.Sprintf("%d exceeds stimulus bank size %d", p.NumSyllables, BankSize()),
		}
	}
	if p.NumTrials < 1 {
		return &ConfigError{Param: "num_trials", Reason: "must be at least 1"}
	}
	if p.PracticeTrials < 0 {
		return &ConfigError{Param: "practice_trials", Reason: "must not be negative"}
	}
	if p.SampleRate <= 0 {
		return &ConfigError{Param: "sample_rate", Reason: "must be positive"}
	}
	if p.AudioVolume <= 0 || p.AudioVolume > 1 {
		return &ConfigError{Param: "audio_volume", Reason: "must be in (0, 1]"}
	}
	if p.CircleRadius <= 0 {
		return &ConfigError{Param: "circle_radius", Reason: "must be positive"}
	}
	return nil
}

// LoadParams reads a YAML parameter file over the defaults. An empty path
// returns the defaults unchanged.
func LoadParams(path string) (*Params, error) {
	p := DefaultParams()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read parameter file: %w", err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse parameter file: %w", err)
	}
	return p, nil
}

// Config carries the presentation and bookkeeping settings for one run.
type Config struct {
	ParamsFile    string
	OutputFile    string
	DataDir       string
	SubjectID     string
	LogFile       string
	StartSplash   string
	EndSplash     string
	FontFile      string
	TriggerDevice string
	FontSize      int
	ScreenWidth   int
	ScreenHeight  int
	Seed          int64
	Fullscreen    bool
	VSync         bool
	BGColor       sdl.Color
	TextColor     sdl.Color
	FixationColor sdl.Color
	Params        *Params
}

func DefaultConfig() *Config {
	return &Config{
		OutputFile:    "results.json",
		DataDir:       "Data",
		FontSize:      24,
		ScreenWidth:   1024,
		ScreenHeight:  768,
		VSync:         true,
		BGColor:       sdl.Color{R: 0, G: 0, B: 0, A: 255},
		TextColor:     sdl.Color{R: 255, G: 255, B: 255, A: 255},
		FixationColor: sdl.Color{R: 255, G: 255, B: 255, A: 255},
		Params:        DefaultParams(),
	}
}

func ParseColor(s string) sdl.Color {
	var r, g, b, a uint8
	fmt.Sscanf(s, "%d,%d,%d,%d", &r, &g, &b, &a)
	if a == 0 && s != "" && !strings.Contains(s, ",0") {
		a = 255
	}
	return sdl.Color{R: r, G: g, B: b, A: a}
}

const CacheFile = ".wmload_cache"

// SaveCache persists the GUI setup choices between runs.
func (cfg *Config) SaveCache() {
	f, err := os.Create(CacheFile)
	if err != nil {
		return
	}
	defer f.Close()

	fmt.Fprintf(f, "subject_id=%s\n", cfg.SubjectID)
	fmt.Fprintf(f, "output_file=%s\n", cfg.OutputFile)
	fmt.Fprintf(f, "data_dir=%s\n", cfg.DataDir)
	fmt.Fprintf(f, "params_file=%s\n", cfg.ParamsFile)
	fmt.Fprintf(f, "screen_w=%d\n", cfg.ScreenWidth)
	fmt.Fprintf(f, "screen_h=%d\n", cfg.ScreenHeight)
	if cfg.Fullscreen {
		fmt.Fprintf(f, "fullscreen=1\n")
	} else {
		fmt.Fprintf(f, "fullscreen=0\n")
	}
}

func (cfg *Config) LoadCache() {
	data, err := os.ReadFile(CacheFile)
	if err != nil {
		return
	}

	for _, line := range strings.Split(string(data), "\n") {
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key, val := parts[0], strings.TrimSpace(parts[1])

		switch key {
		case "subject_id":
			cfg.SubjectID = val
		case "output_file":
			cfg.OutputFile = val
		case "data_dir":
			cfg.DataDir = val
		case "params_file":
			cfg.ParamsFile = val
		case "screen_w":
			fmt.Sscanf(val, "%d", &cfg.ScreenWidth)
		case "screen_h":
			fmt.Sscanf(val, "%d", &cfg.ScreenHeight)
		case "fullscreen":
			cfg.Fullscreen = (val != "0")
		}
	}
}
