package engine

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/Zyko0/go-sdl3/ttf"
)

// Run wires the SDL presentation layer, trigger hardware and logging, runs
// the session, and persists the results. Every acquired resource is released
// on every exit path.
func Run(cfg *Config) error {
	if err := cfg.Params.Validate(); err != nil {
		return err
	}

	logger, logCloser, err := NewLogger(cfg.LogFile)
	if err != nil {
		return err
	}
	if logCloser != nil {
		defer logCloser.Close()
	}

	bank, err := GenerateSyllables(cfg.Params)
	if err != nil {
		return err
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO | sdl.INIT_EVENTS); err != nil {
		return &DeviceError{Device: "sdl", Err: err}
	}
	defer sdl.Quit()

	if err := ttf.Init(); err != nil {
		return &DeviceError{Device: "ttf", Err: err}
	}
	defer ttf.Quit()

	windowFlags := sdl.WINDOW_RESIZABLE
	if cfg.Fullscreen {
		windowFlags |= sdl.WINDOW_FULLSCREEN
	}

	window, renderer, err := sdl.CreateWindowAndRenderer("WM-load", cfg.ScreenWidth, cfg.ScreenHeight, windowFlags)
	if err != nil {
		return &DeviceError{Device: "window", Err: err}
	}
	defer window.Destroy()
	defer renderer.Destroy()

	if cfg.VSync {
		renderer.SetVSync(1)
	} else {
		renderer.SetVSync(0)
	}

	fontPath := cfg.FontFile
	if fontPath == "" {
		fontPath = GetDefaultFontPath()
	}
	var font *ttf.Font
	if fontPath != "" {
		font, err = ttf.OpenFont(fontPath, float32(cfg.FontSize))
		if err != nil {
			logger.Warn("font load failed", "path", fontPath, "error", err)
		}
	}
	defer func() {
		if font != nil {
			font.Close()
		}
	}()

	player := NewAudioPlayer()
	spec := &sdl.AudioSpec{Format: sdl.AUDIO_F32, Channels: 2, Freq: int32(cfg.Params.SampleRate)}
	cb := sdl.NewAudioStreamCallback(player.Callback)
	stream := sdl.AUDIO_DEVICE_DEFAULT_PLAYBACK.OpenAudioDeviceStream(spec, cb)
	if stream == nil {
		return &DeviceError{Device: "audio", Err: fmt.Errorf("failed to open playback stream")}
	}
	defer stream.Destroy()
	stream.ResumeDevice()

	var dlp *DLPIO8G
	if cfg.TriggerDevice != "" {
		dlp, err = NewDLPIO8G(cfg.TriggerDevice, 9600, logger)
		if err != nil {
			logger.Warn("trigger device unavailable, continuing without EEG markers",
				"device", cfg.TriggerDevice, "error", err)
			dlp = nil
		} else {
			defer dlp.Close()
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	screen := &Screen{
		Renderer: renderer,
		Font:     font,
		Player:   player,
		FontSize: cfg.FontSize,
		Width:    cfg.ScreenWidth,
		Height:   cfg.ScreenHeight,
		BG:       cfg.BGColor,
		Text:     cfg.TextColor,
		Fixation: cfg.FixationColor,
	}

	if !screen.Splash(cfg.StartSplash) {
		return nil
	}

	session := &Session{
		Params:  cfg.Params,
		Bank:    bank,
		Screen:  screen,
		Clock:   NewClock(),
		Rand:    rand.New(rand.NewSource(seed)),
		Trigger: dlp,
		Log:     logger,
		Results: &ResultLog{SubjectID: cfg.SubjectID, Params: cfg.Params},
	}

	logger.Info("session start",
		"subject", cfg.SubjectID,
		"seed", seed,
		"trials", cfg.Params.NumTrials,
		"practice", cfg.Params.PracticeTrials)

	if err := session.Run(); err != nil {
		return err
	}

	if !session.Aborted {
		screen.Splash(cfg.EndSplash)
	}

	if len(session.Results.Results) == 0 {
		logger.Info("no completed trials, nothing to save")
		return nil
	}

	now := time.Now()
	session.Results.Timestamp = now.Format("20060102-150405")

	dir := cfg.DataDir
	if cfg.SubjectID != "" {
		dir = filepath.Join(dir, cfg.SubjectID)
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	jsonPath := filepath.Join(dir, OutputName(cfg.OutputFile, now))
	if err := session.Results.SaveJSON(jsonPath); err != nil {
		return err
	}
	csvPath := strings.TrimSuffix(jsonPath, filepath.Ext(jsonPath)) + ".csv"
	if err := session.Results.SaveCSV(csvPath); err != nil {
		return err
	}
	logger.Info("results saved", "json", jsonPath, "csv", csvPath)
	return nil
}
