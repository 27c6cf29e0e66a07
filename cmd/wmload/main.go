package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/Zyko0/go-sdl3/bin/binimg"
	"github.com/Zyko0/go-sdl3/bin/binsdl"
	"github.com/Zyko0/go-sdl3/bin/binttf"

	"github.com/yufang1039/WM-load/engine"
)

func init() {
	// SDL3 requires the main thread for some operations.
	runtime.LockOSThread()
}

func main() {
	defer binsdl.Load().Unload()
	defer binimg.Load().Unload()
	defer binttf.Load().Unload()

	cfg := engine.DefaultConfig()

	paramsFile := flag.String("params", "", "YAML experiment parameter file")
	subjectID := flag.String("subject", "", "Subject ID")
	outputFile := flag.String("output", "results.json", "Output results file")
	dataDir := flag.String("data-dir", "Data", "Directory for saved results")
	logFile := flag.String("log", "", "Session log file")
	startSplash := flag.String("start-splash", "", "Start splash image")
	endSplash := flag.String("end-splash", "", "End splash image")
	fontFile := flag.String("font", "", "TTF font file")
	fontSize := flag.Int("font-size", 24, "Font size")
	triggerDev := flag.String("trigger", "", "DLP-IO8-G trigger device (e.g. /dev/ttyUSB0)")
	screenW := flag.Int("width", 1024, "Screen width")
	screenH := flag.Int("height", 768, "Screen height")
	seed := flag.Int64("seed", 0, "Random seed (0 = time-based)")
	trials := flag.Int("trials", -1, "Override number of main trials")
	practice := flag.Int("practice", -1, "Override number of practice trials")
	noVSync := flag.Bool("no-vsync", false, "Disable VSync")
	fullscreen := flag.Bool("fullscreen", false, "Enable fullscreen")
	debug := flag.Bool("debug", false, "Debug logging")
	bgColorStr := flag.String("bg-color", "0,0,0,255", "Background color (R,G,B,A)")
	textColorStr := flag.String("text-color", "255,255,255,255", "Text color (R,G,B,A)")
	fixColorStr := flag.String("fixation-color", "255,255,255,255", "Fixation color (R,G,B,A)")

	flag.Parse()

	params, err := engine.LoadParams(*paramsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *trials >= 0 {
		params.NumTrials = *trials
	}
	if *practice >= 0 {
		params.PracticeTrials = *practice
	}

	cfg.ParamsFile = *paramsFile
	cfg.SubjectID = *subjectID
	cfg.OutputFile = *outputFile
	cfg.DataDir = *dataDir
	cfg.LogFile = *logFile
	cfg.StartSplash = *startSplash
	cfg.EndSplash = *endSplash
	cfg.FontFile = *fontFile
	cfg.FontSize = *fontSize
	cfg.TriggerDevice = *triggerDev
	cfg.ScreenWidth = *screenW
	cfg.ScreenHeight = *screenH
	cfg.Seed = *seed
	cfg.VSync = !*noVSync
	cfg.Fullscreen = *fullscreen
	cfg.BGColor = engine.ParseColor(*bgColorStr)
	cfg.TextColor = engine.ParseColor(*textColorStr)
	cfg.FixationColor = engine.ParseColor(*fixColorStr)
	cfg.Params = params

	if *debug {
		engine.SetLogLevel(slog.LevelDebug)
	}

	if err := engine.Run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
