package engine

import (
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Zyko0/go-sdl3/img"
	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/Zyko0/go-sdl3/ttf"
)

const crossSize = 20

// Screen is the SDL implementation of Presenter: one window, one renderer,
// one audio player. All drawing happens on the main thread.
type Screen struct {
	Renderer *sdl.Renderer
	Font     *ttf.Font
	Player   *AudioPlayer
	FontSize int
	Width    int
	Height   int
	BG       sdl.Color
	Text     sdl.Color
	Fixation sdl.Color
}

func (s *Screen) clear() {
	s.Renderer.SetDrawColor(s.BG.R, s.BG.G, s.BG.B, s.BG.A)
	s.Renderer.Clear()
}

func (s *Screen) ClearScreen() {
	s.clear()
	s.Renderer.Present()
}

func (s *Screen) ShowFixation() {
	s.clear()
	s.Renderer.SetDrawColor(s.Fixation.R, s.Fixation.G, s.Fixation.B, s.Fixation.A)
	mx, my := float32(s.Width)/2, float32(s.Height)/2
	s.Renderer.RenderLine(mx-crossSize, my, mx+crossSize, my)
	s.Renderer.RenderLine(mx, my-crossSize, mx, my+crossSize)
	s.Renderer.Present()
}

// ShowCircle fills the circle one scanline at a time; SDL3 has no filled
// circle primitive.
func (s *Screen) ShowCircle(radius int) {
	s.clear()
	s.Renderer.SetDrawColor(s.Fixation.R, s.Fixation.G, s.Fixation.B, s.Fixation.A)
	cx, cy := float32(s.Width)/2, float32(s.Height)/2
	r := float64(radius)
	for dy := -radius; dy <= radius; dy++ {
		dx := float32(math.Sqrt(r*r - float64(dy)*float64(dy)))
		y := cy + float32(dy)
		s.Renderer.RenderLine(cx-dx, y, cx+dx, y)
	}
	s.Renderer.Present()
}

func (s *Screen) ShowText(msg string) {
	s.clear()
	if s.Font != nil {
		lines := strings.Split(msg, "\n")
		lineH := float32(s.FontSize) * 3 / 2
		y := (float32(s.Height) - lineH*float32(len(lines))) / 2
		for _, line := range lines {
			if line != "" {
				s.drawLine(line, y)
			}
			y += lineH
		}
	}
	s.Renderer.Present()
}

func (s *Screen) drawLine(line string, y float32) {
	surf, err := s.Font.RenderTextBlended(line, s.Text)
	if err != nil || surf == nil {
		return
	}
	defer surf.Destroy()

	tex, err := s.Renderer.CreateTextureFromSurface(surf)
	if err != nil {
		return
	}
	defer tex.Destroy()

	r := sdl.FRect{
		X: (float32(s.Width) - float32(surf.W)) / 2,
		Y: y,
		W: float32(surf.W),
		H: float32(surf.H),
	}
	s.Renderer.RenderTexture(tex, nil, &r)
}

func (s *Screen) PlayAudio(stim *Stimulus) { s.Player.Play(stim) }
func (s *Screen) StopAudio()               { s.Player.Stop() }

// PollKey drains at most one keyboard event from the SDL queue.
func (s *Screen) PollKey() KeyEvent {
	var ev sdl.Event
	for sdl.PollEvent(&ev) {
		switch ev.Type {
		case sdl.EVENT_QUIT:
			return KeyEvent{Kind: KeyAbort}
		case sdl.EVENT_KEY_DOWN:
			return mapKey(ev.KeyboardEvent().Key)
		}
	}
	return KeyEvent{}
}

func mapKey(k sdl.Keycode) KeyEvent {
	switch {
	case k == sdl.K_ESCAPE:
		return KeyEvent{Kind: KeyAbort}
	case k >= sdl.K_1 && k <= sdl.K_9:
		return KeyEvent{Kind: KeyDigit, Digit: int(k - sdl.K_0)}
	case k >= sdl.K_KP_1 && k <= sdl.K_KP_9:
		return KeyEvent{Kind: KeyDigit, Digit: int(k-sdl.K_KP_1) + 1}
	}
	return KeyEvent{Kind: KeyOther}
}

// FlushInput drops everything pending and reports whether the subject asked
// to abort while nobody was polling.
func (s *Screen) FlushInput() bool {
	aborted := false
	var ev sdl.Event
	for sdl.PollEvent(&ev) {
		if ev.Type == sdl.EVENT_QUIT {
			aborted = true
		}
		if ev.Type == sdl.EVENT_KEY_DOWN && ev.KeyboardEvent().Key == sdl.K_ESCAPE {
			aborted = true
		}
	}
	return aborted
}

// Splash shows an image centered until a key is pressed; a missing or empty
// path is skipped. Returns false when the subject quits instead.
func (s *Screen) Splash(filePath string) bool {
	if filePath == "" {
		return true
	}
	tex, err := img.LoadTexture(s.Renderer, filePath)
	if err != nil {
		return true
	}
	defer tex.Destroy()

	tw, th, _ := tex.Size()
	dst := sdl.FRect{
		X: (float32(s.Width) - tw) / 2.0,
		Y: (float32(s.Height) - th) / 2.0,
		W: tw,
		H: th,
	}

	s.clear()
	s.Renderer.RenderTexture(tex, nil, &dst)
	s.Renderer.Present()

	for {
		var event sdl.Event
		if err := sdl.WaitEvent(&event); err != nil {
			break
		}
		if event.Type == sdl.EVENT_QUIT {
			return false
		}
		if event.Type == sdl.EVENT_KEY_DOWN {
			if event.KeyboardEvent().Key == sdl.K_ESCAPE {
				return false
			}
			break
		}
	}
	return true
}

// GetDefaultFontPath looks for a usable TTF font, preferring a local fonts
// directory over the platform defaults.
func GetDefaultFontPath() string {
	entries, err := os.ReadDir("fonts")
	if err == nil {
		for _, entry := range entries {
			if !entry.IsDir() {
				ext := strings.ToLower(filepath.Ext(entry.Name()))
				if ext == ".ttf" || ext == ".ttc" {
					return filepath.Join("fonts", entry.Name())
				}
			}
		}
	}

	var paths []string
	switch runtime.GOOS {
	case "windows":
		paths = []string{"C:\\Windows\\Fonts\\arial.ttf"}
	case "darwin":
		paths = []string{"/System/Library/Fonts/Helvetica.ttc"}
	default:
		paths = []string{
			"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		}
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
