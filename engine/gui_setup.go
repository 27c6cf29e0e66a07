package engine

import (
	"fmt"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/Zyko0/go-sdl3/ttf"
)

type resOption struct {
	W, H  int
	Label string
}

var resOptions = []resOption{
	{800, 600, "800x600 (SVGA)"},
	{1024, 768, "1024x768 (XGA)"},
	{1920, 1080, "1920x1080 (FHD)"},
	{2560, 1440, "2560x1440 (QHD)"},
}

// RunGuiSetup shows a small setup screen before the experiment: subject ID
// and output file entry, resolution, fullscreen. Returns false when the
// operator closes the window instead of starting.
func RunGuiSetup(cfg *Config) bool {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		fmt.Printf("SDL_Init Error: %v\n", err)
		return false
	}
	defer sdl.Quit()

	if err := ttf.Init(); err != nil {
		fmt.Printf("TTF_Init Error: %v\n", err)
		return false
	}
	defer ttf.Quit()

	window, renderer, err := sdl.CreateWindowAndRenderer("WM-load Setup", 700, 560, 0)
	if err != nil {
		fmt.Printf("CreateWindowAndRenderer Error: %v\n", err)
		return false
	}
	defer window.Destroy()
	defer renderer.Destroy()

	fontPath := GetDefaultFontPath()
	if fontPath == "" {
		fmt.Println("Error: no default font found for GUI setup")
		return false
	}
	guiFont, err := ttf.OpenFont(fontPath, 18)
	if err != nil {
		fmt.Printf("Failed to load GUI font: %v\n", err)
		return false
	}
	defer guiFont.Close()

	g := &setupGui{renderer: renderer, font: guiFont}

	fields := []struct {
		label  string
		target *string
	}{
		{"Subject ID:", &cfg.SubjectID},
		{"Output file:", &cfg.OutputFile},
	}
	const (
		fieldX, fieldW = 50, 600
		fieldH         = 30
		fieldStep      = 70
		fieldTop       = 50
		resTop         = 220
		resStep        = 40
		fullY          = 400
		startY         = 470
	)
	focus := -1
	selectedRes := 1
	for i, res := range resOptions {
		if cfg.ScreenWidth == res.W && cfg.ScreenHeight == res.H {
			selectedRes = i
		}
	}

	window.StartTextInput()
	defer window.StopTextInput()

	for {
		var e sdl.Event
		for sdl.PollEvent(&e) {
			switch e.Type {
			case sdl.EVENT_QUIT:
				return false

			case sdl.EVENT_MOUSE_BUTTON_DOWN:
				me := e.MouseButtonEvent()
				mx, my := me.X, me.Y

				focus = -1
				for i := range fields {
					top := float32(fieldTop + i*fieldStep)
					if mx >= fieldX && mx <= fieldX+fieldW && my >= top && my <= top+fieldH {
						focus = i
					}
				}
				for i := range resOptions {
					top := float32(resTop + i*resStep)
					if mx >= fieldX && mx <= fieldX+250 && my >= top && my <= top+20 {
						selectedRes = i
					}
				}
				if mx >= fieldX && mx <= fieldX+250 && my >= fullY && my <= fullY+20 {
					cfg.Fullscreen = !cfg.Fullscreen
				}
				if mx >= 300 && mx <= 400 && my >= startY && my <= startY+40 {
					if cfg.SubjectID != "" {
						cfg.ScreenWidth = resOptions[selectedRes].W
						cfg.ScreenHeight = resOptions[selectedRes].H
						cfg.SaveCache()
						return true
					}
				}

			case sdl.EVENT_TEXT_INPUT:
				if focus != -1 {
					*fields[focus].target += e.TextInputEvent().Text
				}

			case sdl.EVENT_KEY_DOWN:
				ke := e.KeyboardEvent()
				if focus != -1 && ke.Key == sdl.K_BACKSPACE {
					t := fields[focus].target
					if len(*t) > 0 {
						*t = (*t)[:len(*t)-1]
					}
				}
			}
		}

		renderer.SetDrawColor(240, 240, 240, 255)
		renderer.Clear()

		for i, f := range fields {
			top := float32(fieldTop + i*fieldStep)
			g.drawText(f.label, fieldX, top-30)
			g.drawBox(fieldX, top, fieldW, fieldH, focus == i)
			g.drawText(*f.target, fieldX+5, top+5)
		}

		g.drawText("Resolution:", fieldX, resTop-30)
		for i, opt := range resOptions {
			top := float32(resTop + i*resStep)
			g.drawCheckbox(fieldX, top, selectedRes == i)
			g.drawText(opt.Label, fieldX+30, top)
		}

		g.drawCheckbox(fieldX, fullY, cfg.Fullscreen)
		g.drawText("Fullscreen mode", fieldX+30, fullY)

		renderer.SetDrawColor(0, 150, 0, 255)
		startBtn := sdl.FRect{X: 300, Y: startY, W: 100, H: 40}
		renderer.RenderFillRect(&startBtn)
		g.drawTextColor("START", 325, startY+10, sdl.Color{R: 255, G: 255, B: 255, A: 255})

		renderer.Present()
		sdl.Delay(10)
	}
}

type setupGui struct {
	renderer *sdl.Renderer
	font     *ttf.Font
}

func (g *setupGui) drawText(text string, x, y float32) {
	g.drawTextColor(text, x, y, sdl.Color{R: 0, G: 0, B: 0, A: 255})
}

func (g *setupGui) drawTextColor(text string, x, y float32, color sdl.Color) {
	if text == "" {
		return
	}
	surf, err := g.font.RenderTextBlended(text, color)
	if err != nil || surf == nil {
		return
	}
	defer surf.Destroy()

	tex, err := g.renderer.CreateTextureFromSurface(surf)
	if err != nil {
		return
	}
	defer tex.Destroy()

	r := sdl.FRect{X: x, Y: y, W: float32(surf.W), H: float32(surf.H)}
	g.renderer.RenderTexture(tex, nil, &r)
}

func (g *setupGui) drawBox(x, y, w, h float32, focused bool) {
	g.renderer.SetDrawColor(255, 255, 255, 255)
	box := sdl.FRect{X: x, Y: y, W: w, H: h}
	g.renderer.RenderFillRect(&box)
	if focused {
		g.renderer.SetDrawColor(0, 120, 255, 255)
	} else {
		g.renderer.SetDrawColor(180, 180, 180, 255)
	}
	g.renderer.RenderRect(&box)
}

func (g *setupGui) drawCheckbox(x, y float32, checked bool) {
	g.renderer.SetDrawColor(255, 255, 255, 255)
	box := sdl.FRect{X: x, Y: y, W: 20, H: 20}
	g.renderer.RenderFillRect(&box)
	g.renderer.SetDrawColor(0, 0, 0, 255)
	g.renderer.RenderRect(&box)
	if checked {
		mark := sdl.FRect{X: x + 4, Y: y + 4, W: 12, H: 12}
		g.renderer.SetDrawColor(0, 150, 0, 255)
		g.renderer.RenderFillRect(&mark)
	}
}
