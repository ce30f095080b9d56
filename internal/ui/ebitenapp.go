package ui

import (
	"fmt"
	"image/png"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/FabianRolfMatthiasNoll/sfcppu/internal/emu"
)

// Logical screen size; frames of any geometry are stretched onto it.
const (
	screenW = 512
	screenH = 480
)

type App struct {
	cfg    Config
	m      *emu.Machine
	tex    *ebiten.Image
	paused bool
	fast   bool

	// overlay/menu
	showMenu  bool
	menuMode  string // "main", "scenes", "keys"
	menuIdx   int
	sceneList []sceneEntry
	sceneSel  int
	sceneOff  int
	keysOff   int
	showInfo  bool

	toastMsg   string
	toastUntil time.Time
}

func NewApp(cfg Config, m *emu.Machine) *App {
	cfg.Defaults()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(256*cfg.Scale, 240*cfg.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return &App{cfg: cfg, m: m, menuMode: "main", showInfo: cfg.ShowInfo}
}

func (a *App) Run() error { return ebiten.RunGame(a) }

func (a *App) Update() error {
	// Pause toggle (P)
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}

	// Fast-forward (Tab): while held, run multiple frames per Ebiten update
	a.fast = ebiten.IsKeyPressed(ebiten.KeyTab)

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.m.Reset()
	}

	// Frame-step when paused (N)
	if a.paused && inpututil.IsKeyJustPressed(ebiten.KeyN) {
		a.m.StepFrame()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		a.showInfo = !a.showInfo
	}

	// Toggle menu (Escape)
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		if a.showMenu && a.menuMode != "main" {
			a.menuMode = "main"
		} else {
			a.showMenu = !a.showMenu
			a.menuMode = "main"
		}
		a.menuIdx = 0
	} else if a.showMenu {
		switch a.menuMode {
		case "scenes":
			a.updateSceneMenu()
		case "keys":
			a.updateKeysMenu()
		default:
			a.updateMainMenu()
		}
	}

	// Screenshot (F12)
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		if name, err := a.saveScreenshot(); err != nil {
			a.toast("Screenshot failed: " + err.Error())
		} else {
			a.toast("Saved " + name)
		}
	}

	if !a.paused {
		if a.fast {
			// Run a few frames to speed up
			for i := 0; i < 5; i++ {
				a.m.StepFrame()
			}
		} else {
			a.m.StepFrame()
		}
	}
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	w, h := a.m.Size()
	if a.tex == nil || a.tex.Bounds().Dx() != w || a.tex.Bounds().Dy() != h {
		if a.tex != nil {
			a.tex.Deallocate()
		}
		a.tex = ebiten.NewImage(w, h)
	}
	a.tex.WritePixels(a.m.Framebuffer())
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(screenW)/float64(w), float64(screenH)/float64(h))
	if w > screenW {
		op.Filter = ebiten.FilterLinear
	}
	screen.DrawImage(a.tex, op)

	if a.showInfo {
		a.drawInfo(screen)
	}
	if a.showMenu {
		a.drawMenu(screen)
	}
	a.drawToast(screen)
}

func (a *App) Layout(outW, outH int) (int, int) { return screenW, screenH }

func (a *App) saveScreenshot() (string, error) {
	ts := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("screenshot_%s.png", ts)
	f, err := os.Create(name)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return name, png.Encode(f, a.m.Frame().Image())
}
