package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/spf13/afero"

	"github.com/FabianRolfMatthiasNoll/sfcppu/internal/capture"
	"github.com/FabianRolfMatthiasNoll/sfcppu/internal/scene"
)

// sceneEntry is either a built-in demo or a scene file.
type sceneEntry struct {
	demo string
	path string
}

func (a *App) updateMainMenu() {
	max := 3
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
		a.menuIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < max {
		a.menuIdx++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		switch a.menuIdx {
		case 0:
			a.sceneList = a.findScenes()
			a.sceneSel = 0
			a.sceneOff = 0
			a.menuMode = "scenes"
		case 1:
			if path, err := a.saveCapture(); err == nil {
				a.toast("Saved " + path)
			} else {
				a.toast("Capture failed: " + err.Error())
			}
		case 2:
			a.menuMode = "keys"
			a.keysOff = 0
		case 3:
			a.showMenu = false
		}
	}
	// Back with Backspace
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.showMenu = false
	}
}

// findScenes lists the demos followed by the scene files in the scenes directory.
func (a *App) findScenes() []sceneEntry {
	var list []sceneEntry
	for _, d := range scene.Demos() {
		list = append(list, sceneEntry{demo: d})
	}
	entries, err := os.ReadDir(a.cfg.ScenesDir)
	if err != nil {
		return list
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".scene") {
			files = append(files, filepath.Join(a.cfg.ScenesDir, e.Name()))
		}
	}
	sort.Strings(files)
	for _, f := range files {
		list = append(list, sceneEntry{path: f})
	}
	return list
}

func (a *App) updateSceneMenu() {
	n := len(a.sceneList)
	if n == 0 {
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
			a.menuMode = "main"
		}
		return
	}
	// compute window to maintain selection visibility
	baseY := 40
	maxRows := max(1, (screenH-baseY)/14)
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.sceneSel > 0 {
		a.sceneSel--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.sceneSel < n-1 {
		a.sceneSel++
	}
	if a.sceneSel < a.sceneOff {
		a.sceneOff = a.sceneSel
	}
	if a.sceneSel >= a.sceneOff+maxRows {
		a.sceneOff = a.sceneSel - maxRows + 1
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		e := a.sceneList[a.sceneSel]
		if err := a.loadEntry(e); err == nil {
			a.toast("Loaded " + e.label())
			ebiten.SetWindowTitle(a.cfg.Title + " - [" + a.m.Scene().Name + "]")
			a.showMenu = false
		} else {
			a.toast("Scene load failed: " + err.Error())
		}
		a.menuMode = "main"
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.menuMode = "main"
	}
}

func (a *App) loadEntry(e sceneEntry) error {
	if e.path != "" {
		return a.m.LoadSceneFromFile(e.path)
	}
	s, err := scene.Demo(e.demo)
	if err != nil {
		return err
	}
	return a.m.LoadScene(s)
}

func (a *App) updateKeysMenu() {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.keysOff > 0 {
		a.keysOff--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		a.keysOff++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.menuMode = "main"
	}
}

// saveCapture writes the current frame as a reference capture.
func (a *App) saveCapture() (string, error) {
	fs := afero.NewOsFs()
	if err := fs.MkdirAll(a.cfg.CapturesDir, 0o755); err != nil {
		return "", err
	}
	name := "frame"
	if s := a.m.Scene(); s != nil && s.Name != "" {
		name = s.Name
	}
	ts := time.Now().Format("20060102_150405")
	path := filepath.Join(a.cfg.CapturesDir, fmt.Sprintf("%s_%s.sfcf", name, ts))
	return path, capture.Write(fs, path, a.m.Frame())
}
