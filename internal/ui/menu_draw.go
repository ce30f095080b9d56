package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// DebugPrint glyphs are 6 pixels wide.
const glyphW = 6

func (a *App) drawMenu(screen *ebiten.Image) {
	switch a.menuMode {
	case "scenes":
		a.drawSceneMenu(screen)
	case "keys":
		a.drawKeysMenu(screen)
	default:
		a.drawMainMenu(screen)
	}
}

func (a *App) drawMainMenu(screen *ebiten.Image) {
	lines := []string{
		"Menu:",
		"  Scenes",
		"  Save reference capture",
		"  Keybindings",
		"  Close",
	}
	for i, s := range lines {
		prefix := "  "
		if i == a.menuIdx+1 {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, prefix+s, 10, 10+i*14)
	}
	hint := "P: Pause  N: Step  R: Reset  F1: Info  F12: Screenshot  Backspace: Back"
	ebitenutil.DebugPrintAt(screen, a.truncateText(hint, a.maxCharsForText(10)), 10, 10+len(lines)*14)
}

func (a *App) drawSceneMenu(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, "Select scene (Enter to load, Backspace to return)", 10, 10)
	d := a.truncateText("Dir: "+a.cfg.ScenesDir, a.maxCharsForText(10))
	ebitenutil.DebugPrintAt(screen, d, 10, 24)
	baseY := 40
	maxRows := (screenH - baseY) / 14
	if maxRows < 1 {
		maxRows = 1
	}
	end := min(a.sceneOff+maxRows, len(a.sceneList))
	maxChars := a.maxCharsForText(10) - 2 // account for "> " prefix
	if maxChars < 1 {
		maxChars = 1
	}
	for i, e := range a.sceneList[a.sceneOff:end] {
		name := e.label()
		prefix := "  "
		if a.sceneOff+i == a.sceneSel {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, prefix+a.truncateText(name, maxChars), 10, baseY+i*14)
	}
	// scroll indicators
	if a.sceneOff > 0 {
		ebitenutil.DebugPrintAt(screen, "^", 2, baseY)
	}
	if end < len(a.sceneList) {
		ebitenutil.DebugPrintAt(screen, "v", 2, baseY+(maxRows-1)*14)
	}
}

func (e sceneEntry) label() string {
	if e.path != "" {
		return filepath.Base(e.path)
	}
	return "demo: " + e.demo
}

func (a *App) drawKeysMenu(screen *ebiten.Image) {
	title := "Keybindings (Up/Down to scroll, Backspace to return)"
	cursorY := 10
	for _, w := range a.wrapText(title, a.maxCharsForText(10)) {
		ebitenutil.DebugPrintAt(screen, w, 10, cursorY)
		cursorY += 14
	}
	rows := keyBindings
	baseY := cursorY + 4
	maxRows := (screenH - baseY) / 14
	if maxRows < 1 {
		maxRows = 1
	}
	a.keysOff = max(0, min(a.keysOff, len(rows)-1))
	end := min(a.keysOff+maxRows, len(rows))
	maxChars := a.maxCharsForText(10)
	for i := a.keysOff; i < end; i++ {
		ebitenutil.DebugPrintAt(screen, a.truncateText(rows[i], maxChars), 10, baseY+(i-a.keysOff)*14)
	}
	if a.keysOff > 0 {
		ebitenutil.DebugPrintAt(screen, "^", 2, baseY)
	}
	if end < len(rows) {
		ebitenutil.DebugPrintAt(screen, "v", 2, baseY+(maxRows-1)*14)
	}
}

var keyBindings = []string{
	"P: Pause",
	"N: Step (when paused)",
	"Tab: Fast-forward",
	"R: Reset",
	"F1: Frame info",
	"F12: Screenshot",
	"Esc: Open/Close Menu",
}

func (a *App) drawInfo(screen *ebiten.Image) {
	p := a.m.PPU()
	w, h := a.m.Size()
	name := "(none)"
	if s := a.m.Scene(); s != nil {
		name = s.Name
	}
	var flags []string
	for _, f := range []struct {
		on   bool
		name string
	}{
		{p.Hires(), "hires"},
		{p.Interlace(), "interlace"},
		{p.Overscan(), "overscan"},
		{p.HD(), fmt.Sprintf("hd x%d", p.HDScale())},
		{p.SS(), fmt.Sprintf("ss x%d", p.HDScale())},
	} {
		if f.on {
			flags = append(flags, f.name)
		}
	}
	lines := []string{
		"Scene: " + name,
		fmt.Sprintf("Frame %d  %dx%d  %.1f tps", a.m.FrameCount(), w, h, ebiten.ActualTPS()),
		"Mode: " + strings.Join(flags, " "),
	}
	y := screenH - 10 - len(lines)*14
	for _, l := range lines {
		ebitenutil.DebugPrintAt(screen, a.truncateText(l, a.maxCharsForText(10)), 10, y)
		y += 14
	}
}

func (a *App) toast(msg string) {
	a.toastMsg = msg
	a.toastUntil = time.Now().Add(2 * time.Second)
}

func (a *App) drawToast(screen *ebiten.Image) {
	if a.toastMsg == "" || time.Now().After(a.toastUntil) {
		return
	}
	ebitenutil.DebugPrintAt(screen, a.truncateText(a.toastMsg, a.maxCharsForText(10)), 10, screenH-24)
}

// maxCharsForText returns how many glyphs fit between x and the right edge.
func (a *App) maxCharsForText(x int) int {
	return max(1, (screenW-x-4)/glyphW)
}

func (a *App) truncateText(s string, maxChars int) string {
	if len(s) <= maxChars {
		return s
	}
	if maxChars <= 3 {
		return s[:maxChars]
	}
	return s[:maxChars-3] + "..."
}

// wrapText breaks s on spaces into lines of at most maxChars.
func (a *App) wrapText(s string, maxChars int) []string {
	var lines []string
	cur := ""
	for _, w := range strings.Fields(s) {
		switch {
		case cur == "":
			cur = w
		case len(cur)+1+len(w) <= maxChars:
			cur += " " + w
		default:
			lines = append(lines, cur)
			cur = w
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}
