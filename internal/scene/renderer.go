package scene

import (
	"github.com/FabianRolfMatthiasNoll/sfcppu/internal/ppu"
)

// Renderer draws a Scene through the PPU's plot operations. It only reads the
// scene, so every line of a batch can use it at once. Swap scenes between
// frames, never during a flush.
type Renderer struct {
	scene *Scene
}

func NewRenderer(s *Scene) *Renderer { return &Renderer{scene: s} }

// Use replaces the scene drawn from the next line on.
func (r *Renderer) Use(s *Scene) { r.scene = s }

func (r *Renderer) Scene() *Scene { return r.scene }

func trueHires(io *ppu.IO) bool { return io.BGMode == 5 || io.BGMode == 6 }

// backgroundColor resolves a color index of a background layer.
func backgroundColor(l *ppu.Line, bg *ppu.Background, source ppu.Source, palette, index uint8) uint16 {
	io := l.IO()
	switch bg.TileMode {
	case ppu.BPP2:
		base := palette * 4
		if io.BGMode == 0 {
			base += uint8(source) * 32
		}
		return l.CGRAM(base + index&3)
	case ppu.BPP4:
		return l.CGRAM(palette*16 + index&15)
	case ppu.BPP8:
		if io.Col.DirectColor {
			return ppu.DirectColor(palette, index)
		}
		return l.CGRAM(index)
	default: // Mode7
		if source == ppu.BG2 {
			return l.CGRAM(index & 0x7f)
		}
		if io.Col.DirectColor {
			return ppu.DirectColor(0, index)
		}
		return l.CGRAM(index)
	}
}

// plotLayer offers one background sample to the planes it is enabled on.
// Column x is in hi-res units when hires is set.
func plotLayer(l *ppu.Line, bg *ppu.Background, source ppu.Source, x int, hires bool,
	windowAbove, windowBelow *[256]bool, priority uint8, color uint16) {
	if !hires {
		if bg.AboveEnable && !windowAbove[x] {
			l.PlotAbove(x, source, priority, color)
		}
		if bg.BelowEnable && !windowBelow[x] {
			l.PlotBelow(x, source, priority, color)
		}
		return
	}
	nx := x >> 1
	if !l.HD() {
		if x&1 != 0 {
			if bg.AboveEnable && !windowAbove[nx] {
				l.PlotAbove(nx, source, priority, color)
			}
		} else if bg.BelowEnable && !windowBelow[nx] {
			l.PlotBelow(nx, source, priority, color)
		}
		return
	}
	if bg.AboveEnable && !windowAbove[nx] {
		l.PlotHD(ppu.Above, nx, source, priority, color, true, x&1 != 0)
	}
	if bg.BelowEnable && !windowBelow[nx] {
		l.PlotHD(ppu.Below, nx, source, priority, color, true, x&1 != 0)
	}
}

func (r *Renderer) RenderBackground(l *ppu.Line, bg *ppu.Background, source ppu.Source) {
	if r.scene == nil || bg.TileMode == ppu.Inactive {
		return
	}
	if !bg.AboveEnable && !bg.BelowEnable {
		return
	}

	var windowAbove, windowBelow [256]bool
	l.LayerWindow(&bg.Window, bg.Window.AboveEnable, &windowAbove)
	l.LayerWindow(&bg.Window, bg.Window.BelowEnable, &windowBelow)

	if bg.TileMode == ppu.Mode7 && source == ppu.BG1 && r.scene.Ground != nil {
		r.renderGround(l, bg, &windowAbove, &windowBelow)
	}

	y := l.Y()
	hires := trueHires(l.IO())
	width := 256
	if hires {
		width = 512
	}
	for _, sp := range r.scene.Backgrounds[source] {
		if y < sp.Top || y > sp.Bottom || sp.Index == 0 {
			continue
		}
		priority := bg.Priority[0]
		if sp.High {
			priority = bg.Priority[1]
		}
		color := backgroundColor(l, bg, source, sp.Palette, sp.Index)
		for x := max(sp.Left, 0); x <= sp.Right && x < width; x++ {
			plotLayer(l, bg, source, x, hires, &windowAbove, &windowBelow, priority, color)
		}
	}
}

// renderGround draws the Mode 7 floor. With supersampling every native pixel
// averages scale*scale samples; perspective correction moves the sample rows
// inside the pixel instead of reusing the line's center. Mosaic lines in HD
// fall back to native blocks.
func (r *Renderer) renderGround(l *ppu.Line, bg *ppu.Background, windowAbove, windowBelow *[256]bool) {
	g := r.scene.Ground
	io := l.IO()
	mosaic := 1
	if bg.MosaicEnable && (!l.HD() || l.HDMosaic()) {
		mosaic = int(io.MosaicSize)
	}
	priority := bg.Priority[0]
	if l.HD() && mosaic == 1 {
		renderGroundHD(l, bg, g, windowAbove, windowBelow, priority)
		return
	}
	y := l.Y()
	sy := y - (y-1)%mosaic

	for x := 0; x < 256; x++ {
		sx := x - x%mosaic
		var color uint16
		if l.SS() {
			c, ok := supersample(l, bg, g, sx, sy)
			if !ok {
				continue
			}
			color = c
		} else {
			index := g.sample(float64(sx)+0.5, float64(sy)+0.5)
			if index == 0 {
				continue
			}
			color = backgroundColor(l, bg, ppu.BG1, 0, index)
		}
		plotLayer(l, bg, ppu.BG1, x, false, windowAbove, windowBelow, priority, color)
	}
}

// renderGroundHD samples the floor once per cell of every block. Without
// perspective correction the floor distance of the sub rows is interpolated
// linearly between this line and the next; with it every sub row is exact.
// The floor starts on a line boundary, so whole blocks are covered or skipped.
func renderGroundHD(l *ppu.Line, bg *ppu.Background, g *Ground, windowAbove, windowBelow *[256]bool, priority uint8) {
	n := l.Scale()
	y := float64(l.Y())
	z0, ok := g.depth(y + 0.5)
	if !ok {
		return
	}
	z1, _ := g.depth(y + 1.5)
	from, to := l.HDRows()
	var depth [ppu.MaxScale]float64
	for j := from; j < to; j++ {
		fy := y + (float64(j)+0.5)/float64(n)
		if l.HDPerspective() {
			depth[j], _ = g.depth(fy)
		} else {
			depth[j] = z0 + (z1-z0)*(fy-y-0.5)
		}
	}

	for x := 0; x < 256; x++ {
		above := bg.AboveEnable && !windowAbove[x]
		below := bg.BelowEnable && !windowBelow[x]
		if !above && !below {
			continue
		}
		for j := from; j < to; j++ {
			for i := 0; i < n; i++ {
				index := g.at(float64(x)+(float64(i)+0.5)/float64(n), depth[j])
				if index == 0 {
					continue
				}
				color := backgroundColor(l, bg, ppu.BG1, 0, index)
				if above {
					l.PlotHDCell(ppu.Above, x*n+i, j, ppu.BG1, priority, color)
				}
				if below {
					l.PlotHDCell(ppu.Below, x*n+i, j, ppu.BG1, priority, color)
				}
			}
		}
	}
}

// supersample averages the opaque samples of one pixel. The pixel stays
// transparent when less than half of the samples hit the floor.
func supersample(l *ppu.Line, bg *ppu.Background, g *Ground, x, y int) (uint16, bool) {
	n := l.Scale()
	var red, green, blue, hits int
	for j := 0; j < n; j++ {
		fy := float64(y) + 0.5
		if l.HDPerspective() {
			fy = float64(y) + (float64(j)+0.5)/float64(n)
		}
		for i := 0; i < n; i++ {
			fx := float64(x) + (float64(i)+0.5)/float64(n)
			index := g.sample(fx, fy)
			if index == 0 {
				continue
			}
			c := backgroundColor(l, bg, ppu.BG1, 0, index)
			red += int(c & 31)
			green += int(c >> 5 & 31)
			blue += int(c >> 10 & 31)
			hits++
		}
	}
	if hits*2 < n*n {
		return 0, false
	}
	return uint16(red/hits) | uint16(green/hits)<<5 | uint16(blue/hits)<<10, true
}

// RenderObject draws the sprites crossing the line. Sprites are taken in table
// order: at most ppu.ItemLimit per line and ppu.TileLimit 8-pixel tiles, the
// rest is dropped and flagged. Within a column the lowest index wins, whatever
// the priorities.
func (r *Renderer) RenderObject(l *ppu.Line, obj *ppu.Object) {
	if r.scene == nil || !obj.AboveEnable && !obj.BelowEnable {
		return
	}
	y := l.Y()
	items := l.Items()
	count, tiles := 0, 0
	for i, s := range r.scene.Objects {
		if y < s.Top || y > s.Bottom {
			continue
		}
		if count == ppu.ItemLimit {
			l.SetRangeOver()
			break
		}
		tiles += (s.width() + 7) / 8
		if tiles > ppu.TileLimit {
			l.SetTimeOver()
			break
		}
		items[count] = ppu.ObjectItem{Valid: true, Index: uint8(i), Width: uint8(s.width())}
		count++
	}
	if count == 0 {
		return
	}

	var windowAbove, windowBelow [256]bool
	l.LayerWindow(&obj.Window, obj.Window.AboveEnable, &windowAbove)
	l.LayerWindow(&obj.Window, obj.Window.BelowEnable, &windowBelow)

	var claimed [256]bool
	for _, item := range items[:count] {
		s := r.scene.Objects[item.Index]
		if s.Index == 0 {
			continue
		}
		source := ppu.OBJ1
		if s.Palette >= 4 {
			source = ppu.OBJ2
		}
		color := l.CGRAM(128 + s.Palette*16 + s.Index)
		priority := obj.Priority[s.Priority&3]
		for x := max(s.Left, 0); x <= s.Right && x < 256; x++ {
			if claimed[x] {
				continue
			}
			claimed[x] = true
			if obj.AboveEnable && !windowAbove[x] {
				l.PlotAbove(x, source, priority, color)
			}
			if obj.BelowEnable && !windowBelow[x] {
				l.PlotBelow(x, source, priority, color)
			}
		}
	}
}
