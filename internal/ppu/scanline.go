package ppu

// Line owns everything needed to render one scanline: the register and palette
// snapshot taken when the line was reached, both compositing planes, the color
// window masks and the sprite working list. Lines never share buffers, so any
// number of them can render at once.
type Line struct {
	ppu *PPU
	y   int

	io    IO
	cgram [256]uint16

	items [128]ObjectItem

	above []Pixel
	below []Pixel

	windowAbove [256]bool
	windowBelow [256]bool

	rangeOver bool
	timeOver  bool
}

// Y returns the scanline number.
func (l *Line) Y() int { return l.y }

// IO returns the register snapshot of this line. Renderers must treat it as read-only.
func (l *Line) IO() *IO { return &l.io }

// CGRAM returns palette entry i from this line's snapshot.
func (l *Line) CGRAM(i uint8) uint16 { return l.cgram[i] }

// Hires reports whether this line is drawn at double horizontal density.
func (l *Line) Hires() bool {
	return l.io.PseudoHires || l.io.BGMode == 5 || l.io.BGMode == 6
}

// HD reports whether plots go through the upscaled block writer this frame.
func (l *Line) HD() bool { return l.ppu.latch.hd }

// SS reports whether Mode 7 is supersampled down to native resolution this frame.
func (l *Line) SS() bool { return l.ppu.latch.ss }

func (l *Line) Scale() int          { return l.ppu.scale }
func (l *Line) HDMosaic() bool      { return l.ppu.opts.Mosaic }
func (l *Line) HDPerspective() bool { return l.ppu.opts.Perspective }

// Items returns the sprite working list, cleared at the start of every render.
func (l *Line) Items() []ObjectItem { return l.items[:] }

func (l *Line) SetRangeOver() { l.rangeOver = true }
func (l *Line) SetTimeOver()  { l.timeOver = true }

func (l *Line) plane(p Plane) []Pixel {
	if p == Above {
		return l.above
	}
	return l.below
}

// PlotAbove offers a pixel to the main screen plane at native column x.
// Only the low 15 bits of color are kept.
func (l *Line) PlotAbove(x int, source Source, priority uint8, color uint16) {
	if l.ppu.latch.hd {
		l.PlotHD(Above, x, source, priority, color, false, false)
		return
	}
	plot(l.above, x, Pixel{source, priority, color & 0x7fff})
}

// PlotBelow offers a pixel to the sub screen plane at native column x.
func (l *Line) PlotBelow(x int, source Source, priority uint8, color uint16) {
	if l.ppu.latch.hd {
		l.PlotHD(Below, x, source, priority, color, false, false)
		return
	}
	plot(l.below, x, Pixel{source, priority, color & 0x7fff})
}

// clearRange is the part of the planes read back this field.
func (l *Line) clearRange() (xa, xb int) {
	p := l.ppu
	full := 256 * p.scale * p.scale
	if !(p.latch.hd || p.latch.ss) {
		return 0, 256
	}
	if p.latch.interlace && p.field {
		return full / 2, full
	}
	if p.latch.interlace {
		return 0, full / 2
	}
	return 0, full
}

func (l *Line) render() {
	p := l.ppu
	out := p.lineOutput(l.y)
	l.rangeOver, l.timeOver = false, false

	if l.io.DisplayDisable {
		clear(out)
		return
	}

	hires := l.Hires()
	aboveColor := l.cgram[0]
	belowColor := l.io.Col.FixedColor
	if hires {
		belowColor = l.cgram[0]
	}
	xa, xb := l.clearRange()
	for x := xa; x < xb; x++ {
		l.above[x] = Pixel{COL, 0, aboveColor}
		l.below[x] = Pixel{COL, 0, belowColor}
	}
	l.items = [128]ObjectItem{}

	for i := range l.io.BG {
		p.renderer.RenderBackground(l, &l.io.BG[i], BG1+Source(i))
	}
	p.renderer.RenderObject(l, &l.io.Obj)
	l.colorWindow(&l.io.Col.Window, l.io.Col.Window.AboveMask, &l.windowAbove)
	l.colorWindow(&l.io.Col.Window, l.io.Col.Window.BelowMask, &l.windowBelow)

	luma := &lightTable[l.io.DisplayBrightness&15]
	switch {
	case p.latch.hd:
		scale := p.scale
		for x := range out {
			out[x] = luma[l.pixel(x/scale&255, l.above[x], l.below[x])]
		}
	case len(out) == 256:
		for x := range out {
			out[x] = luma[l.pixel(x, l.above[x], l.below[x])]
		}
	case !hires:
		for x := 0; x < 256; x++ {
			c := luma[l.pixel(x, l.above[x], l.below[x])]
			out[2*x] = c
			out[2*x+1] = c
		}
	case !p.opts.BlurEmulation:
		for x := 0; x < 256; x++ {
			out[2*x] = luma[l.pixel(x, l.below[x], l.above[x])]
			out[2*x+1] = luma[l.pixel(x, l.above[x], l.below[x])]
		}
	default:
		var prev, curr uint16
		for x := 0; x < 256; x++ {
			curr = luma[l.pixel(x, l.below[x], l.above[x])]
			out[2*x] = average(prev, curr)
			prev = curr
			curr = luma[l.pixel(x, l.above[x], l.below[x])]
			out[2*x+1] = average(prev, curr)
			prev = curr
		}
	}
}

// pixel resolves one native column: window clipping, then color math if enabled.
func (l *Line) pixel(x int, above, below Pixel) uint16 {
	if !l.windowAbove[x] {
		above.Color = 0
	}
	if !l.windowBelow[x] {
		return above.Color
	}
	if !l.io.Col.Enable[above.Source] {
		return above.Color
	}
	if !l.io.Col.BlendMode {
		return l.blend(above.Color, l.io.Col.FixedColor, l.io.Col.Halve && l.windowAbove[x])
	}
	return l.blend(above.Color, below.Color, l.io.Col.Halve && l.windowAbove[x] && below.Source != COL)
}
