package ppu

// Performance-focused, scanline-based compositor. Register state is sampled once
// per scanline, so mid-scanline register changes are not reproduced.

// Display geometry.
const (
	Lines            = 240 // line arena size, covers overscan
	LinesPerFrame    = 262
	MaxScale         = 9
	flushLine        = 241
	borderRowsTop    = 8
	borderRowsBottom = 231
)

// LayerRenderer draws background and object layers into a line through its plot
// methods. It is called once per layer per line, possibly from several goroutines
// for different lines.
type LayerRenderer interface {
	RenderBackground(l *Line, bg *Background, source Source)
	RenderObject(l *Line, obj *Object)
}

type nopRenderer struct{}

func (nopRenderer) RenderBackground(*Line, *Background, Source) {}
func (nopRenderer) RenderObject(*Line, *Object)                 {}

// Options are the display settings. They are fixed for the life of a PPU.
type Options struct {
	Scale         int  // HD upscale factor used for Mode 7 frames; 1 disables HD
	Supersample   bool // render Mode 7 at Scale but output at native resolution
	Mosaic        bool // HD mosaic for Mode 7 renderers
	Perspective   bool // HD perspective correction for Mode 7 renderers
	BlurEmulation bool // blend adjacent hi-res samples
	Workers       int  // render goroutines per batch; 0 uses GOMAXPROCS
	Renderer      LayerRenderer
}

// Frame describes the visible part of the output buffer.
type Frame struct {
	Pitch  int // in pixels
	Width  int
	Height int
}

type latch struct {
	interlace bool
	overscan  bool
	hires     bool
	hd        bool
	ss        bool
}

// PPU is the frame driver around the line arena: it snapshots registers per
// scanline, queues lines and owns the shared output buffer.
type PPU struct {
	opts     Options
	scale    int
	renderer LayerRenderer

	io    IO
	cgram [256]uint16

	cgramAddress uint8
	cgramLatch   uint8
	cgramLatched bool

	latch latch
	field bool

	output []uint16
	stride int // output pixels per line
	lines  [Lines]Line
	batch  *Batch
	frame  Frame
}

func New(opts Options) *PPU {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.Scale > MaxScale {
		opts.Scale = MaxScale
	}
	p := &PPU{opts: opts, scale: opts.Scale, renderer: opts.Renderer}
	if p.renderer == nil {
		p.renderer = nopRenderer{}
	}
	p.stride = max(1024, 256*p.scale*p.scale)
	p.output = make([]uint16, Lines*p.stride)
	planeSize := 256 * p.scale * p.scale
	for y := range p.lines {
		l := &p.lines[y]
		l.ppu = p
		l.y = y
		l.above = make([]Pixel, planeSize)
		l.below = make([]Pixel, planeSize)
	}
	p.batch = newBatch(p.lines[:], opts.Workers)
	p.Reset()
	return p
}

// Reset returns registers and palette to power-on state. Buffers are kept.
func (p *PPU) Reset() {
	p.io = IO{DisplayDisable: true, MosaicSize: 1}
	p.cgram = [256]uint16{}
	p.cgramAddress, p.cgramLatch, p.cgramLatched = 0, 0, false
	p.latch = latch{}
	p.field = false
	p.batch.start, p.batch.count = 0, 0
	p.updateVideoMode()
}

// IO exposes the live register block.
func (p *PPU) IO() *IO { return &p.io }

// WriteCGRAM stores a 15-bit color at palette address addr.
func (p *PPU) WriteCGRAM(addr uint8, color uint16) { p.cgram[addr] = color & 0x7fff }

func (p *PPU) CGRAM(addr uint8) uint16 { return p.cgram[addr] }

// Batch returns the scanline run owned by this PPU.
func (p *PPU) Batch() *Batch { return p.batch }

// Line returns the arena entry for scanline y.
func (p *PPU) Line(y int) *Line { return &p.lines[y] }

func (p *PPU) Interlace() bool     { return p.latch.interlace }
func (p *PPU) Overscan() bool      { return p.latch.overscan }
func (p *PPU) Hires() bool         { return p.latch.hires }
func (p *PPU) HD() bool            { return p.latch.hd }
func (p *PPU) SS() bool            { return p.latch.ss }
func (p *PPU) Field() bool         { return p.field }
func (p *PPU) HDScale() int        { return p.scale }
func (p *PPU) HDSupersample() bool { return p.opts.Supersample }
func (p *PPU) HDMosaic() bool      { return p.opts.Mosaic }
func (p *PPU) HDPerspective() bool { return p.opts.Perspective }

// vdisp is the first line past the active display.
func (p *PPU) vdisp() int {
	if p.latch.overscan {
		return 240
	}
	return 225
}

// Scanline is called at the start of every scanline v (0..261).
func (p *PPU) Scanline(v int) {
	if v == 0 {
		p.field = !p.field
		p.latch = latch{interlace: p.io.Interlace, overscan: p.io.Overscan}
		p.io.Obj.RangeOver, p.io.Obj.TimeOver = false, false
	}

	if v == flushLine {
		p.Flush()
	}

	if v > 0 && v < p.vdisp() {
		mode7 := p.io.BGMode == 7 && p.scale > 1
		p.latch.hires = p.latch.hires || p.io.PseudoHires || p.io.BGMode == 5 || p.io.BGMode == 6
		p.latch.hd = p.latch.hd || mode7 && !p.opts.Supersample
		p.latch.ss = p.latch.ss || mode7 && p.opts.Supersample

		l := &p.lines[v]
		l.io = p.io
		l.cgram = p.cgram
		p.batch.Enqueue(v)
	}
}

// Flush renders all queued lines and folds their object status into the registers.
func (p *PPU) Flush() {
	start, count := p.batch.start, p.batch.count
	p.batch.Flush()
	for y := start; y < start+count; y++ {
		l := &p.lines[y]
		p.io.Obj.RangeOver = p.io.Obj.RangeOver || l.rangeOver
		p.io.Obj.TimeOver = p.io.Obj.TimeOver || l.timeOver
	}
}

// rowOutput returns the output span of physical row y (0..239).
func (p *PPU) rowOutput(y int) []uint16 {
	if !p.latch.hd {
		offset := y * 1024
		if p.latch.interlace && p.field {
			offset += 512
		}
		width := 256
		if p.latch.hires {
			width = 512
		}
		return p.output[offset : offset+width : offset+width]
	}
	size := 256 * p.scale * p.scale
	offset := y * size
	return p.output[offset : offset+size : offset+size]
}

// lineOutput returns the output span written by scanline y. Without overscan the
// picture is moved down by 7 rows to center it.
func (p *PPU) lineOutput(y int) []uint16 {
	if !p.latch.overscan {
		y += 7
	}
	return p.rowOutput(y)
}

// Refresh completes the frame and returns its geometry. When the geometry changed
// since the last frame, border rows that are not rendered without overscan are
// cleared so stale pixels from the previous mode do not show.
func (p *PPU) Refresh() Frame {
	var f Frame
	if !p.latch.hd {
		f.Pitch = 1024
		f.Height = 240
		if p.latch.interlace {
			f.Pitch = 512
			f.Height = 480
		}
		f.Width = 256
		if p.latch.hires {
			f.Width = 512
		}
	} else {
		f.Pitch = 256 * p.scale
		f.Width = 256 * p.scale
		f.Height = 240 * p.scale
	}

	if !p.latch.overscan && f != p.frame {
		for y := 0; y < Lines; y++ {
			if y >= borderRowsTop && y <= borderRowsBottom {
				continue
			}
			clear(p.rowOutput(y))
		}
	}
	p.frame = f
	return f
}

// Frame returns the geometry computed by the last Refresh.
func (p *PPU) Frame() Frame { return p.frame }

// Output returns the whole output buffer; rows are Frame().Pitch pixels apart.
func (p *PPU) Output() []uint16 { return p.output }
