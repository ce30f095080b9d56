package ppu

// funcRenderer adapts plain functions to LayerRenderer.
type funcRenderer struct {
	bg  func(l *Line, bg *Background, source Source)
	obj func(l *Line, obj *Object)
}

func (r funcRenderer) RenderBackground(l *Line, bg *Background, source Source) {
	if r.bg != nil {
		r.bg(l, bg, source)
	}
}

func (r funcRenderer) RenderObject(l *Line, obj *Object) {
	if r.obj != nil {
		r.obj(l, obj)
	}
}

// newTestPPU returns a PPU with the display on at full brightness.
func newTestPPU(opts Options) *PPU {
	p := New(opts)
	p.WriteIO(0x2100, 0x0f)
	return p
}

// runFrame drives every scanline of one frame and refreshes.
func runFrame(p *PPU) Frame {
	return runFrameWith(p, nil)
}

// runFrameWith calls before(v) ahead of each scanline so tests can change
// registers mid-frame.
func runFrameWith(p *PPU, before func(v int)) Frame {
	for v := 0; v < LinesPerFrame; v++ {
		if before != nil {
			before(v)
		}
		p.Scanline(v)
	}
	return p.Refresh()
}

// row returns physical output row y of a non-HD frame.
func row(p *PPU, y int) []uint16 {
	return p.Output()[y*1024 : y*1024+1024]
}
