package ppu

// PlotHD writes one logical pixel as a block into an upscaled plane. The plane is
// scale rows of 256*scale cells per line.
//
// The block covers scale×scale cells, narrowed to the left or right half when hires
// is set (subpixel picks the right half) and to the top or bottom half under
// interlace (the odd field owns the bottom half). Priority is tested once against
// the block's first cell: a block is always owned by a single write.
func (l *Line) PlotHD(plane Plane, x int, source Source, priority uint8, color uint16, hires, subpixel bool) {
	p := l.ppu
	pixels := l.plane(plane)
	scale := p.scale
	stride := 256 * scale

	xss, xsm := 0, scale
	if hires {
		if subpixel {
			xss = scale / 2
		} else {
			xsm = scale / 2
		}
	}
	ys, ysm := l.HDRows()

	origin := x*scale + xss + ys*stride
	if priority <= pixels[origin].Priority {
		return
	}
	row := pixels[origin : origin+xsm-xss]
	px := Pixel{source, priority, color & 0x7fff}
	for i := range row {
		row[i] = px
	}
	for y := ys + 1; y < ysm; y++ {
		start := x*scale + xss + y*stride
		copy(pixels[start:start+len(row)], row)
	}
}

// HDRows returns the cell rows [from, to) of a block written on this line: all
// scale rows, or one half under interlace with the odd field owning the bottom.
func (l *Line) HDRows() (from, to int) {
	p := l.ppu
	from, to = 0, p.scale
	if p.latch.interlace {
		if p.field {
			from = p.scale / 2
		} else {
			to = p.scale / 2
		}
	}
	return from, to
}

// PlotHDCell offers a pixel to a single cell of an upscaled plane. hx is the
// column in 256*scale cells and hy the cell row, 0 to scale-1. Priority is tested
// against that cell alone. A renderer using it must still cover whole blocks
// with one priority so that later PlotHD writes see a representative origin.
func (l *Line) PlotHDCell(plane Plane, hx, hy int, source Source, priority uint8, color uint16) {
	plot(l.plane(plane), hy*256*l.ppu.scale+hx, Pixel{source, priority, color & 0x7fff})
}
