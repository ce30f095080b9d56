package ppu

func bit(data uint8, n uint) bool { return data>>n&1 != 0 }

// ReadIO returns the value of a PPU status port. Only $213E is decoded; other
// ports read as 0xFF.
func (p *PPU) ReadIO(addr uint16) uint8 {
	switch addr {
	case 0x213e: // STAT77
		v := uint8(0x01) // PPU1 version
		if p.io.Obj.RangeOver {
			v |= 0x40
		}
		if p.io.Obj.TimeOver {
			v |= 0x80
		}
		return v
	default:
		return 0xFF
	}
}

// WriteIO decodes a write to one of the compositing-related PPU ports.
// Ports that only affect tile fetch or the CPU side are ignored.
func (p *PPU) WriteIO(addr uint16, data uint8) {
	io := &p.io
	switch addr {
	case 0x2100: // INIDISP
		io.DisplayDisable = bit(data, 7)
		io.DisplayBrightness = data & 0x0f
	case 0x2105: // BGMODE
		io.BGMode = data & 0x07
		io.BGPriority = bit(data, 3)
		for i := range io.BG {
			io.BG[i].TileSize = bit(data, uint(4+i))
		}
		p.updateVideoMode()
	case 0x2106: // MOSAIC
		io.MosaicSize = data>>4 + 1
		for i := range io.BG {
			io.BG[i].MosaicEnable = bit(data, uint(i))
		}
	case 0x2121: // CGADD
		p.cgramAddress = data
		p.cgramLatched = false
	case 0x2122: // CGDATA
		if !p.cgramLatched {
			p.cgramLatch = data
		} else {
			p.cgram[p.cgramAddress] = uint16(data&0x7f)<<8 | uint16(p.cgramLatch)
			p.cgramAddress++
		}
		p.cgramLatched = !p.cgramLatched
	case 0x2123: // W12SEL
		writeWindowSelect(&io.BG[0].Window.WindowSelect, data)
		writeWindowSelect(&io.BG[1].Window.WindowSelect, data>>4)
	case 0x2124: // W34SEL
		writeWindowSelect(&io.BG[2].Window.WindowSelect, data)
		writeWindowSelect(&io.BG[3].Window.WindowSelect, data>>4)
	case 0x2125: // WOBJSEL
		writeWindowSelect(&io.Obj.Window.WindowSelect, data)
		writeWindowSelect(&io.Col.Window.WindowSelect, data>>4)
	case 0x2126:
		io.Window.OneLeft = data
	case 0x2127:
		io.Window.OneRight = data
	case 0x2128:
		io.Window.TwoLeft = data
	case 0x2129:
		io.Window.TwoRight = data
	case 0x212a: // WBGLOG
		for i := range io.BG {
			io.BG[i].Window.Mask = data >> (2 * uint(i)) & 3
		}
	case 0x212b: // WOBJLOG
		io.Obj.Window.Mask = data & 3
		io.Col.Window.Mask = data >> 2 & 3
	case 0x212c: // TM
		for i := range io.BG {
			io.BG[i].AboveEnable = bit(data, uint(i))
		}
		io.Obj.AboveEnable = bit(data, 4)
	case 0x212d: // TS
		for i := range io.BG {
			io.BG[i].BelowEnable = bit(data, uint(i))
		}
		io.Obj.BelowEnable = bit(data, 4)
	case 0x212e: // TMW
		for i := range io.BG {
			io.BG[i].Window.AboveEnable = bit(data, uint(i))
		}
		io.Obj.Window.AboveEnable = bit(data, 4)
	case 0x212f: // TSW
		for i := range io.BG {
			io.BG[i].Window.BelowEnable = bit(data, uint(i))
		}
		io.Obj.Window.BelowEnable = bit(data, 4)
	case 0x2130: // CGWSEL
		io.Col.DirectColor = bit(data, 0)
		io.Col.BlendMode = bit(data, 1)
		io.Col.Window.BelowMask = data >> 4 & 3
		io.Col.Window.AboveMask = data >> 6 & 3
	case 0x2131: // CGADSUB
		for i := range io.BG {
			io.Col.Enable[BG1+Source(i)] = bit(data, uint(i))
		}
		io.Col.Enable[OBJ1] = false
		io.Col.Enable[OBJ2] = bit(data, 4)
		io.Col.Enable[COL] = bit(data, 5)
		io.Col.Halve = bit(data, 6)
		io.Col.MathMode = bit(data, 7)
	case 0x2132: // COLDATA
		c := uint16(data & 0x1f)
		if bit(data, 5) {
			io.Col.FixedColor = io.Col.FixedColor&^0x001f | c
		}
		if bit(data, 6) {
			io.Col.FixedColor = io.Col.FixedColor&^0x03e0 | c<<5
		}
		if bit(data, 7) {
			io.Col.FixedColor = io.Col.FixedColor&^0x7c00 | c<<10
		}
	case 0x2133: // SETINI
		io.Interlace = bit(data, 0)
		io.Obj.Interlace = bit(data, 1)
		io.Overscan = bit(data, 2)
		io.PseudoHires = bit(data, 3)
		io.ExtBG = bit(data, 6)
		p.updateVideoMode()
	}
}

func writeWindowSelect(w *WindowSelect, data uint8) {
	w.OneInvert = bit(data, 0)
	w.OneEnable = bit(data, 1)
	w.TwoInvert = bit(data, 2)
	w.TwoEnable = bit(data, 3)
}

// updateVideoMode assigns tile modes and the layer priority tables for the BG mode.
func (p *PPU) updateVideoMode() {
	io := &p.io
	bg := &io.BG
	set := func(modes [4]TileMode, bg1, bg2, bg3, bg4 [2]uint8, obj [4]uint8) {
		for i := range bg {
			bg[i].TileMode = modes[i]
		}
		bg[0].Priority, bg[1].Priority, bg[2].Priority, bg[3].Priority = bg1, bg2, bg3, bg4
		io.Obj.Priority = obj
	}
	none := [2]uint8{}
	switch io.BGMode {
	case 0:
		set([4]TileMode{BPP2, BPP2, BPP2, BPP2}, [2]uint8{8, 11}, [2]uint8{7, 10}, [2]uint8{2, 5}, [2]uint8{1, 4}, [4]uint8{3, 6, 9, 12})
	case 1:
		modes := [4]TileMode{BPP4, BPP4, BPP2, Inactive}
		if io.BGPriority {
			set(modes, [2]uint8{5, 8}, [2]uint8{4, 7}, [2]uint8{1, 10}, none, [4]uint8{2, 3, 6, 9})
		} else {
			set(modes, [2]uint8{6, 9}, [2]uint8{5, 8}, [2]uint8{1, 3}, none, [4]uint8{2, 4, 7, 10})
		}
	case 2:
		set([4]TileMode{BPP4, BPP4, Inactive, Inactive}, [2]uint8{3, 7}, [2]uint8{1, 5}, none, none, [4]uint8{2, 4, 6, 8})
	case 3:
		set([4]TileMode{BPP8, BPP4, Inactive, Inactive}, [2]uint8{3, 7}, [2]uint8{1, 5}, none, none, [4]uint8{2, 4, 6, 8})
	case 4:
		set([4]TileMode{BPP8, BPP2, Inactive, Inactive}, [2]uint8{3, 7}, [2]uint8{1, 5}, none, none, [4]uint8{2, 4, 6, 8})
	case 5:
		set([4]TileMode{BPP4, BPP2, Inactive, Inactive}, [2]uint8{3, 7}, [2]uint8{1, 5}, none, none, [4]uint8{2, 4, 6, 8})
	case 6:
		set([4]TileMode{BPP4, Inactive, Inactive, Inactive}, [2]uint8{2, 5}, none, none, none, [4]uint8{1, 3, 4, 6})
	case 7:
		if !io.ExtBG {
			set([4]TileMode{Mode7, Inactive, Inactive, Inactive}, [2]uint8{2, 2}, none, none, none, [4]uint8{1, 3, 4, 5})
		} else {
			set([4]TileMode{Mode7, Mode7, Inactive, Inactive}, [2]uint8{3, 3}, [2]uint8{1, 5}, none, none, [4]uint8{2, 4, 6, 7})
		}
	}
}
