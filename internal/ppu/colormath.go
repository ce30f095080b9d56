package ppu

// Colors are three 5-bit channels packed into 15 bits. The arithmetic below works on all
// three channels at once; 0x0421 is bit 0 of each channel and 0x8420 is the bit just
// above each channel, where inter-channel carries and borrows land.

// addColor returns the channel-wise sum of x and y, each channel saturating at 31.
// With halve set it returns the channel-wise (x+y)/2 instead.
func addColor(x, y uint16, halve bool) uint16 {
	a, b := uint32(x), uint32(y)
	if halve {
		return uint16((a + b - ((a ^ b) & 0x0421)) >> 1)
	}
	sum := a + b
	carry := (sum - ((a ^ b) & 0x0421)) & 0x8420
	return uint16((sum - carry) | (carry - (carry >> 5)))
}

// subColor returns the channel-wise difference x-y, each channel clamping at 0.
// With halve set the result is additionally divided by two.
func subColor(x, y uint16, halve bool) uint16 {
	a, b := uint32(x), uint32(y)
	diff := a - b + 0x8420
	borrow := (diff - ((a ^ b) & 0x8420)) & 0x8420
	result := (diff - borrow) & (borrow - (borrow >> 5))
	if halve {
		return uint16((result & 0x7bde) >> 1)
	}
	return uint16(result)
}

// average is the unsaturated half-sum used to blend adjacent hi-res samples.
func average(prev, curr uint16) uint16 {
	return addColor(prev, curr, true)
}

// blend applies the line's color math mode (add or subtract) to x and y.
func (l *Line) blend(x, y uint16, halve bool) uint16 {
	if !l.io.Col.MathMode {
		return addColor(x, y, halve)
	}
	return subColor(x, y, halve)
}

// DirectColor derives a color from tile data without going through CGRAM.
//
//	paletteIndex = bgr
//	paletteColor = BBGGGRRR
//	result       = 0 BBb00 GGGg0 RRRr0
func DirectColor(paletteIndex, paletteColor uint8) uint16 {
	i, c := uint16(paletteIndex), uint16(paletteColor)
	return (c<<2&0x001c + i<<1&0x0002) +
		(c<<4&0x0380 + i<<5&0x0040) +
		(c<<7&0x6000 + i<<10&0x1000)
}
