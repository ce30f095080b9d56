package ppu

// lightTable maps a 15-bit color through one of the 16 display brightness levels.
// Built once and shared read-only by every line.
var lightTable = newLightTable()

func newLightTable() *[16][32768]uint16 {
	t := new([16][32768]uint16)
	for l := 0; l < 16; l++ {
		luma := float64(l) / 15.0
		for c := 0; c < 32768; c++ {
			r := uint16(luma*float64(c&31) + 0.5)
			g := uint16(luma*float64(c>>5&31) + 0.5)
			b := uint16(luma*float64(c>>10&31) + 0.5)
			t[l][c] = b<<10 | g<<5 | r
		}
	}
	return t
}

// Brightness returns color as displayed at brightness level 0-15.
func Brightness(level uint8, color uint16) uint16 {
	return lightTable[level&15][color&0x7fff]
}
