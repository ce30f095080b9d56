package scene

import (
	"fmt"
	"maps"
	"slices"
)

// Built-in scenes, one per compositor feature.
var demos = map[string]func() *Scene{
	"solid":     solid,
	"gradient":  gradient,
	"colormath": colorMath,
	"hires":     hires,
	"mode7":     mode7,
	"windows":   windows,
	"sprites":   sprites,
}

// Demo returns a fresh copy of the built-in scene called name.
func Demo(name string) (*Scene, error) {
	build, ok := demos[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDemo, name)
	}
	return build(), nil
}

// Demos lists the built-in scene names in order.
func Demos() []string {
	return slices.Sorted(maps.Keys(demos))
}

func rgb(r, g, b int) uint16 {
	return uint16(r&31) | uint16(g&31)<<5 | uint16(b&31)<<10
}

func (s *Scene) write(line int, addr uint16, data ...uint8) {
	for _, d := range data {
		s.Writes = append(s.Writes, Write{Line: line, Addr: addr, Data: d})
	}
}

// setup turns the display on at full brightness in the given BG mode.
func setup(name string, mode uint8) *Scene {
	s := &Scene{Name: name}
	s.write(0, 0x2100, 0x0f)
	s.write(0, 0x2105, mode)
	return s
}

func solid() *Scene {
	s := setup("solid", 1)
	s.CGRAM[0] = rgb(4, 8, 20)
	return s
}

// gradient rewrites the backdrop color on every line.
func gradient() *Scene {
	s := setup("gradient", 1)
	for y := 1; y < 240; y++ {
		c := rgb(y*31/239, 6, 31-y*31/239)
		s.write(y, 0x2121, 0)
		s.write(y, 0x2122, uint8(c), uint8(c>>8))
	}
	return s
}

// colorMath blends a BG1 square with BG2 stripes on the sub screen and adds a
// fixed color to the backdrop below line 160.
func colorMath() *Scene {
	s := setup("colormath", 1)
	s.CGRAM[0] = rgb(2, 2, 6)
	s.CGRAM[1] = rgb(31, 4, 4)
	s.CGRAM[17] = rgb(4, 24, 4)
	s.CGRAM[18] = rgb(4, 4, 28)
	s.write(0, 0x212c, 0x01) // TM: BG1
	s.write(0, 0x212d, 0x02) // TS: BG2
	s.write(0, 0x2130, 0x02) // blend with the sub screen
	s.write(0, 0x2131, 0x61) // BG1 and backdrop, add, halve
	s.write(0, 0x2132, 0xe0) // fixed color black
	s.Backgrounds[0] = []Span{{Top: 40, Bottom: 200, Left: 32, Right: 223, Index: 1}}
	for y := 1; y < 225; y += 16 {
		index := uint8(1 + y/16%2)
		s.Backgrounds[1] = append(s.Backgrounds[1], Span{Top: y, Bottom: y + 7, Left: 0, Right: 255, Palette: 1, Index: index})
	}
	s.write(160, 0x2130, 0x00)
	s.write(160, 0x2132, 0x2c, 0x48, 0x84) // fixed color (12, 8, 4)
	return s
}

// hires draws 4-column stripes on the 512-wide mode 5 grid.
func hires() *Scene {
	s := setup("hires", 5)
	s.CGRAM[0] = rgb(0, 0, 0)
	s.CGRAM[1] = rgb(31, 31, 31)
	s.CGRAM[2] = rgb(31, 16, 0)
	s.write(0, 0x212c, 0x01)
	s.write(0, 0x212d, 0x01)
	for x := 0; x < 512; x += 8 {
		s.Backgrounds[0] = append(s.Backgrounds[0],
			Span{Top: 16, Bottom: 111, Left: x, Right: x + 3, Index: 1},
			Span{Top: 112, Bottom: 207, Left: x + 1, Right: x + 1, Index: 2})
	}
	return s
}

// mode7 is a checkerboard floor under a sky gradient with a few sprites.
func mode7() *Scene {
	s := setup("mode7", 7)
	s.CGRAM[1] = rgb(28, 28, 28)
	s.CGRAM[2] = rgb(6, 14, 6)
	s.CGRAM[128+4*16+1] = rgb(31, 20, 0)
	s.CGRAM[128+1] = rgb(31, 0, 16)
	s.write(0, 0x212c, 0x11) // TM: BG1 + OBJ
	s.Ground = &Ground{Horizon: 64, Depth: 96, Tile: 16, Colors: [2]uint8{1, 2}}
	for y := 1; y < 64; y++ {
		c := rgb(8, 12+y/8, 31)
		s.write(y, 0x2121, 0)
		s.write(y, 0x2122, uint8(c), uint8(c>>8))
	}
	s.Objects = []Sprite{
		{Top: 140, Bottom: 171, Left: 112, Right: 143, Priority: 3, Palette: 4, Index: 1},
		{Top: 90, Bottom: 97, Left: 40, Right: 47, Priority: 2, Index: 1},
		{Top: 90, Bottom: 97, Left: 200, Right: 207, Priority: 2, Index: 1},
	}
	return s
}

// windows moves window one every line to cut a diamond out of BG1 and clips
// the middle band to black with window two.
func windows() *Scene {
	s := setup("windows", 1)
	s.CGRAM[0] = rgb(0, 10, 20)
	s.CGRAM[1] = rgb(30, 26, 8)
	s.write(0, 0x212c, 0x01)
	s.write(0, 0x2123, 0x02) // BG1 window one
	s.write(0, 0x212e, 0x01) // TMW: BG1
	s.write(0, 0x2125, 0x80) // color window two
	s.write(0, 0x2128, 112)
	s.write(0, 0x2129, 143)
	s.write(0, 0x2130, 0x80) // clip inside
	s.Backgrounds[0] = []Span{{Top: 1, Bottom: 224, Left: 0, Right: 255, Index: 1}}
	for y := 1; y < 225; y++ {
		w := 112 - abs(y-112)
		s.write(y, 0x2126, uint8(max(128-w, 0)))
		s.write(y, 0x2127, uint8(min(127+w, 255)))
	}
	return s
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// sprites crowds one band with more sprites than a line can hold and tints the
// high palettes through color math.
func sprites() *Scene {
	s := setup("sprites", 1)
	s.CGRAM[0] = rgb(4, 4, 4)
	for p := 0; p < 8; p++ {
		s.CGRAM[128+p*16+1] = rgb(8+p*3, 31-p*3, 16)
	}
	s.write(0, 0x212c, 0x10)
	s.write(0, 0x2131, 0x10) // OBJ palettes 4-7
	s.write(0, 0x2132, 0x88) // fixed blue 8
	for i := 0; i < 40; i++ {
		top := 100
		if i%2 == 1 {
			top = 96
		}
		s.Objects = append(s.Objects, Sprite{
			Top: top, Bottom: top + 15, Left: i * 6, Right: i*6 + 7,
			Priority: uint8(i % 4), Palette: uint8(i % 8), Index: 1,
		})
	}
	return s
}
