package scene

import (
	"testing"

	"github.com/FabianRolfMatthiasNoll/sfcppu/internal/ppu"
)

// renderScene runs one frame of s and returns the PPU.
func renderScene(s *Scene, opts ppu.Options) *ppu.PPU {
	opts.Renderer = NewRenderer(s)
	p := ppu.New(opts)
	for i, c := range s.CGRAM {
		p.WriteCGRAM(uint8(i), c)
	}
	writes := s.WritesByLine()
	for v := 0; v < ppu.LinesPerFrame; v++ {
		for _, w := range writes[v] {
			p.WriteIO(w.Addr, w.Data)
		}
		p.Scanline(v)
	}
	p.Refresh()
	return p
}

// lineRow returns the output of scanline v on a native frame without overscan.
func lineRow(p *ppu.PPU, v int) []uint16 {
	y := v + 7
	return p.Output()[y*1024 : y*1024+1024]
}

func expectColumns(t *testing.T, out []uint16, from, to int, want uint16) {
	t.Helper()
	for x := from; x < to; x++ {
		if out[x] != want {
			t.Fatalf("x=%d: expected %04x, got %04x", x, want, out[x])
		}
	}
}

func TestSpanUsesModeZeroPaletteBase(t *testing.T) {
	s := setup("bg3", 0)
	s.CGRAM[0] = rgb(1, 1, 1)
	s.CGRAM[2*32+1*4+2] = rgb(31, 0, 0)
	s.write(0, 0x212c, 0x04)
	s.Backgrounds[2] = []Span{{Top: 10, Bottom: 20, Left: 50, Right: 99, Palette: 1, Index: 2}}
	p := renderScene(s, ppu.Options{})
	out := lineRow(p, 15)
	expectColumns(t, out, 0, 50, rgb(1, 1, 1))
	expectColumns(t, out, 50, 100, rgb(31, 0, 0))
	expectColumns(t, out, 100, 256, rgb(1, 1, 1))
	expectColumns(t, lineRow(p, 21), 50, 100, rgb(1, 1, 1))
}

func TestSpanPriorityAndTransparency(t *testing.T) {
	s := setup("priority", 1)
	s.CGRAM[1] = rgb(31, 0, 0)
	s.CGRAM[17] = rgb(0, 31, 0)
	s.write(0, 0x212c, 0x03)
	s.Backgrounds[0] = []Span{
		{Top: 1, Bottom: 224, Left: 0, Right: 255, Index: 1},
		{Top: 1, Bottom: 224, Left: 0, Right: 255, High: true, Index: 0},
	}
	s.Backgrounds[1] = []Span{{Top: 1, Bottom: 224, Left: 100, Right: 199, High: true, Palette: 1, Index: 1}}
	out := lineRow(renderScene(s, ppu.Options{}), 50)
	expectColumns(t, out, 0, 100, rgb(31, 0, 0))
	expectColumns(t, out, 100, 200, rgb(0, 31, 0))
}

func TestDirectColorSpan(t *testing.T) {
	s := setup("direct", 3)
	s.write(0, 0x212c, 0x01)
	s.write(0, 0x2130, 0x01)
	s.Backgrounds[0] = []Span{{Top: 1, Bottom: 224, Left: 0, Right: 255, Palette: 5, Index: 0xb3}}
	expectColumns(t, lineRow(renderScene(s, ppu.Options{}), 50), 0, 256, 0x530e)
}

func TestLayerWindowMasksMainScreen(t *testing.T) {
	s, _ := Demo("windows")
	p := renderScene(s, ppu.Options{})
	// line 112 opens window one over 16..239; window two clips 112..143 to black
	out := lineRow(p, 112)
	expectColumns(t, out, 0, 16, s.CGRAM[1])
	expectColumns(t, out, 16, 112, s.CGRAM[0])
	expectColumns(t, out, 112, 144, 0)
	expectColumns(t, out, 144, 240, s.CGRAM[0])
	expectColumns(t, out, 240, 256, s.CGRAM[1])
}

func TestHiresColumnsAlternatePlanes(t *testing.T) {
	s := setup("hires", 5)
	s.CGRAM[0] = rgb(0, 0, 8)
	s.CGRAM[1] = rgb(31, 31, 31)
	s.write(0, 0x212c, 0x01)
	s.write(0, 0x212d, 0x01)
	s.Backgrounds[0] = []Span{{Top: 1, Bottom: 224, Left: 1, Right: 2, Index: 1}}
	p := renderScene(s, ppu.Options{})
	if f := p.Frame(); f.Width != 512 {
		t.Fatalf("expected hires frame, got %+v", f)
	}
	out := lineRow(p, 50)
	want := []uint16{rgb(0, 0, 8), rgb(31, 31, 31), rgb(31, 31, 31), rgb(0, 0, 8)}
	for x, c := range want {
		if out[x] != c {
			t.Fatalf("x=%d: expected %04x, got %04x", x, c, out[x])
		}
	}
}

func TestHiresInHDSplitsBlocks(t *testing.T) {
	s := setup("hd hires", 7)
	s.CGRAM[1] = rgb(31, 31, 31)
	s.write(0, 0x212c, 0x01)
	s.write(0, 0x212d, 0x01)
	s.write(100, 0x2105, 5)
	s.Backgrounds[0] = []Span{{Top: 100, Bottom: 100, Left: 1, Right: 1, Index: 1}}
	p := renderScene(s, ppu.Options{Scale: 2})
	if !p.HD() {
		t.Fatalf("expected HD frame")
	}
	// line 100 row 107, block of column 0 spans cells 0..1 on two rows
	base := 107 * 256 * 4
	for _, dy := range []int{0, 512} {
		out := p.Output()[base+dy:]
		if out[0] != 0 || out[1] != rgb(31, 31, 31) {
			t.Fatalf("row +%d: expected right half only, got %04x %04x", dy, out[0], out[1])
		}
	}
}

func TestSpriteOrderAndLimits(t *testing.T) {
	s := setup("sprites", 1)
	s.CGRAM[128+1] = rgb(31, 0, 0)
	s.CGRAM[128+16+1] = rgb(0, 31, 0)
	s.write(0, 0x212c, 0x10)
	s.Objects = []Sprite{
		{Top: 10, Bottom: 20, Left: 0, Right: 15, Priority: 0, Palette: 0, Index: 1},
		{Top: 10, Bottom: 20, Left: 8, Right: 23, Priority: 3, Palette: 1, Index: 1},
	}
	p := renderScene(s, ppu.Options{})
	out := lineRow(p, 15)
	expectColumns(t, out, 0, 16, rgb(31, 0, 0))
	expectColumns(t, out, 16, 24, rgb(0, 31, 0))
	if got := p.ReadIO(0x213e); got != 0x01 {
		t.Fatalf("expected no overflow, got %02x", got)
	}

	s, _ = Demo("sprites")
	p = renderScene(s, ppu.Options{})
	if got := p.ReadIO(0x213e); got != 0x41 {
		t.Fatalf("expected range over only, got %02x", got)
	}
	// the 33rd sprite starting at x=192 is dropped; 32nd ends at 193
	if out := lineRow(p, 104); out[200] != s.CGRAM[0] {
		t.Fatalf("dropped sprite was drawn: %04x", out[200])
	}

	s = setup("wide", 1)
	s.write(0, 0x212c, 0x10)
	for i := 0; i < 5; i++ {
		s.Objects = append(s.Objects, Sprite{Top: 50, Bottom: 50, Left: i * 50, Right: i*50 + 63, Index: 1})
	}
	if got := renderScene(s, ppu.Options{}).ReadIO(0x213e); got != 0x81 {
		t.Fatalf("expected time over only, got %02x", got)
	}
}

func TestHighObjectPalettesTakeColorMath(t *testing.T) {
	s := setup("objmath", 1)
	s.CGRAM[128+1] = rgb(10, 0, 0)
	s.CGRAM[128+4*16+1] = rgb(10, 0, 0)
	s.write(0, 0x212c, 0x10)
	s.write(0, 0x2131, 0x10)
	s.write(0, 0x2132, 0x25) // fixed red 5
	s.Objects = []Sprite{
		{Top: 1, Bottom: 224, Left: 0, Right: 63, Palette: 0, Index: 1},
		{Top: 1, Bottom: 224, Left: 64, Right: 127, Palette: 4, Index: 1},
	}
	out := lineRow(renderScene(s, ppu.Options{}), 30)
	expectColumns(t, out, 0, 64, rgb(10, 0, 0))
	expectColumns(t, out, 64, 128, rgb(15, 0, 0))
}

func TestGroundRendersBelowHorizon(t *testing.T) {
	s, _ := Demo("mode7")
	s.Objects = nil
	p := renderScene(s, ppu.Options{})
	sky := lineRow(p, 30)
	for x := 0; x < 256; x++ {
		if sky[x] == s.CGRAM[1] || sky[x] == s.CGRAM[2] {
			t.Fatalf("floor drawn above the horizon at x=%d", x)
		}
	}
	colors := map[uint16]bool{}
	for _, c := range lineRow(p, 200)[:256] {
		colors[c] = true
	}
	if len(colors) != 2 || !colors[s.CGRAM[1]] || !colors[s.CGRAM[2]] {
		t.Fatalf("expected exactly the two floor colors, got %v", colors)
	}
}

func TestGroundMosaicRepeatsColumns(t *testing.T) {
	s, _ := Demo("mode7")
	s.Objects = nil
	s.write(0, 0x2106, 0x31)
	out := lineRow(renderScene(s, ppu.Options{}), 150)
	for x := 0; x < 256; x++ {
		if out[x] != out[x-x%4] {
			t.Fatalf("x=%d differs from its mosaic block", x)
		}
	}
}

func TestGroundSupersampleBlendsEdges(t *testing.T) {
	s, _ := Demo("mode7")
	s.Objects = nil
	p := renderScene(s, ppu.Options{Scale: 3, Supersample: true})
	if p.HD() || !p.SS() {
		t.Fatalf("expected supersampled frame")
	}
	blended := false
	for v := 100; v < 225 && !blended; v++ {
		for _, c := range lineRow(p, v)[:256] {
			if c != s.CGRAM[1] && c != s.CGRAM[2] {
				blended = true
				break
			}
		}
	}
	if !blended {
		t.Fatalf("expected averaged colors along square edges")
	}
}

func TestDemosRenderWithoutPanicking(t *testing.T) {
	for _, name := range Demos() {
		for _, opts := range []ppu.Options{{}, {Scale: 2}, {Scale: 2, Supersample: true, Perspective: true}} {
			s, _ := Demo(name)
			renderScene(s, opts)
		}
	}
}

// hdCell returns cell (i, j) of the block for column x on line v of an HD frame.
func hdCell(p *ppu.PPU, v, x, i, j int) uint16 {
	s := p.HDScale()
	return p.Output()[(v+7)*256*s*s+j*256*s+x*s+i]
}

func renderHDGround(opts ppu.Options, mosaic bool) (*Scene, *ppu.PPU) {
	s, _ := Demo("mode7")
	s.Objects = nil
	if mosaic {
		s.write(0, 0x2106, 0x31)
	}
	return s, renderScene(s, opts)
}

func TestGroundHDSamplesEveryCell(t *testing.T) {
	s, p := renderHDGround(ppu.Options{Scale: 3}, false)
	if !p.HD() {
		t.Fatalf("expected HD frame")
	}
	differing := 0
	for v := 64; v < 225; v++ {
		for x := 0; x < 256; x++ {
			origin := hdCell(p, v, x, 0, 0)
			for j := 0; j < 3; j++ {
				for i := 0; i < 3; i++ {
					c := hdCell(p, v, x, i, j)
					if c != s.CGRAM[1] && c != s.CGRAM[2] {
						t.Fatalf("line %d x=%d cell (%d,%d): unexpected color %04x", v, x, i, j, c)
					}
					if c != origin {
						differing++
					}
				}
			}
		}
	}
	if differing == 0 {
		t.Fatalf("expected cells along square edges to differ from their block origin")
	}
	for x := 0; x < 256; x++ {
		if c := hdCell(p, 63, x, 2, 2); c == s.CGRAM[1] || c == s.CGRAM[2] {
			t.Fatalf("floor drawn above the horizon at x=%d", x)
		}
	}
}

func TestGroundHDMosaicKeepsBlocks(t *testing.T) {
	_, p := renderHDGround(ppu.Options{Scale: 2, Mosaic: true}, true)
	for v := 64; v < 225; v++ {
		for x := 0; x < 256; x++ {
			want := hdCell(p, v, x-x%4, 0, 0)
			for j := 0; j < 2; j++ {
				for i := 0; i < 2; i++ {
					if c := hdCell(p, v, x, i, j); c != want {
						t.Fatalf("line %d x=%d cell (%d,%d): expected %04x, got %04x", v, x, i, j, want, c)
					}
				}
			}
		}
	}
}

func TestGroundHDPerspective(t *testing.T) {
	_, flat := renderHDGround(ppu.Options{Scale: 3}, false)
	_, exact := renderHDGround(ppu.Options{Scale: 3, Perspective: true}, false)
	differing := 0
	for v := 64; v < 225; v++ {
		for x := 0; x < 256; x++ {
			for i := 0; i < 3; i++ {
				// the middle sub row sits on the line center in both modes
				if hdCell(flat, v, x, i, 1) != hdCell(exact, v, x, i, 1) {
					t.Fatalf("line %d x=%d: center row differs", v, x)
				}
				if hdCell(flat, v, x, i, 0) != hdCell(exact, v, x, i, 0) {
					differing++
				}
			}
		}
	}
	if differing == 0 {
		t.Fatalf("expected perspective correction to move the outer sub rows")
	}
}
