package ppu

import (
	"sync/atomic"
	"testing"
)

func TestNewClampsScale(t *testing.T) {
	if s := New(Options{Scale: 20}).HDScale(); s != MaxScale {
		t.Fatalf("expected %d, got %d", MaxScale, s)
	}
	if s := New(Options{}).HDScale(); s != 1 {
		t.Fatalf("expected 1, got %d", s)
	}
}

func TestResetDisablesDisplay(t *testing.T) {
	p := newTestPPU(Options{})
	p.WriteCGRAM(3, 0xffff)
	if p.CGRAM(3) != 0x7fff {
		t.Fatalf("expected 15-bit color, got %04x", p.CGRAM(3))
	}
	p.Reset()
	if !p.IO().DisplayDisable || p.CGRAM(3) != 0 {
		t.Fatalf("reset left state behind: disable=%v cgram=%04x", p.IO().DisplayDisable, p.CGRAM(3))
	}
}

func TestRefreshGeometry(t *testing.T) {
	cases := []struct {
		name   string
		opts   Options
		setini uint8
		mode   uint8
		want   Frame
	}{
		{"native", Options{}, 0x00, 1, Frame{1024, 256, 240}},
		{"interlace", Options{}, 0x01, 1, Frame{512, 256, 480}},
		{"hires", Options{}, 0x08, 1, Frame{1024, 512, 240}},
		{"hires interlace", Options{}, 0x09, 5, Frame{512, 512, 480}},
		{"mode 7 native scale", Options{Scale: 1}, 0x00, 7, Frame{1024, 256, 240}},
		{"hd", Options{Scale: 2}, 0x00, 7, Frame{512, 512, 480}},
		{"hd interlace", Options{Scale: 4}, 0x01, 7, Frame{1024, 1024, 960}},
	}
	for _, c := range cases {
		p := newTestPPU(c.opts)
		p.WriteIO(0x2133, c.setini)
		p.WriteIO(0x2105, c.mode)
		if got := runFrame(p); got != c.want {
			t.Fatalf("%s: expected %+v, got %+v", c.name, c.want, got)
		}
		if p.Frame() != c.want {
			t.Fatalf("%s: Frame() disagrees with Refresh", c.name)
		}
	}
}

func TestInterlaceAlternatesFields(t *testing.T) {
	p := newTestPPU(Options{})
	p.WriteCGRAM(0, 0x7fff)
	p.WriteIO(0x2133, 0x01)

	runFrame(p)
	if !p.Field() {
		t.Fatalf("expected odd field first")
	}
	if row(p, 50)[512] != 0x7fff || row(p, 50)[0] != 0 {
		t.Fatalf("odd field must land in the second half of the row")
	}

	p.WriteCGRAM(0, 0x001f)
	runFrame(p)
	if p.Field() {
		t.Fatalf("expected even field second")
	}
	if row(p, 50)[0] != 0x001f || row(p, 50)[512] != 0x7fff {
		t.Fatalf("even field must land in the first half and keep the odd one")
	}
}

func TestOverscanExtendsActiveDisplay(t *testing.T) {
	p := newTestPPU(Options{})
	p.WriteCGRAM(0, 0x7fff)
	p.WriteIO(0x2133, 0x04)
	runFrame(p)
	if !p.Overscan() {
		t.Fatalf("overscan not latched")
	}
	expectSpan(t, "row 0", row(p, 0)[:256], 0)
	for y := 1; y < Lines; y++ {
		expectSpan(t, "overscan", row(p, y)[:256], 0x7fff)
	}
}

func TestScanlineQueuesActiveLines(t *testing.T) {
	p := newTestPPU(Options{})
	for v := 0; v < 225; v++ {
		p.Scanline(v)
	}
	if b := p.Batch(); b.Len() != 224 || b.Start() != 1 {
		t.Fatalf("expected lines 1..224 queued, got start=%d len=%d", b.Start(), b.Len())
	}
	for v := 225; v < flushLine; v++ {
		p.Scanline(v)
	}
	if p.Batch().Len() != 224 {
		t.Fatalf("lines past the display were queued")
	}
	p.Scanline(flushLine)
	if p.Batch().Len() != 0 {
		t.Fatalf("expected flush at line %d", flushLine)
	}
}

func TestRefreshClearsBordersOnGeometryChange(t *testing.T) {
	p := newTestPPU(Options{})
	p.WriteCGRAM(0, 0x7fff)
	runFrame(p)

	row(p, 0)[0] = 0xffff
	row(p, 235)[0] = 0xffff
	runFrame(p)
	if row(p, 0)[0] != 0xffff || row(p, 235)[0] != 0xffff {
		t.Fatalf("borders cleared without a geometry change")
	}

	p.WriteIO(0x2133, 0x08)
	runFrame(p)
	if row(p, 0)[0] != 0 || row(p, 235)[0] != 0 {
		t.Fatalf("borders not cleared after geometry change")
	}
	expectSpan(t, "first active row", row(p, 8)[:512], 0x7fff)
	expectSpan(t, "last active row", row(p, 231)[:512], 0x7fff)
}

func TestObjectOverflowFoldsIntoStatus(t *testing.T) {
	var overflow atomic.Bool
	r := funcRenderer{obj: func(l *Line, obj *Object) {
		if l.Y() == 50 && overflow.Load() {
			l.SetRangeOver()
			l.SetTimeOver()
		}
	}}
	p := newTestPPU(Options{Renderer: r})
	overflow.Store(true)
	runFrame(p)
	if got := p.ReadIO(0x213e); got != 0xc1 {
		t.Fatalf("expected c1, got %02x", got)
	}
	overflow.Store(false)
	runFrame(p)
	if got := p.ReadIO(0x213e); got != 0x01 {
		t.Fatalf("expected flags reset next frame, got %02x", got)
	}
}
