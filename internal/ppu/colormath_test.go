package ppu

import (
	"math/rand"
	"testing"
)

func channels(c uint16) [3]int {
	return [3]int{int(c & 31), int(c >> 5 & 31), int(c >> 10 & 31)}
}

func pack(ch [3]int) uint16 {
	return uint16(ch[0]) | uint16(ch[1])<<5 | uint16(ch[2])<<10
}

// perChannel applies f to each 5-bit channel independently.
func perChannel(x, y uint16, f func(a, b int) int) uint16 {
	cx, cy := channels(x), channels(y)
	var out [3]int
	for i := range out {
		out[i] = f(cx[i], cy[i])
	}
	return pack(out)
}

// colorPairs yields a deterministic spread of color pairs including the extremes.
func colorPairs(fn func(x, y uint16)) {
	edges := []uint16{0x0000, 0x7fff, 0x001f, 0x03e0, 0x7c00, 0x0421, 0x4210, 0x3def}
	for _, x := range edges {
		for _, y := range edges {
			fn(x, y)
		}
	}
	r := rand.New(rand.NewSource(1))
	for x := 0; x < 0x8000; x += 7 {
		for i := 0; i < 16; i++ {
			fn(uint16(x), uint16(r.Intn(0x8000)))
		}
	}
}

func TestAddColorSaturatesEachChannel(t *testing.T) {
	colorPairs(func(x, y uint16) {
		got := addColor(x, y, false)
		want := perChannel(x, y, func(a, b int) int { return min(31, a+b) })
		if got != want {
			t.Fatalf("add(%04x,%04x): expected %04x, got %04x", x, y, want, got)
		}
		if got > 0x7fff {
			t.Fatalf("add(%04x,%04x) overflowed 15 bits: %04x", x, y, got)
		}
	})
}

func TestHalvedAddIsCommutativeAndExact(t *testing.T) {
	colorPairs(func(x, y uint16) {
		a, b := addColor(x, y, true), addColor(y, x, true)
		if a != b {
			t.Fatalf("halved add not commutative for %04x,%04x: %04x vs %04x", x, y, a, b)
		}
		want := perChannel(x, y, func(a, b int) int { return (a + b) >> 1 })
		if a != want {
			t.Fatalf("halved add(%04x,%04x): expected %04x, got %04x", x, y, want, a)
		}
	})
}

func TestSubColorClampsAtZero(t *testing.T) {
	colorPairs(func(x, y uint16) {
		got := subColor(x, y, false)
		want := perChannel(x, y, func(a, b int) int { return max(0, a-b) })
		if got != want {
			t.Fatalf("sub(%04x,%04x): expected %04x, got %04x", x, y, want, got)
		}
		cx, cg := channels(x), channels(got)
		for i := range cg {
			if cg[i] > cx[i] {
				t.Fatalf("sub(%04x,%04x) channel %d wrapped: %d > %d", x, y, i, cg[i], cx[i])
			}
		}
	})
}

func TestHalvedSubDropsChannelLowBit(t *testing.T) {
	colorPairs(func(x, y uint16) {
		got := subColor(x, y, true)
		want := perChannel(x, y, func(a, b int) int { return max(0, a-b) >> 1 })
		if got != want {
			t.Fatalf("halved sub(%04x,%04x): expected %04x, got %04x", x, y, want, got)
		}
	})
}

func TestSubColorKnownValues(t *testing.T) {
	cases := []struct {
		x, y, want uint16
		halve      bool
	}{
		{0x0000, 0x7fff, 0x0000, false},
		{0x001f, 0x0001, 0x001e, false},
		{0x0020, 0x0001, 0x0020, false}, // red borrows, green untouched
		{0x7fff, 0x0000, 0x3def, true},
		{0x7fff, 0x7fff, 0x0000, true},
	}
	for _, c := range cases {
		if got := subColor(c.x, c.y, c.halve); got != c.want {
			t.Fatalf("sub(%04x,%04x,halve=%v): expected %04x, got %04x", c.x, c.y, c.halve, c.want, got)
		}
	}
}

func TestBlendFollowsMathMode(t *testing.T) {
	var l Line
	l.io.Col.MathMode = false
	if got := l.blend(0x0010, 0x0011, false); got != 0x001f {
		t.Fatalf("expected saturated add 001f, got %04x", got)
	}
	l.io.Col.MathMode = true
	if got := l.blend(0x0010, 0x0011, false); got != 0x0000 {
		t.Fatalf("expected clamped sub 0000, got %04x", got)
	}
}

func TestAverageMatchesHalvedAdd(t *testing.T) {
	if got := average(0x7fff, 0x0000); got != 0x3def {
		t.Fatalf("expected 3def, got %04x", got)
	}
	if got := average(0x0001, 0x0001); got != 0x0001 {
		t.Fatalf("expected 0001, got %04x", got)
	}
}

func TestDirectColorBitPlacement(t *testing.T) {
	const index, color = 0b101, 0b10110011
	r := (color&7)<<2 | (index&1)<<1
	g := (color>>3&7)<<2 | (index>>1&1)<<1
	b := (color>>6&3)<<3 | (index>>2&1)<<2
	want := uint16(r | g<<5 | b<<10)
	got := DirectColor(index, color)
	if got != want {
		t.Fatalf("expected %04x, got %04x", want, got)
	}
	if got != 0x530e {
		t.Fatalf("expected literal 530e, got %04x", got)
	}
}

func TestDirectColorExtremes(t *testing.T) {
	if got := DirectColor(0, 0); got != 0 {
		t.Fatalf("expected 0, got %04x", got)
	}
	if got := DirectColor(7, 0xff); got != 0x73de {
		t.Fatalf("expected 73de, got %04x", got)
	}
}
