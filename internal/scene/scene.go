package scene

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/FabianRolfMatthiasNoll/sfcppu/internal/ppu"
)

var (
	ErrInvalid     = errors.New("invalid scene")
	ErrUnknownDemo = errors.New("unknown demo scene")
)

// Object table limits, matching OAM.
const (
	MaxSprites     = 128
	MaxSpriteWidth = 64
)

// Write is a register write applied right before the PPU reaches Line.
// Line 0 writes land before the frame starts.
type Write struct {
	Line int
	Addr uint16
	Data uint8
}

// Span is a solid rectangle on one background layer. Bounds are inclusive.
// Columns run 0..511 on mode 5/6 lines, 0..255 otherwise.
type Span struct {
	Top, Bottom int
	Left, Right int
	High        bool  // tile priority bit
	Index       uint8 // color index inside the palette; 0 is transparent
	Palette     uint8
}

// Sprite is a solid object. Bounds are inclusive; Left may be negative.
type Sprite struct {
	Top, Bottom int
	Left, Right int
	Priority    uint8 // 0-3
	Palette     uint8 // 0-7, palettes 4-7 take part in color math
	Index       uint8
}

func (s Sprite) width() int { return s.Right - s.Left + 1 }

// Ground is a Mode 7 floor: a checkerboard seen in perspective below Horizon.
type Ground struct {
	Horizon int
	Depth   float64 // camera height in texels
	Tile    float64 // texels per square
	ScrollX float64
	ScrollY float64
	Colors  [2]uint8 // color indices of the two squares
}

// sample returns the color index under screen position (x, y).
func (g *Ground) sample(x, y float64) uint8 {
	z, ok := g.depth(y)
	if !ok {
		return 0
	}
	return g.at(x, z)
}

// depth returns the floor distance seen at screen row y; false above the horizon.
func (g *Ground) depth(y float64) (float64, bool) {
	dy := y - float64(g.Horizon)
	if dy <= 0 {
		return 0, false
	}
	return g.Depth * 128 / dy, true
}

// at returns the color index at screen column x on the floor row at distance z.
func (g *Ground) at(x, z float64) uint8 {
	u := (x-128)*z/128 + g.ScrollX
	v := z + g.ScrollY
	square := int64(math.Floor(u/g.Tile)) + int64(math.Floor(v/g.Tile))
	return g.Colors[square&1]
}

// Scene is a synthetic picture description: palette, register writes and the
// layer content the renderer draws from.
type Scene struct {
	Name        string
	CGRAM       [256]uint16
	Writes      []Write
	Backgrounds [4][]Span
	Objects     []Sprite
	Ground      *Ground
}

// Validate reports the first structural problem in s.
func (s *Scene) Validate() error {
	if len(s.Objects) > MaxSprites {
		return fmt.Errorf("%w: %d sprites, limit %d", ErrInvalid, len(s.Objects), MaxSprites)
	}
	for i, o := range s.Objects {
		if o.Top > o.Bottom || o.width() < 1 || o.width() > MaxSpriteWidth {
			return fmt.Errorf("%w: sprite %d has bounds %+v", ErrInvalid, i, o)
		}
		if o.Priority > 3 || o.Palette > 7 || o.Index > 15 {
			return fmt.Errorf("%w: sprite %d attributes out of range", ErrInvalid, i)
		}
	}
	for layer, spans := range s.Backgrounds {
		for i, sp := range spans {
			if sp.Top > sp.Bottom || sp.Left > sp.Right {
				return fmt.Errorf("%w: BG%d span %d has bounds %+v", ErrInvalid, layer+1, i, sp)
			}
			if sp.Palette > 7 {
				return fmt.Errorf("%w: BG%d span %d palette %d", ErrInvalid, layer+1, i, sp.Palette)
			}
		}
	}
	if g := s.Ground; g != nil && (g.Depth <= 0 || g.Tile <= 0) {
		return fmt.Errorf("%w: ground needs positive depth and tile size", ErrInvalid)
	}
	if g := s.Ground; g != nil && (g.Colors[0] == 0 || g.Colors[1] == 0) {
		return fmt.Errorf("%w: ground colors must be opaque", ErrInvalid)
	}
	for i, w := range s.Writes {
		if w.Line < 0 || w.Line >= ppu.LinesPerFrame {
			return fmt.Errorf("%w: write %d on line %d", ErrInvalid, i, w.Line)
		}
	}
	return nil
}

// Load decodes a gob-encoded scene and validates it.
func Load(r io.Reader) (*Scene, error) {
	var s Scene
	if err := gob.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save gob-encodes s to w.
func (s *Scene) Save(w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("encode scene %q: %w", s.Name, err)
	}
	return nil
}

// WritesByLine groups the register writes by scanline, keeping their order.
func (s *Scene) WritesByLine() [][]Write {
	out := make([][]Write, ppu.LinesPerFrame)
	for _, w := range s.Writes {
		out[w.Line] = append(out[w.Line], w)
	}
	return out
}
