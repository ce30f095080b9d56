package ppu

// Source identifies the layer that produced a pixel.
type Source uint8

const (
	BG1 Source = iota
	BG2
	BG3
	BG4
	OBJ1 // objects using palettes 0-3; color math never applies
	OBJ2 // objects using palettes 4-7
	COL  // backdrop / fixed color
)

var sourceNames = [...]string{"BG1", "BG2", "BG3", "BG4", "OBJ1", "OBJ2", "COL"}

func (s Source) String() string {
	if int(s) < len(sourceNames) {
		return sourceNames[s]
	}
	return "SOURCE?"
}

// TileMode is the bit depth a background layer is fetched with in the current BG mode.
type TileMode uint8

const (
	BPP2 TileMode = iota
	BPP4
	BPP8
	Mode7
	Inactive
)

// Plane selects one of the two compositing planes of a line.
type Plane uint8

const (
	Above Plane = iota // main screen
	Below              // sub screen
)

// Pixel is one compositing sample. Color is 15-bit BGR (red in bits 0-4).
type Pixel struct {
	Source   Source
	Priority uint8
	Color    uint16
}

// plot stores p at x unless the current occupant has equal or higher priority.
func plot(plane []Pixel, x int, p Pixel) {
	if p.Priority > plane[x].Priority {
		plane[x] = p
	}
}
