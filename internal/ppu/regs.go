package ppu

// IO is the register block the compositor reads. A copy is taken per scanline.
type IO struct {
	DisplayDisable    bool
	DisplayBrightness uint8 // 0-15
	BGMode            uint8 // 0-7
	BGPriority        bool  // mode 1: BG3 high priority tiles above everything
	Interlace         bool
	Overscan          bool
	PseudoHires       bool
	ExtBG             bool
	MosaicSize        uint8 // 1-16 pixels

	Window Window
	BG     [4]Background
	Obj    Object
	Col    Color
}

// Window holds the two window ranges; both ends are inclusive.
type Window struct {
	OneLeft  uint8
	OneRight uint8
	TwoLeft  uint8
	TwoRight uint8
}

// WindowSelect is the enable/invert/logic part shared by layer and color windows.
// Mask combines the two windows when both are enabled: 0=OR 1=AND 2=XOR 3=XNOR.
type WindowSelect struct {
	OneEnable bool
	OneInvert bool
	TwoEnable bool
	TwoInvert bool
	Mask      uint8
}

// WindowLayer masks a layer on the main (above) and sub (below) screens.
type WindowLayer struct {
	WindowSelect
	AboveEnable bool
	BelowEnable bool
}

// WindowColor drives the clip-to-black (AboveMask) and prevent-math (BelowMask) regions.
// Masks: 0=always 1=inside 2=outside 3=never.
type WindowColor struct {
	WindowSelect
	AboveMask uint8
	BelowMask uint8
}

type Background struct {
	Window       WindowLayer
	AboveEnable  bool
	BelowEnable  bool
	MosaicEnable bool
	TileSize     bool
	TileMode     TileMode
	Priority     [2]uint8 // indexed by the tile priority bit
}

type Object struct {
	Window      WindowLayer
	AboveEnable bool
	BelowEnable bool
	Interlace   bool
	RangeOver   bool
	TimeOver    bool
	Priority    [4]uint8 // indexed by the OAM priority field
}

// Color is the color math configuration.
type Color struct {
	Window      WindowColor
	Enable      [7]bool // per Source
	DirectColor bool
	BlendMode   bool // false = fixed color, true = sub screen pixel
	Halve       bool
	MathMode    bool // false = add, true = subtract
	FixedColor  uint16
}

// ObjectItem is an entry of a line's sprite working list.
type ObjectItem struct {
	Valid bool
	Index uint8
	Width uint8 // in pixels
}

// Object limits per scanline on hardware.
const (
	ItemLimit = 32
	TileLimit = 34
)
