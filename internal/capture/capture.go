// Package capture stores finished frames as compact reference files and
// compares them.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/FabianRolfMatthiasNoll/sfcppu/internal/ppu"
)

var (
	ErrGeometry = errors.New("frame geometry mismatch")
	ErrFormat   = errors.New("malformed capture")
)

// Frame is a visible picture in 15-bit BGR, rows packed Width pixels apart.
type Frame struct {
	Width  int
	Height int
	Pixels []uint16
}

// FromPPU copies the visible area described by f out of a PPU output buffer.
func FromPPU(output []uint16, f ppu.Frame) Frame {
	fr := Frame{Width: f.Width, Height: f.Height, Pixels: make([]uint16, f.Width*f.Height)}
	for y := 0; y < f.Height; y++ {
		copy(fr.Pixels[y*f.Width:(y+1)*f.Width], output[y*f.Pitch:y*f.Pitch+f.Width])
	}
	return fr
}

// --- RGB helpers ---

// decodeRGB555 widens each 5-bit channel to 8 bits.
func decodeRGB555(v uint16) (r, g, b uint8) {
	r5 := uint8(v & 0x1F)
	g5 := uint8((v >> 5) & 0x1F)
	b5 := uint8((v >> 10) & 0x1F)
	r = (r5 << 3) | (r5 >> 2)
	g = (g5 << 3) | (g5 >> 2)
	b = (b5 << 3) | (b5 >> 2)
	return
}

// FillRGBA writes f as opaque RGBA bytes into dst, which must hold
// Width*Height*4 bytes.
func (f Frame) FillRGBA(dst []byte) {
	for i, c := range f.Pixels {
		r, g, b := decodeRGB555(c)
		o := i * 4
		dst[o+0] = r
		dst[o+1] = g
		dst[o+2] = b
		dst[o+3] = 0xFF
	}
}

// Image returns f as an RGBA image.
func (f Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	f.FillRGBA(img.Pix)
	return img
}

// Scale enlarges img by an integer factor with nearest-neighbour sampling.
func Scale(img image.Image, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// --- comparison ---

// Report summarizes the differences between two frames.
type Report struct {
	Pixels    int
	Differing int
	First     image.Point // first differing pixel in row order, valid when Differing > 0
	MaxDelta  int         // largest per-channel difference, in 5-bit units
}

func (r Report) Equal() bool { return r.Differing == 0 }

func (r Report) String() string {
	if r.Equal() {
		return fmt.Sprintf("%d pixels identical", r.Pixels)
	}
	return fmt.Sprintf("%d of %d pixels differ (first at %d,%d, max channel delta %d)",
		r.Differing, r.Pixels, r.First.X, r.First.Y, r.MaxDelta)
}

func sameGeometry(a, b Frame) error {
	if a.Width != b.Width || a.Height != b.Height {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrGeometry, a.Width, a.Height, b.Width, b.Height)
	}
	if len(a.Pixels) != a.Width*a.Height || len(b.Pixels) != b.Width*b.Height {
		return fmt.Errorf("%w: pixel count does not match size", ErrGeometry)
	}
	return nil
}

func channelDelta(a, b uint16) int {
	d := 0
	for shift := 0; shift < 15; shift += 5 {
		ca, cb := int(a>>shift&31), int(b>>shift&31)
		d = max(d, abs(ca-cb))
	}
	return d
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Diff compares a and b pixel by pixel.
func Diff(a, b Frame) (Report, error) {
	if err := sameGeometry(a, b); err != nil {
		return Report{}, err
	}
	r := Report{Pixels: len(a.Pixels)}
	for i := range a.Pixels {
		if a.Pixels[i] == b.Pixels[i] {
			continue
		}
		if r.Differing == 0 {
			r.First = image.Pt(i%a.Width, i/a.Width)
		}
		r.Differing++
		r.MaxDelta = max(r.MaxDelta, channelDelta(a.Pixels[i], b.Pixels[i]))
	}
	return r, nil
}

// DiffImage renders a dimmed grey copy of a with every differing pixel in red.
func DiffImage(a, b Frame) (*image.RGBA, error) {
	if err := sameGeometry(a, b); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, a.Width, a.Height))
	for i := range a.Pixels {
		x, y := i%a.Width, i/a.Width
		if a.Pixels[i] != b.Pixels[i] {
			img.SetRGBA(x, y, color.RGBA{R: 0xFF, A: 0xFF})
			continue
		}
		r, g, bl := decodeRGB555(a.Pixels[i])
		grey := uint8((int(r) + int(g) + int(bl)) / 6)
		img.SetRGBA(x, y, color.RGBA{R: grey, G: grey, B: grey, A: 0xFF})
	}
	return img, nil
}
