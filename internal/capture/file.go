package capture

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"

	"github.com/FabianRolfMatthiasNoll/sfcppu/internal/ppu"
)

// File layout: "SFCF", version u16, width u32, height u32 (little endian),
// then the zstd-compressed pixels as little-endian u16.
const (
	magic      = "SFCF"
	version    = 1
	headerSize = 4 + 2 + 4 + 4
	maxSide    = 512 * ppu.MaxScale
)

var zstdEncPool = sync.Pool{
	New: func() any {
		enc, _ := zstd.NewWriter(nil)
		return enc
	},
}

var zstdDecPool = sync.Pool{
	New: func() any {
		dec, _ := zstd.NewReader(nil)
		return dec
	},
}

func compressZstd(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	enc := zstdEncPool.Get().(*zstd.Encoder)
	enc.Reset(&buf)

	if _, err := enc.Write(data); err != nil {
		_ = enc.Close()
		zstdEncPool.Put(enc)
		return nil, err
	}

	if err := enc.Close(); err != nil {
		zstdEncPool.Put(enc)
		return nil, err
	}

	zstdEncPool.Put(enc)
	return buf.Bytes(), nil
}

func decompressZstd(data []byte) ([]byte, error) {
	dec := zstdDecPool.Get().(*zstd.Decoder)
	if err := dec.Reset(bytes.NewReader(data)); err != nil {
		zstdDecPool.Put(dec)
		return nil, err
	}

	var out bytes.Buffer
	if _, err := out.ReadFrom(dec); err != nil {
		zstdDecPool.Put(dec)
		return nil, err
	}

	zstdDecPool.Put(dec)
	return out.Bytes(), nil
}

// MarshalBinary encodes f in the capture file layout.
func (f Frame) MarshalBinary() ([]byte, error) {
	if len(f.Pixels) != f.Width*f.Height {
		return nil, fmt.Errorf("%w: %d pixels for %dx%d", ErrGeometry, len(f.Pixels), f.Width, f.Height)
	}
	raw := make([]byte, 2*len(f.Pixels))
	for i, c := range f.Pixels {
		binary.LittleEndian.PutUint16(raw[2*i:], c)
	}
	comp, err := compressZstd(raw)
	if err != nil {
		return nil, fmt.Errorf("zstd encode: %w", err)
	}

	out := make([]byte, headerSize, headerSize+len(comp))
	copy(out, magic)
	binary.LittleEndian.PutUint16(out[4:], version)
	binary.LittleEndian.PutUint32(out[6:], uint32(f.Width))
	binary.LittleEndian.PutUint32(out[10:], uint32(f.Height))
	return append(out, comp...), nil
}

// UnmarshalBinary decodes the capture file layout into f.
func (f *Frame) UnmarshalBinary(data []byte) error {
	if len(data) < headerSize || string(data[:4]) != magic {
		return fmt.Errorf("%w: missing header", ErrFormat)
	}
	if v := binary.LittleEndian.Uint16(data[4:]); v != version {
		return fmt.Errorf("%w: unsupported version %d", ErrFormat, v)
	}
	w := int(binary.LittleEndian.Uint32(data[6:]))
	h := int(binary.LittleEndian.Uint32(data[10:]))
	if w <= 0 || h <= 0 || w > maxSide || h > maxSide {
		return fmt.Errorf("%w: bad size %dx%d", ErrFormat, w, h)
	}
	raw, err := decompressZstd(data[headerSize:])
	if err != nil {
		return fmt.Errorf("%w: zstd decode: %v", ErrFormat, err)
	}
	if len(raw) != 2*w*h {
		return fmt.Errorf("%w: %d pixel bytes for %dx%d", ErrFormat, len(raw), w, h)
	}
	px := make([]uint16, w*h)
	for i := range px {
		px[i] = binary.LittleEndian.Uint16(raw[2*i:])
	}
	*f = Frame{Width: w, Height: h, Pixels: px}
	return nil
}

// Write stores f at path on fs.
func Write(fs afero.Fs, path string, f Frame) error {
	data, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return fmt.Errorf("write capture: %w", err)
	}
	return nil
}

// Read loads the capture at path from fs.
func Read(fs afero.Fs, path string) (Frame, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Frame{}, fmt.Errorf("read capture: %w", err)
	}
	var f Frame
	if err := f.UnmarshalBinary(data); err != nil {
		return Frame{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}
