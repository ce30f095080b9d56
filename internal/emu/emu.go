package emu

import (
	"fmt"
	"os"

	"github.com/FabianRolfMatthiasNoll/sfcppu/internal/capture"
	"github.com/FabianRolfMatthiasNoll/sfcppu/internal/ppu"
	"github.com/FabianRolfMatthiasNoll/sfcppu/internal/scene"
)

// Machine drives the PPU frame by frame from a scene: it replays the scene's
// register writes at their scanlines and converts each finished frame to RGBA.
type Machine struct {
	cfg      Config
	ppu      *ppu.PPU
	renderer *scene.Renderer
	scene    *scene.Scene
	writes   [][]scene.Write // indexed by scanline

	frame  capture.Frame
	fb     []byte // RGBA, frame.Width*frame.Height*4
	frames uint64

	onScanline func(v int)
}

func New(cfg Config) *Machine {
	cfg.Defaults()
	m := &Machine{
		cfg:      cfg,
		renderer: scene.NewRenderer(nil),
		writes:   make([][]scene.Write, ppu.LinesPerFrame),
	}
	opts := cfg.options()
	opts.Renderer = m.renderer
	m.ppu = ppu.New(opts)
	m.frame = capture.Frame{Width: 256, Height: 240, Pixels: make([]uint16, 256*240)}
	m.fb = make([]byte, 256*240*4)
	return m
}

// LoadScene resets the PPU and starts drawing s from the next frame.
func (m *Machine) LoadScene(s *scene.Scene) error {
	if err := s.Validate(); err != nil {
		return err
	}
	m.scene = s
	m.writes = s.WritesByLine()
	m.renderer.Use(s)
	m.Reset()
	return nil
}

func (m *Machine) LoadSceneFromFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	s, err := scene.Load(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return m.LoadScene(s)
}

// Reset returns the PPU to power-on state and reloads the scene palette.
func (m *Machine) Reset() {
	m.ppu.Reset()
	if m.scene == nil {
		return
	}
	for i, c := range m.scene.CGRAM {
		m.ppu.WriteCGRAM(uint8(i), c)
	}
}

// OnScanline registers fn to run before every scanline, after the scene's
// writes for that line. Pass nil to remove it.
func (m *Machine) OnScanline(fn func(v int)) { m.onScanline = fn }

// StepFrame runs one full frame of scanlines and converts the result.
func (m *Machine) StepFrame() {
	for v := 0; v < ppu.LinesPerFrame; v++ {
		for _, w := range m.writes[v] {
			m.ppu.WriteIO(w.Addr, w.Data)
		}
		if m.onScanline != nil {
			m.onScanline(v)
		}
		m.ppu.Scanline(v)
	}
	m.frame = capture.FromPPU(m.ppu.Output(), m.ppu.Refresh())
	if n := len(m.frame.Pixels) * 4; len(m.fb) != n {
		m.fb = make([]byte, n)
	}
	m.frame.FillRGBA(m.fb)
	m.frames++
}

func (m *Machine) Framebuffer() []byte { return m.fb }

// Size returns the dimensions of the last frame.
func (m *Machine) Size() (w, h int) { return m.frame.Width, m.frame.Height }

// Frame returns the last frame in 15-bit color.
func (m *Machine) Frame() capture.Frame { return m.frame }

func (m *Machine) FrameCount() uint64  { return m.frames }
func (m *Machine) PPU() *ppu.PPU       { return m.ppu }
func (m *Machine) Scene() *scene.Scene { return m.scene }
func (m *Machine) Config() Config      { return m.cfg }
