package emu

import "github.com/FabianRolfMatthiasNoll/sfcppu/internal/ppu"

// Config contains settings that affect rendering.
type Config struct {
	Scale         int  // HD upscale factor for Mode 7 frames; 1 renders everything natively
	Supersample   bool // render Mode 7 at Scale, then average down to native resolution
	Mosaic        bool // keep mosaic in HD Mode 7
	Perspective   bool // per-subline perspective when supersampling
	BlurEmulation bool // blend neighbouring hi-res pixels
	Workers       int  // line render goroutines; 0 uses GOMAXPROCS
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Scale <= 0 {
		c.Scale = 1
	}
	if c.Scale > ppu.MaxScale {
		c.Scale = ppu.MaxScale
	}
	if c.Workers < 0 {
		c.Workers = 0
	}
}

func (c Config) options() ppu.Options {
	return ppu.Options{
		Scale:         c.Scale,
		Supersample:   c.Supersample,
		Mosaic:        c.Mosaic,
		Perspective:   c.Perspective,
		BlurEmulation: c.BlurEmulation,
		Workers:       c.Workers,
	}
}
