package main

import (
	"flag"
	"fmt"
	"hash/crc32"
	"image/png"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/FabianRolfMatthiasNoll/sfcppu/internal/capture"
	"github.com/FabianRolfMatthiasNoll/sfcppu/internal/emu"
	"github.com/FabianRolfMatthiasNoll/sfcppu/internal/scene"
	"github.com/FabianRolfMatthiasNoll/sfcppu/internal/statsview"
	"github.com/FabianRolfMatthiasNoll/sfcppu/internal/ui"
)

type CLIFlags struct {
	ScenePath string
	Demo      string
	Scale     int  // HD scale for mode 7
	Window    int  // window scale
	SS        bool // supersample instead of HD output
	Blur      bool // average hires pairs
	Mosaic    bool // apply mosaic to HD mode 7
	Persp     bool // per-subrow mode 7 sampling
	Workers   int
	Title     string
	StatsView string // stats server address, empty disables it

	// headless
	Headless bool
	Frames   int
	PNGOut   string
	PNGScale int
	Expect   string // expected framebuffer CRC32 hex (e.g., "1a2b3c4d")
	Capture  string // write the last frame as a reference capture
	Compare  string // compare the last frame against a reference capture
}

func parseFlags() CLIFlags {
	var f CLIFlags
	flag.StringVar(&f.ScenePath, "scene", "", "path to a scene file")
	flag.StringVar(&f.Demo, "demo", "", "built-in demo scene ("+strings.Join(scene.Demos(), ", ")+")")
	flag.IntVar(&f.Scale, "scale", 1, "mode 7 HD scale (1-9)")
	flag.IntVar(&f.Window, "window", 3, "window scale")
	flag.BoolVar(&f.SS, "ss", false, "supersample mode 7 down to native resolution")
	flag.BoolVar(&f.Blur, "blur", false, "blend hires pixel pairs")
	flag.BoolVar(&f.Mosaic, "mosaic", false, "apply mosaic in HD mode 7")
	flag.BoolVar(&f.Persp, "perspective", false, "perspective-correct HD mode 7 sampling")
	flag.IntVar(&f.Workers, "workers", 0, "scanline render workers (0 = GOMAXPROCS)")
	flag.StringVar(&f.Title, "title", "sfcview", "window title")
	flag.StringVar(&f.StatsView, "statsview", "", "serve runtime statistics at this address (e.g. "+statsview.DefaultAddress+")")

	// headless options
	flag.BoolVar(&f.Headless, "headless", false, "run without a window")
	flag.IntVar(&f.Frames, "frames", 60, "frames to run in headless mode")
	flag.StringVar(&f.PNGOut, "outpng", "", "write last frame to PNG at path")
	flag.IntVar(&f.PNGScale, "pngscale", 1, "integer upscale for -outpng")
	flag.StringVar(&f.Expect, "expect", "", "assert framebuffer CRC32 (hex)")
	flag.StringVar(&f.Capture, "capture", "", "write last frame as a reference capture")
	flag.StringVar(&f.Compare, "compare", "", "compare last frame against a reference capture")
	flag.Parse()
	return f
}

func runHeadless(m *emu.Machine, f CLIFlags) error {
	frames := f.Frames
	if frames <= 0 {
		frames = 1
	}

	start := time.Now()
	for i := 0; i < frames; i++ {
		m.StepFrame()
	}
	dur := time.Since(start)

	w, h := m.Size()
	crc := crc32.ChecksumIEEE(m.Framebuffer())
	fps := float64(frames) / dur.Seconds()

	log.Printf("headless: frames=%d size=%dx%d elapsed=%s fps=%.2f fb_crc32=%08x",
		frames, w, h, dur.Truncate(time.Millisecond), fps, crc)

	fs := afero.NewOsFs()
	if f.PNGOut != "" {
		if err := saveFramePNG(m.Frame(), f.PNGScale, f.PNGOut); err != nil {
			return fmt.Errorf("write PNG: %w", err)
		}
		log.Printf("wrote %s", f.PNGOut)
	}
	if f.Capture != "" {
		if err := capture.Write(fs, f.Capture, m.Frame()); err != nil {
			return err
		}
		log.Printf("wrote %s", f.Capture)
	}
	if f.Compare != "" {
		ref, err := capture.Read(fs, f.Compare)
		if err != nil {
			return err
		}
		r, err := capture.Diff(ref, m.Frame())
		if err != nil {
			return err
		}
		log.Printf("compare %s: %s", f.Compare, r)
		if !r.Equal() {
			return fmt.Errorf("frame differs from %s", f.Compare)
		}
	}

	if f.Expect != "" {
		// normalize expected hex (allow with/without 0x, upper/lowercase)
		want := strings.TrimPrefix(strings.ToLower(f.Expect), "0x")
		got := fmt.Sprintf("%08x", crc)
		if got != want {
			return fmt.Errorf("checksum mismatch: got %s, want %s", got, want)
		}
	}
	return nil
}

func saveFramePNG(fr capture.Frame, scale int, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return png.Encode(out, capture.Scale(fr.Image(), scale))
}

func loadScene(m *emu.Machine, f CLIFlags) error {
	switch {
	case f.ScenePath != "":
		return m.LoadSceneFromFile(f.ScenePath)
	case f.Demo != "":
		s, err := scene.Demo(f.Demo)
		if err != nil {
			return err
		}
		return m.LoadScene(s)
	}
	return nil
}

func main() {
	f := parseFlags()

	if f.StatsView != "" {
		if err := statsview.Launch(f.StatsView, os.Stderr); err != nil {
			log.Fatal(err)
		}
	}

	m := emu.New(emu.Config{
		Scale:         f.Scale,
		Supersample:   f.SS,
		Mosaic:        f.Mosaic,
		Perspective:   f.Persp,
		BlurEmulation: f.Blur,
		Workers:       f.Workers,
	})
	if err := loadScene(m, f); err != nil {
		log.Fatalf("load scene: %v", err)
	}
	if s := m.Scene(); s != nil {
		log.Printf("scene: %q writes=%d objects=%d", s.Name, len(s.Writes), len(s.Objects))
	}

	if f.Headless {
		if err := runHeadless(m, f); err != nil {
			log.Fatal(err)
		}
		return
	}

	app := ui.NewApp(ui.Config{Title: f.Title, Scale: f.Window}, m)
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
