package ui

// Config contains window and viewer settings.
type Config struct {
	Title       string // window title
	Scale       int    // window size as a multiple of 256x240
	ScenesDir   string // scanned for *.scene files by the scene menu
	CapturesDir string // where the menu stores reference captures
	ShowInfo    bool   // start with the frame info overlay visible
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "sfcview"
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
	if c.ScenesDir == "" {
		c.ScenesDir = "scenes"
	}
	if c.CapturesDir == "" {
		c.CapturesDir = "captures"
	}
}
