package ppu

// inside reports whether x lies in the selected windows after inversion and logic.
func (w *Window) inside(self *WindowSelect, x int) bool {
	one := x >= int(w.OneLeft) && x <= int(w.OneRight)
	two := x >= int(w.TwoLeft) && x <= int(w.TwoRight)
	switch {
	case self.OneEnable && !self.TwoEnable:
		return one != self.OneInvert
	case self.TwoEnable && !self.OneEnable:
		return two != self.TwoInvert
	}
	one = one != self.OneInvert
	two = two != self.TwoInvert
	switch self.Mask & 3 {
	case 0:
		return one || two
	case 1:
		return one && two
	case 2:
		return one != two
	default:
		return one == two
	}
}

// fill writes set where x is inside the selected windows and clr elsewhere.
func (w *Window) fill(self *WindowSelect, set, clr bool, out *[256]bool) {
	if !self.OneEnable && !self.TwoEnable {
		for x := range out {
			out[x] = clr
		}
		return
	}
	for x := range out {
		if w.inside(self, x) {
			out[x] = set
		} else {
			out[x] = clr
		}
	}
}

// LayerWindow fills out with true where a layer is masked off. A disabled window
// masks nothing.
func (l *Line) LayerWindow(self *WindowLayer, enable bool, out *[256]bool) {
	if !enable {
		*out = [256]bool{}
		return
	}
	l.io.Window.fill(&self.WindowSelect, true, false, out)
}

// colorWindow fills out for one of the color window masks (0=always 1=inside
// 2=outside 3=never).
func (l *Line) colorWindow(self *WindowColor, mask uint8, out *[256]bool) {
	var set, clr bool
	switch mask & 3 {
	case 0:
		for x := range out {
			out[x] = true
		}
		return
	case 1:
		set, clr = true, false
	case 2:
		set, clr = false, true
	case 3:
		*out = [256]bool{}
		return
	}
	l.io.Window.fill(&self.WindowSelect, set, clr, out)
}
