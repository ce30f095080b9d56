//go:build !statsview

package statsview

import "io"

func Launch(addr string, output io.Writer) error { return ErrUnavailable }

func Available() bool { return false }
