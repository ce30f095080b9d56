//go:build statsview

package statsview

import (
	"fmt"
	"io"
	"net"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// Launch starts the stats server on addr. The address is checked before
// returning; errors of the running server are reported to output.
func Launch(addr string, output io.Writer) error {
	if addr == "" {
		addr = DefaultAddress
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("stats server: %w", err)
	}
	ln.Close()

	viewer.SetConfiguration(viewer.WithAddr(addr))
	mgr := statsview.New()
	go func() {
		if err := mgr.Start(); err != nil {
			fmt.Fprintf(output, "stats server stopped: %v\n", err)
		}
	}()
	fmt.Fprintf(output, "stats server at http://%s/debug/statsview\n", addr)
	return nil
}

func Available() bool { return true }
