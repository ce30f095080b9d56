// Package statsview optionally serves runtime statistics over HTTP while the
// viewer renders. It is only functional when built with the statsview build
// tag; otherwise Launch returns ErrUnavailable.
//
// With the server running, the graphs are at /debug/statsview and the pprof
// handlers at /debug/pprof/ on the chosen address.
package statsview

import "errors"

// DefaultAddress is used when Launch is given an empty address.
const DefaultAddress = "localhost:12650"

var ErrUnavailable = errors.New("stats server not built in: rebuild with -tags statsview")
