//go:build !linux

package headless

import (
	"errors"

	"github.com/richinsley/goshadernoise/diag"
	"github.com/richinsley/goshadernoise/graphics"
)

var errUnsupported = errors.New("egl headless rendering is not supported on this platform")

// Headless is unavailable off Linux.
type Headless struct {
	graphics.Context
}

func New(width, height int, sink *diag.Sink) (*Headless, error) {
	return nil, errUnsupported
}
