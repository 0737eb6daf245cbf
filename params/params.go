package params

import (
	"github.com/chewxy/math32"
	"github.com/richinsley/goshadernoise/inputs"
)

// Indices into Vector.
const (
	Threshold = iota
	Smear

	Size
)

// Vector holds the effect controls forwarded to every pass as uniforms.
type Vector [Size]float32

// Defaults are the values restored by the reset button.
var Defaults = Vector{
	Threshold: 0.90,
	Smear:     1.0,
}

// Controller maps pointer and button input onto a Vector.
type Controller struct {
	Defaults Vector
}

// NewController returns a Controller resetting to defaults.
func NewController(defaults Vector) *Controller {
	return &Controller{Defaults: defaults}
}

func clamp01(v float32) float32 {
	return math32.Min(math32.Max(v, 0), 1)
}

// Update returns v adjusted for one input sample. Values jump immediately
// when a button is pressed or released.
func (c *Controller) Update(v Vector, in inputs.State, width, height int) Vector {
	if width > 0 && height > 0 {
		nx := clamp01(float32(in.X / float64(width)))

		if in.Pressed(inputs.Primary) {
			v[Threshold] = 1 - nx
		}
		if in.Pressed(inputs.Secondary) {
			v[Smear] = nx
		}
	}
	if in.Pressed(inputs.Reset) {
		v = c.Defaults
	}
	return v
}
