package params

import (
	"testing"

	"github.com/richinsley/goshadernoise/inputs"
	"github.com/stretchr/testify/assert"
)

func press(x, y float64, buttons ...inputs.Button) inputs.State {
	s := inputs.State{X: x, Y: y}
	for _, b := range buttons {
		s.Buttons[b] = true
	}
	return s
}

func TestUpdate(t *testing.T) {
	c := NewController(Defaults)
	start := Vector{0.5, 0.5}

	tests := []struct {
		name string
		in   inputs.State
		want Vector
	}{
		{"idle", press(300, 10), start},
		{"primary", press(300, 10, inputs.Primary), Vector{0.7, 0.5}},
		{"secondary", press(300, 10, inputs.Secondary), Vector{0.5, 0.3}},
		{"both", press(300, 10, inputs.Primary, inputs.Secondary), Vector{0.7, 0.3}},
		{"reset wins", press(300, 10, inputs.Primary, inputs.Reset), Defaults},
		{"left of surface", press(-50, 10, inputs.Primary), Vector{1, 0.5}},
		{"right of surface", press(1500, 10, inputs.Secondary), Vector{0.5, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Update(start, tt.in, 1000, 600))
		})
	}
}

func TestPrimaryAtPointThreeGivesPointSeven(t *testing.T) {
	c := NewController(Defaults)
	v := c.Update(Defaults, press(0.3*640, 100, inputs.Primary), 640, 480)
	assert.Equal(t, float32(0.7), v[Threshold])
}

func TestResetIgnoresPriorState(t *testing.T) {
	c := NewController(Defaults)
	for _, prior := range []Vector{{0, 0}, {1, 1}, {0.25, 0.75}} {
		assert.Equal(t, Vector{0.90, 1.0}, c.Update(prior, press(0, 0, inputs.Reset), 640, 480))
	}
}

func TestZeroAreaSurface(t *testing.T) {
	c := NewController(Defaults)
	prior := Vector{0.2, 0.4}
	assert.Equal(t, prior, c.Update(prior, press(10, 10, inputs.Primary), 0, 480))
	assert.Equal(t, Defaults, c.Update(prior, press(10, 10, inputs.Reset), 640, 0))
}

func TestCustomDefaults(t *testing.T) {
	c := NewController(Vector{0.5, 0.25})
	assert.Equal(t, Vector{0.5, 0.25}, c.Update(Vector{}, press(0, 0, inputs.Reset), 1, 1))
}
