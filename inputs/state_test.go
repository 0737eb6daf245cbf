package inputs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPressed(t *testing.T) {
	var s State
	s.Buttons[Secondary] = true

	assert.False(t, s.Pressed(Primary))
	assert.True(t, s.Pressed(Secondary))
	assert.False(t, s.Pressed(Reset))
	assert.False(t, s.Pressed(NumButtons))
	assert.False(t, s.Pressed(Button(-1)))
}

func TestButtonString(t *testing.T) {
	assert.Equal(t, "primary", Primary.String())
	assert.Equal(t, "reset", Reset.String())
	assert.Equal(t, "unknown", NumButtons.String())
}
