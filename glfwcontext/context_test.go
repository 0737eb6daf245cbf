package glfwcontext

import (
	"testing"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
)

func TestKeyCallbackRunsOnPress(t *testing.T) {
	c := &Context{keyCallbacks: make(map[glfw.Key]func())}
	var reloads int
	c.RegisterKeyCallback(glfw.KeyR, func() { reloads++ })

	c.glfwKeyCallback(nil, glfw.KeyR, 0, glfw.Release, 0)
	c.glfwKeyCallback(nil, glfw.KeyR, 0, glfw.Repeat, 0)
	assert.Equal(t, 0, reloads)

	c.glfwKeyCallback(nil, glfw.KeyR, 0, glfw.Press, 0)
	assert.Equal(t, 1, reloads)

	c.glfwKeyCallback(nil, glfw.KeyS, 0, glfw.Press, 0)
	assert.Equal(t, 1, reloads, "unregistered keys are ignored")
}

func TestInputWithoutWindow(t *testing.T) {
	var c Context
	s := c.Input()
	assert.Zero(t, s.X)
	assert.False(t, s.Buttons[0])
}
