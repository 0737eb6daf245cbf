package graphics

import "github.com/richinsley/goshadernoise/inputs"

// Context defines the interface for an OpenGL context and its presentation surface.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	// EndFrame presents the default framebuffer and polls pending events.
	EndFrame()
	GetFramebufferSize() (int, int)
	Time() float64
	// Input returns the pointer and button state sampled at the last poll.
	Input() inputs.State
}
