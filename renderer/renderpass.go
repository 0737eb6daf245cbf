package renderer

import (
	"fmt"

	"github.com/richinsley/goshadernoise/graphics"
	"github.com/richinsley/goshadernoise/shader"
)

// RenderPass is one stage of the pipeline: a fixed-size colour texture, the
// framebuffer that renders into it, and the program that fills it.
type RenderPass struct {
	Name        string
	width       int
	height      int
	texture     uint32
	framebuffer uint32
	program     *shader.Program
	destroyed   bool
}

// NewRenderPass allocates the pass's render target and takes ownership of
// program. The texture is sampled with nearest filtering so the low resolution
// stays blocky when the next pass reads it. On error program is released too.
func NewRenderPass(device graphics.Device, name string, width, height int, program *shader.Program) (*RenderPass, error) {
	if width <= 0 || height <= 0 {
		device.DeleteProgram(program.Handle)
		return nil, fmt.Errorf("invalid pass size %dx%d", width, height)
	}

	texture := device.CreateTexture(width, height, graphics.Nearest)
	framebuffer, err := device.CreateFramebuffer(texture)
	if err != nil {
		device.DeleteTexture(texture)
		device.DeleteProgram(program.Handle)
		return nil, fmt.Errorf("failed to create framebuffer for pass %s: %w", name, err)
	}

	program.Resolve(device)

	return &RenderPass{
		Name:        name,
		width:       width,
		height:      height,
		texture:     texture,
		framebuffer: framebuffer,
		program:     program,
	}, nil
}

// Size returns the pass resolution, fixed for the lifetime of the pass.
func (p *RenderPass) Size() (int, int) { return p.width, p.height }

// Texture returns the colour texture the pass renders into.
func (p *RenderPass) Texture() uint32 { return p.texture }

// Framebuffer returns the framebuffer object of the pass.
func (p *RenderPass) Framebuffer() uint32 { return p.framebuffer }

// Program returns the program that fills the pass.
func (p *RenderPass) Program() *shader.Program { return p.program }

// setProgram swaps in a new program, releasing the old one.
func (p *RenderPass) setProgram(device graphics.Device, program *shader.Program) {
	program.Resolve(device)
	device.DeleteProgram(p.program.Handle)
	p.program = program
}

// Destroy releases the texture, the framebuffer and the program, in that
// order. Calling it again does nothing.
func (p *RenderPass) Destroy(device graphics.Device) {
	if p.destroyed {
		return
	}
	p.destroyed = true
	device.DeleteTexture(p.texture)
	device.DeleteFramebuffer(p.framebuffer)
	device.DeleteProgram(p.program.Handle)
}
