package renderer

import (
	"errors"
	"fmt"

	"github.com/richinsley/goshadernoise/diag"
	"github.com/richinsley/goshadernoise/graphics"
	"github.com/richinsley/goshadernoise/params"
	"github.com/richinsley/goshadernoise/shader"
	"github.com/richinsley/goshadernoise/timing"
)

// InputTextureUnit is the texture unit every pass samples its predecessor from.
const InputTextureUnit = 0

var ErrEmptyPipeline = errors.New("pipeline needs at least one pass")

// ConstructionError is returned when the pipeline cannot be assembled. The
// effect has no meaningful output without every pass, so callers treat it as
// fatal.
type ConstructionError struct {
	Index int
	Pass  string
	Err   error
}

func (e *ConstructionError) Error() string {
	if e.Pass == "" {
		return fmt.Sprintf("pipeline construction failed: %v", e.Err)
	}
	return fmt.Sprintf("pipeline construction failed at pass %d (%s): %v", e.Index+1, e.Pass, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

// PassSpec describes one pass to build.
type PassSpec struct {
	Source shader.Source
	Width  int
	Height int
}

// Pipeline is a fixed linear chain of passes followed by a blit to the
// presentation surface. Pass i samples pass i-1; the last pass is presented.
type Pipeline struct {
	device graphics.Device
	sink   *diag.Sink
	passes []*RenderPass
	vao    uint32
}

// New builds every pass in order. If any pass fails the passes already built
// are released and a *ConstructionError is returned.
func New(device graphics.Device, sink *diag.Sink, specs []PassSpec) (*Pipeline, error) {
	if len(specs) == 0 {
		return nil, &ConstructionError{Err: ErrEmptyPipeline}
	}

	p := &Pipeline{
		device: device,
		sink:   sink,
		passes: make([]*RenderPass, 0, len(specs)),
	}

	for i, spec := range specs {
		sink.Infof("initializing pass %d (%s)", i+1, spec.Source.Name)

		program, err := shader.BuildSource(device, sink, spec.Source)
		if err != nil {
			p.Destroy()
			return nil, &ConstructionError{Index: i, Pass: spec.Source.Name, Err: err}
		}
		pass, err := NewRenderPass(device, spec.Source.Name, spec.Width, spec.Height, program)
		if err != nil {
			p.Destroy()
			return nil, &ConstructionError{Index: i, Pass: spec.Source.Name, Err: err}
		}
		p.passes = append(p.passes, pass)
	}

	// Full-screen triangles are generated from gl_VertexID; core profile still
	// requires a vertex array to be bound for the draw.
	p.vao = device.CreateVertexArray()
	return p, nil
}

// Len returns the number of passes.
func (p *Pipeline) Len() int { return len(p.passes) }

// Pass returns pass i.
func (p *Pipeline) Pass(i int) *RenderPass { return p.passes[i] }

// RunFrame renders every pass in order and presents the last one. A zero-area
// presentation surface (e.g. a minimised window) skips the frame.
func (p *Pipeline) RunFrame(t timing.State, v params.Vector, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	dev := p.device

	for i, pass := range p.passes {
		dev.Viewport(pass.width, pass.height)
		dev.BindFramebuffer(pass.framebuffer)
		dev.Clear(0, 0, 0, 1)
		dev.UseProgram(pass.program.Handle)

		var input uint32
		if i > 0 {
			input = p.passes[i-1].texture
		}
		dev.BindTexture(InputTextureUnit, input)

		p.writeUniforms(pass, t, v)
		dev.DrawTriangles(p.vao, shader.FullscreenVertices)
	}
	dev.BindTexture(InputTextureUnit, 0)

	p.Present(width, height)
}

func (p *Pipeline) writeUniforms(pass *RenderPass, t timing.State, v params.Vector) {
	dev := p.device
	prog := pass.program

	if loc := prog.Location(shader.UniformResolution); loc != shader.NotPresent {
		dev.Uniform2f(loc, float32(pass.width), float32(pass.height))
	}
	if loc := prog.Location(shader.UniformTime); loc != shader.NotPresent {
		dev.Uniform1f(loc, float32(t.Now))
	}
	if loc := prog.Location(shader.UniformSlowTime); loc != shader.NotPresent {
		dev.Uniform1f(loc, float32(t.Slow))
	}
	if loc := prog.Location(shader.UniformThreshold); loc != shader.NotPresent {
		dev.Uniform1f(loc, v[params.Threshold])
	}
	if loc := prog.Location(shader.UniformSmear); loc != shader.NotPresent {
		dev.Uniform1f(loc, v[params.Smear])
	}
	if loc := prog.Location(shader.UniformInput); loc != shader.NotPresent {
		dev.Uniform1i(loc, InputTextureUnit)
	}
}

// Present blits the last pass to the presentation surface with linear
// filtering. A zero-area surface is a no-op.
func (p *Pipeline) Present(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	last := p.passes[len(p.passes)-1]
	p.device.Viewport(width, height)
	p.device.Blit(last.framebuffer, last.width, last.height, width, height, graphics.Linear)
	p.device.BindFramebuffer(graphics.DefaultFramebuffer)
}

// Reload rebuilds the program of pass index from src. When the build fails the
// pass keeps its current program and the error is returned.
func (p *Pipeline) Reload(index int, src shader.Source) error {
	if index < 0 || index >= len(p.passes) {
		return fmt.Errorf("no pass at index %d", index)
	}
	program, err := shader.BuildSource(p.device, p.sink, src)
	if err != nil {
		return err
	}
	p.passes[index].setProgram(p.device, program)
	p.sink.Infof("reloaded pass %d (%s)", index+1, p.passes[index].Name)
	return nil
}

// Destroy releases the passes in reverse creation order, then the vertex array.
func (p *Pipeline) Destroy() {
	for i := len(p.passes) - 1; i >= 0; i-- {
		p.passes[i].Destroy(p.device)
	}
	p.passes = nil
	if p.vao != 0 {
		p.device.DeleteVertexArray(p.vao)
		p.vao = 0
	}
}
