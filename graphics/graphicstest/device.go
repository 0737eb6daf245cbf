// Package graphicstest provides a recording graphics.Device for tests. It keeps
// track of every live GL object and rasterises draws on the CPU with Go kernels
// registered per fragment source, so pass chaining can be checked without a GPU.
package graphicstest

import (
	"fmt"
	"math"
	"regexp"

	"github.com/richinsley/goshadernoise/graphics"
)

// Fragment is the input of a Kernel for one pixel.
type Fragment struct {
	U, V float32
	// Sample reads the texture bound on unit 0 with nearest filtering.
	Sample func(u, v float32) [4]byte
	// Uniform returns the last value written to the named uniform of the program.
	Uniform func(name string) any
}

// Kernel stands in for a fragment shader.
type Kernel func(f Fragment) [4]byte

// Image is an RGBA8 image stored bottom row first, like GL.
type Image struct {
	Width, Height int
	Pix           []byte
}

func newImage(width, height int) *Image {
	return &Image{Width: width, Height: height, Pix: make([]byte, width*height*4)}
}

// At returns the pixel at x, y counted from the bottom-left.
func (img *Image) At(x, y int) [4]byte {
	i := (y*img.Width + x) * 4
	return [4]byte{img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]}
}

func (img *Image) set(x, y int, c [4]byte) {
	i := (y*img.Width + x) * 4
	copy(img.Pix[i:i+4], c[:])
}

type shaderObject struct {
	stage    graphics.Stage
	source   string
	compiled bool
	log      string
}

type programObject struct {
	shaders  []uint32
	vertex   string
	fragment string
	linked   bool
	log      string
	uniforms map[string]int32
	names    map[int32]string
	values   map[string]any
}

type textureObject struct {
	image  *Image
	filter graphics.Filter
}

var uniformDecl = regexp.MustCompile(`uniform\s+\w+\s+(\w+)\s*;`)

// Device is a fake graphics.Device.
type Device struct {
	// CompileHook decides the outcome of a compile. The default succeeds with an empty log.
	CompileHook func(stage graphics.Stage, source string) (ok bool, log string)
	// LinkHook decides the outcome of a link. The default succeeds with an empty log.
	LinkHook func(vertex, fragment string) (ok bool, log string)
	// FramebufferHook can fail framebuffer creation.
	FramebufferHook func(texture uint32) error
	// Kernels rasterise draws keyed by the exact fragment source of the program.
	Kernels map[string]Kernel

	// Calls records every state-changing call in order.
	Calls []string
	// Draws counts DrawTriangles calls.
	Draws int
	// Blits counts Blit calls.
	Blits int
	// InvalidDeletes counts deletes of names that were not live.
	InvalidDeletes int

	next         uint32
	shaders      map[uint32]*shaderObject
	programs     map[uint32]*programObject
	textures     map[uint32]*textureObject
	framebuffers map[uint32]uint32
	vaos         map[uint32]struct{}

	screen      *Image
	viewport    [2]int
	framebuffer uint32
	program     uint32
	units       [8]uint32
}

// New returns a fake device whose presentation surface is width x height.
func New(width, height int) *Device {
	return &Device{
		Kernels:      make(map[string]Kernel),
		shaders:      make(map[uint32]*shaderObject),
		programs:     make(map[uint32]*programObject),
		textures:     make(map[uint32]*textureObject),
		framebuffers: make(map[uint32]uint32),
		vaos:         make(map[uint32]struct{}),
		screen:       newImage(width, height),
	}
}

func (d *Device) name() uint32 {
	d.next++
	return d.next
}

func (d *Device) record(format string, args ...any) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

// Screen returns the presentation surface.
func (d *Device) Screen() *Image { return d.screen }

// LiveShaders returns the number of shader objects not yet deleted.
func (d *Device) LiveShaders() int { return len(d.shaders) }

// LivePrograms returns the number of program objects not yet deleted.
func (d *Device) LivePrograms() int { return len(d.programs) }

// LiveTextures returns the number of textures not yet deleted.
func (d *Device) LiveTextures() int { return len(d.textures) }

// LiveFramebuffers returns the number of framebuffers not yet deleted.
func (d *Device) LiveFramebuffers() int { return len(d.framebuffers) }

// LiveVertexArrays returns the number of vertex arrays not yet deleted.
func (d *Device) LiveVertexArrays() int { return len(d.vaos) }

// Live returns the total number of live objects of every kind.
func (d *Device) Live() int {
	return d.LiveShaders() + d.LivePrograms() + d.LiveTextures() + d.LiveFramebuffers() + d.LiveVertexArrays()
}

// UniformValue returns the last value written to a uniform of program.
func (d *Device) UniformValue(program uint32, name string) (any, bool) {
	p, ok := d.programs[program]
	if !ok {
		return nil, false
	}
	v, ok := p.values[name]
	return v, ok
}

// TextureFilter reports the filter a texture was created with.
func (d *Device) TextureFilter(texture uint32) graphics.Filter {
	return d.textures[texture].filter
}

func (d *Device) CreateShader(stage graphics.Stage) uint32 {
	id := d.name()
	d.shaders[id] = &shaderObject{stage: stage}
	d.record("CreateShader %s %d", stage, id)
	return id
}

func (d *Device) CompileShader(shader uint32, source string) {
	s, ok := d.shaders[shader]
	if !ok {
		return
	}
	s.source = source
	s.compiled = true
	if d.CompileHook != nil {
		s.compiled, s.log = d.CompileHook(s.stage, source)
	}
	d.record("CompileShader %d", shader)
}

func (d *Device) ShaderCompiled(shader uint32) bool {
	s, ok := d.shaders[shader]
	return ok && s.compiled
}

func (d *Device) ShaderInfoLog(shader uint32) string {
	if s, ok := d.shaders[shader]; ok {
		return s.log
	}
	return ""
}

func (d *Device) DeleteShader(shader uint32) {
	if _, ok := d.shaders[shader]; !ok {
		d.InvalidDeletes++
		return
	}
	delete(d.shaders, shader)
	d.record("DeleteShader %d", shader)
}

func (d *Device) CreateProgram() uint32 {
	id := d.name()
	d.programs[id] = &programObject{
		uniforms: make(map[string]int32),
		names:    make(map[int32]string),
		values:   make(map[string]any),
	}
	d.record("CreateProgram %d", id)
	return id
}

func (d *Device) AttachShader(program, shader uint32) {
	p, ok := d.programs[program]
	if !ok {
		return
	}
	p.shaders = append(p.shaders, shader)
	if s, ok := d.shaders[shader]; ok {
		if s.stage == graphics.VertexStage {
			p.vertex = s.source
		} else {
			p.fragment = s.source
		}
	}
}

func (d *Device) LinkProgram(program uint32) {
	p, ok := d.programs[program]
	if !ok {
		return
	}
	p.linked = true
	if d.LinkHook != nil {
		p.linked, p.log = d.LinkHook(p.vertex, p.fragment)
	}
	if p.linked {
		var loc int32
		for _, src := range []string{p.vertex, p.fragment} {
			for _, m := range uniformDecl.FindAllStringSubmatch(src, -1) {
				if _, seen := p.uniforms[m[1]]; seen {
					continue
				}
				p.uniforms[m[1]] = loc
				p.names[loc] = m[1]
				loc++
			}
		}
	}
	d.record("LinkProgram %d", program)
}

func (d *Device) ProgramLinked(program uint32) bool {
	p, ok := d.programs[program]
	return ok && p.linked
}

func (d *Device) ProgramInfoLog(program uint32) string {
	if p, ok := d.programs[program]; ok {
		return p.log
	}
	return ""
}

func (d *Device) DeleteProgram(program uint32) {
	if _, ok := d.programs[program]; !ok {
		d.InvalidDeletes++
		return
	}
	delete(d.programs, program)
	d.record("DeleteProgram %d", program)
}

func (d *Device) UniformLocation(program uint32, name string) int32 {
	p, ok := d.programs[program]
	if !ok {
		return -1
	}
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	return -1
}

func (d *Device) CreateTexture(width, height int, filter graphics.Filter) uint32 {
	id := d.name()
	d.textures[id] = &textureObject{image: newImage(width, height), filter: filter}
	d.record("CreateTexture %d %dx%d", id, width, height)
	return id
}

func (d *Device) DeleteTexture(texture uint32) {
	if _, ok := d.textures[texture]; !ok {
		d.InvalidDeletes++
		return
	}
	delete(d.textures, texture)
	d.record("DeleteTexture %d", texture)
}

func (d *Device) CreateFramebuffer(texture uint32) (uint32, error) {
	if d.FramebufferHook != nil {
		if err := d.FramebufferHook(texture); err != nil {
			return 0, err
		}
	}
	if _, ok := d.textures[texture]; !ok {
		return 0, fmt.Errorf("texture %d does not exist", texture)
	}
	id := d.name()
	d.framebuffers[id] = texture
	d.record("CreateFramebuffer %d", id)
	return id, nil
}

func (d *Device) DeleteFramebuffer(framebuffer uint32) {
	if _, ok := d.framebuffers[framebuffer]; !ok {
		d.InvalidDeletes++
		return
	}
	delete(d.framebuffers, framebuffer)
	d.record("DeleteFramebuffer %d", framebuffer)
}

func (d *Device) CreateVertexArray() uint32 {
	id := d.name()
	d.vaos[id] = struct{}{}
	d.record("CreateVertexArray %d", id)
	return id
}

func (d *Device) DeleteVertexArray(vao uint32) {
	if _, ok := d.vaos[vao]; !ok {
		d.InvalidDeletes++
		return
	}
	delete(d.vaos, vao)
	d.record("DeleteVertexArray %d", vao)
}

func (d *Device) Viewport(width, height int) {
	d.viewport = [2]int{width, height}
	d.record("Viewport %dx%d", width, height)
}

func (d *Device) BindFramebuffer(framebuffer uint32) {
	d.framebuffer = framebuffer
	d.record("BindFramebuffer %d", framebuffer)
}

func (d *Device) target() *Image {
	if d.framebuffer == graphics.DefaultFramebuffer {
		return d.screen
	}
	tex, ok := d.framebuffers[d.framebuffer]
	if !ok {
		return nil
	}
	return d.textures[tex].image
}

func toByte(c float32) byte {
	return byte(math.Round(float64(min(max(c, 0), 1)) * 255))
}

func (d *Device) Clear(r, g, b, a float32) {
	d.record("Clear %g %g %g %g", r, g, b, a)
	img := d.target()
	if img == nil {
		return
	}
	c := [4]byte{toByte(r), toByte(g), toByte(b), toByte(a)}
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			img.set(x, y, c)
		}
	}
}

func (d *Device) UseProgram(program uint32) {
	d.program = program
	d.record("UseProgram %d", program)
}

func (d *Device) BindTexture(unit int, texture uint32) {
	d.units[unit] = texture
	d.record("BindTexture %d %d", unit, texture)
}

func (d *Device) writeUniform(kind string, location int32, v any) {
	d.record("%s %d %v", kind, location, v)
	p, ok := d.programs[d.program]
	if !ok || location < 0 {
		return
	}
	if name, ok := p.names[location]; ok {
		p.values[name] = v
	}
}

func (d *Device) Uniform1f(location int32, v float32) {
	d.writeUniform("Uniform1f", location, v)
}

func (d *Device) Uniform2f(location int32, x, y float32) {
	d.writeUniform("Uniform2f", location, [2]float32{x, y})
}

func (d *Device) Uniform1i(location int32, v int32) {
	d.writeUniform("Uniform1i", location, v)
}

func sampleNearest(img *Image, u, v float32) [4]byte {
	if img == nil || img.Width == 0 || img.Height == 0 {
		return [4]byte{}
	}
	x := min(max(int(u*float32(img.Width)), 0), img.Width-1)
	y := min(max(int(v*float32(img.Height)), 0), img.Height-1)
	return img.At(x, y)
}

func (d *Device) DrawTriangles(vao uint32, count int) {
	d.Draws++
	d.record("DrawTriangles %d %d", vao, count)
	p, ok := d.programs[d.program]
	if !ok {
		return
	}
	kernel, ok := d.Kernels[p.fragment]
	if !ok {
		return
	}
	img := d.target()
	if img == nil {
		return
	}
	var input *Image
	if tex, ok := d.textures[d.units[0]]; ok {
		input = tex.image
	}
	w := min(d.viewport[0], img.Width)
	h := min(d.viewport[1], img.Height)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.set(x, y, kernel(Fragment{
				U:      (float32(x) + 0.5) / float32(d.viewport[0]),
				V:      (float32(y) + 0.5) / float32(d.viewport[1]),
				Sample: func(u, v float32) [4]byte { return sampleNearest(input, u, v) },
				Uniform: func(name string) any {
					return p.values[name]
				},
			}))
		}
	}
}

func (d *Device) Blit(framebuffer uint32, srcWidth, srcHeight, dstWidth, dstHeight int, filter graphics.Filter) {
	d.Blits++
	d.record("Blit %d %dx%d->%dx%d %d", framebuffer, srcWidth, srcHeight, dstWidth, dstHeight, filter)
	tex, ok := d.framebuffers[framebuffer]
	if !ok || dstWidth <= 0 || dstHeight <= 0 {
		return
	}
	src := d.textures[tex].image
	w := min(dstWidth, d.screen.Width)
	h := min(dstHeight, d.screen.Height)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			u := (float32(x) + 0.5) / float32(dstWidth) * float32(srcWidth) / float32(src.Width)
			v := (float32(y) + 0.5) / float32(dstHeight) * float32(srcHeight) / float32(src.Height)
			d.screen.set(x, y, sampleNearest(src, u, v))
		}
	}
}

func (d *Device) ReadPixels(framebuffer uint32, width, height int) []byte {
	out := make([]byte, width*height*4)
	var img *Image
	if framebuffer == graphics.DefaultFramebuffer {
		img = d.screen
	} else if tex, ok := d.framebuffers[framebuffer]; ok {
		img = d.textures[tex].image
	}
	if img == nil {
		return out
	}
	for y := 0; y < min(height, img.Height); y++ {
		for x := 0; x < min(width, img.Width); x++ {
			c := img.At(x, y)
			copy(out[(y*width+x)*4:], c[:])
		}
	}
	return out
}

var _ graphics.Device = (*Device)(nil)
