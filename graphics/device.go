package graphics

// Stage is a programmable pipeline stage.
type Stage int

const (
	VertexStage Stage = iota
	FragmentStage
)

func (s Stage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	}
	return "unknown"
}

// Filter selects texture sampling and blit filtering.
type Filter int

const (
	Nearest Filter = iota
	Linear
)

// DefaultFramebuffer is the presentation surface's framebuffer.
const DefaultFramebuffer uint32 = 0

// ShaderDevice is the part of the GL API used to build programs.
type ShaderDevice interface {
	CreateShader(stage Stage) uint32
	CompileShader(shader uint32, source string)
	ShaderCompiled(shader uint32) bool
	ShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	ProgramLinked(program uint32) bool
	ProgramInfoLog(program uint32) string
	DeleteProgram(program uint32)

	// UniformLocation returns -1 when the program has no active uniform called name.
	UniformLocation(program uint32, name string) int32
}

// Device is the subset of OpenGL the render pipeline drives. All calls must be
// made from the goroutine that owns the current context.
type Device interface {
	ShaderDevice

	CreateTexture(width, height int, filter Filter) uint32
	DeleteTexture(texture uint32)
	// CreateFramebuffer attaches texture as colour attachment 0.
	CreateFramebuffer(texture uint32) (uint32, error)
	DeleteFramebuffer(framebuffer uint32)
	CreateVertexArray() uint32
	DeleteVertexArray(vao uint32)

	Viewport(width, height int)
	BindFramebuffer(framebuffer uint32)
	Clear(r, g, b, a float32)
	UseProgram(program uint32)
	BindTexture(unit int, texture uint32)
	Uniform1f(location int32, v float32)
	Uniform2f(location int32, x, y float32)
	Uniform1i(location int32, v int32)
	DrawTriangles(vao uint32, count int)
	// Blit copies the colour of framebuffer into the default framebuffer, scaling
	// the source rectangle onto the destination rectangle.
	Blit(framebuffer uint32, srcWidth, srcHeight, dstWidth, dstHeight int, filter Filter)
	// ReadPixels returns RGBA8 rows, bottom row first.
	ReadPixels(framebuffer uint32, width, height int) []byte
}
